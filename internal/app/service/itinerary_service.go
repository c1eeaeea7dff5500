package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/itinerary"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/metrics"
)

type ItineraryCacher interface {
	GetLockKey(c *catalog.Catalog) string
	GetCacheKey(c *catalog.Catalog) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetItineraries(ctx context.Context, key string) ([]dto.Itinerary, error)
	SetItineraries(ctx context.Context,
		key string,
		items []dto.Itinerary,
		expiration time.Duration,
	) error
}

type ItineraryService struct {
	Cache           ItineraryCacher
	CacheExpiration time.Duration
	LockTimeout     time.Duration
	MaxFlights      int
	Metrics         *metrics.Metrics
}

func NewItineraryService(cache ItineraryCacher,
	cacheExpiration time.Duration,
	lockTimeout time.Duration,
	maxFlights int,
	m *metrics.Metrics) *ItineraryService {
	return &ItineraryService{
		Cache:           cache,
		CacheExpiration: cacheExpiration,
		LockTimeout:     lockTimeout,
		MaxFlights:      maxFlights,
		Metrics:         m,
	}
}

// SearchItineraries builds a catalog from the request flights and returns
// every connecting itinerary of at least two flights, filtered and sorted
// as requested. Rejected flights are reported, not fatal.
//
// @Summary      Search itineraries
// @Tags         Itineraries
// @Description  Find all connecting flight itineraries in the submitted flights
// @Param        request  body      dto.SearchItineraryRequest  true  "Flights and options"
// @Success      200      {object}  dto.SearchItineraryResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/v1/itineraries/search [post]
func (s *ItineraryService) SearchItineraries(
	ctx context.Context,
	req dto.SearchItineraryRequest,
) (dto.SearchItineraryResponse, error) {
	if s.MaxFlights > 0 && len(req.Flights) > s.MaxFlights {
		return dto.SearchItineraryResponse{}, ErrTooManyFlights
	}

	startTime := time.Now()
	s.observe(func(m *metrics.Metrics) { m.SearchesTotal.Inc() })

	result := catalog.BuildRecords(ctx, req.Records())

	rejected := make([]dto.Rejection, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		rejected = append(rejected, dto.Rejection{Line: d.Line, Error: d.Err.Error()})
		s.observe(func(m *metrics.Metrics) { m.RecordsRejected.WithLabelValues(rejectionReason(d.Err)).Inc() })
	}

	items, cacheHit := s.search(ctx, result.Catalog)

	items = itinerary.FilterItineraries(ctx, items, req.FilterOption)
	items = itinerary.SortItineraries(items, req.SortOption)

	metadata := dto.Metadata{
		TotalResults:    len(items),
		FlightsAccepted: result.Catalog.Len(),
		FlightsRejected: len(result.Diagnostics),
		SearchTimeMs:    int(time.Since(startTime).Milliseconds()),
		CacheHit:        cacheHit,
	}

	s.observe(func(m *metrics.Metrics) {
		m.ItinerariesFound.Add(float64(len(items)))
		m.SearchDuration.Observe(time.Since(startTime).Seconds())
		if cacheHit {
			m.CacheHits.Inc()
		}
	})

	if len(items) == 0 {
		return dto.SearchItineraryResponse{}, ErrNoItinerariesFound
	}

	return dto.SearchItineraryResponse{
		Metadata:    metadata,
		Itineraries: items,
		Rejected:    rejected,
	}, nil
}

// search returns the itineraries of c, from cache when possible. Cache
// failures only degrade to an uncached search.
func (s *ItineraryService) search(ctx context.Context, c *catalog.Catalog) ([]dto.Itinerary, bool) {
	if s.Cache == nil || c.Len() == 0 {
		return s.run(c), false
	}

	cacheKey := s.Cache.GetCacheKey(c)
	lockKey := s.Cache.GetLockKey(c)

	items, err := s.Cache.GetItineraries(ctx, cacheKey)
	switch {
	case err == nil:
		return items, true
	case errors.Is(err, itinerary.ErrCacheMiss):
		slog.DebugContext(ctx, "itineraries not cached", slog.String("key", cacheKey))
	default:
		slog.WarnContext(ctx, "failed to get itineraries from cache", slog.String("error", err.Error()))
	}

	items = s.run(c)

	// concurrent requests for the same catalog all search, only the lock
	// holder writes the result back
	acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.LockTimeout)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire lock", slog.String("error", err.Error()))
		return items, false
	}

	if !acquired {
		return items, false
	}

	defer func() {
		if err := s.Cache.ReleaseLock(ctx, lockKey); err != nil {
			slog.WarnContext(ctx, "failed to release lock", slog.String("error", err.Error()))
		}
	}()

	if err := s.Cache.SetItineraries(ctx, cacheKey, items, s.CacheExpiration); err != nil {
		slog.WarnContext(ctx, "failed to set itineraries to cache", slog.String("error", err.Error()))
	}

	return items, false
}

func (s *ItineraryService) run(c *catalog.Catalog) []dto.Itinerary {
	found := itinerary.NewEngine(c).All()

	items := make([]dto.Itinerary, len(found))
	for i, it := range found {
		items[i] = itinerary.ToDTO(it)
	}

	return items
}

func (s *ItineraryService) observe(fn func(m *metrics.Metrics)) {
	if s.Metrics != nil {
		fn(s.Metrics)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, catalog.ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, catalog.ErrInvalidTimestamp):
		return "invalid_timestamp"
	default:
		return "unknown"
	}
}
