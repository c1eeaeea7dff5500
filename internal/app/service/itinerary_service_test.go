//go:build unit

package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/itinerary"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/logger"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItineraryService_SearchItineraries(t *testing.T) {
	flights := []dto.FlightRecord{
		{Source: "BRQ", Destination: "DPS", Departure: "2024-01-01T06:00:00", Arrival: "2024-01-01T08:00:00", FlightNumber: "GA100"},
		{Source: "DPS", Destination: "HKT", Departure: "2024-01-01T10:00:00", Arrival: "2024-01-01T14:00:00", FlightNumber: "GA200"},
		{Source: "DPS", Destination: "HKT", Departure: "yesterday", Arrival: "2024-01-01T14:00:00", FlightNumber: "GA300"},
	}
	req := dto.SearchItineraryRequest{Flights: flights}

	// what the engine finds for the two valid flights
	want := func(t *testing.T) []dto.Itinerary {
		result := catalog.BuildRecords(context.Background(), req.Records())
		found := itinerary.NewEngine(result.Catalog).All()
		require.Len(t, found, 1)

		return []dto.Itinerary{itinerary.ToDTO(found[0])}
	}(t)

	rejected := []dto.Rejection{{
		Line:  3,
		Error: catalog.BuildRecords(context.Background(), req.Records()).Diagnostics[0].Err.Error(),
	}}

	searchRequest := func(
		req dto.SearchItineraryRequest,
		setupMock func(m *MockItineraryCacher),
		want dto.SearchItineraryResponse,
		wantErr error,
	) func(t *testing.T) {
		return func(t *testing.T) {
			m := NewMockItineraryCacher(t)
			setupMock(m)

			s := &ItineraryService{
				Cache:           m,
				CacheExpiration: 10 * time.Minute,
				LockTimeout:     5 * time.Second,
				MaxFlights:      10,
			}

			got, err := s.SearchItineraries(context.Background(), req)

			if wantErr != nil {
				assert.Error(t, err)
				if !errors.Is(err, wantErr) {
					t.Fatalf("expected error %v, got %v", wantErr, err)
				}
				return
			}

			assert.NoError(t, err)
			// search time is dynamic
			got.Metadata.SearchTimeMs = 0

			diff := cmp.Diff(want, got)
			if diff != "" {
				t.Fatalf("SearchItineraries() mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("cache_hit", searchRequest(
		req,
		func(m *MockItineraryCacher) {
			m.On("GetCacheKey", mock.Anything).Return("cache-key")
			m.On("GetLockKey", mock.Anything).Return("lock-key")
			m.On("GetItineraries", mock.Anything, "cache-key").Return(want, nil)
		},
		dto.SearchItineraryResponse{
			Metadata: dto.Metadata{
				TotalResults:    1,
				FlightsAccepted: 2,
				FlightsRejected: 1,
				CacheHit:        true,
			},
			Itineraries: want,
			Rejected:    rejected,
		},
		nil,
	))

	t.Run("cache_miss_lock_acquired", searchRequest(
		req,
		func(m *MockItineraryCacher) {
			m.On("GetCacheKey", mock.Anything).Return("cache-key")
			m.On("GetLockKey", mock.Anything).Return("lock-key")
			m.On("GetItineraries", mock.Anything, "cache-key").Return(nil, itinerary.ErrCacheMiss)
			m.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
			m.On("SetItineraries", mock.Anything, "cache-key", want, 10*time.Minute).Return(nil)
			m.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		dto.SearchItineraryResponse{
			Metadata: dto.Metadata{
				TotalResults:    1,
				FlightsAccepted: 2,
				FlightsRejected: 1,
			},
			Itineraries: want,
			Rejected:    rejected,
		},
		nil,
	))

	t.Run("cache_miss_lock_held_elsewhere", searchRequest(
		req,
		func(m *MockItineraryCacher) {
			m.On("GetCacheKey", mock.Anything).Return("cache-key")
			m.On("GetLockKey", mock.Anything).Return("lock-key")
			m.On("GetItineraries", mock.Anything, "cache-key").Return(nil, itinerary.ErrCacheMiss)
			m.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(false, nil)
		},
		dto.SearchItineraryResponse{
			Metadata: dto.Metadata{
				TotalResults:    1,
				FlightsAccepted: 2,
				FlightsRejected: 1,
			},
			Itineraries: want,
			Rejected:    rejected,
		},
		nil,
	))

	t.Run("cache_unavailable", searchRequest(
		req,
		func(m *MockItineraryCacher) {
			m.On("GetCacheKey", mock.Anything).Return("cache-key")
			m.On("GetLockKey", mock.Anything).Return("lock-key")
			m.On("GetItineraries", mock.Anything, "cache-key").Return(nil, errors.New("connection refused"))
			m.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(false, errors.New("connection refused"))
		},
		dto.SearchItineraryResponse{
			Metadata: dto.Metadata{
				TotalResults:    1,
				FlightsAccepted: 2,
				FlightsRejected: 1,
			},
			Itineraries: want,
			Rejected:    rejected,
		},
		nil,
	))

	t.Run("filtered_out", searchRequest(
		dto.SearchItineraryRequest{
			Flights:      flights,
			FilterOption: &dto.FilterOption{Via: func() *string { s := "SIN"; return &s }()},
		},
		func(m *MockItineraryCacher) {
			m.On("GetCacheKey", mock.Anything).Return("cache-key")
			m.On("GetLockKey", mock.Anything).Return("lock-key")
			m.On("GetItineraries", mock.Anything, "cache-key").Return(want, nil)
		},
		dto.SearchItineraryResponse{},
		ErrNoItinerariesFound,
	))

	t.Run("no_valid_flights", searchRequest(
		dto.SearchItineraryRequest{Flights: flights[2:]},
		func(m *MockItineraryCacher) {},
		dto.SearchItineraryResponse{},
		ErrNoItinerariesFound,
	))

	t.Run("too_many_flights", searchRequest(
		dto.SearchItineraryRequest{Flights: make([]dto.FlightRecord, 11)},
		func(m *MockItineraryCacher) {},
		dto.SearchItineraryResponse{},
		ErrTooManyFlights,
	))
}

func TestItineraryService_CacheMissIsQuiet(t *testing.T) {
	var logs bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(logger.NewStructuredLogger(slog.LevelWarn, &logs))
	t.Cleanup(func() { slog.SetDefault(prev) })

	m := NewMockItineraryCacher(t)
	m.On("GetCacheKey", mock.Anything).Return("cache-key")
	m.On("GetLockKey", mock.Anything).Return("lock-key")
	m.On("GetItineraries", mock.Anything, "cache-key").Return(nil, itinerary.ErrCacheMiss)
	m.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
	m.On("SetItineraries", mock.Anything, "cache-key", mock.Anything, 10*time.Minute).Return(nil)
	m.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)

	s := NewItineraryService(m, 10*time.Minute, 5*time.Second, 0, nil)

	_, err := s.SearchItineraries(context.Background(), dto.SearchItineraryRequest{
		Flights: []dto.FlightRecord{
			{Source: "BRQ", Destination: "DPS", Departure: "2024-01-01T06:00:00", Arrival: "2024-01-01T08:00:00", FlightNumber: "GA100"},
			{Source: "DPS", Destination: "HKT", Departure: "2024-01-01T10:00:00", Arrival: "2024-01-01T14:00:00", FlightNumber: "GA200"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, logs.String())
}

func TestItineraryService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)

	s := NewItineraryService(nil, time.Minute, time.Second, 0, m)

	_, err := s.SearchItineraries(context.Background(), dto.SearchItineraryRequest{
		Flights: []dto.FlightRecord{
			{Source: "BRQ", Destination: "DPS", Departure: "2024-01-01T06:00:00", Arrival: "2024-01-01T08:00:00", FlightNumber: "GA100"},
			{Source: "DPS", Destination: "HKT", Departure: "2024-01-01T10:00:00", Arrival: "2024-01-01T14:00:00", FlightNumber: "GA200"},
			{Source: "DPS", Destination: "HKT", Departure: "2024-01-01T10:00:00", Arrival: "soon", FlightNumber: "GA300"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItinerariesFound))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsRejected.WithLabelValues("invalid_timestamp")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CacheHits))
}
