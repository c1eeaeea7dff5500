package itinerary

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
)

func FilterItineraries(ctx context.Context, items []dto.Itinerary, filterOpts *dto.FilterOption) []dto.Itinerary {
	if filterOpts == nil {
		return items
	}

	results := make([]dto.Itinerary, 0, len(items))

	for _, item := range items {
		if filterOpts.MinLegs != nil && len(item.Legs) < *filterOpts.MinLegs {
			continue
		}

		if filterOpts.MaxLegs != nil && len(item.Legs) > *filterOpts.MaxLegs {
			continue
		}

		if filterOpts.Origin != nil && *filterOpts.Origin != item.Origin {
			continue
		}

		if filterOpts.Destination != nil && *filterOpts.Destination != item.Destination {
			continue
		}

		// origin and final destination are not stopovers
		if filterOpts.Via != nil && !slices.Contains(stopovers(item), *filterOpts.Via) {
			continue
		}

		if filterOpts.MaxDurationMinutes != nil && item.Duration.TotalMinutes > *filterOpts.MaxDurationMinutes {
			continue
		}

		if filterOpts.DepartureTimeStart != nil && filterOpts.DepartureTimeEnd != nil {
			if !isWithinTimeRange(ctx, item.Departure.Datetime, *filterOpts.DepartureTimeStart, *filterOpts.DepartureTimeEnd) {
				continue
			}
		}

		results = append(results, item)
	}

	return results
}

func stopovers(item dto.Itinerary) []string {
	if len(item.Route) < 3 {
		return nil
	}

	return item.Route[1 : len(item.Route)-1]
}

// startTime and endTime are wall clock HH:MM, compared by hour against the
// departure of the first leg, both ends inclusive.
func isWithinTimeRange(ctx context.Context, targetTime string, startTime string, endTime string) bool {
	targetTimeParsed, err := time.Parse(catalog.TimestampLayout, targetTime)
	if err != nil {
		return false
	}

	startTimeParsed, err := time.Parse("15:04", startTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse start time", slog.String("time", startTime), slog.Any("error", err))
		return false
	}

	endTimeParsed, err := time.Parse("15:04", endTime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse end time", slog.String("time", endTime), slog.Any("error", err))
		return false
	}

	return targetTimeParsed.Hour() >= startTimeParsed.Hour() &&
		targetTimeParsed.Hour() <= endTimeParsed.Hour()
}
