package itinerary

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestFilterItineraries(t *testing.T) {
	items := []dto.Itinerary{
		{
			ID:          "1",
			Origin:      "BRQ",
			Destination: "HKT",
			Route:       []string{"BRQ", "DPS", "HKT"},
			Departure:   dto.Endpoint{Datetime: "2024-01-01T06:00:00"},
			Duration:    dto.Duration{TotalMinutes: 480},
			Legs:        make([]dto.Leg, 2),
		},
		{
			ID:          "2",
			Origin:      "DPS",
			Destination: "BKK",
			Route:       []string{"DPS", "HKT", "SIN", "BKK"},
			Departure:   dto.Endpoint{Datetime: "2024-01-01T13:30:00"},
			Duration:    dto.Duration{TotalMinutes: 900},
			Legs:        make([]dto.Leg, 3),
		},
	}

	filterRequest := func(opts *dto.FilterOption, wantIDs []string) func(t *testing.T) {
		return func(t *testing.T) {
			got := FilterItineraries(context.Background(), items, opts)
			gotIDs := make([]string, len(got))
			for i, it := range got {
				gotIDs[i] = it.ID
			}

			diff := cmp.Diff(wantIDs, gotIDs)
			if diff != "" {
				t.Fatalf("FilterItineraries result mismatch (-want +got):\n%s", diff)
			}
		}
	}

	t.Run("nil_filter", filterRequest(nil, []string{"1", "2"}))
	t.Run("min_legs", filterRequest(&dto.FilterOption{MinLegs: ptr(3)}, []string{"2"}))
	t.Run("max_legs", filterRequest(&dto.FilterOption{MaxLegs: ptr(2)}, []string{"1"}))
	t.Run("origin", filterRequest(&dto.FilterOption{Origin: ptr("DPS")}, []string{"2"}))
	t.Run("destination", filterRequest(&dto.FilterOption{Destination: ptr("HKT")}, []string{"1"}))
	t.Run("via_stopover", filterRequest(&dto.FilterOption{Via: ptr("HKT")}, []string{"2"}))
	t.Run("via_excludes_endpoints", filterRequest(&dto.FilterOption{Via: ptr("BRQ")}, []string{}))
	t.Run("max_duration", filterRequest(&dto.FilterOption{MaxDurationMinutes: ptr(480)}, []string{"1"}))
	t.Run("departure_window", filterRequest(&dto.FilterOption{
		DepartureTimeStart: ptr("12:00"),
		DepartureTimeEnd:   ptr("14:00"),
	}, []string{"2"}))
	t.Run("half_window_ignored", filterRequest(&dto.FilterOption{DepartureTimeStart: ptr("12:00")}, []string{"1", "2"}))
	t.Run("no_match", filterRequest(&dto.FilterOption{Origin: ptr("XXX")}, []string{}))
}

func TestIsWithinTimeRange_Closure(t *testing.T) {
	timeRangeRequest := func(target, start, end string, want bool) func(t *testing.T) {
		return func(t *testing.T) {
			got := isWithinTimeRange(context.Background(), target, start, end)
			assert.Equal(t, want, got)
		}
	}

	t.Run("within_range", timeRangeRequest("2024-01-01T14:30:00", "12:00", "16:00", true))
	t.Run("inclusive_end_hour", timeRangeRequest("2024-01-01T16:45:00", "12:00", "16:00", true))
	t.Run("before_range", timeRangeRequest("2024-01-01T11:59:00", "12:00", "16:00", false))
	t.Run("after_range", timeRangeRequest("2024-01-01T17:00:00", "12:00", "16:00", false))
	t.Run("bad_target", timeRangeRequest("yesterday", "12:00", "16:00", false))
	t.Run("bad_start", timeRangeRequest("2024-01-01T14:30:00", "noon", "16:00", false))
	t.Run("bad_end", timeRangeRequest("2024-01-01T14:30:00", "12:00", "4pm", false))
}
