package itinerary

import (
	"sort"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
)

// SortItineraries orders items in place. Without a sort field the search
// order is kept. Sorting is stable so ties keep search order too.
func SortItineraries(items []dto.Itinerary, sortOption *dto.SortOption) []dto.Itinerary {
	var (
		option = ""
		order  = "asc"
	)
	if sortOption != nil {
		option = sortOption.Field
		if sortOption.Order != "" {
			order = sortOption.Order
		}
	}

	var key func(item dto.Itinerary) int64

	switch option {
	case "legs":
		key = func(item dto.Itinerary) int64 { return int64(len(item.Legs)) }
	case "duration":
		key = func(item dto.Itinerary) int64 { return int64(item.Duration.TotalMinutes) }
	case "departure_time":
		key = func(item dto.Itinerary) int64 { return item.Departure.Timestamp }
	case "arrival_time":
		key = func(item dto.Itinerary) int64 { return item.Arrival.Timestamp }
	default:
		return items
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order == "asc" {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})

	return items
}
