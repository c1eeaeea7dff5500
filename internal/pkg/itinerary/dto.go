package itinerary

import (
	"github.com/google/uuid"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/utils"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("flight-itinerary-search/itinerary"))

// ToDTO converts a search result to its response form. The id is derived
// from the output line, so equal itineraries share an id across requests.
func ToDTO(it Itinerary) dto.Itinerary {
	if len(it.Flights) == 0 {
		return dto.Itinerary{}
	}

	first, last := it.Flights[0], it.Flights[len(it.Flights)-1]
	line := Line(it)

	legs := make([]dto.Leg, len(it.Flights))
	route := make([]string, 0, len(it.Flights)+1)
	route = append(route, first.Origin)

	for i, f := range it.Flights {
		legs[i] = dto.Leg{
			FlightNumber: f.FlightNumber,
			Departure:    endpoint(f.Origin, f.Departure),
			Arrival:      endpoint(f.Destination, f.Arrival),
		}

		if i > 0 {
			legs[i].LayoverMinutes = int(f.Departure.Sub(it.Flights[i-1].Arrival.Time).Minutes())
		}

		route = append(route, f.Destination)
	}

	totalMinutes := int(last.Arrival.Sub(first.Departure.Time).Minutes())

	return dto.Itinerary{
		ID:          uuid.NewSHA1(idNamespace, []byte(line)).String(),
		Origin:      first.Origin,
		Destination: last.Destination,
		Stops:       len(it.Flights) - 1,
		Route:       route,
		Departure:   endpoint(first.Origin, first.Departure),
		Arrival:     endpoint(last.Destination, last.Arrival),
		Duration: dto.Duration{
			TotalMinutes: totalMinutes,
			Formatted:    utils.ConvertMinutesToDuration(int64(totalMinutes)),
		},
		Legs: legs,
		Line: line,
	}
}

func endpoint(airport string, ts catalog.Timestamp) dto.Endpoint {
	return dto.Endpoint{
		Airport:   airport,
		Datetime:  ts.String(),
		Timestamp: ts.Unix(),
	}
}
