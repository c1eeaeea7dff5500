package dto

import (
	"fmt"
	"net/http"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
)

// FlightRecord is one flight of the search request, fields as in the text input.
type FlightRecord struct {
	Source       string `json:"source" validate:"required,field_token"`
	Destination  string `json:"destination" validate:"required,field_token"`
	Departure    string `json:"departure" validate:"required"`
	Arrival      string `json:"arrival" validate:"required"`
	FlightNumber string `json:"flight_number" validate:"required,field_token"`
}

// Fields returns the record in input column order.
func (f FlightRecord) Fields() []string {
	return []string{f.Source, f.Destination, f.Departure, f.Arrival, f.FlightNumber}
}

type SearchItineraryRequest struct {
	Flights      []FlightRecord `json:"flights" validate:"required,min=1,dive"`
	SortOption   *SortOption    `json:"sort_option,omitempty"`
	FilterOption *FilterOption  `json:"filter_option,omitempty"`
}

func (s *SearchItineraryRequest) Bind(r *http.Request) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

// Records returns the flights split into fields, in request order.
func (s *SearchItineraryRequest) Records() [][]string {
	records := make([][]string, len(s.Flights))
	for i, f := range s.Flights {
		records[i] = f.Fields()
	}

	return records
}

func (s *SearchItineraryRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if s.SortOption != nil {
		if !AllowedSortField[s.SortOption.Field] {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("Invalid sort field %s", s.SortOption.Field),
			}
		}
	}

	if s.FilterOption != nil {
		if s.FilterOption.MinLegs != nil && s.FilterOption.MaxLegs != nil &&
			*s.FilterOption.MaxLegs < *s.FilterOption.MinLegs {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "max_legs must be greater than or equal to min_legs",
			}
		}

		if (s.FilterOption.DepartureTimeStart == nil) != (s.FilterOption.DepartureTimeEnd == nil) {
			return exception.ApplicationError{
				StatusCode: http.StatusBadRequest,
				Message:    "departure_time_start and departure_time_end must be set together",
			}
		}
	}

	return nil
}

type FilterOption struct {
	MinLegs            *int    `json:"min_legs,omitempty" validate:"omitempty,gte=2"`
	MaxLegs            *int    `json:"max_legs,omitempty" validate:"omitempty,gte=2"`
	Origin             *string `json:"origin,omitempty"`
	Destination        *string `json:"destination,omitempty"`
	Via                *string `json:"via,omitempty"`
	MaxDurationMinutes *int    `json:"max_duration_minutes,omitempty" validate:"omitempty,gte=0"`
	DepartureTimeStart *string `json:"departure_time_start,omitempty" validate:"omitempty,datetime=15:04"`
	DepartureTimeEnd   *string `json:"departure_time_end,omitempty" validate:"omitempty,datetime=15:04"`
}

var AllowedSortField = map[string]bool{
	"":               true,
	"legs":           true,
	"duration":       true,
	"departure_time": true,
	"arrival_time":   true,
}

type SortOption struct {
	Field string `json:"field"`
	Order string `json:"order" validate:"omitempty,oneof=asc desc"`
}

type Endpoint struct {
	Airport   string `json:"airport"`
	Datetime  string `json:"datetime"`
	Timestamp int64  `json:"timestamp"`
}

type Duration struct {
	TotalMinutes int    `json:"total_minutes"`
	Formatted    string `json:"formatted"`
}

type Leg struct {
	FlightNumber   string   `json:"flight_number"`
	Departure      Endpoint `json:"departure"`
	Arrival        Endpoint `json:"arrival"`
	LayoverMinutes int      `json:"layover_minutes,omitempty"`
}

type Itinerary struct {
	ID          string   `json:"id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Stops       int      `json:"stops"`
	Route       []string `json:"route"`
	Departure   Endpoint `json:"departure"`
	Arrival     Endpoint `json:"arrival"`
	Duration    Duration `json:"duration"`
	Legs        []Leg    `json:"legs"`
	Line        string   `json:"line"`
}

type Rejection struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type Metadata struct {
	TotalResults    int  `json:"total_results"`
	FlightsAccepted int  `json:"flights_accepted"`
	FlightsRejected int  `json:"flights_rejected"`
	SearchTimeMs    int  `json:"search_time_ms"`
	CacheHit        bool `json:"cache_hit"`
}

// SearchItineraryResponse is the response struct for the search itinerary endpoint
type SearchItineraryResponse struct {
	Metadata    Metadata    `json:"metadata"`
	Itineraries []Itinerary `json:"itineraries"`
	Rejected    []Rejection `json:"rejected"`
}
