package service

import (
	"net/http"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
)

var ErrNoItinerariesFound = exception.ApplicationError{
	Message:    "no itineraries found",
	StatusCode: http.StatusNotFound,
}

var ErrTooManyFlights = exception.ApplicationError{
	Message:    "too many flights in request",
	StatusCode: http.StatusBadRequest,
}
