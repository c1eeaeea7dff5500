package catalog

import (
	"errors"
	"net/http"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
)

var errTimestamp = errors.New("timestamp does not match " + TimestampLayout)

var ErrMalformedRecord = exception.ApplicationError{
	Message:    "not enough or too many columns",
	StatusCode: http.StatusUnprocessableEntity,
	ExitCode:   2,
}

var ErrInvalidTimestamp = exception.ApplicationError{
	Message:    "datetime format of arrival or departure is wrong",
	StatusCode: http.StatusUnprocessableEntity,
	ExitCode:   3,
}

var ErrInputUnreadable = exception.ApplicationError{
	Message:    "input cannot be read",
	StatusCode: http.StatusBadRequest,
	ExitCode:   4,
}
