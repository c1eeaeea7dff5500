package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/exception"
)

var ErrInvalidRequestBody = exception.ApplicationError{
	Message:    "invalid request body",
	StatusCode: http.StatusBadRequest,
}

// MakeHandlerFunc serves e over HTTP, errors are written by ErrorResponse.
func MakeHandlerFunc(
	e endpoint.Endpoint,
	dec kithttp.DecodeRequestFunc,
	enc kithttp.EncodeResponseFunc,
) http.HandlerFunc {
	return kithttp.NewServer(e, dec, enc,
		kithttp.ServerErrorEncoder(ErrorResponse),
	).ServeHTTP
}

// DecodeRequest binds the request body into a new T. *T must implement
// render.Binder; binding failures that are not already application errors
// are reported as ErrInvalidRequestBody.
func DecodeRequest[T any](_ context.Context, r *http.Request) (interface{}, error) {
	var req T

	binder, ok := any(&req).(render.Binder)
	if !ok {
		return nil, errors.New("request type does not implement render.Binder")
	}

	if err := render.Bind(r, binder); err != nil {
		var appErr exception.ApplicationError
		if errors.As(err, &appErr) {
			return nil, err
		}

		return nil, ErrInvalidRequestBody.Wrap(err)
	}

	return &req, nil
}
