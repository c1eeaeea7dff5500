package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
)

type ItineraryService interface {
	SearchItineraries(ctx context.Context, req dto.SearchItineraryRequest) (dto.SearchItineraryResponse, error)
}

type ItineraryEndpoint struct {
	SearchItineraries endpoint.Endpoint
}

func MakeItineraryEndpoint(service ItineraryService) ItineraryEndpoint {
	return ItineraryEndpoint{
		SearchItineraries: makeSearchItinerariesEndpoint(service),
	}
}

func makeSearchItinerariesEndpoint(service ItineraryService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchItineraryRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		resp, err := service.SearchItineraries(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("itinerary service: %w", err)
		}

		return resp, nil
	}
}
