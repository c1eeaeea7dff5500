package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/config"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/endpoints"
	httptransport "github.com/ijalalfrz/flight-itinerary-search/internal/pkg/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
// limiter may be nil to disable rate limiting.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
	limiter httptransport.Limiter,
	gatherer prometheus.Gatherer,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1/itineraries", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			httptransport.RateLimit(limiter, "itinerary-search", cfg.Search.RateLimitRPS),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/search", httptransport.MakeHandlerFunc(
			endpts.ItineraryEndpoint.SearchItineraries,
			httptransport.DecodeRequest[dto.SearchItineraryRequest],
			httptransport.ResponseWithBody,
		))
	})

	return router
}
