package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/config"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/endpoints"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/service"
	"github.com/ijalalfrz/flight-itinerary-search/internal/app/transport"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/itinerary"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/logger"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// @title           Flight Itinerary Search API
// @version         0.0.1
// @description     flight-itinerary-search
// @host      localhost:8080
// @BasePath  /
func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel, os.Stdout)

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cancel, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cancel context.CancelFunc, cfg config.Config) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		// searches still work uncached
		slog.WarnContext(ctx, "redis is not reachable", slog.String("addr", cfg.Redis.Addr), slog.String("error", err.Error()))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	endpts := makeEndpoints(ctx, &cfg, redisClient, metrics.NewMetrics(cfg.Metrics.Namespace, registry))
	router := transport.MakeHTTPRouter(&cfg, endpts, redis_rate.NewLimiter(redisClient), registry)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.Timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config,
	redisClient *redis.Client, m *metrics.Metrics) endpoints.Endpoints {
	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	// cache
	itineraryCache := itinerary.NewItineraryCache(redisClient)

	// service
	itineraryService := service.NewItineraryService(itineraryCache,
		cfg.Search.CacheExpiration, cfg.Search.LockTimeout, cfg.Search.MaxFlights, m)

	// init service endpoint
	return endpoints.Endpoints{
		ItineraryEndpoint: endpoints.MakeItineraryEndpoint(itineraryService),
	}
}
