package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/8adimka/Go_Weather_Assistant/internal/agent"
	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/cascade"
	"github.com/8adimka/Go_Weather_Assistant/internal/chat"
	"github.com/8adimka/Go_Weather_Assistant/internal/config"
	"github.com/8adimka/Go_Weather_Assistant/internal/health"
	"github.com/8adimka/Go_Weather_Assistant/internal/httpx"
	"github.com/8adimka/Go_Weather_Assistant/internal/logging"
	"github.com/8adimka/Go_Weather_Assistant/internal/metrics"
	"github.com/8adimka/Go_Weather_Assistant/internal/otel"
	"github.com/8adimka/Go_Weather_Assistant/internal/redisx"
	"github.com/8adimka/Go_Weather_Assistant/internal/retry"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools/factory"
	"github.com/8adimka/Go_Weather_Assistant/internal/weather"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel)))
	slog.Info("Configuration loaded",
		"port", cfg.Port,
		"api_key", cfg.APIKey,
		"openai_api_key", cfg.OpenAIApiKey,
		"openai_model", cfg.OpenAIModel,
		"tool_server_url", cfg.ToolServerURL,
		"tool_endpoint_paths", cfg.ToolEndpointPaths,
		"redis_addr", cfg.RedisAddr,
	)

	shutdown, err := otel.InitOpenTelemetry(ctx, health.ServiceName, chat.Version)
	if err != nil {
		slog.Error("Failed to initialize OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdown(ctx) }()

	appMetrics, err := metrics.NewMetrics(otel.Meter())
	if err != nil {
		slog.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	retryConfig := retry.ConfigFromAppConfig(cfg)
	healthChecker := health.NewHealthChecker()

	// Weather cache: Redis when configured, in-process otherwise.
	var store cachex.Store = cachex.NewMemory(cfg.CacheTTL())
	if cfg.RedisAddr != "" {
		redisClient, err := redisx.Connect(ctx, cfg.RedisAddr, retryConfig)
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer redisClient.Close()
			store = redisx.NewCache(redisClient, cfg.CacheTTL())
			healthChecker.Add("redis", health.RedisCheck(redisClient))
		}
	}

	toolFactory := factory.NewFactory(cfg, store)
	dispatcher := tools.NewDispatcher(toolFactory.CreateAllTools(), appMetrics)

	fallback := cascade.NewLocalFallback(
		weather.NewOpenMeteoGeocoder(weather.GeocoderConfig{
			BaseURL:       cfg.GeocodingAPIURL,
			Timeout:       cfg.ProviderTimeout(),
			RatePerMinute: cfg.ProviderRatePerMin,
		}),
		weather.NewOpenMeteoClient(weather.ClientConfig{
			BaseURL:       cfg.ForecastAPIURL,
			Timezone:      weather.TimezoneAuto,
			Timeout:       cfg.ProviderTimeout(),
			RatePerMinute: cfg.ProviderRatePerMin,
		}),
	)
	toolCascade := cascade.New(cascade.Config{
		BaseURL:     cfg.ToolServerURL,
		Paths:       cfg.ToolEndpointPaths,
		Timeout:     cfg.ToolCallTimeout(),
		MaxFailures: cfg.BreakerMaxFailures,
		Cooldown:    time.Duration(cfg.BreakerCooldownSec) * time.Second,
	}, cascade.NewHTTPTransport(cfg.APIKey), fallback,
		cascade.WithMetrics(appMetrics),
		cascade.WithTracer(otel.Tracer()),
	)

	var responder agent.Responder
	if cfg.OpenAIApiKey != "" {
		responder = agent.NewOpenAIResponder(cfg.OpenAIApiKey, cfg.OpenAIModel, retryConfig, appMetrics)
	}
	weatherAgent := agent.New(toolCascade, responder)

	history := chat.NewHistoryStore(cfg.SessionTTL(), cfg.HistoryLimit)
	server := chat.NewServer(weatherAgent, dispatcher, history, cfg.ToolEndpointPaths)

	security := httpx.NewSecurityMiddleware(httpx.SecurityConfig{
		APIKey:         cfg.APIKey,
		RateLimitRPS:   float64(cfg.RateLimitRPS),
		RateLimitBurst: cfg.RateLimitBurst,
		PublicPaths:    []string{"/health", "/ready", "/metrics", "/info"},
	})

	middleware := []mux.MiddlewareFunc{
		httpx.OTelMiddleware(),
		httpx.Logger(),
		httpx.Recovery(),
		appMetrics.HTTPMetricsMiddleware(),
		security.Middleware(),
	}
	handler := mux.NewRouter()
	handler.Use(middleware...)

	handler.HandleFunc("/health", healthChecker.HealthHandler).Methods(http.MethodGet)
	handler.HandleFunc("/ready", healthChecker.ReadyHandler).Methods(http.MethodGet)
	handler.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	server.Register(handler)
	handler.NotFoundHandler = httpx.Chain(handler.NotFoundHandler, middleware...)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Starting the server...",
			"port", cfg.Port,
			"endpoints", len(toolCascade.Endpoints()),
			"tools", dispatcher.Registry().Count())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}
