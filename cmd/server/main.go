package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quickchat/chat-server-go/internal/config"
	"github.com/quickchat/chat-server-go/internal/handler"
	"github.com/quickchat/chat-server-go/internal/metrics"
	"github.com/quickchat/chat-server-go/internal/middleware"
	"github.com/quickchat/chat-server-go/internal/redis"
	"github.com/quickchat/chat-server-go/internal/service"
	"github.com/quickchat/chat-server-go/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	metrics.Register()

	// Backend selection happens exactly once. A redis failure here degrades
	// to the in-process map for the lifetime of the process; there is no
	// reconnect loop.
	var kv store.KV
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("redis unavailable, using in-memory session storage")
		} else {
			defer redisClient.Close()
			kv = redisClient
			log.Info().Msg("redis connected")
		}
	} else {
		log.Info().Msg("REDIS_URL not set, using in-memory session storage")
	}

	sessionStore := store.New(kv, cfg.SessionTTL())
	log.Info().Str("mode", string(sessionStore.Mode())).Msg("session store ready")

	rateLimitMiddleware := middleware.NewIPRateLimitMiddleware(cfg.RateLimitPerMin, config.RateLimitWindow)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	sessionService := service.NewSessionService(sessionStore)
	sessionHandler := handler.NewSessionHandler(sessionService, rateLimitMiddleware.Handler)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"storage":   string(sessionStore.Mode()),
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", sessionHandler.Routes())
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
