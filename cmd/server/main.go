// Package main starts the Endless Heart HTTP server.
//
// @title        Endless Heart API
// @version      1.0
// @description  Accounts, sessions and score history for the Endless Heart game.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jemn/endless-heart/internal/api"
	"github.com/jemn/endless-heart/internal/api/handler"
	"github.com/jemn/endless-heart/internal/api/middleware"
	"github.com/jemn/endless-heart/internal/core/service"
	"github.com/jemn/endless-heart/internal/infrastructure/config"
	"github.com/jemn/endless-heart/internal/infrastructure/db/mongo"
	"github.com/jemn/endless-heart/internal/infrastructure/db/redis"
	"github.com/jemn/endless-heart/pkg/logger"
	"github.com/jemn/endless-heart/web"
)

const readHeaderTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Pretty: true, Service: "endless-heart"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "endless-heart",
	})
	if cfg.IsProduction() && cfg.DefaultSecret() {
		log.Warn().Msg("SESSION_SECRET is unset; using the development secret in production")
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	sessions := redis.NewSessionStore(rdb, cfg.Session.TTL)
	authService := service.NewAuthService(users, sessions, cfg.Session.BcryptCost, log.With().Str("component", "auth").Logger())
	scoreService := service.NewScoreService(users, log.With().Str("component", "scores").Logger())

	e := api.NewRouter(api.Dependencies{
		AuthService:  authService,
		ScoreService: scoreService,
		Sessions:     sessions,
		Cookies: middleware.NewCookieCodec(middleware.CookieConfig{
			Secret: cfg.Session.Secret,
			MaxAge: cfg.Session.TTL,
			Secure: cfg.IsProduction(),
		}),
		Pages: web.Pages,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	return serve(ctx, e, net.JoinHostPort("", cfg.Port), cfg, log)
}

func serve(ctx context.Context, e http.Handler, addr string, cfg *config.Config, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
