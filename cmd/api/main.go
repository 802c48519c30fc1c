package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaosaude/distrito/internal/auth"
	"github.com/gestaosaude/distrito/internal/config"
	"github.com/gestaosaude/distrito/internal/db"
	internalhttp "github.com/gestaosaude/distrito/internal/http"
	"github.com/gestaosaude/distrito/internal/production"
	"github.com/gestaosaude/distrito/internal/profile"
	"github.com/gestaosaude/distrito/internal/vacation"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)
	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)
	authService := auth.NewService(auth.NewRepository(pool), sessions, tokens)

	profileService := profile.NewService(profile.NewRepository(pool))
	productionService := production.NewService(production.NewRepository(pool), profileService)
	vacationService := vacation.NewService(vacation.NewRepository(pool))

	handler := internalhttp.NewRouter(cfg, authService, profileService, productionService, vacationService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
