// Package main is the entry point for the order-extraction API server.
//
// Startup order:
//  1. Load .env (best effort) and configuration from the environment.
//  2. Configure zerolog (level, optional pretty console output).
//  3. Open SQLite and run migrations.
//  4. Initialize OpenTelemetry tracing (when enabled).
//  5. Construct the language-model client and optional channel publisher.
//  6. Register routes and serve until SIGINT/SIGTERM, then drain gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mvbarros/go-order-backend/internal/channel"
	"github.com/mvbarros/go-order-backend/internal/config"
	httpapi "github.com/mvbarros/go-order-backend/internal/http"
	"github.com/mvbarros/go-order-backend/internal/llm"
	"github.com/mvbarros/go-order-backend/internal/observability"
	"github.com/mvbarros/go-order-backend/internal/repo"
	"github.com/mvbarros/go-order-backend/internal/services"
	"github.com/mvbarros/go-order-backend/internal/sysutil"

	_ "github.com/mvbarros/go-order-backend/docs" // swagger registration
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	log.Info().Str("version", version).Str("port", cfg.Port).Msg("starting order backend")

	db, err := openDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}

	model, err := llm.New(llm.Config{
		APIKey:           cfg.OpenAI.APIKey,
		BaseURL:          cfg.OpenAI.BaseURL,
		Model:            cfg.OpenAI.Model,
		MaxTokens:        cfg.OpenAI.MaxTokens,
		Temperature:      cfg.OpenAI.Temperature,
		FrequencyPenalty: cfg.OpenAI.FrequencyPenalty,
		Timeout:          cfg.OpenAI.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configure language model client")
	}

	var sender services.ReplySender
	if cfg.Channel.Enabled {
		pub, err := channel.Connect(channel.Config{
			URL:     cfg.Channel.URL,
			Subject: cfg.Channel.Subject,
		})
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.Channel.URL).Msg("connect channel publisher")
		}
		defer pub.Close()
		sender = pub
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{DB: db, Model: model, Channel: sender}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("bye")
}

// openDatabase opens the SQLite store and applies the schema, so a fresh
// deployment is ready for its first write.
func openDatabase(path string) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
