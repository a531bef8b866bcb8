package main

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"dairyops/backend/internal/api"
	"dairyops/backend/internal/config"
	"dairyops/backend/internal/database"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "dairyops").Logger()

	loadEnvFiles(logger, ".env", "backend/.env")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}
	defer pool.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer migrateCancel()
	if err := database.EnsureSchema(migrateCtx, pool, cfg.SchemaPath); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	srv := api.NewServer(pool, cfg, logger)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Mux(),
	}

	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("dairyops backend running")
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		logger.Fatal().Err(err).Msg("server failed")
	case <-shutdown:
		logger.Info().Msg("shutdown initiated")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			_ = httpServer.Close()
		}
	}
}

func loadEnvFiles(logger zerolog.Logger, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := loadEnvFile(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", p).Msg("env file load failed")
		}
	}
}

func loadEnvFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		val = strings.Trim(val, "\"'")
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, val)
		}
	}

	return scanner.Err()
}
