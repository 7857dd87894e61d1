package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/avely/fintrack/internal/dictionary"
	"github.com/avely/fintrack/internal/fintrack"
	"github.com/avely/fintrack/internal/httpapi"
	boltstore "github.com/avely/fintrack/internal/storage/bolt"
	"github.com/avely/fintrack/internal/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	var store httpapi.Store
	var closeFn func()

	if path := strings.TrimSpace(os.Getenv("FINTRACK_DB")); path != "" {
		bs, err := boltstore.Open(path)
		if err != nil {
			logger.Error("failed to open database", "path", path, "err", err)
			os.Exit(1)
		}
		closeFn = func() { _ = bs.Close() }
		store = bs
		logger.Info("storage backend: bolt", "path", path)
	} else {
		store = memory.New()
		logger.Info("storage backend: memory")
	}

	if err := seedOnce(ctx, store, logger); err != nil {
		logger.Error("seeding failed", "err", err)
		os.Exit(1)
	}

	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(store, logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fintrack service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// seedOnce inserts the default category set on the first run against an
// empty store and records that in the settings singleton, so user-deleted
// defaults never come back.
func seedOnce(ctx context.Context, store httpapi.Store, l *slog.Logger) error {
	settings, err := store.Settings(ctx)
	if err != nil {
		return err
	}
	if settings.Seeded {
		return nil
	}
	for _, def := range dictionary.DefaultCategories {
		c := fintrack.Category{ID: uuid.New(), Name: def.Label}
		if err := store.SaveCategory(ctx, c); err != nil {
			return err
		}
	}
	settings.Seeded = true
	if settings.BaseCurrency == "" {
		settings.BaseCurrency = defaultBaseCurrency()
	}
	if err := store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	l.Info("seeded default categories", "count", len(dictionary.DefaultCategories), "base_currency", settings.BaseCurrency)
	return nil
}

func defaultBaseCurrency() string {
	if c := strings.ToUpper(strings.TrimSpace(os.Getenv("FINTRACK_CURRENCY"))); c != "" {
		return c
	}
	return "EUR"
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
