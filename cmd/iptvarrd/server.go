package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/iptvarr/internal/api/v1"
	"github.com/vmunix/iptvarr/internal/catalog"
	"github.com/vmunix/iptvarr/internal/config"
	"github.com/vmunix/iptvarr/internal/events"
	"github.com/vmunix/iptvarr/internal/migrations"
	"github.com/vmunix/iptvarr/internal/resolve"
	"github.com/vmunix/iptvarr/internal/server"
	"github.com/vmunix/iptvarr/internal/syncer"
	"github.com/vmunix/iptvarr/internal/xtream"
	"github.com/vmunix/iptvarr/pkg/title"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Register configured sources, preserving sync state across restarts.
	store := catalog.NewStore(db)
	for _, src := range cfg.Sources {
		if err := store.UpsertSource(&catalog.Source{
			Name:     src.Name,
			BaseURL:  src.URL,
			Username: src.Username,
			Password: src.Password,
		}); err != nil {
			return fmt.Errorf("register source %q: %w", src.Name, err)
		}
	}

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer bus.Close()

	// === Services ===
	provider := xtream.NewProvider(logger)
	sync := syncer.New(store, provider, title.NewParser(), bus, logger, syncer.Options{
		Freshness:    cfg.Sync.Freshness.Duration,
		FetchTimeout: cfg.Sync.FetchTimeout.Duration,
		BatchSize:    cfg.Sync.BatchSize,
		Concurrency:  cfg.Sync.Concurrency,
	})
	resolver := resolve.NewResolver(store, title.NewParser(), logger)

	// === Background Jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := server.NewRunner(sync, eventLog, server.Config{
		SyncInterval: cfg.Sync.Interval.Duration,
	}, logger)
	go func() {
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("runner stopped", "error", err)
		}
	}()

	// === HTTP Setup ===
	mux := http.NewServeMux()
	apiV1 := v1.New(db, v1.Config{
		Version:             version,
		PreferredLanguage:   cfg.Preferences.Language,
		PreferredResolution: cfg.Preferences.Resolution,
	})
	apiV1.SetResolver(resolver)
	apiV1.SetSyncer(sync)
	apiV1.SetBus(bus)
	apiV1.SetEventLog(eventLog)
	apiV1.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"sources", len(cfg.Sources),
		"sync_interval", cfg.Sync.Interval.Duration.String(),
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Stops the scheduler and any in-flight sync passes.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
