package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soaringjerry/npspulse/internal/api"
	"github.com/soaringjerry/npspulse/internal/config"
	"github.com/soaringjerry/npspulse/internal/db"
	"github.com/soaringjerry/npspulse/internal/logging"
	"github.com/soaringjerry/npspulse/internal/middleware"
	"github.com/soaringjerry/npspulse/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $NPS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)

	ctx := context.Background()
	if err := MigrateIfNeeded(ctx, cfg.Store, logger); err != nil {
		logger.Error("legacy data import failed", "err", err)
		os.Exit(1)
	}

	store, err := db.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open response store", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing response store failed", "err", err)
		}
	}()

	links := middleware.NewExportLinks(cfg.Export.LinkSecret, cfg.Export.LinkTTL)
	if !links.Enabled() {
		logger.Info("export download links disabled; set NPS_EXPORT_SECRET to enable")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))
	r.Use(middleware.NoStore)
	r.Use(middleware.LocaleMiddleware)

	api.NewRouter(store, links, logger).Register(r)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		locale := middleware.LocaleFromContext(r.Context())
		writeJSON(w, map[string]any{
			"ok":         true,
			"name":       "NPS Survey API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"store":      cfg.Store.Driver,
			"commit":     cfg.Build.Commit,
			"build_time": cfg.Build.BuildTime,
		})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"commit":     cfg.Build.Commit,
			"build_time": cfg.Build.BuildTime,
		})
	})
	if cfg.HTTP.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.HTTP.StaticDir)))
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("NPS server listening", "addr", cfg.HTTP.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
