package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/soaringjerry/npspulse/internal/config"
	dbstore "github.com/soaringjerry/npspulse/internal/db"
)

// MigrateIfNeeded copies an existing CSV data file into a fresh SQLite
// database the first time the sqlite driver is used. It is a no-op for the
// csv driver, when the database already exists, or when there is no CSV file.
func MigrateIfNeeded(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) error {
	if cfg.Driver != config.DriverSQLite {
		return nil
	}
	if cfg.SQLitePath == "" {
		return errors.New("sqlite path is required")
	}
	if _, err := os.Stat(cfg.SQLitePath); err == nil {
		return nil // already migrated
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check sqlite file: %w", err)
	}
	if cfg.DataPath == "" {
		return nil
	}
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	legacy, err := dbstore.NewCSVStore(cfg.DataPath, log)
	if err != nil {
		return fmt.Errorf("open legacy csv: %w", err)
	}
	rows, err := legacy.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load legacy csv: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	log.Info("first run with sqlite, importing legacy CSV data", "from", cfg.DataPath, "rows", len(rows))
	// A leftover database file would mark the import as done on the next start.
	dst, err := dbstore.OpenSQLite(ctx, cfg.SQLitePath, cfg.MigrationsDir, log)
	if err != nil {
		removeSQLiteFiles(cfg.SQLitePath, log)
		return fmt.Errorf("init sqlite store: %w", err)
	}
	if err := dst.Import(ctx, rows); err != nil {
		_ = dst.Close()
		removeSQLiteFiles(cfg.SQLitePath, log)
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dst.Close(); err != nil {
		log.Warn("failed to close sqlite db", "err", err)
	}
	log.Info("legacy data import completed")
	return nil
}

func removeSQLiteFiles(path string, log *slog.Logger) {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove partial sqlite file", "path", p, "err", err)
		}
	}
}
