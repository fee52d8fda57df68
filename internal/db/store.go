package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/soaringjerry/npspulse/internal/config"
	"github.com/soaringjerry/npspulse/internal/services"
)

// Store is a response store that owns resources to release on shutdown.
type Store interface {
	services.ResponseStore
	io.Closer
}

var (
	_ Store = (*CSVStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverCSV, "":
		return NewCSVStore(cfg.DataPath, log)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, cfg.MigrationsDir, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
