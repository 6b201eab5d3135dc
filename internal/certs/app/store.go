package app

import (
	"fmt"

	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/internal/certs/store/drivers/postgres"
	"github.com/usapupgrade/certs/internal/certs/store/drivers/sqlite"
)

// OpenStore connects to the configured driver and applies migrations.
func OpenStore(cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(cfg.DatabaseURL)
	case DriverSQLite, "":
		db, err = sqlite.NewStore(cfg.DatabaseFile)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	return db, nil
}
