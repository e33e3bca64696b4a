package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/internal/metrics"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
)

const (
	opInsert  = "insert"
	opUpsert  = "upsert"
	opFindOne = "find_one"
	opFind    = "find"
)

// Store is a document store backend with an optional background lifecycle.
type Store interface {
	store.DocumentStore

	// Start launches background work such as SQLite maintenance.
	Start(ctx context.Context) error
}

// Open creates the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return NewSQLiteStore(cfg, log)
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

func observe(driver, op, collection string, start time.Time, err *error) {
	metrics.StoreOpInc(driver, op, collection)
	metrics.StoreOpDuration(driver, op, time.Since(start))

	if *err == nil {
		return
	}
	if errors.Is(*err, store.ErrDuplicateKey) {
		metrics.StoreErrorInc(driver, "duplicate_key")
		return
	}

	metrics.StoreErrorInc(driver, op)
}
