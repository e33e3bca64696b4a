package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/db"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/internal/migrations"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/russross/meddler"
)

// Compile-time check to ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps documents in a single SQLite table.
// Every operation takes a maintenance hold so VACUUM and WAL
// checkpoints run with exclusive access.
type SQLiteStore struct {
	db          *sql.DB
	maintenance db.Maintenance
	log         *logger.Logger
}

// NewSQLiteStore opens the database, applies migrations and prepares
// background maintenance. Maintenance starts with Start.
func NewSQLiteStore(cfg config.StoreConfig, log *logger.Logger) (*SQLiteStore, error) {
	sqlDB, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return nil, err
	}

	migs, err := migrations.ForDialect(db.DialectSQLite)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := db.RunMigrationsDB(log, sqlDB, db.DialectSQLite, migs); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infow("sqlite document store opened", "path", cfg.DB.Path, "journal_mode", cfg.DB.JournalMode)

	return &SQLiteStore{
		db:          sqlDB,
		maintenance: db.NewMaintenance(cfg.DB.Path, sqlDB, cfg.Maintenance, log),
		log:         log,
	}, nil
}

// Start launches background maintenance when it is configured.
func (s *SQLiteStore) Start(ctx context.Context) error {
	return s.maintenance.Start(ctx)
}

// Insert implements store.DocumentStore.
func (s *SQLiteStore) Insert(ctx context.Context, collection, id string, doc any) (err error) {
	defer observe(config.DriverSQLite, opInsert, collection, time.Now(), &err)

	if err := validateKey(collection, id); err != nil {
		return err
	}

	body, err := encodeBody(doc)
	if err != nil {
		return err
	}

	release := s.maintenance.Hold()
	defer release()

	now := time.Now().UTC().Unix()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, body, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert %s/%s: %w", collection, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrDuplicateKey)
	}

	return nil
}

// Upsert implements store.DocumentStore.
func (s *SQLiteStore) Upsert(ctx context.Context, collection, id string, doc any) (err error) {
	defer observe(config.DriverSQLite, opUpsert, collection, time.Now(), &err)

	if err := validateKey(collection, id); err != nil {
		return err
	}

	body, err := encodeBody(doc)
	if err != nil {
		return err
	}

	release := s.maintenance.Hold()
	defer release()

	now := time.Now().UTC().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, collection, id, body, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", collection, id, err)
	}

	return nil
}

// FindOne implements store.DocumentStore.
func (s *SQLiteStore) FindOne(ctx context.Context, collection, id string, out any) (found bool, err error) {
	defer observe(config.DriverSQLite, opFindOne, collection, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return false, err
	}

	release := s.maintenance.Hold()
	defer release()

	var row documentRow
	err = meddler.QueryRow(s.db, &row, `SELECT * FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find %s/%s: %w", collection, id, err)
	}

	if out != nil {
		if err := row.toDocument().Decode(out); err != nil {
			return false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
	}

	return true, nil
}

// Find implements store.DocumentStore.
func (s *SQLiteStore) Find(ctx context.Context, collection string, q store.Query) (docs []store.Document, err error) {
	defer observe(config.DriverSQLite, opFind, collection, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	release := s.maintenance.Hold()
	defer release()

	var rows []*documentRow
	err = meddler.QueryAll(s.db, &rows, `SELECT * FROM documents WHERE collection = ?`+pageClause(q, true), collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs = make([]store.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.toDocument())
	}

	return docs, nil
}

// Close stops maintenance and closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.maintenance.Stop(); err != nil {
		s.log.Warnf("failed to stop maintenance: %v", err)
	}

	return s.db.Close()
}
