package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/db"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/internal/migrations"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Compile-time check to ensure PostgresStore implements the Store interface.
var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps documents as JSONB rows in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewPostgresStore connects to the configured DSN and applies migrations.
func NewPostgresStore(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	migs, err := migrations.ForDialect(db.DialectPostgres)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	err = db.RunMigrationsDB(log, sqlDB, db.DialectPostgres, migs)
	sqlDB.Close()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infow("postgres document store opened", "host", pool.Config().ConnConfig.Host)

	return &PostgresStore{pool: pool, log: log}, nil
}

// Start implements Store. Postgres needs no background maintenance.
func (s *PostgresStore) Start(context.Context) error {
	return nil
}

// Insert implements store.DocumentStore.
func (s *PostgresStore) Insert(ctx context.Context, collection, id string, doc any) (err error) {
	defer observe(config.DriverPostgres, opInsert, collection, time.Now(), &err)

	if err := validateKey(collection, id); err != nil {
		return err
	}

	body, err := encodeBody(doc)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Unix()
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		ON CONFLICT (collection, id) DO NOTHING
	`, collection, id, body, now)
	if err != nil {
		return fmt.Errorf("failed to insert %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, store.ErrDuplicateKey)
	}

	return nil
}

// Upsert implements store.DocumentStore.
func (s *PostgresStore) Upsert(ctx context.Context, collection, id string, doc any) (err error) {
	defer observe(config.DriverPostgres, opUpsert, collection, time.Now(), &err)

	if err := validateKey(collection, id); err != nil {
		return err
	}

	body, err := encodeBody(doc)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Unix()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		ON CONFLICT (collection, id) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`, collection, id, body, now)
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", collection, id, err)
	}

	return nil
}

// FindOne implements store.DocumentStore.
func (s *PostgresStore) FindOne(ctx context.Context, collection, id string, out any) (found bool, err error) {
	defer observe(config.DriverPostgres, opFindOne, collection, time.Now(), &err)

	rows, err := s.pool.Query(ctx, `
		SELECT seq, collection, id, body::text AS body, created_at, updated_at
		FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to find %s/%s: %w", collection, id, err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[documentRow])
	if errors.Is(err, pgx.ErrNoRows) {
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
func (s *PostgresStore) Find(ctx context.Context, collection string, q store.Query) (docs []store.Document, err error) {
	defer observe(config.DriverPostgres, opFind, collection, time.Now(), &err)

	rows, err := s.pool.Query(ctx, `
		SELECT seq, collection, id, body::text AS body, created_at, updated_at
		FROM documents WHERE collection = $1`+pageClause(q, false), collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[documentRow])
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs = make([]store.Document, 0, len(found))
	for i := range found {
		docs = append(docs, found[i].toDocument())
	}

	return docs, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
