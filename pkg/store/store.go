package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Collections used by the exporter.
const (
	CollectionEvents   = "events"
	CollectionAccounts = "accounts"
	CollectionValues   = "values"
	CollectionStats    = "stats"
)

// ErrDuplicateKey is returned by Insert when a document with the same id
// already exists in the collection.
var ErrDuplicateKey = errors.New("duplicate key")

// Query selects a page of documents from a collection in insertion order.
type Query struct {
	// Limit caps the number of documents returned. Zero means no limit.
	Limit int
	// Offset skips the first documents of the result.
	Offset int
	// Descending returns the most recently inserted documents first.
	Descending bool
}

// Document is a stored document with its key.
type Document struct {
	ID        string          `json:"id"`
	Body      json.RawMessage `json:"body"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Decode unmarshals the document body into out.
func (d Document) Decode(out any) error {
	return json.Unmarshal(d.Body, out)
}

// DocumentStore is a keyed JSON document store split in collections.
type DocumentStore interface {
	// Insert stores doc under id and fails with ErrDuplicateKey when the id exists.
	Insert(ctx context.Context, collection, id string, doc any) error

	// Upsert stores doc under id, replacing any previous document.
	Upsert(ctx context.Context, collection, id string, doc any) error

	// FindOne decodes the document stored under id into out.
	// It reports false when no such document exists.
	FindOne(ctx context.Context, collection, id string, out any) (bool, error)

	// Find returns a page of documents from the collection.
	Find(ctx context.Context, collection string, query Query) ([]Document, error)

	// Close releases the underlying connections.
	Close() error
}
