package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/goran-ethernal/ChainExporter/pkg/store"
)

// documentRow is the storage representation shared by both backends.
type documentRow struct {
	Seq        int64  `meddler:"seq,pk" db:"seq"`
	Collection string `meddler:"collection" db:"collection"`
	ID         string `meddler:"id" db:"id"`
	Body       string `meddler:"body" db:"body"`
	CreatedAt  int64  `meddler:"created_at" db:"created_at"`
	UpdatedAt  int64  `meddler:"updated_at" db:"updated_at"`
}

func (r *documentRow) toDocument() store.Document {
	return store.Document{
		ID:        r.ID,
		Body:      json.RawMessage(r.Body),
		UpdatedAt: time.Unix(r.UpdatedAt, 0).UTC(),
	}
}

func encodeBody(doc any) (string, error) {
	if raw, ok := doc.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return "", fmt.Errorf("invalid JSON document")
		}
		return string(raw), nil
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	return string(b), nil
}

func validateKey(collection, id string) error {
	if collection == "" {
		return fmt.Errorf("collection is required")
	}
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	return nil
}

// pageClause renders ORDER BY / LIMIT / OFFSET for a query. SQLite only
// accepts OFFSET after a LIMIT, so offsetNeedsLimit adds an unbounded one.
func pageClause(q store.Query, offsetNeedsLimit bool) string {
	clause := " ORDER BY seq ASC"
	if q.Descending {
		clause = " ORDER BY seq DESC"
	}

	switch {
	case q.Limit > 0:
		clause += fmt.Sprintf(" LIMIT %d", q.Limit)
	case q.Offset > 0 && offsetNeedsLimit:
		clause += " LIMIT -1"
	}
	if q.Offset > 0 {
		clause += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	return clause
}
