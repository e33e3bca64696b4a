package exporter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goran-ethernal/ChainExporter/pkg/store"
)

const checkpointSuffix = ".bestBlock"

// CheckpointKey returns the values-collection key of an exporter checkpoint.
func CheckpointKey(exporter string) string {
	return exporter + checkpointSuffix
}

// CheckpointDoc is the stored form of a checkpoint.
type CheckpointDoc struct {
	Key   string `json:"key"`
	Value uint64 `json:"value"`
}

// Checkpoint is the best block of one exporter. Saves are serialized and
// never move the stored value backwards.
type Checkpoint struct {
	store store.DocumentStore
	key   string

	mu    sync.Mutex
	value uint64
	saved bool
}

// NewCheckpoint creates a checkpoint bound to the given exporter name.
func NewCheckpoint(s store.DocumentStore, exporter string) *Checkpoint {
	return &Checkpoint{store: s, key: CheckpointKey(exporter)}
}

// Load reads the stored checkpoint, falling back to startBlock when none is stored.
func (c *Checkpoint) Load(ctx context.Context, startBlock uint64) (uint64, error) {
	var doc CheckpointDoc
	found, err := c.store.FindOne(ctx, store.CollectionValues, c.key, &doc)
	if err != nil {
		return 0, fmt.Errorf("failed to read checkpoint %s: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !found {
		c.value, c.saved = startBlock, false
		return startBlock, nil
	}

	c.value, c.saved = doc.Value, true

	return doc.Value, nil
}

// Save stores block as the new checkpoint. It reports false without writing
// when block is below the current value.
func (c *Checkpoint) Save(ctx context.Context, block uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.saved && block <= c.value {
		return false, nil
	}
	if !c.saved && block < c.value {
		return false, nil
	}

	if err := c.store.Upsert(ctx, store.CollectionValues, c.key, CheckpointDoc{Key: c.key, Value: block}); err != nil {
		return false, fmt.Errorf("failed to save checkpoint %s: %w", c.key, err)
	}

	c.value, c.saved = block, true

	return true, nil
}

// Value returns the last loaded or saved checkpoint.
func (c *Checkpoint) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.value
}

// ListCheckpoints returns every stored exporter checkpoint.
func ListCheckpoints(ctx context.Context, s store.DocumentStore) ([]CheckpointDoc, error) {
	docs, err := s.Find(ctx, store.CollectionValues, store.Query{})
	if err != nil {
		return nil, err
	}

	var out []CheckpointDoc
	for _, d := range docs {
		if !strings.HasSuffix(d.ID, checkpointSuffix) {
			continue
		}

		var cp CheckpointDoc
		if err := d.Decode(&cp); err != nil {
			return nil, fmt.Errorf("failed to decode checkpoint %s: %w", d.ID, err)
		}
		out = append(out, cp)
	}

	return out, nil
}
