package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := config.StoreConfig{
		Driver: config.DriverSQLite,
		DB:     config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "exporter.db")},
	}
	cfg.ApplyDefaults()

	s, err := NewSQLiteStore(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

func TestOpen_SelectsDriver(t *testing.T) {
	cfg := config.StoreConfig{DB: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "open.db")}}
	cfg.ApplyDefaults()

	s, err := Open(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Close())

	_, err = Open(context.Background(), config.StoreConfig{Driver: "mongodb"}, logger.NewNopLogger())
	require.ErrorContains(t, err, "unsupported store driver: mongodb")
}

func TestSQLiteStore_InsertIsCreateOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := map[string]any{"id": "3_4_2", "metaData": map[string]any{"event": "Transfer"}}
	require.NoError(t, s.Insert(ctx, store.CollectionEvents, "3_4_2", first))

	second := map[string]any{"id": "3_4_2", "metaData": map[string]any{"event": "Approval"}}
	err := s.Insert(ctx, store.CollectionEvents, "3_4_2", second)
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	var got map[string]any
	found, err := s.FindOne(ctx, store.CollectionEvents, "3_4_2", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Transfer", got["metaData"].(map[string]any)["event"])
}

func TestSQLiteStore_UpsertLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	addr := "0xAbC0000000000000000000000000000000000001"

	require.NoError(t, s.Upsert(ctx, store.CollectionAccounts, addr, account{ID: addr, Balance: "100"}))
	require.NoError(t, s.Upsert(ctx, store.CollectionAccounts, addr, account{ID: addr, Balance: "250"}))

	var got account
	found, err := s.FindOne(ctx, store.CollectionAccounts, addr, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "250", got.Balance)

	docs, err := s.Find(ctx, store.CollectionAccounts, store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestSQLiteStore_CollectionsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, store.CollectionValues, "token.bestBlock", map[string]any{"value": 1000}))

	found, err := s.FindOne(ctx, store.CollectionAccounts, "token.bestBlock", nil)
	require.NoError(t, err)
	require.False(t, found)

	found, err = s.FindOne(ctx, store.CollectionValues, "token.bestBlock", nil)
	require.NoError(t, err)
	require.True(t, found)
}

func TestSQLiteStore_FindOneMissing(t *testing.T) {
	s := newTestStore(t)

	var got account
	found, err := s.FindOne(context.Background(), store.CollectionAccounts, "0x0", &got)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, got.ID)
}

func TestSQLiteStore_FindPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		id := fmt.Sprintf("%d_0_0", i)
		require.NoError(t, s.Insert(ctx, store.CollectionEvents, id, map[string]any{"id": id}))
	}

	ids := func(docs []store.Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		query    store.Query
		expected []string
	}{
		{name: "all ascending", query: store.Query{}, expected: []string{"0_0_0", "1_0_0", "2_0_0", "3_0_0", "4_0_0"}},
		{name: "limit", query: store.Query{Limit: 2}, expected: []string{"0_0_0", "1_0_0"}},
		{name: "offset only", query: store.Query{Offset: 3}, expected: []string{"3_0_0", "4_0_0"}},
		{name: "descending page", query: store.Query{Limit: 2, Offset: 1, Descending: true}, expected: []string{"3_0_0", "2_0_0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.Find(ctx, store.CollectionEvents, tt.query)
			require.NoError(t, err)
			require.Equal(t, tt.expected, ids(docs))
		})
	}
}

func TestSQLiteStore_RawJSONAndDecode(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, store.CollectionStats, "120", json.RawMessage(`{"block":120,"minting":"5"}`)))
	require.ErrorContains(t, s.Upsert(ctx, store.CollectionStats, "121", json.RawMessage(`{bad`)), "invalid JSON document")

	docs, err := s.Find(ctx, store.CollectionStats, store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.False(t, docs[0].UpdatedAt.IsZero())

	var snapshot struct {
		Block   uint64 `json:"block"`
		Minting string `json:"minting"`
	}
	require.NoError(t, docs[0].Decode(&snapshot))
	require.Equal(t, uint64(120), snapshot.Block)
	require.Equal(t, "5", snapshot.Minting)
}

func TestSQLiteStore_RejectsEmptyKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.ErrorContains(t, s.Upsert(ctx, "", "id", struct{}{}), "collection is required")
	require.ErrorContains(t, s.Insert(ctx, store.CollectionEvents, "", struct{}{}), "document id is required")
}

func TestSQLiteStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindOne(ctx, store.CollectionValues, "token.bestBlock", nil)
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.Find(ctx, store.CollectionValues, store.Query{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore_WithMaintenance(t *testing.T) {
	cfg := config.StoreConfig{
		DB: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "maintained.db")},
		Maintenance: &config.MaintenanceConfig{
			Enabled:       true,
			CheckInterval: common.NewDuration(defaultTestInterval),
		},
	}
	cfg.ApplyDefaults()

	s, err := NewSQLiteStore(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Upsert(ctx, store.CollectionValues, "auction.bestBlock", map[string]any{"value": 7}))
	report, err := s.maintenance.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), report.Documents[store.CollectionValues])
	require.NoError(t, s.Close())
}

const defaultTestInterval = time.Hour
