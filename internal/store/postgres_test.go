package store

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/stretchr/testify/require"
)

// postgresDSNEnv names the database the Postgres store tests run against.
const postgresDSNEnv = "CHAINEXPORTER_TEST_POSTGRES_DSN"

func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv(postgresDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", postgresDSNEnv)
	}

	cfg := config.StoreConfig{Driver: config.DriverPostgres, DSN: dsn}
	cfg.ApplyDefaults()

	s, err := NewPostgresStore(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

// testCollection returns a collection no other run has written to, so tests
// can share one database.
func testCollection(name string) string {
	return name + "_" + uuid.NewString()
}

func TestPostgresStore_InsertIsCreateOnly(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	events := testCollection(store.CollectionEvents)

	first := map[string]any{"id": "3_4_2", "metaData": map[string]any{"event": "Transfer"}}
	require.NoError(t, s.Insert(ctx, events, "3_4_2", first))

	second := map[string]any{"id": "3_4_2", "metaData": map[string]any{"event": "Approval"}}
	err := s.Insert(ctx, events, "3_4_2", second)
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	var got map[string]any
	found, err := s.FindOne(ctx, events, "3_4_2", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Transfer", got["metaData"].(map[string]any)["event"])
}

func TestPostgresStore_UpsertLastWriteWins(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	accounts := testCollection(store.CollectionAccounts)
	addr := "0xAbC0000000000000000000000000000000000001"

	require.NoError(t, s.Upsert(ctx, accounts, addr, account{ID: addr, Balance: "100"}))
	require.NoError(t, s.Upsert(ctx, accounts, addr, account{ID: addr, Balance: "250"}))

	var got account
	found, err := s.FindOne(ctx, accounts, addr, &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "250", got.Balance)

	docs, err := s.Find(ctx, accounts, store.Query{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.False(t, docs[0].UpdatedAt.IsZero())
}

func TestPostgresStore_FindOneMissing(t *testing.T) {
	s := newTestPostgresStore(t)

	var got account
	found, err := s.FindOne(context.Background(), testCollection(store.CollectionAccounts), "0x0", &got)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, got.ID)
}

func TestPostgresStore_FindPaging(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	events := testCollection(store.CollectionEvents)

	for i := range 5 {
		id := fmt.Sprintf("%d_0_0", i)
		require.NoError(t, s.Insert(ctx, events, id, map[string]any{"id": id}))
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
			docs, err := s.Find(ctx, events, tt.query)
			require.NoError(t, err)
			require.Equal(t, tt.expected, ids(docs))
		})
	}
}

func TestPostgresStore_ReopenKeepsDocuments(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	values := testCollection(store.CollectionValues)

	require.NoError(t, s.Upsert(ctx, values, "token.bestBlock", map[string]any{"value": 1000}))

	// migrations are already applied on the second open
	reopened := newTestPostgresStore(t)

	var got struct {
		Value uint64 `json:"value"`
	}
	found, err := reopened.FindOne(ctx, values, "token.bestBlock", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(1000), got.Value)
}
