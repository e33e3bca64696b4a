package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func setupMaintenanceTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	dbConfig := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "maintenance.db")}
	dbConfig.ApplyDefaults()

	db, err := NewSQLiteDBFromConfig(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		body TEXT
	)`)
	require.NoError(t, err)

	return db, dbConfig.Path
}

func insertDocuments(t *testing.T, db *sql.DB, collection string, n int) {
	t.Helper()

	for range n {
		_, err := db.Exec(`INSERT INTO documents (collection, body) VALUES (?, ?)`,
			collection, `{"balance":"1000000000000000000"}`)
		require.NoError(t, err)
	}
}

func okPasses() float64 {
	return testutil.ToFloat64(maintenancePasses.WithLabelValues("ok"))
}

func TestNewMaintenance_NilConfig(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)

	m := NewMaintenance(path, db, nil, logger.NewNopLogger())
	require.IsType(t, noMaintenance{}, m)

	require.NoError(t, m.Start(t.Context()))
	report, err := m.Run(t.Context())
	require.NoError(t, err)
	require.Empty(t, report.Documents)
	m.Hold()()
	require.NoError(t, m.Stop())
}

func TestMaintenance_RunCountsCollections(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	insertDocuments(t, db, "events", 300)
	insertDocuments(t, db, "balances", 40)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{WALCheckpointMode: "TRUNCATE"}, logger.NewNopLogger())

	report, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"events": 300, "balances": 40}, report.Documents)
	require.Positive(t, report.Duration)
	require.Positive(t, report.SizeAfter)

	require.Equal(t, float64(300), testutil.ToFloat64(documentsStored.WithLabelValues("events")))
	require.Equal(t, float64(40), testutil.ToFloat64(documentsStored.WithLabelValues("balances")))
}

func TestMaintenance_ReclaimsDeletedDocuments(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	insertDocuments(t, db, "events", 2000)

	_, err := db.Exec(`DELETE FROM documents WHERE seq % 2 = 0`)
	require.NoError(t, err)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{WALCheckpointMode: "TRUNCATE"}, logger.NewNopLogger())

	report, err := m.Run(context.Background())
	require.NoError(t, err)
	require.LessOrEqual(t, report.SizeAfter, report.SizeBefore)
	require.Equal(t, report.SizeBefore-report.SizeAfter, report.Reclaimed())
	require.Equal(t, int64(1000), report.Documents["events"])
}

func TestMaintenance_WALCheckpoint(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	insertDocuments(t, db, "events", 500)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{WALCheckpointMode: "TRUNCATE"}, logger.NewNopLogger())

	cp, err := m.walCheckpoint(context.Background())
	require.NoError(t, err)
	require.Zero(t, cp.Busy)
	require.Equal(t, cp.LogFrames, cp.Checkpointed)
}

func TestMaintenance_CancelledContext(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMaintenance_WaitsForHolds(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{}, logger.NewNopLogger())

	release := m.Hold()

	var finished atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := m.Run(context.Background())
		finished.Store(true)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.False(t, finished.Load(), "maintenance must wait for the running operation")

	release()
	require.NoError(t, <-done)
}

func TestMaintenance_ScheduledRuns(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	insertDocuments(t, db, "events", 100)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{
		Enabled:           true,
		CheckInterval:     common.NewDuration(50 * time.Millisecond),
		WALCheckpointMode: "PASSIVE",
	}, logger.NewNopLogger())

	before := okPasses()
	require.NoError(t, m.Start(t.Context()))
	require.Eventually(t, func() bool {
		return okPasses() > before
	}, 2*time.Second, 20*time.Millisecond)
	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())
}

func TestMaintenance_VacuumOnStartup(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{
		Enabled:           true,
		CheckInterval:     common.NewDuration(time.Hour),
		VacuumOnStartup:   true,
		WALCheckpointMode: "TRUNCATE",
	}, logger.NewNopLogger())

	before := okPasses()
	require.NoError(t, m.Start(t.Context()))
	t.Cleanup(func() { require.NoError(t, m.Stop()) })

	require.Equal(t, before+1, okPasses())
}

func TestMaintenance_DisabledDoesNotSchedule(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{
		CheckInterval: common.NewDuration(10 * time.Millisecond),
	}, logger.NewNopLogger())

	require.NoError(t, m.Start(t.Context()))
	require.Nil(t, m.scheduler)
	require.NoError(t, m.Stop())
}

func TestMaintenance_ZeroIntervalRejected(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)

	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{Enabled: true}, logger.NewNopLogger())

	require.ErrorContains(t, m.Start(t.Context()), "failed to schedule maintenance")
}

func TestMaintenance_ConcurrentWrites(t *testing.T) {
	db, path := setupMaintenanceTestDB(t)
	m := newScheduledMaintenance(path, db, config.MaintenanceConfig{WALCheckpointMode: "PASSIVE"}, logger.NewNopLogger())

	const writers, writesEach = 20, 5
	var (
		wg      sync.WaitGroup
		written atomic.Int32
		reports = make(chan Report, 3)
	)

	for range writers {
		wg.Go(func() {
			for range writesEach {
				release := m.Hold()
				_, err := db.Exec(`INSERT INTO documents (collection, body) VALUES ('events', '{}')`)
				release()
				if err == nil {
					written.Add(1)
				}
			}
		})
	}

	go func() {
		defer close(reports)
		for range 3 {
			report, err := m.Run(context.Background())
			if err == nil {
				reports <- report
			}
		}
	}()

	wg.Wait()

	var runs int
	for range reports {
		runs++
	}

	require.Equal(t, int32(writers*writesEach), written.Load())
	require.Equal(t, 3, runs)
}
