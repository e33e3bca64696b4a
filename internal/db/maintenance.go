package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
)

const maintenanceJobName = "sqlite-maintenance"

// Maintenance compacts the document database in the background. Store
// operations hold it open with Hold; a pass waits until every hold is released.
type Maintenance interface {
	Start(ctx context.Context) error
	Stop() error
	Hold() (release func())
	Run(ctx context.Context) (Report, error)
}

// Report describes one maintenance pass.
type Report struct {
	Duration   time.Duration
	Checkpoint WALCheckpoint
	SizeBefore int64
	SizeAfter  int64

	// Documents is the number of stored documents per collection.
	Documents map[string]int64
}

// Reclaimed returns the bytes freed by the pass.
func (r Report) Reclaimed() int64 {
	if r.SizeBefore <= r.SizeAfter {
		return 0
	}
	return r.SizeBefore - r.SizeAfter
}

// WALCheckpoint is the result row of PRAGMA wal_checkpoint.
type WALCheckpoint struct {
	Busy         int
	LogFrames    int
	Checkpointed int
}

// NewMaintenance returns the maintenance of the database at path, or a
// no-op when cfg is nil.
func NewMaintenance(path string, db *sql.DB, cfg *config.MaintenanceConfig, log *logger.Logger) Maintenance {
	if cfg == nil {
		return noMaintenance{}
	}

	return newScheduledMaintenance(path, db, *cfg, log)
}

type noMaintenance struct{}

func (noMaintenance) Start(context.Context) error         { return nil }
func (noMaintenance) Stop() error                         { return nil }
func (noMaintenance) Hold() func()                        { return func() {} }
func (noMaintenance) Run(context.Context) (Report, error) { return Report{}, nil }

// scheduledMaintenance runs a WAL checkpoint and VACUUM on a gocron
// schedule, exclusive of store operations.
type scheduledMaintenance struct {
	db   *sql.DB
	path string
	cfg  config.MaintenanceConfig
	log  *logger.Logger

	// readers are store operations, the writer is a maintenance pass
	gate sync.RWMutex

	ctx       context.Context
	cancel    context.CancelFunc
	scheduler gocron.Scheduler
}

func newScheduledMaintenance(path string, db *sql.DB, cfg config.MaintenanceConfig, log *logger.Logger) *scheduledMaintenance {
	return &scheduledMaintenance{
		db:   db,
		path: path,
		cfg:  cfg,
		log:  log.WithComponent(common.ComponentMaintenance),
	}
}

func (m *scheduledMaintenance) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		m.log.Info("sqlite maintenance disabled")
		return nil
	}

	m.ctx, m.cancel = context.WithCancel(ctx)

	if m.cfg.VacuumOnStartup {
		m.pass()
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		m.cancel()
		return fmt.Errorf("failed to create maintenance scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(m.cfg.CheckInterval.Duration),
		gocron.NewTask(m.pass),
		gocron.WithName(maintenanceJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		m.cancel()
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule maintenance: %w", err)
	}

	scheduler.Start()
	m.scheduler = scheduler

	m.log.Infow("sqlite maintenance scheduled",
		"interval", m.cfg.CheckInterval.Duration,
		"wal_checkpoint_mode", m.cfg.WALCheckpointMode)

	return nil
}

func (m *scheduledMaintenance) Stop() error {
	if m.cancel == nil {
		return nil
	}
	m.cancel()

	if m.scheduler == nil {
		return nil
	}

	err := m.scheduler.Shutdown()
	m.scheduler = nil
	if err != nil {
		return fmt.Errorf("failed to stop maintenance scheduler: %w", err)
	}

	return nil
}

func (m *scheduledMaintenance) Hold() func() {
	m.gate.RLock()
	return m.gate.RUnlock
}

func (m *scheduledMaintenance) pass() {
	if m.ctx.Err() != nil {
		return
	}

	report, err := m.Run(m.ctx)
	if err != nil {
		m.log.Warnw("sqlite maintenance failed", "error", err)
		return
	}

	m.log.Infow("sqlite maintenance done",
		"duration", report.Duration,
		"reclaimed_mb", common.BytesToMB(uint64(report.Reclaimed())),
		"wal_frames", report.Checkpoint.Checkpointed,
		"documents", report.Documents)
}

// Run performs one pass: WAL checkpoint, VACUUM and a per-collection count.
func (m *scheduledMaintenance) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	m.gate.Lock()
	defer m.gate.Unlock()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var report Report
	report.SizeBefore, _ = DBTotalSize(m.path)

	err := m.run(ctx, &report)

	report.SizeAfter, _ = DBTotalSize(m.path)
	report.Duration = time.Since(start)
	observeMaintenance(report, err)

	return report, err
}

func (m *scheduledMaintenance) run(ctx context.Context, report *Report) error {
	var mode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("failed to read journal mode: %w", err)
	}

	if strings.EqualFold(mode, "wal") {
		cp, err := m.walCheckpoint(ctx)
		if err != nil {
			return err
		}
		report.Checkpoint = cp
		if cp.Busy > 0 {
			m.log.Warnw("wal checkpoint left busy pages", "busy", cp.Busy)
		}
	}

	if err := Vacuum(m.db); err != nil {
		return err
	}

	docs, err := countDocuments(ctx, m.db)
	if err != nil {
		return err
	}
	report.Documents = docs

	return nil
}

func (m *scheduledMaintenance) walCheckpoint(ctx context.Context) (WALCheckpoint, error) {
	mode := m.cfg.WALCheckpointMode
	if mode == "" {
		mode = "PASSIVE"
	}

	var cp WALCheckpoint
	err := m.db.QueryRowContext(ctx, fmt.Sprintf("PRAGMA wal_checkpoint(%s)", mode)).
		Scan(&cp.Busy, &cp.LogFrames, &cp.Checkpointed)
	if err != nil {
		return cp, fmt.Errorf("wal checkpoint failed: %w", err)
	}

	WALCheckpointInc(strings.ToLower(mode))

	return cp, nil
}

func countDocuments(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT collection, COUNT(*) FROM documents GROUP BY collection`)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			collection string
			n          int64
		)
		if err := rows.Scan(&collection, &n); err != nil {
			return nil, err
		}
		out[collection] = n
	}

	return out, rows.Err()
}
