package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/connection"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/exporter"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/internal/metrics"
	"github.com/goran-ethernal/ChainExporter/internal/status"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	pkgexporter "github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"golang.org/x/sync/errgroup"
)

// Options configures what a Runner builds for each session.
type Options struct {
	Exporter      config.ExporterConfig
	StatusEnabled bool
	StatsEnabled  bool
	FounderTokens *big.Int

	// Logger returns the logger of a component. Defaults to no-op loggers.
	Logger func(component string) *logger.Logger
}

// component is anything the runner starts for a session.
type component interface {
	Run(ctx context.Context) error
}

// Runner builds the exporters and the status projector from scratch for
// every connection session and runs them until the session ends. Nothing
// survives a session: the next one re-reads every checkpoint.
type Runner struct {
	opts      Options
	store     store.DocumentStore
	publisher push.Publisher
	log       *logger.Logger

	mu        sync.RWMutex
	exporters []*exporter.Exporter
}

// NewRunner creates a session runner.
func NewRunner(opts Options, s store.DocumentStore, publisher push.Publisher, log *logger.Logger) (*Runner, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Logger == nil {
		opts.Logger = func(string) *logger.Logger { return logger.NewNopLogger() }
	}
	if len(opts.Exporter.Enabled) == 0 {
		opts.Exporter.Enabled = []string{config.ExporterToken, config.ExporterConverter, config.ExporterAuction}
	}

	return &Runner{
		opts:      opts,
		store:     s,
		publisher: publisher,
		log:       log,
	}, nil
}

// Run runs every session delivered on sessions, one at a time, until the
// channel is closed or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, sessions <-chan *connection.Session) error {
	for {
		select {
		case session, ok := <-sessions:
			if !ok {
				return nil
			}

			if err := r.RunSession(session.Context(), session.ID, session.Bindings, session.Lost); err != nil {
				r.log.Warnw("session ended with error", "session", session.ID, "error", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// RunSession builds the session components on bindings and runs them until
// ctx is done or one of them fails. A failure is reported through lost so
// the connection is rebuilt, except a persistence halt: that exporter stays
// stopped at its checkpoint while the rest of the session keeps running.
func (r *Runner) RunSession(ctx context.Context, id uint64, bindings *contracts.Bindings, lost func(error)) error {
	start := time.Now()

	components, balances, err := r.build(bindings)
	if err != nil {
		lost(err)
		return fmt.Errorf("failed to build session %d: %w", id, err)
	}
	defer func() {
		if balances != nil {
			balances.Close()
		}
		r.setExporters(nil)
	}()

	r.log.Infow("session started", "session", id, "components", len(components))
	metrics.ComponentHealthSet(common.ComponentSessionRunner, true)

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range components {
		g.Go(func() error {
			err := c.Run(gctx)
			if err == nil {
				return nil
			}
			if errors.Is(err, pkgexporter.ErrPersistence) {
				// A reconnect cannot repair the store; keep the session and stall.
				metrics.ErrorInc(common.ComponentSessionRunner, "critical")
				r.log.Errorw("exporter halted, waiting for the store to be repaired", "session", id, "error", err)
				<-gctx.Done()
				return nil
			}
			lost(err)
			return err
		})
	}

	err = g.Wait()

	for _, st := range r.Statuses() {
		r.log.Infow("exporter stopped",
			"session", id,
			"exporter", st.Name,
			"checkpoint", st.Checkpoint,
			"processed", st.Processed,
			"skipped", st.Skipped,
			"failed", st.Failed,
		)
	}

	if err != nil {
		metrics.ComponentHealthSet(common.ComponentSessionRunner, false)
		metrics.ErrorInc(common.ComponentSessionRunner, "error")
		return err
	}

	r.log.Infow("session ended", "session", id, "duration", time.Since(start))

	return nil
}

// Statuses returns the status of every exporter of the running session.
func (r *Runner) Statuses() []exporter.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]exporter.Status, 0, len(r.exporters))
	for _, e := range r.exporters {
		out = append(out, e.Status())
	}

	return out
}

func (r *Runner) setExporters(exporters []*exporter.Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exporters = exporters
}

func (r *Runner) build(bindings *contracts.Bindings) (components []component, balances *exporter.BalanceExporter, err error) {
	if bindings == nil {
		return nil, nil, errors.New("session has no contract bindings")
	}

	defer func() {
		if err != nil && balances != nil {
			balances.Close()
		}
	}()

	var exporters []*exporter.Exporter

	for _, name := range r.opts.Exporter.Enabled {
		spec, err := exporter.SpecByName(name)
		if err != nil {
			return nil, balances, err
		}

		binding, err := bindings.ByKind(spec.Contract)
		if err != nil {
			return nil, balances, err
		}

		cfg := exporter.Config{
			Spec:       spec,
			Binding:    binding,
			Store:      r.store,
			Publisher:  r.publisher,
			StartBlock: r.opts.Exporter.StartBlock,
			BatchSize:  r.opts.Exporter.BatchSize,
		}

		if spec.ExportBalances {
			if balances == nil {
				balances, err = exporter.NewBalanceExporter(bindings.Token, r.store, r.publisher,
					r.opts.Exporter.BalanceWorkers, r.opts.Logger(common.ComponentBalanceExporter))
				if err != nil {
					return nil, nil, err
				}
			}
			cfg.Balances = balances
		}

		e, err := exporter.New(cfg, r.opts.Logger(common.ComponentExporter))
		if err != nil {
			return nil, balances, err
		}

		exporters = append(exporters, e)
		components = append(components, e)
	}

	if r.opts.StatusEnabled {
		var stats *status.StatsCollector
		if r.opts.StatsEnabled {
			var err error
			stats, err = status.NewStatsCollector(r.store, r.opts.Logger(common.ComponentStatsCollector))
			if err != nil {
				return nil, balances, err
			}
		}

		projector, err := status.New(status.Config{
			Bindings:      bindings,
			Publisher:     r.publisher,
			FounderTokens: r.opts.FounderTokens,
			Stats:         stats,
		}, r.opts.Logger(common.ComponentStatusProjector))
		if err != nil {
			return nil, balances, err
		}

		components = append(components, projector)
	}

	r.setExporters(exporters)

	return components, balances, nil
}
