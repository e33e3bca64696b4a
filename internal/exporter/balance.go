package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	pkgexporter "github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
	"github.com/panjf2000/ants/v2"
)

const defaultBalanceWorkers = 4

// Account is the stored balance of one address.
type Account struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

// BalanceUpdate is the BALANCE_UPDATED payload.
type BalanceUpdate struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// BalanceExporter re-reads token balances of affected accounts on a bounded
// worker pool, stores them and announces the new value. Failures are logged
// and never reach the event pipeline.
type BalanceExporter struct {
	token     *contracts.Binding
	store     store.DocumentStore
	publisher push.Publisher
	pool      *ants.Pool
	wg        sync.WaitGroup
	log       *logger.Logger
}

// NewBalanceExporter creates a balance exporter with the given number of workers.
func NewBalanceExporter(
	token *contracts.Binding,
	s store.DocumentStore,
	publisher push.Publisher,
	workers int,
	log *logger.Logger,
) (*BalanceExporter, error) {
	if token == nil {
		return nil, errors.New("token binding is required")
	}
	if s == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if workers <= 0 {
		workers = defaultBalanceWorkers
	}

	b := &BalanceExporter{
		token:     token,
		store:     s,
		publisher: publisher,
		log:       log,
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p interface{}) {
		BalanceExportInc("panic")
		b.log.Errorw("balance export panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create balance worker pool: %w", err)
	}
	b.pool = pool

	return b, nil
}

// Export schedules a balance refresh for every address. It blocks only while
// the pool is saturated.
func (b *BalanceExporter) Export(ctx context.Context, addresses []common.Address) {
	for _, addr := range addresses {
		if ctx.Err() != nil {
			return
		}

		b.wg.Add(1)
		if err := b.pool.Submit(func() {
			defer b.wg.Done()
			b.export(ctx, addr)
		}); err != nil {
			b.wg.Done()
			BalanceExportInc("rejected")
			b.log.Warnw("balance export rejected", "address", addr.Hex(), "error", err)
		}
	}
}

func (b *BalanceExporter) export(ctx context.Context, addr common.Address) {
	if err := b.exportOne(ctx, addr); err != nil {
		if ctx.Err() != nil {
			return
		}
		BalanceExportInc("failed")
		b.log.Warnw("balance export failed", "address", addr.Hex(), "error", err)
		return
	}

	BalanceExportInc("ok")
}

func (b *BalanceExporter) exportOne(ctx context.Context, addr common.Address) error {
	balance, err := b.token.BalanceOf(ctx, addr)
	if err != nil {
		return fmt.Errorf("%w: balanceOf %s: %w", pkgexporter.ErrDerivedState, addr.Hex(), err)
	}

	account := Account{ID: addr.Hex(), Balance: balance.String()}
	if err := b.store.Upsert(ctx, store.CollectionAccounts, account.ID, account); err != nil {
		return fmt.Errorf("%w: store account %s: %w", pkgexporter.ErrDerivedState, account.ID, err)
	}

	if b.publisher != nil {
		b.publisher.Broadcast(push.TopicBalanceUpdated, BalanceUpdate{Address: account.ID, Balance: account.Balance})
	}

	b.log.Debugw("balance exported", "address", account.ID, "balance", account.Balance)

	return nil
}

// Wait blocks until every scheduled export has finished.
func (b *BalanceExporter) Wait() {
	b.wg.Wait()
}

// Close waits for running exports and releases the pool.
func (b *BalanceExporter) Close() {
	b.wg.Wait()
	b.pool.Release()
}
