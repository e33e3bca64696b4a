package status

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/store"
)

// Stats is the per-block snapshot stored in the stats collection.
type Stats struct {
	Block     uint64          `json:"block"`
	Timestamp uint64          `json:"timestamp"`
	Heartbeat HeartbeatStats  `json:"heartbeat"`
	Converter ConverterStatus `json:"converter"`
}

// HeartbeatStats is the stored form of the auction heartbeat.
type HeartbeatStats struct {
	Chain               string `json:"chain"`
	Minting             string `json:"minting"`
	TotalMET            string `json:"totalMET"`
	ProceedsBal         string `json:"proceedsBal"`
	CurrTick            string `json:"currTick"`
	CurrAuction         string `json:"currAuction"`
	NextAuctionGMT      string `json:"nextAuctionGMT"`
	GenesisGMT          string `json:"genesisGMT"`
	CurrentAuctionPrice string `json:"currentAuctionPrice"`
	DailyMintable       string `json:"dailyMintable"`
	LastPurchasePrice   string `json:"lastPurchasePrice"`
}

// StatsKey returns the stats document id of a block.
func StatsKey(block uint64) string {
	return strconv.FormatUint(block, 10)
}

// StatsCollector persists one stats document per observed head.
type StatsCollector struct {
	store store.DocumentStore
	log   *logger.Logger
}

// NewStatsCollector creates a new stats collector.
func NewStatsCollector(s store.DocumentStore, log *logger.Logger) (*StatsCollector, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	return &StatsCollector{store: s, log: log}, nil
}

// Record stores the stats of block, replacing an earlier record of the same block.
// A round where the heartbeat or a converter read fell back to zero is not stored.
func (c *StatsCollector) Record(ctx context.Context, block, timestamp uint64, r *reading) error {
	if !r.complete() {
		StatsRecordedInc("skipped")
		c.log.Debugw("stats skipped, reads defaulted", "block", block)
		return nil
	}

	hb := r.heartbeat
	doc := Stats{
		Block:     block,
		Timestamp: timestamp,
		Heartbeat: HeartbeatStats{
			Chain:               hexutil.Encode(hb.Chain[:]),
			Minting:             bigOrZero(hb.Minting).String(),
			TotalMET:            bigOrZero(hb.TotalMET).String(),
			ProceedsBal:         bigOrZero(hb.ProceedsBal).String(),
			CurrTick:            bigOrZero(hb.CurrTick).String(),
			CurrAuction:         bigOrZero(hb.CurrAuction).String(),
			NextAuctionGMT:      bigOrZero(hb.NextAuctionGMT).String(),
			GenesisGMT:          bigOrZero(hb.GenesisGMT).String(),
			CurrentAuctionPrice: bigOrZero(hb.CurrentAuctionPrice).String(),
			DailyMintable:       bigOrZero(hb.DailyMintable).String(),
			LastPurchasePrice:   bigOrZero(hb.LastPurchasePrice).String(),
		},
		Converter: ConverterStatus{
			AvailableMet: r.metBalance.String(),
			AvailableEth: r.ethBalance.String(),
			CurrentPrice: r.converterPrice.String(),
		},
	}

	if err := c.store.Upsert(ctx, store.CollectionStats, StatsKey(block), doc); err != nil {
		StatsRecordedInc("failed")
		return fmt.Errorf("failed to record stats of block %d: %w", block, err)
	}

	StatsRecordedInc("ok")
	c.log.Debugw("stats recorded", "block", block)

	return nil
}
