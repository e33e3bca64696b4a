package status

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	pkgexporter "github.com/goran-ethernal/ChainExporter/pkg/exporter"
	"golang.org/x/sync/errgroup"
)

const secondsPerTick = 60

// oneMet is 1 MET in its smallest unit, the amount quoted by the converter price.
var oneMet = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Snapshot is the composite status broadcast as status-updated.
type Snapshot struct {
	Auction   AuctionStatus   `json:"auction"`
	Converter ConverterStatus `json:"converter"`
	Proceeds  ProceedsStatus  `json:"proceeds"`
}

// AuctionStatus is the auction part of the status, also broadcast as AUCTION_STATUS_TASK.
type AuctionStatus struct {
	CurrentAuction       string `json:"currentAuction"`
	CurrentPrice         string `json:"currentPrice"`
	GenesisTime          uint64 `json:"genesisTime"`
	LastPurchasePrice    string `json:"lastPurchasePrice"`
	LastPurchaseTime     uint64 `json:"lastPurchaseTime"`
	NextAuctionStartTime uint64 `json:"nextAuctionStartTime"`
	TokenCirculation     string `json:"tokenCirculation"`
	TokenRemaining       string `json:"tokenRemaining"`
	TokenSold            string `json:"tokenSold"`
	TokenSupply          string `json:"tokenSupply"`
}

type ConverterStatus struct {
	AvailableMet string `json:"availableMet"`
	AvailableEth string `json:"availableEth"`
	CurrentPrice string `json:"currentPrice"`
}

type ProceedsStatus struct {
	Balance string `json:"balance"`
}

// LatestBlock is the LATEST_BLOCK payload.
type LatestBlock struct {
	Number    uint64 `json:"number"`
	Hash      string `json:"hash"`
	Timestamp uint64 `json:"timestamp"`
}

// NewLatestBlock converts a header into its LATEST_BLOCK payload.
func NewLatestBlock(h *types.Header) LatestBlock {
	return LatestBlock{
		Number:    h.Number.Uint64(),
		Hash:      h.Hash().Hex(),
		Timestamp: h.Time,
	}
}

// reading is the raw result of one round of contract reads.
type reading struct {
	currentAuction    *big.Int
	currentPrice      *big.Int
	genesisTime       *big.Int
	lastPurchasePrice *big.Int
	lastPurchaseTick  *big.Int
	totalSupply       *big.Int
	heartbeat         *contracts.Heartbeat
	metBalance        *big.Int
	ethBalance        *big.Int
	converterPrice    *big.Int

	// set when the read failed and its zero default was used
	heartbeatDefaulted      bool
	metBalanceDefaulted     bool
	ethBalanceDefaulted     bool
	converterPriceDefaulted bool
}

// complete reports whether every read a stats record holds came from the chain.
func (r *reading) complete() bool {
	return !r.heartbeatDefaulted && !r.metBalanceDefaulted &&
		!r.ethBalanceDefaulted && !r.converterPriceDefaulted
}

// reader performs the parallel contract reads a snapshot is computed from.
type reader struct {
	bindings *contracts.Bindings
	log      *logger.Logger
}

// read issues every read in parallel. Reads with a default fall back to zero
// on failure; a failed required read fails the whole round.
func (r *reader) read(ctx context.Context) (*reading, error) {
	var res reading
	g, gctx := errgroup.WithContext(ctx)

	auctions := r.bindings.Auctions
	converter := r.bindings.Converter

	r.optional(gctx, g, "currentAuction", &res.currentAuction, nil, auctions.CurrentAuction)
	r.optional(gctx, g, "currentPrice", &res.currentPrice, nil, auctions.CurrentPrice)
	r.required(gctx, g, "genesisTime", &res.genesisTime, auctions.GenesisTime)
	r.required(gctx, g, "lastPurchasePrice", &res.lastPurchasePrice, auctions.LastPurchasePrice)
	r.required(gctx, g, "lastPurchaseTick", &res.lastPurchaseTick, auctions.LastPurchaseTick)
	r.required(gctx, g, "totalSupply", &res.totalSupply, r.bindings.Token.TotalSupply)
	r.optional(gctx, g, "metBalance", &res.metBalance, &res.metBalanceDefaulted, converter.MetBalance)
	r.optional(gctx, g, "ethBalance", &res.ethBalance, &res.ethBalanceDefaulted, converter.EthBalance)
	r.optional(gctx, g, "converterPrice", &res.converterPrice, &res.converterPriceDefaulted, func(ctx context.Context) (*big.Int, error) {
		return converter.EthForMetResult(ctx, oneMet)
	})

	g.Go(func() error {
		hb, err := auctions.Heartbeat(gctx)
		if err != nil {
			FieldDefaultInc("heartbeat")
			r.log.Debugw("heartbeat read failed, using defaults", "error", err)
			hb = contracts.ZeroHeartbeat()
			res.heartbeatDefaulted = true
		}
		res.heartbeat = hb
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *reader) optional(ctx context.Context, g *errgroup.Group, field string, dst **big.Int,
	defaulted *bool, fn func(context.Context) (*big.Int, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			FieldDefaultInc(field)
			r.log.Debugw("status read failed, using default", "field", field, "error", err)
			v = new(big.Int)
			if defaulted != nil {
				*defaulted = true
			}
		}
		*dst = v
		return nil
	})
}

func (r *reader) required(ctx context.Context, g *errgroup.Group, field string, dst **big.Int,
	fn func(context.Context) (*big.Int, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("%w: read %s: %w", pkgexporter.ErrDerivedState, field, err)
		}
		*dst = v
		return nil
	})
}

// project derives the broadcast snapshot from a round of reads.
func project(r *reading, founderTokens *big.Int) *Snapshot {
	lastPurchaseTime := new(big.Int).Mul(r.lastPurchaseTick, big.NewInt(secondsPerTick))
	lastPurchaseTime.Add(lastPurchaseTime, r.genesisTime)

	return &Snapshot{
		Auction: AuctionStatus{
			CurrentAuction:       r.currentAuction.String(),
			CurrentPrice:         r.currentPrice.String(),
			GenesisTime:          r.genesisTime.Uint64(),
			LastPurchasePrice:    r.lastPurchasePrice.String(),
			LastPurchaseTime:     lastPurchaseTime.Uint64(),
			NextAuctionStartTime: bigOrZero(r.heartbeat.NextAuctionGMT).Uint64(),
			TokenCirculation:     r.totalSupply.String(),
			TokenRemaining:       bigOrZero(r.heartbeat.Minting).String(),
			TokenSold:            new(big.Int).Sub(r.totalSupply, founderTokens).String(),
			TokenSupply:          r.totalSupply.String(),
		},
		Converter: ConverterStatus{
			AvailableMet: r.metBalance.String(),
			AvailableEth: r.ethBalance.String(),
			CurrentPrice: r.converterPrice.String(),
		},
		Proceeds: ProceedsStatus{
			Balance: bigOrZero(r.heartbeat.ProceedsBal).String(),
		},
	}
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
