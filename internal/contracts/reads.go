package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token contract reads.

func (b *Binding) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return b.CallBigInt(ctx, "balanceOf", owner)
}

func (b *Binding) TotalSupply(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "totalSupply")
}

// Auction contract reads.

func (b *Binding) CurrentAuction(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "currentAuction")
}

func (b *Binding) CurrentPrice(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "currentPrice")
}

func (b *Binding) GenesisTime(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "genesisTime")
}

func (b *Binding) LastPurchasePrice(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "lastPurchasePrice")
}

func (b *Binding) LastPurchaseTick(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "lastPurchaseTick")
}

// Heartbeat is the auction contract's aggregated state snapshot.
type Heartbeat struct {
	Chain               [8]byte        `abi:"_chain"`
	AuctionAddr         common.Address `abi:"auctionAddr"`
	ConvertAddr         common.Address `abi:"convertAddr"`
	TokenAddr           common.Address `abi:"tokenAddr"`
	Minting             *big.Int       `abi:"minting"`
	TotalMET            *big.Int       `abi:"totalMET"`
	ProceedsBal         *big.Int       `abi:"proceedsBal"`
	CurrTick            *big.Int       `abi:"currTick"`
	CurrAuction         *big.Int       `abi:"currAuction"`
	NextAuctionGMT      *big.Int       `abi:"nextAuctionGMT"`
	GenesisGMT          *big.Int       `abi:"genesisGMT"`
	CurrentAuctionPrice *big.Int       `abi:"currentAuctionPrice"`
	DailyMintable       *big.Int       `abi:"_dailyMintable"`
	LastPurchasePrice   *big.Int       `abi:"_lastPurchasePrice"`
}

// ZeroHeartbeat returns a heartbeat with every numeric field set to zero.
func ZeroHeartbeat() *Heartbeat {
	return &Heartbeat{
		Minting:             new(big.Int),
		TotalMET:            new(big.Int),
		ProceedsBal:         new(big.Int),
		CurrTick:            new(big.Int),
		CurrAuction:         new(big.Int),
		NextAuctionGMT:      new(big.Int),
		GenesisGMT:          new(big.Int),
		CurrentAuctionPrice: new(big.Int),
		DailyMintable:       new(big.Int),
		LastPurchasePrice:   new(big.Int),
	}
}

func (b *Binding) Heartbeat(ctx context.Context) (*Heartbeat, error) {
	values, err := b.Call(ctx, "heartbeat")
	if err != nil {
		return nil, err
	}

	hb := new(Heartbeat)
	if err := b.ABI.Methods["heartbeat"].Outputs.Copy(hb, values); err != nil {
		return nil, fmt.Errorf("copy heartbeat: %w", err)
	}

	return hb, nil
}

// Converter contract reads.

func (b *Binding) MetBalance(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "getMetBalance")
}

func (b *Binding) EthBalance(ctx context.Context) (*big.Int, error) {
	return b.CallBigInt(ctx, "getEthBalance")
}

func (b *Binding) EthForMetResult(ctx context.Context, metAmount *big.Int) (*big.Int, error) {
	return b.CallBigInt(ctx, "getEthForMetResult", metAmount)
}
