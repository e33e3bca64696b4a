package contracts

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/rpc/mocks"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddr     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	auctionsAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	converterAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
	alice         = common.HexToAddress("0xaAaAaAaaAaAaAaaAaAAAAAAAAaaaAaAaAaaAaaAa")
	bob           = common.HexToAddress("0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB")
)

func newTestBindings(t *testing.T) (*Bindings, *mocks.ChainClient) {
	t.Helper()

	client := mocks.NewChainClient(t)
	bindings, err := NewBindings(client, config.ContractsConfig{
		Token:     tokenAddr.Hex(),
		Auctions:  auctionsAddr.Hex(),
		Converter: converterAddr.Hex(),
	})
	require.NoError(t, err)

	return bindings, client
}

func buildLog(t *testing.T, b *Binding, event string, indexed []common.Hash, data ...any) types.Log {
	t.Helper()

	ev := b.ABI.Events[event]
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return types.Log{
		Address:     b.Address,
		Topics:      append([]common.Hash{ev.ID}, indexed...),
		Data:        packed,
		BlockNumber: 3,
		TxIndex:     4,
		Index:       2,
	}
}

func TestABI(t *testing.T) {
	for _, kind := range []Kind{KindToken, KindAuctions, KindConverter} {
		parsed, err := ABI(kind)
		require.NoError(t, err, kind)
		require.NotEmpty(t, parsed.Events, kind)
	}

	_, err := ABI("unknown")
	require.ErrorContains(t, err, "unknown contract kind")
}

func TestBindings_ByKind(t *testing.T) {
	bindings, _ := newTestBindings(t)

	b, err := bindings.ByKind(KindConverter)
	require.NoError(t, err)
	require.Equal(t, converterAddr, b.Address)

	_, err = bindings.ByKind("missing")
	require.Error(t, err)
}

func TestDecodeLog_Transfer(t *testing.T) {
	bindings, _ := newTestBindings(t)

	log := buildLog(t, bindings.Token, "Transfer",
		[]common.Hash{common.BytesToHash(alice.Bytes()), common.BytesToHash(bob.Bytes())},
		big.NewInt(1500))

	decoded, err := bindings.Token.DecodeLog(log)
	require.NoError(t, err)
	require.Equal(t, "Transfer", decoded.Name)
	require.Equal(t, "Transfer(address,address,uint256)", decoded.Signature)
	require.Equal(t, alice, decoded.Values["_from"])
	require.Equal(t, bob, decoded.Values["_to"])
	require.Equal(t, 0, big.NewInt(1500).Cmp(decoded.Values["_value"].(*big.Int)))

	from, ok := decoded.AddressArg("_from")
	require.True(t, ok)
	require.Equal(t, alice, from)

	_, ok = decoded.AddressArg("_missing")
	require.False(t, ok)
}

func TestDecodeLog_AuctionFundsIn(t *testing.T) {
	bindings, _ := newTestBindings(t)

	log := buildLog(t, bindings.Auctions, "LogAuctionFundsIn",
		[]common.Hash{common.BytesToHash(alice.Bytes())},
		big.NewInt(10), big.NewInt(20), big.NewInt(30), big.NewInt(0))

	decoded, err := bindings.Auctions.DecodeLog(log)
	require.NoError(t, err)
	require.Equal(t, "LogAuctionFundsIn", decoded.Name)
	require.Equal(t, alice, decoded.Values["sender"])
	require.Equal(t, "20", NormalizeValue(decoded.Values["tokens"]))
}

func TestDecodeLog_UnknownTopic(t *testing.T) {
	bindings, _ := newTestBindings(t)

	log := types.Log{Topics: []common.Hash{common.HexToHash("0xdeadbeef")}}
	decoded, err := bindings.Converter.DecodeLog(log)
	require.NoError(t, err)
	require.Empty(t, decoded.Name)

	decoded, err = bindings.Converter.DecodeLog(types.Log{})
	require.NoError(t, err)
	require.Empty(t, decoded.Name)
}

func TestDecodeLog_MalformedData(t *testing.T) {
	bindings, _ := newTestBindings(t)

	ev := bindings.Token.ABI.Events["Approval"]
	log := types.Log{
		Topics: []common.Hash{ev.ID, common.BytesToHash(alice.Bytes()), common.BytesToHash(bob.Bytes())},
		Data:   []byte{0x01, 0x02},
	}

	_, err := bindings.Token.DecodeLog(log)
	require.Error(t, err)

	log = types.Log{Topics: []common.Hash{ev.ID}, Data: make([]byte, 32)}
	_, err = bindings.Token.DecodeLog(log)
	require.ErrorContains(t, err, "expected 2 indexed topics")
}

func TestNormalizeValue(t *testing.T) {
	values := map[string]any{
		"value":  big.NewInt(42),
		"who":    alice,
		"raw":    []byte{0xca, 0xfe},
		"chain":  [8]byte{'E', 'T', 'H'},
		"flag":   true,
		"nested": []any{big.NewInt(7), bob},
	}

	normalized := NormalizeValue(values).(map[string]any)
	require.Equal(t, "42", normalized["value"])
	require.Equal(t, alice.Hex(), normalized["who"])
	require.Equal(t, "0xcafe", normalized["raw"])
	require.Equal(t, "0x4554480000000000", normalized["chain"])
	require.Equal(t, true, normalized["flag"])
	require.Equal(t, []any{"7", bob.Hex()}, normalized["nested"])
	require.Equal(t, "0", NormalizeValue((*big.Int)(nil)))
}

func TestTopics(t *testing.T) {
	bindings, _ := newTestBindings(t)

	topics, err := bindings.Converter.Topics(nil)
	require.NoError(t, err)
	require.Nil(t, topics)

	topics, err = bindings.Token.Topics([]string{"Transfer", "Approval"})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, []common.Hash{
		bindings.Token.ABI.Events["Transfer"].ID,
		bindings.Token.ABI.Events["Approval"].ID,
	}, topics[0])

	_, err = bindings.Token.Topics([]string{"Mint"})
	require.ErrorContains(t, err, "event Mint not found")

	query, err := bindings.Auctions.FilterQuery([]string{"LogAuctionFundsIn"})
	require.NoError(t, err)
	require.Equal(t, []common.Address{auctionsAddr}, query.Addresses)
	require.Nil(t, query.FromBlock)
}

func TestBalanceOf(t *testing.T) {
	bindings, client := newTestBindings(t)
	ctx := context.Background()

	out, err := bindings.Token.ABI.Methods["balanceOf"].Outputs.Pack(big.NewInt(99))
	require.NoError(t, err)

	client.EXPECT().CallContract(ctx, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return *msg.To == tokenAddr && len(msg.Data) == 4+32
	}), (*big.Int)(nil)).Return(out, nil).Once()

	balance, err := bindings.Token.BalanceOf(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, int64(99), balance.Int64())
}

func TestCall_Error(t *testing.T) {
	bindings, client := newTestBindings(t)
	ctx := context.Background()

	client.EXPECT().CallContract(ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("execution reverted")).Once()

	_, err := bindings.Auctions.CurrentAuction(ctx)
	require.ErrorContains(t, err, "call auctions.currentAuction")
	require.ErrorContains(t, err, "execution reverted")
}

func TestHeartbeat(t *testing.T) {
	bindings, client := newTestBindings(t)
	ctx := context.Background()

	out, err := bindings.Auctions.ABI.Methods["heartbeat"].Outputs.Pack(
		[8]byte{'E', 'T', 'H'}, auctionsAddr, converterAddr, tokenAddr,
		big.NewInt(1000), big.NewInt(2000), big.NewInt(3000), big.NewInt(4),
		big.NewInt(5), big.NewInt(1700000000), big.NewInt(1600000000),
		big.NewInt(6), big.NewInt(7), big.NewInt(8),
	)
	require.NoError(t, err)

	client.EXPECT().CallContract(ctx, mock.Anything, mock.Anything).Return(out, nil).Once()

	hb, err := bindings.Auctions.Heartbeat(ctx)
	require.NoError(t, err)
	require.Equal(t, [8]byte{'E', 'T', 'H'}, hb.Chain)
	require.Equal(t, tokenAddr, hb.TokenAddr)
	require.Equal(t, int64(1000), hb.Minting.Int64())
	require.Equal(t, int64(3000), hb.ProceedsBal.Int64())
	require.Equal(t, int64(1700000000), hb.NextAuctionGMT.Int64())
	require.Equal(t, int64(8), hb.LastPurchasePrice.Int64())
}

func TestEthForMetResult(t *testing.T) {
	bindings, client := newTestBindings(t)
	ctx := context.Background()

	out, err := bindings.Converter.ABI.Methods["getEthForMetResult"].Outputs.Pack(big.NewInt(5))
	require.NoError(t, err)

	client.EXPECT().CallContract(ctx, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return *msg.To == converterAddr
	}), mock.Anything).Return(out, nil).Once()

	price, err := bindings.Converter.EthForMetResult(ctx, big.NewInt(1e18))
	require.NoError(t, err)
	require.Equal(t, int64(5), price.Int64())
}
