package exporter

import (
	"context"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	rpcmocks "github.com/goran-ethernal/ChainExporter/internal/rpc/mocks"
	sqlstore "github.com/goran-ethernal/ChainExporter/internal/store"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
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

const genesisTimestamp = 1_600_000_000

func newTestBindings(t *testing.T) (*contracts.Bindings, *rpcmocks.ChainClient) {
	t.Helper()

	client := rpcmocks.NewChainClient(t)
	bindings, err := contracts.NewBindings(client, config.ContractsConfig{
		Token:     tokenAddr.Hex(),
		Auctions:  auctionsAddr.Hex(),
		Converter: converterAddr.Hex(),
	})
	require.NoError(t, err)

	return bindings, client
}

func newTestStore(t *testing.T) *sqlstore.SQLiteStore {
	t.Helper()

	cfg := config.StoreConfig{
		Driver: config.DriverSQLite,
		DB:     config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "exporter.db")},
	}
	cfg.ApplyDefaults()

	s, err := sqlstore.NewSQLiteStore(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })

	return s
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func buildLog(t *testing.T, b *contracts.Binding, event string, block uint64, txIndex, logIndex uint,
	indexed []common.Hash, data ...any) types.Log {
	t.Helper()

	ev := b.ABI.Events[event]
	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return types.Log{
		Address:     b.Address,
		Topics:      append([]common.Hash{ev.ID}, indexed...),
		Data:        packed,
		BlockNumber: block,
		TxIndex:     txIndex,
		Index:       logIndex,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block*1000 + uint64(txIndex))),
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(block)),
	}
}

func transferLog(t *testing.T, b *contracts.Binding, block uint64, txIndex, logIndex uint,
	from, to common.Address, value int64) types.Log {
	t.Helper()

	return buildLog(t, b, "Transfer", block, txIndex, logIndex,
		[]common.Hash{addressTopic(from), addressTopic(to)}, big.NewInt(value))
}

func fundsInLog(t *testing.T, b *contracts.Binding, block uint64, logIndex uint, sender common.Address) types.Log {
	t.Helper()

	return buildLog(t, b, "LogAuctionFundsIn", block, 0, logIndex,
		[]common.Hash{addressTopic(sender)},
		big.NewInt(1e18), big.NewInt(2e18), big.NewInt(5e17), big.NewInt(0))
}

// expectHeaders answers every header lookup with a block timestamp derived from its number.
func expectHeaders(client *rpcmocks.ChainClient) {
	client.EXPECT().HeaderByNumber(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, n *big.Int) (*types.Header, error) {
			return &types.Header{Number: n, Time: genesisTimestamp + n.Uint64()}, nil
		}).Maybe()
}

// expectBalances answers balanceOf calls from the given table.
func expectBalances(t *testing.T, client *rpcmocks.ChainClient, token *contracts.Binding, balances map[common.Address]int64) {
	t.Helper()

	outputs := token.ABI.Methods["balanceOf"].Outputs
	client.EXPECT().CallContract(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			owner := common.BytesToAddress(msg.Data[16:36])
			return outputs.Pack(big.NewInt(balances[owner]))
		}).Maybe()
}

type sent struct {
	topic   string
	payload any
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []sent
}

var _ push.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Broadcast(topic string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, sent{topic: topic, payload: payload})
}

func (p *recordingPublisher) SendTo(_ string, topic string, payload any) error {
	p.Broadcast(topic, payload)
	return nil
}

func (p *recordingPublisher) Subscribers() <-chan push.Subscriber {
	return nil
}

func (p *recordingPublisher) byTopic(topic string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []any
	for _, m := range p.messages {
		if m.topic == topic {
			out = append(out, m.payload)
		}
	}

	return out
}

type fakeSubscription struct {
	errCh chan error
	once  sync.Once
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{errCh: make(chan error, 1)}
}

func (s *fakeSubscription) Err() <-chan error {
	return s.errCh
}

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.errCh) })
}
