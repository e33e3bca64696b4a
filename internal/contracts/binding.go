package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/rpc"
)

// Binding ties a contract ABI to its deployed address and a live client.
type Binding struct {
	Kind    Kind
	Address common.Address
	ABI     *abi.ABI

	client rpc.ChainClient
}

// NewBinding creates a binding for the contract of the given kind at address.
func NewBinding(kind Kind, address common.Address, client rpc.ChainClient) (*Binding, error) {
	parsed, err := ABI(kind)
	if err != nil {
		return nil, err
	}

	return &Binding{
		Kind:    kind,
		Address: address,
		ABI:     parsed,
		client:  client,
	}, nil
}

// Client returns the client the binding issues calls through.
func (b *Binding) Client() rpc.ChainClient {
	return b.client
}

// Call packs and executes a read-only call of method against the latest block.
func (b *Binding) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := b.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{To: &b.Address, Data: data}
	resp, err := b.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", b.Kind, method, err)
	}

	values, err := b.ABI.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}

	return values, nil
}

// CallBigInt executes a call whose single output is a uint256.
func (b *Binding) CallBigInt(ctx context.Context, method string, args ...any) (*big.Int, error) {
	values, err := b.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}

	if len(values) != 1 {
		return nil, fmt.Errorf("%s return size %d", method, len(values))
	}

	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s unexpected type %T", method, values[0])
	}

	return v, nil
}

// Topics builds the topic filter matching the named events.
// An empty list matches every event the contract emits.
func (b *Binding) Topics(eventNames []string) ([][]common.Hash, error) {
	if len(eventNames) == 0 {
		return nil, nil
	}

	ids := make([]common.Hash, 0, len(eventNames))
	for _, name := range eventNames {
		ev, ok := b.ABI.Events[name]
		if !ok {
			return nil, fmt.Errorf("event %s not found in %s ABI", name, b.Kind)
		}
		ids = append(ids, ev.ID)
	}

	return [][]common.Hash{ids}, nil
}

// FilterQuery returns a block-range-less query for the named events of this contract.
func (b *Binding) FilterQuery(eventNames []string) (ethereum.FilterQuery, error) {
	topics, err := b.Topics(eventNames)
	if err != nil {
		return ethereum.FilterQuery{}, err
	}

	return ethereum.FilterQuery{
		Addresses: []common.Address{b.Address},
		Topics:    topics,
	}, nil
}

// Bindings is the set of contract bindings built for one connection.
type Bindings struct {
	Token     *Binding
	Auctions  *Binding
	Converter *Binding
}

// NewBindings creates fresh bindings for every configured contract.
func NewBindings(client rpc.ChainClient, cfg config.ContractsConfig) (*Bindings, error) {
	token, err := NewBinding(KindToken, common.HexToAddress(cfg.Token), client)
	if err != nil {
		return nil, err
	}

	auctions, err := NewBinding(KindAuctions, common.HexToAddress(cfg.Auctions), client)
	if err != nil {
		return nil, err
	}

	converter, err := NewBinding(KindConverter, common.HexToAddress(cfg.Converter), client)
	if err != nil {
		return nil, err
	}

	return &Bindings{
		Token:     token,
		Auctions:  auctions,
		Converter: converter,
	}, nil
}

// ByKind returns the binding of the given contract kind.
func (b *Bindings) ByKind(kind Kind) (*Binding, error) {
	switch kind {
	case KindToken:
		return b.Token, nil
	case KindAuctions:
		return b.Auctions, nil
	case KindConverter:
		return b.Converter, nil
	default:
		return nil, fmt.Errorf("unknown contract kind %q", kind)
	}
}
