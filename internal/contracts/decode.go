package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// DecodedLog is a raw log together with its ABI-decoded arguments.
// Name is empty when the log does not match any event of the contract ABI.
type DecodedLog struct {
	Log       types.Log
	Name      string
	Signature string
	Values    map[string]any
}

// DecodeLog decodes a log emitted by this contract.
// Logs with an unknown topic are returned undecoded and without error, so that
// callers can skip them the same way as any other unwanted event.
func (b *Binding) DecodeLog(log types.Log) (*DecodedLog, error) {
	decoded := &DecodedLog{Log: log}
	if len(log.Topics) == 0 {
		return decoded, nil
	}

	ev, err := b.ABI.EventByID(log.Topics[0])
	if err != nil {
		return decoded, nil //nolint:nilerr
	}

	values := make(map[string]any, len(ev.Inputs))
	if len(log.Data) > 0 {
		if err := ev.Inputs.UnpackIntoMap(values, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", ev.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	if len(indexed) > 0 {
		if len(log.Topics)-1 != len(indexed) {
			return nil, fmt.Errorf("%s: expected %d indexed topics, got %d",
				ev.Name, len(indexed), len(log.Topics)-1)
		}

		if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("failed to parse %s topics: %w", ev.Name, err)
		}
	}

	decoded.Name = ev.Name
	decoded.Signature = ev.Sig
	decoded.Values = values

	return decoded, nil
}

// NormalizeValue converts decoded ABI values into their storable form.
// Big integers become decimal strings, addresses checksummed hex and byte
// values 0x-prefixed hex. Nested maps and slices are converted in place.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case *big.Int:
		if val == nil {
			return "0"
		}
		return val.String()
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	case [8]byte:
		return hexutil.Encode(val[:])
	case [32]byte:
		return hexutil.Encode(val[:])
	case map[string]any:
		for k, inner := range val {
			val[k] = NormalizeValue(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = NormalizeValue(inner)
		}
		return val
	default:
		return val
	}
}

// AddressArg returns the named address argument of a decoded log.
func (d *DecodedLog) AddressArg(name string) (common.Address, bool) {
	v, ok := d.Values[name]
	if !ok {
		return common.Address{}, false
	}

	switch addr := v.(type) {
	case common.Address:
		return addr, true
	case string:
		if !common.IsHexAddress(addr) {
			return common.Address{}, false
		}
		return common.HexToAddress(addr), true
	default:
		return common.Address{}, false
	}
}
