package contracts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind identifies one of the exported contracts.
type Kind string

const (
	KindToken     Kind = "token"
	KindAuctions  Kind = "auctions"
	KindConverter Kind = "converter"
)

const tokenABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "_from", "type": "address"},
      {"indexed": true, "name": "_to", "type": "address"},
      {"indexed": false, "name": "_value", "type": "uint256"}
    ],
    "name": "Transfer",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "_owner", "type": "address"},
      {"indexed": true, "name": "_spender", "type": "address"},
      {"indexed": false, "name": "_value", "type": "uint256"}
    ],
    "name": "Approval",
    "type": "event"
  },
  {
    "inputs": [{"name": "_owner", "type": "address"}],
    "name": "balanceOf",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "totalSupply",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const auctionsABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "sender", "type": "address"},
      {"indexed": false, "name": "amount", "type": "uint256"},
      {"indexed": false, "name": "tokens", "type": "uint256"},
      {"indexed": false, "name": "purchasePrice", "type": "uint256"},
      {"indexed": false, "name": "refund", "type": "uint256"}
    ],
    "name": "LogAuctionFundsIn",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "currentAuction",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "currentPrice",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "genesisTime",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "lastPurchasePrice",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "lastPurchaseTick",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "heartbeat",
    "outputs": [
      {"name": "_chain", "type": "bytes8"},
      {"name": "auctionAddr", "type": "address"},
      {"name": "convertAddr", "type": "address"},
      {"name": "tokenAddr", "type": "address"},
      {"name": "minting", "type": "uint256"},
      {"name": "totalMET", "type": "uint256"},
      {"name": "proceedsBal", "type": "uint256"},
      {"name": "currTick", "type": "uint256"},
      {"name": "currAuction", "type": "uint256"},
      {"name": "nextAuctionGMT", "type": "uint256"},
      {"name": "genesisGMT", "type": "uint256"},
      {"name": "currentAuctionPrice", "type": "uint256"},
      {"name": "_dailyMintable", "type": "uint256"},
      {"name": "_lastPurchasePrice", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const converterABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "from", "type": "address"},
      {"indexed": false, "name": "eth", "type": "uint256"},
      {"indexed": false, "name": "met", "type": "uint256"}
    ],
    "name": "ConvertEthToMet",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "name": "from", "type": "address"},
      {"indexed": false, "name": "eth", "type": "uint256"},
      {"indexed": false, "name": "met", "type": "uint256"}
    ],
    "name": "ConvertMetToEth",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "getMetBalance",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "getEthBalance",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"name": "_metAmount", "type": "uint256"}],
    "name": "getEthForMetResult",
    "outputs": [{"name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

type parsedABI struct {
	once sync.Once
	abi  abi.ABI
	err  error
	raw  string
}

var abis = map[Kind]*parsedABI{
	KindToken:     {raw: tokenABIJSON},
	KindAuctions:  {raw: auctionsABIJSON},
	KindConverter: {raw: converterABIJSON},
}

// ABI returns the parsed ABI of the given contract kind.
func ABI(kind Kind) (*abi.ABI, error) {
	p, ok := abis[kind]
	if !ok {
		return nil, fmt.Errorf("unknown contract kind %q", kind)
	}

	p.once.Do(func() {
		p.abi, p.err = abi.JSON(strings.NewReader(p.raw))
	})
	if p.err != nil {
		return nil, fmt.Errorf("failed to parse %s ABI: %w", kind, p.err)
	}

	return &p.abi, nil
}
