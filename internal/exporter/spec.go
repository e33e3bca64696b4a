package exporter

import (
	"fmt"
	"slices"

	"github.com/goran-ethernal/ChainExporter/internal/contracts"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
)

// Spec describes one exporter as data: which contract it reads, which of its
// events it keeps and which event arguments name accounts.
type Spec struct {
	// Name is the exporter name; it also prefixes the checkpoint key.
	Name string

	// Contract selects the binding the exporter reads logs from.
	Contract contracts.Kind

	// Events lists the accepted event names. Nil accepts every event of the contract ABI.
	Events []string

	// AddressArgs maps an event name to the arguments holding affected accounts.
	AddressArgs map[string][]string

	// ExportBalances re-reads token balances of affected accounts after each write.
	ExportBalances bool
}

// Accepts reports whether the named event belongs to this exporter.
func (s Spec) Accepts(event string) bool {
	if event == "" {
		return false
	}
	if s.Events == nil {
		return true
	}

	return slices.Contains(s.Events, event)
}

// TokenSpec exports token transfers and approvals and keeps account balances.
func TokenSpec() Spec {
	return Spec{
		Name:     config.ExporterToken,
		Contract: contracts.KindToken,
		Events:   []string{"Transfer", "Approval"},
		AddressArgs: map[string][]string{
			"Transfer": {"_from", "_to"},
			"Approval": {"_owner", "_spender"},
		},
		ExportBalances: true,
	}
}

// ConverterSpec exports every converter event.
func ConverterSpec() Spec {
	return Spec{
		Name:     config.ExporterConverter,
		Contract: contracts.KindConverter,
		AddressArgs: map[string][]string{
			"ConvertEthToMet": {"from"},
			"ConvertMetToEth": {"from"},
		},
	}
}

// AuctionSpec exports auction purchases.
func AuctionSpec() Spec {
	return Spec{
		Name:     config.ExporterAuction,
		Contract: contracts.KindAuctions,
		Events:   []string{"LogAuctionFundsIn"},
		AddressArgs: map[string][]string{
			"LogAuctionFundsIn": {"sender"},
		},
	}
}

// Specs returns every known exporter spec in start order.
func Specs() []Spec {
	return []Spec{TokenSpec(), ConverterSpec(), AuctionSpec()}
}

// SpecByName returns the spec registered under name.
func SpecByName(name string) (Spec, error) {
	for _, s := range Specs() {
		if s.Name == name {
			return s, nil
		}
	}

	return Spec{}, fmt.Errorf("unknown exporter %q", name)
}
