// Package asset projects cached RGB20 asset views out of already-committed
// ledger data, tracks renomination history, and drafts new schema-compliant
// state transitions.
//
// Nothing here is a source of truth: a projected Asset is a read-only cache
// reconstructed from a genesis plus an ordered, externally validated sequence
// of state transitions, and is replaced wholesale by the next projection.
// The package holds no state between calls and performs no I/O.
package asset

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/schema"
)

// Allocation is one unspent asset ownership right: the outpoint controlling
// it, the allocated amount, and the witness transaction that created it
// (zero for genesis allocations).
type Allocation struct {
	Outpoint wire.OutPoint  `json:"outpoint"`
	Value    uint64         `json:"value"`
	Witness  chainhash.Hash `json:"witness"`
}

// InflationRight is one unspent secondary-issuance right and the maximum
// amount issuable by spending it.
type InflationRight struct {
	Outpoint wire.OutPoint `json:"outpoint"`
	Cap      uint64        `json:"cap"`
}

// Asset is the projected cache of a fungible asset's state. All fields
// describe *known* state: allocations hidden behind concealed seals or
// blinded amounts are excluded rather than guessed at.
type Asset struct {
	ContractID cid.Cid        `json:"contractId"`
	Variant    schema.Variant `json:"variant"`
	Nomination Nomination     `json:"nomination"`
	IssuedAt   time.Time      `json:"issuedAt"`

	KnownAllocations []Allocation     `json:"knownAllocations"`
	KnownInflation   []InflationRight `json:"knownInflation"`

	// OpenEpochRight and RenominationRight are the unspent declarative
	// rights, when they exist; each occurs at most once by schema.
	OpenEpochRight    *wire.OutPoint `json:"openEpochRight,omitempty"`
	RenominationRight *wire.OutPoint `json:"renominationRight,omitempty"`

	KnownSupply    uint64 `json:"knownSupply"`
	MaxSupply      uint64 `json:"maxSupply"`
	BurnedSupply   uint64 `json:"burnedSupply"`
	ReplacedSupply uint64 `json:"replacedSupply"`

	CanBeInflated    bool `json:"canBeInflated"`
	CanBeRenominated bool `json:"canBeRenominated"`
	CanBeBurned      bool `json:"canBeBurned"`
	CanBeReplaced    bool `json:"canBeReplaced"`

	// TotalSupplyKnown is best-effort: it reports that no unspent inflation
	// right remains, so no further issuance can happen. It does not verify
	// blinded amounts; that verification belongs to the external validation
	// layer and is a documented open limitation.
	TotalSupplyKnown bool `json:"totalSupplyKnown"`
}

// SpendableSupply is the known supply minus everything burned or replaced.
func (a *Asset) SpendableSupply() uint64 {
	spent := satAdd(a.BurnedSupply, a.ReplacedSupply)
	if spent >= a.KnownSupply {
		return 0
	}
	return a.KnownSupply - spent
}

// Allocation returns the unspent allocation controlled by the outpoint.
func (a *Asset) Allocation(op wire.OutPoint) (Allocation, bool) {
	for _, al := range a.KnownAllocations {
		if al.Outpoint == op {
			return al, true
		}
	}
	return Allocation{}, false
}

func satAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return ^uint64(0)
}
