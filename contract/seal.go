// Package contract models the client-side-validated ledger data this library
// consumes and produces: genesis records, state transitions, their metadata,
// seals and owned-right assignments, and the consignment bundles that carry
// them. Structural well-formedness and cryptographic commitment of this data
// are the external ledger core's responsibility; packages here only add
// schema-level and accounting-level meaning on top.
package contract

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Seal binds an owned right to a transaction output. A seal is one of:
//
//   - revealed: an explicit outpoint (txid:vout);
//   - witness-relative: a vout of the not-yet-known witness transaction that
//     will commit the transition carrying the seal;
//   - concealed: only the blinded hash of the seal is known.
//
// Witness-relative seals are meaningless in genesis, which has no witness
// transaction.
type Seal struct {
	Txid    *chainhash.Hash `json:"txid,omitempty"`
	Vout    uint32          `json:"vout"`
	Blinded []byte          `json:"blinded,omitempty"`
}

// RevealedSeal returns a seal naming an explicit outpoint.
func RevealedSeal(op wire.OutPoint) Seal {
	txid := op.Hash
	return Seal{Txid: &txid, Vout: op.Index}
}

// WitnessSeal returns a seal relative to the future witness transaction.
func WitnessSeal(vout uint32) Seal {
	return Seal{Vout: vout}
}

// ConcealedSeal returns a seal known only in blinded form.
func ConcealedSeal(blinded [32]byte) Seal {
	return Seal{Blinded: blinded[:]}
}

// IsConfidential reports whether the seal is present only in concealed form.
func (s Seal) IsConfidential() bool {
	return len(s.Blinded) > 0
}

// IsWitnessRelative reports whether the seal refers to an output of the
// witness transaction rather than an explicit outpoint.
func (s Seal) IsWitnessRelative() bool {
	return s.Txid == nil && !s.IsConfidential()
}

// Resolve returns the outpoint the seal controls, resolving witness-relative
// seals against the given witness txid. Concealed seals do not resolve.
func (s Seal) Resolve(witness chainhash.Hash) (wire.OutPoint, bool) {
	if s.IsConfidential() {
		return wire.OutPoint{}, false
	}
	if s.Txid != nil {
		return wire.OutPoint{Hash: *s.Txid, Index: s.Vout}, true
	}
	return wire.OutPoint{Hash: witness, Index: s.Vout}, true
}

func (s Seal) String() string {
	switch {
	case s.IsConfidential():
		return fmt.Sprintf("concealed(%x)", s.Blinded)
	case s.Txid == nil:
		return fmt.Sprintf("~:%d", s.Vout)
	default:
		return fmt.Sprintf("%s:%d", s.Txid, s.Vout)
	}
}
