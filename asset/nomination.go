package asset

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

// Nomination is the descriptive metadata of an asset: ticker, name, optional
// Ricardian contract reference and decimal precision. It is extracted from
// genesis and evolved by renomination transitions.
type Nomination struct {
	Ticker    string `json:"ticker"`
	Name      string `json:"name"`
	Ricardian string `json:"ricardian,omitempty"`
	Precision uint8  `json:"precision"`
}

// Renomination is one epoch of the renomination chain. Epochs are numbered
// from 1; epoch 1 closes the right granted at genesis, and each later epoch
// closes the seal its predecessor declared as next. A nil Next terminates the
// chain for good.
type Renomination struct {
	Node       cid.Cid        `json:"node"`
	Epoch      uint32         `json:"epoch"`
	ContractID cid.Cid        `json:"contractId"`
	Closes     wire.OutPoint  `json:"closes"`
	Next       *wire.OutPoint `json:"next,omitempty"`
	Witness    chainhash.Hash `json:"witness"`
	Nomination Nomination     `json:"nomination"`
}

// ValidateTicker enforces the schema-level ticker rule: 3 to 8 uppercase
// ASCII letters.
func ValidateTicker(ticker string) error {
	if len(ticker) < 3 || len(ticker) > 8 {
		return newError(CodeUnsatisfiedSchemaRequirement,
			"ticker %q must be between 3 and 8 characters", ticker)
	}
	for _, c := range ticker {
		if c < 'A' || c > 'Z' {
			return newError(CodeUnsatisfiedSchemaRequirement,
				"ticker %q must consist only of capital ASCII letters", ticker)
		}
	}
	return nil
}

// NominationFromGenesis extracts the initial nomination from required genesis
// metadata.
func NominationFromGenesis(gen *contract.Genesis) (Nomination, error) {
	var nom Nomination

	ticker, ok := gen.Metadata.FirstAscii(schema.FieldTicker)
	if !ok {
		return nom, newError(CodeUnsatisfiedSchemaRequirement, "genesis carries no ticker")
	}
	if err := ValidateTicker(ticker); err != nil {
		return nom, err
	}
	name, ok := gen.Metadata.FirstAscii(schema.FieldName)
	if !ok {
		return nom, newError(CodeUnsatisfiedSchemaRequirement, "genesis carries no asset name")
	}
	precision, ok := gen.Metadata.FirstU8(schema.FieldPrecision)
	if !ok {
		return nom, newError(CodeUnsatisfiedSchemaRequirement, "genesis carries no decimal precision")
	}

	nom.Ticker = ticker
	nom.Name = name
	nom.Precision = precision
	// The contract reference is the only optional nomination component.
	nom.Ricardian, _ = gen.Metadata.FirstAscii(schema.FieldRicardianContract)
	return nom, nil
}

// ChainRenominations orders the renomination history of an asset. Genesis
// grants at most one renomination right; epoch 1 must close it, and epoch k
// must close the seal epoch k-1 declared as next. A renomination transition
// that follows a terminated chain, or closes anything but the expected seal,
// is rejected rather than ignored.
//
// Nomination fields of each epoch default to the previous epoch's values
// field by field: an absent field inherits, it never erases.
func ChainRenominations(gen *contract.Genesis, transitions []*contract.Transition) ([]Renomination, error) {
	base, err := NominationFromGenesis(gen)
	if err != nil {
		return nil, err
	}
	contractID := gen.ContractID()

	next, err := genesisRenominationSeal(gen)
	if err != nil {
		return nil, err
	}

	var chain []Renomination
	current := base
	for _, t := range transitions {
		if t.Type != schema.TransitionRenomination {
			continue
		}
		node := t.NodeID()
		if next == nil {
			if len(chain) == 0 {
				return nil, nodeError(CodeInsufficientRights, node,
					"genesis granted no renomination right")
			}
			return nil, nodeError(CodeInsufficientRights, node,
				"renomination chain was terminated at epoch %d", chain[len(chain)-1].Epoch)
		}
		if !closesExactly(t, schema.RightRenomination, *next) {
			return nil, nodeError(CodeInsufficientRights, node,
				"renomination must close the pending seal %s", next)
		}

		current = renominate(current, t.Metadata)
		if err := ValidateTicker(current.Ticker); err != nil {
			return nil, err
		}

		ren := Renomination{
			Node:       node,
			Epoch:      uint32(len(chain) + 1),
			ContractID: contractID,
			Closes:     *next,
			Witness:    t.Witness,
			Nomination: current,
		}

		next = nil
		for _, as := range t.OwnedRights[schema.RightRenomination] {
			if as.Seal.IsConfidential() {
				return nil, nodeError(CodeEpochSealConfidential, node,
					"renomination next seal is concealed")
			}
			op, _ := as.Seal.Resolve(t.Witness)
			ren.Next = &op
			next = &op
			break
		}

		chain = append(chain, ren)
	}
	return chain, nil
}

func genesisRenominationSeal(gen *contract.Genesis) (*wire.OutPoint, error) {
	for _, as := range gen.OwnedRights[schema.RightRenomination] {
		seal := as.Seal
		if seal.IsWitnessRelative() {
			return nil, nodeError(CodeGenesisSeal, gen.ContractID(),
				"genesis renomination seal cannot be witness-relative")
		}
		if seal.IsConfidential() {
			return nil, nodeError(CodeEpochSealConfidential, gen.ContractID(),
				"genesis renomination seal is concealed")
		}
		op, _ := seal.Resolve(chainhash.Hash{})
		return &op, nil
	}
	return nil, nil
}

func closesExactly(t *contract.Transition, rt schema.OwnedRightType, op wire.OutPoint) bool {
	if len(t.Closes) != 1 {
		return false
	}
	return t.Closes[0].Right == rt && t.Closes[0].Outpoint == op
}

// renominate overlays the fields present in renomination metadata onto the
// previous nomination.
func renominate(prev Nomination, meta contract.Metadata) Nomination {
	next := prev
	if ticker, ok := meta.FirstAscii(schema.FieldTicker); ok {
		next.Ticker = ticker
	}
	if name, ok := meta.FirstAscii(schema.FieldName); ok {
		next.Name = name
	}
	if ricardian, ok := meta.FirstAscii(schema.FieldRicardianContract); ok {
		next.Ricardian = ricardian
	}
	if precision, ok := meta.FirstU8(schema.FieldPrecision); ok {
		next.Precision = precision
	}
	return next
}
