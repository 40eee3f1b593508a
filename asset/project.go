package asset

import (
	"bytes"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

// rightKey addresses an owned right by type and controlling outpoint. The
// frontier of unspent rights is a plain index over these keys; rights never
// reference each other directly.
type rightKey struct {
	right    schema.OwnedRightType
	outpoint wire.OutPoint
}

type rightState struct {
	value             uint64
	valueConfidential bool
	witness           chainhash.Hash
}

// Project folds a genesis and an ordered transition sequence into a cached
// Asset view. The input is trusted to be structurally well-formed and
// cryptographically committed; domain consistency (frontier, supply
// conservation, epoch exposure) is re-checked here, and any inconsistency
// aborts the whole projection. The sequence order must respect closing
// dependencies: a transition cannot appear before the transitions whose
// outputs it closes.
func Project(gen *contract.Genesis, transitions []*contract.Transition) (*Asset, error) {
	variant, ok := schema.VariantOf(gen.SchemaID)
	if !ok {
		return nil, newError(CodeWrongSchemaID,
			"genesis schema %s is not a published RGB20 schema", gen.SchemaID)
	}

	nom, err := NominationFromGenesis(gen)
	if err != nil {
		return nil, err
	}
	contractID := gen.ContractID()

	issued, ok := gen.Metadata.FirstU64(schema.FieldIssuedSupply)
	if !ok {
		return nil, nodeError(CodeUnsatisfiedSchemaRequirement, contractID,
			"genesis carries no issued supply")
	}
	timestamp, ok := gen.Metadata.FirstI64(schema.FieldTimestamp)
	if !ok {
		return nil, nodeError(CodeUnsatisfiedSchemaRequirement, contractID,
			"genesis carries no timestamp")
	}

	unspent := make(map[rightKey]rightState)
	// Epoch lineage of burn rights: the node id of the epoch transition each
	// unspent burn right descends from.
	epochOf := make(map[wire.OutPoint]cid.Cid)

	for rt, list := range gen.OwnedRights {
		for _, as := range list {
			if as.Seal.IsWitnessRelative() {
				return nil, nodeError(CodeGenesisSeal, contractID,
					"genesis %s seal references a witness transaction output", rt)
			}
			if as.Seal.IsConfidential() {
				if rt == schema.RightOpenEpoch {
					return nil, nodeError(CodeEpochSealConfidential, contractID,
						"genesis epoch seal is concealed")
				}
				// Concealed allocations stay out of the known view.
				continue
			}
			if rt == schema.RightInflation && as.ValueConfidential {
				return nil, nodeError(CodeInflationAssignmentConfidential, contractID,
					"genesis inflation cap is concealed")
			}
			op, _ := as.Seal.Resolve(chainhash.Hash{})
			unspent[rightKey{rt, op}] = rightState{
				value:             as.Value,
				valueConfidential: as.ValueConfidential,
			}
		}
	}

	// Maximum supply is bounded by genesis: what was issued there plus every
	// inflation cap granted there. Carried-forward inflation rights only
	// redistribute the remainder of those caps.
	maxSupply := issued
	for _, as := range gen.OwnedRights[schema.RightInflation] {
		maxSupply = satAdd(maxSupply, as.Value)
	}

	knownSupply := issued
	var burnedSupply, replacedSupply uint64

	for _, t := range transitions {
		node := t.NodeID()

		var closedEpoch cid.Cid
		for _, in := range t.Closes {
			key := rightKey{in.Right, in.Outpoint}
			if _, ok := unspent[key]; !ok {
				if in.Right == schema.RightBurnReplace {
					// Burn rights descend exclusively from epoch transitions;
					// an unknown one means the opening epoch was withheld.
					return nil, nodeError(CodeNotAllEpochsExposed, node,
						"burn right at %s has no exposed opening epoch", in.Outpoint)
				}
				return nil, nodeError(CodeInsufficientRights, node,
					"%s right at %s is unknown or already closed", in.Right, in.Outpoint)
			}
			if in.Right == schema.RightBurnReplace {
				closedEpoch = epochOf[in.Outpoint]
			}
		}
		for _, in := range t.Closes {
			delete(unspent, rightKey{in.Right, in.Outpoint})
			delete(epochOf, in.Outpoint)
		}

		switch t.Type {
		case schema.TransitionIssue:
			amount, ok := t.Metadata.FirstU64(schema.FieldIssuedSupply)
			if !ok {
				return nil, nodeError(CodeUnsatisfiedSchemaRequirement, node,
					"secondary issue carries no issued supply")
			}
			knownSupply = satAdd(knownSupply, amount)

		case schema.TransitionBurn:
			amount, ok := t.Metadata.FirstU64(schema.FieldBurnedSupply)
			if !ok {
				return nil, nodeError(CodeUnsatisfiedSchemaRequirement, node,
					"burn carries no burned supply")
			}
			burnedSupply = satAdd(burnedSupply, amount)

		case schema.TransitionBurnAndReplace:
			amount, ok := t.Metadata.FirstU64(schema.FieldBurnedSupply)
			if !ok {
				return nil, nodeError(CodeUnsatisfiedSchemaRequirement, node,
					"burn-and-replace carries no burned supply")
			}
			replacedSupply = satAdd(replacedSupply, amount)
			reissued, ok := t.Metadata.FirstU64(schema.FieldIssuedSupply)
			if !ok {
				return nil, nodeError(CodeUnsatisfiedSchemaRequirement, node,
					"burn-and-replace carries no issued supply")
			}
			knownSupply = satAdd(knownSupply, reissued)
		}

		for rt, list := range t.OwnedRights {
			for _, as := range list {
				if as.Seal.IsConfidential() {
					switch {
					case t.Type == schema.TransitionEpoch:
						return nil, nodeError(CodeEpochSealConfidential, node,
							"epoch %s seal is concealed", rt)
					case rt == schema.RightBurnReplace:
						return nil, nodeError(CodeBurnSealConfidential, node,
							"burn right seal is concealed")
					default:
						continue
					}
				}
				if rt == schema.RightInflation && as.ValueConfidential {
					return nil, nodeError(CodeInflationAssignmentConfidential, node,
						"inflation cap is concealed")
				}
				op, _ := as.Seal.Resolve(t.Witness)
				unspent[rightKey{rt, op}] = rightState{
					value:             as.Value,
					valueConfidential: as.ValueConfidential,
					witness:           t.Witness,
				}
				if rt == schema.RightBurnReplace {
					switch t.Type {
					case schema.TransitionEpoch:
						epochOf[op] = node
					default:
						epochOf[op] = closedEpoch
					}
				}
			}
		}
	}

	if satAdd(burnedSupply, replacedSupply) > knownSupply {
		return nil, newError(CodeInsufficientRights,
			"burned and replaced supply exceed the known supply")
	}

	a := &Asset{
		ContractID:     contractID,
		Variant:        variant,
		Nomination:     nom,
		IssuedAt:       time.Unix(timestamp, 0).UTC(),
		KnownSupply:    knownSupply,
		MaxSupply:      maxSupply,
		BurnedSupply:   burnedSupply,
		ReplacedSupply: replacedSupply,
	}

	for key, st := range unspent {
		switch key.right {
		case schema.RightAssets:
			if st.valueConfidential {
				continue
			}
			a.KnownAllocations = append(a.KnownAllocations, Allocation{
				Outpoint: key.outpoint,
				Value:    st.value,
				Witness:  st.witness,
			})
		case schema.RightInflation:
			a.KnownInflation = append(a.KnownInflation, InflationRight{
				Outpoint: key.outpoint,
				Cap:      st.value,
			})
		case schema.RightOpenEpoch:
			op := key.outpoint
			a.OpenEpochRight = &op
		case schema.RightRenomination:
			op := key.outpoint
			a.RenominationRight = &op
		case schema.RightBurnReplace:
			a.CanBeBurned = true
		}
	}

	sortAllocations(a.KnownAllocations)
	sortInflation(a.KnownInflation)

	a.CanBeInflated = len(a.KnownInflation) > 0
	a.CanBeRenominated = a.RenominationRight != nil
	// Replace support is structural: only the full schema defines the
	// burn-and-replace transition at all.
	a.CanBeReplaced = variant == schema.VariantFull && a.CanBeBurned
	a.TotalSupplyKnown = !a.CanBeInflated

	return a, nil
}

func outpointLess(a, b wire.OutPoint) bool {
	if c := bytes.Compare(a.Hash[:], b.Hash[:]); c != 0 {
		return c < 0
	}
	return a.Index < b.Index
}

func sortAllocations(list []Allocation) {
	sort.Slice(list, func(i, j int) bool {
		return outpointLess(list[i].Outpoint, list[j].Outpoint)
	})
}

func sortInflation(list []InflationRight) {
	sort.Slice(list, func(i, j int) bool {
		return outpointLess(list[i].Outpoint, list[j].Outpoint)
	})
}
