package schema

import (
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
)

// Build returns the schema for a published variant. Construction is total:
// every defined variant builds, and the same variant always builds the same
// schema. Unknown variants are a programming error and panic.
func Build(v Variant) *Schema {
	switch v {
	case VariantFull:
		return buildFull()
	case VariantInflationary:
		s := buildInflationary()
		s.RootID = rootID()
		return s
	case VariantSimple:
		s := buildSimple()
		s.RootID = rootID()
		return s
	default:
		panic(fmt.Sprintf("schema: unknown variant %#02x", uint8(v)))
	}
}

var variantIndex = sync.OnceValue(func() map[cid.Cid]Variant {
	m := make(map[cid.Cid]Variant, 3)
	for _, v := range []Variant{VariantFull, VariantInflationary, VariantSimple} {
		m[Build(v).SchemaID()] = v
	}
	return m
})

var rootID = sync.OnceValue(func() cid.Cid {
	return buildFull().SchemaID()
})

// VariantOf maps a schema id back to its published variant.
func VariantOf(id cid.Cid) (Variant, bool) {
	v, ok := variantIndex()[id]
	return v, ok
}

func genesisSchema() GenesisSchema {
	return GenesisSchema{
		Metadata: map[FieldType]Occurrences{
			FieldTicker:            Once,
			FieldName:              Once,
			FieldRicardianContract: NoneOrOnce,
			FieldPrecision:         Once,
			FieldTimestamp:         Once,
			// Clear-text issued supply is what makes supply accounting
			// possible while allocation amounts stay blinded.
			FieldIssuedSupply: Once,
		},
		OwnedRights: map[OwnedRightType]Occurrences{
			RightInflation:    NoneOrMore,
			RightOpenEpoch:    NoneOrOnce,
			RightAssets:       NoneOrMore,
			RightRenomination: NoneOrOnce,
		},
	}
}

func issueSchema() TransitionSchema {
	return TransitionSchema{
		Metadata: map[FieldType]Occurrences{
			FieldIssuedSupply: Once,
		},
		Closes: map[OwnedRightType]Occurrences{
			RightInflation: OnceOrMore,
		},
		OwnedRights: map[OwnedRightType]Occurrences{
			RightInflation: NoneOrMore,
			RightOpenEpoch: NoneOrOnce,
			RightAssets:    NoneOrMore,
		},
	}
}

func transferSchema() TransitionSchema {
	return TransitionSchema{
		Metadata: map[FieldType]Occurrences{},
		Closes: map[OwnedRightType]Occurrences{
			RightAssets: OnceOrMore,
		},
		OwnedRights: map[OwnedRightType]Occurrences{
			RightAssets: NoneOrMore,
		},
	}
}

func burnSchema() TransitionSchema {
	return TransitionSchema{
		Metadata: map[FieldType]Occurrences{
			FieldBurnedSupply: Once,
			// Issuers normally aggregate burned assets into a single UTXO,
			// but a burn caused by mistake cannot, so multiple burn UTXOs
			// are allowed within one operation.
			FieldBurnUTXO:           OnceOrMore,
			FieldHistoryProofFormat: Once,
			FieldHistoryProof:       NoneOrMore,
		},
		Closes: map[OwnedRightType]Occurrences{
			RightBurnReplace: Once,
		},
		OwnedRights: map[OwnedRightType]Occurrences{
			RightBurnReplace: NoneOrOnce,
		},
	}
}

func renominationSchema() TransitionSchema {
	return TransitionSchema{
		Metadata: map[FieldType]Occurrences{
			FieldTicker:            NoneOrOnce,
			FieldName:              NoneOrOnce,
			FieldRicardianContract: NoneOrOnce,
			FieldPrecision:         NoneOrOnce,
		},
		Closes: map[OwnedRightType]Occurrences{
			RightRenomination: Once,
		},
		OwnedRights: map[OwnedRightType]Occurrences{
			RightRenomination: NoneOrOnce,
		},
	}
}

func buildFull() *Schema {
	return &Schema{
		Genesis: genesisSchema(),
		Transitions: map[TransitionType]TransitionSchema{
			TransitionIssue:    issueSchema(),
			TransitionTransfer: transferSchema(),
			TransitionEpoch: {
				Metadata: map[FieldType]Occurrences{},
				Closes: map[OwnedRightType]Occurrences{
					RightOpenEpoch: Once,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightOpenEpoch:   NoneOrOnce,
					RightBurnReplace: NoneOrOnce,
				},
			},
			TransitionBurn: burnSchema(),
			TransitionBurnAndReplace: {
				Metadata: map[FieldType]Occurrences{
					FieldBurnedSupply:       Once,
					FieldBurnUTXO:           OnceOrMore,
					FieldIssuedSupply:       Once,
					FieldHistoryProofFormat: Once,
					FieldHistoryProof:       NoneOrMore,
				},
				Closes: map[OwnedRightType]Occurrences{
					RightBurnReplace: Once,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightBurnReplace: NoneOrOnce,
					RightAssets:      OnceOrMore,
				},
			},
			TransitionRenomination: renominationSchema(),
			TransitionRightsSplit: {
				Metadata: map[FieldType]Occurrences{},
				Closes: map[OwnedRightType]Occurrences{
					RightInflation:    NoneOrMore,
					RightAssets:       NoneOrMore,
					RightOpenEpoch:    NoneOrOnce,
					RightBurnReplace:  NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightInflation:    NoneOrMore,
					RightAssets:       NoneOrMore,
					RightOpenEpoch:    NoneOrOnce,
					RightBurnReplace:  NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
			},
		},
		FieldFormats: map[FieldType]FieldFormat{
			FieldTicker:             FormatAscii,
			FieldName:               FormatAscii,
			FieldRicardianContract:  FormatAscii,
			FieldPrecision:          FormatU8,
			FieldIssuedSupply:       FormatU64,
			FieldBurnedSupply:       FormatU64,
			FieldTimestamp:          FormatI64,
			FieldHistoryProof:       FormatBytes,
			FieldHistoryProofFormat: FormatU8,
			FieldBurnUTXO:           FormatOutpoint,
		},
		StateFormats: map[OwnedRightType]StateFormat{
			// Inflation state is the cap issuable via the right; an unbounded
			// cap is expressed as MaxUint64 spread across the assignments.
			RightInflation:    StateDiscreteU64,
			RightAssets:       StateDiscreteU64,
			RightOpenEpoch:    StateDeclarative,
			RightBurnReplace:  StateDeclarative,
			RightRenomination: StateDeclarative,
		},
	}
}

func buildInflationary() *Schema {
	return &Schema{
		Genesis: genesisSchema(),
		Transitions: map[TransitionType]TransitionSchema{
			TransitionIssue:    issueSchema(),
			TransitionTransfer: transferSchema(),
			// Epoch cannot carry a next-epoch right here: a single epoch
			// chain is all the burn machinery this variant admits.
			TransitionEpoch: {
				Metadata: map[FieldType]Occurrences{},
				Closes: map[OwnedRightType]Occurrences{
					RightOpenEpoch: Once,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightBurnReplace: NoneOrOnce,
				},
			},
			TransitionBurn:         burnSchema(),
			TransitionRenomination: renominationSchema(),
			TransitionRightsSplit: {
				Metadata: map[FieldType]Occurrences{},
				Closes: map[OwnedRightType]Occurrences{
					RightInflation:    NoneOrMore,
					RightAssets:       NoneOrMore,
					RightBurnReplace:  NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightInflation:    NoneOrMore,
					RightAssets:       NoneOrMore,
					RightBurnReplace:  NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
			},
		},
		FieldFormats: map[FieldType]FieldFormat{
			FieldTicker:             FormatAscii,
			FieldName:               FormatAscii,
			FieldRicardianContract:  FormatAscii,
			FieldPrecision:          FormatU8,
			FieldIssuedSupply:       FormatU64,
			FieldBurnedSupply:       FormatU64,
			FieldTimestamp:          FormatI64,
			FieldHistoryProof:       FormatBytes,
			FieldHistoryProofFormat: FormatU8,
			FieldBurnUTXO:           FormatOutpoint,
		},
		StateFormats: map[OwnedRightType]StateFormat{
			RightInflation:    StateDiscreteU64,
			RightAssets:       StateDiscreteU64,
			RightOpenEpoch:    StateDeclarative,
			RightBurnReplace:  StateDeclarative,
			RightRenomination: StateDeclarative,
		},
	}
}

func buildSimple() *Schema {
	return &Schema{
		Genesis: GenesisSchema{
			Metadata: genesisSchema().Metadata,
			OwnedRights: map[OwnedRightType]Occurrences{
				RightAssets:       NoneOrMore,
				RightRenomination: NoneOrOnce,
			},
		},
		Transitions: map[TransitionType]TransitionSchema{
			TransitionTransfer:     transferSchema(),
			TransitionRenomination: renominationSchema(),
			TransitionRightsSplit: {
				Metadata: map[FieldType]Occurrences{},
				Closes: map[OwnedRightType]Occurrences{
					RightAssets:       NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
				OwnedRights: map[OwnedRightType]Occurrences{
					RightAssets:       NoneOrMore,
					RightRenomination: NoneOrOnce,
				},
			},
		},
		FieldFormats: map[FieldType]FieldFormat{
			FieldTicker:            FormatAscii,
			FieldName:              FormatAscii,
			FieldRicardianContract: FormatAscii,
			FieldPrecision:         FormatU8,
			FieldIssuedSupply:      FormatU64,
			FieldTimestamp:         FormatI64,
		},
		StateFormats: map[OwnedRightType]StateFormat{
			RightAssets:       StateDiscreteU64,
			RightRenomination: StateDeclarative,
		},
	}
}
