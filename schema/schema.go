// Package schema defines the RGB20 fungible-asset contract schemas: the
// closed vocabulary of field, right and transition types, the occurrence
// constraints attached to them, the three published schema variants, and the
// rule deciding whether a restricted variant is a legal narrowing of its root.
//
// Schemas are pure values. Building one is total and deterministic: the same
// variant always produces byte-identical canonical encodings and therefore
// the same content-derived schema id.
package schema

import "github.com/ipfs/go-cid"

// Variant names one of the published RGB20 schemas.
type Variant uint8

const (
	// VariantFull is the root schema: issuance, transfer, epochs, burn,
	// burn-and-replace, renomination and rights splitting.
	VariantFull Variant = 0x01

	// VariantInflationary prohibits the replace procedure while keeping
	// secondary issuance and plain burns.
	VariantInflationary Variant = 0x02

	// VariantSimple supports transfers and renomination only.
	VariantSimple Variant = 0x03
)

func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantInflationary:
		return "inflationary"
	case VariantSimple:
		return "simple"
	default:
		return "variant(invalid)"
	}
}

// GenesisSchema constrains the genesis record of a contract: which metadata
// fields it must carry, which owned rights it may create and which right
// types are publicly disclosable.
type GenesisSchema struct {
	Metadata     map[FieldType]Occurrences      `json:"metadata"`
	OwnedRights  map[OwnedRightType]Occurrences `json:"ownedRights"`
	PublicRights []uint16                       `json:"publicRights,omitempty"`
}

// TransitionSchema constrains one transition type: its metadata, the rights
// it must consume (closes) and the rights it may create.
type TransitionSchema struct {
	Metadata     map[FieldType]Occurrences      `json:"metadata"`
	Closes       map[OwnedRightType]Occurrences `json:"closes"`
	OwnedRights  map[OwnedRightType]Occurrences `json:"ownedRights"`
	PublicRights []uint16                       `json:"publicRights,omitempty"`
}

// Schema is a complete contract schema. RootID is undefined for a root schema
// and names the root for a restricted variant.
//
// The schema id is content-derived from the canonical encoding; it is
// computed, never assigned, so it cannot drift from the encoding rules.
type Schema struct {
	RootID       cid.Cid                             `json:"rootId,omitempty"`
	Genesis      GenesisSchema                       `json:"genesis"`
	Transitions  map[TransitionType]TransitionSchema `json:"transitions"`
	FieldFormats map[FieldType]FieldFormat           `json:"fieldFormats"`
	StateFormats map[OwnedRightType]StateFormat      `json:"stateFormats"`
}

// IsRoot reports whether the schema is a root schema rather than a
// restricted variant.
func (s *Schema) IsRoot() bool {
	return !s.RootID.Defined()
}
