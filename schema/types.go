package schema

import "fmt"

// FieldType is a metadata field of a genesis or state transition record.
//
// The numeric codes below are wire values shared with every other
// implementation of the protocol. They are never renumbered and never reused
// for a different meaning, even across schema revisions.
type FieldType uint16

const (
	// FieldTicker is the asset ticker, set at genesis or renomination.
	FieldTicker FieldType = 0x0000

	// FieldName is the full asset name, set at genesis or renomination.
	FieldName FieldType = 0x0001

	// FieldRicardianContract is the text (or content reference) of the asset
	// contract.
	FieldRicardianContract FieldType = 0x0002

	// FieldPrecision is the number of digits after the decimal point.
	FieldPrecision FieldType = 0x0003

	// FieldTimestamp is the genesis issuance date, seconds since Unix epoch.
	FieldTimestamp FieldType = 0x0004

	// FieldIssuedSupply is the supply issued by genesis, a secondary issue or
	// a burn-and-replace operation. Required in clear text so that supply can
	// be accounted while allocation amounts stay blinded.
	FieldIssuedSupply FieldType = 0x00a0

	// FieldBurnedSupply is the supply destroyed by a burn or burn-and-replace
	// operation.
	FieldBurnedSupply FieldType = 0x00b0

	// FieldBurnUTXO is an outpoint containing burned assets.
	FieldBurnUTXO FieldType = 0x00b1

	// FieldHistoryProof is an opaque proof of the burned supply.
	FieldHistoryProof FieldType = 0x00b2

	// FieldHistoryProofFormat is the media format of FieldHistoryProof.
	FieldHistoryProofFormat FieldType = 0x00b3
)

func (ft FieldType) String() string {
	switch ft {
	case FieldTicker:
		return "ticker"
	case FieldName:
		return "name"
	case FieldRicardianContract:
		return "ricardianContract"
	case FieldPrecision:
		return "precision"
	case FieldTimestamp:
		return "timestamp"
	case FieldIssuedSupply:
		return "issuedSupply"
	case FieldBurnedSupply:
		return "burnedSupply"
	case FieldBurnUTXO:
		return "burnUtxo"
	case FieldHistoryProof:
		return "historyProof"
	case FieldHistoryProofFormat:
		return "historyProofFormat"
	default:
		return fmt.Sprintf("field(%#04x)", uint16(ft))
	}
}

// OwnedRightType is a kind of owned right: a capability bound to an outpoint
// until consumed by a state transition closing it.
//
// Codes are frozen wire values, like FieldType.
type OwnedRightType uint16

const (
	// RightRenomination controls the asset renomination procedure.
	RightRenomination OwnedRightType = 0x0001

	// RightInflation controls secondary issuance. Its state value is the
	// maximum amount issuable by spending the right.
	RightInflation OwnedRightType = 0x00a0

	// RightAssets is the asset ownership right; its state value is the amount
	// allocated to the controlling outpoint.
	RightAssets OwnedRightType = 0x00a1

	// RightOpenEpoch permits opening the next burn-and-replace epoch.
	RightOpenEpoch OwnedRightType = 0x00a2

	// RightBurnReplace permits burn and burn-and-replace operations within an
	// open epoch.
	RightBurnReplace OwnedRightType = 0x00a3
)

func (rt OwnedRightType) String() string {
	switch rt {
	case RightRenomination:
		return "renomination"
	case RightInflation:
		return "inflation"
	case RightAssets:
		return "assets"
	case RightOpenEpoch:
		return "openEpoch"
	case RightBurnReplace:
		return "burnReplace"
	default:
		return fmt.Sprintf("right(%#04x)", uint16(rt))
	}
}

// TransitionType is a kind of state transition. Codes are frozen wire values.
type TransitionType uint16

const (
	// TransitionRenomination changes the asset name, ticker, contract text or
	// decimal precision.
	TransitionRenomination TransitionType = 0x0010

	// TransitionIssue performs secondary issuance.
	TransitionIssue TransitionType = 0x00a0

	// TransitionTransfer moves asset allocations between outpoints.
	TransitionTransfer TransitionType = 0x00a1

	// TransitionEpoch opens a new burn-and-replace epoch.
	TransitionEpoch TransitionType = 0x00a2

	// TransitionBurn destroys supply.
	TransitionBurn TransitionType = 0x00a3

	// TransitionBurnAndReplace destroys supply and re-issues it under fresh
	// allocations.
	TransitionBurnAndReplace TransitionType = 0x00a4

	// TransitionRightsSplit separates rights accidentally allocated to the
	// same outpoint. Without it either the assets or the other right would be
	// lost on spend.
	TransitionRightsSplit TransitionType = 0x8000
)

func (tt TransitionType) String() string {
	switch tt {
	case TransitionRenomination:
		return "renomination"
	case TransitionIssue:
		return "issue"
	case TransitionTransfer:
		return "transfer"
	case TransitionEpoch:
		return "epoch"
	case TransitionBurn:
		return "burn"
	case TransitionBurnAndReplace:
		return "burnAndReplace"
	case TransitionRightsSplit:
		return "rightsSplit"
	default:
		return fmt.Sprintf("transition(%#04x)", uint16(tt))
	}
}

// FieldFormat is the value type of a metadata field.
type FieldFormat uint8

const (
	FormatAscii FieldFormat = iota
	FormatU8
	FormatU64
	FormatI64
	FormatBytes
	FormatOutpoint
)

// StateFormat is the state-encoding kind of an owned right.
type StateFormat uint8

const (
	// StateDeclarative rights carry no state beyond their existence.
	StateDeclarative StateFormat = iota

	// StateDiscreteU64 rights carry a 64-bit amount, possibly hidden behind a
	// homomorphic commitment.
	StateDiscreteU64

	// StateDataContainer rights carry a content-addressed attachment.
	StateDataContainer
)
