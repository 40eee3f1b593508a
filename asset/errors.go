package asset

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
)

// Code is a stable category for programmatic error handling. Every failure in
// this package is a non-retryable consistency failure in supplied data;
// callers should branch on Code rather than matching message strings.
type Code string

const (
	// CodeWrongSchemaID: the genesis does not operate under any published
	// RGB20 schema variant.
	CodeWrongSchemaID Code = "WRONG_SCHEMA_ID"

	// CodeUnsatisfiedSchemaRequirement: metadata the schema declares as
	// required is missing or malformed.
	CodeUnsatisfiedSchemaRequirement Code = "UNSATISFIED_SCHEMA_REQUIREMENT"

	// CodeGenesisSeal: a genesis assignment uses a witness-relative seal,
	// which cannot exist since genesis has no witness transaction.
	CodeGenesisSeal Code = "GENESIS_SEAL"

	// CodeEpochSealConfidential: a seal required to follow an epoch or
	// renomination chain is present only in concealed form.
	CodeEpochSealConfidential Code = "EPOCH_SEAL_CONFIDENTIAL"

	// CodeBurnSealConfidential: a burn-right seal is present only in
	// concealed form.
	CodeBurnSealConfidential Code = "BURN_SEAL_CONFIDENTIAL"

	// CodeInflationAssignmentConfidential: an inflation cap needed for supply
	// accounting is hidden behind a commitment.
	CodeInflationAssignmentConfidential Code = "INFLATION_ASSIGNMENT_CONFIDENTIAL"

	// CodeNotAllEpochsExposed: a burn references an epoch whose opening
	// transition is absent from the consignment.
	CodeNotAllEpochsExposed Code = "NOT_ALL_EPOCHS_EXPOSED"

	// CodeInsufficientRights: an operation consumes a right that does not
	// exist, was already consumed, or was never granted.
	CodeInsufficientRights Code = "INSUFFICIENT_RIGHTS"
)

// Error is the structured error for projection, nomination tracking and
// drafting. Node identifies the offending genesis or transition when known.
type Error struct {
	Code    Code
	Node    cid.Cid
	Message string
}

func (e *Error) Error() string {
	if e.Node.Defined() {
		return fmt.Sprintf("%s: %s (node %s)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func nodeError(code Code, node cid.Cid, format string, args ...any) *Error {
	return &Error{Code: code, Node: node, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the stable code from an error, or "" if the error did not
// originate here.
func CodeOf(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
