package contract

import (
	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/schema"
)

// Assignment creates one owned right: a seal plus, for discrete-field rights,
// the assigned amount. ValueConfidential marks amounts that are present only
// as a homomorphic commitment; this core never verifies those commitments and
// treats such amounts as unknown.
type Assignment struct {
	Seal              Seal   `json:"seal"`
	Value             uint64 `json:"value,omitempty"`
	ValueConfidential bool   `json:"valueConfidential,omitempty"`
}

// Assignments groups the rights created by a node, keyed by right type.
type Assignments map[schema.OwnedRightType][]Assignment

// Add appends an assignment under the given right type.
func (a Assignments) Add(rt schema.OwnedRightType, as Assignment) {
	a[rt] = append(a[rt], as)
}

// AddValue appends a revealed discrete-field assignment to an outpoint.
func (a Assignments) AddValue(rt schema.OwnedRightType, op wire.OutPoint, value uint64) {
	a.Add(rt, Assignment{Seal: RevealedSeal(op), Value: value})
}

// AddDeclarative appends a stateless right assignment to an outpoint.
func (a Assignments) AddDeclarative(rt schema.OwnedRightType, op wire.OutPoint) {
	a.Add(rt, Assignment{Seal: RevealedSeal(op)})
}
