package contract

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/cidutil"
	"rgb.tools/rgb20/schema"
)

// Input names one owned right a transition consumes: the right type and the
// outpoint the right is bound to. Rights are addressed by (type, outpoint)
// pairs everywhere in this core; there is no object graph to traverse.
type Input struct {
	Right    schema.OwnedRightType `json:"right"`
	Outpoint wire.OutPoint         `json:"outpoint"`
}

// Transition is a state transition: it closes the rights named by Closes and
// creates the rights in OwnedRights. A transition with a zero Witness is an
// unsealed draft; it becomes valid ledger data only once the external
// commitment layer binds it to a witness transaction.
type Transition struct {
	Type        schema.TransitionType `json:"type"`
	Metadata    Metadata              `json:"metadata"`
	Closes      []Input               `json:"closes"`
	OwnedRights Assignments           `json:"ownedRights"`
	Witness     chainhash.Hash        `json:"witness"`
}

// IsDraft reports whether the transition is still unsealed.
func (t *Transition) IsDraft() bool {
	return t.Witness == chainhash.Hash{}
}

// NodeID is the content-derived identifier of the transition.
func (t *Transition) NodeID() cid.Cid {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		panic(fmt.Sprintf("contract: transition canonical encoding failed: %v", err))
	}
	return cidutil.NodeID(buf.Bytes())
}

// ClosesOutpoint reports whether the transition closes a right bound to the
// given outpoint.
func (t *Transition) ClosesOutpoint(op wire.OutPoint) bool {
	for _, in := range t.Closes {
		if in.Outpoint == op {
			return true
		}
	}
	return false
}
