package contract

import (
	"bytes"
	"fmt"

	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/cidutil"
)

// Genesis is the founding record of a contract: the schema it operates
// under, the network it lives on, its initial metadata and the owned rights
// it grants. Genesis has no witness transaction and closes nothing.
type Genesis struct {
	SchemaID    cid.Cid     `json:"schemaId"`
	Network     string      `json:"network"`
	Metadata    Metadata    `json:"metadata"`
	OwnedRights Assignments `json:"ownedRights"`
}

// ContractID is the content-derived identifier of the contract: the node id
// of its genesis.
func (g *Genesis) ContractID() cid.Cid {
	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		panic(fmt.Sprintf("contract: genesis canonical encoding failed: %v", err))
	}
	return cidutil.NodeID(buf.Bytes())
}
