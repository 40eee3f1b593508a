package asset

import (
	"strings"
	"time"

	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

// GenesisParams describes a new asset issuance. Inflation intents are folded
// per outpoint like issuance drafts; the issued supply is the sum of the
// initial allocations.
type GenesisParams struct {
	Variant   schema.Variant
	Network   string
	Ticker    string
	Name      string
	Ricardian string
	Precision uint8
	Timestamp time.Time

	Allocations  []OutpointValue
	Inflation    []OutpointValue
	Renomination *wire.OutPoint
	Epoch        *wire.OutPoint
}

// NewGenesis builds the genesis record for a new asset. The ticker is
// normalized to upper case before validation, matching issuer tooling
// behavior. The record still needs the external commitment layer to anchor
// it before it is valid ledger data.
func NewGenesis(p GenesisParams) (*contract.Genesis, error) {
	variant := p.Variant
	if variant == 0 {
		variant = schema.VariantFull
	}

	ticker := strings.ToUpper(p.Ticker)
	if err := ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, newError(CodeUnsatisfiedSchemaRequirement, "asset name is required")
	}
	if variant == schema.VariantSimple && (len(p.Inflation) > 0 || p.Epoch != nil) {
		return nil, newError(CodeUnsatisfiedSchemaRequirement,
			"the simple schema admits neither inflation nor epochs")
	}

	var issued uint64
	for _, al := range p.Allocations {
		issued = satAdd(issued, al.Value)
	}

	timestamp := p.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	meta := make(contract.Metadata)
	meta.Add(schema.FieldTicker, contract.AsciiValue(ticker))
	meta.Add(schema.FieldName, contract.AsciiValue(p.Name))
	if p.Ricardian != "" {
		meta.Add(schema.FieldRicardianContract, contract.AsciiValue(p.Ricardian))
	}
	meta.Add(schema.FieldPrecision, contract.U8Value(p.Precision))
	meta.Add(schema.FieldTimestamp, contract.I64Value(timestamp.Unix()))
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(issued))

	rights := make(contract.Assignments)
	for _, al := range p.Allocations {
		rights.AddValue(schema.RightAssets, al.Outpoint, al.Value)
	}
	for _, inf := range FoldInflationIntents(p.Inflation) {
		rights.AddValue(schema.RightInflation, inf.Outpoint, inf.Value)
	}
	if p.Renomination != nil {
		rights.AddDeclarative(schema.RightRenomination, *p.Renomination)
	}
	if p.Epoch != nil {
		rights.AddDeclarative(schema.RightOpenEpoch, *p.Epoch)
	}

	return &contract.Genesis{
		SchemaID:    schema.Build(variant).SchemaID(),
		Network:     p.Network,
		Metadata:    meta,
		OwnedRights: rights,
	}, nil
}
