package asset

import (
	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/contract"
	"rgb.tools/rgb20/schema"
)

// OutpointValue pairs an outpoint with an amount: an allocation to create, or
// an inflation intent to consume.
type OutpointValue struct {
	Outpoint wire.OutPoint `json:"outpoint"`
	Value    uint64        `json:"value"`
}

// FoldInflationIntents sums intents per outpoint, preserving first-seen
// order. A single transition may close at most one inflation right per
// outpoint, so multiple intents against the same outpoint fold into one.
func FoldInflationIntents(intents []OutpointValue) []OutpointValue {
	index := make(map[wire.OutPoint]int, len(intents))
	folded := make([]OutpointValue, 0, len(intents))
	for _, in := range intents {
		if i, ok := index[in.Outpoint]; ok {
			folded[i].Value = satAdd(folded[i].Value, in.Value)
			continue
		}
		index[in.Outpoint] = len(folded)
		folded = append(folded, in)
	}
	return folded
}

// IssueRequest describes a secondary issuance draft. TotalIssued must equal
// the sum of the resulting allocation values; that equality is enforced by
// the external commitment layer, not re-derived here. NextInflation and
// NextEpoch carry forward the corresponding rights when the issuer wants to
// keep them.
type IssueRequest struct {
	Inflation     []OutpointValue
	Allocations   []OutpointValue
	TotalIssued   uint64
	NextInflation []OutpointValue
	NextEpoch     *wire.OutPoint
}

// DraftIssue builds an unsealed secondary-issuance transition. Every folded
// inflation intent must reference an unspent inflation right of the latest
// projection.
func (a *Asset) DraftIssue(req IssueRequest) (*contract.Transition, error) {
	folded := FoldInflationIntents(req.Inflation)
	if len(folded) == 0 {
		return nil, newError(CodeInsufficientRights,
			"secondary issuance must close at least one inflation right")
	}

	caps := make(map[wire.OutPoint]uint64, len(a.KnownInflation))
	for _, r := range a.KnownInflation {
		caps[r.Outpoint] = r.Cap
	}

	closes := make([]contract.Input, 0, len(folded))
	for _, in := range folded {
		if _, ok := caps[in.Outpoint]; !ok {
			return nil, newError(CodeInsufficientRights,
				"no unspent inflation right at %s", in.Outpoint)
		}
		closes = append(closes, contract.Input{
			Right:    schema.RightInflation,
			Outpoint: in.Outpoint,
		})
	}

	rights := make(contract.Assignments)
	for _, al := range req.Allocations {
		rights.AddValue(schema.RightAssets, al.Outpoint, al.Value)
	}
	for _, inf := range req.NextInflation {
		rights.AddValue(schema.RightInflation, inf.Outpoint, inf.Value)
	}
	if req.NextEpoch != nil {
		rights.AddDeclarative(schema.RightOpenEpoch, *req.NextEpoch)
	}

	meta := make(contract.Metadata)
	meta.Add(schema.FieldIssuedSupply, contract.U64Value(req.TotalIssued))

	return &contract.Transition{
		Type:        schema.TransitionIssue,
		Metadata:    meta,
		Closes:      closes,
		OwnedRights: rights,
	}, nil
}

// DraftTransfer builds an unsealed transfer. Every spent outpoint must hold
// an unspent asset allocation per the latest projection. Beneficiaries come
// before change, in caller order: position determines assignment order in the
// sealed output, so it is preserved exactly.
func (a *Asset) DraftTransfer(spend []wire.OutPoint, beneficiaries, change []OutpointValue) (*contract.Transition, error) {
	if len(spend) == 0 {
		return nil, newError(CodeInsufficientRights, "transfer spends no outpoints")
	}

	seen := make(map[wire.OutPoint]bool, len(spend))
	closes := make([]contract.Input, 0, len(spend))
	for _, op := range spend {
		if seen[op] {
			return nil, newError(CodeInsufficientRights,
				"outpoint %s is spent twice", op)
		}
		seen[op] = true
		if _, ok := a.Allocation(op); !ok {
			return nil, newError(CodeInsufficientRights,
				"no unspent allocation at %s", op)
		}
		closes = append(closes, contract.Input{
			Right:    schema.RightAssets,
			Outpoint: op,
		})
	}

	rights := make(contract.Assignments)
	for _, b := range beneficiaries {
		rights.AddValue(schema.RightAssets, b.Outpoint, b.Value)
	}
	for _, c := range change {
		rights.AddValue(schema.RightAssets, c.Outpoint, c.Value)
	}

	return &contract.Transition{
		Type:        schema.TransitionTransfer,
		Metadata:    make(contract.Metadata),
		Closes:      closes,
		OwnedRights: rights,
	}, nil
}

// RenominationRequest describes a renomination draft. Empty fields keep their
// previous values; a nil Next terminates the renomination chain forever.
type RenominationRequest struct {
	Next      *wire.OutPoint
	Ticker    string
	Name      string
	Ricardian string
	Precision *uint8
}

// DraftRenomination builds an unsealed renomination closing the asset's
// unspent renomination right.
func (a *Asset) DraftRenomination(req RenominationRequest) (*contract.Transition, error) {
	if a.RenominationRight == nil {
		return nil, newError(CodeInsufficientRights,
			"no unspent renomination right")
	}
	if req.Ticker != "" {
		if err := ValidateTicker(req.Ticker); err != nil {
			return nil, err
		}
	}

	meta := make(contract.Metadata)
	if req.Ticker != "" {
		meta.Add(schema.FieldTicker, contract.AsciiValue(req.Ticker))
	}
	if req.Name != "" {
		meta.Add(schema.FieldName, contract.AsciiValue(req.Name))
	}
	if req.Ricardian != "" {
		meta.Add(schema.FieldRicardianContract, contract.AsciiValue(req.Ricardian))
	}
	if req.Precision != nil {
		meta.Add(schema.FieldPrecision, contract.U8Value(*req.Precision))
	}

	rights := make(contract.Assignments)
	if req.Next != nil {
		rights.AddDeclarative(schema.RightRenomination, *req.Next)
	}

	return &contract.Transition{
		Type:     schema.TransitionRenomination,
		Metadata: meta,
		Closes: []contract.Input{{
			Right:    schema.RightRenomination,
			Outpoint: *a.RenominationRight,
		}},
		OwnedRights: rights,
	}, nil
}
