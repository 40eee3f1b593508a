package asset

import (
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/schema"
	"rgb.tools/rgb20/strict"
)

func decodeVariant(sr *strict.Reader) schema.Variant {
	return schema.Variant(sr.U8())
}

// Canonical strict encoding of the cached views, used by wallets that
// persist a projection between launches. The encoding carries exactly the
// exported state; decoding restores a view equal to the projected one.

func encodeOutpoint(sw *strict.Writer, op wire.OutPoint) {
	sw.Raw(op.Hash[:])
	sw.U32(op.Index)
}

func decodeOutpoint(sr *strict.Reader) wire.OutPoint {
	var op wire.OutPoint
	sr.Raw(op.Hash[:])
	op.Index = sr.U32()
	return op
}

func encodeOptOutpoint(sw *strict.Writer, op *wire.OutPoint) {
	sw.Bool(op != nil)
	if op != nil {
		encodeOutpoint(sw, *op)
	}
}

func decodeOptOutpoint(sr *strict.Reader) *wire.OutPoint {
	if !sr.Bool() {
		return nil
	}
	op := decodeOutpoint(sr)
	return &op
}

func decodeCid(sr *strict.Reader, what string) (cid.Cid, error) {
	b := sr.Bytes()
	if sr.Err() != nil {
		return cid.Undef, sr.Err()
	}
	id, err := cid.Cast(b)
	if err != nil {
		return cid.Undef, fmt.Errorf("asset: invalid %s: %w", what, err)
	}
	return id, nil
}

func (n Nomination) encode(sw *strict.Writer) {
	sw.String(n.Ticker)
	sw.String(n.Name)
	sw.String(n.Ricardian)
	sw.U8(n.Precision)
}

func decodeNomination(sr *strict.Reader) Nomination {
	return Nomination{
		Ticker:    sr.String(),
		Name:      sr.String(),
		Ricardian: sr.String(),
		Precision: sr.U8(),
	}
}

// Encode writes the canonical encoding of the nomination.
func (n Nomination) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	n.encode(sw)
	return sw.Err()
}

// DecodeNomination reads a nomination from its canonical encoding.
func DecodeNomination(r io.Reader) (Nomination, error) {
	sr := strict.NewReader(r)
	n := decodeNomination(sr)
	return n, sr.Err()
}

// Encode writes the canonical encoding of the renomination record.
func (ren Renomination) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	sw.Bytes(ren.Node.Bytes())
	sw.U32(ren.Epoch)
	sw.Bytes(ren.ContractID.Bytes())
	encodeOutpoint(sw, ren.Closes)
	encodeOptOutpoint(sw, ren.Next)
	sw.Raw(ren.Witness[:])
	ren.Nomination.encode(sw)
	return sw.Err()
}

// DecodeRenomination reads a renomination record from its canonical encoding.
func DecodeRenomination(r io.Reader) (Renomination, error) {
	sr := strict.NewReader(r)
	var ren Renomination
	var err error
	if ren.Node, err = decodeCid(sr, "node id"); err != nil {
		return ren, err
	}
	ren.Epoch = sr.U32()
	if ren.ContractID, err = decodeCid(sr, "contract id"); err != nil {
		return ren, err
	}
	ren.Closes = decodeOutpoint(sr)
	ren.Next = decodeOptOutpoint(sr)
	sr.Raw(ren.Witness[:])
	ren.Nomination = decodeNomination(sr)
	return ren, sr.Err()
}

// Encode writes the canonical encoding of the cached asset view.
func (a *Asset) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	sw.Bytes(a.ContractID.Bytes())
	sw.U8(uint8(a.Variant))
	a.Nomination.encode(sw)
	sw.I64(a.IssuedAt.Unix())

	sw.Count(len(a.KnownAllocations))
	for _, al := range a.KnownAllocations {
		encodeOutpoint(sw, al.Outpoint)
		sw.U64(al.Value)
		sw.Raw(al.Witness[:])
	}
	sw.Count(len(a.KnownInflation))
	for _, inf := range a.KnownInflation {
		encodeOutpoint(sw, inf.Outpoint)
		sw.U64(inf.Cap)
	}
	encodeOptOutpoint(sw, a.OpenEpochRight)
	encodeOptOutpoint(sw, a.RenominationRight)

	sw.U64(a.KnownSupply)
	sw.U64(a.MaxSupply)
	sw.U64(a.BurnedSupply)
	sw.U64(a.ReplacedSupply)

	sw.Bool(a.CanBeInflated)
	sw.Bool(a.CanBeRenominated)
	sw.Bool(a.CanBeBurned)
	sw.Bool(a.CanBeReplaced)
	sw.Bool(a.TotalSupplyKnown)
	return sw.Err()
}

// DecodeAsset reads a cached asset view from its canonical encoding.
func DecodeAsset(r io.Reader) (*Asset, error) {
	sr := strict.NewReader(r)
	a := &Asset{}
	var err error
	if a.ContractID, err = decodeCid(sr, "contract id"); err != nil {
		return nil, err
	}
	a.Variant = decodeVariant(sr)
	a.Nomination = decodeNomination(sr)
	a.IssuedAt = time.Unix(sr.I64(), 0).UTC()

	n := sr.Count()
	if n > 0 {
		a.KnownAllocations = make([]Allocation, 0, n)
		for i := 0; i < n; i++ {
			al := Allocation{Outpoint: decodeOutpoint(sr)}
			al.Value = sr.U64()
			sr.Raw(al.Witness[:])
			a.KnownAllocations = append(a.KnownAllocations, al)
		}
	}
	n = sr.Count()
	if n > 0 {
		a.KnownInflation = make([]InflationRight, 0, n)
		for i := 0; i < n; i++ {
			inf := InflationRight{Outpoint: decodeOutpoint(sr)}
			inf.Cap = sr.U64()
			a.KnownInflation = append(a.KnownInflation, inf)
		}
	}
	a.OpenEpochRight = decodeOptOutpoint(sr)
	a.RenominationRight = decodeOptOutpoint(sr)

	a.KnownSupply = sr.U64()
	a.MaxSupply = sr.U64()
	a.BurnedSupply = sr.U64()
	a.ReplacedSupply = sr.U64()

	a.CanBeInflated = sr.Bool()
	a.CanBeRenominated = sr.Bool()
	a.CanBeBurned = sr.Bool()
	a.CanBeReplaced = sr.Bool()
	a.TotalSupplyKnown = sr.Bool()

	if err := sr.Err(); err != nil {
		return nil, fmt.Errorf("asset: decode: %w", err)
	}
	return a, nil
}
