package contract

import (
	"fmt"
	"io"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/schema"
	"rgb.tools/rgb20/strict"
)

// Canonical strict encoding of ledger data. Maps are written in ascending key
// order; lists keep record order, which is positionally significant for
// assignments. These bytes feed node id derivation, so any change here is a
// wire contract change.

const (
	sealRevealed uint8 = 0x00
	sealWitness  uint8 = 0x01
	sealBlinded  uint8 = 0x02
)

func (s Seal) encode(sw *strict.Writer) {
	switch {
	case s.IsConfidential():
		sw.U8(sealBlinded)
		sw.Bytes(s.Blinded)
	case s.Txid != nil:
		sw.U8(sealRevealed)
		sw.Raw(s.Txid[:])
		sw.U32(s.Vout)
	default:
		sw.U8(sealWitness)
		sw.U32(s.Vout)
	}
}

func decodeSeal(sr *strict.Reader) (Seal, error) {
	switch kind := sr.U8(); kind {
	case sealBlinded:
		return Seal{Blinded: sr.Bytes()}, nil
	case sealRevealed:
		var txid chainhash.Hash
		sr.Raw(txid[:])
		return Seal{Txid: &txid, Vout: sr.U32()}, nil
	case sealWitness:
		return Seal{Vout: sr.U32()}, nil
	default:
		if sr.Err() != nil {
			return Seal{}, sr.Err()
		}
		return Seal{}, fmt.Errorf("contract: unknown seal kind %#02x", kind)
	}
}

func (v Value) encode(sw *strict.Writer) {
	sw.U8(uint8(v.Format))
	switch v.Format {
	case schema.FormatAscii:
		sw.String(v.Ascii)
	case schema.FormatU8:
		sw.U8(v.U8)
	case schema.FormatU64:
		sw.U64(v.U64)
	case schema.FormatI64:
		sw.I64(v.I64)
	case schema.FormatBytes:
		sw.Bytes(v.Bytes)
	case schema.FormatOutpoint:
		encodeOutpoint(sw, v.Outpoint)
	}
}

func decodeValue(sr *strict.Reader) (Value, error) {
	v := Value{Format: schema.FieldFormat(sr.U8())}
	switch v.Format {
	case schema.FormatAscii:
		v.Ascii = sr.String()
	case schema.FormatU8:
		v.U8 = sr.U8()
	case schema.FormatU64:
		v.U64 = sr.U64()
	case schema.FormatI64:
		v.I64 = sr.I64()
	case schema.FormatBytes:
		v.Bytes = sr.Bytes()
	case schema.FormatOutpoint:
		v.Outpoint = decodeOutpoint(sr)
	default:
		if sr.Err() != nil {
			return Value{}, sr.Err()
		}
		return Value{}, fmt.Errorf("contract: unknown field format %#02x", uint8(v.Format))
	}
	return v, nil
}

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

func (m Metadata) encode(sw *strict.Writer) {
	fields := make([]schema.FieldType, 0, len(m))
	for ft := range m {
		fields = append(fields, ft)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	sw.Count(len(m))
	for _, ft := range fields {
		sw.U16(uint16(ft))
		sw.Count(len(m[ft]))
		for _, v := range m[ft] {
			v.encode(sw)
		}
	}
}

func decodeMetadata(sr *strict.Reader) (Metadata, error) {
	n := sr.Count()
	m := make(Metadata, n)
	for i := 0; i < n; i++ {
		ft := schema.FieldType(sr.U16())
		count := sr.Count()
		vals := make([]Value, 0, count)
		for j := 0; j < count; j++ {
			v, err := decodeValue(sr)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		m[ft] = vals
	}
	return m, nil
}

func (a Assignments) encode(sw *strict.Writer) {
	rights := make([]schema.OwnedRightType, 0, len(a))
	for rt := range a {
		rights = append(rights, rt)
	}
	sort.Slice(rights, func(i, j int) bool { return rights[i] < rights[j] })

	sw.Count(len(a))
	for _, rt := range rights {
		sw.U16(uint16(rt))
		sw.Count(len(a[rt]))
		for _, as := range a[rt] {
			as.Seal.encode(sw)
			sw.Bool(as.ValueConfidential)
			sw.U64(as.Value)
		}
	}
}

func decodeAssignments(sr *strict.Reader) (Assignments, error) {
	n := sr.Count()
	a := make(Assignments, n)
	for i := 0; i < n; i++ {
		rt := schema.OwnedRightType(sr.U16())
		count := sr.Count()
		list := make([]Assignment, 0, count)
		for j := 0; j < count; j++ {
			seal, err := decodeSeal(sr)
			if err != nil {
				return nil, err
			}
			as := Assignment{Seal: seal}
			as.ValueConfidential = sr.Bool()
			as.Value = sr.U64()
			list = append(list, as)
		}
		a[rt] = list
	}
	return a, nil
}

// Encode writes the canonical encoding of the genesis.
func (g *Genesis) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	sw.Bytes(g.SchemaID.Bytes())
	sw.String(g.Network)
	g.Metadata.encode(sw)
	g.OwnedRights.encode(sw)
	return sw.Err()
}

// DecodeGenesis reads a genesis from its canonical encoding.
func DecodeGenesis(r io.Reader) (*Genesis, error) {
	sr := strict.NewReader(r)
	g := &Genesis{}

	id, err := cid.Cast(sr.Bytes())
	if err != nil {
		if sr.Err() != nil {
			return nil, sr.Err()
		}
		return nil, fmt.Errorf("contract: invalid schema id: %w", err)
	}
	g.SchemaID = id
	g.Network = sr.String()
	if g.Metadata, err = decodeMetadata(sr); err != nil {
		return nil, err
	}
	if g.OwnedRights, err = decodeAssignments(sr); err != nil {
		return nil, err
	}
	if err := sr.Err(); err != nil {
		return nil, fmt.Errorf("contract: decode genesis: %w", err)
	}
	return g, nil
}

// Encode writes the canonical encoding of the transition. Drafts encode with
// a zero witness; sealing replaces the witness and therefore the node id.
func (t *Transition) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	sw.U16(uint16(t.Type))
	t.Metadata.encode(sw)
	sw.Count(len(t.Closes))
	for _, in := range t.Closes {
		sw.U16(uint16(in.Right))
		encodeOutpoint(sw, in.Outpoint)
	}
	t.OwnedRights.encode(sw)
	sw.Raw(t.Witness[:])
	return sw.Err()
}

// DecodeTransition reads a transition from its canonical encoding.
func DecodeTransition(r io.Reader) (*Transition, error) {
	sr := strict.NewReader(r)
	t := &Transition{Type: schema.TransitionType(sr.U16())}

	var err error
	if t.Metadata, err = decodeMetadata(sr); err != nil {
		return nil, err
	}
	n := sr.Count()
	t.Closes = make([]Input, 0, n)
	for i := 0; i < n; i++ {
		in := Input{Right: schema.OwnedRightType(sr.U16())}
		in.Outpoint = decodeOutpoint(sr)
		t.Closes = append(t.Closes, in)
	}
	if t.OwnedRights, err = decodeAssignments(sr); err != nil {
		return nil, err
	}
	sr.Raw(t.Witness[:])
	if err := sr.Err(); err != nil {
		return nil, fmt.Errorf("contract: decode transition: %w", err)
	}
	return t, nil
}
