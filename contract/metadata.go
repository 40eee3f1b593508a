package contract

import (
	"github.com/btcsuite/btcd/wire"

	"rgb.tools/rgb20/schema"
)

// Value is a single metadata field value. Format selects which of the union
// fields is meaningful; the rest stay zero.
type Value struct {
	Format   schema.FieldFormat `json:"format"`
	Ascii    string             `json:"ascii,omitempty"`
	U8       uint8              `json:"u8,omitempty"`
	U64      uint64             `json:"u64,omitempty"`
	I64      int64              `json:"i64,omitempty"`
	Bytes    []byte             `json:"bytes,omitempty"`
	Outpoint wire.OutPoint      `json:"outpoint,omitempty"`
}

func AsciiValue(s string) Value     { return Value{Format: schema.FormatAscii, Ascii: s} }
func U8Value(v uint8) Value         { return Value{Format: schema.FormatU8, U8: v} }
func U64Value(v uint64) Value       { return Value{Format: schema.FormatU64, U64: v} }
func I64Value(v int64) Value        { return Value{Format: schema.FormatI64, I64: v} }
func BytesValue(b []byte) Value     { return Value{Format: schema.FormatBytes, Bytes: b} }
func OutpointValue(op wire.OutPoint) Value {
	return Value{Format: schema.FormatOutpoint, Outpoint: op}
}

// Metadata is the typed field bag of a genesis or transition record. Values
// of a mismatching format are ignored by the accessors, the same way unknown
// fields are: schema conformance was already checked upstream, and the
// projection re-checks only what it needs.
type Metadata map[schema.FieldType][]Value

// Add appends a value under the given field type.
func (m Metadata) Add(ft schema.FieldType, v Value) {
	m[ft] = append(m[ft], v)
}

// Ascii returns every ascii value of the field in record order.
func (m Metadata) Ascii(ft schema.FieldType) []string {
	var out []string
	for _, v := range m[ft] {
		if v.Format == schema.FormatAscii {
			out = append(out, v.Ascii)
		}
	}
	return out
}

// FirstAscii returns the first ascii value of the field.
func (m Metadata) FirstAscii(ft schema.FieldType) (string, bool) {
	vals := m.Ascii(ft)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// FirstU8 returns the first u8 value of the field.
func (m Metadata) FirstU8(ft schema.FieldType) (uint8, bool) {
	for _, v := range m[ft] {
		if v.Format == schema.FormatU8 {
			return v.U8, true
		}
	}
	return 0, false
}

// FirstU64 returns the first u64 value of the field.
func (m Metadata) FirstU64(ft schema.FieldType) (uint64, bool) {
	for _, v := range m[ft] {
		if v.Format == schema.FormatU64 {
			return v.U64, true
		}
	}
	return 0, false
}

// FirstI64 returns the first i64 value of the field.
func (m Metadata) FirstI64(ft schema.FieldType) (int64, bool) {
	for _, v := range m[ft] {
		if v.Format == schema.FormatI64 {
			return v.I64, true
		}
	}
	return 0, false
}

// Outpoints returns every outpoint value of the field in record order.
func (m Metadata) Outpoints(ft schema.FieldType) []wire.OutPoint {
	var out []wire.OutPoint
	for _, v := range m[ft] {
		if v.Format == schema.FormatOutpoint {
			out = append(out, v.Outpoint)
		}
	}
	return out
}
