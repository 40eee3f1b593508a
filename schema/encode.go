package schema

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/ipfs/go-cid"

	"rgb.tools/rgb20/cidutil"
	"rgb.tools/rgb20/strict"
)

// Encode writes the canonical strict encoding of the schema. Map entries are
// written in ascending key order, so equal schemas always encode to equal
// bytes. This is the byte form the schema id is derived from; external codecs
// (bech32, file export) wrap these bytes and must round-trip them exactly.
func (s *Schema) Encode(w io.Writer) error {
	sw := strict.NewWriter(w)
	sw.Bool(s.RootID.Defined())
	if s.RootID.Defined() {
		sw.Bytes(s.RootID.Bytes())
	}

	encodeFieldOccurrences(sw, s.Genesis.Metadata)
	encodeRightOccurrences(sw, s.Genesis.OwnedRights)
	encodePublicRights(sw, s.Genesis.PublicRights)

	sw.Count(len(s.Transitions))
	for _, tt := range sortedKeys(s.Transitions) {
		ts := s.Transitions[tt]
		sw.U16(uint16(tt))
		encodeFieldOccurrences(sw, ts.Metadata)
		encodeRightOccurrences(sw, ts.Closes)
		encodeRightOccurrences(sw, ts.OwnedRights)
		encodePublicRights(sw, ts.PublicRights)
	}

	sw.Count(len(s.FieldFormats))
	for _, ft := range sortedKeys(s.FieldFormats) {
		sw.U16(uint16(ft))
		sw.U8(uint8(s.FieldFormats[ft]))
	}

	sw.Count(len(s.StateFormats))
	for _, rt := range sortedKeys(s.StateFormats) {
		sw.U16(uint16(rt))
		sw.U8(uint8(s.StateFormats[rt]))
	}
	return sw.Err()
}

// Decode reads a schema from its canonical encoding.
func Decode(r io.Reader) (*Schema, error) {
	sr := strict.NewReader(r)
	s := &Schema{}

	if sr.Bool() {
		id, err := cid.Cast(sr.Bytes())
		if err != nil {
			return nil, fmt.Errorf("schema: invalid root id: %w", err)
		}
		s.RootID = id
	}

	var err error
	if s.Genesis.Metadata, err = decodeFieldOccurrences(sr); err != nil {
		return nil, err
	}
	if s.Genesis.OwnedRights, err = decodeRightOccurrences(sr); err != nil {
		return nil, err
	}
	s.Genesis.PublicRights = decodePublicRights(sr)

	n := sr.Count()
	s.Transitions = make(map[TransitionType]TransitionSchema, n)
	for i := 0; i < n; i++ {
		tt := TransitionType(sr.U16())
		var ts TransitionSchema
		if ts.Metadata, err = decodeFieldOccurrences(sr); err != nil {
			return nil, err
		}
		if ts.Closes, err = decodeRightOccurrences(sr); err != nil {
			return nil, err
		}
		if ts.OwnedRights, err = decodeRightOccurrences(sr); err != nil {
			return nil, err
		}
		ts.PublicRights = decodePublicRights(sr)
		s.Transitions[tt] = ts
	}

	n = sr.Count()
	s.FieldFormats = make(map[FieldType]FieldFormat, n)
	for i := 0; i < n; i++ {
		ft := FieldType(sr.U16())
		s.FieldFormats[ft] = FieldFormat(sr.U8())
	}

	n = sr.Count()
	s.StateFormats = make(map[OwnedRightType]StateFormat, n)
	for i := 0; i < n; i++ {
		rt := OwnedRightType(sr.U16())
		s.StateFormats[rt] = StateFormat(sr.U8())
	}

	if err := sr.Err(); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return s, nil
}

// SchemaID returns the content-derived identifier of the schema.
func (s *Schema) SchemaID() cid.Cid {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		// Encoding into a bytes.Buffer cannot fail for a well-formed schema;
		// an oversize collection here means the schema was built by hand.
		panic(fmt.Sprintf("schema: canonical encoding failed: %v", err))
	}
	return cidutil.SchemaID(buf.Bytes())
}

func sortedKeys[K ~uint16, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func encodeFieldOccurrences(sw *strict.Writer, m map[FieldType]Occurrences) {
	sw.Count(len(m))
	for _, ft := range sortedKeys(m) {
		sw.U16(uint16(ft))
		sw.U8(uint8(m[ft]))
	}
}

func encodeRightOccurrences(sw *strict.Writer, m map[OwnedRightType]Occurrences) {
	sw.Count(len(m))
	for _, rt := range sortedKeys(m) {
		sw.U16(uint16(rt))
		sw.U8(uint8(m[rt]))
	}
}

func encodePublicRights(sw *strict.Writer, rights []uint16) {
	sw.Count(len(rights))
	sorted := append([]uint16(nil), rights...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, r := range sorted {
		sw.U16(r)
	}
}

func decodeFieldOccurrences(sr *strict.Reader) (map[FieldType]Occurrences, error) {
	n := sr.Count()
	m := make(map[FieldType]Occurrences, n)
	for i := 0; i < n; i++ {
		ft := FieldType(sr.U16())
		occ := Occurrences(sr.U8())
		if sr.Err() == nil && !validOccurrences(occ) {
			return nil, fmt.Errorf("schema: invalid occurrences %#02x for %s", uint8(occ), ft)
		}
		m[ft] = occ
	}
	return m, nil
}

func decodeRightOccurrences(sr *strict.Reader) (map[OwnedRightType]Occurrences, error) {
	n := sr.Count()
	m := make(map[OwnedRightType]Occurrences, n)
	for i := 0; i < n; i++ {
		rt := OwnedRightType(sr.U16())
		occ := Occurrences(sr.U8())
		if sr.Err() == nil && !validOccurrences(occ) {
			return nil, fmt.Errorf("schema: invalid occurrences %#02x for %s", uint8(occ), rt)
		}
		m[rt] = occ
	}
	return m, nil
}

func decodePublicRights(sr *strict.Reader) []uint16 {
	n := sr.Count()
	if n == 0 {
		return nil
	}
	rights := make([]uint16, n)
	for i := range rights {
		rights[i] = sr.U16()
	}
	return rights
}
