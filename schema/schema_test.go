package schema

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestBuildIsDeterministic(t *testing.T) {
	for _, v := range []Variant{VariantFull, VariantInflationary, VariantSimple} {
		a := Build(v)
		b := Build(v)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Build(%s) not reproducible", v)
		}
		if a.SchemaID() != b.SchemaID() {
			t.Fatalf("Build(%s) schema id not reproducible", v)
		}

		var bufA, bufB bytes.Buffer
		if err := a.Encode(&bufA); err != nil {
			t.Fatalf("Encode(%s): %v", v, err)
		}
		if err := b.Encode(&bufB); err != nil {
			t.Fatalf("Encode(%s): %v", v, err)
		}
		if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
			t.Fatalf("Build(%s) canonical bytes not reproducible", v)
		}
	}
}

func TestVariantIDsAreDistinct(t *testing.T) {
	full := Build(VariantFull).SchemaID()
	inflationary := Build(VariantInflationary).SchemaID()
	simple := Build(VariantSimple).SchemaID()
	if full == inflationary || full == simple || inflationary == simple {
		t.Fatalf("schema ids collide: %s %s %s", full, inflationary, simple)
	}
}

func TestVariantOf(t *testing.T) {
	for _, want := range []Variant{VariantFull, VariantInflationary, VariantSimple} {
		got, ok := VariantOf(Build(want).SchemaID())
		if !ok || got != want {
			t.Fatalf("VariantOf(Build(%s).SchemaID()) = %s, %v", want, got, ok)
		}
	}
	if _, ok := VariantOf(Build(VariantFull).RootID); ok {
		t.Fatal("VariantOf(cid.Undef) should not resolve")
	}
}

func TestRestrictedVariantsSubsetFull(t *testing.T) {
	full := Build(VariantFull)
	for _, v := range []Variant{VariantInflationary, VariantSimple} {
		if err := VerifyRestriction(Build(v), full); err != nil {
			t.Fatalf("VerifyRestriction(%s, full): %v", v, err)
		}
	}
}

func TestRestrictedVariantsNameRoot(t *testing.T) {
	rootID := Build(VariantFull).SchemaID()
	for _, v := range []Variant{VariantInflationary, VariantSimple} {
		s := Build(v)
		if s.IsRoot() {
			t.Fatalf("Build(%s) claims to be a root schema", v)
		}
		if s.RootID != rootID {
			t.Fatalf("Build(%s).RootID = %s, want %s", v, s.RootID, rootID)
		}
	}
	if !Build(VariantFull).IsRoot() {
		t.Fatal("full schema must be a root schema")
	}
}

func TestVerifyRestrictionRejectsWidenedRange(t *testing.T) {
	full := Build(VariantFull)
	sub := Build(VariantInflationary)
	// Full allows burns to close exactly one right; widening that to
	// once-or-more steps outside the root.
	sub.Transitions[TransitionBurn].Closes[RightBurnReplace] = OnceOrMore

	err := VerifyRestriction(sub, full)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("VerifyRestriction = %v, want MismatchError", err)
	}
	if mismatch.Kind != KindRight || mismatch.Code != uint16(RightBurnReplace) {
		t.Fatalf("mismatch identifies %s %#04x, want %s %#04x",
			mismatch.Kind, mismatch.Code, KindRight, uint16(RightBurnReplace))
	}
}

func TestVerifyRestrictionRejectsUnknownTransition(t *testing.T) {
	full := Build(VariantFull)
	sub := Build(VariantSimple)
	const bogus TransitionType = 0x7f00
	sub.Transitions[bogus] = transferSchema()

	err := VerifyRestriction(sub, full)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("VerifyRestriction = %v, want MismatchError", err)
	}
	if mismatch.Kind != KindTransition || mismatch.Code != uint16(bogus) {
		t.Fatalf("mismatch identifies %s %#04x, want transition %#04x",
			mismatch.Kind, mismatch.Code, uint16(bogus))
	}
}

func TestVerifyRestrictionRejectsRedefinedFormat(t *testing.T) {
	full := Build(VariantFull)
	sub := Build(VariantSimple)
	sub.FieldFormats[FieldPrecision] = FormatU64

	var mismatch *MismatchError
	if err := VerifyRestriction(sub, full); !errors.As(err, &mismatch) {
		t.Fatalf("VerifyRestriction = %v, want MismatchError", err)
	}
}

func TestOccurrences(t *testing.T) {
	cases := []struct {
		occ      Occurrences
		min, max uint16
		allows   []int
		rejects  []int
	}{
		{Once, 1, 1, []int{1}, []int{0, 2}},
		{NoneOrOnce, 0, 1, []int{0, 1}, []int{2}},
		{OnceOrMore, 1, 0xffff, []int{1, 100}, []int{0}},
		{NoneOrMore, 0, 0xffff, []int{0, 1, 100}, []int{-1}},
	}
	for _, c := range cases {
		if c.occ.Min() != c.min || c.occ.Max() != c.max {
			t.Fatalf("%s: range [%d, %d], want [%d, %d]",
				c.occ, c.occ.Min(), c.occ.Max(), c.min, c.max)
		}
		for _, n := range c.allows {
			if !c.occ.Allows(n) {
				t.Fatalf("%s should allow %d occurrences", c.occ, n)
			}
		}
		for _, n := range c.rejects {
			if c.occ.Allows(n) {
				t.Fatalf("%s should reject %d occurrences", c.occ, n)
			}
		}
	}
}

func TestOccurrencesRestricts(t *testing.T) {
	// Narrowing the upper bound or relaxing the lower bound is legal;
	// admitting more occurrences than the root is not.
	if !Once.Restricts(NoneOrOnce) {
		t.Fatal("once must admit a none-or-once narrowing")
	}
	if !OnceOrMore.Restricts(Once) {
		t.Fatal("once-or-more must admit a once narrowing")
	}
	if !NoneOrMore.Restricts(OnceOrMore) {
		t.Fatal("none-or-more must admit a once-or-more narrowing")
	}
	if Once.Restricts(OnceOrMore) {
		t.Fatal("once must reject an unbounded widening")
	}
	if NoneOrOnce.Restricts(NoneOrMore) {
		t.Fatal("none-or-once must reject an unbounded widening")
	}
}
