package schema

import "fmt"

// TypeKind names the vocabulary a mismatching code belongs to.
type TypeKind string

const (
	KindField      TypeKind = "field"
	KindRight      TypeKind = "owned right"
	KindTransition TypeKind = "transition"
)

// MismatchError reports the first point where a would-be restricted schema
// steps outside its root: an unknown type, a widened occurrence range or a
// redefined value format. Non-retryable; the sub-schema is simply not a
// narrowing of the root.
type MismatchError struct {
	Kind    TypeKind
	Code    uint16
	Context string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("schema restriction mismatch: %s %#04x in %s", e.Kind, e.Code, e.Context)
}

func mismatch(kind TypeKind, code uint16, ctx string) error {
	return &MismatchError{Kind: kind, Code: code, Context: ctx}
}

// VerifyRestriction checks that sub is a legal narrowing of root: every
// field, right and transition type present in sub must exist in root with a
// compatible (never wider) occurrence range and an identical value format.
// Types absent from sub are legally dropped.
func VerifyRestriction(sub, root *Schema) error {
	if err := verifyFieldOccurrences(sub.Genesis.Metadata, root.Genesis.Metadata, "genesis metadata"); err != nil {
		return err
	}
	if err := verifyRightOccurrences(sub.Genesis.OwnedRights, root.Genesis.OwnedRights, "genesis owned rights"); err != nil {
		return err
	}

	for tt, ts := range sub.Transitions {
		rootTS, ok := root.Transitions[tt]
		if !ok {
			return mismatch(KindTransition, uint16(tt), "transitions")
		}
		ctx := fmt.Sprintf("transition %s", tt)
		if err := verifyFieldOccurrences(ts.Metadata, rootTS.Metadata, ctx+" metadata"); err != nil {
			return err
		}
		if err := verifyRightOccurrences(ts.Closes, rootTS.Closes, ctx+" closes"); err != nil {
			return err
		}
		if err := verifyRightOccurrences(ts.OwnedRights, rootTS.OwnedRights, ctx+" owned rights"); err != nil {
			return err
		}
	}

	for ft, format := range sub.FieldFormats {
		rootFormat, ok := root.FieldFormats[ft]
		if !ok || rootFormat != format {
			return mismatch(KindField, uint16(ft), "field formats")
		}
	}
	for rt, format := range sub.StateFormats {
		rootFormat, ok := root.StateFormats[rt]
		if !ok || rootFormat != format {
			return mismatch(KindRight, uint16(rt), "state formats")
		}
	}
	return nil
}

func verifyFieldOccurrences(sub, root map[FieldType]Occurrences, ctx string) error {
	for ft, occ := range sub {
		rootOcc, ok := root[ft]
		if !ok || !rootOcc.Restricts(occ) {
			return mismatch(KindField, uint16(ft), ctx)
		}
	}
	return nil
}

func verifyRightOccurrences(sub, root map[OwnedRightType]Occurrences, ctx string) error {
	for rt, occ := range sub {
		rootOcc, ok := root[rt]
		if !ok || !rootOcc.Restricts(occ) {
			return mismatch(KindRight, uint16(rt), ctx)
		}
	}
	return nil
}
