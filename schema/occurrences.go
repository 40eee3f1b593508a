package schema

import "math"

// Occurrences constrains how many times a field or right type may appear in a
// single genesis or transition record. The set is closed: exactly these four
// ranges exist, and their numeric codes are frozen wire values.
type Occurrences uint8

const (
	// Once requires exactly one occurrence.
	Once Occurrences = 0x01

	// NoneOrOnce allows zero or one occurrence.
	NoneOrOnce Occurrences = 0x02

	// OnceOrMore requires at least one occurrence.
	OnceOrMore Occurrences = 0x03

	// NoneOrMore allows any number of occurrences.
	NoneOrMore Occurrences = 0x04
)

// Min returns the lower bound of the range.
func (o Occurrences) Min() uint16 {
	switch o {
	case Once, OnceOrMore:
		return 1
	default:
		return 0
	}
}

// Max returns the upper bound of the range. Unbounded ranges report
// math.MaxUint16.
func (o Occurrences) Max() uint16 {
	switch o {
	case Once, NoneOrOnce:
		return 1
	default:
		return math.MaxUint16
	}
}

// Allows reports whether n occurrences satisfy the range.
func (o Occurrences) Allows(n int) bool {
	if n < 0 {
		return false
	}
	return n >= int(o.Min()) && n <= int(o.Max())
}

// Restricts reports whether sub is a legal narrowing of o. A narrowing may
// tighten the upper bound or keep it, and may relax the lower bound (dropping
// an otherwise required element is how a restricted variant removes optional
// machinery); it must never admit more occurrences than the root range does.
func (o Occurrences) Restricts(sub Occurrences) bool {
	return sub.Max() <= o.Max()
}

func (o Occurrences) String() string {
	switch o {
	case Once:
		return "once"
	case NoneOrOnce:
		return "noneOrOnce"
	case OnceOrMore:
		return "onceOrMore"
	case NoneOrMore:
		return "noneOrMore"
	default:
		return "occurrences(invalid)"
	}
}

func validOccurrences(o Occurrences) bool {
	return o >= Once && o <= NoneOrMore
}
