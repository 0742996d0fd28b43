package rules

import (
	"mpdspl/internal/fields"
	"mpdspl/internal/library"
)

// Kind identifies the value semantics of a compiled rule. The set is closed;
// dispatch over it is exhaustive.
type Kind int

const (
	// KindPattern matches the field text against a regular expression.
	KindPattern Kind = iota
	// KindSpan compares a numeric field against a relative time span.
	KindSpan
	// KindDate compares a timestamp field, truncated to its calendar day,
	// against an absolute date.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindSpan:
		return "span"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Delimiter returns the ruleset character that selects this kind.
func (k Kind) Delimiter() byte {
	switch k {
	case KindSpan:
		return '%'
	case KindDate:
		return '@'
	default:
		return '/'
	}
}

// Rule is one compiled predicate over a single track field. The structural
// components (Field, Operator, Value, Flags) are retained exactly as parsed;
// the matcher closure is fixed at compile time and never mutated.
type Rule struct {
	Field    fields.Field
	Kind     Kind
	Operator byte
	Value    string
	Flags    string
	Negate   bool

	match func(string) bool
}

// Match evaluates the rule against one track. Negation is applied uniformly
// as the final inversion of the variant's raw result.
func (r Rule) Match(t library.Track) bool {
	ok := r.match(r.Field.Value(t))
	if r.Negate {
		return !ok
	}
	return ok
}

// Source renders the rule back into segment form. The structural components
// round-trip; insignificant whitespace inside the value does not.
func (r Rule) Source() string {
	delim := r.Kind.Delimiter()
	buf := make([]byte, 0, len(r.Field.Code)+len(r.Value)+len(r.Flags)+3)
	buf = append(buf, r.Field.Code...)
	buf = append(buf, r.Operator, delim)
	buf = append(buf, r.Value...)
	buf = append(buf, delim)
	buf = append(buf, r.Flags...)
	return string(buf)
}
