package rules

import (
	"fmt"
	"strings"
	"time"

	"mpdspl/internal/fields"
)

// Options carries the environment a ruleset compiles against. Nothing here is
// read from process-wide state; callers inject it so compilation stays
// deterministic and testable.
type Options struct {
	// Location fixes the day boundary for date rules. Nil means time.Local.
	Location *time.Location
	// SubDaySpans reproduces the historical span thresholds, which kept only
	// the sub-day residual of the requested duration. Off by default; total
	// seconds is the documented behavior.
	SubDaySpans bool
}

func (o Options) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// Parse splits a ruleset on whitespace runs and compiles each segment.
// Compilation stops at the first failing segment; segment order only matters
// for error reporting since conjunction is commutative.
func Parse(ruleset string, opts Options) ([]Rule, error) {
	segments := strings.Fields(ruleset)
	compiled := make([]Rule, 0, len(segments))
	for _, segment := range segments {
		rule, err := Compile(segment, opts)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rule)
	}
	return compiled, nil
}

// Compile turns one ruleset segment into a Rule.
//
// Segment form: a two-letter field code, a one-character operator, a value
// bracketed by the delimiter that selects the variant ('/' pattern,
// '%' time span, '@' date), and optional trailing flags.
func Compile(segment string, opts Options) (Rule, error) {
	fail := func(err error) (Rule, error) {
		return Rule{}, &CompileError{Segment: segment, Err: err}
	}

	// Shortest possible segment: code(2) + op(1) + delim(1) + value(1) + delim(1).
	if len(segment) < 6 {
		return fail(fmt.Errorf("%w: segment too short", ErrMalformedRule))
	}

	code := segment[:2]
	operator := segment[2]
	delim := segment[3]

	kind, ok := kindForDelimiter(delim)
	if !ok {
		return fail(fmt.Errorf("%w: %q is not a value delimiter", ErrMalformedRule, string(delim)))
	}

	rest := segment[4:]
	closing := strings.LastIndexByte(rest, delim)
	if closing <= 0 {
		return fail(fmt.Errorf("%w: missing closing %q", ErrMalformedRule, string(delim)))
	}
	value := rest[:closing]
	flags := rest[closing+1:]

	if err := checkFlags(kind, flags); err != nil {
		return fail(err)
	}

	field, ok := fields.Lookup(code)
	if !ok {
		return fail(fmt.Errorf("%w: %q", ErrUnknownField, code))
	}

	var (
		match func(string) bool
		err   error
	)
	switch kind {
	case KindPattern:
		match, err = compilePattern(operator, value, flags)
	case KindSpan:
		match, err = compileSpan(operator, value, opts.SubDaySpans)
	case KindDate:
		match, err = compileDate(operator, value, opts.location())
	}
	if err != nil {
		return fail(err)
	}

	return Rule{
		Field:    field,
		Kind:     kind,
		Operator: operator,
		Value:    value,
		Flags:    flags,
		Negate:   strings.ContainsRune(flags, 'n'),
		match:    match,
	}, nil
}

func kindForDelimiter(delim byte) (Kind, bool) {
	switch delim {
	case '/':
		return KindPattern, true
	case '%':
		return KindSpan, true
	case '@':
		return KindDate, true
	default:
		return 0, false
	}
}

func checkFlags(kind Kind, flags string) error {
	for _, flag := range flags {
		switch flag {
		case 'n':
			// Valid for every variant.
		case 'i', 'l':
			if kind != KindPattern {
				return fmt.Errorf("%w: flag %q only applies to pattern rules", ErrMalformedRule, string(flag))
			}
		default:
			return fmt.Errorf("%w: unknown flag %q", ErrMalformedRule, string(flag))
		}
	}
	return nil
}

// comparator maps a rule operator to its integer comparison. Note the symbols
// read inverted: '<' is less-or-equal and '>' is greater-or-equal, applied as
// op(fieldValue, threshold). This is ruleset contract, not a typo.
func comparator(operator byte) (func(a, b int64) bool, error) {
	switch operator {
	case '=':
		return func(a, b int64) bool { return a == b }, nil
	case '<':
		return func(a, b int64) bool { return a <= b }, nil
	case '>':
		return func(a, b int64) bool { return a >= b }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, string(operator))
	}
}
