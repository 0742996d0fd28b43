package rules

import (
	"errors"
	"fmt"
)

// Sentinel errors for the compile-time failure taxonomy. Every failure is
// surfaced through a *CompileError so callers can report the offending
// segment while errors.Is still reaches the cause.
var (
	ErrMalformedRule       = errors.New("malformed rule")
	ErrUnknownField        = errors.New("unknown field code")
	ErrUnknownUnit         = errors.New("unknown time unit")
	ErrDateParse           = errors.New("invalid date")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// CompileError reports which ruleset segment failed to compile and why.
// Compilation is the only place a rule can fail; a compiled rule never
// errors during matching.
type CompileError struct {
	Segment string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Segment, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
