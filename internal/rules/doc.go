// Package rules compiles ruleset text into executable track predicates.
//
// A ruleset is a whitespace-separated list of segments. Each segment names a
// field by two-letter code, an operator, a delimited value, and optional
// flags; the delimiter selects the variant:
//
//	'/'  pattern   regular-expression search of the field text
//	'%'  span      relative time span compared against a numeric field
//	'@'  date      absolute calendar day compared against a timestamp field
//
// All failures are compile-time. A compiled Rule is immutable and its Match
// method cannot error.
package rules
