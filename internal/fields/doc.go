// Package fields is the fixed registry of two-letter field codes a ruleset
// may reference. It is consulted at rule compile time only; compiled rules
// carry the resolved accessor.
package fields
