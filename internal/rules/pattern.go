package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// compilePattern builds a regular-expression search over the field text.
// The pattern is unanchored: it matches anywhere in the value, substring
// style. Flag 'i' folds case via the (?i) group. Flag 'l' asked the original
// engine for locale-aware character classes; RE2 has no equivalent, so it is
// accepted and ignored.
func compilePattern(operator byte, value, flags string) (func(string) bool, error) {
	if operator != '=' {
		return nil, fmt.Errorf("%w: pattern rules only support '=', got %q", ErrUnsupportedOperator, string(operator))
	}

	expr := value
	if strings.ContainsRune(flags, 'i') {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re.MatchString, nil
}
