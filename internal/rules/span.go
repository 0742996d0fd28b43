package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spanValue accepts "<integer><unit>" with optional whitespace between.
// Anything after the unit word is ignored, matching the original grammar.
var spanValue = regexp.MustCompile(`^(\d+)\s*([A-Za-z]+)`)

const secondsPerDay = 24 * 60 * 60

// Calendar units accepted in span values. Months and years use the fixed
// civil approximations (30 and 365 days).
var spanUnits = map[string]time.Duration{
	"seconds": time.Second,
	"minutes": time.Minute,
	"hours":   time.Hour,
	"days":    24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
	"months":  30 * 24 * time.Hour,
	"years":   365 * 24 * time.Hour,
}

// compileSpan turns "<integer><unit>" into a threshold in seconds and returns
// a comparison against the numeric field value.
//
// By default the threshold is the full span expressed in seconds. When subDay
// is set, only the sub-day residual is kept (threshold mod 86400), matching
// older releases where day-scale and larger spans collapsed toward zero. That
// behavior is preserved solely for parity.
func compileSpan(operator byte, value string, subDay bool) (func(string) bool, error) {
	cmp, err := comparator(operator)
	if err != nil {
		return nil, err
	}

	m := spanValue.FindStringSubmatch(value)
	if m == nil {
		return nil, fmt.Errorf("%w: %q is not <number><unit>", ErrMalformedRule, value)
	}

	count, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: span count %q: %v", ErrMalformedRule, m[1], err)
	}

	unit := strings.ToLower(m[2])
	if !strings.HasSuffix(unit, "s") {
		unit += "s"
	}
	d, ok := spanUnits[unit]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, m[2])
	}

	threshold := count * int64(d/time.Second)
	if subDay {
		threshold %= secondsPerDay
	}

	return func(raw string) bool {
		return cmp(numeric(raw), threshold)
	}, nil
}

// numeric interprets raw field text as an integer. Matching never fails, so
// text that does not parse evaluates as zero.
func numeric(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
