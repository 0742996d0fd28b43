package rules

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// compileDate parses a calendar date at midnight in loc and returns a
// comparison against the field's epoch-seconds value truncated to the start
// of its day in the same location. Two instants on the same calendar day are
// therefore equal under '='.
func compileDate(operator byte, value string, loc *time.Location) (func(string) bool, error) {
	cmp, err := comparator(operator)
	if err != nil {
		return nil, err
	}

	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not %s", ErrDateParse, value, dateLayout)
	}
	target := t.Unix()

	return func(raw string) bool {
		instant := time.Unix(numeric(raw), 0).In(loc)
		year, month, day := instant.Date()
		dayStart := time.Date(year, month, day, 0, 0, 0, 0, loc).Unix()
		return cmp(dayStart, target)
	}, nil
}
