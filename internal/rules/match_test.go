package rules_test

import (
	"strconv"
	"testing"
	"time"

	"mpdspl/internal/library"
	"mpdspl/internal/rules"
)

func trackWithMTime(epoch int64) library.Track {
	return library.Track{File: "/music/a.flac", MTime: strconv.FormatInt(epoch, 10)}
}

func mustCompile(t *testing.T, segment string, opts rules.Options) rules.Rule {
	t.Helper()
	rule, err := rules.Compile(segment, opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v", segment, err)
	}
	return rule
}

func TestPatternSearchesNotFullMatch(t *testing.T) {
	rule := mustCompile(t, "ti=/the/", rules.Options{})
	if !rule.Match(library.Track{Title: "Into the Woods"}) {
		t.Fatal("expected substring search to match mid-string")
	}
	if rule.Match(library.Track{Title: "Into The Woods"}) {
		t.Fatal("case-sensitive search must not match different case")
	}
}

func TestPatternCaseInsensitiveFlag(t *testing.T) {
	rule := mustCompile(t, "ti=/THE/i", rules.Options{})
	if !rule.Match(library.Track{Title: "into the woods"}) {
		t.Fatal("expected 'i' flag to fold case")
	}
}

func TestPatternLocaleFlagIsAccepted(t *testing.T) {
	// RE2 has no locale-aware classes; 'l' compiles and behaves like the
	// plain pattern.
	rule := mustCompile(t, "ar=/Fred/l", rules.Options{})
	if !rule.Match(library.Track{Artist: "Fred"}) {
		t.Fatal("expected locale-flagged pattern to match")
	}
}

func TestPatternAlternation(t *testing.T) {
	rule := mustCompile(t, "ar=/(Fred|George)/", rules.Options{})
	if !rule.Match(library.Track{Artist: "George"}) {
		t.Fatal("expected alternation to match George")
	}
	if rule.Match(library.Track{Artist: "Ringo"}) {
		t.Fatal("did not expect Ringo to match")
	}
}

func TestNegateInvertsEveryVariant(t *testing.T) {
	day := time.Date(2021, 3, 14, 0, 0, 0, 0, time.Local)
	track := library.Track{
		Artist: "Fred",
		Length: "200",
		MTime:  strconv.FormatInt(day.Add(9*time.Hour).Unix(), 10),
		File:   "/music/x.flac",
	}

	pairs := [][2]string{
		{"ar=/Fred/", "ar=/Fred/n"},
		{"ar=/Ringo/", "ar=/Ringo/n"},
		{"le<%300seconds%", "le<%300seconds%n"},
		{"mt=@2021-03-14@", "mt=@2021-03-14@n"},
		{"mt=@1999-01-01@", "mt=@1999-01-01@n"},
	}
	for _, pair := range pairs {
		base := mustCompile(t, pair[0], rules.Options{})
		negated := mustCompile(t, pair[1], rules.Options{})
		if base.Match(track) == negated.Match(track) {
			t.Errorf("%q and %q agree; 'n' must invert", pair[0], pair[1])
		}
	}
}

func TestSpanThresholdIsTotalSeconds(t *testing.T) {
	// The documented meaning of %3days% is 259200 seconds. The comparison is
	// op(fieldValue, threshold) with '<' meaning less-or-equal.
	const threshold = 3 * 24 * 60 * 60

	rule := mustCompile(t, "mt<%3days%", rules.Options{})
	if !rule.Match(trackWithMTime(threshold)) {
		t.Fatalf("value equal to %d must satisfy '<'", threshold)
	}
	if !rule.Match(trackWithMTime(threshold - 1)) {
		t.Fatal("value below threshold must satisfy '<'")
	}
	if rule.Match(trackWithMTime(threshold + 1)) {
		t.Fatal("value above threshold must not satisfy '<'")
	}

	atLeast := mustCompile(t, "mt>%3days%", rules.Options{})
	if !atLeast.Match(trackWithMTime(threshold)) || !atLeast.Match(trackWithMTime(threshold+1)) {
		t.Fatal("'>' must mean greater-or-equal")
	}
	if atLeast.Match(trackWithMTime(threshold - 1)) {
		t.Fatal("'>' must reject values below the threshold")
	}

	exact := mustCompile(t, "mt=%3days%", rules.Options{})
	if !exact.Match(trackWithMTime(threshold)) || exact.Match(trackWithMTime(threshold+1)) {
		t.Fatal("'=' must mean exact equality")
	}
}

func TestSpanSubDayCompatibility(t *testing.T) {
	// The original kept only the sub-day residual, so day-scale spans
	// collapse: 3 days -> 0, 1 day + 2 hours has no single-unit spelling but
	// 26 hours -> 7200 seconds.
	rule := mustCompile(t, "mt=%3days%", rules.Options{SubDaySpans: true})
	if !rule.Match(trackWithMTime(0)) {
		t.Fatal("sub-day mode: 3 days must collapse to 0")
	}

	rule = mustCompile(t, "mt=%26hours%", rules.Options{SubDaySpans: true})
	if !rule.Match(trackWithMTime(2 * 60 * 60)) {
		t.Fatal("sub-day mode: 26 hours must collapse to 7200")
	}
}

func TestSpanUnitNormalization(t *testing.T) {
	cases := []struct {
		segment string
		want    int64
	}{
		{"le=%90second%", 90},      // singular
		{"le=%90SECONDS%", 90},     // case-insensitive
		{"le=%2 minutes%", 120},    // whitespace between count and unit
		{"le=%1week%", 7 * 86400},  // singular week
		{"le=%1month%", 30 * 86400},
		{"le=%2years%", 2 * 365 * 86400},
	}
	for _, tc := range cases {
		rule := mustCompile(t, tc.segment, rules.Options{})
		track := library.Track{Length: strconv.FormatInt(tc.want, 10)}
		if !rule.Match(track) {
			t.Errorf("%q: expected threshold %d", tc.segment, tc.want)
		}
	}
}

func TestSpanNonNumericFieldEvaluatesAsZero(t *testing.T) {
	rule := mustCompile(t, "le<%90seconds%", rules.Options{})
	if !rule.Match(library.Track{Length: "not-a-number"}) {
		t.Fatal("unparseable field text must evaluate as 0, satisfying '<='")
	}
}

func TestDateTruncatesToDayGranularity(t *testing.T) {
	day := time.Date(2010, 1, 2, 0, 0, 0, 0, time.Local)
	rule := mustCompile(t, "mt=@2010-01-02@", rules.Options{Location: time.Local})

	morning := trackWithMTime(day.Add(8 * time.Hour).Unix())
	evening := trackWithMTime(day.Add(23*time.Hour + 59*time.Minute).Unix())
	if !rule.Match(morning) || !rule.Match(evening) {
		t.Fatal("instants on the same calendar day must both satisfy '='")
	}

	nextDay := trackWithMTime(day.Add(25 * time.Hour).Unix())
	if rule.Match(nextDay) {
		t.Fatal("an instant on the next day must not satisfy '='")
	}
}

func TestDateOrderingOperators(t *testing.T) {
	utc := time.UTC
	opts := rules.Options{Location: utc}
	target := time.Date(2009, 12, 20, 0, 0, 0, 0, utc)

	before := mustCompile(t, "mt<@2009-12-20@", opts)
	after := mustCompile(t, "mt>@2009-12-20@", opts)

	dayBefore := trackWithMTime(target.AddDate(0, 0, -1).Add(5 * time.Hour).Unix())
	sameDay := trackWithMTime(target.Add(12 * time.Hour).Unix())
	dayAfter := trackWithMTime(target.AddDate(0, 0, 1).Add(5 * time.Hour).Unix())

	if !before.Match(dayBefore) || !before.Match(sameDay) || before.Match(dayAfter) {
		t.Fatal("'<' must include earlier days and the target day only")
	}
	if before.Match(dayAfter) || !after.Match(dayAfter) || !after.Match(sameDay) || after.Match(dayBefore) {
		t.Fatal("'>' must include later days and the target day only")
	}
}
