package playlist_test

import (
	"errors"
	"testing"

	"mpdspl/internal/library"
	"mpdspl/internal/playlist"
	"mpdspl/internal/rules"
)

func sampleSet() library.Set {
	set := library.Set{}
	set.Add(library.Track{File: "/music/fred/band.flac", Artist: "Fred", Title: "The Band and Me"})
	set.Add(library.Track{File: "/music/george/nothing.flac", Artist: "George", Title: "Nothing"})
	return set
}

func TestNewRejectsBadRuleset(t *testing.T) {
	_, err := playlist.New("bad", "zz=/nope/", rules.Options{})
	if !errors.Is(err, rules.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestZeroRulesMatchesEverything(t *testing.T) {
	p, err := playlist.New("all", "", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	matched := p.Evaluate(sampleSet())
	if len(matched) != 2 {
		t.Fatalf("expected every track, got %d", len(matched))
	}
}

func TestConjunctionEmptyWhenAnyRuleMatchesNothing(t *testing.T) {
	p, err := playlist.New("none", "ar=/(Fred|George)/ ge=/Polka/", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if matched := p.Evaluate(sampleSet()); len(matched) != 0 {
		t.Fatalf("expected empty matched set, got %d", len(matched))
	}
}

func TestEvaluateEndToEnd(t *testing.T) {
	p, err := playlist.New("mix", "ar=/(Fred|George)/ ti=/the.*and|and.*the/i", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	matched := p.Evaluate(sampleSet())
	if len(matched) != 1 || matched[0].File != "/music/fred/band.flac" {
		t.Fatalf("unexpected matched set: %+v", matched)
	}
	if got := p.M3U(); got != "/music/fred/band.flac\n" {
		t.Fatalf("unexpected m3u rendering: %q", got)
	}
}

func TestEvaluateReplacesPriorResult(t *testing.T) {
	p, err := playlist.New("fred", "ar=/Fred/", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Evaluate(sampleSet())
	if len(p.Tracks) != 1 {
		t.Fatalf("expected one track, got %d", len(p.Tracks))
	}

	p.Evaluate(library.Set{})
	if len(p.Tracks) != 0 {
		t.Fatal("expected matched set to be replaced, not merged")
	}
}

func TestM3UEmptyRendersSingleNewline(t *testing.T) {
	p, err := playlist.New("empty", "ar=/Nobody/", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Evaluate(sampleSet())
	if got := p.M3U(); got != "\n" {
		t.Fatalf("empty playlist must render a single newline, got %q", got)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	set := library.Set{}
	set.Add(library.Track{File: "/music/c.flac", Artist: "Fred"})
	set.Add(library.Track{File: "/music/a.flac", Artist: "Fred"})
	set.Add(library.Track{File: "/music/b.flac", Artist: "Fred"})

	p, err := playlist.New("fred", "ar=/Fred/", rules.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := "/music/a.flac\n/music/b.flac\n/music/c.flac\n"
	for i := 0; i < 5; i++ {
		p.Evaluate(set)
		if got := p.M3U(); got != want {
			t.Fatalf("run %d: unstable order: %q", i, got)
		}
	}
}
