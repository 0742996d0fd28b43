package playlist

import (
	"fmt"
	"path/filepath"
	"strings"

	"mpdspl/internal/library"
	"mpdspl/internal/rules"
)

// Playlist owns a compiled ruleset and the tracks that matched it last.
// Rules are immutable after construction; Tracks is replaced wholesale on
// every Evaluate call, never merged.
type Playlist struct {
	Name    string
	Ruleset string
	Tracks  []library.Track

	rules []rules.Rule
}

// New compiles the ruleset eagerly. Any compile error aborts construction;
// there is no partial playlist.
func New(name, ruleset string, opts rules.Options) (*Playlist, error) {
	compiled, err := rules.Parse(ruleset, opts)
	if err != nil {
		return nil, fmt.Errorf("playlist %q: %w", name, err)
	}
	return &Playlist{Name: name, Ruleset: ruleset, rules: compiled}, nil
}

// Rules returns the compiled rules in ruleset order.
func (p *Playlist) Rules() []rules.Rule {
	return p.rules
}

// Evaluate recomputes the matched set: a track is kept iff every rule
// matches it. A playlist with zero rules matches everything. Iteration
// follows Set.Paths so results are stable for a given set.
func (p *Playlist) Evaluate(set library.Set) []library.Track {
	matched := make([]library.Track, 0, len(set))
	for _, path := range set.Paths() {
		track := set[path]
		keep := true
		for _, rule := range p.rules {
			if !rule.Match(track) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, track)
		}
	}
	p.Tracks = matched
	return matched
}

// M3U renders the matched tracks as newline-separated file paths with a
// trailing newline. Zero tracks render as a single newline; MPD treats that
// as an empty playlist.
func (p *Playlist) M3U() string {
	var b strings.Builder
	for i, track := range p.Tracks {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(track.File)
	}
	b.WriteByte('\n')
	return b.String()
}

// M3UPath returns where the rendered playlist lands inside MPD's playlist
// directory.
func (p *Playlist) M3UPath(playlistDir string) string {
	return filepath.Join(playlistDir, p.Name+".m3u")
}
