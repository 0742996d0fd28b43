package library

import "sort"

// Track is a single record from the MPD database. Every attribute is kept as
// the raw text MPD wrote; numeric fields (duration, mtime, rating, year) are
// interpreted when a rule evaluates them, not here.
type Track struct {
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Title  string `json:"title,omitempty"`
	Number string `json:"track,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Date   string `json:"date,omitempty"`
	Length string `json:"time,omitempty"`
	File   string `json:"file"`
	Key    string `json:"key,omitempty"`
	MTime  string `json:"mtime,omitempty"`
	Rating string `json:"rating,omitempty"`
}

// Set is the full collection of tracks a playlist is evaluated against,
// keyed by file path. The path is the record's identity: inserting a track
// under any other key is a caller bug.
type Set map[string]Track

// Add stores the track under its file path. Tracks without a path are
// dropped; MPD never emits them and they cannot be addressed later.
func (s Set) Add(t Track) {
	if t.File == "" {
		return
	}
	s[t.File] = t
}

// Paths returns every track path in lexical order. Evaluation iterates this
// so results are stable across runs even though Set itself is a map.
func (s Set) Paths() []string {
	paths := make([]string, 0, len(s))
	for path := range s {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
