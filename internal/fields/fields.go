package fields

import (
	"sort"

	"mpdspl/internal/library"
)

// Field describes one rule-addressable track attribute: the two-letter code
// users write in rulesets, the MPD attribute it resolves to, and a typed
// accessor. The accessor is resolved once at rule compile time so evaluation
// never needs name-based lookup.
type Field struct {
	Code        string
	Attr        string
	Description string
	get         func(library.Track) string
}

// Value returns the track's raw text for this field.
func (f Field) Value(t library.Track) string {
	return f.get(t)
}

// The code table is part of the external ruleset contract; adding or removing
// an entry breaks user-authored rules.
var registry = map[string]Field{
	"ar": {Code: "ar", Attr: "Artist", Description: "Artist", get: func(t library.Track) string { return t.Artist }},
	"al": {Code: "al", Attr: "Album", Description: "Album", get: func(t library.Track) string { return t.Album }},
	"ti": {Code: "ti", Attr: "Title", Description: "Title", get: func(t library.Track) string { return t.Title }},
	"tn": {Code: "tn", Attr: "Track", Description: "Track number", get: func(t library.Track) string { return t.Number }},
	"ge": {Code: "ge", Attr: "Genre", Description: "Genre", get: func(t library.Track) string { return t.Genre }},
	"ye": {Code: "ye", Attr: "Date", Description: "Track year", get: func(t library.Track) string { return t.Date }},
	"le": {Code: "le", Attr: "Time", Description: "Track duration (in seconds)", get: func(t library.Track) string { return t.Length }},
	"fp": {Code: "fp", Attr: "file", Description: "File full path", get: func(t library.Track) string { return t.File }},
	"fn": {Code: "fn", Attr: "key", Description: "File name", get: func(t library.Track) string { return t.Key }},
	"mt": {Code: "mt", Attr: "mtime", Description: "File modification time", get: func(t library.Track) string { return t.MTime }},
	"ra": {Code: "ra", Attr: "Rating", Description: "Track rating", get: func(t library.Track) string { return t.Rating }},
}

// Lookup resolves a field code. The second return reports whether the code
// exists; error policy belongs to the rule parser.
func Lookup(code string) (Field, bool) {
	f, ok := registry[code]
	return f, ok
}

// All returns every registered field sorted by code, for reference output.
func All() []Field {
	out := make([]Field, 0, len(registry))
	for _, f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
