package mpd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mpdspl/internal/library"
)

// ParseDatabase reads MPD's plain-text database file into a track set.
func ParseDatabase(path string) (library.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer file.Close()

	set, err := parseDatabase(file)
	if err != nil {
		return nil, fmt.Errorf("parse database %s: %w", path, err)
	}
	return set, nil
}

// parseDatabase walks the line format: track attributes appear only between
// "songList begin" and "songList end"; a "key:" line starts a new track.
// Attributes outside the known set are ignored so newer MPD versions keep
// parsing.
func parseDatabase(r io.Reader) (library.Set, error) {
	set := library.Set{}

	var (
		parsing bool
		current library.Track
		open    bool
	)
	flush := func() {
		if open {
			set.Add(current)
		}
		current = library.Track{}
		open = false
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "songList begin":
			parsing = true
			continue
		case "songList end":
			flush()
			parsing = false
			continue
		}
		if !parsing {
			continue
		}

		attr, value, found := strings.Cut(line, ": ")
		if !found {
			continue
		}
		if attr == "key" {
			flush()
			open = true
		}
		setAttr(&current, attr, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return set, nil
}

func setAttr(t *library.Track, attr, value string) {
	switch strings.ToLower(attr) {
	case "key":
		t.Key = value
	case "file":
		t.File = value
	case "artist":
		t.Artist = value
	case "album":
		t.Album = value
	case "title":
		t.Title = value
	case "track":
		t.Number = value
	case "genre":
		t.Genre = value
	case "date":
		t.Date = value
	case "time":
		t.Length = value
	case "mtime":
		t.MTime = value
	case "rating":
		t.Rating = value
	}
}
