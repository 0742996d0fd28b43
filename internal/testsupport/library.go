package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mpdspl/internal/library"
)

// WriteDatabase renders tracks in MPD's plain-text database format and
// writes the result to path.
func WriteDatabase(t testing.TB, path string, tracks ...library.Track) {
	t.Helper()

	var b strings.Builder
	b.WriteString("info_begin\nformat: 2\nmpd_version: 0.23.5\ninfo_end\n")
	b.WriteString("songList begin\n")
	for _, track := range tracks {
		fmt.Fprintf(&b, "key: %s\n", filepath.Base(track.File))
		fmt.Fprintf(&b, "file: %s\n", track.File)
		writeAttr(&b, "Artist", track.Artist)
		writeAttr(&b, "Album", track.Album)
		writeAttr(&b, "Title", track.Title)
		writeAttr(&b, "Track", track.Number)
		writeAttr(&b, "Genre", track.Genre)
		writeAttr(&b, "Date", track.Date)
		writeAttr(&b, "Time", track.Length)
		writeAttr(&b, "mtime", track.MTime)
	}
	b.WriteString("songList end\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write database %s: %v", path, err)
	}
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, value)
}

// Track builds a minimal track with sensible defaults for tests.
func Track(file, artist, title string) library.Track {
	return library.Track{
		File:   file,
		Key:    filepath.Base(file),
		Artist: artist,
		Title:  title,
		MTime:  "1700000000",
	}
}
