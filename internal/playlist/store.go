package playlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mpdspl/internal/library"
	"mpdspl/internal/rules"
)

// ErrNotFound is returned when a named playlist has no saved definition.
var ErrNotFound = errors.New("playlist not found")

// record is the persisted form: the name, the ruleset source text, and the
// last matched paths. Rules recompile from the ruleset on load, so the triple
// survives process restarts losslessly.
type record struct {
	Name    string   `yaml:"name"`
	Ruleset string   `yaml:"ruleset"`
	Tracks  []string `yaml:"tracks,omitempty"`
}

// Store persists playlist definitions as one YAML document per playlist in
// the data directory.
type Store struct {
	dir  string
	opts rules.Options
}

// NewStore creates a store rooted at dir. Compile options apply to every
// playlist loaded through it.
func NewStore(dir string, opts rules.Options) *Store {
	return &Store{dir: dir, opts: opts}
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the playlist definition, replacing any previous one.
func (s *Store) Save(p *Playlist) error {
	if err := checkName(p.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	rec := record{Name: p.Name, Ruleset: p.Ruleset, Tracks: make([]string, 0, len(p.Tracks))}
	for _, track := range p.Tracks {
		rec.Tracks = append(rec.Tracks, track.File)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal playlist %q: %w", p.Name, err)
	}

	path := s.path(p.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write playlist %q: %w", p.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace playlist %q: %w", p.Name, err)
	}
	return nil
}

// Load reads a saved playlist and recompiles its rules. The restored Tracks
// carry only the persisted paths; the next Evaluate replaces them with full
// records.
func (s *Store) Load(name string) (*Playlist, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read playlist %q: %w", name, err)
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse playlist %q: %w", name, err)
	}
	if rec.Name == "" {
		rec.Name = name
	}

	p, err := New(rec.Name, rec.Ruleset, s.opts)
	if err != nil {
		return nil, err
	}
	for _, path := range rec.Tracks {
		p.Tracks = append(p.Tracks, library.Track{File: path})
	}
	return p, nil
}

// List loads every saved playlist sorted by name.
func (s *Store) List() ([]*Playlist, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var playlists []*Playlist
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		p, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	sort.Slice(playlists, func(i, j int) bool { return playlists[i].Name < playlists[j].Name })
	return playlists, nil
}

// Remove deletes a saved playlist definition.
func (s *Store) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return fmt.Errorf("remove playlist %q: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// checkName rejects names that would escape the data directory or collide
// with the store's file layout.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("playlist name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("playlist name %q contains path separators", name)
	}
	return nil
}
