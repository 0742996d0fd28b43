package trackcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mpdspl/internal/library"
	"mpdspl/internal/logging"
	"mpdspl/internal/mpd"
	"mpdspl/internal/sticker"
)

// Cache is the parsed-database snapshot. Parsing MPD's text database is the
// slow step of every run, so the track set is kept as JSON next to the other
// XDG cache files and rebuilt only when its sources change.
type Cache struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// New creates a cache backed by the given file path.
func New(path string, logger *slog.Logger) *Cache {
	return &Cache{
		path:   path,
		logger: logging.WithComponent(logger, "trackcache"),
		lock:   flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Fresh reports whether the snapshot is newer than both the database file and
// the sticker file (when one exists). Touching the cache file therefore pins
// it; the force flag on Refresh undoes accidental touches.
func (c *Cache) Fresh(dbPath, stickerPath string) bool {
	cacheInfo, err := os.Stat(c.path)
	if err != nil {
		return false
	}
	dbInfo, err := os.Stat(dbPath)
	if err != nil {
		return false
	}
	if dbInfo.ModTime().After(cacheInfo.ModTime()) {
		return false
	}
	if stickerPath != "" {
		if stickerInfo, err := os.Stat(stickerPath); err == nil {
			if stickerInfo.ModTime().After(cacheInfo.ModTime()) {
				return false
			}
		}
	}
	return true
}

// Refresh returns the track set, rebuilding the snapshot from the database
// and sticker files when it is stale or force is set. Rebuilds are serialized
// across processes with a file lock so concurrent runs do not clobber the
// snapshot.
func (c *Cache) Refresh(ctx context.Context, dbPath, stickerPath string, force bool) (library.Set, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database file %q: %w", dbPath, err)
	}

	if !force && c.Fresh(dbPath, stickerPath) {
		set, err := c.Load()
		if err == nil {
			c.logger.Debug("loaded cached track set",
				logging.Int("tracks", len(set)),
				logging.String("path", c.path))
			return set, nil
		}
		c.logger.Warn("cache unreadable, rebuilding", logging.Error(err))
	}

	if err := c.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer c.lock.Unlock()

	set, err := mpd.ParseDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	if stickerPath != "" {
		if _, err := os.Stat(stickerPath); err == nil {
			if err := sticker.Apply(ctx, stickerPath, set, c.logger); err != nil {
				return nil, err
			}
		}
	}

	if err := c.Save(set); err != nil {
		return nil, err
	}
	c.logger.Info("rebuilt track cache",
		logging.Int("tracks", len(set)),
		logging.String("path", c.path))
	return set, nil
}

// Load reads the snapshot from disk.
func (c *Cache) Load() (library.Set, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	var set library.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return set, nil
}

// Save writes the snapshot atomically via a temp file.
func (c *Cache) Save(set library.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Exists reports whether a snapshot file is present.
func (c *Cache) Exists() bool {
	_, err := os.Stat(c.path)
	return !errors.Is(err, fs.ErrNotExist)
}
