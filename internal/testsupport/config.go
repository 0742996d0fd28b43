package testsupport

import (
	"path/filepath"
	"testing"

	"mpdspl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.MPD.ConfigPath = filepath.Join(base, "mpd.conf")
	cfg.MPD.DatabaseFile = filepath.Join(base, "mpd.db")
	cfg.MPD.StickerFile = filepath.Join(base, "sticker.sql")
	cfg.MPD.PlaylistDir = filepath.Join(base, "playlists")
	cfg.Paths.CacheFile = filepath.Join(base, "cache", "mpddb.json")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSubDaySpans enables the historical span-truncation behavior.
func WithSubDaySpans() ConfigOption {
	return func(c *config.Config) {
		c.Rules.SubDaySpans = true
	}
}
