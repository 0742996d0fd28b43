package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultMPDConfig = "/etc/mpd.conf"

// Default returns the repository defaults: XDG locations for the cache, data,
// and log directories, and the system-wide mpd.conf.
func Default() Config {
	return Config{
		MPD: MPD{
			ConfigPath: defaultMPDConfig,
		},
		Paths: Paths{
			CacheFile: filepath.Join(xdgDir("XDG_CACHE_HOME", ".cache"), "mpdspl", "mpddb.json"),
			DataDir:   filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "mpdspl"),
			LogDir:    filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "mpdspl"),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// xdgDir resolves an XDG base directory, falling back to the conventional
// location under the user's home.
func xdgDir(env, fallback string) string {
	if base, ok := os.LookupEnv(env); ok && strings.TrimSpace(base) != "" {
		return base
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}
