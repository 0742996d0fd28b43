package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mpdspl/internal/config"
	"mpdspl/internal/generate"
	"mpdspl/internal/logging"
	"mpdspl/internal/mpd"
	"mpdspl/internal/playlist"
	"mpdspl/internal/rules"
	"mpdspl/internal/trackcache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	runnerOnce sync.Once
	runner     *generate.Runner
	runnerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFile(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		}, cfg.Paths.LogDir, "mpdspl.log")
	})
	return c.logger, c.loggerErr
}

// ruleOptions returns the compile options every command shares.
func (c *commandContext) ruleOptions() (rules.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return rules.Options{}, err
	}
	return rules.Options{SubDaySpans: cfg.Rules.SubDaySpans}, nil
}

func (c *commandContext) store() (*playlist.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts, err := c.ruleOptions()
	if err != nil {
		return nil, err
	}
	return playlist.NewStore(cfg.Paths.DataDir, opts), nil
}

// ensureRunner wires config, mpd.conf, cache, and store into one regeneration
// runner. Explicit config values win; anything left empty comes from mpd.conf.
func (c *commandContext) ensureRunner() (*generate.Runner, error) {
	c.runnerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runnerErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.runnerErr = err
			return
		}
		store, err := c.store()
		if err != nil {
			c.runnerErr = err
			return
		}

		database := cfg.MPD.DatabaseFile
		stickerFile := cfg.MPD.StickerFile
		playlistDir := cfg.MPD.PlaylistDir
		if database == "" || stickerFile == "" || playlistDir == "" {
			conf, err := mpd.ParseConf(cfg.MPD.ConfigPath, cfg.MPD.User)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				c.runnerErr = err
				return
			}
			if database == "" {
				database = conf.DBFile
			}
			if stickerFile == "" {
				stickerFile = conf.StickerFile
			}
			if playlistDir == "" {
				playlistDir = conf.PlaylistDirectory
			}
		}

		runner := &generate.Runner{
			Cache:        trackcache.New(cfg.Paths.CacheFile, logger),
			Store:        store,
			DatabaseFile: database,
			StickerFile:  stickerFile,
			PlaylistDir:  playlistDir,
			Logger:       logger,
		}
		if err := runner.Validate(); err != nil {
			c.runnerErr = err
			return
		}
		c.runner = runner
	})
	return c.runner, c.runnerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
