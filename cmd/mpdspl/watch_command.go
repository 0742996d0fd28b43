package main

import (
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mpdspl/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate playlists whenever the MPD database changes",
		Long: "Watch runs until interrupted. It regenerates all saved playlists once " +
			"at startup and again each time MPD rewrites its database or sticker file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := &watch.Watcher{
				Runner:   runner,
				LockFile: filepath.Join(cfg.Paths.LogDir, "watch.lock"),
				Debounce: debounce,
				Logger:   logger,
			}
			return watcher.Run(runCtx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "How long to wait after a change before regenerating")
	return cmd
}
