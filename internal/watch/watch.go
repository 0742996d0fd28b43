package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"mpdspl/internal/generate"
	"mpdspl/internal/logging"
)

// ErrAlreadyRunning indicates another watcher holds the instance lock.
var ErrAlreadyRunning = errors.New("another watch instance is already running")

const defaultDebounce = 2 * time.Second

// Watcher regenerates playlists whenever MPD rewrites its database or
// sticker file. MPD replaces both files atomically (write temp, rename), so
// the watcher listens on the parent directories rather than the files
// themselves.
type Watcher struct {
	Runner   *generate.Runner
	LockFile string
	// Debounce collapses bursts of filesystem events into one run. Zero
	// means the default of two seconds.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches until ctx is cancelled. It performs one regeneration up front
// so a freshly started watcher converges immediately.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.WithComponent(w.Logger, "watch")

	lock := flock.New(w.LockFile)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release instance lock", logging.Error(err))
		}
	}()

	if err := w.Runner.Validate(); err != nil {
		return err
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer notifier.Close()

	watched, err := w.addTargets(notifier)
	if err != nil {
		return err
	}
	logger.Info("watching for library changes",
		logging.String("database", w.Runner.DatabaseFile),
		logging.String("sticker", w.Runner.StickerFile))

	if _, err := w.Runner.Run(ctx, false); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("initial regeneration failed", logging.Error(err))
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return errors.New("watch event channel closed")
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change detected",
				logging.String("path", event.Name),
				logging.String("op", event.Op.String()))
			if pending {
				if !timer.Stop() {
					<-timer.C
				}
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-notifier.Errors:
			if !ok {
				return errors.New("watch error channel closed")
			}
			logger.Warn("watch error", logging.Error(err))

		case <-timer.C:
			pending = false
			summary, err := w.Runner.Run(ctx, false)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("regeneration failed", logging.Error(err))
				continue
			}
			logger.Info("regenerated after change",
				logging.String("run_id", summary.RunID),
				logging.Int("playlists", len(summary.Playlists)))
		}
	}
}

// addTargets registers the parent directories of the database and sticker
// files and returns the set of file paths worth reacting to.
func (w *Watcher) addTargets(notifier *fsnotify.Watcher) (map[string]bool, error) {
	watched := make(map[string]bool)
	dirs := make(map[string]bool)

	for _, target := range []string{w.Runner.DatabaseFile, w.Runner.StickerFile} {
		if target == "" {
			continue
		}
		cleaned := filepath.Clean(target)
		watched[cleaned] = true
		dirs[filepath.Dir(cleaned)] = true
	}
	if len(watched) == 0 {
		return nil, errors.New("nothing to watch")
	}

	for dir := range dirs {
		if err := notifier.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}
	return watched, nil
}
