package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"mpdspl/internal/library"
	"mpdspl/internal/logging"
	"mpdspl/internal/playlist"
	"mpdspl/internal/trackcache"
)

// Runner regenerates playlists from the current track set. It ties together
// the cache, the playlist store, and MPD's playlist directory; commands and
// watch mode share it so a "run" means the same thing everywhere.
type Runner struct {
	Cache        *trackcache.Cache
	Store        *playlist.Store
	DatabaseFile string
	StickerFile  string
	// PlaylistDir is MPD's playlist directory. Empty disables m3u output
	// (evaluation and persistence still happen).
	PlaylistDir string
	Logger      *slog.Logger
}

// Result describes one regenerated playlist.
type Result struct {
	Name    string
	Tracks  int
	M3UPath string
}

// Summary describes one full regeneration run.
type Summary struct {
	RunID     string
	Tracks    int
	Playlists []Result
	Elapsed   time.Duration
}

// RefreshTracks returns the current track set, rebuilding the cache when
// stale or when force is set.
func (r *Runner) RefreshTracks(ctx context.Context, force bool) (library.Set, error) {
	return r.Cache.Refresh(ctx, r.DatabaseFile, r.StickerFile, force)
}

// Apply evaluates one playlist against the set, writes its m3u file, and
// saves the refreshed definition.
func (r *Runner) Apply(p *playlist.Playlist, set library.Set) (Result, error) {
	matched := p.Evaluate(set)

	result := Result{Name: p.Name, Tracks: len(matched)}
	if r.PlaylistDir != "" {
		result.M3UPath = p.M3UPath(r.PlaylistDir)
		if err := os.MkdirAll(r.PlaylistDir, 0o755); err != nil {
			return result, fmt.Errorf("create playlist directory: %w", err)
		}
		if err := os.WriteFile(result.M3UPath, []byte(p.M3U()), 0o644); err != nil {
			return result, fmt.Errorf("write m3u for %q: %w", p.Name, err)
		}
	}
	if err := r.Store.Save(p); err != nil {
		return result, err
	}
	return result, nil
}

// Run regenerates every saved playlist. Playlists whose saved rulesets no
// longer compile abort the run; nothing is silently skipped.
func (r *Runner) Run(ctx context.Context, force bool) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	logger := logging.WithComponent(r.Logger, "generate").With(logging.String("run_id", summary.RunID))

	set, err := r.RefreshTracks(ctx, force)
	if err != nil {
		return summary, err
	}
	summary.Tracks = len(set)

	playlists, err := r.Store.List()
	if err != nil {
		return summary, err
	}

	for _, p := range playlists {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, err := r.Apply(p, set)
		if err != nil {
			return summary, err
		}
		summary.Playlists = append(summary.Playlists, result)
		logger.Info("regenerated playlist",
			logging.String("playlist", result.Name),
			logging.Int("matched", result.Tracks))
	}

	summary.Elapsed = time.Since(started)
	logger.Info("run complete",
		logging.Int("tracks", summary.Tracks),
		logging.Int("playlists", len(summary.Playlists)),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// Validate reports configuration problems a run would hit immediately.
func (r *Runner) Validate() error {
	if r.Cache == nil || r.Store == nil {
		return errors.New("runner requires cache and store")
	}
	if r.DatabaseFile == "" {
		return errors.New("no MPD database file configured (set mpd.database_file or db_file in mpd.conf)")
	}
	return nil
}
