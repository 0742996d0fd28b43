package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"mpdspl/internal/generate"
	"mpdspl/internal/logging"
	"mpdspl/internal/playlist"
	"mpdspl/internal/rules"
	"mpdspl/internal/testsupport"
	"mpdspl/internal/trackcache"
	"mpdspl/internal/watch"
)

func newWatcher(t *testing.T) (*watch.Watcher, string) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	testsupport.WriteDatabase(t, cfg.MPD.DatabaseFile,
		testsupport.Track("a/one.mp3", "Fred", "One"),
	)

	runner := &generate.Runner{
		Cache:        trackcache.New(cfg.Paths.CacheFile, logging.NewNop()),
		Store:        playlist.NewStore(cfg.Paths.DataDir, rules.Options{}),
		DatabaseFile: cfg.MPD.DatabaseFile,
		PlaylistDir:  cfg.MPD.PlaylistDir,
		Logger:       logging.NewNop(),
	}
	return &watch.Watcher{
		Runner:   runner,
		LockFile: filepath.Join(cfg.Paths.LogDir, "watch.lock"),
		Debounce: 50 * time.Millisecond,
		Logger:   logging.NewNop(),
	}, cfg.MPD.DatabaseFile
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return check()
}

func TestRunRegeneratesOnDatabaseChange(t *testing.T) {
	watcher, dbFile := newWatcher(t)

	if err := os.MkdirAll(filepath.Dir(watcher.LockFile), 0o755); err != nil {
		t.Fatalf("mkdir lock dir: %v", err)
	}

	p, err := playlist.New("fred", `ar=/Fred/`, rules.Options{})
	if err != nil {
		t.Fatalf("playlist.New: %v", err)
	}
	if err := watcher.Runner.Store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	m3u := filepath.Join(watcher.Runner.PlaylistDir, "fred.m3u")
	if !waitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(m3u)
		return err == nil && string(data) == "a/one.mp3\n"
	}) {
		t.Fatal("initial regeneration never produced the m3u")
	}

	// Rewrite the database the way MPD does: temp file plus rename.
	tmp := dbFile + ".new"
	testsupport.WriteDatabase(t, tmp,
		testsupport.Track("a/one.mp3", "Fred", "One"),
		testsupport.Track("b/two.mp3", "Fred", "Two"),
	)
	if err := os.Rename(tmp, dbFile); err != nil {
		t.Fatalf("rename database: %v", err)
	}

	if !waitFor(t, 5*time.Second, func() bool {
		data, err := os.ReadFile(m3u)
		return err == nil && string(data) == "a/one.mp3\nb/two.mp3\n"
	}) {
		t.Fatal("change was never picked up")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	watcher, _ := newWatcher(t)

	if err := os.MkdirAll(filepath.Dir(watcher.LockFile), 0o755); err != nil {
		t.Fatalf("mkdir lock dir: %v", err)
	}
	holder := flock.New(watcher.LockFile)
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	err = watcher.Run(context.Background())
	if !errors.Is(err, watch.ErrAlreadyRunning) {
		t.Fatalf("Run returned %v, want ErrAlreadyRunning", err)
	}
}
