package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mpdspl/internal/library"
	"mpdspl/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dbFile     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dbFile:     filepath.Join(base, "mpd.db"),
	}

	testsupport.WriteDatabase(t, env.dbFile,
		testsupport.Track("fred/song.mp3", "Fred", "The Later Song and More"),
		library.Track{
			File:   "george/tune.mp3",
			Key:    "tune.mp3",
			Artist: "George",
			Title:  "Quiet",
			MTime:  "1700000000",
		},
		testsupport.Track("misc/other.mp3", "Nobody", "Filler"),
	)

	content := fmt.Sprintf(
		"[mpd]\nconfig_path = %q\ndatabase_file = %q\nplaylist_dir = %q\n\n"+
			"[paths]\ncache_file = %q\ndata_dir = %q\nlog_dir = %q\n",
		filepath.Join(base, "mpd.conf"),
		env.dbFile,
		filepath.Join(base, "playlists"),
		filepath.Join(base, "cache", "mpddb.json"),
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLICreateListShowRemove(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "create", "brothers", `ar=/(Fred|George)/`)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(stdout, `Created playlist "brothers" with 2 tracks`) {
		t.Fatalf("create output: %q", stdout)
	}

	m3u := filepath.Join(env.baseDir, "playlists", "brothers.m3u")
	data, err := os.ReadFile(m3u)
	if err != nil {
		t.Fatalf("read m3u: %v", err)
	}
	if want := "fred/song.mp3\ngeorge/tune.mp3\n"; string(data) != want {
		t.Fatalf("m3u: got %q want %q", data, want)
	}

	stdout, _, err = runCLI(t, env.configPath, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(stdout, "brothers") {
		t.Fatalf("list output missing playlist: %q", stdout)
	}

	stdout, _, err = runCLI(t, env.configPath, "show", "brothers", "--tracks")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Playlist: brothers", "fred/song.mp3", "george/tune.mp3"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("show output missing %q: %q", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, env.configPath, "remove", "brothers")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(stdout, `Removed playlist "brothers"`) {
		t.Fatalf("remove output: %q", stdout)
	}
	if _, err := os.Stat(m3u); !os.IsNotExist(err) {
		t.Fatalf("expected m3u deleted, stat err=%v", err)
	}

	_, _, err = runCLI(t, env.configPath, "show", "brothers")
	if err == nil {
		t.Fatal("expected error showing a removed playlist")
	}
}

func TestCLIEvalPrintsPathsOnly(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "eval", `ar=/Fred/`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if stdout != "fred/song.mp3\n" {
		t.Fatalf("eval output: %q", stdout)
	}

	// Negated rule inverts the match set.
	stdout, _, err = runCLI(t, env.configPath, "eval", `ar=/Fred/n`)
	if err != nil {
		t.Fatalf("eval negated: %v", err)
	}
	if strings.Contains(stdout, "fred/song.mp3") {
		t.Fatalf("negated eval still matched: %q", stdout)
	}
	for _, want := range []string{"george/tune.mp3", "misc/other.mp3"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("negated eval missing %q: %q", want, stdout)
		}
	}
}

func TestCLIEvalRejectsBadRule(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "eval", "zz=/x/")
	if err == nil {
		t.Fatal("expected error for unknown field code")
	}
}

func TestCLIUpdateWithoutPlaylists(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "update")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(stdout, "nothing to regenerate") {
		t.Fatalf("update output: %q", stdout)
	}
}

func TestCLIFieldsListsAllCodes(t *testing.T) {
	stdout, _, err := runCLI(t, "", "fields")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	for _, code := range []string{"ar", "al", "ti", "tn", "ge", "ye", "le", "fp", "fn", "mt", "ra"} {
		if !strings.Contains(stdout, code) {
			t.Fatalf("fields output missing %q: %q", code, stdout)
		}
	}
}
