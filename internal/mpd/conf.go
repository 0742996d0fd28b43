package mpd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
)

// Conf carries the handful of mpd.conf settings mpdspl cares about. Values
// keep mpd.conf's own key names.
type Conf struct {
	MusicDirectory    string
	DBFile            string
	StickerFile       string
	PlaylistDirectory string
}

var (
	confSkip  = regexp.MustCompile(`[#{}]`)
	confSplit = regexp.MustCompile(`\s+`)
)

// ParseConf reads an mpd.conf file. mpdUser names the account MPD runs as;
// tildes in path values expand against that user's home directory, or the
// current user's when empty.
func ParseConf(path, mpdUser string) (Conf, error) {
	file, err := os.Open(path)
	if err != nil {
		return Conf{}, fmt.Errorf("open mpd config: %w", err)
	}
	defer file.Close()

	conf, err := parseConf(file, mpdUser)
	if err != nil {
		return Conf{}, fmt.Errorf("parse mpd config %s: %w", path, err)
	}
	return conf, nil
}

// parseConf implements mpd.conf's simple line format: blank lines and any
// line containing '#', '{', or '}' are skipped (mpdspl needs no block
// settings), the rest split into key and double-quoted value on the first
// whitespace run.
func parseConf(r io.Reader, mpdUser string) (Conf, error) {
	home, err := homeFor(mpdUser)
	if err != nil {
		return Conf{}, err
	}

	values := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || confSkip.MatchString(line) {
			continue
		}
		parts := confSplit.Split(line, 2)
		if len(parts) != 2 {
			continue
		}
		key := parts[0]
		value := strings.Trim(parts[1], `"`)
		values[key] = expandTilde(value, home)
	}
	if err := scanner.Err(); err != nil {
		return Conf{}, err
	}

	return Conf{
		MusicDirectory:    values["music_directory"],
		DBFile:            values["db_file"],
		StickerFile:       values["sticker_file"],
		PlaylistDirectory: values["playlist_directory"],
	}, nil
}

func homeFor(mpdUser string) (string, error) {
	if mpdUser == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	u, err := user.Lookup(mpdUser)
	if err != nil {
		return "", fmt.Errorf("resolve home for user %q: %w", mpdUser, err)
	}
	return u.HomeDir, nil
}

func expandTilde(value, home string) string {
	if value == "~" {
		return home
	}
	if strings.HasPrefix(value, "~/") {
		return filepath.Join(home, value[2:])
	}
	return value
}
