// Package watch keeps playlists in sync with a running MPD instance by
// regenerating them whenever the database or sticker file changes.
package watch
