// Package mpd parses the two MPD-owned text files mpdspl reads: the server
// configuration (mpd.conf) and the plain-text track database.
package mpd
