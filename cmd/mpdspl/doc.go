// Command mpdspl manages rule-based smart playlists for MPD.
package main
