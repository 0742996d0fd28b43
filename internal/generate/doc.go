// Package generate drives one regeneration pass: refresh the track cache,
// evaluate every saved playlist, and write the m3u files MPD reads.
package generate
