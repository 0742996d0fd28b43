// Package playlist evaluates compiled rulesets against a track set and
// persists playlist definitions across runs.
package playlist
