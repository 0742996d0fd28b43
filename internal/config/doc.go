// Package config loads, normalizes, and validates mpdspl configuration.
//
// It supplies XDG-aware defaults, expands tilde shortcuts, and reads TOML
// files. Obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
