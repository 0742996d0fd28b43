// Package logging builds the slog loggers mpdspl uses: a compact console
// handler for interactive runs, a JSON handler for machine consumption, and
// small helpers for typed attributes and component tagging.
package logging
