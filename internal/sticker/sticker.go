package sticker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"mpdspl/internal/library"
	"mpdspl/internal/logging"
)

// Apply reads song ratings from MPD's sticker database and merges them into
// matching tracks. Stickers for paths outside the set are ignored, as are
// sticker types other than song ratings.
func Apply(ctx context.Context, path string, set library.Set, logger *slog.Logger) error {
	logger = logging.WithComponent(logger, "sticker")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sticker db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(
		ctx,
		`SELECT uri, value FROM sticker WHERE type = ? AND name = ?`,
		"song", "rating",
	)
	if err != nil {
		return fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	applied := 0
	for rows.Next() {
		var uri, value string
		if err := rows.Scan(&uri, &value); err != nil {
			return fmt.Errorf("scan rating: %w", err)
		}
		track, ok := set[uri]
		if !ok {
			continue
		}
		track.Rating = value
		set[uri] = track
		applied++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ratings: %w", err)
	}

	logger.Debug("applied ratings", logging.Int("count", applied), logging.String("path", path))
	return nil
}
