// Package sticker reads track ratings from MPD's sticker database, the
// SQLite side-store MPD clients write ratings into.
package sticker
