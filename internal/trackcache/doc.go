// Package trackcache persists the parsed track set between runs and decides
// when the MPD database and sticker files have made it stale.
package trackcache
