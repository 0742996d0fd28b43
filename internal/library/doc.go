// Package library defines the in-memory track model shared by the database
// parser, the sticker reader, the cache, and rule evaluation.
package library
