// Package store holds the live dashboard snapshot and replaces it
// atomically on reload. Request handlers read through Current and never
// observe a half-updated document; the watcher drives Reload, which is
// serialized and keeps the previous snapshot on any load failure.
package store
