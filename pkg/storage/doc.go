// Package storage persists downloaded tiles with idempotent, crash-safe
// writes. A non-empty file at the destination means "already satisfied";
// new data is staged to a .part file and atomically renamed into place, so
// an observer of the output directory never sees a truncated tile.
package storage
