// Package tile resolves and validates ADT tile filenames.
//
// The server names a downloaded asset through its Content-Disposition
// header; that value is untrusted, so resolution always ends with a
// sanitization step that strips directory components before the name is
// allowed anywhere near the filesystem. The acceptance filter then decides
// whether the resolved name is actually a map tile we want to keep.
package tile
