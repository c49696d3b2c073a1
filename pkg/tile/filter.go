package tile

import (
	"regexp"
	"strings"
)

// tileNameRe is the accepted tile filename grammar:
// <mapname>_<row>_<col> with an optional _objN / _texN / _lod suffix.
var tileNameRe = regexp.MustCompile(
	`^(?i)(kalimdor|azeroth)_(\d+)_(\d+)(?:_(?:obj|tex)\d+|_lod)?\.adt$`,
)

// MapNames returns the known map identifiers accepted by the grammar
func MapNames() []string {
	return []string{"kalimdor", "azeroth"}
}

// Match reports whether name is a well-formed tile filename and returns
// the lower-cased map name it belongs to. Matching is case-insensitive.
func Match(name string) (string, bool) {
	m := tileNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// Accept decides whether a resolved filename is a wanted tile. When
// allowMap is non-empty the tile must belong to that map. Rejection is a
// normal, countable outcome, not an error.
func Accept(name, allowMap string) bool {
	mapName, ok := Match(name)
	if !ok {
		return false
	}
	if allowMap != "" && mapName != strings.ToLower(allowMap) {
		return false
	}
	return true
}
