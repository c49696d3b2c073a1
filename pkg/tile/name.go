package tile

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Content-Disposition filename parameters, in priority order:
// the RFC 5987 extended form, then the quoted form, then the bare form.
var (
	extendedFilenameRe = regexp.MustCompile(`(?i)filename\*\s*=\s*UTF-8''([^;]+)`)
	quotedFilenameRe   = regexp.MustCompile(`(?i)filename\s*=\s*"([^"]+)"`)
	bareFilenameRe     = regexp.MustCompile(`(?i)filename\s*=\s*([^;]+)`)
)

// FilenameFromContentDisposition extracts the filename parameter from a
// Content-Disposition header value. Returns "" when no form matches.
func FilenameFromContentDisposition(cd string) string {
	if cd == "" {
		return ""
	}

	if m := extendedFilenameRe.FindStringSubmatch(cd); m != nil {
		if decoded, err := url.PathUnescape(m[1]); err == nil {
			return decoded
		}
		return m[1]
	}

	if m := quotedFilenameRe.FindStringSubmatch(cd); m != nil {
		return m[1]
	}

	if m := bareFilenameRe.FindStringSubmatch(cd); m != nil {
		return strings.TrimSpace(m[1])
	}

	return ""
}

// SafeBaseName strips directory components from a server-provided name.
// The value originates from an untrusted response, so both separator
// conventions count and anything left over is neutralized.
func SafeBaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, `\`, "_")
	return name
}

// Resolve derives a traversal-safe base filename from response headers,
// falling back to "<id>.bin" when the server did not provide a usable name.
// It never fails; the result is always non-empty.
func Resolve(header http.Header, fallbackID int) string {
	name := SafeBaseName(FilenameFromContentDisposition(contentDisposition(header)))
	if name == "" {
		name = fmt.Sprintf("%d.bin", fallbackID)
	}
	return name
}

// contentDisposition finds the Content-Disposition value regardless of how
// the key was cased when it entered the header map. Header.Get only matches
// the canonical MIME key, which misses entries inserted directly.
func contentDisposition(header http.Header) string {
	if cd := header.Get("Content-Disposition"); cd != "" {
		return cd
	}
	for key, values := range header {
		if strings.EqualFold(key, "Content-Disposition") && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// NormalizeMapCase rewrites the leading map-name prefix casing. Purely
// cosmetic for output filenames; acceptance matching stays case-insensitive.
// Modes: "as-is" (identity), "capitalize" (kalimdor_ -> Kalimdor_),
// "lower" (Kalimdor_ -> kalimdor_).
func NormalizeMapCase(name, mode string) string {
	switch mode {
	case "capitalize":
		for _, m := range MapNames() {
			prefix := m + "_"
			if strings.HasPrefix(name, prefix) {
				return strings.ToUpper(m[:1]) + name[1:]
			}
		}
	case "lower":
		for _, m := range MapNames() {
			prefix := strings.ToUpper(m[:1]) + m[1:] + "_"
			if strings.HasPrefix(name, prefix) {
				return m + name[len(m):]
			}
		}
	}
	return name
}
