package manifest

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"adtfetch/pkg/errors"
)

// Source modes; the safety cap applies to range mode only
const (
	ModeRange    = "range"
	ModeManifest = "manifest"
)

// Source is a finite ordered ID sequence, the only shape the fetcher consumes
type Source struct {
	Mode string
	IDs  []int
}

// Range is an inclusive numeric ID range with a step
type Range struct {
	Start int
	End   int
	Step  int
}

// Validate checks the range bounds
func (r Range) Validate() error {
	if r.Start <= 0 || r.End <= 0 {
		return errors.ConfigError("range mode requires positive --start and --end")
	}
	if r.End < r.Start {
		return errors.ConfigError("range end %d is before start %d", r.End, r.Start)
	}
	if r.Step < 1 {
		return errors.ConfigError("range step must be at least 1, got %d", r.Step)
	}
	return nil
}

// IDs expands the range into its ID sequence
func (r Range) IDs() []int {
	ids := make([]int, 0, (r.End-r.Start)/r.Step+1)
	for id := r.Start; id <= r.End; id += r.Step {
		ids = append(ids, id)
	}
	return ids
}

// FromRange builds a range-mode source
func FromRange(r Range) (*Source, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Source{Mode: ModeRange, IDs: r.IDs()}, nil
}

// FromFile builds a manifest-mode source from a "<id>;<path>" listing
func FromFile(path, wantPrefix string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ConfigError("cannot open manifest %s: %v", path, err)
	}
	defer f.Close()

	ids, err := Parse(f, wantPrefix)
	if err != nil {
		return nil, err
	}
	return &Source{Mode: ModeManifest, IDs: ids}, nil
}

// Parse reads manifest records, one "<id>;<path>" per line. Blank lines and
// "#" comments are skipped, paths are lower-cased, and only records whose
// path ends in ".adt" (and carries wantPrefix, when given) are kept. Order
// is preserved.
func Parse(r io.Reader, wantPrefix string) ([]int, error) {
	wantPrefix = strings.ToLower(wantPrefix)

	var ids []int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		left, right, found := strings.Cut(line, ";")
		if !found {
			continue
		}
		path := strings.ToLower(strings.TrimSpace(right))
		if wantPrefix != "" && !strings.HasPrefix(path, wantPrefix) {
			continue
		}
		if !strings.HasSuffix(path, ".adt") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(left))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.ConfigError("reading manifest: %v", err)
	}
	return ids, nil
}
