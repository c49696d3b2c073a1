package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"adtfetch/pkg/errors"
)

// StagingSuffix marks in-progress writes. Leftover staging files from an
// aborted process are safely removable garbage.
const StagingSuffix = ".part"

// Outcome describes the result of a write attempt
type Outcome int

const (
	// Written means the tile was persisted to its final path
	Written Outcome = iota
	// AlreadyPresent means a non-empty file already occupied the destination
	AlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case AlreadyPresent:
		return "already_present"
	default:
		return "unknown"
	}
}

// Writer persists tiles into a flat output directory using a stage-then-rename
// protocol, so the destination path only ever holds complete files.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer, creating the output directory if needed
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.IOError(fmt.Sprintf("create output directory %s", outputDir), err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// OutputDir returns the output directory path
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// Path returns the final destination path for a tile name
func (w *Writer) Path(name string) string {
	return filepath.Join(w.outputDir, name)
}

// WriteIfAbsent persists data under name unless a non-empty file already
// exists there. The existing file's content is trusted as-is and not
// re-validated against data. An empty body is refused so a zero-byte
// placeholder can never shadow a real tile.
func (w *Writer) WriteIfAbsent(name string, data []byte) (Outcome, error) {
	dest := w.Path(name)

	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		return AlreadyPresent, nil
	}

	if len(data) == 0 {
		return 0, errors.EmptyBodyError()
	}

	staging := dest + StagingSuffix
	if err := os.WriteFile(staging, data, 0644); err != nil {
		os.Remove(staging)
		return 0, errors.IOError(fmt.Sprintf("write staging file for %s", name), err)
	}

	if err := os.Rename(staging, dest); err != nil {
		os.Remove(staging)
		return 0, errors.IOError(fmt.Sprintf("promote %s", name), err)
	}

	return Written, nil
}

// CleanStaging removes leftover staging files from prior aborted runs.
// Returns the number of files removed.
func (w *Writer) CleanStaging() (int, error) {
	entries, err := os.ReadDir(w.outputDir)
	if err != nil {
		return 0, errors.IOError("read output directory", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), StagingSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(w.outputDir, entry.Name())); err != nil {
			return removed, errors.IOError(fmt.Sprintf("remove staging file %s", entry.Name()), err)
		}
		removed++
	}
	return removed, nil
}
