package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adtfetch/internal/downloader"
	"adtfetch/pkg/fetcher"
)

func TestPrinterEventLines(t *testing.T) {
	tests := []struct {
		name string
		ev   fetcher.Event
		want []string
	}{
		{
			name: "written tile",
			ev: fetcher.Event{
				Index: 1, Total: 3, ID: 780788,
				Status: downloader.StatusOK, Name: "azeroth_32_48.adt", Size: 1024,
			},
			want: []string{"[1/3]", "id=780788", "ok ->", "azeroth_32_48.adt", "1024 bytes"},
		},
		{
			name: "already present",
			ev: fetcher.Event{
				Index: 2, Total: 3, ID: 780789,
				Status: downloader.StatusOK, Name: "azeroth_32_49.adt", AlreadyPresent: true,
			},
			want: []string{"skip (exists)", "azeroth_32_49.adt"},
		},
		{
			name: "filtered name",
			ev: fetcher.Event{
				Index: 3, Total: 3, ID: 780790,
				Status: downloader.StatusSkipped, Name: "interface.blp",
			},
			want: []string{"skip (filtered)", "interface.blp"},
		},
		{
			name: "missing",
			ev: fetcher.Event{
				Index: 1, Total: 1, ID: 99,
				Status: downloader.StatusMissing,
			},
			want: []string{"404 (missing)"},
		},
		{
			name: "failure",
			ev: fetcher.Event{
				Index: 1, Total: 1, ID: 7,
				Status: downloader.StatusFailed, Err: errors.New("connection reset"),
			},
			want: []string{"FAILED:", "connection reset"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, false).Event(tt.ev)
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestPrinterQuietSuppressesAllButFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true)

	p.Banner("range", 10, "adts_out")
	p.Event(fetcher.Event{Index: 1, Total: 2, ID: 1, Status: downloader.StatusOK, Name: "azeroth_0_0.adt"})
	p.Event(fetcher.Event{Index: 2, Total: 2, ID: 2, Status: downloader.StatusMissing})
	assert.Empty(t, buf.String())

	p.Event(fetcher.Event{Index: 2, Total: 2, ID: 2, Status: downloader.StatusFailed, Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "FAILED:")
}

func TestPrinterBanner(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Banner("manifest", 42, "out")

	assert.Contains(t, buf.String(), "manifest mode")
	assert.Contains(t, buf.String(), "42 IDs")
	assert.Contains(t, buf.String(), "out")
}

func TestPrinterSummary(t *testing.T) {
	var buf bytes.Buffer
	c := fetcher.Counters{OK: 5, SkippedNonMatch: 2, Missing: 1, Failed: 1}
	NewPrinter(&buf, false).Summary(c, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "downloaded / present")
	assert.Contains(t, out, "5")
	assert.Contains(t, out, "missing (404)")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "9")
	assert.Contains(t, out, "1.5s")
}
