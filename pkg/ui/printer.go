package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"adtfetch/internal/downloader"
	"adtfetch/pkg/fetcher"
)

// Printer renders per-tile progress lines and the end-of-run summary.
// With quiet set, only failures and the summary are printed.
type Printer struct {
	out   io.Writer
	quiet bool
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, quiet bool) *Printer {
	return &Printer{out: out, quiet: quiet}
}

// Banner prints the run header before any downloads start
func (p *Printer) Banner(mode string, total int, outDir string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, bannerStyle.Render(
		fmt.Sprintf("adtfetch: %s mode, %d IDs -> %s", mode, total, outDir)))
}

// Event prints one progress line for a processed ID
func (p *Printer) Event(ev fetcher.Event) {
	prefix := indexStyle.Render(fmt.Sprintf("[%d/%d]", ev.Index, ev.Total)) +
		fmt.Sprintf(" id=%d", ev.ID)

	switch ev.Status {
	case downloader.StatusOK:
		if ev.AlreadyPresent {
			if !p.quiet {
				fmt.Fprintf(p.out, "%s %s %s\n", prefix, skipStyle.Render("skip (exists)"), ev.Name)
			}
			return
		}
		if !p.quiet {
			fmt.Fprintf(p.out, "%s %s %s (%d bytes)\n", prefix, okStyle.Render("ok ->"), ev.Name, ev.Size)
		}
	case downloader.StatusSkipped:
		if !p.quiet {
			fmt.Fprintf(p.out, "%s %s %s\n", prefix, skipStyle.Render("skip (filtered)"), ev.Name)
		}
	case downloader.StatusMissing:
		if !p.quiet {
			fmt.Fprintf(p.out, "%s %s\n", prefix, missingStyle.Render("404 (missing)"))
		}
	case downloader.StatusFailed:
		fmt.Fprintf(p.out, "%s %s %v\n", prefix, failStyle.Render("FAILED:"), ev.Err)
	}
}

// Summary prints the final counter block
func (p *Printer) Summary(c fetcher.Counters, elapsed time.Duration) {
	rows := []struct {
		label string
		value string
	}{
		{"downloaded / present", fmt.Sprintf("%d", c.OK)},
		{"skipped (non-tile)", fmt.Sprintf("%d", c.SkippedNonMatch)},
		{"missing (404)", fmt.Sprintf("%d", c.Missing)},
		{"failed", fmt.Sprintf("%d", c.Failed)},
		{"total", fmt.Sprintf("%d", c.Total())},
		{"elapsed", elapsed.Round(time.Millisecond).String()},
	}

	width := 0
	for _, r := range rows {
		if len(r.label) > width {
			width = len(r.label)
		}
	}

	var lines []string
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.label))
		lines = append(lines, fmt.Sprintf("%s%s  %s",
			summaryLabelStyle.Render(r.label), pad, summaryValueStyle.Render(r.value)))
	}

	fmt.Fprintln(p.out, summaryBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
