package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/delivery"
)

// reporter prints the user-facing notices. They are separate from the
// structured log and always shown.
type reporter struct {
	w       io.Writer
	subtle  *color.Color
	success *color.Color
	failure *color.Color
}

func newReporter(w io.Writer, noColor bool) *reporter {
	r := &reporter{
		w:       w,
		subtle:  color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
	}

	useColor := !noColor && isTerminal(w)
	for _, c := range []*color.Color{r.subtle, r.success, r.failure} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *reporter) scanning() {
	fmt.Fprintln(r.w, "Scanning project and collecting files...")
}

// skipped prints the binary and oversized skips. Other skips are silent.
func (r *reporter) skipped(skips []collector.Skip, maxSize int64) {
	for _, s := range skips {
		switch s.Reason {
		case collector.SkipBinary:
			r.subtle.Fprintf(r.w, "  - Skipping binary file: %s\n", s.Path)
		case collector.SkipTooLarge:
			r.subtle.Fprintf(r.w, "  - Skipping large file: %s (> %d bytes)\n", s.Path, maxSize)
		}
	}
}

func (r *reporter) collected(n int) {
	fmt.Fprintf(r.w, "Collected %d files.\n", n)
}

// delivered reports the outcome. shown is the output path as the user gave it.
func (r *reporter) delivered(outcome delivery.Outcome, shown string) {
	if outcome.FallbackErr != nil {
		reason := "no clipboard mechanism is available on this system."
		if !errors.Is(outcome.FallbackErr, delivery.ErrClipboardUnavailable) {
			reason = outcome.FallbackErr.Error() + "."
		}
		r.failure.Fprintf(r.w, "\nError: Could not copy to clipboard: %s\n", reason)
		fmt.Fprintln(r.w, "Writing to file instead.")
	}

	if outcome.Clipboard {
		r.success.Fprintln(r.w, "\nOutput successfully copied to clipboard.")
		return
	}
	if outcome.Path != "" {
		r.success.Fprintf(r.w, "\nSuccessfully generated '%s'.\n", shown)
	}
}

func (r *reporter) writeFailed(err error) {
	r.failure.Fprintf(r.w, "Error writing to output file: %v\n", err)
}

func (r *reporter) directoryNotFound(path string) {
	r.failure.Fprintf(r.w, "Error: Directory not found at '%s'\n", path)
}
