package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/util"
)

type renderer interface {
	render(snapshot collector.Progress, message string, failed bool, stats Statistics) string
}

// palette holds the colours used by the renderers.
type palette struct {
	ok      *color.Color
	fail    *color.Color
	accent  *color.Color
	subtle  *color.Color
	noColor bool
}

func newPalette(noColor bool) palette {
	p := palette{
		ok:      color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		accent:  color.New(color.FgCyan),
		subtle:  color.New(color.Faint),
		noColor: noColor,
	}
	for _, c := range []*color.Color{p.ok, p.fail, p.accent, p.subtle} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return p
}

func (p palette) message(message string, failed bool) string {
	if failed {
		return p.fail.Sprint(message)
	}
	return message
}

type barRenderer struct {
	width     int
	palette   palette
	showStats bool
}

func (r *barRenderer) render(snapshot collector.Progress, message string, failed bool, stats Statistics) string {
	var output strings.Builder

	if message != "" {
		output.WriteString(r.palette.message(message, failed))
		output.WriteString(" ")
	}

	barWidth := r.width/3 - 2
	if barWidth < 10 {
		barWidth = 10
	}

	ratio := stats.ProgressPercentage / 100
	if ratio > 1 {
		ratio = 1
	}

	filled := int(float64(barWidth) * ratio)
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}

	output.WriteString("[")
	output.WriteString(r.palette.ok.Sprint(bar))
	output.WriteString("]")
	fmt.Fprintf(&output, " %3.0f%% %d/%d", ratio*100, stats.FilesRead, stats.FilesFound)

	if r.showStats {
		fmt.Fprintf(&output, " | %.1f/s | %s",
			stats.ProcessingSpeed,
			formatDuration(stats.ElapsedTime))
	}

	return fitLine(output.String(), snapshot.CurrentPath, r.width, r.palette)
}

type spinnerRenderer struct {
	palette   palette
	showStats bool
	frame     int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(snapshot collector.Progress, message string, failed bool, stats Statistics) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)

	var output strings.Builder
	output.WriteString(r.palette.accent.Sprint(spinnerFrames[r.frame]))
	output.WriteString(" ")
	output.WriteString(r.palette.message(message, failed))
	fmt.Fprintf(&output, " %d files", stats.FilesRead)

	if r.showStats {
		fmt.Fprintf(&output, " | %d skipped | %s", stats.Skipped, util.FormatSize(stats.BytesProcessed))
	}

	return fitLine(output.String(), snapshot.CurrentPath, 0, r.palette)
}

type simpleRenderer struct {
	palette   palette
	showStats bool
}

func (r *simpleRenderer) render(snapshot collector.Progress, message string, failed bool, stats Statistics) string {
	var output strings.Builder

	fmt.Fprintf(&output, "%s (%d/%d)", r.palette.message(message, failed), stats.FilesRead, stats.FilesFound)

	if r.showStats {
		fmt.Fprintf(&output, " | %s", util.FormatSize(stats.BytesProcessed))
	}

	return output.String()
}

// fitLine appends the current path to line, shortened from the left so the
// result stays within width visible columns. A width of 0 means unlimited.
func fitLine(line, current string, width int, p palette) string {
	if current == "" {
		return line
	}

	if width > 0 {
		room := width - visibleLen(line) - 2
		if room < 8 {
			return line
		}
		current = shortenPath(current, room)
	}

	return line + " " + p.subtle.Sprint(current)
}

func shortenPath(path string, max int) string {
	runes := []rune(path)
	if len(runes) <= max {
		return path
	}
	return "..." + string(runes[len(runes)-(max-3):])
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
