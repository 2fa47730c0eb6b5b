package progress

import (
	"io"
	"time"

	"github.com/sonemaro/promptpack/pkg/collector"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleBar shows a bar of files read against files found so far
	StyleBar Style = "bar"

	// StyleSpinner shows a spinning indicator
	StyleSpinner Style = "spinner"

	// StyleSimple shows basic text progress
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum width for the progress bar (0 = auto-detect)
	Width int

	// ShowStats enables/disables additional statistics
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// HideAfterComplete removes the progress line after completion
	HideAfterComplete bool

	// Writer receives the rendered output. Defaults to os.Stderr.
	Writer io.Writer
}

// Source supplies collection progress. collector.Collector satisfies it.
type Source interface {
	Progress() collector.Progress
}

// Statistics is derived from a progress snapshot at render time
type Statistics struct {
	ElapsedTime time.Duration

	// ProgressPercentage is files read over files found so far. The total
	// grows while the walk runs, so the value can move backwards.
	ProgressPercentage float64

	// ProcessingSpeed is files read per second
	ProcessingSpeed float64

	BytesProcessed int64
	FilesRead      int64
	FilesFound     int64
	Skipped        int64
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization with initial message
	Start(message string)

	// Update renders snapshot immediately
	Update(snapshot collector.Progress)

	// Complete marks the operation as successfully completed
	Complete(message string)

	// Error marks the operation as failed
	Error(message string)

	// Stop stops progress visualization and clears the line
	Stop()

	// IsSupportedTerminal checks if the writer is a terminal
	IsSupportedTerminal() bool
}
