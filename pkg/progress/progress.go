/*
Package progress draws a single self-overwriting status line while a
collection runs. It polls a Source on a ticker and never influences the
collection itself.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer
	source Source

	// State
	snapshot  collector.Progress
	startTime time.Time
	message   string
	running   bool
	hasError  bool

	// Rendering
	renderer renderer
	width    int

	// Synchronization
	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance. source may be nil, in
// which case only Update changes what is shown.
func New(config Config, source Source, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if config.Writer == nil {
		config.Writer = os.Stderr
	}

	p := &progress{
		config: config,
		log:    log,
		writer: config.Writer,
		source: source,
	}

	if p.config.Width == 0 {
		p.width = p.getTerminalWidth()
	} else {
		p.width = p.config.Width
	}

	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"width":     p.width,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.hasError = false
	p.running = true
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})

	go p.renderLoop(p.stopChan, p.doneChan)
}

func (p *progress) Update(snapshot collector.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"found": snapshot.FilesFound,
		"read":  snapshot.FilesRead,
		"item":  snapshot.CurrentPath,
	}).Trace("Updating progress")

	p.snapshot = snapshot
	p.render()
}

func (p *progress) Complete(message string) {
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Completing progress")

	p.message = message
	p.poll()
	p.snapshot.CurrentPath = ""

	if p.config.HideAfterComplete {
		p.clearLine()
		return
	}
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *progress) Error(message string) {
	p.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Error in progress")

	p.message = message
	p.hasError = true
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *progress) Stop() {
	p.log.Debug("Stopping progress")

	if p.halt() {
		p.mu.Lock()
		p.clearLine()
		p.mu.Unlock()
	}
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// halt stops the render loop and waits for it to exit. It reports whether
// a loop was running. The lock is released while waiting so a tick in
// flight can finish.
func (p *progress) halt() bool {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return false
	}
	p.running = false
	stop, done := p.stopChan, p.doneChan
	p.mu.Unlock()

	close(stop)
	<-done
	return true
}

func (p *progress) renderLoop(stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.poll()
			p.render()
			p.mu.Unlock()
		}
	}
}

// poll refreshes the snapshot from the source. Callers hold p.mu.
func (p *progress) poll() {
	if p.source != nil {
		p.snapshot = p.source.Progress()
	}
}

// render draws the current state. Callers hold p.mu.
func (p *progress) render() {
	output := p.renderer.render(p.snapshot, p.message, p.hasError, p.calculateStats())
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) getTerminalWidth() int {
	if f, ok := p.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}

	return 80
}

func (p *progress) calculateStats() Statistics {
	start := p.snapshot.StartTime
	if start.IsZero() {
		start = p.startTime
	}

	stats := Statistics{
		BytesProcessed: p.snapshot.BytesRead,
		FilesRead:      p.snapshot.FilesRead,
		FilesFound:     p.snapshot.FilesFound,
		Skipped:        p.snapshot.Skipped,
	}
	if !start.IsZero() {
		stats.ElapsedTime = time.Since(start)
	}

	if stats.FilesFound > 0 {
		stats.ProgressPercentage = float64(stats.FilesRead) / float64(stats.FilesFound) * 100
	}
	if secs := stats.ElapsedTime.Seconds(); secs > 0 {
		stats.ProcessingSpeed = float64(stats.FilesRead) / secs
	}

	return stats
}

func (p *progress) createRenderer() renderer {
	palette := newPalette(p.config.NoColor)

	switch p.config.Style {
	case StyleBar:
		return &barRenderer{
			width:     p.width,
			palette:   palette,
			showStats: p.config.ShowStats,
		}
	case StyleSpinner:
		return &spinnerRenderer{
			palette:   palette,
			showStats: p.config.ShowStats,
		}
	default:
		return &simpleRenderer{
			palette:   palette,
			showStats: p.config.ShowStats,
		}
	}
}
