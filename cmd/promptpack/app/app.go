/*
Package app wires the promptpack components together for one run: it builds
the ignore rules, collects the project, renders the document and delivers it.

The application container owns:
- Logger for structured logging
- Collector for the walk and the concurrent reads
- Progress visualization on stderr
- Output formatting and delivery

Usage:

	a := app.New(cfg, app.Env{})
	defer a.Shutdown()

	if err := a.Run(dir); err != nil {
	    os.Exit(1)
	}
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"

	"github.com/sonemaro/promptpack/internal/config"
	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/delivery"
	"github.com/sonemaro/promptpack/pkg/ignore"
	"github.com/sonemaro/promptpack/pkg/logger"
	"github.com/sonemaro/promptpack/pkg/output"
	"github.com/sonemaro/promptpack/pkg/progress"
	"github.com/sonemaro/promptpack/pkg/util"
	"github.com/spf13/afero"
)

// Env supplies the process-level dependencies of an App. Zero fields fall
// back to the real filesystem, the system clipboard and os.Stderr.
type Env struct {
	Fs        afero.Fs
	Clipboard delivery.Clipboard
	Stderr    io.Writer
	Logger    logger.Logger

	// Signals enables SIGINT/SIGTERM handling
	Signals bool
}

// App represents the main application container
type App struct {
	config config.Config
	log    logger.Logger
	fs     afero.Fs
	clip   delivery.Clipboard
	stderr io.Writer
	report *reporter

	ctx         context.Context
	cancel      context.CancelFunc
	stopSignals func()
	mu          sync.Mutex
	closed      bool
}

// New creates a new application instance
func New(cfg config.Config, env Env) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config:      cfg,
		fs:          env.Fs,
		clip:        env.Clipboard,
		stderr:      env.Stderr,
		log:         env.Logger,
		ctx:         ctx,
		cancel:      cancel,
		stopSignals: func() {},
	}

	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.clip == nil {
		a.clip = delivery.SystemClipboard{}
	}
	if a.stderr == nil {
		a.stderr = os.Stderr
	}

	a.initLogger()
	a.report = newReporter(a.stderr, cfg.NoColor)

	if env.Signals {
		a.setupSignalHandling()
	}

	a.log.WithFields(logger.Fields{
		"config": cfg.String(),
	}).Info("Application initialized")

	return a
}

// Run collects dir and delivers the rendered document. Failures that have
// a user notice are returned wrapped so IsReported recognises them.
func (a *App) Run(dir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logger.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}

	if info, statErr := a.fs.Stat(root); statErr != nil || !info.IsDir() {
		a.report.directoryNotFound(root)
		return reported(&collector.DirectoryNotFoundError{Path: root, Err: statErr})
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}

	outPath, err := filepath.Abs(a.config.Output)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path":      root,
		"output":    outPath,
		"format":    format,
		"clipboard": a.config.Clipboard,
	}).Info("Starting run")

	rules := a.buildRules(root)

	a.report.scanning()

	c := collector.New(collector.Config{
		Workers:          a.config.Workers,
		RateLimit:        a.config.RateLimit,
		MaxSize:          a.config.MaxSize,
		Extensions:       a.config.Extensions,
		BinaryExtensions: config.BinaryExtensions(),
		OutputPath:       outPath,
	}, rules, a.fs, a.log)

	prog := a.newProgress(c)
	if prog != nil {
		prog.Start("Collecting")
	}

	result, err := c.Collect(a.ctx, root)
	if err != nil {
		if prog != nil {
			prog.Error("Collection failed")
		}
		var notFound *collector.DirectoryNotFoundError
		if errors.As(err, &notFound) {
			a.report.directoryNotFound(notFound.Path)
			return reported(err)
		}
		return fmt.Errorf("collection failed: %w", err)
	}
	if prog != nil {
		prog.Complete("Collection complete")
	}

	a.report.skipped(result.Skipped, a.config.MaxSize)
	a.report.collected(len(result.Files))

	doc, err := output.NewFormatter(output.Config{
		Format:  format,
		Project: filepath.Base(root),
	}, a.log).Format(result)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}

	outcome, err := delivery.New(a.fs, a.clip, a.log).Deliver(doc, delivery.Options{
		Clipboard:  a.config.Clipboard,
		OutputPath: outPath,
	})
	a.report.delivered(outcome, a.config.Output)
	if err != nil {
		a.report.writeFailed(errors.Unwrap(err))
		return reported(err)
	}

	a.log.WithFields(logger.Fields{
		"files":    len(result.Files),
		"skipped":  len(result.Skipped),
		"read":     util.FormatSize(result.Stats.BytesRead),
		"document": util.FormatSize(int64(len(doc))),
		"duration": result.Stats.Duration,
	}).Info("Run completed")

	return nil
}

// Shutdown releases the signal handler and cancels any run in progress.
// It is safe to call more than once.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	a.log.Debug("Shutting down")
	a.cancel()
	a.stopSignals()

	return nil
}

func (a *App) initLogger() {
	if a.log != nil {
		return
	}

	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
		Format:    logger.FormatConsole,
		Output:    a.stderr,
	})

	a.log.WithFields(logger.Fields{
		"verbosity": a.config.Verbose,
	}).Debug("Logger initialized")
}

// buildRules assembles the ignore sources in override order.
func (a *App) buildRules(root string) *ignore.RuleSet {
	var sources ignore.Sources

	if !a.config.NoDefaults {
		sources.Defaults = config.DefaultPatterns()
	}

	if !a.config.NoGitignore {
		lines, err := ignore.ReadGitignore(a.fs, root)
		if err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Ignoring unreadable .gitignore")
		}
		sources.Gitignore = lines
	}

	sources.Excludes = a.config.Excludes

	rules := sources.RuleSet()

	a.log.WithFields(logger.Fields{
		"defaults":  len(sources.Defaults),
		"gitignore": len(sources.Gitignore),
		"excludes":  len(sources.Excludes),
		"rules":     rules.Len(),
	}).Debug("Ignore rules built")

	return rules
}

// newProgress returns nil when progress is disabled or stderr is not a
// terminal.
func (a *App) newProgress(src progress.Source) progress.Progress {
	if a.config.NoProgress || !isTerminal(a.stderr) {
		return nil
	}

	return progress.New(progress.Config{
		Style:             progress.StyleBar,
		ShowStats:         a.config.Verbose > 0,
		NoColor:           a.config.NoColor,
		HideAfterComplete: true,
		Writer:            a.stderr,
	}, src, a.log)
}
