/*
Package collector walks a directory tree, filters entries through an ignore
rule set and a file classifier, and reads the surviving text files
concurrently.

The walk itself is single-threaded. Ignored directories are pruned as soon as
they are seen, so nothing below them is ever visited. Eligible files are
handed to a worker pool that reads them in parallel; results are sorted by
path before they are returned, so the output does not depend on scheduling.

Basic usage:

	rules := ignore.NewRuleSet(config.DefaultPatterns())

	c := collector.New(collector.Config{
		Workers:          4,
		MaxSize:          1 << 20,
		BinaryExtensions: config.BinaryExtensions(),
	}, rules, afero.NewOsFs(), log)

	result, err := c.Collect(ctx, "/path/to/project")
*/
package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sonemaro/promptpack/pkg/ignore"
	"github.com/sonemaro/promptpack/pkg/logger"
	"github.com/sonemaro/promptpack/pkg/worker"
	"github.com/spf13/afero"
)

// Collector defines the interface for file collection
type Collector interface {
	// Collect walks root and returns every collected file sorted by path.
	// It returns *DirectoryNotFoundError when root is not a directory.
	Collect(ctx context.Context, root string) (Result, error)

	// Progress returns the current collection progress
	Progress() Progress
}

// collector implements the Collector interface
type collector struct {
	config   Config
	rules    *ignore.RuleSet
	fs       afero.Fs
	log      logger.Logger
	classify *classifier
	stats    counters

	mu        sync.Mutex
	startTime time.Time
}

// New creates a collector. A nil rule set ignores nothing.
func New(config Config, rules *ignore.RuleSet, fs afero.Fs, log logger.Logger) Collector {
	if rules == nil {
		rules = ignore.NewRuleSet(nil)
	}
	if config.OutputPath != "" {
		config.OutputPath = filepath.Clean(config.OutputPath)
	}

	c := &collector{
		config:   config,
		rules:    rules,
		fs:       fs,
		log:      log,
		classify: newClassifier(config, fs),
	}
	c.stats.reset()

	return c
}

// walkState is the per-call state of a single Collect.
type walkState struct {
	root    string
	pool    worker.Pool
	skipped []Skip
	nextID  int
}

func (c *collector) Collect(ctx context.Context, root string) (Result, error) {
	if c.config.Workers <= 0 {
		return Result{}, fmt.Errorf("invalid configuration: workers count must be positive")
	}

	root = filepath.Clean(root)

	info, err := c.fs.Stat(root)
	if err != nil || !info.IsDir() {
		c.log.WithFields(logger.Fields{
			"path":  root,
			"error": err,
		}).Error("Root directory not found")
		return Result{}, &DirectoryNotFoundError{Path: root, Err: err}
	}

	c.stats.reset()
	c.mu.Lock()
	c.startTime = time.Now()
	startTime := c.startTime
	c.mu.Unlock()

	c.log.WithFields(logger.Fields{
		"path":       root,
		"workers":    c.config.Workers,
		"rateLimit":  c.config.RateLimit,
		"maxSize":    c.config.MaxSize,
		"rules":      c.rules.Len(),
		"extensions": c.config.Extensions,
	}).Info("Starting collection")

	pool, err := worker.NewPool(worker.Config{
		Workers:   c.config.Workers,
		RateLimit: c.config.RateLimit,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create worker pool: %w", err)
	}
	if err := pool.Start(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to start worker pool: %w", err)
	}
	defer func() {
		if err := pool.Stop(); err != nil {
			c.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	state := &walkState{root: root, pool: pool}

	if err := c.visit(ctx, state, root, ""); err != nil {
		c.log.WithFields(logger.Fields{
			"error": err,
		}).Warn("Collection interrupted")
		return Result{}, err
	}

	workerResults, err := pool.Wait()
	if err != nil {
		return Result{}, fmt.Errorf("error waiting for readers: %w", err)
	}

	result := Result{
		Root:    root,
		Files:   make([]File, 0, len(workerResults)),
		Skipped: state.skipped,
	}
	for _, wr := range workerResults {
		if f, ok := wr.Data.(File); ok {
			result.Files = append(result.Files, f)
			if f.Err != nil {
				result.Stats.ReadErrors++
			}
		}
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})

	result.Stats.StartTime = startTime
	result.Stats.EndTime = time.Now()
	result.Stats.Duration = result.Stats.EndTime.Sub(startTime)
	result.Stats.DirsVisited = c.stats.dirsVisited.Load()
	result.Stats.FilesFound = c.stats.filesFound.Load()
	result.Stats.FilesRead = c.stats.filesRead.Load()
	result.Stats.BytesRead = c.stats.bytesRead.Load()
	result.Stats.WalkErrors = int(c.stats.walkErrors.Load())

	c.log.WithFields(logger.Fields{
		"duration":   result.Stats.Duration,
		"files":      len(result.Files),
		"skipped":    len(result.Skipped),
		"bytes":      result.Stats.BytesRead,
		"readErrors": result.Stats.ReadErrors,
	}).Info("Collection completed")

	return result, nil
}

// visit walks one directory. rel is the slash-separated path of dir relative
// to the root, empty for the root itself.
func (c *collector) visit(ctx context.Context, state *walkState, dir, rel string) error {
	c.stats.dirsVisited.Add(1)

	c.log.WithFields(logger.Fields{
		"path": rel,
	}).Debug("Visiting directory")

	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("failed to read root directory: %w", err)
		}
		c.stats.walkErrors.Add(1)
		c.log.WithFields(logger.Fields{
			"error": err,
			"path":  rel,
		}).Warn("Failed to read directory")
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		full := filepath.Join(dir, name)
		entryRel := path.Join(rel, name)
		c.stats.currentPath.Store(entryRel)

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := c.fs.Stat(full)
			if err == nil && target.IsDir() {
				c.skip(state, Skip{Path: entryRel, Reason: SkipSymlinkDir, IsDir: true})
				continue
			}
			if err == nil {
				info = target
			}
			// A broken link keeps its own info and fails the content probe.
		}

		if info.IsDir() {
			if c.rules.Match(entryRel, true) {
				c.skip(state, Skip{Path: entryRel, Reason: SkipIgnored, IsDir: true})
				continue
			}
			if err := c.visit(ctx, state, full, entryRel); err != nil {
				return err
			}
			continue
		}

		if reason, skipped := c.check(full, entryRel, info.Size()); skipped {
			c.skip(state, Skip{Path: entryRel, Reason: reason, Size: info.Size()})
			continue
		}

		c.submit(state, full, entryRel, info.Size())
	}

	return nil
}

// check runs the file filters in order and returns the first reason that
// excludes the file.
func (c *collector) check(full, rel string, size int64) (SkipReason, bool) {
	switch {
	case !c.classify.allowed(rel):
		return SkipExtension, true
	case c.rules.Match(rel, false):
		return SkipIgnored, true
	case c.config.OutputPath != "" && full == c.config.OutputPath:
		return SkipOutputFile, true
	case c.classify.isBinary(full):
		return SkipBinary, true
	case c.classify.tooLarge(size):
		return SkipTooLarge, true
	}
	return "", false
}

func (c *collector) skip(state *walkState, s Skip) {
	c.stats.skipped.Add(1)
	state.skipped = append(state.skipped, s)

	c.log.WithFields(logger.Fields{
		"path":   s.Path,
		"reason": s.Reason,
		"dir":    s.IsDir,
	}).Debug("Skipping entry")
}

// submit queues a read of one eligible file.
func (c *collector) submit(state *walkState, full, rel string, size int64) {
	c.stats.filesFound.Add(1)

	id := state.nextID
	state.nextID++

	task := worker.Task{
		ID: id,
		Execute: func(ctx context.Context) (worker.Result, error) {
			return worker.Result{ID: id, Data: c.read(full, rel, size)}, nil
		},
	}

	if err := state.pool.Submit(task); err != nil {
		// Only a shutting-down pool refuses work; the walk notices the
		// cancelled context on its next entry.
		c.log.WithFields(logger.Fields{
			"error": err,
			"path":  rel,
		}).Warn("Failed to queue file")
	}
}

// read loads a whole file. A failure yields a placeholder so the file still
// appears in the output.
func (c *collector) read(full, rel string, size int64) File {
	data, err := afero.ReadFile(c.fs, full)
	if err != nil {
		c.log.WithFields(logger.Fields{
			"error": err,
			"path":  rel,
		}).Warn("Failed to read file")

		return File{
			Path:    rel,
			Content: readErrorContent(unwrapPathError(err)),
			Size:    size,
			Err:     err,
		}
	}

	c.stats.filesRead.Add(1)
	c.stats.bytesRead.Add(int64(len(data)))

	c.log.WithFields(logger.Fields{
		"path":  rel,
		"bytes": len(data),
	}).Trace("File read")

	return File{
		Path:    rel,
		Content: strings.ToValidUTF8(string(data), ""),
		Size:    size,
	}
}

// unwrapPathError drops the absolute path from *fs.PathError so placeholders
// do not leak host paths.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func (c *collector) Progress() Progress {
	c.mu.Lock()
	start := c.startTime
	c.mu.Unlock()

	return Progress{
		CurrentPath: c.stats.path(),
		FilesFound:  c.stats.filesFound.Load(),
		FilesRead:   c.stats.filesRead.Load(),
		Skipped:     c.stats.skipped.Load(),
		BytesRead:   c.stats.bytesRead.Load(),
		StartTime:   start,
	}
}
