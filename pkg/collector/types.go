package collector

import (
	"sync/atomic"
	"time"
)

// Config contains collector configuration options
type Config struct {
	// Workers is the number of concurrent file readers
	Workers int

	// RateLimit caps file reads per second (0 for unlimited)
	RateLimit int

	// MaxSize is the largest file in bytes whose content is collected
	MaxSize int64

	// Extensions is an optional allow-list. Entries may omit the leading dot
	// and are compared case-insensitively.
	Extensions []string

	// BinaryExtensions are always classified as binary
	BinaryExtensions []string

	// OutputPath is the absolute path of the generated document. A file at
	// this path is never collected.
	OutputPath string
}

// SkipReason explains why an entry was left out of the result
type SkipReason string

const (
	SkipIgnored    SkipReason = "ignored"
	SkipExtension  SkipReason = "extension"
	SkipBinary     SkipReason = "binary"
	SkipTooLarge   SkipReason = "too-large"
	SkipSymlinkDir SkipReason = "symlink-dir"
	SkipOutputFile SkipReason = "output-file"
)

// File is one collected text file.
type File struct {
	// Path is relative to the root, in slash form
	Path string

	// Content is the decoded text, or a placeholder when Err is set
	Content string

	// Size is the size reported by the walk
	Size int64

	// Err is the read failure that produced a placeholder Content
	Err error
}

// Skip records an entry that was not collected
type Skip struct {
	Path   string
	Reason SkipReason
	IsDir  bool
	Size   int64
}

// Result contains the complete collection results
type Result struct {
	// Root is the cleaned directory that was walked
	Root string

	// Files are sorted by Path
	Files []File

	// Skipped are sorted by Path
	Skipped []Skip

	Stats Stats
}

// Stats contains statistics about the collection
type Stats struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	DirsVisited int64
	FilesFound  int64
	FilesRead   int64
	BytesRead   int64
	ReadErrors  int
	WalkErrors  int
}

// Progress is a snapshot of an in-flight collection
type Progress struct {
	CurrentPath string
	FilesFound  int64
	FilesRead   int64
	Skipped     int64
	BytesRead   int64
	StartTime   time.Time
}

// counters holds the atomic counters behind Progress
type counters struct {
	dirsVisited atomic.Int64
	filesFound  atomic.Int64
	filesRead   atomic.Int64
	skipped     atomic.Int64
	bytesRead   atomic.Int64
	walkErrors  atomic.Int64
	currentPath atomic.Value
}

func (c *counters) reset() {
	c.dirsVisited.Store(0)
	c.filesFound.Store(0)
	c.filesRead.Store(0)
	c.skipped.Store(0)
	c.bytesRead.Store(0)
	c.walkErrors.Store(0)
	c.currentPath.Store("")
}

func (c *counters) path() string {
	if p, ok := c.currentPath.Load().(string); ok {
		return p
	}
	return ""
}
