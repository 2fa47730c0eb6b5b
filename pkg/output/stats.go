package output

import (
	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
)

// stats summarizes a collection for the structured formats
type stats struct {
	Files           int   `json:"totalFiles" yaml:"totalFiles"`
	TotalSize       int64 `json:"totalSize" yaml:"totalSize"`
	ReadErrors      int   `json:"readErrors" yaml:"readErrors"`
	Skipped         int   `json:"skipped" yaml:"skipped"`
	SkippedIgnored  int   `json:"skippedIgnored" yaml:"skippedIgnored"`
	SkippedBinary   int   `json:"skippedBinary" yaml:"skippedBinary"`
	SkippedTooLarge int   `json:"skippedTooLarge" yaml:"skippedTooLarge"`
}

func (f *formatter) calculateStats(result collector.Result) *stats {
	s := &stats{
		Files:   len(result.Files),
		Skipped: len(result.Skipped),
	}

	for _, file := range result.Files {
		s.TotalSize += file.Size
		if file.Err != nil {
			s.ReadErrors++
		}
	}

	for _, skip := range result.Skipped {
		switch skip.Reason {
		case collector.SkipIgnored:
			s.SkippedIgnored++
		case collector.SkipBinary:
			s.SkippedBinary++
		case collector.SkipTooLarge:
			s.SkippedTooLarge++
		}
	}

	f.log.WithFields(logger.Fields{
		"files":   s.Files,
		"size":    s.TotalSize,
		"skipped": s.Skipped,
	}).Debug("Statistics calculated")

	return s
}
