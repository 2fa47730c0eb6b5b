/*
Package output renders collection results as a single document: a directory
tree header followed by every collected file, delimited so the document can
be split back into per-file sections.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:  output.FormatText,
		Project: "myproject",
	}, log)

	doc, err := formatter.Format(result)

The JSON and YAML formats carry the same information as structured data.
All formats are deterministic: the same result always renders to the same
bytes.
*/
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Config holds formatter configuration
type Config struct {
	Format Format

	// Project is the name shown at the top of the tree. Empty means the
	// base name of the collected root.
	Project string
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(collector.Result) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders result according to the configured format
func (f *formatter) Format(result collector.Result) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":  f.config.Format,
		"project": f.project(result),
		"files":   len(result.Files),
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatText, "":
		return f.formatText(result), nil
	case FormatJSON:
		return f.formatJSON(result)
	case FormatYAML:
		return f.formatYAML(result)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}

func (f *formatter) project(result collector.Result) string {
	if f.config.Project != "" {
		return f.config.Project
	}
	return filepath.Base(result.Root)
}

func paths(files []collector.File) []string {
	out := make([]string, len(files))
	for i, file := range files {
		out[i] = file.Path
	}
	return out
}
