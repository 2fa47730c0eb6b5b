package output

import (
	"strings"

	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
)

const structureHeader = "Directory Structure:\n"

// FileHeader returns the delimiter line block that precedes a file's content.
func FileHeader(path string) string {
	return "\n---\nFile: /" + path + "\n---\n"
}

// formatText builds the plain text document. Parts are joined with a single
// newline: the header, the tree, then a delimiter and content per file.
func (f *formatter) formatText(result collector.Result) string {
	f.log.Debug("Formatting text output")

	tree := RenderTree(BuildTree(paths(result.Files)), "")

	parts := make([]string, 0, 2+2*len(result.Files))
	parts = append(parts, structureHeader)
	parts = append(parts, "└── "+f.project(result)+"/\n"+tree+"\n")

	for _, file := range result.Files {
		f.log.WithFields(logger.Fields{
			"path": file.Path,
		}).Trace("Appending file section")

		parts = append(parts, FileHeader(file.Path), file.Content)
	}

	return strings.Join(parts, "\n")
}
