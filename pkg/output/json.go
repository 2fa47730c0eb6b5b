package output

import (
	"encoding/json"

	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
)

// documentFile is one file entry in the structured formats
type documentFile struct {
	Path    string `json:"path" yaml:"path"`
	Content string `json:"content" yaml:"content"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// document is the structured counterpart of the text document
type document struct {
	Project    string         `json:"project" yaml:"project"`
	Tree       string         `json:"tree" yaml:"tree"`
	Files      []documentFile `json:"files" yaml:"files"`
	Statistics *stats         `json:"statistics" yaml:"statistics"`
}

func (f *formatter) buildDocument(result collector.Result) *document {
	doc := &document{
		Project:    f.project(result),
		Tree:       RenderTree(BuildTree(paths(result.Files)), ""),
		Files:      make([]documentFile, 0, len(result.Files)),
		Statistics: f.calculateStats(result),
	}

	for _, file := range result.Files {
		entry := documentFile{
			Path:    file.Path,
			Content: file.Content,
		}
		if file.Err != nil {
			entry.Error = file.Err.Error()
		}
		doc.Files = append(doc.Files, entry)
	}

	return doc
}

func (f *formatter) formatJSON(result collector.Result) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.buildDocument(result), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes) + "\n", nil
}
