package output

import (
	"strings"

	"github.com/sonemaro/promptpack/pkg/collector"
	"github.com/sonemaro/promptpack/pkg/logger"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(result collector.Result) (string, error) {
	f.log.Debug("Formatting YAML output")

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)

	if err := enc.Encode(f.buildDocument(result)); err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return b.String(), nil
}
