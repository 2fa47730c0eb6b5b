package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// GitignoreFile is the name of the ignore file read from the scan root.
const GitignoreFile = ".gitignore"

// Sources holds raw pattern lines grouped by origin.
type Sources struct {
	Defaults  []string
	Gitignore []string
	Excludes  []string
}

// Patterns concatenates the sources in override order: defaults first, then
// .gitignore lines, then explicit excludes.
func (s Sources) Patterns() []string {
	out := make([]string, 0, len(s.Defaults)+len(s.Gitignore)+len(s.Excludes))
	out = append(out, s.Defaults...)
	out = append(out, s.Gitignore...)
	out = append(out, s.Excludes...)
	return out
}

// RuleSet compiles the concatenated sources.
func (s Sources) RuleSet() *RuleSet {
	return NewRuleSet(s.Patterns())
}

// ReadGitignore returns the raw lines of root/.gitignore. A missing file is
// not an error. Invalid UTF-8 sequences are dropped.
func ReadGitignore(afs afero.Fs, root string) ([]string, error) {
	path := filepath.Join(root, GitignoreFile)

	data, err := afero.ReadFile(afs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := strings.ToValidUTF8(string(data), "")
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return strings.Split(text, "\n"), nil
}
