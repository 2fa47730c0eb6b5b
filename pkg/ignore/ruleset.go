package ignore

import (
	"path/filepath"
	"strings"
)

// RuleSet is an immutable, ordered collection of compiled rules.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet compiles patterns in order. Blank lines and lines starting with
// '#' are skipped; trailing whitespace is trimmed.
func NewRuleSet(patterns []string) *RuleSet {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimRight(p, " \t\r")
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		rules = append(rules, Compile(p))
	}

	return &RuleSet{rules: rules}
}

// Match reports whether path is ignored after evaluating every rule. A
// trailing slash on path marks it as a directory. A directory-only rule such
// as "build/" never matches a plain file named build, only a directory of that
// name and whatever lies below it.
func (s *RuleSet) Match(path string, isDir bool) bool {
	if s == nil || len(s.rules) == 0 {
		return false
	}

	normalized, trailingSlash := Normalize(path)
	isDir = isDir || trailingSlash

	ignored := false
	for i := range s.rules {
		r := &s.rules[i]
		if r.Ignore.Match(normalized, isDir) {
			ignored = true
		}
		if r.Negate.Match(normalized, isDir) {
			ignored = false
		}
	}

	return ignored
}

// IsIgnored reports whether path is ignored when its kind is unknown.
// Directory-only rules apply to the path itself.
func (s *RuleSet) IsIgnored(path string) bool {
	return s.Match(path, true)
}

// Len returns the number of compiled rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the compiled rules in evaluation order.
func (s *RuleSet) Rules() []Rule {
	if s == nil {
		return nil
	}
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Normalize converts path to slash form with a single leading slash and no
// trailing slash. The second result reports whether a trailing slash was
// removed.
func Normalize(path string) (string, bool) {
	p := filepath.ToSlash(path)

	trailing := len(p) > 1 && strings.HasSuffix(p, "/")
	p = strings.TrimRight(p, "/")

	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if p == "." {
		p = ""
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return p, trailing
}
