/*
Package ignore compiles gitignore-style patterns into matchers and evaluates
ordered rule sets against relative paths.

Only the subset of gitignore syntax needed for excluding project files is
supported: anchoring, directory-only rules, negation and the *, ** and ?
wildcards. Every other character matches itself.

Basic usage:

	rules := ignore.NewRuleSet([]string{"build/", "!build/keep.txt", "*.log"})

	rules.IsIgnored("build/x.txt")    // true
	rules.IsIgnored("build/keep.txt") // false
	rules.Match("src/app.log", false) // true

Rules are evaluated first to last and every match overrides the previous
decision, so a later negation re-includes a path an earlier rule excluded
and a later plain rule excludes it again.
*/
package ignore

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Matcher is a compiled predicate over normalized paths of the form "/a/b".
// It matches the path itself and everything below it.
type Matcher struct {
	// tree matches the path or any descendant
	tree *regexp.Regexp

	// below matches descendants only
	below *regexp.Regexp

	dirOnly bool
}

// Match reports whether the normalized path is matched. A directory-only
// matcher accepts a non-directory path only when it lies inside a matching
// directory.
func (m *Matcher) Match(path string, isDir bool) bool {
	if m == nil {
		return false
	}
	if m.dirOnly && !isDir {
		return m.below.MatchString(path)
	}
	return m.tree.MatchString(path)
}

// DirOnly reports whether the source pattern ended with a slash.
func (m *Matcher) DirOnly() bool {
	return m != nil && m.dirOnly
}

// String returns the regular expression used for directory matches.
func (m *Matcher) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.tree.String()
}

// Rule is one compiled pattern line. At most one of Ignore and Negate is set:
// negated patterns only carry Negate, all others only carry Ignore.
type Rule struct {
	Pattern string
	Ignore  *Matcher
	Negate  *Matcher
}

// Compile turns a single pattern into a Rule. It never fails; a pattern that
// cannot be compiled yields a rule that matches nothing.
func Compile(pattern string) Rule {
	if strings.HasPrefix(pattern, "!") {
		inner := Compile(pattern[1:])
		return Rule{Pattern: pattern, Negate: inner.Ignore}
	}

	return Rule{Pattern: pattern, Ignore: compileMatcher(pattern)}
}

func compileMatcher(pattern string) *Matcher {
	dirOnly := false
	if strings.HasSuffix(pattern, "/") {
		dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	prefix := "^/"
	switch {
	case strings.HasPrefix(pattern, "/"):
		pattern = pattern[1:]
	case !strings.Contains(pattern, "/"):
		// bare names match at any depth
		prefix += "(?:.*/)?"
	}

	body := translate(pattern)

	tree, err := regexp.Compile(prefix + body + "(?:/.*)?$")
	if err != nil {
		return nil
	}
	below, err := regexp.Compile(prefix + body + "/.*$")
	if err != nil {
		return nil
	}

	return &Matcher{
		tree:    tree,
		below:   below,
		dirOnly: dirOnly,
	}
}

// translate converts glob wildcards to regular expression syntax.
func translate(glob string) string {
	var b strings.Builder
	b.Grow(len(glob) * 2)

	for i := 0; i < len(glob); {
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 3
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i += 2
		case glob[i] == '*':
			b.WriteString("[^/]*")
			i++
		case glob[i] == '?':
			// any single character, a slash included
			b.WriteString(".")
			i++
		default:
			r, size := utf8.DecodeRuneInString(glob[i:])
			b.WriteString(regexp.QuoteMeta(string(r)))
			i += size
		}
	}

	return b.String()
}
