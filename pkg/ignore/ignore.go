// Package ignore implements gitignore-style pattern matching. It backs both
// the .gitignore handling of the directory walker and the user-supplied
// exclude patterns, which are treated as additional ignore rules.
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Matcher holds an ordered list of compiled patterns. Later patterns
// override earlier ones, matching gitignore semantics.
type Matcher struct {
	patterns []*Pattern
}

// New compiles the given pattern lines into a Matcher. Empty lines,
// comments, and patterns that fail to compile are skipped.
func New(lines ...string) *Matcher {
	m := &Matcher{}
	m.AddLines(lines...)
	return m
}

// FromFile loads patterns from an ignore file. A missing file, or one that
// contains no usable patterns, yields a nil Matcher and no error.
func FromFile(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := New(strings.Split(string(data), "\n")...)
	if m.Empty() {
		return nil, nil
	}
	return m, nil
}

// AddLines compiles additional pattern lines into the matcher.
func (m *Matcher) AddLines(lines ...string) {
	for _, line := range lines {
		if p := compileLine(line); p != nil {
			m.patterns = append(m.patterns, p)
		}
	}
}

// Empty reports whether the matcher holds no patterns. A nil matcher is
// empty.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.patterns) == 0
}

// Match reports whether relPath is ignored. relPath must be relative to the
// directory the patterns were defined in; isDir selects directory matching.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	ignored, _ := m.Decide(relPath, isDir)
	return ignored
}

// Decide returns the matcher's verdict for relPath and whether any pattern
// matched at all. The second result lets callers layer matchers: a deeper
// ignore file only overrides an outer one when it actually matched.
func (m *Matcher) Decide(relPath string, isDir bool) (ignored, matched bool) {
	if m == nil {
		return false, false
	}
	path := normalize(relPath, isDir)
	for _, p := range m.patterns {
		if p.re.MatchString(path) {
			matched = true
			ignored = !p.negate
		}
	}
	return ignored, matched
}

// normalize converts a path to slash form and marks directories with a
// trailing slash so directory-only patterns can distinguish them.
func normalize(path string, isDir bool) string {
	path = filepath.ToSlash(path)
	if isDir && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}

// compileLine turns a single ignore-file line into a Pattern. It returns nil
// for empty lines, comments, and invalid patterns.
func compileLine(line string) *Pattern {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	negate := false
	if strings.HasPrefix(trimmed, "!") {
		negate = true
		trimmed = strings.TrimPrefix(trimmed, "!")
	}

	return compilePattern(trimmed, negate)
}
