package onefile

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// buildTree creates the given files (with trivial content) under a temp dir.
func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func walkerConfig(workers int) *Config {
	cfg := &Config{Workers: workers, SkipGitignore: true}
	cfg.Criteria.Extensions = []string{"go"}
	return cfg
}

func sorted(paths []string) []string {
	sort.Strings(paths)
	return paths
}

func rel(t *testing.T, base string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(base, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return sorted(out)
}

func TestWalkFiltersAndRecurses(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":           "package a\n",
		"b.txt":          "not go\n",
		"sub/c.go":       "package c\n",
		"sub/deep/d.go":  "package d\n",
		"sub/deep/e.txt": "nope\n",
	})

	cfg := walkerConfig(4)
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go", "sub/c.go", "sub/deep/d.go"}, rel(t, dir, got))
}

func TestWalkOverlappingRootsNoDoubleEmit(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":     "package a\n",
		"sub/b.go": "package b\n",
	})

	cfg := walkerConfig(4)
	w := NewWalker(cfg, zap.NewNop())
	roots := []SearchRoot{
		{Path: dir, Origin: OriginManifest},
		{Path: filepath.Join(dir, "sub"), Origin: OriginWorkspace},
		{Path: dir, Origin: OriginDependency},
	}
	got := w.Walk(roots, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go", "sub/b.go"}, rel(t, dir, got))
}

func TestWalkMaxDepth(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":          "package a\n",
		"sub/b.go":      "package b\n",
		"sub/deep/c.go": "package c\n",
	})

	cfg := walkerConfig(2)
	cfg.MaxDepth = 2
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go", "sub/b.go"}, rel(t, dir, got))
}

func TestWalkHonorsGitignore(t *testing.T) {
	dir := buildTree(t, map[string]string{
		".gitignore":        "generated/\n*.gen.go\n",
		"a.go":              "package a\n",
		"b.gen.go":          "package b\n",
		"generated/g.go":    "package g\n",
		"sub/.gitignore":    "local.go\n",
		"sub/local.go":      "package sub\n",
		"sub/kept.go":       "package sub\n",
		"sub/deep/local.go": "package deep\n",
	})

	cfg := walkerConfig(4)
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go", "sub/kept.go"}, rel(t, dir, got),
		"nested ignore files apply to their whole subtree")
}

func TestWalkSkipGitignoreDisabled(t *testing.T) {
	dir := buildTree(t, map[string]string{
		".gitignore":     "generated/\n",
		"a.go":           "package a\n",
		"generated/g.go": "package g\n",
		".hidden/h.go":   "package h\n",
	})

	cfg := walkerConfig(4)
	cfg.SkipGitignore = false
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{".hidden/h.go", "a.go", "generated/g.go"}, rel(t, dir, got))
}

func TestWalkHiddenEntriesSkipped(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":         "package a\n",
		".hidden/h.go": "package h\n",
		".env.go":      "package env\n",
	})

	cfg := walkerConfig(4)
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go"}, rel(t, dir, got))
}

func TestWalkExcludePatternsSuffixMatch(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":             "package a\n",
		"sub/skipme.go":    "package s\n",
		"vendor/v.go":      "package v\n",
		"deep/vendor/w.go": "package w\n",
	})

	cfg := walkerConfig(4)
	cfg.Excludes = []string{"skipme.go", "vendor/"}
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go"}, rel(t, dir, got),
		"exclude patterns match path suffixes anywhere in the tree")
}

func TestWalkFileRootThroughPredicate(t *testing.T) {
	dir := buildTree(t, map[string]string{
		"a.go":  "package a\n",
		"b.txt": "nope\n",
	})

	cfg := walkerConfig(2)
	w := NewWalker(cfg, zap.NewNop())
	roots := []SearchRoot{
		{Path: filepath.Join(dir, "a.go"), Origin: OriginInclude},
		{Path: filepath.Join(dir, "b.txt"), Origin: OriginInclude},
	}
	got := w.Walk(roots, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go"}, rel(t, dir, got))
}

func TestWalkMissingRootSkipped(t *testing.T) {
	dir := buildTree(t, map[string]string{"a.go": "package a\n"})

	cfg := walkerConfig(2)
	w := NewWalker(cfg, zap.NewNop())
	roots := []SearchRoot{
		{Path: filepath.Join(dir, "nope"), Origin: OriginInclude},
		{Path: dir, Origin: OriginManifest},
	}
	got := w.Walk(roots, cfg.Criteria.Accept)

	assert.Equal(t, []string{"a.go"}, rel(t, dir, got))
}

func TestWalkManyFilesSingleWorker(t *testing.T) {
	files := make(map[string]string)
	for _, sub := range []string{"a", "b", "c"} {
		for i := 0; i < 10; i++ {
			files[filepath.Join(sub, string(rune('a'+i))+".go")] = "package x\n"
		}
	}
	dir := buildTree(t, files)

	cfg := walkerConfig(1)
	w := NewWalker(cfg, zap.NewNop())
	got := w.Walk([]SearchRoot{{Path: dir, Origin: OriginManifest}}, cfg.Criteria.Accept)

	assert.Len(t, got, 30, "a single worker must still drain the whole frontier")
}
