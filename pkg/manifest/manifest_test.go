package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBasics(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "module example.com/demo\n\ngo 1.23\n")

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "example.com/demo", p.ModulePath)
	assert.Equal(t, "1.23", p.GoVersion)
	assert.Equal(t, dir, p.Dir)
	assert.Empty(t, p.Members)
	assert.Empty(t, p.LocalDeps)
}

func TestLoadLocalReplacements(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `module example.com/demo

go 1.23

require (
	example.com/lib v0.1.0
	example.com/remote v1.2.3
)

replace example.com/lib => ../lib

replace example.com/remote => example.com/fork v1.2.4
`)

	p, err := Load(path)
	require.NoError(t, err)

	require.Len(t, p.LocalDeps, 1, "only directory replacements are local deps")
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "lib"), p.LocalDeps["example.com/lib"])
}

func TestLoadAbsoluteReplacement(t *testing.T) {
	dir := t.TempDir()
	depDir := t.TempDir()
	path := writeManifest(t, dir,
		"module example.com/demo\n\nreplace example.com/lib => "+depDir+"\n")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(depDir), p.LocalDeps["example.com/lib"])
}

func TestLoadWorkspaceMembers(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "module example.com/demo\n\ngo 1.23\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.work"),
		[]byte("go 1.23\n\nuse (\n\t.\n\t./svc\n\t../shared\n)\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "svc"),
		filepath.Join(filepath.Dir(dir), "shared"),
	}, p.Members, "the manifest directory itself is not listed as a member")
}

func TestLoadMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "this is not a go.mod\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "go.mod"))
	assert.Error(t, err)
}

func TestLoadNoParentDirectory(t *testing.T) {
	_, err := Load("/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parent directory")
}

func TestLoadMalformedWorkspace(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "module example.com/demo\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.work"),
		[]byte("use use use\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMetadataFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "module example.com/demo\n\ngo 1.23\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"),
		[]byte("# Demo\n\nA demo project.\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)

	got := p.Metadata().Format()
	want := strings.Join([]string{
		"// Project: example.com/demo",
		"// Go: 1.23",
		"",
		"// README",
		"// ======",
		"// # Demo",
		"// ", // a blank README line keeps the comment prefix's trailing space
		"// A demo project.",
		"// ======",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMetadataWithoutReadme(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "module example.com/demo\n")

	p, err := Load(path)
	require.NoError(t, err)

	got := p.Metadata().Format()
	assert.Equal(t, "// Project: example.com/demo\n\n", got)
	assert.NotContains(t, got, "README")
}
