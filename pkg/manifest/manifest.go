// Package manifest loads the Go module manifest a run is rooted at and
// resolves the search roots derived from it: the manifest directory,
// workspace members declared in a sibling go.work file, and dependencies
// replaced with a local directory.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Project describes a parsed module manifest.
type Project struct {
	ModulePath string            // Declared module path.
	GoVersion  string            // Declared Go language version, if any.
	Dir        string            // Directory containing the manifest.
	Members    []string          // Workspace member directories from go.work.
	LocalDeps  map[string]string // Module path -> local replacement directory.
}

// Load reads and parses the manifest at path. A manifest that cannot be
// read or parsed is a fatal configuration error, as is a manifest path with
// no parent directory.
func Load(path string) (*Project, error) {
	dir := filepath.Dir(path)
	if dir == path {
		return nil, fmt.Errorf("manifest path %q has no parent directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	mod, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	p := &Project{
		Dir:       dir,
		LocalDeps: make(map[string]string),
	}
	if mod.Module != nil {
		p.ModulePath = mod.Module.Mod.Path
	}
	if mod.Go != nil {
		p.GoVersion = mod.Go.Version
	}

	// A replace directive with no version on the right-hand side points at
	// a directory on disk. Those are the only dependencies this tool can
	// walk.
	for _, r := range mod.Replace {
		if r.New.Version != "" {
			continue
		}
		p.LocalDeps[r.Old.Path] = joinIfRelative(dir, r.New.Path)
	}

	if err := p.loadWorkspace(); err != nil {
		return nil, err
	}
	return p, nil
}

// loadWorkspace picks up workspace members from a go.work file next to the
// manifest. No workspace file is not an error; an unparseable one is.
func (p *Project) loadWorkspace() error {
	path := filepath.Join(p.Dir, "go.work")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading workspace file %s: %w", path, err)
	}
	work, err := modfile.ParseWork(path, data, nil)
	if err != nil {
		return fmt.Errorf("parsing workspace file %s: %w", path, err)
	}
	for _, u := range work.Use {
		member := joinIfRelative(p.Dir, u.Path)
		if filepath.Clean(member) == filepath.Clean(p.Dir) {
			// The manifest directory is always a search root on its own.
			continue
		}
		p.Members = append(p.Members, member)
	}
	return nil
}

func joinIfRelative(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}
