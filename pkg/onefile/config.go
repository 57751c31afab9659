// Package onefile implements the discovery-and-assembly pipeline: parallel
// multi-root traversal, a composable filter predicate, directory reduction,
// parallel file loading, deterministic ordering, and output assembly.
package onefile

import (
	"errors"
	"runtime"
	"time"
)

// Configuration errors detected before any filesystem access.
var (
	ErrSizeBounds = errors.New("larger-than cannot exceed smaller-than")
	ErrTimeBounds = errors.New("newer-than cannot be after older-than")
	ErrNoFiles    = errors.New("no files found to include")
)

// RootOrigin records where a search root came from.
type RootOrigin int

const (
	OriginInclude    RootOrigin = iota // Explicitly supplied via --include.
	OriginWorkspace                    // Workspace member from go.work.
	OriginManifest                     // The manifest's own directory.
	OriginDependency                   // Dependency replaced with a local path.
)

// SearchRoot is a starting path for traversal plus its provenance. Roots may
// overlap; the walker guarantees first-discovery-wins deduplication.
type SearchRoot struct {
	Path   string
	Origin RootOrigin
}

// Criteria is the immutable filter configuration applied to every discovered
// entry. Optional bounds are nil when unset.
type Criteria struct {
	Extensions  []string   // Extension allow-list, without the leading dot.
	SmallerThan *int64     // Maximum file size in bytes.
	LargerThan  *int64     // Minimum file size in bytes.
	NewerThan   *time.Time // Minimum modification time.
	OlderThan   *time.Time // Maximum modification time.
	IncludeLock bool       // Keep the dependency lock file (go.sum).
}

// validate checks bound consistency. Both checks run before any filesystem
// access.
func (c *Criteria) validate() error {
	if c.SmallerThan != nil && c.LargerThan != nil && *c.LargerThan > *c.SmallerThan {
		return ErrSizeBounds
	}
	if c.NewerThan != nil && c.OlderThan != nil && c.NewerThan.After(*c.OlderThan) {
		return ErrTimeBounds
	}
	return nil
}

// Config holds every option of a run. It is constructed once from flags,
// validated, and treated as read-only by every pipeline stage.
type Config struct {
	ManifestPath string // Path to go.mod.
	Output       string // Destination file for the combined output.
	Stdout       bool   // Write to stdout instead of Output.
	Info         bool   // Print a summary instead of writing output.

	Head            string // Optional header file prepended verbatim.
	Separator       string // Separator written before each file's path.
	TableOfContents bool   // Emit the table-of-contents block.
	IncludeMetadata bool   // Emit the project metadata block.

	Includes      []string // Explicit include paths (files or directories).
	Excludes      []string // Exclude patterns, applied as extra ignore rules.
	Dependencies  bool     // Also walk local-path dependencies.
	MaxDepth      int      // Maximum traversal depth; 0 means unlimited.
	SkipGitignore bool     // Honor gitignore rules and skip hidden entries.

	MaxFiles int // Keep at most this many files after sorting; 0 unlimited.
	Workers  int // Worker pool size; <= 0 means runtime.NumCPU().

	Criteria Criteria
}

// Validate normalizes defaults and rejects inconsistent bounds. It must
// succeed before the pipeline touches the filesystem.
func (c *Config) Validate() error {
	if err := c.Criteria.validate(); err != nil {
		return err
	}
	if len(c.Criteria.Extensions) == 0 {
		c.Criteria.Extensions = []string{"go"}
	}
	if c.Separator == "" {
		c.Separator = "//"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = "./go.mod"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}
