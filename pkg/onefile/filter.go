package onefile

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// lockFileName is the dependency lock file excluded unless IncludeLock is
// set.
const lockFileName = "go.sum"

// MetadataFunc fetches an entry's metadata, performing the underlying stat
// at most once regardless of how many checks consult it.
type MetadataFunc func() (fs.FileInfo, error)

// Metadata wraps a directory entry in a memoizing metadata accessor.
func Metadata(entry fs.DirEntry) MetadataFunc {
	var (
		info    fs.FileInfo
		err     error
		fetched bool
	)
	return func() (fs.FileInfo, error) {
		if !fetched {
			info, err = entry.Info()
			fetched = true
		}
		return info, err
	}
}

// StatMetadata is a memoizing accessor for paths that have no directory
// entry, such as search roots that are plain files.
func StatMetadata(path string) MetadataFunc {
	var (
		info    fs.FileInfo
		err     error
		fetched bool
	)
	return func() (fs.FileInfo, error) {
		if !fetched {
			info, err = os.Stat(path)
			fetched = true
		}
		return info, err
	}
}

// AcceptFunc decides whether a discovered file belongs in the output.
type AcceptFunc func(path string, meta MetadataFunc) bool

// Accept is the filter predicate. Checks run cheapest first and
// short-circuit: lock-file name, extension allow-list, size bounds, then
// modification-time bounds. A metadata fetch failure rejects the entry
// rather than failing the run. The predicate is deterministic for an
// unchanged entry.
func (c *Criteria) Accept(path string, meta MetadataFunc) bool {
	if !c.IncludeLock && filepath.Base(path) == lockFileName {
		return false
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !slices.Contains(c.Extensions, ext) {
		return false
	}

	if c.SmallerThan != nil || c.LargerThan != nil {
		info, err := meta()
		if err != nil {
			return false
		}
		if c.SmallerThan != nil && info.Size() > *c.SmallerThan {
			return false
		}
		if c.LargerThan != nil && info.Size() < *c.LargerThan {
			return false
		}
	}

	if c.NewerThan != nil || c.OlderThan != nil {
		info, err := meta()
		if err != nil {
			return false
		}
		modified := info.ModTime().UTC()
		if c.OlderThan != nil && modified.After(c.OlderThan.UTC()) {
			return false
		}
		if c.NewerThan != nil && modified.Before(c.NewerThan.UTC()) {
			return false
		}
	}

	return true
}

// AcceptAll is the pass-through predicate used when directories supplied
// explicitly are expanded wholesale.
func AcceptAll(string, MetadataFunc) bool { return true }
