package onefile

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"onefile/pkg/ignore"
)

// Walker traverses search roots on a fixed-size worker pool, applying the
// filter predicate to every discovered file and streaming accepted paths to
// a single collector. Traversal order is not guaranteed; ordering becomes
// deterministic only at the sort stage.
type Walker struct {
	excludes  *ignore.Matcher
	maxDepth  int
	useIgnore bool
	workers   int
	logger    *zap.Logger

	emitted *pathSet
}

// NewWalker builds a walker from the run configuration. The emitted set
// persists across Walk calls, so a file emitted by the main traversal is
// never re-emitted by the directory reducer. Directories are deduplicated
// per call only; the reducer must be able to re-enter a tree the main walk
// already scanned to pick up the files the predicate rejected.
func NewWalker(cfg *Config, logger *zap.Logger) *Walker {
	return &Walker{
		excludes:  ignore.New(cfg.Excludes...),
		maxDepth:  cfg.MaxDepth,
		useIgnore: cfg.SkipGitignore,
		workers:   cfg.Workers,
		logger:    logger,
		emitted:   newPathSet(),
	}
}

// scope is one ignore file together with the directory it governs. Entries
// are matched against every scope on their ancestor chain; deeper scopes
// override shallower ones.
type scope struct {
	dir string
	m   *ignore.Matcher
}

// dirJob is one directory waiting on the traversal frontier.
type dirJob struct {
	path   string
	base   string // Root this directory was reached from.
	depth  int
	scopes []scope
}

// Walk traverses every root concurrently and returns the accepted paths in
// arbitrary order. Roots that are plain files are passed straight through
// the predicate. Unreadable roots are logged and skipped.
func (w *Walker) Walk(roots []SearchRoot, accept AcceptFunc) []string {
	var results []string
	frontier := newFrontier()
	dirs := newPathSet() // scans each directory once per call; roots may overlap

	for _, root := range roots {
		info, err := os.Stat(root.Path)
		if err != nil {
			w.logger.Warn("skipping unreadable root",
				zap.String("path", root.Path),
				zap.Error(err))
			continue
		}
		if !info.IsDir() {
			if !w.emitted.add(root.Path) {
				continue
			}
			meta := func() (os.FileInfo, error) { return info, nil }
			if accept(root.Path, meta) {
				results = append(results, root.Path)
			}
			continue
		}
		if !dirs.add(root.Path) {
			continue
		}
		job := dirJob{path: root.Path, base: root.Path}
		if w.useIgnore {
			job.scopes = w.loadScope(root.Path, nil)
		}
		frontier.push(job)
	}

	workers := w.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := frontier.next()
				if !ok {
					return
				}
				w.scan(job, frontier, dirs, out, accept)
				frontier.done()
			}
		}()
	}

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for path := range out {
			results = append(results, path)
		}
	}()

	wg.Wait()
	close(out)
	<-collected
	return results
}

// scan reads one directory, forwards accepted files, and pushes
// subdirectories back onto the frontier. Per-entry errors are logged and
// skipped, never fatal.
func (w *Walker) scan(job dirJob, frontier *frontier, dirs *pathSet, out chan<- string, accept AcceptFunc) {
	entries, err := os.ReadDir(job.path)
	if err != nil {
		w.logger.Warn("cannot read directory",
			zap.String("path", job.path),
			zap.Error(err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if w.useIgnore && strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(job.path, name)
		depth := job.depth + 1
		if w.maxDepth > 0 && depth > w.maxDepth {
			continue
		}
		if w.ignored(job, path, entry.IsDir()) {
			continue
		}

		if entry.IsDir() {
			if !dirs.add(path) {
				continue
			}
			next := dirJob{path: path, base: job.base, depth: depth, scopes: job.scopes}
			if w.useIgnore {
				next.scopes = w.loadScope(path, job.scopes)
			}
			frontier.push(next)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if !accept(path, Metadata(entry)) {
			continue
		}
		if !w.emitted.add(path) {
			continue
		}
		out <- path
	}
}

// loadScope compiles the .gitignore of dir, if any, onto the parent scope
// chain. The chain is copied on append so sibling directories never share a
// backing array.
func (w *Walker) loadScope(dir string, parents []scope) []scope {
	m, err := ignore.FromFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		w.logger.Warn("cannot read ignore file",
			zap.String("dir", dir),
			zap.Error(err))
		return parents
	}
	if m.Empty() {
		return parents
	}
	scopes := make([]scope, len(parents), len(parents)+1)
	copy(scopes, parents)
	return append(scopes, scope{dir: dir, m: m})
}

// ignored applies the exclude patterns (relative to the walk root) and the
// gitignore scope chain (each relative to its own directory). Deeper scopes
// override shallower ones, so a nested negation can un-ignore an entry.
func (w *Walker) ignored(job dirJob, path string, isDir bool) bool {
	if rel, err := filepath.Rel(job.base, path); err == nil {
		if w.excludes.Match(rel, isDir) {
			return true
		}
	}
	verdict := false
	for _, s := range job.scopes {
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			continue
		}
		if ig, matched := s.m.Decide(rel, isDir); matched {
			verdict = ig
		}
	}
	return verdict
}

// pathSet is a mutex-guarded set keyed by absolute path, so overlapping
// roots collapse onto the same entry.
type pathSet struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func newPathSet() *pathSet {
	return &pathSet{m: make(map[string]struct{})}
}

// add records a path and reports whether this was its first appearance.
func (s *pathSet) add(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.m[abs]; seen {
		return false
	}
	s.m[abs] = struct{}{}
	return true
}

// frontier is the shared queue of directories still to be scanned. next
// blocks while the queue is empty but some worker is still scanning, since
// that worker may push more directories; it returns false once the queue is
// empty and no scan is in flight.
type frontier struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []dirJob
	active int
}

func newFrontier() *frontier {
	f := &frontier{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *frontier) push(job dirJob) {
	f.mu.Lock()
	f.queue = append(f.queue, job)
	f.mu.Unlock()
	f.cond.Signal()
}

func (f *frontier) next() (dirJob, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) == 0 && f.active > 0 {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return dirJob{}, false
	}
	job := f.queue[len(f.queue)-1]
	f.queue = f.queue[:len(f.queue)-1]
	f.active++
	return job, true
}

func (f *frontier) done() {
	f.mu.Lock()
	f.active--
	if f.active == 0 && len(f.queue) == 0 {
		f.cond.Broadcast()
	}
	f.mu.Unlock()
}
