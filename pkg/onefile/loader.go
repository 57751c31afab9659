package onefile

import (
	"os"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// LoadedFile is a candidate path together with its raw content.
type LoadedFile struct {
	Path    string
	Content []byte
}

// LoadFiles reads every candidate concurrently on a worker pool. A file that
// cannot be read is logged and dropped; the result is a subset of the input
// in no particular order.
func LoadFiles(paths []string, workers int, logger *zap.Logger) []LoadedFile {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan string, len(paths))
	results := make(chan LoadedFile, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				content, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("skipping unreadable file",
						zap.String("path", path),
						zap.Error(err))
					continue
				}
				results <- LoadedFile{Path: path, Content: content}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	files := make([]LoadedFile, 0, len(paths))
	for f := range results {
		files = append(files, f)
	}
	return files
}

// SortFiles orders files ascending by path, byte-wise. This is the sole
// point in the pipeline where ordering becomes deterministic; every
// upstream stage is explicitly unordered.
func SortFiles(files []LoadedFile) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
}

// Truncate keeps at most max files. It must run after SortFiles so the
// selection is the lexicographically first max paths; truncating on arrival
// order would make the output depend on goroutine scheduling.
func Truncate(files []LoadedFile, max int, logger *zap.Logger) []LoadedFile {
	if max <= 0 || len(files) <= max {
		return files
	}
	logger.Warn("truncating file list to the configured maximum",
		zap.Int("found", len(files)),
		zap.Int("max", max))
	return files[:max]
}
