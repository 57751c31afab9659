package onefile

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"onefile/pkg/manifest"
)

// Execute runs the full pipeline: resolve roots from the manifest and
// flags, walk them in parallel, flatten directory includes, load and sort
// the survivors, and assemble the output. The run is a single-pass batch
// job; individual entry failures degrade the result set, configuration and
// destination failures abort.
func Execute(cfg *Config, logger *zap.Logger) error {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return err
	}

	proj, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return err
	}

	var meta string
	if cfg.IncludeMetadata {
		meta = proj.Metadata().Format()
	}

	// The header is read up front so a missing file aborts before any
	// traversal work.
	var header []byte
	if cfg.Head != "" {
		header, err = os.ReadFile(cfg.Head)
		if err != nil {
			return fmt.Errorf("reading header file: %w", err)
		}
	}

	roots, includeDirs := resolveRoots(cfg, proj, logger)

	walker := NewWalker(cfg, logger)
	candidates := walker.Walk(roots, cfg.Criteria.Accept)
	candidates = append(candidates, includeDirs...)
	if len(candidates) == 0 {
		return ErrNoFiles
	}

	candidates = walker.ReduceDirs(candidates)
	if len(candidates) == 0 {
		return ErrNoFiles
	}

	files := LoadFiles(candidates, cfg.Workers, logger)
	if len(files) == 0 {
		return ErrNoFiles
	}

	SortFiles(files)
	files = Truncate(files, cfg.MaxFiles, logger)

	if cfg.Info {
		printInfoSummary(files, time.Since(start))
		return nil
	}

	doc := &Document{
		Header:    header,
		Metadata:  meta,
		TOC:       cfg.TableOfContents,
		Separator: cfg.Separator,
		Files:     files,
	}

	if cfg.Stdout {
		return doc.Render(os.Stdout)
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := doc.Render(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	logger.Info("combined files",
		zap.Int("files", len(files)),
		zap.String("output", cfg.Output),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// resolveRoots turns the manifest and flags into walkable search roots.
// Explicitly included directories are returned separately: the walker does
// not descend them, the directory reducer expands them wholesale. Includes
// that do not exist are logged and skipped.
func resolveRoots(cfg *Config, proj *manifest.Project, logger *zap.Logger) (roots []SearchRoot, includeDirs []string) {
	for _, inc := range cfg.Includes {
		info, err := os.Stat(inc)
		if err != nil {
			logger.Warn("include path not found", zap.String("path", inc))
			continue
		}
		if info.IsDir() {
			includeDirs = append(includeDirs, inc)
			continue
		}
		roots = append(roots, SearchRoot{Path: inc, Origin: OriginInclude})
	}

	for _, member := range proj.Members {
		roots = append(roots, SearchRoot{Path: member, Origin: OriginWorkspace})
	}
	roots = append(roots, SearchRoot{Path: proj.Dir, Origin: OriginManifest})

	if cfg.Dependencies {
		for _, dir := range proj.LocalDeps {
			roots = append(roots, SearchRoot{Path: dir, Origin: OriginDependency})
		}
	}
	return roots, includeDirs
}

// printInfoSummary reports what a run would include without writing any
// output.
func printInfoSummary(files []LoadedFile, elapsed time.Duration) {
	total := 0
	for _, f := range files {
		total += countLines(f.Content)
	}

	cyan := color.New(color.FgCyan)
	cyan.Fprintf(color.Error, "Found %d files\n", len(files))
	cyan.Fprintf(color.Error, "Total Lines of Code: %d\n", total)
	cyan.Fprintf(color.Error, "Time Elapsed: %s\n", elapsed.Round(time.Millisecond))
}
