package onefile

import (
	"os"

	"go.uber.org/zap"
)

// ReduceDirs flattens any directories remaining in the candidate list into
// the files they contain. Only explicitly included paths can still denote a
// directory at this point; discovered entries are always files. Expansion
// reuses the walker's depth, ignore, and exclude rules but applies no
// extension, size, or time filtering: a directory the user asked for is
// trusted wholesale, even when the main walk already descended it. The
// walker's emitted set keeps already-emitted files from appearing twice.
func (w *Walker) ReduceDirs(paths []string) []string {
	var dirs []string
	files := paths[:0]
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			w.logger.Warn("dropping vanished candidate",
				zap.String("path", p),
				zap.Error(err))
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, p)
			continue
		}
		files = append(files, p)
	}

	if len(dirs) == 0 {
		return files
	}

	roots := make([]SearchRoot, 0, len(dirs))
	for _, d := range dirs {
		roots = append(roots, SearchRoot{Path: d, Origin: OriginInclude})
	}
	return append(files, w.Walk(roots, AcceptAll)...)
}
