package main

import (
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"onefile/cmd"
	"onefile/pkg/logging"
	"onefile/pkg/version"
)

func main() {
	logger, err := logging.Setup(false, "onefile", version.Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	runErr := cmd.Execute(logger)

	// Only sync when stderr can take it; syncing a closed pipe or terminal
	// on some platforms returns a spurious "invalid argument".
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}

	if runErr != nil {
		color.New(color.FgRed).Fprintf(color.Error, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
