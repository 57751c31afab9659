package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"onefile/pkg/logging"
	"onefile/pkg/onefile"
	"onefile/pkg/version"
)

// timeLayout is the format accepted by --newer-than and --older-than.
// Timestamps are compared against file modification times in UTC.
const timeLayout = "2006-01-02 15:04:05"

// Execute builds the command tree and runs it.
func Execute(logger *zap.Logger) error {
	root := newRootCmd(logger)
	root.AddCommand(newVersionCmd())
	return root.Execute()
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		cfg         onefile.Config
		verbose     bool
		smallerThan int64
		largerThan  int64
		newerThan   string
		olderThan   string
	)

	cmd := &cobra.Command{
		Use:   "onefile",
		Short: "Combine a Go project's source files into a single output",
		Long: `onefile discovers a Go project's source files through its go.mod (and an
optional go.work), filters them, and concatenates them into one stream.
Mainly intended to pipe source code into an LLM.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				l, err := logging.Setup(true, "onefile", version.Version)
				if err != nil {
					return fmt.Errorf("initializing verbose logger: %w", err)
				}
				logger = l
			}

			flags := cmd.Flags()
			if flags.Changed("smaller-than") {
				cfg.Criteria.SmallerThan = &smallerThan
			}
			if flags.Changed("larger-than") {
				cfg.Criteria.LargerThan = &largerThan
			}
			if newerThan != "" {
				t, err := time.Parse(timeLayout, newerThan)
				if err != nil {
					return fmt.Errorf("parsing --newer-than: %w", err)
				}
				cfg.Criteria.NewerThan = &t
			}
			if olderThan != "" {
				t, err := time.Parse(timeLayout, olderThan)
				if err != nil {
					return fmt.Errorf("parsing --older-than: %w", err)
				}
				cfg.Criteria.OlderThan = &t
			}

			return onefile.Execute(&cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&cfg.Stdout, "stdout", false, "write to stdout instead of the output file")
	flags.BoolVar(&cfg.TableOfContents, "table-of-contents", false, "prepend a table of contents listing every included file")
	flags.StringVarP(&cfg.Output, "output", "o", "./onefile.go.txt", "path of the combined output file")
	flags.StringVarP(&cfg.ManifestPath, "manifest-path", "p", "./go.mod", "path to the project's go.mod")
	flags.StringVar(&cfg.Head, "head", "", "path to a header file prepended to the output")
	flags.IntVar(&cfg.MaxDepth, "depth", 0, "maximum directory depth to search (0 = unlimited)")
	flags.BoolVar(&cfg.SkipGitignore, "skip-gitignore", true, "honor .gitignore rules and skip hidden entries")
	flags.BoolVarP(&cfg.Info, "info", "I", false, "print a summary instead of writing output")
	flags.BoolVarP(&cfg.Dependencies, "dependencies", "d", false, "also include dependencies replaced with a local path")
	flags.StringVar(&cfg.Separator, "separator", "//", "separator written before each file's path")
	flags.StringVar(&newerThan, "newer-than", "", `exclude files modified before this time ("2006-01-02 15:04:05")`)
	flags.StringVar(&olderThan, "older-than", "", `exclude files modified after this time ("2006-01-02 15:04:05")`)
	flags.Int64Var(&smallerThan, "smaller-than", 0, "exclude files larger than this size in bytes")
	flags.Int64Var(&largerThan, "larger-than", 0, "exclude files smaller than this size in bytes")
	flags.IntVar(&cfg.MaxFiles, "max-files", 0, "maximum number of files to include (0 = unlimited)")
	flags.StringArrayVarP(&cfg.Includes, "include", "i", nil, "extra file or directory to include (repeatable)")
	flags.StringArrayVarP(&cfg.Criteria.Extensions, "extension", "E", []string{"go"}, "file extension to include (repeatable)")
	flags.StringArrayVarP(&cfg.Excludes, "exclude", "e", nil, "pattern to exclude, gitignore syntax (repeatable)")
	flags.BoolVar(&cfg.IncludeMetadata, "include-metadata", true, "prepend project metadata from the manifest")
	flags.BoolVar(&cfg.Criteria.IncludeLock, "include-lock", false, "include the go.sum lock file")
	flags.IntVar(&cfg.Workers, "workers", 0, "worker pool size (0 = number of CPUs)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}
