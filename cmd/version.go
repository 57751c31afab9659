package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"onefile/pkg/version"
)

// newVersionCmd builds the version subcommand. The --short flag prints only
// the version number.
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of onefile",
		Long:  `Display the current version information of the onefile CLI tool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Println(v.Version)
			} else {
				fmt.Println(v.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return cmd
}
