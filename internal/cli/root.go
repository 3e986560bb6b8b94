// Package cli implements the hadidi command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/hadidi/pkg/digest"
)

// NewRootCommand builds the hadidi command tree
func NewRootCommand() *cobra.Command {
	flags := &compareFlags{}

	cmd := &cobra.Command{
		Use:   "hadidi [flags] LEFT_DIR RIGHT_DIR",
		Short: "Compare two directory trees by file content",
		Long: `hadidi (HashDirDiff) hashes every regular file of two directory trees and
reports the content found only in the left tree, only in the right tree and,
optionally, the files whose content matches regardless of name or location.

Supported algorithms: ` + strings.Join(digest.Supported(), ", "),
		Example: `  hadidi backup/ photos/
  hadidi -q build-a build-b && echo identical
  hadidi -s -a -l sha256 -f '^\.' left right`,
		Version:       Version,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, flags, args[0], args[1])
		},
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	addGlobalFlags(cmd, flags)
	addCompareFlags(cmd, flags)

	cmd.AddCommand(NewConfigCommand(flags))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the command tree and returns the process exit code.
// Diagnostics go to the command's error stream.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", msg)
		}
	}
	return ExitCode(err)
}
