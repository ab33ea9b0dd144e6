package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/harrison/fixcheck/internal/verifier"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for fixcheck.
// Invoked without a subcommand it runs verify with the configured defaults.
func NewRootCommand() *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "fixcheck",
		Short: "Verify that a source file contains an expected fix",
		Long: `fixcheck statically verifies that a front-end source file contains the
code patterns of an expected fix, and no longer contains the implementation
it replaced, by scanning it with regular expressions.

Run without arguments it checks the configured target against the configured
manifest (by default the built-in category-button-fix manifest).

Exit code: 0 if every check passed, 1 otherwise`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, nil)
		},
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.bind(cmd)

	cmd.AddCommand(NewVerifyCommand())
	cmd.AddCommand(NewChecksCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// Reported reports whether err has already been shown to the user as part
// of the verification report, so callers should only set the exit status.
func Reported(err error) bool {
	if errors.Is(err, verifier.ErrChecksFailed) {
		return true
	}
	_, ok := verifier.IsFileError(err)
	return ok
}
