package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/fixcheck/internal/display"
	"github.com/harrison/fixcheck/internal/manifest"
)

// NewChecksCommand creates the checks subcommand, which lists a manifest's
// checks without reading any target file
func NewChecksCommand() *cobra.Command {
	var manifestRef string

	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the checks of a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(manifestRef)
			if err != nil {
				return err
			}
			display.NewReporter(cmd.OutOrStdout()).ListChecks(m)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "manifest file (.yaml or .md) or built-in manifest name")
	return cmd
}
