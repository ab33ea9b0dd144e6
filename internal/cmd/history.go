package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/fixcheck/internal/config"
	"github.com/harrison/fixcheck/internal/history"
)

// NewHistoryCommand creates the history subcommand and its show child
func NewHistoryCommand() *cobra.Command {
	var dbPath, target string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded verification runs",
		Long: `List verification runs recorded with --history (or history_path in the
config file), newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), target, limit)
			if err != nil {
				return err
			}
			displayRuns(cmd.OutOrStdout(), runs)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "history", "", "history database (default: history_path from config)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "only show runs against this target")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs to show")

	cmd.AddCommand(newHistoryShowCommand(&dbPath))
	return cmd
}

func newHistoryShowCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-check outcomes of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			outcomes, err := store.Outcomes(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			displayRuns(out, []history.Run{*run})
			fmt.Fprintln(out)
			for i, o := range outcomes {
				mark := "✅"
				if !o.Passed {
					mark = "❌"
				}
				fmt.Fprintf(out, "%s %d. [%s] %s\n", mark, i+1, o.Expect, o.Label)
			}
			return nil
		},
		SilenceUsage: true,
	}
}

// openHistory opens the database named by the flag, falling back to the
// history_path of the nearest config file
func openHistory(dbPath string) (*history.Store, error) {
	if dbPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err := config.LoadConfigFromDir(cwd)
		if err != nil {
			return nil, err
		}
		dbPath = cfg.HistoryPath
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no history database: pass --history or set history_path in %s/config.yaml", config.DirName)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("history database %s: %w", dbPath, err)
	}
	return history.NewStore(dbPath)
}

// displayRuns prints runs as a fixed-width table, coloring the verdict on TTYs
func displayRuns(out io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}

	colorOutput := false
	if f, ok := out.(*os.File); ok {
		colorOutput = isatty.IsTerminal(f.Fd())
	}
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	if colorOutput {
		pass.EnableColor()
		fail.EnableColor()
	} else {
		pass.DisableColor()
		fail.DisableColor()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-10s %-20s %-6s %-8s %-24s %s\n",
		"RUN", "WHEN", "RESULT", "CHECKS", "MANIFEST", "TARGET"))
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		verdict := pass.Sprintf("%-6s", "PASS")
		if !r.Passed {
			verdict = fail.Sprintf("%-6s", "FAIL")
		}
		sb.WriteString(fmt.Sprintf("%-10s %-20s %s %-8s %-24s %s\n",
			id, r.CheckedAt.Local().Format("2006-01-02 15:04:05"), verdict,
			fmt.Sprintf("%d/%d", r.PassedChecks, r.TotalChecks), r.Manifest, r.Target))
	}
	fmt.Fprint(out, sb.String())
}
