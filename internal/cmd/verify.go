package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/fixcheck/internal/config"
	"github.com/harrison/fixcheck/internal/display"
	"github.com/harrison/fixcheck/internal/history"
	"github.com/harrison/fixcheck/internal/logger"
	"github.com/harrison/fixcheck/internal/manifest"
	"github.com/harrison/fixcheck/internal/models"
	"github.com/harrison/fixcheck/internal/report"
	"github.com/harrison/fixcheck/internal/verifier"
)

// verifyOptions holds the flags shared by the root and verify commands
type verifyOptions struct {
	configPath  string
	target      string
	manifest    string
	logLevel    string
	reportPath  string
	historyPath string
}

func (o *verifyOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "config file (default: nearest .fixcheck/config.yaml)")
	flags.StringVarP(&o.target, "target", "t", "", "file to scan (overrides config and "+config.EnvTarget+")")
	flags.StringVarP(&o.manifest, "manifest", "m", "", "manifest file (.yaml or .md) or built-in manifest name")
	flags.StringVar(&o.logLevel, "log-level", "", "diagnostic log level: trace, debug, info, warn, error")
	flags.StringVar(&o.reportPath, "report", "", "write the result to this .json or .yaml file")
	flags.StringVar(&o.historyPath, "history", "", "record the run in this SQLite history database")
}

// NewVerifyCommand creates and returns the verify subcommand
func NewVerifyCommand() *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [target-file]",
		Short: "Check a file against a manifest of required and forbidden patterns",
		Long: `Load the target file once and evaluate every check of the manifest
against its full content. Checks that require a pattern fail when it is
missing; checks that forbid a pattern fail when it is found. Every check is
evaluated and reported even after a failure.

The target is taken, in increasing precedence, from the manifest, the config
file, the ` + config.EnvTarget + ` environment variable, --target, and the
positional argument.

Exit code: 0 if every check passed, 1 otherwise`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, args)
		},
		SilenceUsage: true,
	}

	opts.bind(cmd)
	return cmd
}

// resolveConfig builds the effective configuration: defaults, then the
// config file, then the environment, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *verifyOptions, args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		if _, statErr := os.Stat(opts.configPath); statErr != nil {
			return nil, fmt.Errorf("config file %s: %w", opts.configPath, statErr)
		}
		cfg, err = config.LoadConfig(opts.configPath)
	} else {
		var cwd string
		cwd, err = os.Getwd()
		if err == nil {
			cfg, err = config.LoadConfigFromDir(cwd)
		}
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)

	changed := func(name string, value *string) *string {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return value
		}
		return nil
	}
	cfg.MergeWithFlags(
		changed("target", &opts.target),
		changed("manifest", &opts.manifest),
		changed("log-level", &opts.logLevel),
		changed("report", &opts.reportPath),
		changed("history", &opts.historyPath),
	)
	if len(args) == 1 {
		cfg.TargetPath = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runVerify(cmd *cobra.Command, opts *verifyOptions, args []string) error {
	cfg, err := resolveConfig(cmd, opts, args)
	if err != nil {
		return err
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return verifyWithConfig(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), log)
}

// verifyWithConfig runs one verification and writes the report to out.
// Warnings go to errOut.
func verifyWithConfig(ctx context.Context, cfg *config.Config, out, errOut io.Writer, log logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return err
	}
	log.LogManifest(m)

	v, err := verifier.New(m)
	if err != nil {
		return err
	}
	if present, _ := m.CountByExpectation(); present == 0 {
		display.WarnNoRequiredPatterns(m.Name).Display(errOut)
	}

	target := cfg.TargetPath
	if target == "" {
		target = m.Target
	}
	if target == "" {
		return fmt.Errorf("no target file: pass one as an argument, set %s, or set target_path", config.EnvTarget)
	}
	log.LogDebug(fmt.Sprintf("scanning %s", target))

	reporter := display.NewReporter(out)

	start := time.Now()
	result, err := v.Verify(target)
	if err != nil {
		reporter.FileError(err)
		log.LogDebug(err.Error())
		return err
	}
	log.LogResult(result, time.Since(start))

	reporter.Report(result, m)

	if cfg.HistoryPath != "" {
		if err := recordRun(ctx, cfg.HistoryPath, result); err != nil {
			display.WarnHistoryUnavailable(cfg.HistoryPath, err).Display(errOut)
		} else {
			log.LogDebug(fmt.Sprintf("recorded run %s in %s", result.RunID, cfg.HistoryPath))
		}
	}

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.LogInfo(fmt.Sprintf("report written to %s", cfg.ReportPath))
	}

	if !result.Passed {
		return verifier.ErrChecksFailed
	}
	return nil
}

func recordRun(ctx context.Context, path string, result *models.Result) error {
	store, err := history.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, result)
}
