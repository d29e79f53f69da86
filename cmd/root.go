package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/signalnine/benchdiff/internal/compare"
	"github.com/signalnine/benchdiff/internal/config"
	"github.com/signalnine/benchdiff/internal/lister"
	"github.com/signalnine/benchdiff/internal/logging"
	"github.com/signalnine/benchdiff/internal/pricing"
	"github.com/signalnine/benchdiff/internal/report"
	"github.com/signalnine/benchdiff/internal/run"
	"github.com/signalnine/benchdiff/internal/stats"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config

	flagFormat string
	flagColor  string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "benchdiff [flags] <run-1> <run-2>",
		Short: "Compare two benchmark runs test by test",
		Long: `Compare the per-test failed attempt counts of two benchmark runs and
report which tests were removed, added, improved, worsened or stayed stable,
followed by aggregate totals and metric deltas.`,
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: setup,
		RunE:              runDiff,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "benchdiff.yaml", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&flagFormat, "format", "", "report format (diff, markdown, json); defaults to report.format")
	root.Flags().StringVar(&flagColor, "color", "", "colorize diff output (auto, always, never); defaults to report.color")
	root.AddCommand(newListCmd())
	root.AddCommand(newBatchCmd())
	return root
}

// setup configures logging and loads the config. A missing config file is
// only an error when --config was given explicitly.
func setup(cmd *cobra.Command, _ []string) error {
	// Arguments are valid by now; later failures should not print usage.
	cmd.SilenceUsage = true
	if err := logging.Setup(logLevel); err != nil {
		return err
	}
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOptional(cfgFile)
	}
	return err
}

func runDiff(cmd *cobra.Command, args []string) error {
	l, err := lister.New(cfg.Lister)
	if err != nil {
		return err
	}
	d, err := diffRuns(cmd.Context(), l, args[0], args[1])
	if err != nil {
		return err
	}

	opts, err := statsOptions(cfg.Pricing)
	if err != nil {
		return err
	}
	r := report.New(args[0], args[1], d, stats.Summarize(d, opts))

	format := flagFormat
	if format == "" {
		format = cfg.Report.Format
	}
	color := flagColor
	if color == "" {
		color = cfg.Report.Color
	}
	useColor, err := resolveColor(color, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), r, format, report.Options{Color: useColor})
}

// diffRuns loads both runs with fresh mappings and classifies them.
func diffRuns(ctx context.Context, l lister.Lister, dir1, dir2 string) (*compare.Diff, error) {
	run1, err := loadRun(ctx, l, dir1)
	if err != nil {
		return nil, err
	}
	run2, err := loadRun(ctx, l, dir2)
	if err != nil {
		return nil, err
	}
	return compare.Classify(run1, run2), nil
}

func loadRun(ctx context.Context, l lister.Lister, dir string) (run.Run, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Lister.Timeout)
	defer cancel()
	return run.Load(ctx, l, dir)
}

func statsOptions(p config.Pricing) (stats.Options, error) {
	if p.File == "" {
		return stats.Options{}, nil
	}
	table, err := pricing.Load(p.File)
	if err != nil {
		return stats.Options{}, err
	}
	rate, err := table.Rate(p.Provider, p.Model)
	if err != nil {
		return stats.Options{}, err
	}
	return stats.Options{Rate: &rate}, nil
}

func resolveColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown color mode %q", mode)
	}
}
