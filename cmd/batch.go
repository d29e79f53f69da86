package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/signalnine/benchdiff/internal/compare"
	"github.com/signalnine/benchdiff/internal/lister"
	"github.com/signalnine/benchdiff/internal/runner"
)

var flagParallel int

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <baseline> <candidate>...",
		Short: "Compare several candidate runs against one baseline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lister.New(cfg.Lister)
			if err != nil {
				return err
			}
			parallel := flagParallel
			if parallel <= 0 {
				parallel = cfg.Batch.Parallel
			}
			return runBatch(cmd.Context(), cmd.OutOrStdout(), l, parallel, args[0], args[1:])
		},
	}
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "max concurrent comparisons; defaults to batch.parallel")
	return cmd
}

// runBatch compares every candidate against baseline and prints one summary
// line per candidate in argument order.
func runBatch(ctx context.Context, w io.Writer, l lister.Lister, parallel int, baseline string, candidates []string) error {
	diffs := make([]*compare.Diff, len(candidates))
	jobs := make([]runner.Job, len(candidates))
	for i, candidate := range candidates {
		jobs[i] = func(ctx context.Context) error {
			d, err := diffRuns(ctx, l, baseline, candidate)
			if err != nil {
				return err
			}
			diffs[i] = d
			return nil
		}
	}
	errs := runner.RunPool(ctx, parallel, jobs)

	for i, candidate := range candidates {
		if errs[i] != nil {
			fmt.Fprintf(w, "%s: ERROR: %v\n", candidate, errs[i])
			continue
		}
		fmt.Fprintln(w, summaryLine(candidate, diffs[i]))
	}
	if n := runner.Failed(errs); n > 0 {
		return fmt.Errorf("%d of %d comparisons failed", n, len(candidates))
	}
	return nil
}

func summaryLine(name string, d *compare.Diff) string {
	return fmt.Sprintf("%s: improved %d, worsened %d, new %d, removed %d, passed %+d",
		name, len(d.Improved), len(d.Worsened), len(d.Only2), len(d.Only1),
		d.Run2().Passed()-d.Run1().Passed())
}
