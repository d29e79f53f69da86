package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/signalnine/benchdiff/internal/lister"
	"github.com/signalnine/benchdiff/internal/record"
	"github.com/signalnine/benchdiff/internal/run"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <run>",
		Short: "Print the test records of a single run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lister.New(cfg.Lister)
			if err != nil {
				return err
			}
			r, err := loadRun(cmd.Context(), l, args[0])
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), r)
		},
	}
}

func writeRecords(w io.Writer, r run.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	metrics := record.Metrics()
	header := []string{"NAME", "ATTEMPTS", "STATUS"}
	for _, f := range metrics {
		header = append(header, strings.ToUpper(f))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, name := range r.Names() {
		t := r[name]
		status := "passed"
		if t.Failed() {
			status = "failed"
		} else if _, ok := t.FailedAttempts(); !ok {
			status = "unknown"
		}
		row := []string{name, t.Field(record.FieldFailedAttempts).String(), status}
		for _, f := range metrics {
			row = append(row, t.Field(f).String())
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d tests, %d passed, %d failed\n", len(r), r.Passed(), r.Failed())
	return err
}
