package report

import (
	"fmt"
	"io"
	"strings"
)

func writeMarkdown(r *Report, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s → %s\n\n", r.Run1, r.Run2)

	fmt.Fprintln(&b, "| Category | Tests | Share | Breakdown |")
	fmt.Fprintln(&b, "|---|---|---|---|")
	for _, c := range r.Summary.Categories {
		parts := make([]string, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, fmt.Sprintf("%s %d", p.Label, p.Count))
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", c.Name, c.Count, share(c.Share), strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "| total | %d | | %+d vs run 1 |\n\n", int(r.Summary.Tests.Base), int(r.Summary.Tests.Diff))

	fmt.Fprintln(&b, "| Metric | Run 1 | Run 2 | Δ | Δ% |")
	fmt.Fprintln(&b, "|---|---|---|---|---|")
	row := func(name string, integer bool, base, head, diff float64, pct string) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			name, number(base, integer), number(head, integer), signed(diff, integer), pct)
	}
	s := r.Summary
	row("passed", true, s.Passed.Base, s.Passed.Head, s.Passed.Diff, change(s.Passed.Change))
	row("failed", true, s.Failed.Base, s.Failed.Head, s.Failed.Diff, change(s.Failed.Change))
	row("max_attempts", true, s.MaxAttempts.Base, s.MaxAttempts.Head, s.MaxAttempts.Diff, change(s.MaxAttempts.Change))
	for _, m := range s.Metrics {
		row(m.Name, m.Integer, m.Base, m.Head, m.Diff, change(m.Change))
	}

	if len(r.Sections) > 0 {
		fmt.Fprintln(&b)
		for _, sec := range r.Sections {
			fmt.Fprintf(&b, "### %s\n\n", sec.Title)
			for _, e := range sec.Entries {
				if e.After == "" {
					fmt.Fprintf(&b, "- `%s`: %s\n", e.Name, e.Before)
				} else {
					fmt.Fprintf(&b, "- `%s`: %s → %s\n", e.Name, e.Before, e.After)
				}
			}
			fmt.Fprintln(&b)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
