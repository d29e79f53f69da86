package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/signalnine/benchdiff/internal/stats"
)

var (
	printer = message.NewPrinter(language.English)
	upper   = cases.Upper(language.English)
)

var partLabels = map[string]string{
	"passed":     "PASSED",
	"failed":     "FAILED",
	"now passes": "Now PASSES",
	"now fails":  "Now FAILED",
	"minor":      "Minor",
}

func writeDiff(r *Report, w io.Writer, theme Theme) error {
	var b strings.Builder
	line := func(style func(string) string, format string, args ...any) {
		b.WriteString(style(fmt.Sprintf(format, args...)))
		b.WriteByte('\n')
	}
	header := func(s string) string { return theme.paint(theme.Header, s) }
	muted := func(s string) string { return theme.paint(theme.Muted, s) }

	line(header, "--- %s", r.Run1)
	line(header, "+++ %s", r.Run2)
	line(muted, "# ============= Failed Attempts per Test =============")

	for _, s := range r.Sections {
		style := theme.forKind(s.Kind)
		kind := func(text string) string { return theme.paint(style, text) }
		b.WriteByte('\n')
		line(func(text string) string { return theme.paint(theme.Section, text) }, "@@ %s @@", s.Title)
		for _, e := range s.Entries {
			if e.After == "" {
				line(kind, "%s%s: %s", s.Marker, e.Name, e.Before)
				continue
			}
			line(kind, "%s%s: %s -> %s", s.Marker, e.Name, e.Before, e.After)
		}
	}

	sum := r.Summary
	b.WriteByte('\n')
	line(muted, "# =============          TOTALS          =============")
	for _, c := range sum.Categories {
		if c.Count == 0 {
			continue
		}
		line(muted, "# %-8s: %s (%s)", upper.String(c.Name), count(c.Count), share(c.Share))
		for _, p := range c.Parts {
			line(muted, "#    %-10s: %s", partLabels[p.Label], count(p.Count))
		}
	}
	if sum.Tests.Diff == 0 {
		line(muted, "# TOTAL   : %s", count(int(sum.Tests.Base)))
	} else {
		line(muted, "# TOTAL   : %s%+d", count(int(sum.Tests.Base)), int(sum.Tests.Diff))
	}

	b.WriteByte('\n')
	line(muted, "# =============         METRICS          =============")
	rows := []metricRow{
		{"passed", true, sum.Passed, ""},
		{"failed", true, sum.Failed, ""},
		{"max_attempts", true, sum.MaxAttempts, ""},
	}
	for _, m := range sum.Metrics {
		note := ""
		if m.Skipped1+m.Skipped2 > 0 {
			note = fmt.Sprintf(" [unparsed: %d/%d]", m.Skipped1, m.Skipped2)
		}
		rows = append(rows, metricRow{m.Name, m.Integer, m.Delta, note})
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row.name))
	}
	for _, row := range rows {
		line(muted, "# %-*s: %s%s", width, row.name, formatDelta(row.delta, row.integer), row.note)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type metricRow struct {
	name    string
	integer bool
	delta   stats.Delta
	note    string
}

func count(n int) string {
	return printer.Sprintf("%d", n)
}

func share(r stats.Ratio) string {
	if !r.OK {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r.Value)
}

func change(r stats.Ratio) string {
	if !r.OK {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", r.Value)
}

func number(v float64, integer bool) string {
	if integer {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

func signed(v float64, integer bool) string {
	if integer {
		return printer.Sprintf("%+d", int64(v))
	}
	return printer.Sprintf("%+.2f", v)
}

// formatDelta renders "base -> head (+diff, +pct%)".
func formatDelta(d stats.Delta, integer bool) string {
	return fmt.Sprintf("%s -> %s (%s, %s)",
		number(d.Base, integer), number(d.Head, integer), signed(d.Diff, integer), change(d.Change))
}
