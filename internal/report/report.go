package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/signalnine/benchdiff/internal/compare"
	"github.com/signalnine/benchdiff/internal/record"
	"github.com/signalnine/benchdiff/internal/run"
	"github.com/signalnine/benchdiff/internal/stats"
)

// Entry is one test line within a section.
type Entry struct {
	Name   string `json:"name"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// Section groups the tests of one category split, e.g. "Improved, now PASSED".
type Section struct {
	Kind    compare.Transition `json:"-"`
	Title   string             `json:"title"`
	Marker  string             `json:"marker"`
	Entries []Entry            `json:"entries"`
}

type Report struct {
	Run1     string        `json:"run_1"`
	Run2     string        `json:"run_2"`
	Diff     *compare.Diff `json:"diff"`
	Sections []Section     `json:"sections"`
	Summary  stats.Summary `json:"summary"`
}

// New assembles a report for d. Run names are shortened to their base names.
func New(run1Dir, run2Dir string, d *compare.Diff, summary stats.Summary) *Report {
	r := &Report{
		Run1:    filepath.Base(run1Dir),
		Run2:    filepath.Base(run2Dir),
		Diff:    d,
		Summary: summary,
	}
	run1, run2 := d.Run1(), d.Run2()

	single := func(kind compare.Transition, title, prefix string, names []string, from run.Run) {
		if len(names) == 0 {
			return
		}
		s := Section{Kind: kind, Title: fmt.Sprintf(title, len(names)), Marker: prefix}
		for _, name := range names {
			s.Entries = append(s.Entries, Entry{Name: name, Before: attempts(from, name)})
		}
		r.Sections = append(r.Sections, s)
	}
	pair := func(kind compare.Transition, title, marker string, names []string, onlyFailedAfter bool) {
		if len(names) == 0 {
			return
		}
		s := Section{Kind: kind, Title: fmt.Sprintf(title, len(names)), Marker: marker}
		for _, name := range names {
			e := Entry{Name: name, Before: attempts(run1, name)}
			if !onlyFailedAfter || run2[name].Failed() {
				e.After = attempts(run2, name)
			}
			s.Entries = append(s.Entries, e)
		}
		r.Sections = append(r.Sections, s)
	}

	single(compare.Removed, "REMOVED (%d PASSED)", "<+", d.RemovedPassed(), run1)
	single(compare.Removed, "REMOVED (%d FAILED)", "<-", d.RemovedFailed(), run1)
	single(compare.New, "NEW (%d PASSED)", ">+", d.NewPassed(), run2)
	single(compare.New, "NEW (%d FAILED)", ">-", d.NewFailed(), run2)
	pair(compare.Improved, "Improved, now PASSED (%d)", "++", d.ImprovedNowPasses(), false)
	pair(compare.Improved, "Improved, minor (%d)", "+ ", d.ImprovedMinor(), false)
	pair(compare.Worsened, "Worsened, now FAILED (%d)", "--", d.WorsenedNowFails(), false)
	pair(compare.Worsened, "Worsened, still PASSED (%d)", "- ", d.WorsenedMinor(), false)
	pair(compare.Stable, "Stable: PASSED (%d)", "=+", d.StablePassed(), true)
	pair(compare.Stable, "Stable: FAILED (%d)", "=-", d.StableFailed(), true)
	return r
}

func attempts(r run.Run, name string) string {
	return r[name].Field(record.FieldFailedAttempts).String()
}

type Options struct {
	// Color enables ANSI styling of the diff format.
	Color bool
}

// Write renders r in the given format: "diff" (default), "markdown" or "json".
func Write(w io.Writer, r *Report, format string, opts Options) error {
	switch format {
	case "markdown":
		return writeMarkdown(r, w)
	case "json":
		return writeJSON(r, w)
	case "diff", "":
		theme := MonoTheme()
		if opts.Color {
			theme = ColorTheme(w)
		}
		return writeDiff(r, w, theme)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
