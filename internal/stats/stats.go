// Package stats aggregates a classified diff into counts, shares and metric
// deltas.
package stats

import (
	"log/slog"

	"github.com/signalnine/benchdiff/internal/compare"
	"github.com/signalnine/benchdiff/internal/pricing"
	"github.com/signalnine/benchdiff/internal/record"
	"github.com/signalnine/benchdiff/internal/run"
)

// PricedCost is the name of the metric estimated from token counts.
const PricedCost = "priced_cost"

// Ratio is a percentage that may be undefined because its denominator was
// zero.
type Ratio struct {
	Value float64 `json:"value"`
	OK    bool    `json:"ok"`
}

// Percent returns part as a percentage of whole.
func Percent(part, whole float64) Ratio {
	if whole == 0 {
		return Ratio{}
	}
	return Ratio{Value: part / whole * 100, OK: true}
}

// Delta compares a run-1 value against its run-2 counterpart.
type Delta struct {
	Base   float64 `json:"base"`
	Head   float64 `json:"head"`
	Diff   float64 `json:"diff"`
	Change Ratio   `json:"change"`
}

func NewDelta(base, head float64) Delta {
	return Delta{Base: base, Head: head, Diff: head - base, Change: Percent(head-base, base)}
}

type Part struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Category is one of the five classification lists, with its reporting
// splits.
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	// Share is relative to the number of tests in run 1, UnionShare to the
	// number of distinct tests across both runs.
	Share      Ratio  `json:"share"`
	UnionShare Ratio  `json:"union_share"`
	Parts      []Part `json:"parts"`
}

type Metric struct {
	Name    string `json:"name"`
	Integer bool   `json:"integer"`
	Delta
	// Skipped counts values that did not parse and were left out of the sum.
	Skipped1 int `json:"skipped_1,omitempty"`
	Skipped2 int `json:"skipped_2,omitempty"`
}

type Summary struct {
	Tests       Delta      `json:"tests"`
	Union       int        `json:"union"`
	Categories  []Category `json:"categories"`
	Passed      Delta      `json:"passed"`
	Failed      Delta      `json:"failed"`
	MaxAttempts Delta      `json:"max_attempts"`
	Metrics     []Metric   `json:"metrics"`
}

type Options struct {
	// Rate, when set, adds a priced_cost metric computed from token counts.
	Rate *pricing.Rate
}

// Summarize aggregates d over the runs it was computed from.
func Summarize(d *compare.Diff, opts Options) Summary {
	run1, run2 := d.Run1(), d.Run2()
	base := float64(len(run1))
	union := float64(d.Len())

	category := func(name string, names []string, parts ...Part) Category {
		return Category{
			Name:       name,
			Count:      len(names),
			Share:      Percent(float64(len(names)), base),
			UnionShare: Percent(float64(len(names)), union),
			Parts:      parts,
		}
	}

	s := Summary{
		Tests: NewDelta(base, float64(len(run2))),
		Union: d.Len(),
		Categories: []Category{
			category("removed", d.Only1,
				Part{"passed", len(d.RemovedPassed())},
				Part{"failed", len(d.RemovedFailed())}),
			category("new", d.Only2,
				Part{"passed", len(d.NewPassed())},
				Part{"failed", len(d.NewFailed())}),
			category("improved", d.Improved,
				Part{"now passes", len(d.ImprovedNowPasses())},
				Part{"minor", len(d.ImprovedMinor())}),
			category("worsened", d.Worsened,
				Part{"now fails", len(d.WorsenedNowFails())},
				Part{"minor", len(d.WorsenedMinor())}),
			category("stable", d.Stable,
				Part{"passed", len(d.StablePassed())},
				Part{"failed", len(d.StableFailed())}),
		},
		Passed:      NewDelta(float64(run1.Passed()), float64(run2.Passed())),
		Failed:      NewDelta(float64(run1.Failed()), float64(run2.Failed())),
		MaxAttempts: NewDelta(float64(MaxAttempts(run1)), float64(MaxAttempts(run2))),
	}

	for _, field := range record.Metrics() {
		t1, skipped1 := Sum(run1, field)
		t2, skipped2 := Sum(run2, field)
		s.Metrics = append(s.Metrics, Metric{
			Name:     field,
			Integer:  record.KindOf(field) == record.KindInt,
			Delta:    NewDelta(t1, t2),
			Skipped1: skipped1,
			Skipped2: skipped2,
		})
	}
	if opts.Rate != nil {
		c1, skipped1 := PricedSum(run1, *opts.Rate)
		c2, skipped2 := PricedSum(run2, *opts.Rate)
		s.Metrics = append(s.Metrics, Metric{
			Name:     PricedCost,
			Delta:    NewDelta(c1, c2),
			Skipped1: skipped1,
			Skipped2: skipped2,
		})
	}
	return s
}

// Sum totals field across r. Values that failed to coerce are not added and
// are counted in skipped instead.
func Sum(r run.Run, field string) (total float64, skipped int) {
	for _, name := range r.Names() {
		v, ok := r[name].Field(field).Float()
		if !ok {
			slog.Debug("excluding unparsed value from sum", "test", name, "field", field, "raw", r[name].Field(field).Raw())
			skipped++
			continue
		}
		total += v
	}
	return total, skipped
}

// PricedSum estimates the token cost of r at rate.
func PricedSum(r run.Run, rate pricing.Rate) (total float64, skipped int) {
	for _, name := range r.Names() {
		t := r[name]
		sent, ok1 := t.Field(record.FieldSentTokens).Int()
		received, ok2 := t.Field(record.FieldReceivedTokens).Int()
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		total += rate.Cost(sent, received)
	}
	return total, skipped
}

// MaxAttempts is the largest number of attempts made by a test that never
// passed, or 0 when every test passed.
func MaxAttempts(r run.Run) int {
	most := 0
	for _, t := range r {
		n, ok := t.FailedAttempts()
		if ok && n < 0 && -n > most {
			most = -n
		}
	}
	return most
}
