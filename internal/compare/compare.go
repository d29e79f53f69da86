// Package compare classifies how each test changed between two runs.
package compare

import (
	"github.com/signalnine/benchdiff/internal/record"
	"github.com/signalnine/benchdiff/internal/run"
)

// Transition is the category a test falls into.
type Transition int

const (
	Removed Transition = iota
	New
	Improved
	Worsened
	Stable
)

func (t Transition) String() string {
	switch t {
	case Removed:
		return "removed"
	case New:
		return "new"
	case Improved:
		return "improved"
	case Worsened:
		return "worsened"
	default:
		return "stable"
	}
}

// Diff partitions the union of both runs' test names into five disjoint,
// sorted lists.
type Diff struct {
	Only1    []string `json:"only_1"`
	Only2    []string `json:"only_2"`
	Improved []string `json:"improved"`
	Worsened []string `json:"worsened"`
	Stable   []string `json:"stable"`

	run1, run2 run.Run
}

// Classify compares run2 against run1, test by test in name order.
func Classify(run1, run2 run.Run) *Diff {
	d := &Diff{
		Only1:    []string{},
		Only2:    []string{},
		Improved: []string{},
		Worsened: []string{},
		Stable:   []string{},
		run1:     run1,
		run2:     run2,
	}
	for _, name := range union(run1, run2) {
		switch Of(run1[name], run2[name]) {
		case Removed:
			d.Only1 = append(d.Only1, name)
		case New:
			d.Only2 = append(d.Only2, name)
		case Improved:
			d.Improved = append(d.Improved, name)
		case Worsened:
			d.Worsened = append(d.Worsened, name)
		default:
			d.Stable = append(d.Stable, name)
		}
	}
	return d
}

// Of classifies a single test given its result in each run; a nil result means
// the test is absent from that run.
func Of(t1, t2 *record.TestResult) Transition {
	switch {
	case t2 == nil:
		return Removed
	case t1 == nil:
		return New
	}
	c, ok := record.CompareAttemptCount(t1, t2)
	if !ok || c == 0 {
		return Stable
	}
	n1, _ := t1.FailedAttempts()
	n2, _ := t2.FailedAttempts()
	switch {
	case n1 < 0 && n2 < 0:
		return Stable
	case n1 < 0:
		return Improved
	case n2 < 0:
		return Worsened
	case c > 0:
		return Improved
	case c < 0:
		return Worsened
	default:
		return Stable
	}
}

func union(run1, run2 run.Run) []string {
	all := make(run.Run, len(run1)+len(run2))
	for name, t := range run1 {
		all[name] = t
	}
	for name, t := range run2 {
		all[name] = t
	}
	return all.Names()
}

// Of returns the category of the named test. ok is false when the name is in
// neither run.
func (d *Diff) Of(name string) (t Transition, ok bool) {
	t1, in1 := d.run1[name]
	t2, in2 := d.run2[name]
	if !in1 && !in2 {
		return Stable, false
	}
	return Of(t1, t2), true
}

// Run1 and Run2 return the runs the diff was computed from.
func (d *Diff) Run1() run.Run { return d.run1 }
func (d *Diff) Run2() run.Run { return d.run2 }

// Len is the number of distinct test names across both runs.
func (d *Diff) Len() int {
	return len(d.Only1) + len(d.Only2) + len(d.Improved) + len(d.Worsened) + len(d.Stable)
}

// The splits below only refine the categories for reporting. Each pair
// partitions its category; a test whose attempt count did not parse lands on
// the passing side.

func (d *Diff) RemovedPassed() []string { return filter(d.Only1, d.run1, not(failed)) }
func (d *Diff) RemovedFailed() []string { return filter(d.Only1, d.run1, failed) }
func (d *Diff) NewPassed() []string     { return filter(d.Only2, d.run2, not(failed)) }
func (d *Diff) NewFailed() []string     { return filter(d.Only2, d.run2, failed) }

// ImprovedNowPasses are improvements that crossed from an exhausted budget to
// a pass.
func (d *Diff) ImprovedNowPasses() []string { return filter(d.Improved, d.run1, failed) }
func (d *Diff) ImprovedMinor() []string     { return filter(d.Improved, d.run1, not(failed)) }

// WorsenedNowFails are regressions that crossed from a pass to an exhausted
// budget.
func (d *Diff) WorsenedNowFails() []string { return filter(d.Worsened, d.run2, failed) }
func (d *Diff) WorsenedMinor() []string    { return filter(d.Worsened, d.run2, not(failed)) }

func (d *Diff) StablePassed() []string { return filter(d.Stable, d.run1, not(failed)) }
func (d *Diff) StableFailed() []string { return filter(d.Stable, d.run1, failed) }

func failed(t *record.TestResult) bool { return t.Failed() }

func not(f func(*record.TestResult) bool) func(*record.TestResult) bool {
	return func(t *record.TestResult) bool { return !f(t) }
}

func filter(names []string, r run.Run, keep func(*record.TestResult) bool) []string {
	var out []string
	for _, name := range names {
		if t, ok := r[name]; ok && keep(t) {
			out = append(out, name)
		}
	}
	return out
}
