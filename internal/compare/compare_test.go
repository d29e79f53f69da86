package compare_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/benchdiff/internal/compare"
	"github.com/signalnine/benchdiff/internal/record"
	"github.com/signalnine/benchdiff/internal/run"
)

func mkRun(t *testing.T, attempts map[string]string) run.Run {
	t.Helper()
	r := run.Run{}
	for name, n := range attempts {
		rec, err := record.Parse(record.Line(map[string]string{
			record.FieldFailedAttempts: n,
			record.FieldName:           name,
		}))
		require.NoError(t, err)
		r[name] = rec
	}
	return r
}

func ints(m map[string]int) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func TestClassifyScenario(t *testing.T) {
	run1 := mkRun(t, ints(map[string]int{"A": 2, "B": -1, "C": 0}))
	run2 := mkRun(t, ints(map[string]int{"A": 1, "C": 0, "D": 5}))

	d := compare.Classify(run1, run2)
	assert.Equal(t, []string{"B"}, d.Only1)
	assert.Equal(t, []string{"D"}, d.Only2)
	assert.Equal(t, []string{"A"}, d.Improved)
	assert.Empty(t, d.Worsened)
	assert.Equal(t, []string{"C"}, d.Stable)
	assert.Equal(t, 4, d.Len())
}

func TestOf(t *testing.T) {
	tests := []struct {
		name   string
		n1, n2 string
		want   compare.Transition
	}{
		{"equal pass", "0", "0", compare.Stable},
		{"equal fail", "-2", "-2", compare.Stable},
		{"both exhausted, different magnitude", "-3", "-5", compare.Stable},
		{"now passes", "-1", "0", compare.Improved},
		{"now passes after retries", "-4", "3", compare.Improved},
		{"now fails", "0", "-1", compare.Worsened},
		{"fewer retries", "3", "1", compare.Improved},
		{"more retries", "1", "3", compare.Worsened},
		{"unparsed run 1", "x", "1", compare.Stable},
		{"unparsed run 2", "1", "?", compare.Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r1 := mkRun(t, map[string]string{"t": tt.n1})
			r2 := mkRun(t, map[string]string{"t": tt.n2})
			assert.Equal(t, tt.want, compare.Of(r1["t"], r2["t"]))
		})
	}
}

func TestOfMissing(t *testing.T) {
	r := mkRun(t, map[string]string{"t": "0"})
	assert.Equal(t, compare.Removed, compare.Of(r["t"], nil))
	assert.Equal(t, compare.New, compare.Of(nil, r["t"]))
}

func randomRun(t *testing.T, rng *rand.Rand) run.Run {
	m := map[string]int{}
	for i := 0; i < 30; i++ {
		if rng.Intn(3) == 0 {
			continue
		}
		m[fmt.Sprintf("test-%02d", i)] = rng.Intn(9) - 4
	}
	return mkRun(t, ints(m))
}

func TestClassifyPartitionsUnion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		run1, run2 := randomRun(t, rng), randomRun(t, rng)
		d := compare.Classify(run1, run2)

		var all []string
		for _, list := range [][]string{d.Only1, d.Only2, d.Improved, d.Worsened, d.Stable} {
			assert.True(t, sort.StringsAreSorted(list))
			all = append(all, list...)
		}
		union := map[string]bool{}
		for name := range run1 {
			union[name] = true
		}
		for name := range run2 {
			union[name] = true
		}
		seen := map[string]bool{}
		for _, name := range all {
			require.False(t, seen[name], "%s classified twice", name)
			seen[name] = true
		}
		assert.Equal(t, union, seen)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	r := mkRun(t, ints(map[string]int{"a": 0, "b": 3, "c": -2, "d": -7}))
	d := compare.Classify(r, r)
	assert.Empty(t, d.Only1)
	assert.Empty(t, d.Only2)
	assert.Empty(t, d.Improved)
	assert.Empty(t, d.Worsened)
	assert.Equal(t, []string{"a", "b", "c", "d"}, d.Stable)
}

func TestClassifySwapSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		run1, run2 := randomRun(t, rng), randomRun(t, rng)
		fwd := compare.Classify(run1, run2)
		rev := compare.Classify(run2, run1)
		assert.Equal(t, fwd.Only1, rev.Only2)
		assert.Equal(t, fwd.Only2, rev.Only1)
		assert.Equal(t, fwd.Improved, rev.Worsened)
		assert.Equal(t, fwd.Worsened, rev.Improved)
		assert.Equal(t, fwd.Stable, rev.Stable)
	}
}

func TestSplits(t *testing.T) {
	run1 := mkRun(t, ints(map[string]int{
		"gone-pass": 0, "gone-fail": -2,
		"fixed": -1, "faster": 2,
		"broke": 0, "slower": 1,
		"steady": 1, "stuck": -3,
	}))
	run2 := mkRun(t, ints(map[string]int{
		"new-pass": 1, "new-fail": -1,
		"fixed": 0, "faster": 1,
		"broke": -1, "slower": 2,
		"steady": 1, "stuck": -4,
	}))
	d := compare.Classify(run1, run2)

	assert.Equal(t, []string{"gone-pass"}, d.RemovedPassed())
	assert.Equal(t, []string{"gone-fail"}, d.RemovedFailed())
	assert.Equal(t, []string{"new-pass"}, d.NewPassed())
	assert.Equal(t, []string{"new-fail"}, d.NewFailed())
	assert.Equal(t, []string{"fixed"}, d.ImprovedNowPasses())
	assert.Equal(t, []string{"faster"}, d.ImprovedMinor())
	assert.Equal(t, []string{"broke"}, d.WorsenedNowFails())
	assert.Equal(t, []string{"slower"}, d.WorsenedMinor())
	assert.Equal(t, []string{"steady"}, d.StablePassed())
	assert.Equal(t, []string{"stuck"}, d.StableFailed())
}

func TestClassifyEmptyRuns(t *testing.T) {
	r := mkRun(t, ints(map[string]int{"a": 0, "b": -1}))

	d := compare.Classify(run.Run{}, r)
	assert.Equal(t, []string{"a", "b"}, d.Only2)

	d = compare.Classify(r, run.Run{})
	assert.Equal(t, []string{"a", "b"}, d.Only1)

	d = compare.Classify(run.Run{}, run.Run{})
	assert.Zero(t, d.Len())
}

func TestDiffOf(t *testing.T) {
	run1 := mkRun(t, ints(map[string]int{"A": 2, "B": -1, "C": 0, "E": 0}))
	run2 := mkRun(t, ints(map[string]int{"A": 1, "C": 0, "D": 5, "E": -1}))
	d := compare.Classify(run1, run2)

	tests := []struct {
		name string
		want compare.Transition
	}{
		{"A", compare.Improved},
		{"B", compare.Removed},
		{"C", compare.Stable},
		{"D", compare.New},
		{"E", compare.Worsened},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Of(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := d.Of("Z")
	assert.False(t, ok)
}

func TestDiffJSONUsesArrays(t *testing.T) {
	d := compare.Classify(run.Run{}, run.Run{})
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"only_1":[],"only_2":[],"improved":[],"worsened":[],"stable":[]}`, string(data))
}

func TestTransitionString(t *testing.T) {
	assert.Equal(t, "removed", compare.Removed.String())
	assert.Equal(t, "worsened", compare.Worsened.String())
}
