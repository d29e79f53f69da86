// Package run loads the test results of one benchmark run.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/signalnine/benchdiff/internal/lister"
	"github.com/signalnine/benchdiff/internal/record"
)

// Run maps test names to their result. Names are unique within a run.
type Run map[string]*record.TestResult

// Names returns the test names in lexicographic order.
func (r Run) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Passed counts the tests that eventually passed.
func (r Run) Passed() int {
	n := 0
	for _, t := range r {
		if t.Passed() {
			n++
		}
	}
	return n
}

// Failed counts the tests that exhausted their attempt budget.
func (r Run) Failed() int {
	n := 0
	for _, t := range r {
		if t.Failed() {
			n++
		}
	}
	return n
}

// Load asks l for the listing of dir and parses it. A failing lister yields an
// empty run rather than an error; a malformed data line aborts the load.
func Load(ctx context.Context, l lister.Lister, dir string) (Run, error) {
	listing, err := l.List(ctx, dir)
	if err != nil {
		slog.Warn("run lister failed, treating run as empty", "dir", dir, "err", err)
		return Run{}, nil
	}
	r, err := Parse(listing)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", dir, err)
	}
	slog.Debug("loaded run", "dir", dir, "tests", len(r))
	return r, nil
}

// Parse builds a run from a raw listing. Only lines starting with a digit or
// a minus sign are records; everything else is skipped. When a name appears
// twice the later line wins.
func Parse(listing string) (Run, error) {
	r := Run{}
	for i, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if !isDataLine(line) {
			continue
		}
		t, err := record.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if _, dup := r[t.Name()]; dup {
			slog.Debug("duplicate test name, keeping last", "name", t.Name(), "line", i+1)
		}
		r[t.Name()] = t
	}
	return r, nil
}

func isDataLine(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return (c >= '0' && c <= '9') || c == '-'
}
