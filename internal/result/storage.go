package result

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/signalnine/benchdiff/internal/record"
)

// FileName is the name of the per-test results file inside a run directory.
const FileName = ".aider.results.json"

func WriteTestCase(testDir string, tc *TestCase) error {
	if err := os.MkdirAll(testDir, 0o755); err != nil {
		return fmt.Errorf("creating test dir: %w", err)
	}
	data, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(filepath.Join(testDir, FileName), data, 0o644)
}

func ReadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	var tc TestCase
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}
	if tc.TestCase == "" {
		tc.TestCase = filepath.Base(filepath.Dir(path))
	}
	return &tc, nil
}

// Collect walks runDir and reads every results file below it. Unreadable
// subdirectories, unreadable files and test cases without any outcome are
// skipped; only an unreadable runDir or a cancelled ctx is an error.
func Collect(ctx context.Context, runDir string) ([]*TestCase, error) {
	var cases []*TestCase
	err := filepath.Walk(runDir, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == runDir {
				return err
			}
			slog.Debug("skipping unreadable path", "path", path, "err", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != FileName {
			return nil
		}
		tc, err := ReadTestCase(path)
		if err != nil {
			slog.Debug("skipping results file", "path", path, "err", err)
			return nil
		}
		if len(tc.TestsOutcomes) == 0 {
			slog.Debug("skipping test case without outcomes", "path", path)
			return nil
		}
		cases = append(cases, tc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].TestCase < cases[j].TestCase
	})
	return cases, nil
}

// FailedAttempts is the number of failing outcomes before the first pass, or
// the negated number of attempts when no attempt passed.
func (tc *TestCase) FailedAttempts() int {
	for i, ok := range tc.TestsOutcomes {
		if ok {
			return i
		}
	}
	return -len(tc.TestsOutcomes)
}

// Line renders the test case as a record line.
func (tc *TestCase) Line() string {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return record.Line(map[string]string{
		record.FieldFailedAttempts:     itoa(tc.FailedAttempts()),
		record.FieldName:               strings.ReplaceAll(tc.TestCase, record.Delimiter, "_"),
		record.FieldDuration:           ftoa(tc.DurationS),
		record.FieldSentTokens:         itoa(tc.PromptTokens),
		record.FieldReceivedTokens:     itoa(tc.CompletionTokens),
		record.FieldCost:               ftoa(tc.CostUSD),
		record.FieldTimeouts:           itoa(tc.TestTimeouts),
		record.FieldErrorOutputs:       itoa(tc.NumErrorOutputs),
		record.FieldUserAsks:           itoa(tc.NumUserAsks),
		record.FieldExhaustedContext:   itoa(tc.NumExhaustedContextWindows),
		record.FieldMalformedResponses: itoa(tc.NumMalformedResponses),
		record.FieldSyntaxErrors:       itoa(tc.SyntaxErrors),
		record.FieldIndentationErrors:  itoa(tc.IndentationErrors),
		record.FieldLazyComments:       itoa(tc.LazyComments),
	})
}

// Listing renders all test cases below runDir as a listing: a header comment
// followed by one record line per test case.
func Listing(ctx context.Context, runDir string) (string, error) {
	cases, err := Collect(ctx, runDir)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("# " + strings.Join(record.Schema(), record.Delimiter) + "\n")
	for _, tc := range cases {
		sb.WriteString(tc.Line())
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
