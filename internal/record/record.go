// Package record parses single test-result lines produced by a run lister.
package record

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Delimiter separates fields within a record line.
const Delimiter = ","

const (
	FieldFailedAttempts     = "failed_attempt_count"
	FieldName               = "name"
	FieldDuration           = "duration"
	FieldSentTokens         = "sent_tokens"
	FieldReceivedTokens     = "received_tokens"
	FieldCost               = "cost"
	FieldTimeouts           = "timeouts"
	FieldErrorOutputs       = "error_output_count"
	FieldUserAsks           = "user_ask_count"
	FieldExhaustedContext   = "exhausted_context_window_count"
	FieldMalformedResponses = "malformed_responses"
	FieldSyntaxErrors       = "syntax_errors"
	FieldIndentationErrors  = "indentation_errors"
	FieldLazyComments       = "lazy_comments"
)

// schema lists the record fields in wire order. The attempt count leads so
// that data lines always start with a digit or a minus sign.
var schema = []string{
	FieldFailedAttempts,
	FieldName,
	FieldDuration,
	FieldSentTokens,
	FieldReceivedTokens,
	FieldCost,
	FieldTimeouts,
	FieldErrorOutputs,
	FieldUserAsks,
	FieldExhaustedContext,
	FieldMalformedResponses,
	FieldSyntaxErrors,
	FieldIndentationErrors,
	FieldLazyComments,
}

// Schema returns the record fields in wire order.
func Schema() []string { return slices.Clone(schema) }

// Metrics returns the numeric fields that are summed across a run.
func Metrics() []string { return slices.Clone(schema[2:]) }

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(schema))
	for i, f := range schema {
		m[f] = i
	}
	return m
}()

// MalformedRecordError reports a line that cannot be turned into a record.
type MalformedRecordError struct {
	Line   string
	Fields int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed record %q: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed record %q: expected %d values, but got %d", e.Line, len(schema), e.Fields)
}

// TestResult is the outcome of one test within one run. It is immutable once
// parsed.
type TestResult struct {
	name   string
	values []Value
}

// Parse turns one record line into a TestResult. Only a wrong field count
// (or a blank name) is an error; values that fail to coerce are kept as raw
// text.
func Parse(line string) (*TestResult, error) {
	parts := strings.Split(line, Delimiter)
	if len(parts) != len(schema) {
		return nil, &MalformedRecordError{Line: line, Fields: len(parts)}
	}
	r := &TestResult{values: make([]Value, len(schema))}
	for i, field := range schema {
		r.values[i] = coerce(field, parts[i])
	}
	r.name = r.values[fieldIndex[FieldName]].Raw()
	if r.name == "" {
		return nil, &MalformedRecordError{Line: line, Fields: len(parts), Reason: "empty name"}
	}
	return r, nil
}

// Line formats values in schema order. Missing values are written as 0.
func Line(values map[string]string) string {
	parts := make([]string, len(schema))
	for i, f := range schema {
		v, ok := values[f]
		if !ok {
			v = "0"
		}
		parts[i] = v
	}
	return strings.Join(parts, Delimiter)
}

func (r *TestResult) Name() string { return r.name }

// FailedAttempts returns the signed failed attempt count. ok is false when the
// value did not parse as an integer.
func (r *TestResult) FailedAttempts() (n int, ok bool) {
	v, ok := r.values[fieldIndex[FieldFailedAttempts]].Int()
	return int(v), ok
}

// AttemptCount implements AttemptCounter.
func (r *TestResult) AttemptCount() (int, bool) { return r.FailedAttempts() }

// Passed reports whether the test eventually passed.
func (r *TestResult) Passed() bool {
	n, ok := r.FailedAttempts()
	return ok && n >= 0
}

// Failed reports whether the test exhausted its attempt budget.
func (r *TestResult) Failed() bool {
	n, ok := r.FailedAttempts()
	return ok && n < 0
}

// Field returns the value of the named field. Unknown names yield the zero
// Value, which reports itself as unparsed.
func (r *TestResult) Field(name string) Value {
	i, ok := fieldIndex[name]
	if !ok {
		return Value{}
	}
	return r.values[i]
}

// Fields returns every value in schema order, the name included.
func (r *TestResult) Fields() []Value {
	return slices.Clone(r.values)
}

// AttemptCounter is anything that carries a failed attempt count: a
// TestResult or a bare Attempts value.
type AttemptCounter interface {
	AttemptCount() (int, bool)
}

// Attempts is a bare failed attempt count.
type Attempts int

func (a Attempts) AttemptCount() (int, bool) { return int(a), true }

// CompareAttemptCount orders r against other by failed attempt count only,
// returning -1, 0 or +1. ok is false when either count is unparsed.
func CompareAttemptCount(r *TestResult, other AttemptCounter) (c int, ok bool) {
	a, ok := r.FailedAttempts()
	if !ok {
		return 0, false
	}
	b, ok := other.AttemptCount()
	if !ok {
		return 0, false
	}
	return cmp.Compare(a, b), true
}
