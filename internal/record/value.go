package record

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the type a field is coerced to.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "text"
	}
}

// KindOf derives a field's kind from its name: the name field is text,
// counters (names ending in "count" or a plural "s") are integers, and
// everything else is a float.
func KindOf(field string) Kind {
	switch {
	case field == FieldName:
		return KindText
	case strings.HasSuffix(field, "count"), strings.HasSuffix(field, "s"):
		return KindInt
	default:
		return KindFloat
	}
}

// Value holds one field: either a coerced number or the raw text that failed
// to coerce.
type Value struct {
	kind   Kind
	parsed bool
	i      int64
	f      float64
	raw    string
}

func coerce(field, raw string) Value {
	v := Value{kind: KindOf(field), raw: raw}
	switch v.kind {
	case KindText:
		v.raw = strings.TrimSpace(raw)
		v.parsed = true
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return v
		}
		// Only the attempt count carries a sign.
		if n < 0 && field != FieldFailedAttempts {
			return v
		}
		v.i, v.f, v.parsed = n, float64(n), true
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return v
		}
		v.f, v.parsed = f, true
	}
	return v
}

// Kind returns the kind the field was coerced to.
func (v Value) Kind() Kind { return v.kind }

// Parsed reports whether the value coerced to its kind.
func (v Value) Parsed() bool { return v.parsed }

// Raw returns the text as it appeared on the line.
func (v Value) Raw() string { return v.raw }

// Int returns the integer value of a parsed integer field.
func (v Value) Int() (int64, bool) {
	if !v.parsed || v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Float returns the numeric value of any parsed numeric field.
func (v Value) Float() (float64, bool) {
	if !v.parsed || v.kind == KindText {
		return 0, false
	}
	return v.f, true
}

func (v Value) String() string {
	if !v.parsed || v.kind == KindText {
		return v.raw
	}
	if v.kind == KindInt {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'f', -1, 64)
}
