package endpoint

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the normalized representation of a value. The declaration order
// is the cross-kind total order used for key comparison:
// null < boolean < number < string < bytes < datetime.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindBytes
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Value is an engine-independent column value.
//
// Numbers keep their integer form when the engine produced one so that large
// integers compare exactly; IsFloat marks the float form. Times are stored in UTC
// together with the precision of the source column.
type Value struct {
	Kind      Kind
	Bool      bool
	Int       int64
	Float     float64
	IsFloat   bool
	Str       string
	Bytes     []byte
	Time      time.Time
	Precision time.Duration

	// Coerced is set when the raw engine value could not be normalized and Str
	// holds its string rendering instead.
	Coerced bool
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns an integer number.
func Int(i int64) Value { return Value{Kind: KindNumber, Int: i} }

// Float returns a floating point number.
func Float(f float64) Value { return Value{Kind: KindNumber, Float: f, IsFloat: true} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bytes returns a byte sequence value. The slice is copied.
func Bytes(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: append([]byte(nil), b...)}
}

// Time returns a date/time value with the given precision. A zero precision means
// the engine reported full nanosecond precision.
func Time(t time.Time, precision time.Duration) Value {
	return Value{Kind: KindTime, Time: t.UTC(), Precision: precision}
}

// Coerced returns a string value standing in for a raw value that could not be normalized.
func Coerced(s string) Value {
	return Value{Kind: KindString, Str: s, Coerced: true}
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) float() float64 {
	if v.IsFloat {
		return v.Float
	}
	return float64(v.Int)
}

// Compare orders two values by kind first, then by value within a kind.
// It returns -1, 0 or +1.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}

	switch a.Kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	case KindNumber:
		return compareNumbers(a, b)
	case KindString:
		return strings.Compare(a.Str, b.Str)
	case KindBytes:
		return bytes.Compare(a.Bytes, b.Bytes)
	case KindTime:
		return a.Time.Compare(b.Time)
	}
	return 0
}

func compareNumbers(a, b Value) int {
	if !a.IsFloat && !b.IsFloat {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	}

	fa, fb := a.float(), b.float()
	switch {
	case math.IsNaN(fa) && math.IsNaN(fb):
		return 0
	case math.IsNaN(fa):
		return -1
	case math.IsNaN(fb):
		return 1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

// Equal is the type-aware equality used when classifying field differences.
//
// Numbers are equal when they denote the same quantity regardless of integer or
// float representation. Strings compare exactly. Date/times are truncated to the
// coarser of the two precisions before comparison. Coerced values compare by
// their string rendering.
func Equal(a, b Value) bool {
	if a.Coerced || b.Coerced {
		return a.Render() == b.Render() && a.IsNull() == b.IsNull()
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindTime:
		p := a.Precision
		if b.Precision > p {
			p = b.Precision
		}
		if p <= 0 {
			return a.Time.Equal(b.Time)
		}
		return a.Time.Truncate(p).Equal(b.Time.Truncate(p))
	default:
		return Compare(a, b) == 0
	}
}

// Render returns the canonical string form of v. Null renders as the empty string;
// callers that must distinguish null use IsNull.
func (v Value) Render() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		if v.IsFloat {
			return strconv.FormatFloat(v.Float, 'g', -1, 64)
		}
		return strconv.FormatInt(v.Int, 10)
	case KindString:
		return v.Str
	case KindBytes:
		return "0x" + hex.EncodeToString(v.Bytes)
	case KindTime:
		return renderTime(v.Time, v.Precision)
	default:
		return ""
	}
}

func renderTime(t time.Time, precision time.Duration) string {
	switch {
	case precision >= 24*time.Hour:
		return t.Format(time.DateOnly)
	case precision >= time.Second:
		return t.Format(time.RFC3339)
	default:
		return t.Format(time.RFC3339Nano)
	}
}

// Ptr returns a pointer to the rendering of v, or nil when v is null.
func (v Value) Ptr() *string {
	if v.IsNull() {
		return nil
	}
	s := v.Render()
	return &s
}
