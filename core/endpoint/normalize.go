package endpoint

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"tablediff/core/errs"

	"github.com/google/uuid"
)

// typeClass groups engine type names by the normalized kind they produce.
type typeClass int

const (
	classText typeClass = iota
	classBool
	classInt
	classDecimal
	classFloat
	classDate
	classDateTime
	classBinary
)

func classify(dbType string) typeClass {
	t := strings.ToLower(strings.TrimSpace(dbType))
	switch {
	case t == "tinyint(1)", t == "bool", t == "boolean":
		return classBool
	case strings.HasPrefix(t, "datetime"), strings.HasPrefix(t, "timestamp"):
		return classDateTime
	case t == "date":
		return classDate
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"), t == "bytea":
		return classBinary
	case strings.HasPrefix(t, "decimal"), strings.HasPrefix(t, "numeric"):
		return classDecimal
	case strings.Contains(t, "float"), strings.Contains(t, "double"), t == "real":
		return classFloat
	case strings.Contains(t, "int") && !strings.Contains(t, "interval") && !strings.Contains(t, "point"),
		t == "serial", t == "bigserial":
		return classInt
	default:
		return classText
	}
}

// isText reports whether the column type holds character data. Adapters use it to
// request a byte-order collation when ordering by the column.
func isText(dbType string) bool {
	t := strings.ToLower(dbType)
	if classify(t) != classText {
		return false
	}
	return t == "" || strings.Contains(t, "char") || strings.Contains(t, "text") ||
		strings.HasPrefix(t, "enum") || t == "string"
}

// timePrecision derives the precision of a date/time column from its type name.
// defaultDigits is the number of fractional second digits the engine uses when the
// type carries no explicit precision.
func timePrecision(dbType string, defaultDigits int) time.Duration {
	switch classify(dbType) {
	case classDate:
		return 24 * time.Hour
	case classDateTime:
	default:
		return 0
	}

	digits := defaultDigits
	if open := strings.IndexByte(dbType, '('); open >= 0 {
		if end := strings.IndexByte(dbType[open:], ')'); end > 0 {
			if n, err := strconv.Atoi(dbType[open+1 : open+end]); err == nil {
				digits = n
			}
		}
	}
	if digits < 0 {
		digits = 0
	}
	if digits > 9 {
		digits = 9
	}
	return time.Duration(math.Pow10(9 - digits))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize converts a raw driver value into a Value using the column's declared type.
//
// Values that cannot be normalized are returned as their string rendering with the
// Coerced flag set, together with an error wrapping errs.ErrTypeCoercion. The error is
// informational; the returned value is always usable.
func Normalize(raw any, col Column) (Value, error) {
	class := classify(col.Type)

	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case int:
		return intValue(int64(v), class), nil
	case int64:
		return intValue(v, class), nil
	case int32:
		return intValue(int64(v), class), nil
	case int16:
		return intValue(int64(v), class), nil
	case int8:
		return intValue(int64(v), class), nil
	case uint:
		return uintValue(uint64(v), class), nil
	case uint64:
		return uintValue(v, class), nil
	case uint32:
		return intValue(int64(v), class), nil
	case uint16:
		return intValue(int64(v), class), nil
	case uint8:
		return intValue(int64(v), class), nil
	case float64:
		return Float(v), nil
	case float32:
		return Float(float64(v)), nil
	case time.Time:
		return Time(v, col.Precision), nil
	case string:
		return fromText(v, col, class)
	case []byte:
		if class == classBinary {
			return Bytes(v), nil
		}
		return fromText(string(v), col, class)
	case [16]byte:
		return String(uuid.UUID(v).String()), nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return coerce(raw, col)
		}
		return String(string(b)), nil
	default:
		return coerce(raw, col)
	}
}

func coerce(raw any, col Column) (Value, error) {
	s := fmt.Sprintf("%v", raw)
	return Coerced(s), fmt.Errorf("%w: column %s: %T", errs.ErrTypeCoercion, col.Name, raw)
}

func intValue(i int64, class typeClass) Value {
	if class == classBool {
		return Bool(i != 0)
	}
	return Int(i)
}

func uintValue(u uint64, class typeClass) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return intValue(int64(u), class)
}

func fromText(s string, col Column, class typeClass) (Value, error) {
	switch class {
	case classBool:
		switch strings.ToLower(s) {
		case "1", "t", "true", "y", "yes":
			return Bool(true), nil
		case "0", "f", "false", "n", "no":
			return Bool(false), nil
		}
	case classInt:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
	case classDecimal, classFloat:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil && class == classDecimal {
			return Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f), nil
		}
	case classDate, classDateTime:
		if t, ok := parseTime(s); ok {
			return Time(t, col.Precision), nil
		}
	default:
		return String(s), nil
	}

	return Coerced(s), fmt.Errorf("%w: column %s: cannot parse %q as %s", errs.ErrTypeCoercion, col.Name, s, col.Type)
}
