package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FieldError describes one argument that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every invalid argument of a request so a caller
// can fix all of them in one round trip.
type ValidationError struct {
	Request string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation error", len(e.Fields))
	if len(e.Fields) != 1 {
		b.WriteString("s")
	}
	if e.Request != "" {
		b.WriteString(" for ")
		b.WriteString(e.Request)
	}
	for _, f := range e.Fields {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
	return b.String()
}

// argReader pulls typed values out of a raw argument bundle and records a
// FieldError for every miss instead of stopping at the first one.
type argReader struct {
	args map[string]any
	errs []FieldError
}

func newArgReader(args map[string]any) *argReader {
	if args == nil {
		args = map[string]any{}
	}
	return &argReader{args: args}
}

func (r *argReader) fail(field, format string, a ...any) {
	r.errs = append(r.errs, FieldError{Field: field, Message: fmt.Sprintf(format, a...)})
}

// err returns nil when nothing failed.
func (r *argReader) err(request string) error {
	if len(r.errs) == 0 {
		return nil
	}
	return &ValidationError{Request: request, Fields: r.errs}
}

func (r *argReader) lookup(field string) (any, bool) {
	v, ok := r.args[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *argReader) requiredString(field string) string {
	v, ok := r.lookup(field)
	if !ok {
		r.fail(field, "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "input should be a valid string, got %s", typeName(v))
		return ""
	}
	if strings.TrimSpace(s) == "" {
		r.fail(field, "must not be empty")
		return ""
	}
	return strings.TrimSpace(s)
}

func (r *argReader) optionalString(field, def string) string {
	v, ok := r.lookup(field)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "input should be a valid string, got %s", typeName(v))
		return def
	}
	return s
}

func (r *argReader) optionalBool(field string, def bool) bool {
	v, ok := r.lookup(field)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(field, "input should be a valid boolean, got %s", typeName(v))
		return def
	}
	return b
}

func (r *argReader) optionalInt(field string, def int) (int, bool) {
	v, ok := r.lookup(field)
	if !ok {
		return def, true
	}
	n, ok := toInt(v)
	if !ok {
		r.fail(field, "input should be a valid integer, got %s", typeName(v))
		return def, false
	}
	return n, true
}

func (r *argReader) optionalFloat(field string) (float64, bool, bool) {
	v, ok := r.lookup(field)
	if !ok {
		return 0, false, true
	}
	switch n := v.(type) {
	case bool:
		// humanize=true means "use the default duration"
		if n {
			return 1, true, true
		}
		return 0, false, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			break
		}
		return f, true, true
	case float64:
		return n, true, true
	case float32:
		return float64(n), true, true
	case int:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	}
	r.fail(field, "input should be a valid number, got %s", typeName(v))
	return 0, false, false
}

// toInt accepts Go integers and integral JSON numbers.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

// floatToInt accepts integral values, saturating outside the int range so
// bound checks still see them as too large or too small.
func floatToInt(f float64) (int, bool) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f):
		return 0, false
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(f), true
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, json.Number:
		return "number"
	case int, int32, int64:
		return "integer"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
