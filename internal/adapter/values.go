package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// ErrInvalidResponseShape is wrapped by every structural normalization
// failure.
var ErrInvalidResponseShape = errors.New("invalid response shape")

// ShapeError describes why a server record could not be normalized.
type ShapeError struct {
	Entity string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidResponseShape
}

func shapeErr(entity, format string, args ...any) error {
	return &ShapeError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

// Decode parses a JSON payload into the generic form the normalizers
// accept. Numbers are kept as json.Number so identifiers keep their
// textual form.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return raw, nil
}

type record map[string]any

func asRecord(raw any) (record, bool) {
	m, ok := raw.(map[string]any)
	return record(m), ok
}

// lookup returns the first non-null value among the field's keys.
func (r record) lookup(f Field) (any, bool) {
	for _, k := range f.Keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// text returns the first string value among the field's keys.
func (r record) text(f Field) mo.Option[string] {
	for _, k := range f.Keys {
		if s, ok := r[k].(string); ok {
			return mo.Some(s)
		}
	}
	return mo.None[string]()
}

// id returns the field as an identifier. Strings and numbers are accepted.
func (r record) id(f Field) (string, bool) {
	v, ok := r.lookup(f)
	if !ok {
		return "", false
	}
	s, ok := idString(v)
	return s, ok && s != ""
}

func (r record) number(f Field) mo.Option[int] {
	v, ok := r.lookup(f)
	if !ok {
		return mo.None[int]()
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return mo.Some(int(i))
		}
	case float64:
		if n == math.Trunc(n) {
			return mo.Some(int(n))
		}
	case int:
		return mo.Some(n)
	}
	return mo.None[int]()
}

func idString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}

// timeLayouts are tried in order. Zone-less layouts parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses any timestamp form the backend is known to send.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (r record) time(entity string, f Field) (time.Time, error) {
	v, ok := r.lookup(f)
	if !ok {
		return time.Time{}, shapeErr(entity, "missing %s", f.Name)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, shapeErr(entity, "%s is not a string", f.Name)
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, shapeErr(entity, "%s: %v", f.Name, err)
	}
	return t, nil
}

// flag reads an optional boolean. Absent means false; anything that is
// neither a boolean nor a boolean string is a shape error.
func (r record) flag(entity string, f Field) (bool, error) {
	v, ok := r.lookup(f)
	if !ok {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, shapeErr(entity, "%s is not a boolean: %q", f.Name, b)
		}
		return parsed, nil
	default:
		return false, shapeErr(entity, "%s is not a boolean", f.Name)
	}
}
