// pkg/resolver/resolver.go
package resolver

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// Record is a loosely typed backend record exactly as it was decoded from JSON.
// Nothing in this package ever writes to it.
type Record = map[string]any

// Accessor reads one candidate value out of a record.
// ok=false means "not here, try the next candidate".
type Accessor func(r Record) (value any, ok bool)

// Key reads a (possibly nested) value by dotted path, e.g. "drugBatch.batchId".
// Any intermediate that is not an object makes the candidate absent.
func Key(path string) Accessor {
	parts := strings.Split(path, ".")
	return func(r Record) (any, bool) {
		var cur any = r
		for _, p := range parts {
			m, ok := asMap(cur)
			if !ok {
				return nil, false
			}
			v, exists := m[p]
			if !exists || v == nil {
				return nil, false
			}
			cur = v
		}
		return cur, true
	}
}

// Pattern reads the string at path and returns the first capture group of re.
// Used for derived identifiers such as SHIP-(\d+) inside a shipment code.
func Pattern(path string, re *regexp.Regexp) Accessor {
	read := Key(path)
	return func(r Record) (any, bool) {
		v, ok := read(r)
		if !ok {
			return nil, false
		}
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		m := re.FindStringSubmatch(s)
		if len(m) < 2 || m[1] == "" {
			return nil, false
		}
		return m[1], true
	}
}

// Field is one logical field of a view model: an ordered list of places the
// backend has been seen to put it.
type Field struct {
	Name      string
	Accessors []Accessor
	// EmptyStringIsAbsent is set for identifiers and codes; free text keeps "".
	EmptyStringIsAbsent bool
}

// NewField builds a field from plain candidate keys (dotted paths allowed).
func NewField(name string, emptyIsAbsent bool, keys ...string) Field {
	f := Field{Name: name, EmptyStringIsAbsent: emptyIsAbsent}
	for _, k := range keys {
		f.Accessors = append(f.Accessors, Key(k))
	}
	return f
}

// With appends extra accessors (derived candidates) after the existing ones.
func (f Field) With(acc ...Accessor) Field {
	out := f
	out.Accessors = append(append([]Accessor{}, f.Accessors...), acc...)
	return out
}

// Resolve implements the resolution contract: the value at the first candidate
// key present with a non-nil value, otherwise fallback.
func Resolve(r Record, keys []string, fallback any) any {
	return NewField("", false, keys...).Value(r, fallback)
}

// Value returns the first present candidate or fallback.
func (f Field) Value(r Record, fallback any) any {
	if v, ok := f.first(r, func(v any) (any, bool) { return v, true }); ok {
		return v
	}
	return fallback
}

// String returns the first candidate that is a string (or a number, rendered
// as a string) or fallback.
func (f Field) String(r Record, fallback string) string {
	v, ok := f.first(r, func(v any) (any, bool) {
		switch t := v.(type) {
		case string:
			return t, true
		case map[string]any, []any, bool:
			return nil, false
		}
		var s string
		if err := mapstructure.WeakDecode(v, &s); err != nil {
			return nil, false
		}
		return s, true
	})
	if !ok {
		return fallback
	}
	return v.(string)
}

// Int returns the first candidate coercible to an integer or fallback.
func (f Field) Int(r Record, fallback int64) int64 {
	v, ok := f.first(r, func(v any) (any, bool) { return AsInt(v) })
	if !ok {
		return fallback
	}
	return v.(int64)
}

// IntPtr is Int with nil instead of a fallback.
func (f Field) IntPtr(r Record) *int64 {
	v, ok := f.first(r, func(v any) (any, bool) { return AsInt(v) })
	if !ok {
		return nil
	}
	n := v.(int64)
	return &n
}

// Decimal returns the first candidate coercible to a decimal or fallback.
func (f Field) Decimal(r Record, fallback decimal.Decimal) decimal.Decimal {
	v, ok := f.first(r, func(v any) (any, bool) { return AsDecimal(v) })
	if !ok {
		return fallback
	}
	return v.(decimal.Decimal)
}

// Time returns the first candidate parseable as a timestamp, or nil.
func (f Field) Time(r Record) *time.Time {
	v, ok := f.first(r, func(v any) (any, bool) { return AsTime(v) })
	if !ok {
		return nil
	}
	t := v.(time.Time)
	return &t
}

// Present reports whether any candidate resolves.
func (f Field) Present(r Record) bool {
	_, ok := f.first(r, func(v any) (any, bool) { return v, true })
	return ok
}

// first walks the candidates in order and returns the first value that is
// present and accepted by conv. Malformed candidates are skipped.
func (f Field) first(r Record, conv func(any) (any, bool)) (out any, ok bool) {
	if r == nil {
		return nil, false
	}
	for _, acc := range f.Accessors {
		v, present := safeRead(acc, r)
		if !present || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && f.EmptyStringIsAbsent && strings.TrimSpace(s) == "" {
			continue
		}
		if c, accepted := conv(v); accepted {
			return c, true
		}
	}
	return nil, false
}

// safeRead shields callers from accessors that panic on unexpected shapes.
func safeRead(acc Accessor, r Record) (v any, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			v, ok = nil, false
		}
	}()
	return acc(r)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// Bool returns the first candidate coercible to a boolean or fallback.
func (f Field) Bool(r Record, fallback bool) bool {
	v, ok := f.first(r, func(v any) (any, bool) {
		if b, isBool := v.(bool); isBool {
			return b, true
		}
		var b bool
		if err := mapstructure.WeakDecode(v, &b); err != nil {
			return nil, false
		}
		return b, true
	})
	if !ok {
		return fallback
	}
	return v.(bool)
}

// Object returns the first candidate that is itself a record, or nil.
func (f Field) Object(r Record) Record {
	v, ok := f.first(r, func(v any) (any, bool) { return asMap(v) })
	if !ok {
		return nil
	}
	return v.(map[string]any)
}
