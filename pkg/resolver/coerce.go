package resolver

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// layouts the backend has been observed to send, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsInt coerces JSON-ish scalars to int64. Strings are parsed in base 10 only
// so that "042" stays 42.
func AsInt(v any) (int64, bool) {
	switch t := v.(type) {
	case nil, bool, map[string]any, []any:
		return 0, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		return AsInt(string(t))
	}
	var n int64
	if err := mapstructure.WeakDecode(v, &n); err != nil {
		return 0, false
	}
	return n, true
}

// AsDecimal coerces JSON-ish scalars to a decimal.
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(string(t))
		return d, err == nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case decimal.Decimal:
		return t, true
	}
	if n, ok := AsInt(v); ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Zero, false
}

// AsTime parses timestamps sent as strings (several layouts) or as unix
// seconds/milliseconds.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
		return time.Time{}, false
	}
	n, ok := AsInt(v)
	if !ok || n <= 0 {
		return time.Time{}, false
	}
	// anything past year 5138 in seconds is a millisecond timestamp
	if n > 1e11 {
		return time.UnixMilli(n).UTC(), true
	}
	return time.Unix(n, 0).UTC(), true
}
