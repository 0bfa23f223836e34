package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Tanmoy095/PharmaTrace/pkg/resolver"
)

// Envelope is the shape every backend response is coerced into.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`

	// flagged is set when the body carried its own success field.
	flagged bool
}

// parseEnvelope accepts whatever the backend sent: a proper envelope, a bare
// JSON value, JSON that was itself stringified, or nothing at all.
func parseEnvelope(body []byte) Envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Envelope{Success: true}
	}
	v, err := decodeJSON(body)
	if err != nil {
		// plain text
		return Envelope{Success: true, Data: string(body)}
	}
	if s, ok := v.(string); ok {
		if inner, err := decodeJSON([]byte(strings.TrimSpace(s))); err == nil {
			v = inner
		}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Envelope{Success: true, Data: v}
	}
	success, hasFlag := m["success"].(bool)
	if !hasFlag {
		return Envelope{Success: true, Data: m}
	}
	return Envelope{
		Success: success,
		Data:    m["data"],
		Message: envelopeMessage.String(m, ""),
		flagged: true,
	}
}

var envelopeMessage = resolver.NewField("message", true, "message", "error", "error.message", "msg")

var errTrailingData = errors.New("trailing data after JSON value")

func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errTrailingData
	}
	return v, nil
}

var listKeys = resolver.NewField("list", false, "items", "data", "results", "shipments", "inventory", "batches")

// records turns an envelope payload into a list of raw records. Entries that
// are not objects are dropped.
func records(data any) []resolver.Record {
	var list []any
	switch d := data.(type) {
	case []any:
		list = d
	case map[string]any:
		if l, ok := listKeys.Value(d, nil).([]any); ok {
			list = l
		} else {
			return []resolver.Record{d}
		}
	}
	out := make([]resolver.Record, 0, len(list))
	for _, it := range list {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
