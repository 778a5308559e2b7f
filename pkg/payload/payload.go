// Package payload models the JSON values a document request carries. A
// payload is a mapping of field names to JSON-compatible values; it is owned
// by a single request and never mutated by the pipeline.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Map is a decoded JSON object keyed by field name. Values hold the closed
// set of JSON dynamic types: string, json.Number, bool, []any, Map-compatible
// map[string]any, or nil.
type Map map[string]any

// Kind identifies the JSON shape of a value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf classifies a decoded JSON value.
func KindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case json.Number, float64, int, int64:
		return KindNumber
	case bool:
		return KindBool
	case []any:
		return KindArray
	case map[string]any, Map:
		return KindObject
	default:
		return KindInvalid
	}
}

// Decode parses raw JSON into a Map. Numbers are kept as json.Number so
// integer payload fields survive the round trip without float drift.
func Decode(raw []byte) (Map, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Map{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var out Map
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("payload: decode: %w", err)
	}
	return out, nil
}

// Clone deep-copies a payload so callers can hold onto request data without
// aliasing the original maps and slices.
func Clone(in Map) Map {
	if in == nil {
		return nil
	}
	out := make(Map, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = cloneValue(item)
		}
		return out
	case Map:
		return map[string]any(Clone(typed))
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, cloneValue(item))
		}
		return out
	default:
		return typed
	}
}

// Normalize converts a payload into plain map[string]any/float64 values, the
// shape validators and template engines expect. json.Number values become
// float64 when fractional and int64 when integral.
func Normalize(in Map) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeValue(item)
		}
		return out
	case Map:
		return Normalize(typed)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, normalizeValue(item))
		}
		return out
	default:
		return typed
	}
}
