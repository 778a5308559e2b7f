// Package schema holds the JSON Schema document type shared by the validator
// loader and the example synthesizer, plus the synthesis algorithm used for
// template self-documentation.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Document is a parsed JSON Schema. The raw bytes are kept alongside the
// generic tree so validators can compile the exact document that was read
// from disk.
type Document struct {
	raw  []byte
	root map[string]any
}

// NewDocument parses raw JSON Schema bytes into a Document.
func NewDocument(raw []byte) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, fmt.Errorf("schema: document payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var root map[string]any
	if err := decoder.Decode(&root); err != nil {
		return Document{}, fmt.Errorf("schema: parse document: %w", err)
	}

	return Document{raw: append([]byte(nil), raw...), root: root}, nil
}

// MustNewDocument panics if the document cannot be parsed. Useful for tests.
func MustNewDocument(raw []byte) Document {
	doc, err := NewDocument(raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Raw returns a defensive copy of the original schema bytes.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Root returns the generic schema tree. Callers must not mutate it.
func (d Document) Root() map[string]any {
	return d.root
}

// Properties returns the top-level property map, or nil when the schema
// declares none.
func (d Document) Properties() map[string]any {
	props, _ := d.root["properties"].(map[string]any)
	return props
}

// PropertyNames returns the declared top-level property names in
// lexicographic order.
func (d Document) PropertyNames() []string {
	props := d.Properties()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Required returns the schema's required-field list in declaration order.
func (d Document) Required() []string {
	raw, _ := d.root["required"].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok {
			out = append(out, name)
		}
	}
	return out
}

// Definitions returns the named sub-schemas referenced by "$ref" pointers.
// Both the 2020-12 "$defs" keyword and the legacy "definitions" keyword are
// honoured; "$defs" wins on name collisions.
func (d Document) Definitions() map[string]any {
	out := make(map[string]any)
	if legacy, ok := d.root["definitions"].(map[string]any); ok {
		for name, def := range legacy {
			out[name] = def
		}
	}
	if defs, ok := d.root["$defs"].(map[string]any); ok {
		for name, def := range defs {
			out[name] = def
		}
	}
	return out
}
