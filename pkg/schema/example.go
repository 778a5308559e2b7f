package schema

import "strings"

// stringPlaceholder stands in for any value the synthesizer cannot classify.
// Unrecognized constructs degrade to it instead of failing: synthesis is
// documentation tooling and must never raise.
const stringPlaceholder = "string"

// Example is a synthesized placeholder payload matching a schema's declared
// shape, plus the schema's required-field list.
type Example struct {
	Required []string       `json:"required"`
	Payload  map[string]any `json:"payload"`
}

// Synthesize produces a representative example payload for a schema. Every
// declared top-level property receives a placeholder value:
//
//	string  -> "string"
//	integer -> 0
//	number  -> 0.0
//	boolean -> false
//	array   -> one synthesized element (resolving "$ref" item schemas)
//	object  -> {}
//	anyOf   -> the first listed alternative
//
// Anything else degrades to the string placeholder.
func Synthesize(doc Document) Example {
	synth := synthesizer{
		definitions: doc.Definitions(),
		activeRefs:  make(map[string]bool),
	}

	props := doc.Properties()
	payload := make(map[string]any, len(props))
	for name, field := range props {
		payload[name] = synth.value(field)
	}

	required := doc.Required()
	if required == nil {
		required = []string{}
	}

	return Example{Required: required, Payload: payload}
}

type synthesizer struct {
	definitions map[string]any
	activeRefs  map[string]bool
}

func (s *synthesizer) value(raw any) any {
	field, ok := raw.(map[string]any)
	if !ok {
		return stringPlaceholder
	}

	switch typeName(field) {
	case "string":
		return stringPlaceholder
	case "integer":
		return 0
	case "number":
		return 0.0
	case "boolean":
		return false
	case "array":
		return s.arrayValue(field)
	case "object":
		return map[string]any{}
	}

	if alternatives, ok := field["anyOf"].([]any); ok && len(alternatives) > 0 {
		// Union types always use the first listed alternative. Deterministic
		// tie-break, not "most specific".
		return s.value(alternatives[0])
	}

	return stringPlaceholder
}

func (s *synthesizer) arrayValue(field map[string]any) any {
	items, _ := field["items"].(map[string]any)
	if items == nil {
		return []any{stringPlaceholder}
	}

	if ref, ok := items["$ref"].(string); ok {
		if element, ok := s.referencedObject(ref); ok {
			return []any{element}
		}
		return []any{stringPlaceholder}
	}

	return []any{s.value(items)}
}

// referencedObject synthesizes an object from the properties of a named
// sub-schema. Unknown references and reference cycles degrade to the string
// placeholder.
func (s *synthesizer) referencedObject(ref string) (map[string]any, bool) {
	name := refName(ref)
	if name == "" || s.activeRefs[name] {
		return nil, false
	}

	definition, ok := s.definitions[name].(map[string]any)
	if !ok {
		return nil, false
	}

	props, _ := definition["properties"].(map[string]any)
	if props == nil {
		return nil, false
	}

	s.activeRefs[name] = true
	defer delete(s.activeRefs, name)

	out := make(map[string]any, len(props))
	for propName, propSchema := range props {
		out[propName] = s.value(propSchema)
	}
	return out, true
}

func typeName(field map[string]any) string {
	name, _ := field["type"].(string)
	return name
}

func refName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}
