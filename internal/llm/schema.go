// Package llm holds the structured-output contract shared by the model
// backends, and the Gemini and OpenAI clients that honour it.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("llm: empty response")
	ErrInvalidOutput = errors.New("llm: output does not match schema")
	ErrRefused       = errors.New("llm: model refused")
)

type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
)

// Field describes one top-level property of a structured response.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	NonEmpty    bool     // strings only
	Minimum     *float64 // numbers only
}

// Schema is a flat object contract. A conforming response carries exactly
// the declared fields.
type Schema struct {
	Name        string
	Description string
	Fields      []Field
}

func Min(v float64) *float64 { return &v }

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// JSONSchema renders the contract as a JSON Schema object.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = f.jsonSchema(false)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	return out
}

// StrictJSONSchema is the variant accepted by OpenAI strict mode: every
// property is listed as required and optional ones become nullable.
func (s Schema) StrictJSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	required := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = f.jsonSchema(!f.Required)
		required = append(required, f.Name)
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	return out
}

func (f Field) jsonSchema(nullable bool) map[string]any {
	var typ any = string(f.Type)
	if nullable {
		typ = []string{string(f.Type), "null"}
	}
	out := map[string]any{"type": typ}
	if f.Description != "" {
		out["description"] = f.Description
	}
	// minimum and minLength are not part of the strict subset
	if !nullable {
		if f.Minimum != nil {
			out["minimum"] = *f.Minimum
		}
		if f.NonEmpty {
			out["minLength"] = 1
		}
	}
	return out
}

// Validate checks raw model output against the contract and returns the
// decoded fields. A null value counts as absent and is dropped. Every
// failure wraps ErrInvalidOutput.
func (s Schema) Validate(raw []byte) (map[string]any, error) {
	text := StripCodeFences(string(raw))
	if text == "" {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidOutput)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not an object", ErrInvalidOutput)
	}

	out := make(map[string]any, len(obj))
	for name, v := range obj {
		f, ok := s.field(name)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected field %q", ErrInvalidOutput, name)
		}
		if v == nil {
			continue
		}
		if err := f.check(v); err != nil {
			return nil, err
		}
		out[name] = v
	}

	for _, f := range s.Fields {
		if _, ok := out[f.Name]; f.Required && !ok {
			return nil, fmt.Errorf("%w: missing field %q", ErrInvalidOutput, f.Name)
		}
	}
	return out, nil
}

func (f Field) check(v any) error {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: field %q must be a string", ErrInvalidOutput, f.Name)
		}
		if f.NonEmpty && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: field %q must not be empty", ErrInvalidOutput, f.Name)
		}
	case TypeNumber:
		n, ok := v.(float64)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: field %q must be a number", ErrInvalidOutput, f.Name)
		}
		if f.Minimum != nil && n < *f.Minimum {
			return fmt.Errorf("%w: field %q must be at least %v", ErrInvalidOutput, f.Name, *f.Minimum)
		}
	default:
		return fmt.Errorf("%w: field %q has unsupported type %q", ErrInvalidOutput, f.Name, f.Type)
	}
	return nil
}

// StripCodeFences removes a surrounding ```json fence some models add.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
