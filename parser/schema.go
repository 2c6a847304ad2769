package parser

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Schema represents an OAS 3.x schema node.
// Supports OAS 3.0.x (nullable) and OAS 3.1 (type unions with "null").
type Schema struct {
	// JSON Schema Core
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	// Type validation
	Type any   `yaml:"type,omitempty" json:"type,omitempty"` // string or []string (OAS 3.1+)
	Enum []any `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Numeric validation
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"` // bool in OAS 3.0, number in 3.1+
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"` // bool in OAS 3.0, number in 3.1+

	// String validation
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// Array validation
	Items       *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MaxItems    *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool    `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object validation
	Properties           map[string]*Schema    `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties *AdditionalProperties `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`
	Required             []string              `yaml:"required,omitempty" json:"required,omitempty"`

	// Schema composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty" json:"not,omitempty"`

	// OAS specific extensions
	Nullable      bool           `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only (replaced by type: [T, "null"] in 3.1+)
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	Deprecated    bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Example       any            `yaml:"example,omitempty" json:"example,omitempty"`

	// Format
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // e.g., "date-time", "email", "uri", etc.

	// Extension fields
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Discriminator represents a discriminator for polymorphism (OAS 3.0+)
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
}

// AdditionalProperties models the additionalProperties keyword, which is
// either a boolean or a schema.
type AdditionalProperties struct {
	// Allowed is set when the keyword was a boolean literal.
	Allowed *bool
	// Schema is set when the keyword was a schema object.
	Schema *Schema
}

// HasSchema reports whether additionalProperties declared a schema shape.
func (a *AdditionalProperties) HasSchema() bool {
	return a != nil && a.Schema != nil
}

// UnmarshalYAML implements custom unmarshaling to accept bool or schema.
func (a *AdditionalProperties) UnmarshalYAML(unmarshal func(any) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		a.Allowed = &b
		return nil
	}
	var s Schema
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	a.Schema = &s
	return nil
}

// MarshalYAML implements custom marshaling for round-tripping.
func (a *AdditionalProperties) MarshalYAML() (any, error) {
	if a.Allowed != nil {
		return *a.Allowed, nil
	}
	return a.Schema, nil
}

// UnmarshalJSON implements custom unmarshaling to accept bool or schema.
func (a *AdditionalProperties) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		a.Allowed = &b
		return nil
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a schema: %w", err)
	}
	a.Schema = &s
	return nil
}

// MarshalJSON implements custom marshaling for round-tripping.
func (a *AdditionalProperties) MarshalJSON() ([]byte, error) {
	if a.Allowed != nil {
		return json.Marshal(*a.Allowed)
	}
	return json.Marshal(a.Schema)
}

// TypeString normalizes the polymorphic Type field to a single type name.
// OAS 3.1 type unions with "null" collapse to the non-null member; the
// second return reports whether null was a union member.
func (s *Schema) TypeString() (string, bool) {
	switch t := s.Type.(type) {
	case string:
		return t, false
	case []string:
		return collapseNull(t)
	case []any:
		members := make([]string, 0, len(t))
		for _, m := range t {
			if str, ok := m.(string); ok {
				members = append(members, str)
			}
		}
		return collapseNull(members)
	default:
		return "", false
	}
}

// collapseNull removes "null" from a type union and reports its presence.
// A union with more than one non-null member keeps only the first; OAS 3.0
// style dictionaries have a single column for type.
func collapseNull(members []string) (string, bool) {
	nullable := false
	var first string
	for _, m := range members {
		if m == "null" {
			nullable = true
			continue
		}
		if first == "" {
			first = m
		}
	}
	return first, nullable
}

// IsComposed reports whether the node carries any composition keyword.
func (s *Schema) IsComposed() bool {
	return len(s.AllOf) > 0 || len(s.OneOf) > 0 || len(s.AnyOf) > 0
}
