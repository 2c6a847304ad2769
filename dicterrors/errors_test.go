package dicterrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected end of stream")
	err := &ParseError{
		Path:    "api.yaml",
		Message: "invalid YAML",
		Cause:   cause,
	}

	assert.Contains(t, err.Error(), "api.yaml")
	assert.Contains(t, err.Error(), "invalid YAML")
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrReference)
}

func TestReferenceError(t *testing.T) {
	tests := []struct {
		name       string
		err        *ReferenceError
		matches    []error
		notMatches []error
	}{
		{
			name:       "broken reference",
			err:        &ReferenceError{Ref: "#/components/schemas/Missing"},
			matches:    []error{ErrReference},
			notMatches: []error{ErrCircularReference, ErrExternalReference},
		},
		{
			name:       "circular reference",
			err:        &ReferenceError{Ref: "#/components/schemas/Node", IsCircular: true},
			matches:    []error{ErrReference, ErrCircularReference},
			notMatches: []error{ErrExternalReference},
		},
		{
			name:       "external reference",
			err:        &ReferenceError{Ref: "other.yaml#/components/schemas/Pet", IsExternal: true},
			matches:    []error{ErrReference, ErrExternalReference},
			notMatches: []error{ErrCircularReference},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range tt.matches {
				assert.ErrorIs(t, tt.err, target)
			}
			for _, target := range tt.notMatches {
				assert.NotErrorIs(t, tt.err, target)
			}
			assert.Contains(t, tt.err.Error(), tt.err.Ref)
		})
	}
}

func TestReferenceError_Message(t *testing.T) {
	err := &ReferenceError{
		Ref:        "#/components/schemas/Owner",
		SchemaName: "Pet",
		Path:       "owner",
		IsCircular: true,
	}
	msg := err.Error()
	assert.Contains(t, msg, "circular reference")
	assert.Contains(t, msg, "Pet")
	assert.Contains(t, msg, "owner")
}

func TestMalformedSchemaError(t *testing.T) {
	err := &MalformedSchemaError{
		SchemaName: "Pet",
		Path:       "tags",
		Message:    "array type without items",
	}
	assert.ErrorIs(t, err, ErrMalformedSchema)
	assert.Contains(t, err.Error(), "array type without items")
	assert.Nil(t, err.Unwrap())
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Option:  "schema",
		Value:   "NoSuchSchema",
		Message: "schema not found",
	}
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "NoSuchSchema")
}

func TestWrappedChains(t *testing.T) {
	inner := &ReferenceError{Ref: "#/bad", IsExternal: true}
	wrapped := fmt.Errorf("building dictionary: %w", inner)

	var refErr *ReferenceError
	assert.ErrorAs(t, wrapped, &refErr)
	assert.ErrorIs(t, wrapped, ErrExternalReference)
}
