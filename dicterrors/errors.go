// Package dicterrors provides structured error types for oasdict.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ParseError: YAML/JSON parsing failures and structural issues
//   - ReferenceError: $ref resolution failures, cycles, external pointers
//   - MalformedSchemaError: a node violates minimal structural expectations
//   - ConfigError: Invalid configuration or input options
//
// # Usage with errors.Is
//
//	dict, err := dictionary.Build(doc, dictionary.WithSchema("Pet"))
//	if err != nil {
//	    var refErr *dicterrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        if refErr.IsCircular {
//	            // Handle circular reference specifically
//	        }
//	    }
//	}
package dicterrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrExternalReference indicates a $ref pointing outside the document.
	// Only local, same-document pointers are supported.
	ErrExternalReference = errors.New("external reference unsupported")

	// ErrMalformedSchema indicates a schema node violated minimal
	// structural expectations.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrStrict indicates a strict-mode run accumulated diagnostics.
	ErrStrict = errors.New("diagnostics reported in strict mode")
)

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
// This includes missing targets, circular references, and external pointers.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// SchemaName is the root schema whose walk encountered the failure
	SchemaName string
	// Path is the property path where the reference occurred
	Path string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// IsExternal is true if the pointer targets outside the document
	IsExternal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	} else if e.IsExternal {
		msg = "external reference unsupported"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.SchemaName != "" {
		msg += " in schema " + e.SchemaName
		if e.Path != "" {
			msg += " at " + e.Path
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference or ErrExternalReference
// when the appropriate flags are set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	if target == ErrExternalReference && e.IsExternal {
		return true
	}
	return false
}

// MalformedSchemaError represents a schema node that violates minimal
// structural expectations, such as an array-typed node without items.
type MalformedSchemaError struct {
	// SchemaName is the root schema whose walk encountered the node
	SchemaName string
	// Path is the property path of the offending node
	Path string
	// Message describes the structural violation
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedSchemaError) Error() string {
	msg := "malformed schema"
	if e.SchemaName != "" {
		msg += " " + e.SchemaName
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as MalformedSchemaError has no underlying cause.
func (e *MalformedSchemaError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MalformedSchemaError) Is(target error) bool {
	return target == ErrMalformedSchema
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
