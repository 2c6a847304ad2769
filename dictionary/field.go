package dictionary

import (
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/oasdict/dicterrors"
)

// Type markers used for rows that do not carry a concrete schema type.
const (
	// TypeUnresolved marks a placeholder row emitted for a reference that
	// could not be resolved (broken or external pointer).
	TypeUnresolved = "unresolved"

	// TypeRecursiveRef marks the single row emitted at the point where a
	// reference cycle was detected.
	TypeRecursiveRef = "recursive-reference"
)

// Field is one output row of the data dictionary: a single structural
// position (leaf, array, or object boundary) of a walked schema.
//
// Fields are immutable value records; the walker never revisits or rewrites
// a row once emitted.
type Field struct {
	// SchemaName is the root being walked: a component schema name, or an
	// operation context such as "GET /pets" for operation-derived rows.
	SchemaName string
	// Path is the rendered property path: "." joins object members, "[]"
	// marks array element descent, ".*" marks additionalProperties, and
	// "#variant<N>" tags oneOf/anyOf alternatives.
	Path string
	// Leaf is the terminal path segment, normalized (array markers stripped).
	Leaf string
	// Location describes where the row came from for operation-derived
	// rows, e.g. "parameter (query)" or "response body (404, application/json)".
	// Empty for component schema rows.
	Location string

	Type     string
	Format   string
	Required bool
	Nullable bool
	// Enum holds the rendered literal values in declaration order.
	Enum        []string
	Description string

	// Constraints, rendered to strings (empty when not declared).
	Pattern          string
	Minimum          string
	Maximum          string
	ExclusiveMinimum string
	ExclusiveMaximum string
	MultipleOf       string
	MinLength        string
	MaxLength        string
	MinItems         string
	MaxItems         string

	Default string
	Example string

	// Deprecated mirrors the schema's deprecated flag.
	Deprecated bool

	// Meta holds enrichment metadata joined by (SchemaName, Path).
	// Nil when no enrichment matched.
	Meta map[string]string
}

// DiagnosticKind classifies a resolution diagnostic.
type DiagnosticKind string

const (
	// DiagBrokenReference reports a pointer that does not resolve.
	DiagBrokenReference DiagnosticKind = "broken-reference"
	// DiagExternalReference reports a pointer targeting outside the document.
	DiagExternalReference DiagnosticKind = "external-reference-unsupported"
	// DiagCycleDetected reports a reference cycle. Informational: the walk
	// continues past the recursion marker row.
	DiagCycleDetected DiagnosticKind = "cycle-detected"
	// DiagMalformedSchema reports a node violating minimal structural
	// expectations, e.g. an array-typed node without items.
	DiagMalformedSchema DiagnosticKind = "malformed-schema"
	// DiagDepthExceeded reports that the configured recursion depth guard
	// stopped a walk path. Cycles are terminated by the visited set; this
	// guard only trips on pathological non-cyclic depth.
	DiagDepthExceeded DiagnosticKind = "depth-exceeded"
)

// Diagnostic records a localized resolution problem. Diagnostics never abort
// the dictionary build; the affected rows carry placeholder markers and the
// walk continues.
type Diagnostic struct {
	Kind       DiagnosticKind
	Ref        string
	SchemaName string
	Path       string
	Message    string
}

// Err converts the diagnostic to its matching structured error, for drivers
// that fail on accumulated diagnostics.
func (d Diagnostic) Err() error {
	switch d.Kind {
	case DiagBrokenReference:
		return &dicterrors.ReferenceError{Ref: d.Ref, SchemaName: d.SchemaName, Path: d.Path, Message: d.Message}
	case DiagExternalReference:
		return &dicterrors.ReferenceError{Ref: d.Ref, SchemaName: d.SchemaName, Path: d.Path, IsExternal: true, Message: d.Message}
	case DiagCycleDetected:
		return &dicterrors.ReferenceError{Ref: d.Ref, SchemaName: d.SchemaName, Path: d.Path, IsCircular: true, Message: d.Message}
	default:
		return &dicterrors.MalformedSchemaError{SchemaName: d.SchemaName, Path: d.Path, Message: d.Message}
	}
}

// childPath appends an object member segment.
func childPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// arrayPath appends the array element marker.
func arrayPath(base string) string {
	return base + "[]"
}

// additionalPath appends the additionalProperties wildcard segment.
func additionalPath(base string) string {
	if base == "" {
		return "*"
	}
	return base + ".*"
}

// variantPath tags a oneOf/anyOf alternative.
func variantPath(base string, index int) string {
	return base + "#variant" + strconv.Itoa(index)
}

// leafSegment derives the normalized terminal segment of a path: the last
// dotted member with array markers stripped.
func leafSegment(path string) string {
	leaf := path
	if i := strings.LastIndex(path, "."); i >= 0 {
		leaf = path[i+1:]
	}
	if strings.HasSuffix(leaf, "[]") {
		if trimmed := strings.TrimSuffix(leaf, "[]"); trimmed != "" {
			return trimmed
		}
		return "[]"
	}
	return leaf
}

// renderLiteral renders a schema literal (default, example, enum member) for
// tabular output. Strings pass through; everything else renders as JSON.
func renderLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// renderEnum renders enum literals preserving declaration order.
func renderEnum(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, renderLiteral(v))
	}
	return out
}

// renderFloat renders an optional numeric bound.
func renderFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// renderInt renders an optional integer bound.
func renderInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// sortedKeys returns the map's keys in sorted order for deterministic
// iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toSet converts a required-name list to a membership set.
func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
