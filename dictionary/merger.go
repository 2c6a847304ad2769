package dictionary

import (
	"errors"

	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
)

// Variant is one effective shape produced by expanding a schema node's
// composition keywords. A plain or allOf-merged node yields exactly one
// variant with Index -1; oneOf/anyOf fan out into one variant per
// alternative with 0-based indices.
type Variant struct {
	// Schema is the merged effective node. It is a derived value: the
	// document tree is never mutated.
	Schema *parser.Schema
	// Index is the 0-based alternative index, or -1 for a non-polymorphic
	// shape.
	Index int
	// Suffix is the rendered variant path tag ("#variant<i>", nested tags
	// concatenated). Empty for Index -1.
	Suffix string
	// Discriminator is the discriminator property name declared on the
	// composed node, when present.
	Discriminator string
	// Refs are the branch pointers consumed while resolving this variant.
	// The walker keeps them on the visited stack while descending below.
	Refs []string
}

// Merger combines composition keywords (allOf/oneOf/anyOf/not) into
// effective flattened shapes.
//
// allOf branches merge into a single shape: declaration order processing,
// last declaring branch wins for scalar attributes, required sets union.
// A node's own properties act as an implicit final allOf branch. oneOf and
// anyOf alternatives are never merged together; each becomes its own
// variant. not constrains validity, not shape, and contributes nothing.
type Merger struct {
	res *Resolver
}

// NewMerger creates a merger backed by the given resolver.
func NewMerger(res *Resolver) *Merger {
	return &Merger{res: res}
}

// Expand produces the effective variants for an already-resolved node.
// Branch resolution failures are reported as diagnostics (with Kind and Ref
// set; the caller fills in schema name and path) and the failing branch is
// skipped, in keeping with the localized-failure policy.
func (m *Merger) Expand(s *parser.Schema, visited map[string]bool) ([]Variant, []Diagnostic) {
	if !s.IsComposed() {
		return []Variant{{Schema: s, Index: -1}}, nil
	}

	var diags []Diagnostic

	// oneOf and anyOf both fan out; a node declaring both contributes every
	// alternative, indexed continuously across the two lists.
	alts := make([]*parser.Schema, 0, len(s.OneOf)+len(s.AnyOf))
	alts = append(alts, s.OneOf...)
	alts = append(alts, s.AnyOf...)
	if len(alts) == 0 {
		// allOf only: one merged shape
		merged, refs := m.mergeAllOf(s, visited, &diags)
		return []Variant{{Schema: merged, Index: -1, Refs: refs}}, diags
	}

	// The node's own declared shape (plus any allOf) forms the base each
	// alternative overlays.
	base, baseRefs := m.mergeAllOf(s, visited, &diags)

	discriminator := ""
	if s.Discriminator != nil {
		discriminator = s.Discriminator.PropertyName
	}

	variants := make([]Variant, 0, len(alts))
	for i, alt := range alts {
		resolved, chain, err := m.res.Resolve(alt, visited)
		if err != nil {
			diags = append(diags, branchDiagnostic(err))
			continue
		}
		refs := append(append([]string{}, baseRefs...), chain...)
		added := markVisited(visited, chain)

		if len(resolved.OneOf) > 0 || len(resolved.AnyOf) > 0 {
			// the alternative is itself polymorphic: fan its variants out
			// under a nested suffix
			nested, nestedDiags := m.Expand(resolved, visited)
			diags = append(diags, nestedDiags...)
			for _, nv := range nested {
				shape := copySchema(base)
				overlay(shape, nv.Schema)
				variants = append(variants, Variant{
					Schema:        shape,
					Index:         i,
					Suffix:        variantPath("", i) + nv.Suffix,
					Discriminator: discriminator,
					Refs:          append(append([]string{}, refs...), nv.Refs...),
				})
			}
			unmarkVisited(visited, added)
			continue
		}

		if len(resolved.AllOf) > 0 {
			var altRefs []string
			resolved, altRefs = m.mergeAllOf(resolved, visited, &diags)
			refs = append(refs, altRefs...)
		}
		unmarkVisited(visited, added)

		shape := copySchema(base)
		overlay(shape, resolved)

		variants = append(variants, Variant{
			Schema:        shape,
			Index:         i,
			Suffix:        variantPath("", i),
			Discriminator: discriminator,
			Refs:          refs,
		})
	}
	return variants, diags
}

// mergeAllOf merges a node's allOf branches plus its own declared shape
// (implicit final branch, highest precedence) into a fresh schema.
// Returns the merged shape and the branch pointers consumed.
func (m *Merger) mergeAllOf(s *parser.Schema, visited map[string]bool, diags *[]Diagnostic) (*parser.Schema, []string) {
	out := &parser.Schema{}
	var refs []string

	for _, branch := range s.AllOf {
		resolved, chain, err := m.res.Resolve(branch, visited)
		if err != nil {
			*diags = append(*diags, branchDiagnostic(err))
			continue
		}
		refs = append(refs, chain...)

		// the branch may itself compose further; merge depth-first so the
		// overlay sees a flat shape. The branch pointers stay marked while
		// it merges, so a cyclic allOf graph terminates with a diagnostic
		// instead of recursing.
		added := markVisited(visited, chain)
		if len(resolved.AllOf) > 0 {
			var nested []string
			resolved, nested = m.mergeAllOf(resolved, visited, diags)
			refs = append(refs, nested...)
		}
		unmarkVisited(visited, added)
		overlay(out, resolved)
	}

	own := copySchema(s)
	own.AllOf = nil
	own.OneOf = nil
	own.AnyOf = nil
	overlay(out, own)

	return out, refs
}

// branchDiagnostic converts a branch resolution error to a diagnostic.
func branchDiagnostic(err error) Diagnostic {
	var refErr *dicterrors.ReferenceError
	if !errors.As(err, &refErr) {
		return Diagnostic{Kind: DiagMalformedSchema, Message: err.Error()}
	}
	kind := DiagBrokenReference
	switch {
	case refErr.IsCircular:
		kind = DiagCycleDetected
	case refErr.IsExternal:
		kind = DiagExternalReference
	}
	return Diagnostic{Kind: kind, Ref: refErr.Ref, Message: refErr.Message}
}

// copySchema makes a shallow working copy of a node. Nested nodes stay
// shared with the document tree, which is safe because the tree is
// immutable during a run and the overlay only ever replaces whole entries.
func copySchema(s *parser.Schema) *parser.Schema {
	if s == nil {
		return &parser.Schema{}
	}
	out := *s
	if s.Properties != nil {
		props := make(map[string]*parser.Schema, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v
		}
		out.Properties = props
	}
	if s.Required != nil {
		out.Required = append([]string{}, s.Required...)
	}
	return &out
}

// overlay applies src on top of dst with last-writer-wins semantics for
// scalar attributes and per-property wins for properties. The required set
// is the union across branches: allOf is a logical AND of constraints, so
// every branch's required-set must hold.
func overlay(dst, src *parser.Schema) {
	if src.Type != nil {
		dst.Type = src.Type
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if len(src.Enum) > 0 {
		dst.Enum = src.Enum
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if src.Example != nil {
		dst.Example = src.Example
	}
	if src.Pattern != "" {
		dst.Pattern = src.Pattern
	}
	if src.Minimum != nil {
		dst.Minimum = src.Minimum
	}
	if src.Maximum != nil {
		dst.Maximum = src.Maximum
	}
	if src.ExclusiveMinimum != nil {
		dst.ExclusiveMinimum = src.ExclusiveMinimum
	}
	if src.ExclusiveMaximum != nil {
		dst.ExclusiveMaximum = src.ExclusiveMaximum
	}
	if src.MultipleOf != nil {
		dst.MultipleOf = src.MultipleOf
	}
	if src.MinLength != nil {
		dst.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		dst.MaxLength = src.MaxLength
	}
	if src.MinItems != nil {
		dst.MinItems = src.MinItems
	}
	if src.MaxItems != nil {
		dst.MaxItems = src.MaxItems
	}
	if src.UniqueItems {
		dst.UniqueItems = true
	}
	if src.Items != nil {
		dst.Items = src.Items
	}
	if src.AdditionalProperties != nil {
		dst.AdditionalProperties = src.AdditionalProperties
	}
	if src.Discriminator != nil {
		dst.Discriminator = src.Discriminator
	}
	if src.Nullable {
		dst.Nullable = true
	}
	if src.Deprecated {
		dst.Deprecated = true
	}

	if len(src.Properties) > 0 {
		if dst.Properties == nil {
			dst.Properties = make(map[string]*parser.Schema, len(src.Properties))
		}
		for name, prop := range src.Properties {
			dst.Properties[name] = prop
		}
	}
	for _, name := range src.Required {
		if !contains(dst.Required, name) {
			dst.Required = append(dst.Required, name)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
