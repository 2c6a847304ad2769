package dictionary

import (
	"strconv"
	"strings"

	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
)

// maxRefDepth is the maximum length of a $ref chain followed during a single
// resolution. This prevents unbounded chains of reference-to-reference nodes;
// circular chains are caught earlier by the visited set.
const maxRefDepth = 100

// Resolver resolves local $ref pointers against a typed document tree.
//
// Only local, in-document pointers under #/components are supported; an
// external-file or HTTP pointer is reported as unsupported, never fetched.
// Lookups are memoized per document: the tree is immutable during a run, so
// a pointer string always resolves to the same node.
type Resolver struct {
	doc  *parser.Document
	memo map[string]*parser.Schema
}

// NewResolver creates a resolver for the given document tree.
func NewResolver(doc *parser.Document) *Resolver {
	return &Resolver{
		doc:  doc,
		memo: make(map[string]*parser.Schema),
	}
}

// Resolve follows the $ref chain from s until a non-reference node is
// reached. The visited set holds pointers currently on the resolution stack
// of the walk; encountering one of them, or a pointer already followed
// within this chain, is a cycle.
//
// Returns the final node and the pointer chain followed (empty when s was
// not a reference). On failure the returned error is a
// *dicterrors.ReferenceError whose flags distinguish broken, external, and
// circular pointers.
func (r *Resolver) Resolve(s *parser.Schema, visited map[string]bool) (*parser.Schema, []string, error) {
	var refs []string
	var chain map[string]bool
	for s != nil && s.Ref != "" {
		ref := s.Ref
		if !strings.HasPrefix(ref, "#") {
			return nil, refs, &dicterrors.ReferenceError{
				Ref:        ref,
				IsExternal: true,
				Message:    "only local, same-document pointers are supported",
			}
		}
		if visited[ref] || chain[ref] {
			return nil, refs, &dicterrors.ReferenceError{
				Ref:        ref,
				IsCircular: true,
			}
		}
		if len(refs) >= maxRefDepth {
			return nil, refs, &dicterrors.ReferenceError{
				Ref:     ref,
				Message: "reference chain too deep",
			}
		}

		target, err := r.lookup(ref)
		if err != nil {
			return nil, refs, err
		}
		if chain == nil {
			chain = make(map[string]bool)
		}
		chain[ref] = true
		refs = append(refs, ref)
		s = target
	}
	return s, refs, nil
}

// lookup resolves a single local pointer to a schema node.
func (r *Resolver) lookup(ref string) (*parser.Schema, error) {
	if s, ok := r.memo[ref]; ok {
		return s, nil
	}

	s, err := r.evaluate(ref)
	if err != nil {
		return nil, err
	}
	r.memo[ref] = s
	return s, nil
}

// evaluate walks the pointer segments into the typed tree.
// Schema pointers start at #/components/schemas/<name>; further segments
// descend structurally (properties/<name>, items, allOf/<i>, ...).
func (r *Resolver) evaluate(ref string) (*parser.Schema, error) {
	broken := func(msg string) error {
		return &dicterrors.ReferenceError{Ref: ref, Message: msg}
	}

	trimmed := strings.TrimPrefix(ref, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return nil, broken("pointer to document root is not a schema")
	}

	parts := strings.Split(trimmed, "/")
	for i, p := range parts {
		parts[i] = unescapeJSONPointer(p)
	}

	if len(parts) < 3 || parts[0] != "components" || parts[1] != "schemas" {
		return nil, broken("pointer does not target components/schemas")
	}
	if r.doc == nil || r.doc.Components == nil {
		return nil, broken("document has no components section")
	}

	s, ok := r.doc.Components.Schemas[parts[2]]
	if !ok {
		return nil, broken("schema " + parts[2] + " not found")
	}

	// Structural descent below the named schema. "properties" and the
	// composition keywords consume two tokens (keyword + name/index).
	for i := 3; i < len(parts); {
		seg := parts[i]
		switch seg {
		case "properties":
			if i+1 >= len(parts) || s == nil || s.Properties == nil {
				return nil, broken("cannot descend into properties")
			}
			s = s.Properties[parts[i+1]]
			i += 2
		case "allOf", "oneOf", "anyOf":
			if i+1 >= len(parts) || s == nil {
				return nil, broken("cannot descend into " + seg)
			}
			branches := compositionBranches(s, seg)
			idx, err := strconv.Atoi(parts[i+1])
			if err != nil || idx < 0 || idx >= len(branches) {
				return nil, broken("invalid " + seg + " index " + parts[i+1])
			}
			s = branches[idx]
			i += 2
		case "items":
			if s == nil {
				return nil, broken("cannot descend into items")
			}
			s = s.Items
			i++
		case "additionalProperties":
			if s == nil || !s.AdditionalProperties.HasSchema() {
				return nil, broken("cannot descend into additionalProperties")
			}
			s = s.AdditionalProperties.Schema
			i++
		case "not":
			if s == nil {
				return nil, broken("cannot descend into not")
			}
			s = s.Not
			i++
		default:
			return nil, broken("unsupported pointer segment " + seg)
		}
	}
	if s == nil {
		return nil, broken("pointer target is empty")
	}
	return s, nil
}

// compositionBranches returns the named composition branch list.
func compositionBranches(s *parser.Schema, keyword string) []*parser.Schema {
	switch keyword {
	case "allOf":
		return s.AllOf
	case "oneOf":
		return s.OneOf
	default:
		return s.AnyOf
	}
}

// maxComponentHops bounds reference-to-reference chains among non-schema
// components (a parameter referencing a parameter, and so on).
const maxComponentHops = 10

// ResolveParameter follows a parameter's $ref chain into components/parameters.
func (r *Resolver) ResolveParameter(p *parser.Parameter) (*parser.Parameter, error) {
	for hops := 0; p != nil && p.Ref != ""; hops++ {
		if hops >= maxComponentHops {
			return nil, &dicterrors.ReferenceError{Ref: p.Ref, IsCircular: true}
		}
		name, err := componentName(p.Ref, "parameters")
		if err != nil {
			return nil, err
		}
		if r.doc.Components == nil || r.doc.Components.Parameters[name] == nil {
			return nil, &dicterrors.ReferenceError{Ref: p.Ref, Message: "parameter " + name + " not found"}
		}
		p = r.doc.Components.Parameters[name]
	}
	return p, nil
}

// ResolveResponse follows a response's $ref chain into components/responses.
func (r *Resolver) ResolveResponse(resp *parser.Response) (*parser.Response, error) {
	for hops := 0; resp != nil && resp.Ref != ""; hops++ {
		if hops >= maxComponentHops {
			return nil, &dicterrors.ReferenceError{Ref: resp.Ref, IsCircular: true}
		}
		name, err := componentName(resp.Ref, "responses")
		if err != nil {
			return nil, err
		}
		if r.doc.Components == nil || r.doc.Components.Responses[name] == nil {
			return nil, &dicterrors.ReferenceError{Ref: resp.Ref, Message: "response " + name + " not found"}
		}
		resp = r.doc.Components.Responses[name]
	}
	return resp, nil
}

// ResolveRequestBody follows a request body's $ref chain into
// components/requestBodies.
func (r *Resolver) ResolveRequestBody(rb *parser.RequestBody) (*parser.RequestBody, error) {
	for hops := 0; rb != nil && rb.Ref != ""; hops++ {
		if hops >= maxComponentHops {
			return nil, &dicterrors.ReferenceError{Ref: rb.Ref, IsCircular: true}
		}
		name, err := componentName(rb.Ref, "requestBodies")
		if err != nil {
			return nil, err
		}
		if r.doc.Components == nil || r.doc.Components.RequestBodies[name] == nil {
			return nil, &dicterrors.ReferenceError{Ref: rb.Ref, Message: "request body " + name + " not found"}
		}
		rb = r.doc.Components.RequestBodies[name]
	}
	return rb, nil
}

// componentName extracts the component name from a local pointer of the
// form #/components/<section>/<name>.
func componentName(ref, section string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return "", &dicterrors.ReferenceError{
			Ref:        ref,
			IsExternal: true,
			Message:    "only local, same-document pointers are supported",
		}
	}
	prefix := "#/components/" + section + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", &dicterrors.ReferenceError{Ref: ref, Message: "pointer does not target components/" + section}
	}
	return unescapeJSONPointer(strings.TrimPrefix(ref, prefix)), nil
}

// unescapeJSONPointer unescapes JSON Pointer tokens
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// escapeJSONPointer escapes a token for embedding in a pointer string.
func escapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// SchemaPointer renders the canonical pointer for a named component schema.
func SchemaPointer(name string) string {
	return "#/components/schemas/" + escapeJSONPointer(name)
}
