package dictionary

import (
	"errors"

	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
)

// DefaultMaxDepth is the default recursion depth guard for schema walks.
// Cycles are terminated by the visited-pointer set; the guard only trips on
// pathological non-cyclic nesting.
const DefaultMaxDepth = 100

// Walker flattens a resolved, merged schema tree into Field rows:
// depth-first, property names in sorted order, one row per structural
// position. For a fixed document tree, repeated walks produce an identical
// row sequence.
type Walker struct {
	res      *Resolver
	mrg      *Merger
	maxDepth int
	logger   parser.Logger
}

// NewWalker creates a walker over the given document tree.
// A maxDepth <= 0 keeps the default.
func NewWalker(res *Resolver, maxDepth int, logger parser.Logger) *Walker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = parser.NopLogger{}
	}
	return &Walker{
		res:      res,
		mrg:      NewMerger(res),
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// WalkSchema flattens a named component schema. The schema's own pointer is
// seeded on the visited stack so that any path referring back to the root
// terminates with a recursion marker.
func (w *Walker) WalkSchema(name string, s *parser.Schema) ([]Field, []Diagnostic) {
	visited := map[string]bool{SchemaPointer(name): true}
	wk := &schemaWalk{w: w, schemaName: name}
	wk.node(s, "", false, visited, 0)
	return wk.fields, wk.diags
}

// WalkAt flattens a schema in an operation context: rows are tagged with
// the given context name and location instead of a component schema name.
// A non-empty path produces a row for the schema itself (a named parameter);
// an empty path treats the schema as an anonymous body root and emits only
// its descendants.
func (w *Walker) WalkAt(contextName, location string, s *parser.Schema, path string, required bool) ([]Field, []Diagnostic) {
	wk := &schemaWalk{w: w, schemaName: contextName, location: location}
	wk.node(s, path, required, map[string]bool{}, 0)
	return wk.fields, wk.diags
}

// schemaWalk holds the walk-scoped state: accumulated rows and diagnostics.
// The visited set travels on the call stack because entries are scoped to
// the subtree below the reference that added them.
type schemaWalk struct {
	w          *Walker
	schemaName string
	location   string
	fields     []Field
	diags      []Diagnostic
}

// node resolves and expands one schema position, emits its row, and
// descends into children.
func (wk *schemaWalk) node(s *parser.Schema, path string, required bool, visited map[string]bool, depth int) {
	w := wk.w

	if s == nil {
		wk.diag(Diagnostic{Kind: DiagMalformedSchema, Path: path, Message: "missing schema node"})
		return
	}
	if depth > w.maxDepth {
		wk.diag(Diagnostic{Kind: DiagDepthExceeded, Path: path, Message: "schema nesting exceeds configured depth guard"})
		return
	}

	resolved, refs, err := w.res.Resolve(s, visited)
	if err != nil {
		wk.referenceFailure(err, path, required)
		return
	}

	// pointers followed here stay on the stack for the whole subtree
	added := markVisited(visited, refs)
	defer unmarkVisited(visited, added)

	variants, vdiags := w.mrg.Expand(resolved, visited)
	for _, d := range vdiags {
		d.Path = path
		wk.diag(d)
	}

	for _, v := range variants {
		wk.shape(v, path+v.Suffix, required, visited, depth)
	}
}

// shape emits the row for an effective variant and descends into its
// object members, additionalProperties, and array items.
func (wk *schemaWalk) shape(v Variant, path string, required bool, visited map[string]bool, depth int) {
	added := markVisited(visited, v.Refs)
	defer unmarkVisited(visited, added)

	s := v.Schema
	typ, nullType := s.TypeString()
	nullable := nullType || s.Nullable

	if path != "" {
		wk.emit(s, path, typ, nullable, required)
	}

	reqSet := toSet(s.Required)
	for _, name := range sortedKeys(s.Properties) {
		wk.node(s.Properties[name], childPath(path, name), reqSet[name], visited, depth+1)
	}
	if s.AdditionalProperties.HasSchema() {
		wk.node(s.AdditionalProperties.Schema, additionalPath(path), false, visited, depth+1)
	}

	if typ == "array" || s.Items != nil {
		if s.Items == nil {
			wk.diag(Diagnostic{Kind: DiagMalformedSchema, Path: path, Message: "array type without items"})
			return
		}
		wk.node(s.Items, arrayPath(path), false, visited, depth+1)
	}
}

// referenceFailure emits the placeholder row and diagnostic for a failed
// resolution: broken and external pointers yield an unresolved row, cycles
// yield exactly one recursion marker row without further descent.
func (wk *schemaWalk) referenceFailure(err error, path string, required bool) {
	var refErr *dicterrors.ReferenceError
	if !errors.As(err, &refErr) {
		wk.diag(Diagnostic{Kind: DiagMalformedSchema, Path: path, Message: err.Error()})
		return
	}

	if path == "" {
		// walk root itself failed to resolve; there is no row position for it
		switch {
		case refErr.IsCircular:
			wk.diag(Diagnostic{Kind: DiagCycleDetected, Ref: refErr.Ref, Path: path})
		case refErr.IsExternal:
			wk.diag(Diagnostic{Kind: DiagExternalReference, Ref: refErr.Ref, Path: path, Message: refErr.Message})
		default:
			wk.diag(Diagnostic{Kind: DiagBrokenReference, Ref: refErr.Ref, Path: path, Message: refErr.Message})
		}
		return
	}

	switch {
	case refErr.IsCircular:
		wk.w.logger.Debug("cycle detected", "ref", refErr.Ref, "schema", wk.schemaName, "path", path)
		wk.diag(Diagnostic{Kind: DiagCycleDetected, Ref: refErr.Ref, Path: path})
		wk.fields = append(wk.fields, Field{
			SchemaName:  wk.schemaName,
			Location:    wk.location,
			Path:        path,
			Leaf:        leafSegment(path),
			Type:        TypeRecursiveRef,
			Required:    required,
			Description: "recursive reference to " + refErr.Ref,
		})
	case refErr.IsExternal:
		wk.diag(Diagnostic{Kind: DiagExternalReference, Ref: refErr.Ref, Path: path, Message: refErr.Message})
		wk.fields = append(wk.fields, Field{
			SchemaName:  wk.schemaName,
			Location:    wk.location,
			Path:        path,
			Leaf:        leafSegment(path),
			Type:        TypeUnresolved,
			Required:    required,
			Description: "external reference " + refErr.Ref + " is not supported",
		})
	default:
		wk.diag(Diagnostic{Kind: DiagBrokenReference, Ref: refErr.Ref, Path: path, Message: refErr.Message})
		wk.fields = append(wk.fields, Field{
			SchemaName:  wk.schemaName,
			Location:    wk.location,
			Path:        path,
			Leaf:        leafSegment(path),
			Type:        TypeUnresolved,
			Required:    required,
			Description: "unresolved reference " + refErr.Ref,
		})
	}
}

// emit appends the row for a structural position.
func (wk *schemaWalk) emit(s *parser.Schema, path, typ string, nullable, required bool) {
	wk.fields = append(wk.fields, Field{
		SchemaName:       wk.schemaName,
		Location:         wk.location,
		Path:             path,
		Leaf:             leafSegment(path),
		Type:             typ,
		Format:           s.Format,
		Required:         required,
		Nullable:         nullable,
		Enum:             renderEnum(s.Enum),
		Description:      s.Description,
		Pattern:          s.Pattern,
		Minimum:          renderFloat(s.Minimum),
		Maximum:          renderFloat(s.Maximum),
		ExclusiveMinimum: renderLiteral(s.ExclusiveMinimum),
		ExclusiveMaximum: renderLiteral(s.ExclusiveMaximum),
		MultipleOf:       renderFloat(s.MultipleOf),
		MinLength:        renderInt(s.MinLength),
		MaxLength:        renderInt(s.MaxLength),
		MinItems:         renderInt(s.MinItems),
		MaxItems:         renderInt(s.MaxItems),
		Default:          renderLiteral(s.Default),
		Example:          renderLiteral(s.Example),
		Deprecated:       s.Deprecated,
	})
}

// diag records a diagnostic tagged with the walk's root.
func (wk *schemaWalk) diag(d Diagnostic) {
	d.SchemaName = wk.schemaName
	wk.diags = append(wk.diags, d)
}

// markVisited adds pointers to the visited stack, returning only the ones
// newly added so that re-entrant pointers are not removed prematurely.
func markVisited(visited map[string]bool, refs []string) []string {
	var added []string
	for _, ref := range refs {
		if !visited[ref] {
			visited[ref] = true
			added = append(added, ref)
		}
	}
	return added
}

// unmarkVisited removes pointers added by the matching markVisited call.
func unmarkVisited(visited map[string]bool, added []string) {
	for _, ref := range added {
		delete(visited, ref)
	}
}
