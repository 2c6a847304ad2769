package dictionary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
)

// Result is a built data dictionary: the flattened rows plus every
// diagnostic raised while producing them. Diagnostics are advisory; a
// non-nil Result can carry both.
type Result struct {
	Fields      []Field
	Diagnostics []Diagnostic
}

// Build flattens the selected portions of a parsed document into dictionary
// rows. It performs no file I/O. Per-node problems (broken references,
// cycles, malformed nodes) surface as Diagnostics on the Result; only a
// structurally unusable document is an error.
func Build(doc *parser.Document, opts ...Option) (*Result, error) {
	if doc == nil {
		return nil, &dicterrors.ConfigError{Option: "document", Message: "document must not be nil"}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	res := NewResolver(doc)
	b := &builder{
		doc:    doc,
		opts:   o,
		walker: NewWalker(res, o.maxDepth, o.logger),
		res:    res,
		result: &Result{},
	}

	switch o.selection {
	case SelectSchema:
		if err := b.buildSchema(o.schemaName); err != nil {
			return nil, err
		}
	case SelectOperations:
		b.buildOperations()
	case SelectAll:
		if err := b.buildComponents(); err != nil {
			return nil, err
		}
		b.buildOperations()
	default:
		if err := b.buildComponents(); err != nil {
			return nil, err
		}
	}

	b.enrich()
	return b.result, nil
}

type builder struct {
	doc    *parser.Document
	opts   options
	walker *Walker
	res    *Resolver
	result *Result
}

func (b *builder) buildComponents() error {
	if !b.doc.HasSchemas() {
		return &dicterrors.MalformedSchemaError{Message: "document declares no components/schemas"}
	}
	for _, name := range sortedKeys(b.doc.Components.Schemas) {
		b.walkSchema(name, b.doc.Components.Schemas[name])
	}
	return nil
}

func (b *builder) buildSchema(name string) error {
	if !b.doc.HasSchemas() {
		return &dicterrors.MalformedSchemaError{Message: "document declares no components/schemas"}
	}
	s, ok := b.doc.Components.Schemas[name]
	if !ok {
		return &dicterrors.ConfigError{Option: "schema", Value: name, Message: "schema not found under components/schemas"}
	}
	b.walkSchema(name, s)
	return nil
}

func (b *builder) walkSchema(name string, s *parser.Schema) {
	b.opts.logger.Debug("walking schema", "schema", name)
	fields, diags := b.walker.WalkSchema(name, s)
	b.collect(fields, diags)
}

// buildOperations walks every operation in deterministic order: paths
// sorted lexically, methods in canonical order, then parameters, request
// body, and responses.
func (b *builder) buildOperations() {
	for _, path := range sortedKeys(b.doc.Paths) {
		item := b.doc.Paths[path]
		if item == nil {
			continue
		}
		for _, method := range parser.Methods {
			op := item.OperationFor(method)
			if op == nil {
				continue
			}
			b.buildOperation(method, path, item, op)
		}
	}
}

func (b *builder) buildOperation(method, path string, item *parser.PathItem, op *parser.Operation) {
	ctx := fmt.Sprintf("%s %s", upperMethod(method), path)
	b.opts.logger.Debug("walking operation", "operation", ctx)

	// path-level parameters apply to every operation on the path
	for _, p := range item.Parameters {
		b.buildParameter(ctx, p)
	}
	for _, p := range op.Parameters {
		b.buildParameter(ctx, p)
	}

	if op.RequestBody != nil {
		b.buildRequestBody(ctx, op.RequestBody)
	}
	for _, status := range sortedKeys(op.Responses) {
		b.buildResponse(ctx, status, op.Responses[status])
	}
}

func (b *builder) buildParameter(ctx string, p *parser.Parameter) {
	resolved, err := b.res.ResolveParameter(p)
	if err != nil {
		b.referenceDiag(ctx, "", err)
		return
	}
	if resolved == nil || resolved.Schema == nil {
		// content-style parameters and bare refs carry no schema to flatten
		return
	}
	loc := fmt.Sprintf("parameter (%s)", resolved.In)
	fields, diags := b.walker.WalkAt(ctx, loc, resolved.Schema, resolved.Name, resolved.Required)
	b.collect(fields, diags)
}

func (b *builder) buildRequestBody(ctx string, rb *parser.RequestBody) {
	resolved, err := b.res.ResolveRequestBody(rb)
	if err != nil {
		b.referenceDiag(ctx, "", err)
		return
	}
	if resolved == nil {
		return
	}
	for _, media := range sortedKeys(resolved.Content) {
		mt := resolved.Content[media]
		if mt == nil || mt.Schema == nil {
			continue
		}
		loc := fmt.Sprintf("requestBody (%s)", media)
		fields, diags := b.walker.WalkAt(ctx, loc, mt.Schema, "", false)
		b.collect(fields, diags)
	}
}

func (b *builder) buildResponse(ctx, status string, resp *parser.Response) {
	resolved, err := b.res.ResolveResponse(resp)
	if err != nil {
		b.referenceDiag(ctx, "", err)
		return
	}
	if resolved == nil {
		return
	}
	for _, media := range sortedKeys(resolved.Content) {
		mt := resolved.Content[media]
		if mt == nil || mt.Schema == nil {
			continue
		}
		loc := fmt.Sprintf("response body (%s, %s)", status, media)
		fields, diags := b.walker.WalkAt(ctx, loc, mt.Schema, "", false)
		b.collect(fields, diags)
	}
}

// referenceDiag converts a component-level resolution failure into a
// diagnostic so a single bad reference never sinks the whole build.
func (b *builder) referenceDiag(ctx, path string, err error) {
	var refErr *dicterrors.ReferenceError
	if errors.As(err, &refErr) {
		kind := DiagBrokenReference
		switch {
		case refErr.IsCircular:
			kind = DiagCycleDetected
		case refErr.IsExternal:
			kind = DiagExternalReference
		}
		b.result.Diagnostics = append(b.result.Diagnostics, Diagnostic{
			Kind: kind, Ref: refErr.Ref, SchemaName: ctx, Path: path, Message: refErr.Message,
		})
		return
	}
	b.result.Diagnostics = append(b.result.Diagnostics, Diagnostic{
		Kind: DiagMalformedSchema, SchemaName: ctx, Path: path, Message: err.Error(),
	})
}

func (b *builder) collect(fields []Field, diags []Diagnostic) {
	b.result.Fields = append(b.result.Fields, fields...)
	b.result.Diagnostics = append(b.result.Diagnostics, diags...)
}

// enrich left-joins supplementary columns onto rows by (schema name, path).
func (b *builder) enrich() {
	if len(b.opts.enrichment) == 0 {
		return
	}
	for i := range b.result.Fields {
		f := &b.result.Fields[i]
		extra, ok := b.opts.enrichment[Key{SchemaName: f.SchemaName, Path: f.Path}]
		if !ok {
			continue
		}
		if f.Meta == nil {
			f.Meta = make(map[string]string, len(extra))
		}
		for k, v := range extra {
			f.Meta[k] = v
		}
	}
}

func upperMethod(m string) string {
	return strings.ToUpper(m)
}
