package dictionary

import "github.com/erraggy/oasdict/parser"

// Selection chooses which parts of a document feed the dictionary.
type Selection int

const (
	// SelectComponents walks every schema under components/schemas in
	// sorted name order. This is the default.
	SelectComponents Selection = iota
	// SelectSchema walks a single named component schema.
	SelectSchema
	// SelectOperations walks paths/operations: parameters, request bodies,
	// and response bodies.
	SelectOperations
	// SelectAll combines SelectComponents and SelectOperations.
	SelectAll
)

// Key addresses a dictionary row for enrichment joins.
type Key struct {
	SchemaName string
	Path       string
}

// Enrichment holds supplementary columns joined onto rows by
// (schema name, path). Rows without a matching key pass through unchanged.
type Enrichment map[Key]map[string]string

// Option configures a Build call.
type Option func(*options)

type options struct {
	selection  Selection
	schemaName string
	maxDepth   int
	logger     parser.Logger
	enrichment Enrichment
}

func defaultOptions() options {
	return options{
		selection: SelectComponents,
		maxDepth:  DefaultMaxDepth,
		logger:    parser.NopLogger{},
	}
}

// WithSchema restricts the build to one named component schema.
func WithSchema(name string) Option {
	return func(o *options) {
		o.selection = SelectSchema
		o.schemaName = name
	}
}

// WithOperations selects path/operation-derived rows instead of components.
func WithOperations() Option {
	return func(o *options) {
		o.selection = SelectOperations
	}
}

// WithAll selects both component schemas and operation-derived rows.
func WithAll() Option {
	return func(o *options) {
		o.selection = SelectAll
	}
}

// WithMaxDepth overrides the recursion depth guard. Values <= 0 keep
// the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used during the build. Defaults to no-op.
func WithLogger(logger parser.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEnrichment joins supplementary columns onto rows by
// (schema name, path).
func WithEnrichment(e Enrichment) Option {
	return func(o *options) {
		o.enrichment = e
	}
}
