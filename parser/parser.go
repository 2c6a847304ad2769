package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdict/dicterrors"
)

// Parser handles OpenAPI 3.x document loading.
type Parser struct {
	// ValidateStructure determines whether to perform basic structure validation
	ValidateStructure bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// ParseResult contains the parsed document and metadata.
//
// Callers should treat the Document as read-only after parsing: the
// dictionary engine derives flattened views from it and never mutates it,
// and the same tree may be shared across concurrent dictionary builds.
type ParseResult struct {
	// SourcePath is the input source path the document was read from
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the declared OAS version string (e.g., "3.0.3", "3.1.0")
	Version string
	// Document is the typed document tree
	Document *Document
}

// Parse reads and parses an OpenAPI 3.x document from a file path.
func Parse(path string) (*ParseResult, error) {
	return New().Parse(path)
}

// Parse reads and parses an OpenAPI 3.x document from a file path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &dicterrors.ParseError{Path: path, Message: "reading source", Cause: err}
	}
	return p.ParseBytes(data, path)
}

// ParseBytes parses an OpenAPI 3.x document from raw bytes.
// The sourcePath is used for format detection and error reporting only.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	format := detectFormat(data, sourcePath)

	var doc Document
	switch format {
	case SourceFormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &dicterrors.ParseError{Path: sourcePath, Message: "invalid JSON", Cause: err}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &dicterrors.ParseError{Path: sourcePath, Message: "invalid YAML", Cause: err}
		}
	}

	if p.ValidateStructure {
		if err := validateStructure(&doc, sourcePath); err != nil {
			return nil, err
		}
	}

	p.log().Debug("parsed document",
		"path", sourcePath,
		"format", string(format),
		"version", doc.OpenAPI,
	)

	return &ParseResult{
		SourcePath:   sourcePath,
		SourceFormat: format,
		Version:      doc.OpenAPI,
		Document:     &doc,
	}, nil
}

// detectFormat determines the source format from the file extension,
// falling back to sniffing the first non-space byte.
func detectFormat(data []byte, sourcePath string) SourceFormat {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return SourceFormatJSON
		default:
			return SourceFormatYAML
		}
	}
	return SourceFormatYAML
}

// validateStructure performs the minimal structural checks the dictionary
// engine relies on. This is not JSON Schema validation: the input is assumed
// to be a syntactically valid OAS3 document.
func validateStructure(doc *Document, sourcePath string) error {
	if doc.OpenAPI == "" {
		return &dicterrors.ParseError{
			Path:    sourcePath,
			Message: "missing required 'openapi' version field",
		}
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return &dicterrors.ParseError{
			Path:    sourcePath,
			Message: fmt.Sprintf("unsupported OAS version %q: only 3.x documents are supported", doc.OpenAPI),
		}
	}
	return nil
}
