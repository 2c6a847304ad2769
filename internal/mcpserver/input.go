package mcpserver

import (
	"fmt"

	"github.com/erraggy/oasdict/parser"
)

// specInput represents the two ways an OAS document can be provided to a
// tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
}

// resolve parses the referenced document.
func (s specInput) resolve() (*parser.ParseResult, error) {
	switch {
	case s.File != "" && s.Content != "":
		return nil, fmt.Errorf("provide either file or content, not both")
	case s.File != "":
		return parser.Parse(s.File)
	case s.Content != "":
		return parser.New().ParseBytes([]byte(s.Content), "inline.yaml")
	default:
		return nil, fmt.Errorf("one of file or content is required")
	}
}
