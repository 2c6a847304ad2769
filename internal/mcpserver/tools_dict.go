package mcpserver

import (
	"context"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type dictInput struct {
	Spec       specInput `json:"spec"                 jsonschema:"The OAS document to flatten"`
	Schema     string    `json:"schema,omitempty"     jsonschema:"Flatten a single named component schema"`
	Operations bool      `json:"operations,omitempty" jsonschema:"Derive rows from operations instead of component schemas"`
	All        bool      `json:"all,omitempty"        jsonschema:"Derive rows from both component schemas and operations"`
	MaxDepth   int       `json:"max_depth,omitempty"  jsonschema:"Override the schema nesting depth guard"`
	Offset     int       `json:"offset,omitempty"     jsonschema:"Pagination offset into the row list"`
	Limit      int       `json:"limit,omitempty"      jsonschema:"Maximum rows to return"`
}

type dictRow struct {
	Schema      string `json:"schema"`
	Location    string `json:"location,omitempty"`
	Path        string `json:"path"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Nullable    bool   `json:"nullable,omitempty"`
	Description string `json:"description,omitempty"`
}

type dictOutput struct {
	Title       string    `json:"title,omitempty"`
	RowCount    int       `json:"row_count"`
	Rows        []dictRow `json:"rows,omitempty"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
}

func handleDict(_ context.Context, _ *mcp.CallToolRequest, input dictInput) (*mcp.CallToolResult, dictOutput, error) {
	parsed, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), dictOutput{}, nil
	}

	var opts []dictionary.Option
	switch {
	case input.All:
		opts = append(opts, dictionary.WithAll())
	case input.Operations:
		opts = append(opts, dictionary.WithOperations())
	case input.Schema != "":
		opts = append(opts, dictionary.WithSchema(input.Schema))
	}
	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.MaxDepth
	}
	if maxDepth > 0 {
		opts = append(opts, dictionary.WithMaxDepth(maxDepth))
	}

	result, err := dictionary.Build(parsed.Document, opts...)
	if err != nil {
		return errResult(err), dictOutput{}, nil
	}

	output := dictOutput{RowCount: len(result.Fields)}
	if parsed.Document.Info != nil {
		output.Title = parsed.Document.Info.Title
	}
	for _, f := range paginate(result.Fields, input.Offset, input.Limit) {
		output.Rows = append(output.Rows, dictRow{
			Schema:      f.SchemaName,
			Location:    f.Location,
			Path:        f.Path,
			Type:        f.Type,
			Format:      f.Format,
			Required:    f.Required,
			Nullable:    f.Nullable,
			Description: f.Description,
		})
	}
	for _, d := range result.Diagnostics {
		output.Diagnostics = append(output.Diagnostics, d.Err().Error())
	}
	return nil, output, nil
}
