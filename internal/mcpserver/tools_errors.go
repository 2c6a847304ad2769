package mcpserver

import (
	"context"

	"github.com/erraggy/oasdict/httperrors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type errorsInput struct {
	Spec          specInput `json:"spec"                      jsonschema:"The OAS document to summarize"`
	GroupByStatus bool      `json:"group_by_status,omitempty" jsonschema:"Collapse to one row per HTTP status"`
}

type errorRow struct {
	Status      string `json:"status"`
	ErrorCode   string `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	EnumValues  string `json:"enum_values,omitempty"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
}

type errorsOutput struct {
	RowCount int        `json:"row_count"`
	Rows     []errorRow `json:"rows,omitempty"`
}

func handleErrors(_ context.Context, _ *mcp.CallToolRequest, input errorsInput) (*mcp.CallToolResult, errorsOutput, error) {
	parsed, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), errorsOutput{}, nil
	}

	var opts []httperrors.Option
	if input.GroupByStatus {
		opts = append(opts, httperrors.WithGroupByStatus())
	}

	rows, err := httperrors.Compile(parsed.Document, opts...)
	if err != nil {
		return errResult(err), errorsOutput{}, nil
	}

	output := errorsOutput{RowCount: len(rows)}
	for _, r := range rows {
		output.Rows = append(output.Rows, errorRow{
			Status:      r.Status,
			ErrorCode:   r.ErrorCode,
			Description: r.Description,
			EnumValues:  r.EnumValues,
			Method:      r.Method,
			Path:        r.Path,
		})
	}
	return nil, output, nil
}
