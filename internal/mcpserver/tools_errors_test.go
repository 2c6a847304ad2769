package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsTool(t *testing.T) {
	input := errorsInput{
		Spec: specInput{Content: testSpecYAML},
	}
	_, output, err := handleErrors(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	require.NotEmpty(t, output.Rows)
	assert.Equal(t, len(output.Rows), output.RowCount)

	var sawNotFound bool
	for _, r := range output.Rows {
		if r.Status == "404" && r.ErrorCode == "NOT_FOUND" {
			sawNotFound = true
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "/pets", r.Path)
		}
	}
	assert.True(t, sawNotFound)
}

func TestErrorsTool_GroupByStatus(t *testing.T) {
	input := errorsInput{
		Spec:          specInput{Content: testSpecYAML},
		GroupByStatus: true,
	}
	_, output, err := handleErrors(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	statuses := map[string]int{}
	for _, r := range output.Rows {
		statuses[r.Status]++
		assert.Empty(t, r.Method)
		assert.Empty(t, r.Path)
	}
	for status, n := range statuses {
		assert.Equal(t, 1, n, "status %s must collapse to one row", status)
	}
}

func TestErrorsTool_BadInput(t *testing.T) {
	result, _, err := handleErrors(context.Background(), &mcp.CallToolRequest{}, errorsInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
