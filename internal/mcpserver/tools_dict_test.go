package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.0.3"
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
        "404":
          description: not found
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        age:
          type: integer
    Error:
      type: object
      properties:
        code:
          type: string
          enum: [NOT_FOUND, GONE]
        message:
          type: string
      example:
        code: NOT_FOUND
        message: no such pet
`

func TestDictTool_Components(t *testing.T) {
	input := dictInput{
		Spec: specInput{Content: testSpecYAML},
	}
	_, output, err := handleDict(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, "Pet Store", output.Title)
	assert.Empty(t, output.Diagnostics)
	require.NotEmpty(t, output.Rows)
	assert.Equal(t, len(output.Rows), output.RowCount)

	var sawName bool
	for _, r := range output.Rows {
		if r.Schema == "Pet" && r.Path == "name" {
			sawName = true
			assert.Equal(t, "string", r.Type)
			assert.True(t, r.Required)
		}
	}
	assert.True(t, sawName)
}

func TestDictTool_SingleSchema(t *testing.T) {
	input := dictInput{
		Spec:   specInput{Content: testSpecYAML},
		Schema: "Pet",
	}
	_, output, err := handleDict(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	require.NotEmpty(t, output.Rows)
	for _, r := range output.Rows {
		assert.Equal(t, "Pet", r.Schema)
	}
}

func TestDictTool_Pagination(t *testing.T) {
	input := dictInput{
		Spec:   specInput{Content: testSpecYAML},
		Offset: 1,
		Limit:  1,
	}
	_, output, err := handleDict(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Len(t, output.Rows, 1)
	assert.Greater(t, output.RowCount, 1)
}

func TestDictTool_BadInput(t *testing.T) {
	result, _, err := handleDict(context.Background(), &mcp.CallToolRequest{}, dictInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
