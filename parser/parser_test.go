package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreYAML = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
            format: int32
      responses:
        "200":
          description: A list of pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
          description: Display name
        status:
          type: string
          nullable: true
          enum: [available, pending, sold]
`

func TestParseBytes_YAML(t *testing.T) {
	result, err := New().ParseBytes([]byte(petstoreYAML), "petstore.yaml")
	require.NoError(t, err)

	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "3.0.3", result.Version)

	doc := result.Document
	require.NotNil(t, doc.Components)
	require.Contains(t, doc.Components.Schemas, "Pet")

	pet := doc.Components.Schemas["Pet"]
	assert.Equal(t, []string{"id", "name"}, pet.Required)
	require.Contains(t, pet.Properties, "status")
	assert.True(t, pet.Properties["status"].Nullable)
	assert.Len(t, pet.Properties["status"].Enum, 3)

	require.Contains(t, doc.Paths, "/pets")
	op := doc.Paths["/pets"].Get
	require.NotNil(t, op)
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	require.Contains(t, op.Responses, "200")
	items := op.Responses["200"].Content["application/json"].Schema.Items
	require.NotNil(t, items)
	assert.Equal(t, "#/components/schemas/Pet", items.Ref)
}

func TestParseBytes_JSON(t *testing.T) {
	src := `{
		"openapi": "3.1.0",
		"info": {"title": "T", "version": "1"},
		"components": {
			"schemas": {
				"Thing": {
					"type": ["string", "null"],
					"maxLength": 10
				}
			}
		}
	}`
	result, err := New().ParseBytes([]byte(src), "thing.json")
	require.NoError(t, err)

	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	thing := result.Document.Components.Schemas["Thing"]
	typ, nullable := thing.TypeString()
	assert.Equal(t, "string", typ)
	assert.True(t, nullable)
	require.NotNil(t, thing.MaxLength)
	assert.Equal(t, 10, *thing.MaxLength)
}

func TestParseBytes_FormatSniffing(t *testing.T) {
	// No extension hint: leading brace means JSON.
	jsonSrc := `{"openapi": "3.0.0", "info": {"title": "T", "version": "1"}}`
	result, err := New().ParseBytes([]byte(jsonSrc), "stdin")
	require.NoError(t, err)
	assert.Equal(t, SourceFormatJSON, result.SourceFormat)

	yamlSrc := "openapi: 3.0.0\ninfo:\n  title: T\n  version: '1'\n"
	result, err = New().ParseBytes([]byte(yamlSrc), "stdin")
	require.NoError(t, err)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
}

func TestParseBytes_RejectsNonOAS3(t *testing.T) {
	src := "swagger: '2.0'\ninfo:\n  title: Old\n  version: '1'\n"
	_, err := New().ParseBytes([]byte(src), "old.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openapi")
}

func TestParseBytes_InvalidYAML(t *testing.T) {
	_, err := New().ParseBytes([]byte(":\n  - ["), "bad.yaml")
	require.Error(t, err)
}

func TestAdditionalProperties_BoolAndSchema(t *testing.T) {
	src := `
openapi: 3.0.3
info:
  title: T
  version: "1"
components:
  schemas:
    Closed:
      type: object
      additionalProperties: false
    MapOfStrings:
      type: object
      additionalProperties:
        type: string
`
	result, err := New().ParseBytes([]byte(src), "ap.yaml")
	require.NoError(t, err)

	closed := result.Document.Components.Schemas["Closed"].AdditionalProperties
	require.NotNil(t, closed)
	require.NotNil(t, closed.Allowed)
	assert.False(t, *closed.Allowed)
	assert.False(t, closed.HasSchema())

	mapped := result.Document.Components.Schemas["MapOfStrings"].AdditionalProperties
	require.NotNil(t, mapped)
	assert.True(t, mapped.HasSchema())
	typ, _ := mapped.Schema.TypeString()
	assert.Equal(t, "string", typ)
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name     string
		typ      any
		expected string
		nullable bool
	}{
		{name: "plain string type", typ: "integer", expected: "integer", nullable: false},
		{name: "union with null", typ: []any{"string", "null"}, expected: "string", nullable: true},
		{name: "null only", typ: []any{"null"}, expected: "", nullable: true},
		{name: "unset", typ: nil, expected: "", nullable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Schema{Type: tt.typ}
			typ, nullable := s.TypeString()
			assert.Equal(t, tt.expected, typ)
			assert.Equal(t, tt.nullable, nullable)
		})
	}
}
