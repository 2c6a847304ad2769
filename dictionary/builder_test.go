package dictionary

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdict/dicterrors"
)

const builderFixture = `
openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets:
    parameters:
      - name: tenant
        in: header
        schema:
          type: string
    get:
      parameters:
        - name: limit
          in: query
          required: true
          schema:
            type: integer
            maximum: 100
      responses:
        '200':
          description: pets
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '201':
          description: created
  /pets/{petId}:
    get:
      parameters:
        - $ref: '#/components/parameters/PetID'
      responses:
        '200':
          $ref: '#/components/responses/SinglePet'
components:
  parameters:
    PetID:
      name: petId
      in: path
      required: true
      schema:
        type: string
  responses:
    SinglePet:
      description: one pet
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Pet'
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        age:
          type: integer
    Zebra:
      type: object
      properties:
        stripes:
          type: integer
    Apple:
      type: object
      properties:
        color:
          type: string
`

func TestBuildComponents(t *testing.T) {
	doc := parseDoc(t, builderFixture)
	result, err := Build(doc)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)

	// schemas walked in sorted name order
	var names []string
	for _, f := range result.Fields {
		if len(names) == 0 || names[len(names)-1] != f.SchemaName {
			names = append(names, f.SchemaName)
		}
	}
	assert.Equal(t, []string{"Apple", "Pet", "Zebra"}, names)

	name := fieldAt(t, result.Fields, "name")
	assert.Equal(t, "Pet", name.SchemaName)
	assert.True(t, name.Required)
}

func TestBuildSingleSchema(t *testing.T) {
	doc := parseDoc(t, builderFixture)

	result, err := Build(doc, WithSchema("Pet"))
	require.NoError(t, err)
	require.Len(t, result.Fields, 2)
	for _, f := range result.Fields {
		assert.Equal(t, "Pet", f.SchemaName)
	}

	_, err = Build(doc, WithSchema("Nope"))
	require.Error(t, err)
	var cfgErr *dicterrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildNilDocument(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, dicterrors.ErrConfig)
}

func TestBuildNoSchemas(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
`)
	_, err := Build(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, dicterrors.ErrMalformedSchema)
}

func TestBuildOperations(t *testing.T) {
	doc := parseDoc(t, builderFixture)
	result, err := Build(doc, WithOperations())
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)

	byContext := map[string][]Field{}
	for _, f := range result.Fields {
		byContext[f.SchemaName] = append(byContext[f.SchemaName], f)
	}

	t.Run("query parameter", func(t *testing.T) {
		limit := fieldAt(t, byContext["GET /pets"], "limit")
		assert.Equal(t, "parameter (query)", limit.Location)
		assert.Equal(t, "integer", limit.Type)
		assert.True(t, limit.Required)
		assert.Equal(t, "100", limit.Maximum)
	})

	t.Run("path-level parameter applies to operations", func(t *testing.T) {
		tenant := fieldAt(t, byContext["GET /pets"], "tenant")
		assert.Equal(t, "parameter (header)", tenant.Location)
		assert.False(t, tenant.Required)
	})

	t.Run("referenced parameter resolves", func(t *testing.T) {
		petID := fieldAt(t, byContext["GET /pets/{petId}"], "petId")
		assert.Equal(t, "parameter (path)", petID.Location)
		assert.True(t, petID.Required)
	})

	t.Run("request body rows", func(t *testing.T) {
		var body []Field
		for _, f := range byContext["POST /pets"] {
			if f.Location == "requestBody (application/json)" {
				body = append(body, f)
			}
		}
		require.Len(t, body, 2)
		assert.Equal(t, []string{"age", "name"}, paths(body))
	})

	t.Run("response body rows", func(t *testing.T) {
		elem := fieldAt(t, byContext["GET /pets"], "[]")
		assert.Equal(t, "response body (200, application/json)", elem.Location)
		assert.Equal(t, "object", elem.Type)

		name := fieldAt(t, byContext["GET /pets"], "[].name")
		assert.True(t, name.Required)
	})

	t.Run("referenced response resolves", func(t *testing.T) {
		name := fieldAt(t, byContext["GET /pets/{petId}"], "name")
		assert.Equal(t, "response body (200, application/json)", name.Location)
	})
}

func TestBuildAll(t *testing.T) {
	doc := parseDoc(t, builderFixture)
	result, err := Build(doc, WithAll())
	require.NoError(t, err)

	contexts := map[string]bool{}
	for _, f := range result.Fields {
		contexts[f.SchemaName] = true
	}
	assert.True(t, contexts["Pet"])
	assert.True(t, contexts["GET /pets"])
}

func TestBuildEnrichment(t *testing.T) {
	doc := parseDoc(t, builderFixture)
	enrichment := Enrichment{
		{SchemaName: "Pet", Path: "name"}: {"pii": "low", "steward": "catalog-team"},
	}
	result, err := Build(doc, WithSchema("Pet"), WithEnrichment(enrichment))
	require.NoError(t, err)

	name := fieldAt(t, result.Fields, "name")
	assert.Equal(t, "low", name.Meta["pii"])
	assert.Equal(t, "catalog-team", name.Meta["steward"])

	age := fieldAt(t, result.Fields, "age")
	assert.Nil(t, age.Meta)
}

func TestBuildBrokenComponentReference(t *testing.T) {
	doc := parseDoc(t, `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /things:
    get:
      parameters:
        - $ref: '#/components/parameters/Missing'
      responses:
        '200':
          description: ok
components:
  schemas:
    Thing:
      type: object
      properties:
        id: {type: string}
`)
	result, err := Build(doc, WithOperations())
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, DiagBrokenReference, result.Diagnostics[0].Kind)
	assert.Equal(t, "GET /things", result.Diagnostics[0].SchemaName)
}

func TestBuildDeterminism(t *testing.T) {
	doc := parseDoc(t, builderFixture)

	first, err := Build(doc, WithAll())
	require.NoError(t, err)
	second, err := Build(doc, WithAll())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated builds differ (-first +second):\n%s", diff)
	}
}
