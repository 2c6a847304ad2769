package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mergerFixture = `
openapi: 3.0.3
info: {title: t, version: "1"}
paths: {}
components:
  schemas:
    Base:
      type: object
      required: [kind]
      properties:
        kind:
          type: string
    Extended:
      allOf:
        - $ref: '#/components/schemas/Base'
        - type: object
          required: [label]
          properties:
            label:
              type: string
    Overridden:
      allOf:
        - type: object
          description: first
          properties:
            value:
              type: string
        - description: second
      description: own wins
    Shape:
      oneOf:
        - type: object
          required: [radius]
          properties:
            radius:
              type: number
        - type: object
          required: [side]
          properties:
            side:
              type: number
      discriminator:
        propertyName: kind
    MixedShape:
      allOf:
        - type: object
          properties:
            common:
              type: string
      oneOf:
        - type: object
          properties:
            extra:
              type: integer
    BrokenChoice:
      oneOf:
        - $ref: '#/components/schemas/Missing'
        - type: object
          properties:
            ok:
              type: boolean
    Choosy:
      oneOf:
        - type: object
          properties:
            first:
              type: string
      anyOf:
        - type: object
          properties:
            second:
              type: integer
    OuterChoice:
      oneOf:
        - type: object
          properties:
            plain:
              type: string
        - $ref: '#/components/schemas/InnerChoice'
    InnerChoice:
      oneOf:
        - type: object
          required: [a]
          properties:
            a:
              type: string
        - type: object
          properties:
            b:
              type: integer
    Composite:
      allOf:
        - $ref: '#/components/schemas/CompositePart'
    CompositePart:
      type: object
      properties:
        name:
          type: string
      allOf:
        - $ref: '#/components/schemas/CompositePart'
`

func TestMergerExpand(t *testing.T) {
	doc := parseDoc(t, mergerFixture)
	m := NewMerger(NewResolver(doc))

	t.Run("plain schema yields single variant", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["Base"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Empty(t, diags)
		assert.Equal(t, -1, variants[0].Index)
		assert.Same(t, doc.Components.Schemas["Base"], variants[0].Schema)
	})

	t.Run("allOf merges required sets and properties", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["Extended"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Empty(t, diags)

		merged := variants[0].Schema
		assert.ElementsMatch(t, []string{"kind", "label"}, merged.Required)
		assert.Contains(t, merged.Properties, "kind")
		assert.Contains(t, merged.Properties, "label")
		assert.Contains(t, variants[0].Refs, "#/components/schemas/Base")
	})

	t.Run("later branches and own keys win scalar conflicts", func(t *testing.T) {
		variants, _ := m.Expand(doc.Components.Schemas["Overridden"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Equal(t, "own wins", variants[0].Schema.Description)
		assert.Contains(t, variants[0].Schema.Properties, "value")
	})

	t.Run("oneOf fans out per alternative", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["Shape"], map[string]bool{})
		require.Len(t, variants, 2)
		assert.Empty(t, diags)

		assert.Equal(t, 0, variants[0].Index)
		assert.Contains(t, variants[0].Schema.Properties, "radius")
		assert.NotContains(t, variants[0].Schema.Properties, "side")
		assert.Equal(t, "kind", variants[0].Discriminator)

		assert.Equal(t, 1, variants[1].Index)
		assert.Contains(t, variants[1].Schema.Properties, "side")
	})

	t.Run("allOf base folds into every alternative", func(t *testing.T) {
		variants, _ := m.Expand(doc.Components.Schemas["MixedShape"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Contains(t, variants[0].Schema.Properties, "common")
		assert.Contains(t, variants[0].Schema.Properties, "extra")
	})

	t.Run("broken alternative is skipped with diagnostic", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["BrokenChoice"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Contains(t, variants[0].Schema.Properties, "ok")
		require.Len(t, diags, 1)
		assert.Equal(t, DiagBrokenReference, diags[0].Kind)
		assert.Equal(t, "#/components/schemas/Missing", diags[0].Ref)
	})

	t.Run("oneOf and anyOf alternatives both fan out", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["Choosy"], map[string]bool{})
		require.Len(t, variants, 2)
		assert.Empty(t, diags)

		assert.Equal(t, "#variant0", variants[0].Suffix)
		assert.Contains(t, variants[0].Schema.Properties, "first")
		assert.Equal(t, "#variant1", variants[1].Suffix)
		assert.Contains(t, variants[1].Schema.Properties, "second")
	})

	t.Run("polymorphic alternative fans out with nested suffixes", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["OuterChoice"], map[string]bool{})
		require.Len(t, variants, 3)
		assert.Empty(t, diags)

		assert.Equal(t, "#variant0", variants[0].Suffix)
		assert.Contains(t, variants[0].Schema.Properties, "plain")

		assert.Equal(t, "#variant1#variant0", variants[1].Suffix)
		assert.Equal(t, 1, variants[1].Index)
		assert.Contains(t, variants[1].Schema.Properties, "a")
		assert.Equal(t, []string{"a"}, variants[1].Schema.Required)

		assert.Equal(t, "#variant1#variant1", variants[2].Suffix)
		assert.Contains(t, variants[2].Schema.Properties, "b")
	})

	t.Run("cyclic allOf graph terminates with diagnostic", func(t *testing.T) {
		variants, diags := m.Expand(doc.Components.Schemas["Composite"], map[string]bool{})
		require.Len(t, variants, 1)
		assert.Contains(t, variants[0].Schema.Properties, "name")

		require.NotEmpty(t, diags)
		assert.Equal(t, DiagCycleDetected, diags[0].Kind)
		assert.Equal(t, "#/components/schemas/CompositePart", diags[0].Ref)
	})

	t.Run("merge does not mutate source schemas", func(t *testing.T) {
		base := doc.Components.Schemas["Base"]
		before := len(base.Properties)
		_, _ = m.Expand(doc.Components.Schemas["Extended"], map[string]bool{})
		assert.Len(t, base.Properties, before)
		assert.Equal(t, []string{"kind"}, base.Required)
	})
}
