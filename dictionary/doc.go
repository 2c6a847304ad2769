// Package dictionary flattens parsed OAS 3.x schema graphs into tabular
// data-dictionary rows.
//
// The pipeline has four stages. The Resolver follows local $ref pointers
// into components/schemas, detecting cycles and rejecting external
// references. The Merger collapses allOf compositions into a single
// effective shape and fans oneOf/anyOf out into variants. The Walker
// performs a deterministic depth-first descent, producing one Field row
// per structural property with dotted paths ("owner.address.city"),
// array-element markers ("tags[]"), additionalProperties wildcards
// ("labels.*") and variant tags ("#variant0.radius"). Build ties the
// stages together over a whole document, walking component schemas
// and, optionally, path operations.
//
// Structural problems never abort a build: broken or external references
// and cycle terminations produce placeholder rows plus Diagnostics on the
// Result, so one bad pointer costs one row, not the document.
package dictionary
