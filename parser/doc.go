// Package parser loads OpenAPI 3.x specification documents from YAML or
// JSON into a typed, read-only document tree.
//
// The model is intentionally trimmed to the surface the dictionary engine
// consumes: components, paths, operations, and the schema keywords that
// carry dictionary-relevant structure (type, format, constraints,
// composition, references). It performs minimal structural validation only;
// full JSON Schema validation is out of scope.
//
//	result, err := parser.Parse("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Version, len(result.Document.Components.Schemas))
package parser
