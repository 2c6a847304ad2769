// Package oasdict derives flat, tabular data dictionaries from OpenAPI 3.x
// specification documents: one row per structural property of every schema,
// with its type, constraints, and documentation.
//
// # Overview
//
// The library consists of the following packages:
//
//   - parser: Load OpenAPI 3.x documents from YAML or JSON into a typed tree
//   - dictionary: Resolve $refs, merge composition keywords, and flatten
//     schemas into ordered field rows (the core engine)
//   - httperrors: Project operation responses into an HTTP error table
//   - render: Write dictionaries as CSV files or multi-tab XLSX workbooks
//   - batch: Process many specification files concurrently
//   - dicterrors: Structured error types shared by all packages
//
// # Quick Start
//
// Build a data dictionary for every component schema:
//
//	import (
//	    "github.com/erraggy/oasdict/dictionary"
//	    "github.com/erraggy/oasdict/parser"
//	)
//
//	result, err := parser.Parse("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dict, err := dictionary.Build(result.Document)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range dict.Fields {
//	    fmt.Printf("%s %s %s\n", f.SchemaName, f.Path, f.Type)
//	}
//
// Reference cycles, broken pointers, and external pointers never abort a
// build: each is localized to the row it affects and reported through
// dict.Diagnostics so a driver can apply its own strictness policy.
package oasdict
