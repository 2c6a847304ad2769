// Package render writes built dictionaries to tabular formats: CSV for
// single dictionaries and XLSX workbooks with one sheet per dictionary.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/httperrors"
)

// baseColumns is the fixed column set of a dictionary CSV, in output order.
var baseColumns = []string{
	"schema",
	"location",
	"leaf element",
	"path",
	"description",
	"type",
	"format",
	"enum",
	"pattern",
	"min",
	"max",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"minItems",
	"maxItems",
	"required",
	"nullable",
	"default",
	"example",
	"deprecated",
}

// Columns returns the header for the given rows: the fixed columns followed
// by every enrichment column present, sorted by name.
func Columns(fields []dictionary.Field) []string {
	extra := map[string]bool{}
	for _, f := range fields {
		for k := range f.Meta {
			extra[k] = true
		}
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append(append([]string{}, baseColumns...), keys...)
}

// WriteCSV writes the rows with a header line. Enrichment columns come
// after the fixed set; rows without a value leave the cell empty.
func WriteCSV(w io.Writer, fields []dictionary.Field) error {
	header := Columns(fields)
	extras := header[len(baseColumns):]

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, f := range fields {
		if err := cw.Write(record(f, extras)); err != nil {
			return fmt.Errorf("writing row %s: %w", f.Path, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(f dictionary.Field, extras []string) []string {
	row := []string{
		f.SchemaName,
		f.Location,
		f.Leaf,
		f.Path,
		f.Description,
		f.Type,
		f.Format,
		strings.Join(f.Enum, ", "),
		f.Pattern,
		f.Minimum,
		f.Maximum,
		f.ExclusiveMinimum,
		f.ExclusiveMaximum,
		f.MultipleOf,
		f.MinLength,
		f.MaxLength,
		f.MinItems,
		f.MaxItems,
		flag(f.Required),
		flag(f.Nullable),
		f.Default,
		f.Example,
		flag(f.Deprecated),
	}
	for _, k := range extras {
		row = append(row, f.Meta[k])
	}
	return row
}

// flag renders a boolean cell: "true" when set, empty otherwise.
func flag(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// errorColumns is the header of an HTTP error summary CSV.
var errorColumns = []string{"Status", "ErrorCode", "Description", "EnumValues", "Method", "Path"}

// WriteErrorsCSV writes an HTTP error summary with a header line.
func WriteErrorsCSV(w io.Writer, rows []httperrors.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(errorColumns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Status, r.ErrorCode, r.Description, r.EnumValues, r.Method, r.Path}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row for status %s: %w", r.Status, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
