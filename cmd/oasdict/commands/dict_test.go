package commands

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSpec = `
openapi: 3.0.3
info: {title: Orders, version: "1"}
paths:
  /orders:
    get:
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Order'
        '404':
          description: not found
          content:
            application/json:
              schema:
                type: object
                properties:
                  code:
                    type: string
                    example: NOT_FOUND
components:
  schemas:
    Order:
      type: object
      required: [id]
      properties:
        id: {type: string}
        total: {type: number}
`

func writeTestSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSpec), 0o644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestHandleDictCSV(t *testing.T) {
	spec := writeTestSpec(t)
	out := filepath.Join(filepath.Dir(spec), "dict.csv")

	require.NoError(t, HandleDict([]string{"--output", out, spec}))

	records := readCSV(t, out)
	require.Greater(t, len(records), 1)
	assert.Equal(t, "schema", records[0][0])

	var sawID bool
	for _, rec := range records[1:] {
		if rec[3] == "id" {
			sawID = true
			assert.Equal(t, "Order", rec[0])
		}
	}
	assert.True(t, sawID)
}

func TestHandleDictXLSX(t *testing.T) {
	spec := writeTestSpec(t)
	out := filepath.Join(filepath.Dir(spec), "dict.xlsx")

	require.NoError(t, HandleDict([]string{"--format", "xlsx", "--output", out, spec}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Orders")
}

func TestHandleDictEnrichment(t *testing.T) {
	spec := writeTestSpec(t)
	dir := filepath.Dir(spec)
	enrich := filepath.Join(dir, "enrich.csv")
	require.NoError(t, os.WriteFile(enrich, []byte("schema,path,steward\nOrder,id,billing\n"), 0o644))
	out := filepath.Join(dir, "dict.csv")

	require.NoError(t, HandleDict([]string{"--schema", "Order", "--enrich", enrich, "--output", out, spec}))

	records := readCSV(t, out)
	assert.Equal(t, "steward", records[0][len(records[0])-1])
	var sawSteward bool
	for _, rec := range records[1:] {
		if rec[len(rec)-1] == "billing" {
			sawSteward = true
		}
	}
	assert.True(t, sawSteward)
}

func TestHandleDictValidation(t *testing.T) {
	spec := writeTestSpec(t)

	assert.Error(t, HandleDict([]string{}), "missing file argument")
	assert.Error(t, HandleDict([]string{"--format", "parquet", spec}))
	assert.Error(t, HandleDict([]string{"--format", "xlsx", spec}), "xlsx needs --output")
	assert.Error(t, HandleDict([]string{"--output", spec, spec}), "must not overwrite input")
}

func TestHandleErrorsCSV(t *testing.T) {
	spec := writeTestSpec(t)
	out := filepath.Join(filepath.Dir(spec), "errors.csv")

	require.NoError(t, HandleErrors([]string{"--output", out, spec}))

	records := readCSV(t, out)
	require.Greater(t, len(records), 1)
	assert.Equal(t, "Status", records[0][0])

	var sawNotFound bool
	for _, rec := range records[1:] {
		if rec[0] == "404" && rec[1] == "NOT_FOUND" {
			sawNotFound = true
		}
	}
	assert.True(t, sawNotFound)
}

func TestHandleErrorsMarkdown(t *testing.T) {
	spec := writeTestSpec(t)
	out := filepath.Join(filepath.Dir(spec), "errors.md")

	require.NoError(t, HandleErrors([]string{"--format", "md", "--output", out, spec}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "| Status | Error Code | Description | EnumValues |\n"))
	assert.Contains(t, text, "| 404 | NOT_FOUND |")

	err = HandleErrors([]string{"--format", "html", "--output", out, spec})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestHandleBatchWorkbook(t *testing.T) {
	spec := writeTestSpec(t)
	dir := filepath.Dir(spec)
	out := filepath.Join(dir, "combined.xlsx")

	require.NoError(t, HandleBatch([]string{"--output", out, spec}))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Orders")
}

func TestHandleBatchValidation(t *testing.T) {
	spec := writeTestSpec(t)
	assert.Error(t, HandleBatch([]string{}), "missing file arguments")
	assert.Error(t, HandleBatch([]string{spec}), "missing --output")
}
