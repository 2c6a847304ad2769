package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oasdict/dictionary"
)

// Sheet is one tab of a workbook: a named dictionary.
type Sheet struct {
	Name   string
	Fields []dictionary.Field
}

// maxSheetName is Excel's hard limit on sheet name length.
const maxSheetName = 31

// maxColumnWidth caps auto-sized columns so one long description does not
// stretch a column across the screen.
const maxColumnWidth = 80

var illegalSheetChars = regexp.MustCompile(`[:\\/?*\[\]]`)

var titleCaser = cases.Title(language.English)

// WriteXLSX writes one sheet per dictionary, with a bold frozen header row
// and auto-sized columns. Sheet names are sanitized to Excel's rules and
// deduplicated.
func WriteXLSX(w io.Writer, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for _, sheet := range sheets {
		name := dedupeSheetName(sanitizeSheetName(sheet.Name), used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, sheet.Fields, headerStyle); err != nil {
			return fmt.Errorf("writing sheet %s: %w", name, err)
		}
	}

	// drop the implicit default sheet unless a dictionary claimed the name
	if !used["Sheet1"] {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, fields []dictionary.Field, headerStyle int) error {
	header := Columns(fields)
	extras := header[len(baseColumns):]

	widths := make([]int, len(header))
	headerRow := make([]any, len(header))
	for i, col := range header {
		headerRow[i] = titleCaser.String(col)
		widths[i] = len(col)
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}

	for i, field := range fields {
		rec := record(field, extras)
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		w := float64(width) + 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeSheetName cleans a proposed sheet name to Excel's rules: the
// characters : \ / ? * [ ] become underscores, surrounding quotes and
// whitespace are trimmed, and the result is capped at 31 characters.
func sanitizeSheetName(name string) string {
	base := illegalSheetChars.ReplaceAllString(name, "_")
	base = strings.TrimSpace(strings.Trim(strings.TrimSpace(base), "'"))
	if base == "" {
		base = "Sheet"
	}
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	return base
}

// dedupeSheetName keeps sheet names unique by appending " (2)", " (3)", ...
// while respecting the length cap.
func dedupeSheetName(name string, used map[string]bool) string {
	if !used[name] {
		used[name] = true
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		trimmed := name
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate := trimmed + suffix
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}
