package render

import (
	"io"
	"strings"

	"github.com/erraggy/oasdict/httperrors"
)

// WriteErrorsMarkdown writes an HTTP error summary as a Markdown table with
// the four display columns Status, Error Code, Description, EnumValues.
func WriteErrorsMarkdown(w io.Writer, rows []httperrors.Row) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, "# No data found\n")
		return err
	}

	var b strings.Builder
	b.WriteString("| Status | Error Code | Description | EnumValues |\n")
	b.WriteString("|--------|------------|-------------|------------|\n")
	for _, r := range rows {
		b.WriteString("| ")
		b.WriteString(r.Status)
		b.WriteString(" | ")
		b.WriteString(r.ErrorCode)
		b.WriteString(" | ")
		b.WriteString(escapePipes(r.Description))
		b.WriteString(" | ")
		b.WriteString(escapePipes(r.EnumValues))
		b.WriteString(" |\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// escapePipes escapes the Markdown table cell delimiter.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
