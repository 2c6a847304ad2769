// Package commands provides CLI command handlers for oasdict.
package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/parser"
)

// Output format constants
const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatMarkdown = "md"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatCSV, FormatXLSX)
	}
	return nil
}

// ValidateOutputPath checks if the output path is safe to write to.
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	if _, err := os.Stat(outputPath); err == nil {
		Writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}
	return nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an
// error if so, preventing a symlink from redirecting output elsewhere.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// LoadEnrichment reads an enrichment CSV. The first two columns must be the
// schema name and property path; every remaining column becomes a
// supplementary dictionary column keyed by its header.
func LoadEnrichment(path string) (dictionary.Enrichment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening enrichment file: %w", err)
	}
	defer f.Close()
	return ParseEnrichment(f)
}

// ParseEnrichment parses enrichment rows from CSV data.
func ParseEnrichment(r io.Reader) (dictionary.Enrichment, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading enrichment csv: %w", err)
	}
	if len(records) < 1 || len(records[0]) < 3 {
		return nil, fmt.Errorf("enrichment csv needs a header with schema, path, and at least one value column")
	}

	header := records[0]
	enrichment := make(dictionary.Enrichment, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("enrichment row %d has %d columns, header has %d", i+2, len(rec), len(header))
		}
		meta := make(map[string]string, len(header)-2)
		for j := 2; j < len(header); j++ {
			if rec[j] != "" {
				meta[header[j]] = rec[j]
			}
		}
		enrichment[dictionary.Key{SchemaName: rec[0], Path: rec[1]}] = meta
	}
	return enrichment, nil
}

// NewLogger returns a stderr slog-backed logger at the given verbosity.
func NewLogger(verbose bool) parser.Logger {
	if !verbose {
		return parser.NopLogger{}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return parser.NewSlogAdapter(slog.New(handler))
}

// OpenOutput opens the output target: stdout when path is empty, otherwise
// the file at path (after symlink and overwrite checks against the inputs).
func OpenOutput(path string, inputPaths []string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	cleaned := filepath.Clean(path)
	if err := ValidateOutputPath(cleaned, inputPaths); err != nil {
		return nil, err
	}
	if err := RejectSymlinkOutput(cleaned); err != nil {
		return nil, err
	}
	f, err := os.Create(cleaned)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

// CloseOutput closes the output unless it is stdout.
func CloseOutput(w io.WriteCloser) error {
	if w == os.Stdout {
		return nil
	}
	return w.Close()
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
