package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/parser"
	"github.com/erraggy/oasdict/render"
)

// DictFlags contains flags for the dict command.
type DictFlags struct {
	Schema     string
	Operations bool
	All        bool
	Format     string
	Output     string
	Enrich     string
	MaxDepth   int
	Strict     bool
	Verbose    bool
}

// SetupDictFlags creates and configures a FlagSet for the dict command.
// Returns the FlagSet and a DictFlags struct with bound flag variables.
func SetupDictFlags() (*flag.FlagSet, *DictFlags) {
	fs := flag.NewFlagSet("dict", flag.ContinueOnError)
	flags := &DictFlags{}

	fs.StringVar(&flags.Schema, "schema", "", "flatten only the named component schema")
	fs.BoolVar(&flags.Operations, "operations", false, "flatten operation parameters and bodies instead of component schemas")
	fs.BoolVar(&flags.All, "all", false, "flatten component schemas and operations")
	fs.StringVar(&flags.Format, "format", FormatCSV, "output format: csv or xlsx")
	fs.StringVar(&flags.Output, "output", "", "output file (default stdout; required for xlsx)")
	fs.StringVar(&flags.Enrich, "enrich", "", "enrichment CSV joined by (schema, path)")
	fs.IntVar(&flags.MaxDepth, "max-depth", 0, "override the schema nesting depth guard")
	fs.BoolVar(&flags.Strict, "strict", false, "exit non-zero when the build reports diagnostics")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug detail to stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasdict dict [flags] <file>\n\n")
		Writef(output, "Flatten an OpenAPI 3.x document into a data dictionary.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasdict dict openapi.yaml\n")
		Writef(output, "  oasdict dict --schema Pet openapi.yaml\n")
		Writef(output, "  oasdict dict --operations --output dictionary.csv openapi.yaml\n")
		Writef(output, "  oasdict dict --all --format xlsx --output dictionary.xlsx openapi.yaml\n")
		Writef(output, "  oasdict dict --enrich stewards.csv openapi.yaml\n")
	}

	return fs, flags
}

// HandleDict runs the dict command.
func HandleDict(args []string) error {
	fs, flags := SetupDictFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("dict command requires exactly one file path")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Format == FormatXLSX && flags.Output == "" {
		return fmt.Errorf("xlsx output requires --output")
	}

	specPath := fs.Arg(0)
	logger := NewLogger(flags.Verbose)

	opts, err := buildOptions(flags, logger)
	if err != nil {
		return err
	}

	parsed, err := parser.Parse(specPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", specPath, err)
	}

	result, err := dictionary.Build(parsed.Document, opts...)
	if err != nil {
		return fmt.Errorf("building dictionary: %w", err)
	}

	for _, d := range result.Diagnostics {
		Writef(os.Stderr, "diagnostic: %s\n", d.Err())
	}

	out, err := OpenOutput(flags.Output, []string{specPath})
	if err != nil {
		return err
	}
	defer CloseOutput(out)

	switch flags.Format {
	case FormatXLSX:
		name := specPath
		if parsed.Document.Info != nil && parsed.Document.Info.Title != "" {
			name = parsed.Document.Info.Title
		}
		err = render.WriteXLSX(out, []render.Sheet{{Name: name, Fields: result.Fields}})
	default:
		err = render.WriteCSV(out, result.Fields)
	}
	if err != nil {
		return fmt.Errorf("writing dictionary: %w", err)
	}

	if flags.Strict && len(result.Diagnostics) > 0 {
		return fmt.Errorf("build reported %d diagnostic(s)", len(result.Diagnostics))
	}
	return nil
}

func buildOptions(flags *DictFlags, logger parser.Logger) ([]dictionary.Option, error) {
	opts := []dictionary.Option{dictionary.WithLogger(logger)}
	switch {
	case flags.Schema != "":
		opts = append(opts, dictionary.WithSchema(flags.Schema))
	case flags.All:
		opts = append(opts, dictionary.WithAll())
	case flags.Operations:
		opts = append(opts, dictionary.WithOperations())
	}
	if flags.MaxDepth > 0 {
		opts = append(opts, dictionary.WithMaxDepth(flags.MaxDepth))
	}
	if flags.Enrich != "" {
		enrichment, err := LoadEnrichment(flags.Enrich)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dictionary.WithEnrichment(enrichment))
	}
	return opts, nil
}
