package commands

import (
	"flag"
	"fmt"

	"github.com/erraggy/oasdict/httperrors"
	"github.com/erraggy/oasdict/parser"
	"github.com/erraggy/oasdict/render"
)

// ErrorsFlags contains flags for the errors command.
type ErrorsFlags struct {
	GroupByStatus bool
	Format        string
	Output        string
	Verbose       bool
}

// SetupErrorsFlags creates and configures a FlagSet for the errors command.
func SetupErrorsFlags() (*flag.FlagSet, *ErrorsFlags) {
	fs := flag.NewFlagSet("errors", flag.ContinueOnError)
	flags := &ErrorsFlags{}

	fs.BoolVar(&flags.GroupByStatus, "group-by-status", false, "collapse to one row per HTTP status")
	fs.StringVar(&flags.Format, "format", FormatCSV, "output format: csv or md")
	fs.StringVar(&flags.Output, "output", "", "output file (default stdout)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug detail to stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasdict errors [flags] <file>\n\n")
		Writef(output, "Summarize the HTTP statuses, error codes, and messages an API can return.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasdict errors openapi.yaml\n")
		Writef(output, "  oasdict errors --group-by-status --output errors.csv openapi.yaml\n")
		Writef(output, "  oasdict errors --format md --output errors.md openapi.yaml\n")
	}

	return fs, flags
}

// HandleErrors runs the errors command.
func HandleErrors(args []string) error {
	fs, flags := SetupErrorsFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("errors command requires exactly one file path")
	}
	if flags.Format != FormatCSV && flags.Format != FormatMarkdown {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", flags.Format, FormatCSV, FormatMarkdown)
	}

	specPath := fs.Arg(0)
	parsed, err := parser.Parse(specPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", specPath, err)
	}

	var opts []httperrors.Option
	if flags.GroupByStatus {
		opts = append(opts, httperrors.WithGroupByStatus())
	}
	opts = append(opts, httperrors.WithLogger(NewLogger(flags.Verbose)))

	rows, err := httperrors.Compile(parsed.Document, opts...)
	if err != nil {
		return fmt.Errorf("compiling error summary: %w", err)
	}

	out, err := OpenOutput(flags.Output, []string{specPath})
	if err != nil {
		return err
	}
	defer CloseOutput(out)

	if flags.Format == FormatMarkdown {
		if err := render.WriteErrorsMarkdown(out, rows); err != nil {
			return fmt.Errorf("writing error summary: %w", err)
		}
		return nil
	}
	if err := render.WriteErrorsCSV(out, rows); err != nil {
		return fmt.Errorf("writing error summary: %w", err)
	}
	return nil
}
