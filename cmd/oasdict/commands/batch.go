package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasdict/batch"
	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/render"
)

// BatchFlags contains flags for the batch command.
type BatchFlags struct {
	Workers    int
	Strict     bool
	All        bool
	Operations bool
	Output     string
	Enrich     string
	Verbose    bool
}

// SetupBatchFlags creates and configures a FlagSet for the batch command.
func SetupBatchFlags() (*flag.FlagSet, *BatchFlags) {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	flags := &BatchFlags{}

	fs.IntVar(&flags.Workers, "workers", batch.DefaultWorkers, "maximum concurrent documents")
	fs.BoolVar(&flags.Strict, "strict", false, "fail the run when any document errors or reports diagnostics")
	fs.BoolVar(&flags.All, "all", false, "flatten component schemas and operations")
	fs.BoolVar(&flags.Operations, "operations", false, "flatten operations instead of component schemas")
	fs.StringVar(&flags.Output, "output", "", "workbook output file (required)")
	fs.StringVar(&flags.Enrich, "enrich", "", "enrichment CSV shared across all documents")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log debug detail to stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: oasdict batch [flags] <file> [<file>...]\n\n")
		Writef(output, "Build data dictionaries for many documents into one workbook,\n")
		Writef(output, "one sheet per document.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  oasdict batch --output dictionaries.xlsx specs/*.yaml\n")
		Writef(output, "  oasdict batch --workers 8 --strict --output out.xlsx a.yaml b.yaml\n")
	}

	return fs, flags
}

// HandleBatch runs the batch command.
func HandleBatch(args []string) error {
	fs, flags := SetupBatchFlags()
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("batch command requires at least one file path")
	}
	if flags.Output == "" {
		return fmt.Errorf("batch command requires --output")
	}

	paths := fs.Args()
	logger := NewLogger(flags.Verbose)

	var buildOpts []dictionary.Option
	buildOpts = append(buildOpts, dictionary.WithLogger(logger))
	switch {
	case flags.All:
		buildOpts = append(buildOpts, dictionary.WithAll())
	case flags.Operations:
		buildOpts = append(buildOpts, dictionary.WithOperations())
	}
	if flags.Enrich != "" {
		enrichment, err := LoadEnrichment(flags.Enrich)
		if err != nil {
			return err
		}
		buildOpts = append(buildOpts, dictionary.WithEnrichment(enrichment))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, runErr := batch.Run(ctx, batch.Job{
		Paths:        paths,
		Workers:      flags.Workers,
		Strict:       flags.Strict,
		BuildOptions: buildOpts,
		Logger:       logger,
	})

	for _, r := range results {
		if r.Err != nil {
			Writef(os.Stderr, "failed: %s: %v\n", r.Path, r.Err)
			continue
		}
		for _, d := range r.Result.Diagnostics {
			Writef(os.Stderr, "diagnostic: %s: %s\n", r.Path, d.Err())
		}
	}

	sheets := batch.Workbook(results)
	if len(sheets) > 0 {
		out, err := OpenOutput(flags.Output, paths)
		if err != nil {
			return err
		}
		defer CloseOutput(out)
		if err := render.WriteXLSX(out, sheets); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		Writef(os.Stderr, "wrote %d sheet(s) to %s\n", len(sheets), flags.Output)
	}

	return runErr
}
