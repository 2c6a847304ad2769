// Package batch builds data dictionaries for many documents concurrently.
// Each worker owns exactly one document end to end, so workers share no
// mutable state; results come back in input order regardless of completion
// order.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasdict/dictionary"
	"github.com/erraggy/oasdict/dicterrors"
	"github.com/erraggy/oasdict/parser"
	"github.com/erraggy/oasdict/render"
)

// DefaultWorkers bounds concurrent document builds when the job does not
// say otherwise.
const DefaultWorkers = 4

// Job describes a batch run over many documents.
type Job struct {
	// Paths are the documents to process, in output order.
	Paths []string
	// Workers bounds concurrency; values <= 0 use DefaultWorkers.
	Workers int
	// Strict fails the whole run when any file errors or produces
	// diagnostics.
	Strict bool
	// BuildOptions apply to every document's build. The enrichment table,
	// if any, is shared read-only across workers.
	BuildOptions []dictionary.Option
	// Logger defaults to no-op.
	Logger parser.Logger
}

// FileResult is the outcome for one input document. Err is set when the
// file could not be parsed or built; other files are unaffected.
type FileResult struct {
	Path   string
	Title  string
	Result *dictionary.Result
	Err    error
}

// Run processes every path in the job. The returned slice is indexed in
// input order. The returned error is nil unless the context was canceled
// or Strict is set and a file failed or produced diagnostics.
func Run(ctx context.Context, job Job) ([]FileResult, error) {
	if len(job.Paths) == 0 {
		return nil, &dicterrors.ConfigError{Option: "paths", Message: "no input documents"}
	}
	logger := job.Logger
	if logger == nil {
		logger = parser.NopLogger{}
	}
	workers := job.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]FileResult, len(job.Paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range job.Paths {
		results[i] = FileResult{Path: path}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Title, results[i].Result, results[i].Err = buildOne(path, job.BuildOptions, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	if job.Strict {
		if err := strictCheck(results); err != nil {
			return results, err
		}
	}
	return results, nil
}

func buildOne(path string, opts []dictionary.Option, logger parser.Logger) (string, *dictionary.Result, error) {
	logger.Debug("building dictionary", "path", path)
	parsed, err := parser.Parse(path)
	if err != nil {
		logger.Warn("skipping unparseable document", "path", path, "error", err)
		return "", nil, err
	}
	title := ""
	if parsed.Document.Info != nil {
		title = parsed.Document.Info.Title
	}
	result, err := dictionary.Build(parsed.Document, opts...)
	if err != nil {
		logger.Warn("skipping unbuildable document", "path", path, "error", err)
		return title, nil, err
	}
	return title, result, nil
}

// strictCheck converts per-file failures and diagnostics into a run error.
func strictCheck(results []FileResult) error {
	failures := 0
	diagnostics := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		} else if len(r.Result.Diagnostics) > 0 {
			diagnostics += len(r.Result.Diagnostics)
		}
	}
	if failures == 0 && diagnostics == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d file(s) failed, %d diagnostic(s)", dicterrors.ErrStrict, failures, diagnostics)
}

// Workbook converts successful results into workbook sheets, one per
// document, named by the document title or the file base name.
func Workbook(results []FileResult) []render.Sheet {
	sheets := make([]render.Sheet, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			continue
		}
		name := r.Title
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		}
		sheets = append(sheets, render.Sheet{Name: name, Fields: r.Result.Fields})
	}
	return sheets
}
