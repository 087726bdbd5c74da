// Package runner evaluates a query or a mapping against input documents and
// writes one line per result.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	gotemplate "text/template"

	"github.com/jacoelho/jpext/internal/config"
	"github.com/jacoelho/jpext/internal/exit"
	"github.com/jacoelho/jpext/internal/log"
	"github.com/jacoelho/jpext/internal/mapping"
	"github.com/jacoelho/jpext/internal/query"
	"github.com/jacoelho/jpext/internal/template"
)

// Result is the data passed to the --format template.
type Result struct {
	Input string
	Path  string
	Value any
	Vars  map[string]any
}

type Runner struct {
	config    *config.Config
	query     *query.Query
	mapping   *mapping.Mapping
	format    *gotemplate.Template
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

// New compiles the expression or mapping named by cfg. Compile failures are
// usage errors.
func New(ctx context.Context, cfg *config.Config) (*Runner, *exit.Result) {
	logger := log.WithContext(ctx)

	r := &Runner{
		config:    cfg,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}

	if cfg.Format != "" {
		format, err := template.Parse("format", cfg.Format)
		if err != nil {
			return nil, exit.Compile(fmt.Errorf("invalid format: %w", err))
		}
		r.format = format
	}

	if cfg.MappingFile != "" {
		f, err := os.Open(cfg.MappingFile)
		if err != nil {
			return nil, exit.Compile(err)
		}
		defer f.Close()

		m, err := mapping.Load(f)
		if err != nil {
			return nil, exit.Compile(fmt.Errorf("%s: %w", cfg.MappingFile, err))
		}
		logger.Debug("mapping loaded", slog.String("file", cfg.MappingFile), slog.Any("entities", m.Entities()))
		r.mapping = m

		return r, nil
	}

	q, err := query.Compile(cfg.Expression)
	if err != nil {
		return nil, exit.Compile(err)
	}
	logger.Debug("query compiled", slog.String("expr", q.String()), slog.Any("steps", q.Steps()))
	r.query = q

	return r, nil
}

func (r *Runner) SetInput(in io.Reader) {
	r.input = in
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) logf(format string, args ...any) {
	if r.errOutput == nil {
		return
	}
	_, _ = fmt.Fprintf(r.errOutput, format, args...)
}

// Run evaluates every input and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	logger := log.WithContext(ctx)

	inputs := r.config.InputFiles
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}

	for _, name := range inputs {
		select {
		case <-ctx.Done():
			r.logf("Interrupted before %s\n", name)
			return exit.CodeFailure
		default:
		}

		docs, err := r.readDocuments(name)
		if err != nil {
			logger.Error("reading input", slog.String("input", name), slog.Any("error", err))
			r.logf("Error: %v\n", err)
			return exit.CodeFailure
		}

		for i, doc := range docs {
			logger.Debug("evaluating document", slog.String("input", name), slog.Int("index", i))

			if err := r.evaluate(name, doc); err != nil {
				logger.Error("evaluating document", slog.String("input", name), slog.Int("index", i), slog.Any("error", err))
				r.logf("Error in %s: %v\n", name, err)
				return exit.CodeFailure
			}
		}
	}

	return exit.CodeSuccess
}

func (r *Runner) evaluate(input string, doc any) error {
	if r.mapping != nil {
		records, err := r.mapping.Extract(doc)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := r.write(Result{Input: input, Path: rec.Source, Value: rec}); err != nil {
				return err
			}
		}
		return nil
	}

	results, err := r.query.Find(doc)
	if err != nil {
		return err
	}
	for _, res := range results {
		if err := r.write(Result{Input: input, Path: res.Path, Value: res.Value}); err != nil {
			return err
		}
	}

	return nil
}
