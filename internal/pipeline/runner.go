// Package pipeline runs the load, compute and export steps for one diagram
// or for a batch of diagrams.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/landscape/pkg/config"
	"github.com/Sumatoshi-tech/landscape/pkg/diagram"
	"github.com/Sumatoshi-tech/landscape/pkg/export"
	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
	"github.com/Sumatoshi-tech/landscape/pkg/observability"
)

// StdioPath names standard input as a job input or standard output as a job output.
const StdioPath = "-"

var (
	// ErrSweepFault wraps an invariant violation raised by the sweep.
	ErrSweepFault = errors.New("landscape sweep fault")
	// ErrDuplicateOutput is returned when two batch inputs map to one output file.
	ErrDuplicateOutput = errors.New("duplicate output path")
)

// Job is one diagram to process.
type Job struct {
	// Input is the diagram path, or StdioPath for standard input.
	Input string
	// Output is the destination path. Empty or StdioPath writes to Runner.Stdout.
	Output string
}

// Report describes a completed job.
type Report struct {
	Job      Job
	Pairs    int
	Stats    landscape.Stats
	Levels   []landscape.Level
	Duration time.Duration
	// Written is the number of bytes sent to the output.
	Written int64
	// Err is the job's failure, set by RunBatch.
	Err error
}

// Runner executes jobs with shared configuration and telemetry.
type Runner struct {
	Config  *config.Config
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.SweepMetrics

	// Stdin and Stdout back StdioPath jobs. Nil means the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// Trace receives the sweep trace when landscape.debug is set. Nil means standard error.
	Trace io.Writer
}

// NewRunner returns a Runner with a no-op tracer and no metrics.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		Config: cfg,
		Logger: logger,
		Tracer: nooptrace.NewTracerProvider().Tracer("pipeline"),
	}
}

// Run loads a diagram, computes its landscape and exports it.
func (r *Runner) Run(ctx context.Context, job Job) (Report, error) {
	return r.observe(ctx, job, true)
}

// Sweep loads a diagram and computes its landscape without exporting it.
func (r *Runner) Sweep(ctx context.Context, input string) (Report, error) {
	return r.observe(ctx, Job{Input: input}, false)
}

// observe wraps a job in a span, metrics and a summary log line.
func (r *Runner) observe(ctx context.Context, job Job, write bool) (Report, error) {
	ctx = observability.WithDiagram(ctx, job.Input)

	ctx, span := r.tracer().Start(ctx, "landscape.run",
		trace.WithAttributes(
			attribute.String("diagram.path", job.Input),
			attribute.Int("landscape.levels", r.Config.Landscape.Levels),
			attribute.Bool("landscape.export", write),
		))
	defer span.End()

	if r.Metrics != nil {
		defer r.Metrics.TrackInflight(ctx)()
	}

	report, err := r.run(ctx, job, write)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if r.Metrics != nil {
			r.Metrics.RecordFailure(ctx)
		}

		r.logger().ErrorContext(ctx, "landscape failed", "error", err)

		return report, err
	}

	if r.Metrics != nil {
		r.Metrics.RecordSweep(ctx, report.Stats, report.Duration)
	}

	r.logger().InfoContext(ctx, "landscape computed",
		"pairs", report.Pairs,
		"dropped", report.Stats.Dropped,
		"mountains", report.Stats.Mountains,
		"intersections", report.Stats.Intersections,
		"vertices", report.Stats.Vertices,
		"duration", report.Duration,
	)

	return report, nil
}

func (r *Runner) run(ctx context.Context, job Job, write bool) (Report, error) {
	report := Report{Job: job}

	pairs, err := r.load(job.Input)
	if err != nil {
		return report, err
	}

	report.Pairs = len(pairs)

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return report, fmt.Errorf("before sweep: %w", ctxErr)
	}

	result, elapsed, err := r.compute(ctx, pairs)
	if err != nil {
		return report, err
	}

	report.Levels = result.Levels
	report.Stats = result.Stats
	report.Duration = elapsed

	if !write {
		return report, nil
	}

	written, err := r.export(job, result)
	report.Written = written

	return report, err
}

func (r *Runner) load(input string) ([]landscape.Pair, error) {
	maxSize, err := r.Config.MaxInputBytes()
	if err != nil {
		return nil, err
	}

	format, err := diagram.ParseFormat(r.Config.Input.Format)
	if err != nil {
		return nil, err
	}

	opts := diagram.Options{Format: format, Dimension: r.Config.Input.Dimension, MaxSize: maxSize}

	if input != StdioPath {
		return diagram.ReadFile(input, opts)
	}

	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	pairs, err := diagram.Read(stdin, opts)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}

	return pairs, nil
}

func (r *Runner) compute(ctx context.Context, pairs []landscape.Pair) (landscape.Result, time.Duration, error) {
	_, span := r.tracer().Start(ctx, "landscape.sweep",
		trace.WithAttributes(attribute.Int("diagram.pairs", len(pairs))))
	defer span.End()

	var opts []landscape.Option

	if r.Config.Landscape.Debug {
		traceOut := r.Trace
		if traceOut == nil {
			traceOut = os.Stderr
		}

		opts = append(opts, landscape.WithTrace(traceOut))
	}

	start := time.Now()

	result, err := computeGuarded(pairs, r.Config.Landscape.Levels, opts)

	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return result, elapsed, err
	}

	span.SetAttributes(
		attribute.Int("landscape.mountains", result.Stats.Mountains),
		attribute.Int("landscape.intersections", result.Stats.Intersections),
		attribute.Int("landscape.vertices", result.Stats.Vertices),
		attribute.Int("landscape.max_active", result.Stats.MaxActive),
	)

	return result, elapsed, nil
}

// computeGuarded turns an invariant panic into ErrSweepFault so one bad
// diagram cannot take down a batch. Other panics propagate.
func computeGuarded(pairs []landscape.Pair, k int, opts []landscape.Option) (result landscape.Result, err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		fault, ok := rec.(*landscape.InvariantError)
		if !ok {
			panic(rec)
		}

		err = fmt.Errorf("%w: %w", ErrSweepFault, fault)
	}()

	return landscape.Compute(pairs, k, opts...), nil
}

func (r *Runner) export(job Job, result landscape.Result) (int64, error) {
	format, err := export.ParseFormat(r.Config.Output.Format)
	if err != nil {
		return 0, err
	}

	opts := export.Options{
		Title:     title(job.Input),
		Stats:     &result.Stats,
		Precision: r.Config.Output.Precision,
		Compress:  r.Config.Output.Compress,
	}

	if job.Output == "" || job.Output == StdioPath {
		stdout := r.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}

		cw := &countingWriter{w: stdout}
		writeErr := export.Write(cw, result.Levels, format, opts)

		return cw.n, writeErr
	}

	f, err := os.Create(job.Output)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	cw := &countingWriter{w: f}

	writeErr := export.Write(cw, result.Levels, format, opts)
	closeErr := f.Close()

	if writeErr != nil {
		return cw.n, fmt.Errorf("%s: %w", job.Output, writeErr)
	}

	if closeErr != nil {
		return cw.n, fmt.Errorf("close output: %w", closeErr)
	}

	return cw.n, nil
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer("pipeline")
	}

	return r.Tracer
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return r.Logger
}

func title(input string) string {
	if input == StdioPath {
		return "stdin"
	}

	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err //nolint:wrapcheck // transparent writer
}
