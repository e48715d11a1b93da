package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/landscape/internal/pipeline"
	"github.com/Sumatoshi-tech/landscape/pkg/config"
	"github.com/Sumatoshi-tech/landscape/pkg/export"
	"github.com/Sumatoshi-tech/landscape/pkg/observability"
)

func newBatchCommand(opts *globalOptions) *cobra.Command {
	var (
		sf      sweepFlags
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <diagram>...",
		Short: "Compute landscapes for many diagrams concurrently",
		Long: `Compute landscapes for every given diagram, writing one output file per
input, and print a summary table. Failed diagrams do not stop the others.

Examples:
  landscape batch diagrams/*.txt --out-dir landscapes
  landscape batch --workers 4 --format csv --compress a.json b.json
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			override := sf.apply(cmd.Flags())
			if cmd.Flags().Changed("workers") {
				override = withWorkers(override, workers)
			}

			env, err := setup(cmd, opts, observability.ModeBatch, override)
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, env.close(cmd.Context()))
			}()

			format, err := export.ParseFormat(env.cfg.Output.Format)
			if err != nil {
				return err
			}

			jobs, err := pipeline.BatchJobs(args, outDir, format, env.cfg.Output.Compress)
			if err != nil {
				return err
			}

			reports, runErr := env.runner.RunBatch(cmd.Context(), jobs, env.cfg.Batch.Workers)

			if !opts.quiet {
				printSummary(cmd.OutOrStdout(), reports)
			}

			return runErr
		},
	}

	sf.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for output files (default: next to each input)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent computations (0 = GOMAXPROCS)")

	return cmd
}

func withWorkers(next func(*config.Config) error, workers int) func(*config.Config) error {
	return func(cfg *config.Config) error {
		cfg.Batch.Workers = workers

		return next(cfg)
	}
}

// printSummary renders one row per job and a totals footer.
func printSummary(w io.Writer, reports []pipeline.Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Diagram", "Pairs", "Mountains", "Crossings", "Vertices", "Size", "Time", "Status"})

	var (
		pairs, mountains, crossings, vertices int
		written                               int64
		elapsed                               time.Duration
		succeeded                             int
	)

	for _, report := range reports {
		status := color.GreenString("ok")
		if report.Err != nil {
			status = color.RedString("failed")
		} else {
			succeeded++
		}

		tw.AppendRow(table.Row{
			report.Job.Input,
			humanize.Comma(int64(report.Pairs)),
			humanize.Comma(int64(report.Stats.Mountains)),
			humanize.Comma(int64(report.Stats.Intersections)),
			humanize.Comma(int64(report.Stats.Vertices)),
			humanize.Bytes(uint64(report.Written)),
			report.Duration.Round(time.Microsecond),
			status,
		})

		pairs += report.Pairs
		mountains += report.Stats.Mountains
		crossings += report.Stats.Intersections
		vertices += report.Stats.Vertices
		written += report.Written
		elapsed += report.Duration
	}

	tw.AppendFooter(table.Row{
		"total",
		humanize.Comma(int64(pairs)),
		humanize.Comma(int64(mountains)),
		humanize.Comma(int64(crossings)),
		humanize.Comma(int64(vertices)),
		humanize.Bytes(uint64(written)),
		elapsed.Round(time.Microsecond),
		fmt.Sprintf("%d/%d ok", succeeded, len(reports)),
	})

	tw.Render()
}
