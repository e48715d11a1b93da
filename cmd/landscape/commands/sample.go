package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
	"github.com/Sumatoshi-tech/landscape/pkg/observability"
)

// ErrNoPositions is returned when sample is called without --at.
var ErrNoPositions = errors.New("no sample positions given, use --at")

func newSampleCommand(opts *globalOptions) *cobra.Command {
	var (
		sf    sweepFlags
		at    []float64
		asCSV bool
	)

	cmd := &cobra.Command{
		Use:   "sample <diagram|->",
		Short: "Evaluate landscape levels at given positions",
		Long: `Compute the landscape of a diagram and print the value of every level
at each requested position.

Examples:
  landscape sample pairs.txt --at 0.5,1,2.5
  landscape sample -k 2 --csv pairs.json --at 3
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(at) == 0 {
				return ErrNoPositions
			}

			env, err := setup(cmd, opts, observability.ModeCLI, sf.apply(cmd.Flags()))
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, env.close(cmd.Context()))
			}()

			report, err := env.runner.Sweep(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := sampleTable(report.Levels, at)
			tw.SetOutputMirror(cmd.OutOrStdout())

			if asCSV {
				tw.RenderCSV()
			} else {
				tw.Render()
			}

			return nil
		},
	}

	sf.register(cmd.Flags(), false)
	cmd.Flags().Float64SliceVar(&at, "at", nil, "positions to evaluate, comma separated")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print CSV instead of a table")

	return cmd
}

// sampleTable has one row per position and one column per level.
func sampleTable(levels []landscape.Level, at []float64) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := table.Row{"x"}
	for i := range levels {
		header = append(header, fmt.Sprintf("level %d", i))
	}

	tw.AppendHeader(header)

	for _, x := range at {
		row := table.Row{formatValue(float32(x))}
		for _, v := range landscape.Values(levels, float32(x)) {
			row = append(row, formatValue(v))
		}

		tw.AppendRow(row)
	}

	return tw
}

func formatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
