package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/landscape/internal/pipeline"
	"github.com/Sumatoshi-tech/landscape/pkg/config"
	"github.com/Sumatoshi-tech/landscape/pkg/diagram"
	"github.com/Sumatoshi-tech/landscape/pkg/observability"
)

// sweepFlags are the configuration overrides shared by generate, batch and sample.
type sweepFlags struct {
	levels      int
	format      string
	inputFormat string
	maxSize     string
	dimension   int
	precision   int
	compress    bool
	debug       bool
}

func (sf *sweepFlags) register(flags *pflag.FlagSet, withOutput bool) {
	flags.IntVarP(&sf.levels, "levels", "k", 0, "number of landscape levels (default from config: 5)")
	flags.StringVar(&sf.inputFormat, "input-format", "", "diagram format: auto, text, csv, json, yaml")
	flags.StringVar(&sf.maxSize, "max-size", "", "reject diagrams larger than this (e.g. 64MB, 0 = unlimited)")
	flags.IntVar(&sf.dimension, "dimension", diagram.AllDimensions, "keep only pairs of this homology dimension (-1 = all)")
	flags.BoolVar(&sf.debug, "debug", false, "write the sweep trace to stderr")

	if withOutput {
		flags.StringVar(&sf.format, "format", "", "output format: json, yaml, csv, table, html")
		flags.IntVar(&sf.precision, "precision", 0, "decimals for csv and table output (-1 = shortest)")
		flags.BoolVar(&sf.compress, "compress", false, "wrap output in an LZ4 frame")
	}
}

// apply copies every flag the user set onto cfg.
func (sf *sweepFlags) apply(flags *pflag.FlagSet) func(*config.Config) error {
	return func(cfg *config.Config) error {
		if flags.Changed("levels") {
			cfg.Landscape.Levels = sf.levels
		}

		if flags.Changed("debug") {
			cfg.Landscape.Debug = sf.debug
		}

		if flags.Changed("input-format") {
			cfg.Input.Format = sf.inputFormat
		}

		if flags.Changed("max-size") {
			cfg.Input.MaxSize = sf.maxSize
		}

		if flags.Changed("dimension") {
			cfg.Input.Dimension = sf.dimension
		}

		if flags.Changed("format") {
			cfg.Output.Format = sf.format
		}

		if flags.Changed("precision") {
			cfg.Output.Precision = sf.precision
		}

		if flags.Changed("compress") {
			cfg.Output.Compress = sf.compress
		}

		return nil
	}
}

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	var (
		sf     sweepFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate <diagram|->",
		Short: "Compute the landscape of one persistence diagram",
		Long: `Compute the first k landscape levels of a persistence diagram and
write them to stdout or a file.

Examples:
  landscape generate pairs.txt
  landscape generate -k 3 --format table pairs.csv
  landscape generate --format html -o landscape.html pairs.json
  cat pairs.txt | landscape generate - --compress -o pairs.json.lz4
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			env, err := setup(cmd, opts, observability.ModeCLI, sf.apply(cmd.Flags()))
			if err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, env.close(cmd.Context()))
			}()

			_, err = env.runner.Run(cmd.Context(), pipeline.Job{Input: args[0], Output: output})

			return err
		},
	}

	sf.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
