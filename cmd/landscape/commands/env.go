package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/landscape/internal/pipeline"
	"github.com/Sumatoshi-tech/landscape/pkg/config"
	"github.com/Sumatoshi-tech/landscape/pkg/observability"
	"github.com/Sumatoshi-tech/landscape/pkg/version"
)

// environment is the per-invocation state shared by the commands.
type environment struct {
	cfg       *config.Config
	providers observability.Providers
	runner    *pipeline.Runner
}

// setup loads configuration, applies command-line overrides and starts telemetry.
// The caller must call close.
func setup(cmd *cobra.Command, opts *globalOptions, mode observability.AppMode,
	override func(*config.Config) error,
) (*environment, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if override != nil {
		overrideErr := override(cfg)
		if overrideErr != nil {
			return nil, overrideErr
		}

		validateErr := cfg.Validate()
		if validateErr != nil {
			return nil, fmt.Errorf("invalid flags: %w", validateErr)
		}
	}

	if opts.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	obsCfg, err := telemetryConfig(cfg, opts, mode)
	if err != nil {
		return nil, err
	}

	obsCfg.LogOutput = cmd.ErrOrStderr()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewSweepMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.WithoutCancel(cmd.Context())))
	}

	runner := pipeline.NewRunner(cfg, providers.Logger)
	runner.Tracer = providers.Tracer
	runner.Metrics = metrics
	runner.Stdin = cmd.InOrStdin()
	runner.Stdout = cmd.OutOrStdout()
	runner.Trace = cmd.ErrOrStderr()

	return &environment{cfg: cfg, providers: providers, runner: runner}, nil
}

func (env *environment) close(ctx context.Context) error {
	err := env.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("shutdown observability: %w", err)
	}

	return nil
}

func telemetryConfig(cfg *config.Config, opts *globalOptions, mode observability.AppMode) (observability.Config, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.LogJSON()

	return obsCfg, nil
}
