package config_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/landscape/pkg/config"
)

const testMaxBytes = 64 * 1000 * 1000

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	// No config file in the working directory: defaults apply.
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Landscape.Levels)
	assert.False(t, cfg.Landscape.Debug)
	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, -1, cfg.Input.Dimension)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, -1, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)

	size, sizeErr := cfg.MaxInputBytes()
	require.NoError(t, sizeErr)
	assert.Equal(t, int64(testMaxBytes), size)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
landscape:
  levels: 3
  debug: true

input:
  format: csv
  max_size: "1KiB"
  dimension: 1

output:
  format: table
  precision: 3
  compress: true

batch:
  workers: 4

logging:
  level: debug
  format: json

telemetry:
  otlp_endpoint: "localhost:4317"
  sample_ratio: 0.5
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Landscape.Levels)
	assert.True(t, cfg.Landscape.Debug)
	assert.Equal(t, "csv", cfg.Input.Format)
	assert.Equal(t, 1, cfg.Input.Dimension)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, 3, cfg.Output.Precision)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.LogJSON())
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 0)

	size, sizeErr := cfg.MaxInputBytes()
	require.NoError(t, sizeErr)
	assert.Equal(t, int64(1024), size)

	level, levelErr := cfg.LogLevel()
	require.NoError(t, levelErr)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("LANDSCAPE_LANDSCAPE_LEVELS", "9")
	t.Setenv("LANDSCAPE_OUTPUT_FORMAT", "yaml")
	t.Setenv("LANDSCAPE_BATCH_WORKERS", "2")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Landscape.Levels)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Batch.Workers)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "negative levels", content: "landscape:\n  levels: -1\n", want: config.ErrInvalidLevels},
		{name: "output format", content: "output:\n  format: svg\n", want: config.ErrInvalidFormat},
		{name: "input format", content: "input:\n  format: xml\n", want: config.ErrInvalidInputFormat},
		{name: "max size", content: "input:\n  max_size: lots\n", want: config.ErrInvalidMaxSize},
		{name: "precision", content: "output:\n  precision: -2\n", want: config.ErrInvalidPrecision},
		{name: "workers", content: "batch:\n  workers: -3\n", want: config.ErrInvalidWorkers},
		{name: "sample ratio", content: "telemetry:\n  sample_ratio: 2\n", want: config.ErrInvalidSampleRatio},
		{name: "log level", content: "logging:\n  level: loud\n", want: config.ErrInvalidLogLevel},
		{name: "log format", content: "logging:\n  format: xml\n", want: config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.LogJSON())

	cfg.Input.MaxSize = ""

	size, err := cfg.MaxInputBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}
