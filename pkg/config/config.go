// Package config provides configuration loading and validation for the landscape tool.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/landscape/pkg/diagram"
	"github.com/Sumatoshi-tech/landscape/pkg/export"
)

// Sentinel validation errors.
var (
	ErrInvalidLevels      = errors.New("landscape levels must not be negative")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidInputFormat = errors.New("invalid input format")
	ErrInvalidMaxSize     = errors.New("invalid input size limit")
	ErrInvalidWorkers     = errors.New("batch workers must not be negative")
	ErrInvalidPrecision   = errors.New("output precision must be -1 or more")
	ErrInvalidSampleRatio = errors.New("telemetry sample ratio must be within [0, 1]")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
)

// Default configuration values.
const (
	defaultLevels    = 5
	defaultMaxSize   = "64MB"
	defaultFormat    = "json"
	defaultPrecision = export.ShortestPrecision
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	envPrefix        = "LANDSCAPE"
	configName       = "landscape"

	logFormatText = "text"
	logFormatJSON = "json"
)

// Config holds all configuration for the landscape tool.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Landscape LandscapeConfig `mapstructure:"landscape"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

// LandscapeConfig holds computation settings.
type LandscapeConfig struct {
	Levels int  `mapstructure:"levels"`
	Debug  bool `mapstructure:"debug"`
}

// InputConfig holds diagram reading settings.
type InputConfig struct {
	Format    string `mapstructure:"format"`
	MaxSize   string `mapstructure:"max_size"`
	Dimension int    `mapstructure:"dimension"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	Precision int    `mapstructure:"precision"`
	Compress  bool   `mapstructure:"compress"`
}

// BatchConfig holds batch execution settings.
type BatchConfig struct {
	// Workers bounds concurrent computations; zero means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	Environment  string  `mapstructure:"environment"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/landscape")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	return &Config{
		Landscape: LandscapeConfig{Levels: defaultLevels},
		Input: InputConfig{
			Format:    string(diagram.FormatAuto),
			MaxSize:   defaultMaxSize,
			Dimension: diagram.AllDimensions,
		},
		Output:  OutputConfig{Format: defaultFormat, Precision: defaultPrecision},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	def := Default()

	// Landscape defaults.
	viperCfg.SetDefault("landscape.levels", def.Landscape.Levels)
	viperCfg.SetDefault("landscape.debug", def.Landscape.Debug)

	// Input defaults.
	viperCfg.SetDefault("input.format", def.Input.Format)
	viperCfg.SetDefault("input.max_size", def.Input.MaxSize)
	viperCfg.SetDefault("input.dimension", def.Input.Dimension)

	// Output defaults.
	viperCfg.SetDefault("output.format", def.Output.Format)
	viperCfg.SetDefault("output.precision", def.Output.Precision)
	viperCfg.SetDefault("output.compress", def.Output.Compress)

	// Batch defaults.
	viperCfg.SetDefault("batch.workers", def.Batch.Workers)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", def.Logging.Level)
	viperCfg.SetDefault("logging.format", def.Logging.Format)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.metrics_file", "")
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if c.Landscape.Levels < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLevels, c.Landscape.Levels)
	}

	_, inErr := diagram.ParseFormat(c.Input.Format)
	if inErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInputFormat, inErr)
	}

	_, sizeErr := c.MaxInputBytes()
	if sizeErr != nil {
		return sizeErr
	}

	_, outErr := export.ParseFormat(c.Output.Format)
	if outErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, outErr)
	}

	if c.Output.Precision < export.ShortestPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, c.Output.Precision)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Batch.Workers)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	_, levelErr := c.LogLevel()
	if levelErr != nil {
		return levelErr
	}

	switch strings.ToLower(c.Logging.Format) {
	case logFormatText, logFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// MaxInputBytes parses input.max_size. An empty value or "0" means unlimited.
func (c *Config) MaxInputBytes() (int64, error) {
	if c.Input.MaxSize == "" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.Input.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxSize, c.Input.MaxSize, err)
	}

	if size > uint64(1<<62) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidMaxSize, c.Input.MaxSize)
	}

	return int64(size), nil
}

// LogLevel parses logging.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}

// LogJSON reports whether logs should be JSON encoded.
func (c *Config) LogJSON() bool {
	return strings.EqualFold(c.Logging.Format, logFormatJSON)
}
