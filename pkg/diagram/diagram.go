// Package diagram reads persistence diagrams, lists of birth–death pairs, from
// plain text, CSV, JSON and YAML. Infinite and NaN coordinates are accepted
// and kept; the landscape computation drops them.
package diagram

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

// Format names a diagram encoding.
type Format string

// Supported formats.
const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// AllDimensions keeps pairs of every homology dimension.
const AllDimensions = -1

// Sentinel errors.
var (
	ErrUnknownFormat = errors.New("unknown diagram format")
	ErrTooLarge      = errors.New("diagram exceeds size limit")
	ErrMalformedPair = errors.New("malformed birth-death pair")
	ErrSchema        = errors.New("diagram does not match schema")
)

// ParseError reports a problem at a specific input line or item.
type ParseError struct {
	Err  error
	Line int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options controls reading.
type Options struct {
	// Format is the encoding; FormatAuto picks one from the file extension.
	Format Format
	// Dimension keeps only pairs of this homology dimension. Pairs without a
	// dimension always pass. AllDimensions disables filtering.
	Dimension int
	// MaxSize caps the input size in bytes. Zero means unlimited.
	MaxSize int64
}

// DefaultOptions returns options that accept any format, dimension and size.
func DefaultOptions() Options {
	return Options{Format: FormatAuto, Dimension: AllDimensions}
}

// ParseFormat converts a format name, accepting "yml" for YAML and "txt" for text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(FormatAuto):
		return FormatAuto, nil
	case string(FormatText), "txt":
		return FormatText, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat picks a format from a file extension, defaulting to text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

// ReadFile reads the diagram at path.
func ReadFile(path string, opts Options) ([]landscape.Pair, error) {
	if opts.Format == FormatAuto || opts.Format == "" {
		opts.Format = DetectFormat(path)
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, fmt.Errorf("stat diagram: %w", statErr)
	}

	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), opts.MaxSize)
	}

	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open diagram: %w", openErr)
	}

	defer f.Close()

	pairs, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pairs, nil
}

// Read decodes a diagram from r. FormatAuto is read as text.
func Read(r io.Reader, opts Options) ([]landscape.Pair, error) {
	data, err := readLimited(r, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatAuto, FormatText, "":
		return parseText(data, opts.Dimension)
	case FormatCSV:
		return parseCSV(data, opts.Dimension)
	case FormatJSON:
		return parseJSON(data, opts.Dimension)
	case FormatYAML:
		return parseYAML(data, opts.Dimension)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read diagram: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read diagram: %w", err)
	}

	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return data, nil
}

// keep applies the dimension filter. Negative dim means the pair has none.
func keep(filter, dim int) bool {
	return filter == AllDimensions || dim < 0 || dim == filter
}
