// Package export writes landscape levels in the formats the CLI offers:
// JSON, YAML, CSV, a terminal table and an HTML line chart. Any of them can
// be wrapped in an LZ4 frame.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
	FormatHTML  Format = "html"
)

// ShortestPrecision prints the shortest representation that round-trips.
const ShortestPrecision = -1

// ErrUnknownFormat is returned for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatCSV, FormatTable, FormatHTML}
}

// ParseFormat converts a format name.
func ParseFormat(name string) (Format, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "yml" {
		return FormatYAML, nil
	}

	for _, f := range Formats() {
		if string(f) == lower {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Extension returns the file extension for a format, including the dot.
func (f Format) Extension() string {
	if f == FormatTable {
		return ".txt"
	}

	return "." + string(f)
}

// Options controls rendering.
type Options struct {
	// Title labels HTML charts and table headers.
	Title string
	// Stats, when set, is included in JSON and YAML documents.
	Stats *landscape.Stats
	// Precision is the number of decimals for CSV and table cells.
	// ShortestPrecision keeps the shortest exact form.
	Precision int
	// Compress wraps the output in an LZ4 frame.
	Compress bool
}

// DefaultOptions returns uncompressed output with shortest precision.
func DefaultOptions() Options {
	return Options{Precision: ShortestPrecision}
}

// Document is the JSON and YAML representation of a landscape.
type Document struct {
	K      int               `json:"k" yaml:"k"`
	Levels []landscape.Level `json:"levels" yaml:"levels"`
	Stats  *landscape.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Write renders levels to w.
func Write(w io.Writer, levels []landscape.Level, format Format, opts Options) error {
	if !opts.Compress {
		return write(w, levels, format, opts)
	}

	zw := lz4.NewWriter(w)

	writeErr := write(zw, levels, format, opts)
	closeErr := zw.Close()

	if writeErr != nil {
		return writeErr
	}

	if closeErr != nil {
		return fmt.Errorf("close lz4 frame: %w", closeErr)
	}

	return nil
}

// OpenReader returns a reader that undoes Options.Compress.
func OpenReader(r io.Reader, compressed bool) io.Reader {
	if !compressed {
		return r
	}

	return lz4.NewReader(r)
}

func write(w io.Writer, levels []landscape.Level, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, newDocument(levels, opts))
	case FormatYAML:
		return writeYAML(w, newDocument(levels, opts))
	case FormatCSV:
		return writeCSV(w, levels, opts.Precision)
	case FormatTable:
		return writeTable(w, levels, opts)
	case FormatHTML:
		return writeHTML(w, levels, opts.Title)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func newDocument(levels []landscape.Level, opts Options) Document {
	return Document{K: len(levels), Levels: levels, Stats: opts.Stats}
}

func writeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	encodeErr := enc.Encode(doc)
	if encodeErr != nil {
		return fmt.Errorf("encode yaml: %w", encodeErr)
	}

	closeErr := enc.Close()
	if closeErr != nil {
		return fmt.Errorf("close yaml encoder: %w", closeErr)
	}

	return nil
}

// formatCoord renders a coordinate with the requested number of decimals.
func formatCoord(v float32, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	}

	return strconv.FormatFloat(float64(v), 'f', precision, 32)
}
