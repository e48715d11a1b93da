package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile collects OTel instruments into a private Prometheus registry and
// writes them in the text exposition format, for node_exporter's textfile
// collector or for archiving next to batch output.
type Textfile struct {
	registry *prometheus.Registry
	reader   sdkmetric.Reader
	path     string
}

// NewTextfile creates a Prometheus-backed metric reader that dumps to path.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{registry: registry, reader: exporter, path: path}, nil
}

// Reader returns the reader to attach to a MeterProvider.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.reader
}

// Write gathers the current metric values and replaces the file atomically.
func (tf *Textfile) Write(context.Context) error {
	err := prometheus.WriteToTextfile(tf.path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", tf.path, err)
	}

	return nil
}
