package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

const (
	metricSweepsTotal        = "landscape.sweeps.total"
	metricSweepDuration      = "landscape.sweep.duration.seconds"
	metricMountainsTotal     = "landscape.mountains.total"
	metricIntersectionsTotal = "landscape.intersections.total"
	metricVerticesTotal      = "landscape.vertices.total"
	metricDroppedTotal       = "landscape.pairs.dropped.total"
	metricInflightSweeps     = "landscape.inflight.sweeps"

	attrStatus = "status"

	// StatusOK marks a sweep whose result was exported.
	StatusOK = "ok"
	// StatusError marks a job that failed to load, compute or export.
	StatusError = "error"
)

// durationBuckets covers sub-millisecond toy diagrams up to minute-long sweeps.
var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60}

// SweepMetrics holds the instruments recorded per landscape computation.
type SweepMetrics struct {
	sweeps        metric.Int64Counter
	duration      metric.Float64Histogram
	mountains     metric.Int64Counter
	intersections metric.Int64Counter
	vertices      metric.Int64Counter
	dropped       metric.Int64Counter
	inflight      metric.Int64UpDownCounter
}

// NewSweepMetrics creates sweep instruments from the given meter.
// All creation failures are reported together.
func NewSweepMetrics(mt metric.Meter) (*SweepMetrics, error) {
	var errs []error

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}

		return c
	}

	duration, err := mt.Float64Histogram(metricSweepDuration,
		metric.WithDescription("Sweep duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("create %s: %w", metricSweepDuration, err))
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightSweeps,
		metric.WithDescription("Sweeps currently running"),
		metric.WithUnit("{sweep}"),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("create %s: %w", metricInflightSweeps, err))
	}

	sm := &SweepMetrics{
		sweeps:        counter(metricSweepsTotal, "Landscape computations by outcome", "{sweep}"),
		duration:      duration,
		mountains:     counter(metricMountainsTotal, "Mountains swept", "{mountain}"),
		intersections: counter(metricIntersectionsTotal, "Intersection events consumed", "{event}"),
		vertices:      counter(metricVerticesTotal, "Landscape vertices emitted", "{vertex}"),
		dropped:       counter(metricDroppedTotal, "Pairs dropped for non-finite coordinates", "{pair}"),
		inflight:      inflight,
	}

	joined := errors.Join(errs...)
	if joined != nil {
		return nil, joined
	}

	return sm, nil
}

// RecordSweep records a finished computation and its statistics.
func (sm *SweepMetrics) RecordSweep(ctx context.Context, stats landscape.Stats, elapsed time.Duration) {
	sm.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, StatusOK)))
	sm.duration.Record(ctx, elapsed.Seconds())
	sm.mountains.Add(ctx, int64(stats.Mountains))
	sm.intersections.Add(ctx, int64(stats.Intersections))
	sm.vertices.Add(ctx, int64(stats.Vertices))
	sm.dropped.Add(ctx, int64(stats.Dropped))
}

// RecordFailure counts a job that produced no landscape.
func (sm *SweepMetrics) RecordFailure(ctx context.Context) {
	sm.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, StatusError)))
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (sm *SweepMetrics) TrackInflight(ctx context.Context) func() {
	sm.inflight.Add(ctx, 1)

	return func() {
		sm.inflight.Add(ctx, -1)
	}
}
