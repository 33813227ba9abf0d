package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OutcomeSuccess labels calls that resolved with a 2xx response
const OutcomeSuccess = "success"

// Recorder receives one observation per completed messaging API call.
// Implementations must be safe for concurrent use.
type Recorder interface {
	RecordCall(ctx context.Context, endpoint, outcome string, duration time.Duration)
}

// Nop discards every observation
type Nop struct{}

// RecordCall implements Recorder
func (Nop) RecordCall(context.Context, string, string, time.Duration) {}

// OTelRecorder records API calls with OpenTelemetry instruments exported in Prometheus format
type OTelRecorder struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry

	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewOTelRecorder creates a recorder backed by its own Prometheus registry
func NewOTelRecorder() (*OTelRecorder, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	meter := meterProvider.Meter(
		"golang-line-connect",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	calls, err := meter.Int64Counter(
		"line.api.calls",
		metric.WithDescription("Number of completed LINE messaging API calls by endpoint and outcome"),
		metric.WithUnit("{calls}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"line.api.duration",
		metric.WithDescription("Latency of LINE messaging API calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	return &OTelRecorder{
		meterProvider: meterProvider,
		registry:      registry,
		calls:         calls,
		latency:       latency,
	}, nil
}

// RecordCall implements Recorder
func (r *OTelRecorder) RecordCall(ctx context.Context, endpoint, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	r.calls.Add(ctx, 1, attrs)
	r.latency.Record(ctx, duration.Seconds(), attrs)
}

// Handler serves the recorded metrics in Prometheus text format
func (r *OTelRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider
func (r *OTelRecorder) Shutdown(ctx context.Context) error {
	return r.meterProvider.Shutdown(ctx)
}
