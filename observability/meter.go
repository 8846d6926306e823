package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/kbukum/sportkit/logger"
	"github.com/kbukum/sportkit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Short(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// newResource creates an OpenTelemetry resource with service metadata.
func newResource(serviceName, serviceVersion, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("environment", environment),
		),
	)
}

// Metrics holds metric instruments for the acquisition pipeline: upstream
// fetches, cache effectiveness, and bulk run throughput.
type Metrics struct {
	fetchTotal    metric.Int64Counter
	fetchDuration metric.Float64Histogram
	fetchActive   metric.Int64UpDownCounter
	cacheLookups  metric.Int64Counter
	bulkItems     metric.Int64Counter
	bulkDuration  metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	fetchTotal, err := meter.Int64Counter("fetch.total",
		metric.WithDescription("Total number of upstream fetches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.total counter: %w", err)
	}

	fetchDuration, err := meter.Float64Histogram("fetch.duration",
		metric.WithDescription("Duration of upstream fetches in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.duration histogram: %w", err)
	}

	fetchActive, err := meter.Int64UpDownCounter("fetch.active",
		metric.WithDescription("Number of currently in-flight fetches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fetch.active gauge: %w", err)
	}

	cacheLookups, err := meter.Int64Counter("cache.lookups",
		metric.WithDescription("Cache lookups by outcome (hit/miss)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache.lookups counter: %w", err)
	}

	bulkItems, err := meter.Int64Counter("bulk.items",
		metric.WithDescription("Bulk run items processed by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bulk.items counter: %w", err)
	}

	bulkDuration, err := meter.Float64Histogram("bulk.duration",
		metric.WithDescription("Duration of bulk runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating bulk.duration histogram: %w", err)
	}

	return &Metrics{
		fetchTotal:    fetchTotal,
		fetchDuration: fetchDuration,
		fetchActive:   fetchActive,
		cacheLookups:  cacheLookups,
		bulkItems:     bulkItems,
		bulkDuration:  bulkDuration,
	}, nil
}

// RecordFetchStart increments the in-flight fetch count.
func (m *Metrics) RecordFetchStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.fetchActive.Add(ctx, 1)
}

// RecordFetch decrements in-flight fetches and records the completed fetch.
func (m *Metrics) RecordFetch(ctx context.Context, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchActive.Add(ctx, -1)
	m.fetchTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("endpoint", endpoint),
	))
}

// RecordCacheLookup records a cache lookup outcome.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordBulkItem records one processed bulk item.
func (m *Metrics) RecordBulkItem(ctx context.Context, opType string, success bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "ok"
	}
	m.bulkItems.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opType),
		attribute.String("outcome", outcome),
	))
}

// RecordBulkRun records a completed bulk run.
func (m *Metrics) RecordBulkRun(ctx context.Context, opType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.bulkDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", opType),
	))
}
