package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts"
)

// MeterName is the instrumentation scope for tracer and meter
const MeterName = "ecommerce-dashboard"

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
	TraceToStdout  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Registry       *prom.Registry
	Logger         *slog.Logger
}

// OTelConfigFrom maps the telemetry section of the app config
func OTelConfigFrom(cfg config.TelemetryConfig) *OTelConfig {
	return &OTelConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    cfg.Environment,
		EnableTracing:  cfg.EnableTracing,
		EnableMetrics:  cfg.EnableMetrics,
		TraceToStdout:  cfg.TraceToStdout,
		SampleRatio:    1.0,
	}
}

// InitializeOTel sets up tracing and metrics. Disabled signals fall back to
// no-op implementations so callers never nil-check Tracer or Meter.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = OTelConfigFrom(config.Default().Telemetry)
	}

	ctx := context.Background()

	logger.InfoContext(ctx, "initializing opentelemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.String("environment", cfg.Environment),
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.Bool("metrics_enabled", cfg.EnableMetrics))

	res := createResource(cfg)

	providers := &OTelProviders{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  noop.NewMeterProvider().Meter(MeterName),
		Logger: logger,
	}

	if cfg.EnableTracing {
		if err := initializeTracing(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.EnableMetrics {
		if err := initializeMetrics(cfg, res, providers); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return providers, nil
}

func createResource(cfg *OTelConfig) *resource.Resource {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", fmt.Sprintf("%s-%d", hostname, time.Now().Unix())),
	)
}

// initializeTracing installs a tracer provider. Spans are only exported
// when TraceToStdout is set; otherwise they are sampled for trace ids but
// dropped.
func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	}

	if cfg.TraceToStdout {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	return nil
}

// initializeMetrics wires the OTel Prometheus exporter to a private
// registry, which also carries the Go runtime and process collectors.
func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetMeterProvider(mp)

	return nil
}

// DashboardMetrics holds the application's instruments
type DashboardMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	DatasetLoadDuration metric.Float64Histogram
	DatasetRecords      metric.Int64Gauge
	DatasetLoads        metric.Int64Counter
	PageViews           metric.Int64Counter
	WebSocketClients    metric.Int64UpDownCounter
}

// CreateDashboardMetrics registers the application's instruments on meter
func CreateDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	m := &DashboardMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadDuration, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Time to read all sources and unify them"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.DatasetRecords, err = meter.Int64Gauge(
		"dataset_records",
		metric.WithDescription("Records in the published dataset"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoads, err = meter.Int64Counter(
		"dataset_loads_total",
		metric.WithDescription("Dataset builds by outcome"),
	); err != nil {
		return nil, err
	}

	if m.PageViews, err = meter.Int64Counter(
		"dashboard_page_views_total",
		metric.WithDescription("Rendered dashboard page views"),
	); err != nil {
		return nil, err
	}

	if m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Connected WebSocket clients"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDatasetLoad records the outcome of a dataset build
func (m *DashboardMetrics) RecordDatasetLoad(ctx context.Context, trigger string, duration time.Duration, records int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("status", status),
	)

	m.DatasetLoads.Add(ctx, 1, attrs)
	m.DatasetLoadDuration.Record(ctx, duration.Seconds(), attrs)
	if err == nil {
		m.DatasetRecords.Record(ctx, int64(records))
	}
}

// RecordPageView counts a rendered page
func (m *DashboardMetrics) RecordPageView(ctx context.Context, page string) {
	if m == nil {
		return
	}
	m.PageViews.Add(ctx, 1, metric.WithAttributes(attribute.String("page", page)))
}

// RecordWebSocketClients adjusts the connected client count by delta
func (m *DashboardMetrics) RecordWebSocketClients(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketClients.Add(ctx, delta)
}

// RecordHTTPRequest records a finished request. route is the matched
// pattern, not the raw path.
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TrackActiveRequest increments the in-flight gauge and returns the
// matching decrement
func (m *DashboardMetrics) TrackActiveRequest(ctx context.Context) func() {
	if m == nil {
		return func() {}
	}
	m.HTTPActiveRequests.Add(ctx, 1)
	return func() { m.HTTPActiveRequests.Add(ctx, -1) }
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
