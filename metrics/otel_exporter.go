package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter             metric.Meter
	receivedGauge     metric.Int64ObservableGauge
	invalidSigGauge   metric.Int64ObservableGauge
	throughputGauge   metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"webhook-gateway",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Received events gauge (per provider)
	oe.receivedGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.received.count",
		metric.WithDescription("Number of inbound events ingested per provider"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeReceivedCounts),
	)
	if err != nil {
		return fmt.Errorf("creating received gauge: %w", err)
	}

	// Invalid signature gauge (per provider)
	oe.invalidSigGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.signature.invalid.count",
		metric.WithDescription("Number of inbound events that failed signature verification"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeInvalidSignatureCounts),
	)
	if err != nil {
		return fmt.Errorf("creating invalid signature gauge: %w", err)
	}

	// Throughput gauge (ingested events over time windows)
	oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.throughput",
		metric.WithDescription("Number of events ingested over time window"),
		metric.WithUnit("{events}"),
		metric.WithInt64Callback(oe.observeThroughput),
	)
	if err != nil {
		return fmt.Errorf("creating throughput gauge: %w", err)
	}

	return nil
}

// observeReceivedCounts is a callback that reports ingested events per provider
func (oe *OTelExporter) observeReceivedCounts(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetReceivedCounts(ctx)
	if err != nil {
		return err
	}

	for providerName, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("provider", providerName),
		))
	}
	return nil
}

// observeInvalidSignatureCounts is a callback that reports failed verifications
func (oe *OTelExporter) observeInvalidSignatureCounts(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetInvalidSignatureCounts(ctx)
	if err != nil {
		return err
	}

	for providerName, count := range counts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("provider", providerName),
		))
	}
	return nil
}

// observeThroughput is a callback that reports ingestion throughput windows
func (oe *OTelExporter) observeThroughput(ctx context.Context, observer metric.Int64Observer) error {
	throughput, err := oe.collector.GetThroughput(ctx)
	if err != nil {
		return err
	}

	observer.Observe(throughput.LastMinute, metric.WithAttributes(attribute.String("window", "1m")))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(attribute.String("window", "5m")))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(attribute.String("window", "15m")))
	return nil
}

// Handler returns the HTTP handler serving the Prometheus exposition format
func (oe *OTelExporter) Handler() http.Handler {
	return promhttp.Handler()
}

// Shutdown flushes and stops the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	return oe.meterProvider.Shutdown(ctx)
}
