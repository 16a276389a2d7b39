package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared by the instruments of this package
const (
	AttrMethod    = attribute.Key("http.request.method")
	AttrRoute     = attribute.Key("http.route")
	AttrStatus    = attribute.Key("http.response.status_code")
	AttrSource    = attribute.Key("quotation.source")
	AttrQuoteStat = attribute.Key("quotation.status")
	AttrSyncStat  = attribute.Key("sync.status")
	AttrPool      = attribute.Key("db.pool.state")
)

// Histogram buckets in seconds
var (
	LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	SyncBuckets    = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800}
)

// HTTPMetrics records request count, latency and in-flight requests
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP instruments on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(LatencyBuckets...))
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &HTTPMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// Start marks a request as in flight and returns the function that records it
func (m *HTTPMetrics) Start(ctx context.Context, method string) func(route string, status int) {
	started := time.Now()
	m.inFlight.Add(ctx, 1, metric.WithAttributes(AttrMethod.String(method)))
	return func(route string, status int) {
		m.inFlight.Add(ctx, -1, metric.WithAttributes(AttrMethod.String(method)))
		attrs := metric.WithAttributes(
			AttrMethod.String(method),
			AttrRoute.String(route),
			AttrStatus.Int(status),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
	}
}
