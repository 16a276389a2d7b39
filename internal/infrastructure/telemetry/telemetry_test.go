package telemetry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func int64Sum(t *testing.T, m metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if attr.Key == "" {
			total += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			total += dp.Value
		}
	}
	return total
}

func newTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func TestQuoteMetrics_CountsEvents(t *testing.T) {
	reader, mp := newTestMeter()
	m, err := NewQuoteMetrics(mp.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	q := &quotation.QuotationRequest{RequestNumber: "QR-2026-0001", Source: quotation.SourceCustomer}
	q.ID = uuid.New()
	q.Totals.Total = decimal.RequireFromString("1210.00")

	require.NoError(t, m.Handle(ctx, quotation.NewQuotationSubmittedEvent(q)))
	require.NoError(t, m.Handle(ctx, quotation.NewQuotationSubmittedEvent(q)))
	require.NoError(t, m.Handle(ctx, quotation.NewQuotationStatusChangedEvent(q, quotation.StatusPending, quotation.StatusProcessing, "")))
	require.NoError(t, m.Handle(ctx, quotation.NewQuotationPricedEvent(q)))

	run := &catalog.ArticleSyncRun{Status: catalog.SyncRunCompleted, Processed: 42}
	run.ID = uuid.New()
	require.NoError(t, m.Handle(ctx, catalog.NewArticleSyncCompletedEvent(run)))

	got := collect(t, reader)
	assert.Equal(t, int64(2), int64Sum(t, got["quotation.requests.submitted"], AttrSource.String(string(quotation.SourceCustomer))))
	assert.Equal(t, int64(1), int64Sum(t, got["quotation.requests.status_changes"], AttrQuoteStat.String(string(quotation.StatusProcessing))))
	assert.Equal(t, int64(1), int64Sum(t, got["quotation.requests.priced"], attribute.KeyValue{}))
	assert.Equal(t, int64(42), int64Sum(t, got["articles.sync.articles"], AttrSyncStat.String(string(catalog.SyncRunCompleted))))

	amount, ok := got["quotation.requests.priced_amount"].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 1210.0, amount.DataPoints[0].Value, 0.001)
}

type otherEvent struct{ shared.BaseDomainEvent }

func TestQuoteMetrics_IgnoresUnknownEvents(t *testing.T) {
	reader, mp := newTestMeter()
	m, err := NewQuoteMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ev := &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent("Other", "Other", uuid.New())}
	assert.NoError(t, m.Handle(context.Background(), ev))
	for name, metric := range collect(t, reader) {
		if _, ok := metric.Data.(metricdata.Sum[int64]); ok {
			assert.Zero(t, int64Sum(t, metric, attribute.KeyValue{}), name)
		}
	}
	assert.Contains(t, m.EventTypes(), quotation.EventTypeQuotationSubmitted)
	assert.Contains(t, m.EventTypes(), catalog.EventTypeArticleSyncCompleted)
}

func TestHTTPMetrics_RecordsRequest(t *testing.T) {
	reader, mp := newTestMeter()
	m, err := NewHTTPMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := m.Start(context.Background(), "GET")
	done("/api/v1/ports", 200)

	got := collect(t, reader)
	assert.Equal(t, int64(1), int64Sum(t, got["http.server.requests"], AttrRoute.String("/api/v1/ports")))
	assert.Equal(t, int64(0), int64Sum(t, got["http.server.active_requests"], attribute.KeyValue{}))

	hist, ok := got["http.server.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.TracerProvider)
	assert.Nil(t, p.MeterProvider)
	assert.NotNil(t, p.Meter())
	assert.False(t, p.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, p.Shutdown(context.Background()))

	var nilProviders *Providers
	assert.NoError(t, nilProviders.Shutdown(context.Background()))
}

func TestWithLabels_RunsFunction(t *testing.T) {
	calls := 0
	WithLabels(context.Background(), func(context.Context) { calls++ }, "route", "/api/v1/quotations")
	WithLabels(context.Background(), func(context.Context) { calls++ }, "odd")
	assert.Equal(t, 2, calls)
}

type slowRow struct {
	ID   uint
	Name string
}

func TestInstrumentDB_LogsSlowQueries(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&slowRow{}))

	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.TelemetryConfig{DBTraceEnabled: true, DBSlowQueryThresh: 1}
	require.NoError(t, InstrumentDB(db, cfg, zap.New(core)))

	require.NoError(t, db.Create(&slowRow{Name: "a"}).Error)
	var rows []slowRow
	require.NoError(t, db.Find(&rows).Error)

	assert.GreaterOrEqual(t, logs.FilterMessage("slow query").Len(), 2)
}

func TestInstrumentDB_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	core, logs := observer.New(zapcore.WarnLevel)
	require.NoError(t, InstrumentDB(db, config.TelemetryConfig{DBSlowQueryThresh: 1}, zap.New(core)))
	require.NoError(t, db.AutoMigrate(&slowRow{}))
	assert.Equal(t, 0, logs.Len())
}

func TestRegisterPoolMetrics(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(7)

	reader, mp := newTestMeter()
	require.NoError(t, RegisterPoolMetrics(mp.Meter("test"), sqlDB))

	got := collect(t, reader)
	gauge, ok := got["db.client.connections.max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(7), gauge.DataPoints[0].Value)
}
