package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
)

// QuoteMetrics turns quotation and sync events into counters
type QuoteMetrics struct {
	submitted     metric.Int64Counter
	statusChanges metric.Int64Counter
	priced        metric.Int64Counter
	pricedTotal   metric.Float64Counter
	syncRuns      metric.Int64Counter
	syncArticles  metric.Int64Counter
}

// NewQuoteMetrics creates the instruments on meter
func NewQuoteMetrics(meter metric.Meter) (*QuoteMetrics, error) {
	m := &QuoteMetrics{}
	var err error
	if m.submitted, err = meter.Int64Counter("quotation.requests.submitted",
		metric.WithDescription("Quotation requests created, by source")); err != nil {
		return nil, err
	}
	if m.statusChanges, err = meter.Int64Counter("quotation.requests.status_changes",
		metric.WithDescription("Lifecycle transitions, by target status")); err != nil {
		return nil, err
	}
	if m.priced, err = meter.Int64Counter("quotation.requests.priced",
		metric.WithDescription("Pricing runs applied to a request")); err != nil {
		return nil, err
	}
	if m.pricedTotal, err = meter.Float64Counter("quotation.requests.priced_amount",
		metric.WithDescription("Sum of priced totals including VAT"),
		metric.WithUnit("EUR")); err != nil {
		return nil, err
	}
	if m.syncRuns, err = meter.Int64Counter("articles.sync.runs",
		metric.WithDescription("Finished article sync runs, by status")); err != nil {
		return nil, err
	}
	if m.syncArticles, err = meter.Int64Counter("articles.sync.articles",
		metric.WithDescription("Articles processed by sync runs")); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *QuoteMetrics) EventTypes() []string {
	return []string{
		quotation.EventTypeQuotationSubmitted,
		quotation.EventTypeQuotationStatusChanged,
		quotation.EventTypeQuotationPriced,
		catalog.EventTypeArticleSyncCompleted,
	}
}

// Handle implements shared.EventHandler. Unknown payloads are ignored.
func (m *QuoteMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *quotation.QuotationSubmittedEvent:
		m.submitted.Add(ctx, 1, metric.WithAttributes(AttrSource.String(string(e.Source))))
	case *quotation.QuotationStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(AttrQuoteStat.String(string(e.NewStatus))))
	case *quotation.QuotationPricedEvent:
		m.priced.Add(ctx, 1)
		total, _ := e.Total.Float64()
		if total > 0 {
			m.pricedTotal.Add(ctx, total)
		}
	case *catalog.ArticleSyncCompletedEvent:
		attrs := metric.WithAttributes(AttrSyncStat.String(string(e.Status)))
		m.syncRuns.Add(ctx, 1, attrs)
		m.syncArticles.Add(ctx, int64(e.Processed), attrs)
	}
	return nil
}

var _ shared.EventHandler = (*QuoteMetrics)(nil)
