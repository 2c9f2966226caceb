package app

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// storeMetricsRecorder реализует service.MetricsRecorder через OTel счётчики
type storeMetricsRecorder struct {
	purchases      metric.Int64Counter
	unitsPurchased metric.Int64Counter
	itemsSold      metric.Int64Counter
	revenue        metric.Float64Counter
}

func newStoreMetricsRecorder(meter metric.Meter) (*storeMetricsRecorder, error) {
	purchases, err := meter.Int64Counter("gamestore_purchases_total",
		metric.WithDescription("Provider purchases by result"))
	if err != nil {
		return nil, err
	}
	unitsPurchased, err := meter.Int64Counter("gamestore_units_purchased_total",
		metric.WithDescription("Units bought from providers"))
	if err != nil {
		return nil, err
	}
	itemsSold, err := meter.Int64Counter("gamestore_items_sold_total",
		metric.WithDescription("Units sold in simulated days"))
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64Counter("gamestore_revenue_total",
		metric.WithDescription("Revenue of simulated days"), metric.WithUnit("USD"))
	if err != nil {
		return nil, err
	}
	return &storeMetricsRecorder{
		purchases:      purchases,
		unitsPurchased: unitsPurchased,
		itemsSold:      itemsSold,
		revenue:        revenue,
	}, nil
}

func (r *storeMetricsRecorder) RecordPurchase(ctx context.Context, result string, quantity int) {
	r.purchases.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	// неуспешные закупки приходят с quantity = 0
	if quantity > 0 {
		r.unitsPurchased.Add(ctx, int64(quantity))
	}
}

func (r *storeMetricsRecorder) RecordDaySales(ctx context.Context, itemsSold int, revenue decimal.Decimal) {
	r.itemsSold.Add(ctx, int64(itemsSold))
	r.revenue.Add(ctx, revenue.InexactFloat64())
}
