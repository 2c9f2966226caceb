package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseCompletedEvent публикуется после успешной закупки у поставщика
type PurchaseCompletedEvent struct {
	PurchaseID   string
	OccurredAt   time.Time
	Provider     string
	Item         string
	Quantity     int
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Created      bool // true, если товар появился в инвентаре этой закупкой
	BalanceAfter decimal.Decimal
}

// DayClosedEvent публикуется после симуляции дня продаж
type DayClosedEvent struct {
	OccurredAt   time.Time
	DemandFactor float64
	ItemsSold    int
	Revenue      decimal.Decimal
	COGS         decimal.Decimal
	Profit       decimal.Decimal
	BalanceAfter decimal.Decimal
}

// EventPublisher определяет интерфейс для публикации доменных событий магазина
// Ошибка публикации не откатывает уже применённую операцию
type EventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, event PurchaseCompletedEvent) error
	PublishDayClosed(ctx context.Context, event DayClosedEvent) error
}

// MetricsRecorder записывает бизнес-метрики (nil = метрики отключены)
type MetricsRecorder interface {
	RecordPurchase(ctx context.Context, result string, quantity int)
	RecordDaySales(ctx context.Context, itemsSold int, revenue decimal.Decimal)
}

// NoopPublisher ничего не публикует, используется когда события выключены
type NoopPublisher struct{}

func (NoopPublisher) PublishPurchaseCompleted(ctx context.Context, event PurchaseCompletedEvent) error {
	return nil
}

func (NoopPublisher) PublishDayClosed(ctx context.Context, event DayClosedEvent) error {
	return nil
}
