package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/service"
	platformkafka "github.com/shestoi/GoBigTech/gamestore/platform/kafka"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
)

const (
	EventTypePurchaseCompleted = "gamestore.purchase.completed"
	EventTypeDayClosed         = "gamestore.sales.day_closed"

	eventVersion = 1
)

// messageWriter - часть kafka.Writer, которая нужна publisher'у
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PurchaseCompletedPayload - JSON событие успешной закупки
type PurchaseCompletedPayload struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EventVersion int    `json:"event_version"`
	OccurredAt   string `json:"occurred_at"`
	PurchaseID   string `json:"purchase_id"`
	Provider     string `json:"provider"`
	Item         string `json:"item"`
	Quantity     int    `json:"quantity"`
	UnitCost     string `json:"unit_cost"`
	TotalCost    string `json:"total_cost"`
	Created      bool   `json:"created"`
	BalanceAfter string `json:"balance_after"`
}

// DayClosedPayload - JSON событие закрытия дня продаж
type DayClosedPayload struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	EventVersion int     `json:"event_version"`
	OccurredAt   string  `json:"occurred_at"`
	DemandFactor float64 `json:"demand_factor"`
	ItemsSold    int     `json:"items_sold"`
	Revenue      string  `json:"revenue"`
	COGS         string  `json:"cogs"`
	Profit       string  `json:"profit"`
	BalanceAfter string  `json:"balance_after"`
}

// Publisher реализует service.EventPublisher используя Kafka
// Каждый тип события пишется в свой топик
type Publisher struct {
	logger          *zap.Logger
	purchaseWriter  messageWriter
	dayClosedWriter messageWriter
	purchaseTopic   string
	dayClosedTopic  string
}

// NewPublisher создаёт новый Kafka publisher для событий магазина
func NewPublisher(logger *zap.Logger, cfg platformkafka.Config, purchaseTopic, dayClosedTopic string) *Publisher {
	return newPublisher(
		logger,
		platformkafka.NewWriter(cfg, purchaseTopic),
		platformkafka.NewWriter(cfg, dayClosedTopic),
		purchaseTopic,
		dayClosedTopic,
	)
}

func newPublisher(logger *zap.Logger, purchaseWriter, dayClosedWriter messageWriter, purchaseTopic, dayClosedTopic string) *Publisher {
	return &Publisher{
		logger:          logger,
		purchaseWriter:  purchaseWriter,
		dayClosedWriter: dayClosedWriter,
		purchaseTopic:   purchaseTopic,
		dayClosedTopic:  dayClosedTopic,
	}
}

// Close закрывает оба Kafka writer'а
func (p *Publisher) Close() error {
	return errors.Join(p.purchaseWriter.Close(), p.dayClosedWriter.Close())
}

// PublishPurchaseCompleted публикует событие закупки, ключ сообщения - название товара
func (p *Publisher) PublishPurchaseCompleted(ctx context.Context, event service.PurchaseCompletedEvent) error {
	payload := PurchaseCompletedPayload{
		EventID:      uuid.New().String(),
		EventType:    EventTypePurchaseCompleted,
		EventVersion: eventVersion,
		OccurredAt:   event.OccurredAt.UTC().Format(time.RFC3339),
		PurchaseID:   event.PurchaseID,
		Provider:     event.Provider,
		Item:         event.Item,
		Quantity:     event.Quantity,
		UnitCost:     event.UnitCost.StringFixed(2),
		TotalCost:    event.TotalCost.StringFixed(2),
		Created:      event.Created,
		BalanceAfter: event.BalanceAfter.StringFixed(2),
	}

	err := p.publish(ctx, p.purchaseWriter, event.Item, payload)
	if err != nil {
		p.logger.Error("failed to publish purchase completed event",
			zap.Error(err),
			zap.String("topic", p.purchaseTopic),
			zap.String("purchase_id", event.PurchaseID),
		)
		return err
	}

	p.logger.Info("purchase completed event published",
		zap.String("topic", p.purchaseTopic),
		zap.String("event_id", payload.EventID),
		zap.String("purchase_id", event.PurchaseID),
		zap.String("item", event.Item),
	)
	return nil
}

// PublishDayClosed публикует итоги дня продаж, ключ сообщения - дата дня (UTC)
func (p *Publisher) PublishDayClosed(ctx context.Context, event service.DayClosedEvent) error {
	occurredAt := event.OccurredAt.UTC()
	payload := DayClosedPayload{
		EventID:      uuid.New().String(),
		EventType:    EventTypeDayClosed,
		EventVersion: eventVersion,
		OccurredAt:   occurredAt.Format(time.RFC3339),
		DemandFactor: event.DemandFactor,
		ItemsSold:    event.ItemsSold,
		Revenue:      event.Revenue.StringFixed(2),
		COGS:         event.COGS.StringFixed(2),
		Profit:       event.Profit.StringFixed(2),
		BalanceAfter: event.BalanceAfter.StringFixed(2),
	}

	err := p.publish(ctx, p.dayClosedWriter, occurredAt.Format(time.DateOnly), payload)
	if err != nil {
		p.logger.Error("failed to publish day closed event",
			zap.Error(err),
			zap.String("topic", p.dayClosedTopic),
		)
		return err
	}

	p.logger.Info("day closed event published",
		zap.String("topic", p.dayClosedTopic),
		zap.String("event_id", payload.EventID),
		zap.Int("items_sold", event.ItemsSold),
	)
	return nil
}

func (p *Publisher) publish(ctx context.Context, w messageWriter, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	platformobservability.InjectKafkaHeaders(ctx, &msg)

	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
