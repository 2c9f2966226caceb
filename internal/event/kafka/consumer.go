package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	platformkafka "github.com/shestoi/GoBigTech/gamestore/platform/kafka"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
)

// Event - событие магазина, прочитанное из Kafka
// Payload содержит исходный JSON целиком
type Event struct {
	Topic        string
	Key          string
	EventID      string
	EventType    string
	EventVersion int
	OccurredAt   string
	Payload      json.RawMessage
}

// EventHandler обрабатывает одно событие; при ошибке consumer повторяет вызов с backoff
type EventHandler func(ctx context.Context, event Event) error

// messageReader - часть kafka.Reader, которая нужна consumer'у
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope - общие поля всех событий магазина
type envelope struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EventVersion int    `json:"event_version"`
	OccurredAt   string `json:"occurred_at"`
}

const (
	defaultBackoffBase = time.Second
	defaultBackoffMax  = 30 * time.Second
)

// Consumer читает события магазина из одного топика
type Consumer struct {
	logger      *zap.Logger
	reader      messageReader
	topic       string
	handler     EventHandler
	backoffBase time.Duration
	backoffMax  time.Duration
}

// NewConsumer создаёт consumer для топика в consumer group groupID
func NewConsumer(logger *zap.Logger, cfg platformkafka.Config, groupID, topic string, handler EventHandler) *Consumer {
	return newConsumer(logger, platformkafka.NewReader(cfg, groupID, topic), topic, handler)
}

func newConsumer(logger *zap.Logger, reader messageReader, topic string, handler EventHandler) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		logger:      logger,
		reader:      reader,
		topic:       topic,
		handler:     handler,
		backoffBase: defaultBackoffBase,
		backoffMax:  defaultBackoffMax,
	}
}

// Start читает сообщения до отмены ctx
// At-least-once: offset коммитится только после успешной обработки.
// Коммит в consumer group сдвигает offset всей партиции, поэтому следующее сообщение
// не читается, пока handler не обработает текущее
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting kafka consumer", zap.String("topic", c.topic))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer context cancelled, stopping", zap.String("topic", c.topic))
				return nil
			}
			c.logger.Error("failed to fetch message from kafka",
				zap.Error(err),
				zap.String("topic", c.topic),
			)
			continue
		}

		if !c.processMessage(ctx, m) {
			// сообщение не обработано только при отмене ctx
			c.logger.Info("consumer context cancelled, stopping", zap.String("topic", c.topic))
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("failed to commit message offset",
				zap.Error(err),
				zap.String("topic", m.Topic),
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
			)
			continue
		}

		c.logger.Debug("message offset committed",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
	}
}

// processMessage возвращает true, если offset нужно закоммитить
func (c *Consumer) processMessage(ctx context.Context, m kafka.Message) bool {
	var env envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison pill: повторное чтение ничего не изменит
		c.logger.Error("failed to unmarshal kafka message, skipping",
			zap.Error(err),
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
		)
		return true
	}

	ctx = platformobservability.ExtractKafkaHeaders(ctx, m)

	event := Event{
		Topic:        m.Topic,
		Key:          string(m.Key),
		EventID:      env.EventID,
		EventType:    env.EventType,
		EventVersion: env.EventVersion,
		OccurredAt:   env.OccurredAt,
		Payload:      json.RawMessage(m.Value),
	}

	return c.handleWithRetry(ctx, event)
}

// handleWithRetry вызывает handler до успеха с экспоненциальным backoff (1s, 2s, 4s ... до backoffMax)
// Возвращает false, только если ctx отменён раньше успешной обработки
func (c *Consumer) handleWithRetry(ctx context.Context, event Event) bool {
	backoff := c.backoffBase
	for attempt := 1; ; attempt++ {
		err := c.handler(ctx, event)
		if err == nil {
			if attempt > 1 {
				platformobservability.L(ctx, c.logger).Info("store event handled after retry",
					zap.String("event_id", event.EventID),
					zap.Int("attempt", attempt),
				)
			}
			return true
		}

		platformobservability.L(ctx, c.logger).Warn("failed to handle store event",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.backoffMax {
			backoff = c.backoffMax
		}
	}
}

// Close закрывает Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
