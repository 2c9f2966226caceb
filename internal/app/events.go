package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/shestoi/GoBigTech/gamestore/internal/config"
	eventkafka "github.com/shestoi/GoBigTech/gamestore/internal/event/kafka"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
	platformshutdown "github.com/shestoi/GoBigTech/gamestore/platform/shutdown"
)

// buildEvents собирает режим чтения событий: по consumer'у на каждый топик магазина
func buildEvents(cfg config.Config, logger *zap.Logger, shutdownMgr *platformshutdown.Manager, out io.Writer) (*App, error) {
	logger.Info("Building GameStore events reader",
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("consumer_group_id", cfg.ConsumerGroupID),
		zap.String("purchase_topic", cfg.PurchaseCompletedTopic),
		zap.String("day_closed_topic", cfg.DayClosedTopic),
	)

	handler := newEventPrinter(out, logger)

	a := &App{
		mode:        ModeEvents,
		logger:      logger,
		shutdownMgr: shutdownMgr,
	}
	for _, topic := range []string{cfg.PurchaseCompletedTopic, cfg.DayClosedTopic} {
		consumer := eventkafka.NewConsumer(logger, cfg.Kafka, cfg.ConsumerGroupID, topic, handler)
		shutdownMgr.Add("kafka_consumer_"+topic, platformshutdown.Close(consumer))
		a.consumers = append(a.consumers, consumer)
	}
	return a, nil
}

// newEventPrinter печатает каждое событие одной строкой: время, тип, ключ и исходный JSON
func newEventPrinter(out io.Writer, logger *zap.Logger) eventkafka.EventHandler {
	var mu sync.Mutex
	return func(ctx context.Context, event eventkafka.Event) error {
		platformobservability.L(ctx, logger).Info("Store event received",
			zap.String("topic", event.Topic),
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
		)

		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintf(out, "%s %s key=%q %s\n", event.OccurredAt, event.EventType, event.Key, event.Payload)
		return err
	}
}

func (a *App) runEvents() error {
	a.logger.Info("Starting GameStore events reader", zap.Int("consumers", len(a.consumers)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Отмена выполняется первой, до закрытия reader'ов
	a.shutdownMgr.Add("kafka_consumers_ctx", func(context.Context) error {
		cancel()
		return nil
	})

	for _, consumer := range a.consumers {
		a.wg.Add(1)
		go func(c *eventkafka.Consumer) {
			defer a.wg.Done()
			if err := c.Start(ctx); err != nil {
				a.logger.Error("kafka consumer error", zap.Error(err))
			}
		}(consumer)
	}

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("GameStore events reader stopped")
	return nil
}
