package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewWriter создаёт kafka.Writer для одного топика
// Топик создаётся брокером автоматически, если это разрешено его настройками
func NewWriter(cfg Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
