package kafka

import (
	"github.com/segmentio/kafka-go"
)

// NewReader создаёт kafka.Reader в consumer group для одного топика
// Offset коммитится вручную через CommitMessages
func NewReader(cfg Config, groupID, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
}
