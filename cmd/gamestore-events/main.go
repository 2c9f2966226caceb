// Package main читает события магазина из Kafka и печатает их в stdout.
//
// Топики и брокеры берутся из той же конфигурации, что и у gamestore-api:
//   - KAFKA_BROKERS (например, "localhost:19092" или "kafka:9092" для Docker)
//   - KAFKA_PURCHASE_COMPLETED_TOPIC, KAFKA_DAY_CLOSED_TOPIC
//   - KAFKA_CONSUMER_GROUP_ID
package main

import (
	"log"

	"github.com/shestoi/GoBigTech/gamestore/internal/app"
	"github.com/shestoi/GoBigTech/gamestore/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.Build(cfg, app.ModeEvents)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Events reader error: %v", err)
	}
}
