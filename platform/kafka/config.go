package kafka

import "time"

// Config содержит конфигурацию для подключения к Kafka
type Config struct {
	// Enabled включает публикацию событий; при false сервисы используют noop publisher
	Enabled bool `env:"EVENTS_ENABLED" envDefault:"false"`
	// Brokers - адреса брокеров Kafka
	// Значение зависит от среды выполнения:
	//   - локальная разработка (go run): localhost:19092
	//   - запуск в Docker: kafka:9092
	// Можно указать несколько брокеров через запятую: "broker1:9092,broker2:9092"
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	// WriteTimeout ограничивает время записи одного батча
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
}

// DefaultBrokers возвращает брокеров по умолчанию для окружения (local/docker)
func DefaultBrokers(appEnv string) []string {
	if appEnv == "docker" {
		return []string{"kafka:9092"}
	}
	return []string{"localhost:19092"}
}
