package kafka

import "strings"

// ApplyDefaults чистит список брокеров и подставляет брокеров по умолчанию для appEnv,
// если KAFKA_BROKERS не задан
// Сами поля Config разбирает caarlos0/env как вложенную структуру конфига сервиса
func ApplyDefaults(cfg *Config, appEnv string) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) == 0 {
		brokers = DefaultBrokers(appEnv)
	}
	cfg.Brokers = brokers
}
