package observability

import "time"

// Config описывает экспорт traces и metrics в OTLP collector
// При Enabled=false Init ставит noop провайдеры и только настраивает propagator
type Config struct {
	Enabled bool
	// OTLPEndpoint - host:port OTLP gRPC приёмника, общий для traces и metrics
	OTLPEndpoint string
	// SamplingRatio в диапазоне [0, 1]; родительское решение о семплировании имеет приоритет
	SamplingRatio float64

	// Атрибуты resource
	ServiceName           string
	DeploymentEnvironment string
	ServiceVersion        string

	// MetricInterval - период PeriodicReader, 0 = defaultMetricInterval
	MetricInterval time.Duration
}
