package otel

// Config holds OTEL exporter configuration.
type Config struct {
	Endpoint string `envconfig:"STRESSCHART_OTEL_ENDPOINT"`
	Enabled  bool   `envconfig:"STRESSCHART_OTEL_ENABLED" default:"false"`
	Insecure bool   `envconfig:"STRESSCHART_OTEL_INSECURE" default:"false"`
}
