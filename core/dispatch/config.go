package dispatch

import (
	"strings"
	"time"
)

// Config selects and configures the sink differences are forwarded to.
type Config struct {
	// Sink is the destination kind: webhook or mongo.
	Sink string `mapstructure:"sink" default:"webhook"`
	// Webhook configures the HTTP sink.
	Webhook WebhookConfig `mapstructure:"webhook"`
	// Mongo configures the document store sink.
	Mongo MongoConfig `mapstructure:"mongo"`
}

// WebhookConfig configures an HTTP endpoint receiving one request per difference.
type WebhookConfig struct {
	URL    string `mapstructure:"url" default:""`
	Method string `mapstructure:"method" default:"POST"`
	// AuthType is one of none, bearer, basic or api_key.
	AuthType     string `mapstructure:"auth_type" default:"none"`
	Token        string `mapstructure:"token" default:""`
	Username     string `mapstructure:"username" default:""`
	Password     string `mapstructure:"password" default:""`
	APIKeyHeader string `mapstructure:"api_key_header" default:"X-API-Key"`
	APIKey       string `mapstructure:"api_key" default:""`
	// Headers holds extra request headers as "Name=value" pairs separated by commas.
	Headers string `mapstructure:"headers" default:""`
	// PayloadTemplate is a JSON document with {{namespace.key}} placeholders.
	// Empty sends the default payload.
	PayloadTemplate string `mapstructure:"payload_template" default:""`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" default:"30"`
}

// HeaderMap parses Headers.
func (c WebhookConfig) HeaderMap() map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(c.Headers, ",") {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		out[name] = strings.TrimSpace(value)
	}
	return out
}

// Timeout returns the per-request timeout.
func (c WebhookConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MongoConfig configures the collection differences are inserted into.
type MongoConfig struct {
	URI        string `mapstructure:"uri" default:"mongodb://localhost:27017"`
	Database   string `mapstructure:"database" default:"tablediff"`
	Collection string `mapstructure:"collection" default:"differences"`
}
