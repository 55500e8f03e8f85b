package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "TA_"

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all service settings.
type Config struct {
	// ServiceKey is the registry access credential. It may be empty; lookups
	// then degrade to the demo payload.
	ServiceKey string `koanf:"service_key"`

	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Upstream services.
	GeocoderURL       string        `koanf:"geocoder_url"`
	GeocoderUserAgent string        `koanf:"geocoder_user_agent"`
	RegistryURL       string        `koanf:"registry_url"`
	UpstreamTimeout   time.Duration `koanf:"upstream_timeout"` // 0 disables the client timeout

	// Lookup event publishing; disabled when KafkaBrokers is empty.
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		LogFormat:         "json",
		ShutdownTimeout:   10 * time.Second,
		GeocoderURL:       "https://nominatim.openstreetmap.org/search",
		GeocoderUserAgent: "onyak-ai-rail/1.0",
		RegistryURL:       "http://apis.data.go.kr/B553077/api/open/sdsc2/storeListInRadius",
		KafkaTopic:        "trade-area-lookups",
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. Default()
//  2. a YAML file when TA_CONFIG is set
//  3. TA_-prefixed environment variables (TA_HTTP_ADDR -> http_addr)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := sharedcfg.EnvOrDefault(EnvPrefix+"CONFIG", ""); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// Env values arrive as one comma-separated string, YAML values as a list.
	cfg.KafkaBrokers = parseBrokers(cfg.KafkaBrokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasServiceKey reports whether the registry credential is present.
func (c *Config) HasServiceKey() bool {
	return strings.TrimSpace(c.ServiceKey) != ""
}

// KafkaEnabled reports whether lookup events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("%w: TA_HTTP_ADDR is required", ErrInvalidConfig)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: TA_SHUTDOWN_TIMEOUT must be positive", ErrInvalidConfig)
	case c.UpstreamTimeout < 0:
		return fmt.Errorf("%w: TA_UPSTREAM_TIMEOUT must not be negative", ErrInvalidConfig)
	case c.GeocoderURL == "":
		return fmt.Errorf("%w: TA_GEOCODER_URL is required", ErrInvalidConfig)
	case c.GeocoderUserAgent == "":
		return fmt.Errorf("%w: TA_GEOCODER_USER_AGENT is required", ErrInvalidConfig)
	case c.RegistryURL == "":
		return fmt.Errorf("%w: TA_REGISTRY_URL is required", ErrInvalidConfig)
	case c.KafkaEnabled() && c.KafkaTopic == "":
		return fmt.Errorf("%w: TA_KAFKA_TOPIC is required when TA_KAFKA_BROKERS is set", ErrInvalidConfig)
	}
	return nil
}

func parseBrokers(in []string) []string {
	joined := strings.Join(in, ",")
	if strings.Trim(joined, ", ") == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(joined)
}
