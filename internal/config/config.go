// Package config loads service settings from defaults, an optional YAML
// file and ROUTEPLAN_-prefixed environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"route-planning-service/internal/platform/logging"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "ROUTEPLAN_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      logging.Config `koanf:"log"`
	Provider ProviderConfig `koanf:"provider"`
	Cache    CacheConfig    `koanf:"cache"`
	Retry    RetryConfig    `koanf:"retry"`
}

type ServerConfig struct {
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ReadTimeout       time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	// Upper bound on one find-route cycle.
	SearchTimeout time.Duration `koanf:"search_timeout" validate:"gt=0"`
}

type ProviderConfig struct {
	Name              string        `koanf:"name" validate:"oneof=tomtom ors"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	TomTom            TomTomConfig  `koanf:"tomtom"`
	ORS               ORSConfig     `koanf:"ors"`
}

type TomTomConfig struct {
	APIKey     string `koanf:"api_key"`
	BaseURL    string `koanf:"base_url" validate:"omitempty,url"`
	CountrySet string `koanf:"country_set"`
}

type ORSConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Profile string `koanf:"profile"`
	Country string `koanf:"country"`
}

type CacheConfig struct {
	Driver      string        `koanf:"driver" validate:"oneof=none sqlite postgres redis"`
	SQLitePath  string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	PostgresURL string        `koanf:"postgres_url" validate:"required_if=Driver postgres"`
	RedisAddr   string        `koanf:"redis_addr" validate:"required_if=Driver redis"`
	RedisTTL    time.Duration `koanf:"redis_ttl" validate:"gte=0"`
	SeedPath    string        `koanf:"seed_path"`
}

type RetryConfig struct {
	Enabled         bool          `koanf:"enabled"`
	MaxRetries      uint64        `koanf:"max_retries"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"gte=0"`
	MaxElapsedTime  time.Duration `koanf:"max_elapsed_time" validate:"gte=0"`
}

// Default is the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			SearchTimeout:     30 * time.Second,
		},
		Log: logging.Config{Level: "info", Format: "json"},
		Provider: ProviderConfig{
			Name:              "tomtom",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			ORS:               ORSConfig{Profile: "driving-car"},
		},
		Cache: CacheConfig{
			Driver:     "sqlite",
			SQLitePath: "data/geocode.db",
			RedisTTL:   7 * 24 * time.Hour,
		},
		Retry: RetryConfig{
			Enabled:         true,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxElapsedTime:  10 * time.Second,
		},
	}
}

// Load reads .env (if present), then configPath (if non-empty), then the
// environment. ROUTEPLAN_PROVIDER__TOMTOM__API_KEY sets provider.tomtom.api_key.
func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: read .env: %w", err)
	}

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", configPath, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			key = strings.ReplaceAll(strings.ToLower(key), "__", ".")
			return key, value
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load config: read environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.Provider.Name {
	case "tomtom":
		if strings.TrimSpace(c.Provider.TomTom.APIKey) == "" {
			return errors.New("invalid config: provider.tomtom.api_key is required")
		}
	case "ors":
		if strings.TrimSpace(c.Provider.ORS.APIKey) == "" {
			return errors.New("invalid config: provider.ors.api_key is required")
		}
	}
	return nil
}
