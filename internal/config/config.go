package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Duration is a time.Duration that reads as "50ms", "5s" or "1h" from TOML,
// YAML and environment variables.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

type ServerConfig struct {
	Port string `toml:"port" yaml:"port" env:"PORT"`
	Mode string `toml:"mode" yaml:"mode" env:"GIN_MODE"`
}

type PokeAPIConfig struct {
	BaseURL            string   `toml:"base_url" yaml:"base_url" env:"POKEAPI_BASE_URL"`
	Timeout            Duration `toml:"timeout" yaml:"timeout" env:"POKEAPI_TIMEOUT"`
	MaxBodyBytes       int64    `toml:"max_body_bytes" yaml:"max_body_bytes" env:"POKEAPI_MAX_BODY_BYTES"`
	CacheTypeRelations bool     `toml:"cache_type_relations" yaml:"cache_type_relations" env:"POKEAPI_CACHE_TYPE_RELATIONS"`
}

type SyncConfig struct {
	Enabled      bool     `toml:"enabled" yaml:"enabled" env:"POKEAPI_SYNC_ENABLED"`
	InitialDelay Duration `toml:"initial_delay" yaml:"initial_delay" env:"POKEAPI_SYNC_INITIAL_DELAY"`
	FixedDelay   Duration `toml:"fixed_delay" yaml:"fixed_delay" env:"POKEAPI_SYNC_FIXED_DELAY"`
	StartID      int      `toml:"start_id" yaml:"start_id" env:"POKEAPI_SYNC_START_ID"`
	RangeSize    int      `toml:"range_size" yaml:"range_size" env:"POKEAPI_SYNC_RANGE_SIZE"`
	StepDelay    Duration `toml:"step_delay" yaml:"step_delay" env:"POKEAPI_SYNC_STEP_DELAY"`
	Workers      int      `toml:"workers" yaml:"workers" env:"POKEAPI_SYNC_WORKERS"`
	QueueSize    int      `toml:"queue_size" yaml:"queue_size" env:"POKEAPI_SYNC_QUEUE_SIZE"`
}

type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled" env:"OTEL_ENABLED"`
	Endpoint    string `toml:"endpoint" yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `toml:"service_name" yaml:"service_name" env:"OTEL_SERVICE_NAME"`
}

type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	PokeAPI   PokeAPIConfig   `toml:"pokeapi" yaml:"pokeapi"`
	Sync      SyncConfig      `toml:"sync" yaml:"sync"`
	Telemetry TelemetryConfig `toml:"telemetry" yaml:"telemetry"`
}

// Default returns the configuration used when no file or env var says
// otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:            DefaultBaseURL,
			Timeout:            Duration(10 * time.Second),
			MaxBodyBytes:       10 * 1024 * 1024,
			CacheTypeRelations: true,
		},
		Sync: SyncConfig{
			Enabled:      true,
			InitialDelay: Duration(5 * time.Second),
			FixedDelay:   Duration(time.Hour),
			StartID:      1,
			RangeSize:    100,
			StepDelay:    Duration(50 * time.Millisecond),
			Workers:      1,
			QueueSize:    1,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "pokedex",
		},
	}
}

// Load builds a Config from defaults, then the file at path (TOML, or YAML
// for .yaml/.yml), then environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML: %w", err)
			}
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse TOML: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	var problems []error

	if c.PokeAPI.BaseURL == "" {
		problems = append(problems, errors.New("pokeapi.base_url is required"))
	} else if u, err := url.Parse(c.PokeAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Errorf("pokeapi.base_url %q is not an absolute URL", c.PokeAPI.BaseURL))
	}
	if c.PokeAPI.Timeout < 0 {
		problems = append(problems, errors.New("pokeapi.timeout must not be negative"))
	}
	if c.Sync.StartID < 1 {
		problems = append(problems, errors.New("sync.start_id must be >= 1"))
	}
	if c.Sync.RangeSize < 1 {
		problems = append(problems, errors.New("sync.range_size must be >= 1"))
	}
	if c.Sync.StepDelay < 0 || c.Sync.InitialDelay < 0 || c.Sync.FixedDelay < 0 {
		problems = append(problems, errors.New("sync delays must not be negative"))
	}
	if c.Sync.Workers < 1 {
		problems = append(problems, errors.New("sync.workers must be >= 1"))
	}
	if c.Sync.QueueSize < 1 {
		problems = append(problems, errors.New("sync.queue_size must be >= 1"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}
