package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"

	OutputTable = "table"
	OutputYAML  = "yaml"
)

type Config struct {
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Batch     BatchConfig     `yaml:"batch"`
	Output    OutputConfig    `yaml:"output"`
}

// CacheConfig selects where difficulty attributes are stored between runs
type CacheConfig struct {
	Backend string `yaml:"backend"` // none | sqlite | redis

	SQLitePath string `yaml:"sqlite_path"`

	RedisAddress  string        `yaml:"redis_address"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	RedisPrefix   string        `yaml:"redis_prefix"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`
	Timeout       time.Duration `yaml:"timeout"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = number of CPUs
}

type OutputConfig struct {
	Format string `yaml:"format"` // table | yaml
}

func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:      CacheNone,
			SQLitePath:   "attributes.db",
			RedisAddress: "localhost:6379",
			RedisPrefix:  "pprework:attribs:",
			RedisTTL:     7 * 24 * time.Hour,
			Timeout:      5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "pp-rework",
			Insecure:    true,
		},
		Output: OutputConfig{
			Format: OutputTable,
		},
	}
}

// Load reads config from path on top of defaults. A missing file is not an error
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}

		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

func (config *Config) Validate() error {
	switch config.Cache.Backend {
	case CacheNone, CacheSQLite, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}

	switch config.Output.Format {
	case OutputTable, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", config.Output.Format)
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("negative worker count %d", config.Batch.Workers)
	}

	return nil
}

func (config *Config) Save(path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
