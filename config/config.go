package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Engine    EngineConfig    `yaml:"engine"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	APIKey          string        `yaml:"api_key"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type EngineConfig struct {
	// ShortfallPolicy is "proportional" or "due_date_first".
	ShortfallPolicy string `yaml:"shortfall_policy"`
}

type OracleConfig struct {
	// ModelPath points at a linear model exported by the training pipeline.
	ModelPath string `yaml:"model_path"`
	// URL of a model server; mutually exclusive with ModelPath.
	URL                 string        `yaml:"url"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	OpenTimeout         time.Duration `yaml:"open_timeout"`
}

type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Engine: EngineConfig{
			ShortfallPolicy: "proportional",
		},
		Oracle: OracleConfig{
			Timeout:             2 * time.Second,
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the process environment,
// in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SHORTFALL_POLICY"); v != "" {
		c.Engine.ShortfallPolicy = v
	}
	if v := os.Getenv("ORACLE_MODEL_PATH"); v != "" {
		c.Oracle.ModelPath = v
	}
	if v := os.Getenv("ORACLE_URL"); v != "" {
		c.Oracle.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Enabled = true
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		rpm, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPM: %w", err)
		}
		c.RateLimit.RequestsPerMinute = rpm
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Engine.ShortfallPolicy {
	case "proportional", "due_date_first":
	default:
		return fmt.Errorf("engine.shortfall_policy must be proportional or due_date_first, got %q", c.Engine.ShortfallPolicy)
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive, got %d", c.RateLimit.RequestsPerMinute)
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be positive, got %d", c.RateLimit.Burst)
	}
	if c.Oracle.ModelPath != "" && c.Oracle.URL != "" {
		return errors.New("oracle.model_path and oracle.url are mutually exclusive")
	}
	return nil
}
