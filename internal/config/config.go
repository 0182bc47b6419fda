package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/routesearch/internal/ratelimit"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type Config struct {
	Port            string         `yaml:"port"`
	LogLevel        string         `yaml:"log_level"`
	DefaultTimezone string         `yaml:"default_timezone"`
	ProviderOne     ProviderConfig `yaml:"provider_one"`
	ProviderTwo     ProviderConfig `yaml:"provider_two"`
	ProviderTimeout time.Duration  `yaml:"provider_timeout"`
	Cache           CacheConfig    `yaml:"cache"`
	Redis           RedisConfig    `yaml:"redis"`
}

type ProviderConfig struct {
	URL       string          `yaml:"url"`
	RateLimit ratelimit.Limit `yaml:"rate_limit"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func Default() Config {
	return Config{
		Port:            "8080",
		LogLevel:        "info",
		DefaultTimezone: "UTC",
		ProviderOne: ProviderConfig{
			URL:       "http://provider-one",
			RateLimit: ratelimit.DefaultLimit(),
		},
		ProviderTwo: ProviderConfig{
			URL:       "http://provider-two",
			RateLimit: ratelimit.DefaultLimit(),
		},
		ProviderTimeout: 10 * time.Second,
		Cache: CacheConfig{
			Backend:       CacheMemory,
			TTL:           5 * time.Minute,
			SweepInterval: time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
	}
}

// Load starts from Default, overlays the YAML file named by CONFIG_FILE
// when set, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultTimezone = getEnv("DEFAULT_TIMEZONE", cfg.DefaultTimezone)

	cfg.ProviderOne.URL = getEnv("PROVIDER_ONE_URL", cfg.ProviderOne.URL)
	cfg.ProviderOne.RateLimit.RequestsPerSecond = getEnvFloat("PROVIDER_ONE_RPS", cfg.ProviderOne.RateLimit.RequestsPerSecond)
	cfg.ProviderOne.RateLimit.Burst = getEnvInt("PROVIDER_ONE_BURST", cfg.ProviderOne.RateLimit.Burst)
	cfg.ProviderTwo.URL = getEnv("PROVIDER_TWO_URL", cfg.ProviderTwo.URL)
	cfg.ProviderTwo.RateLimit.RequestsPerSecond = getEnvFloat("PROVIDER_TWO_RPS", cfg.ProviderTwo.RateLimit.RequestsPerSecond)
	cfg.ProviderTwo.RateLimit.Burst = getEnvInt("PROVIDER_TWO_BURST", cfg.ProviderTwo.RateLimit.Burst)
	cfg.ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", cfg.ProviderTimeout)

	cfg.Cache.Backend = strings.ToLower(getEnv("CACHE_BACKEND", cfg.Cache.Backend))
	cfg.Cache.TTL = getEnvDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.SweepInterval = getEnvDuration("CACHE_SWEEP_INTERVAL", cfg.Cache.SweepInterval)
	if !getEnvBool("CACHE_ENABLED", true) {
		cfg.Cache.Backend = CacheNone
	}

	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
}

func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.ProviderOne.URL == "" || c.ProviderTwo.URL == "" {
		return fmt.Errorf("both provider urls are required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
