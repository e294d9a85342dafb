package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/search/duckduckgo"
)

var (
	ErrMissingToken    = errors.New("TELEGRAM_BOT_TOKEN is required")
	ErrInvalidStrategy = errors.New("invalid default strategy")
	ErrInvalidWorkers  = errors.New("CRAWL_WORKERS must be between 1 and 16")
	ErrInvalidDelay    = errors.New("delays and jitters must not be negative")
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
	ErrInvalidStride   = errors.New("SEARCH_PAGE_STRIDE must be positive")
)

const MaxWorkers = 16

type Config struct {
	Search          SearchConfig
	Fetch           FetchConfig
	Crawl           CrawlConfig
	Database        DatabaseConfig
	Telegram        TelegramConfig
	Log             LogConfig
	RateLimit       RateLimitConfig
	Metrics         MetricsConfig
	DefaultStrategy string
}

type SearchConfig struct {
	Endpoint   string
	UserAgent  string
	Timeout    time.Duration
	PageStride int
	PageDelay  time.Duration
	PageJitter time.Duration
}

type FetchConfig struct {
	Timeout       time.Duration
	MaxBodyBytes  int64
	RespectRobots bool
	RobotsTTL     time.Duration
}

type CrawlConfig struct {
	Workers    int
	HostDelay  time.Duration
	HostJitter time.Duration
	// Timeout - дедлайн на весь прогон CLI; 0 - без дедлайна.
	Timeout time.Duration
}

type DatabaseConfig struct {
	URL string
}

type TelegramConfig struct {
	Token string
}

type LogConfig struct {
	Level string
	// Service попадает в каждое сообщение полем "service".
	Service string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Search: SearchConfig{
			Endpoint:   getEnvOrDefault("SEARCH_ENDPOINT", duckduckgo.DefaultEndpoint),
			UserAgent:  getEnvOrDefault("SEARCH_USER_AGENT", duckduckgo.DefaultUserAgent),
			Timeout:    time.Duration(getEnvIntOrDefault("SEARCH_TIMEOUT_SEC", 20)) * time.Second,
			PageStride: getEnvIntOrDefault("SEARCH_PAGE_STRIDE", duckduckgo.DefaultPageStride),
			PageDelay:  time.Duration(getEnvIntOrDefault("SEARCH_PAGE_DELAY_MS", 1000)) * time.Millisecond,
			PageJitter: time.Duration(getEnvIntOrDefault("SEARCH_PAGE_JITTER_MS", 600)) * time.Millisecond,
		},
		Fetch: FetchConfig{
			Timeout:       time.Duration(getEnvIntOrDefault("FETCH_TIMEOUT_SEC", 20)) * time.Second,
			MaxBodyBytes:  int64(getEnvIntOrDefault("FETCH_MAX_BODY_BYTES", 5<<20)),
			RespectRobots: getEnvBoolOrDefault("FETCH_RESPECT_ROBOTS", false),
			RobotsTTL:     time.Duration(getEnvIntOrDefault("ROBOTS_CACHE_TTL_SEC", 3600)) * time.Second,
		},
		Crawl: CrawlConfig{
			Workers:    getEnvIntOrDefault("CRAWL_WORKERS", 1),
			HostDelay:  time.Duration(getEnvIntOrDefault("CRAWL_HOST_DELAY_MS", 700)) * time.Millisecond,
			HostJitter: time.Duration(getEnvIntOrDefault("CRAWL_HOST_JITTER_MS", 400)) * time.Millisecond,
			Timeout:    time.Duration(getEnvIntOrDefault("CRAWL_TIMEOUT_SEC", 0)) * time.Second,
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 5),
		},
		Metrics: MetricsConfig{
			Addr: getEnvOrDefault("METRICS_ADDR", ":9090"),
		},
		DefaultStrategy: getEnvOrDefault("DEFAULT_STRATEGY", "standard"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings shared by every entrypoint.
func (c *Config) Validate() error {
	if c.Crawl.Workers < 1 || c.Crawl.Workers > MaxWorkers {
		return ErrInvalidWorkers
	}
	if c.Search.PageStride <= 0 {
		return ErrInvalidStride
	}
	if c.Search.PageDelay < 0 || c.Search.PageJitter < 0 || c.Crawl.HostDelay < 0 || c.Crawl.HostJitter < 0 {
		return ErrInvalidDelay
	}
	if c.Search.Timeout <= 0 || c.Fetch.Timeout <= 0 || c.Crawl.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if !domain.StrategyType(c.DefaultStrategy).IsValid() {
		return ErrInvalidStrategy
	}
	return nil
}

// ValidateBot adds the checks only the chat bot needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
