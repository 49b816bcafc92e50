package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"tokenpulse/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Redis         RedisConfig
	Providers     ProviderConfig
	AI            AIConfig
	Cache         CacheConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"tokenpulse"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
	// /analyze can legitimately take tens of seconds: up to ten tokens,
	// three sequential model calls each.
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"120s"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
}

// RedisConfig is optional: an empty host selects the in-process cache.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// ProviderConfig holds upstream data provider credentials and timeouts.
// Missing keys are not an error: collectors degrade to fallback data.
type ProviderConfig struct {
	LunarCrushKey string `envconfig:"LUNARCRUSH_API_KEY"`
	TavilyKey     string `envconfig:"TAVILY_API_KEY"`

	CoinGeckoBaseURL  string `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com/api/v3"`
	LunarCrushBaseURL string `envconfig:"LUNARCRUSH_BASE_URL" default:"https://lunarcrush.com/api4/public"`
	TavilyBaseURL     string `envconfig:"TAVILY_BASE_URL" default:"https://api.tavily.com"`

	FetchTimeout     time.Duration `envconfig:"PROVIDER_FETCH_TIMEOUT" default:"5s"`
	SearchTimeout    time.Duration `envconfig:"PROVIDER_SEARCH_TIMEOUT" default:"10s"`
	SentimentTimeout time.Duration `envconfig:"PROVIDER_SENTIMENT_TIMEOUT" default:"30s"`
}

type AIConfig struct {
	OpenAIKey    string        `envconfig:"OPENAI_API_KEY"`
	Model        string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout      time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
	ReqPerMinute float64       `envconfig:"OPENAI_REQ_PER_MINUTE" default:"500"`
	RequestBurst int           `envconfig:"OPENAI_REQUEST_BURST" default:"20"`
}

// CacheConfig contains TTLs for each cached entity
type CacheConfig struct {
	SocialTTL        time.Duration `envconfig:"CACHE_SOCIAL_TTL" default:"1h"`
	SocialMockTTL    time.Duration `envconfig:"CACHE_SOCIAL_MOCK_TTL" default:"5m"`
	NewsTTL          time.Duration `envconfig:"CACHE_NEWS_TTL" default:"15m"`
	SentimentTTL     time.Duration `envconfig:"CACHE_SENTIMENT_TTL" default:"30m"`
	PostsTTL         time.Duration `envconfig:"CACHE_POSTS_TTL" default:"30m"`
	Top25TTL         time.Duration `envconfig:"CACHE_TOP25_TTL" default:"24h"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	Top25RefreshInterval time.Duration `envconfig:"WORKER_TOP25_REFRESH_INTERVAL" default:"6h"`
	Top25RefreshEnabled  bool          `envconfig:"WORKER_TOP25_REFRESH_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
