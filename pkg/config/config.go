package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	SearchURL      string        `mapstructure:"SEARCH_URL"`
	ProductURL     string        `mapstructure:"PRODUCT_URL"`
	UserAgent      string        `mapstructure:"USER_AGENT"`
	SortBy         string        `mapstructure:"SORT_BY"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxAttempts    int           `mapstructure:"MAX_ATTEMPTS"`
	BackoffUnit    time.Duration `mapstructure:"BACKOFF_UNIT"`

	PageSize        int           `mapstructure:"PAGE_SIZE"`
	MaxEmptyPages   int           `mapstructure:"MAX_EMPTY_PAGES"`
	EmptyPageDelay  time.Duration `mapstructure:"EMPTY_PAGE_DELAY"`
	ThrottleMin     time.Duration `mapstructure:"THROTTLE_MIN"`
	ThrottleJitter  time.Duration `mapstructure:"THROTTLE_JITTER"`
	CheckpointEvery int           `mapstructure:"CHECKPOINT_EVERY"`

	// RandomSeed of 0 means seed from the clock.
	RandomSeed uint64 `mapstructure:"RANDOM_SEED"`
	// ExpiryYear of 0 means next calendar year.
	ExpiryYear int `mapstructure:"EXPIRY_YEAR"`

	StatusAddr string `mapstructure:"STATUS_ADDR"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	PageCacheTTL  time.Duration `mapstructure:"PAGE_CACHE_TTL"`
}

var defaults = map[string]any{
	"LOG_LEVEL":        "info",
	"SEARCH_URL":       "https://world.openfoodfacts.org/api/v2/search",
	"PRODUCT_URL":      "https://world.openfoodfacts.org/api/v2/product",
	"USER_AGENT":       "FoodNutritionScraper/1.0 (data collection for research project)",
	"SORT_BY":          "popularity_key",
	"REQUEST_TIMEOUT":  15 * time.Second,
	"MAX_ATTEMPTS":     3,
	"BACKOFF_UNIT":     2 * time.Second,
	"PAGE_SIZE":        100, // maximum accepted by the API
	"MAX_EMPTY_PAGES":  3,
	"EMPTY_PAGE_DELAY": 5 * time.Second,
	"THROTTLE_MIN":     1 * time.Second,
	"THROTTLE_JITTER":  1 * time.Second,
	"CHECKPOINT_EVERY": 500,
	"RANDOM_SEED":      0,
	"EXPIRY_YEAR":      0,
	"STATUS_ADDR":      "",
	"POSTGRES_URL":     "",
	"SQLITE_PATH":      "",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"REDIS_DB":         0,
	"PAGE_CACHE_TTL":   24 * time.Hour,
}

// LoadFile reads configuration from an optional env file at path and the environment.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine: production is configured purely through the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.ExpiryYear == 0 {
		cfg.ExpiryYear = time.Now().Year() + 1
	}
	return &cfg, nil
}
