package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log         Logger      `mapstructure:"logger"`
	DB          Database    `mapstructure:"database"`
	API         API         `mapstructure:"api"`
	Cache       Cache       `mapstructure:"cache"`
	Marketplace Marketplace `mapstructure:"marketplace"`
	Gemini      Gemini      `mapstructure:"gemini"`
	Pipeline    Pipeline    `mapstructure:"pipeline"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port               int           `mapstructure:"port"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	RateLimitExpiresIn time.Duration `mapstructure:"rate_limit_expires_in"`
}

type Cache struct {
	Driver            string        `mapstructure:"driver"`
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	VinHistoryTTL     time.Duration `mapstructure:"vin_history_ttl"`
	Redis             Redis         `mapstructure:"redis"`
}

type Redis struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type Marketplace struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RetryCount          int           `mapstructure:"retry_count"`
	RetryWait           time.Duration `mapstructure:"retry_wait"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
	MaxImages           int           `mapstructure:"max_images"`
	ImageFetchTimeout   time.Duration `mapstructure:"image_fetch_timeout"`
}

type Pipeline struct {
	VinHistoryLimit      int           `mapstructure:"vin_history_limit"`
	ActiveListingLimit   int           `mapstructure:"active_listing_limit"`
	ComparableYearRange  int           `mapstructure:"comparable_year_range"`
	ComparablePoolLimit  int           `mapstructure:"comparable_pool_limit"`
	ComparableLimit      int           `mapstructure:"comparable_limit"`
	MileageTolerance     int           `mapstructure:"mileage_tolerance"`
	BranchTimeout        time.Duration `mapstructure:"branch_timeout"`
	VisionTimeout        time.Duration `mapstructure:"vision_timeout"`
	MinSoldForConfidence int           `mapstructure:"min_sold_for_confidence"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.log_level", "Warn")

	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.rate_limit_per_second", 10)
	viper.SetDefault("api.rate_limit_burst", 30)
	viper.SetDefault("api.rate_limit_expires_in", 3*time.Minute)

	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("cache.default_expiration", 10*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 15*time.Minute)
	viper.SetDefault("cache.vin_history_ttl", 30*time.Minute)
	viper.SetDefault("cache.redis.key_prefix", "lotintel:")
	viper.SetDefault("cache.redis.timeout", 500*time.Millisecond)

	viper.SetDefault("marketplace.timeout", 15*time.Second)
	viper.SetDefault("marketplace.max_request_per_minute", 120)
	viper.SetDefault("marketplace.retry_count", 1)
	viper.SetDefault("marketplace.retry_wait", 500*time.Millisecond)

	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 15)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
	viper.SetDefault("gemini.max_images", 10)
	viper.SetDefault("gemini.image_fetch_timeout", 10*time.Second)

	viper.SetDefault("pipeline.vin_history_limit", 50)
	viper.SetDefault("pipeline.active_listing_limit", 20)
	viper.SetDefault("pipeline.comparable_year_range", 2)
	viper.SetDefault("pipeline.comparable_pool_limit", 500)
	viper.SetDefault("pipeline.comparable_limit", 20)
	viper.SetDefault("pipeline.mileage_tolerance", 20000)
	viper.SetDefault("pipeline.branch_timeout", 20*time.Second)
	viper.SetDefault("pipeline.vision_timeout", 90*time.Second)
	viper.SetDefault("pipeline.min_sold_for_confidence", 5)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
