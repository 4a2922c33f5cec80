package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Remote data service.
	DataAPIBaseURL string `mapstructure:"DATA_API_BASE_URL"`

	// Cooperative rate limit toward the remote service.
	RemoteMaxRequests int `mapstructure:"REMOTE_MAX_REQUESTS"`
	RemoteWindowSec   int `mapstructure:"REMOTE_WINDOW_SEC"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Cache TTLs, in seconds.
	SlotCacheTTLSec     int `mapstructure:"SLOT_CACHE_TTL_SEC"`
	BookingsCacheTTLSec int `mapstructure:"BOOKINGS_CACHE_TTL_SEC"`
	ServiceCacheTTLSec  int `mapstructure:"SERVICE_CACHE_TTL_SEC"`
	SessionTTLSec       int `mapstructure:"SESSION_TTL_SEC"`

	// Payment gateway. CHECKOUT_DRIVER is "remote" or "stripe".
	CheckoutDriver     string `mapstructure:"CHECKOUT_DRIVER"`
	StripeKey          string `mapstructure:"STRIPE_KEY"`
	CheckoutPath       string `mapstructure:"CHECKOUT_PATH"`
	CheckoutCurrency   string `mapstructure:"CHECKOUT_CURRENCY"`
	CheckoutSuccessURL string `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string `mapstructure:"CHECKOUT_CANCEL_URL"`

	// Resolution tuning.
	MinQuorum        int `mapstructure:"MIN_QUORUM"`         // below this many booked, surface a low-turnout notice
	QuoteDebounceMS  int `mapstructure:"QUOTE_DEBOUNCE_MS"`  // coalescing window for party-size edits
	DiscountMinGroup int `mapstructure:"DISCOUNT_MIN_GROUP"` // smallest headcount considered a "group"
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATA_API_BASE_URL", "http://localhost:9000/api")
	viper.SetDefault("REMOTE_MAX_REQUESTS", 10)
	viper.SetDefault("REMOTE_WINDOW_SEC", 20)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("SLOT_CACHE_TTL_SEC", 600)
	viper.SetDefault("BOOKINGS_CACHE_TTL_SEC", 120)
	viper.SetDefault("SERVICE_CACHE_TTL_SEC", 3600)
	viper.SetDefault("SESSION_TTL_SEC", 1800)
	viper.SetDefault("CHECKOUT_DRIVER", "remote")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("CHECKOUT_PATH", "/create_stripe_checkout")
	viper.SetDefault("CHECKOUT_CURRENCY", "eur")
	viper.SetDefault("CHECKOUT_SUCCESS_URL", "http://localhost:8080/payment/success")
	viper.SetDefault("CHECKOUT_CANCEL_URL", "http://localhost:8080/payment/cancel")
	viper.SetDefault("MIN_QUORUM", 2)
	viper.SetDefault("QUOTE_DEBOUNCE_MS", 300)
	viper.SetDefault("DISCOUNT_MIN_GROUP", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
