package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisConvoDB  int    `mapstructure:"REDIS_CONVO_DB"`
	RedisDedupDB  int    `mapstructure:"REDIS_DEDUP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini (NLU) configuration.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// WhatsApp Cloud API configuration.
	WhatsAppToken       string `mapstructure:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID     string `mapstructure:"WHATSAPP_PHONE_ID"`
	WhatsAppVerifyToken string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`

	// Booking engine knobs.
	DefaultVendorID  string `mapstructure:"DEFAULT_VENDOR_ID"`
	VendorTimezone   string `mapstructure:"VENDOR_TIMEZONE"`
	HoldTTLMinutes   int    `mapstructure:"HOLD_TTL_MINUTES"`
	SweepIntervalSec int    `mapstructure:"SWEEP_INTERVAL_SEC"`
	SweepBatchSize   int    `mapstructure:"SWEEP_BATCH_SIZE"`
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
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONVO_DB", 0)
	viper.SetDefault("REDIS_DEDUP_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("WHATSAPP_TOKEN", "")
	viper.SetDefault("WHATSAPP_PHONE_ID", "")
	viper.SetDefault("WHATSAPP_VERIFY_TOKEN", "")
	viper.SetDefault("DEFAULT_VENDOR_ID", "")
	viper.SetDefault("VENDOR_TIMEZONE", "Asia/Karachi")
	viper.SetDefault("HOLD_TTL_MINUTES", 10)
	viper.SetDefault("SWEEP_INTERVAL_SEC", 60)
	viper.SetDefault("SWEEP_BATCH_SIZE", 500)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Startup misconfiguration is fatal; the process must not come up half-wired.
	if AppConfig.JWTSecret == "" && IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
