package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisJobsDB    int    `mapstructure:"REDIS_JOBS_DB"`
	RedisLimiterDB int    `mapstructure:"REDIS_LIMITER_DB"`

	// Paystack gateway.
	PaystackBaseURL     string `mapstructure:"PAYSTACK_BASE_URL"`
	PaystackSecretKey   string `mapstructure:"PAYSTACK_SECRET_KEY"`
	PaystackPublicKey   string `mapstructure:"PAYSTACK_PUBLIC_KEY"`
	PaystackCallbackURL string `mapstructure:"PAYSTACK_CALLBACK_URL"`

	// Bank account shown to customers for manual transfers.
	TransferAccountName   string `mapstructure:"TRANSFER_ACCOUNT_NAME"`
	TransferAccountNumber string `mapstructure:"TRANSFER_ACCOUNT_NUMBER"`
	TransferBankName      string `mapstructure:"TRANSFER_BANK_NAME"`

	// SMTP for transactional email.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	// Payment attempt limiting (sliding window per user).
	PaymentAttemptLimit  int    `mapstructure:"PAYMENT_ATTEMPT_LIMIT"`
	PaymentAttemptWindow int    `mapstructure:"PAYMENT_ATTEMPT_WINDOW_MINUTES"`
	RateLimiterBackend   string `mapstructure:"RATE_LIMITER_BACKEND"` // "memory" or "redis"

	// Cloudinary object storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_JOBS_DB", 1)
	viper.SetDefault("REDIS_LIMITER_DB", 2)
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("TRANSFER_ACCOUNT_NAME", "Cavudos Nigeria Limited")
	viper.SetDefault("TRANSFER_ACCOUNT_NUMBER", "1228862083")
	viper.SetDefault("TRANSFER_BANK_NAME", "Zenith Bank Nigeria")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("PAYMENT_ATTEMPT_LIMIT", 5)
	viper.SetDefault("PAYMENT_ATTEMPT_WINDOW_MINUTES", 15)
	viper.SetDefault("RATE_LIMITER_BACKEND", "memory")

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
