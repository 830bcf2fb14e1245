package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type NotifierConfig struct {
	// Provider selects the outbound channel: webhook, email or noop.
	Provider string        `mapstructure:"provider"`
	Webhook  WebhookConfig `mapstructure:"webhook"`
	Email    EmailConfig   `mapstructure:"email"`
}

type WebhookConfig struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	WhatsApp bool          `mapstructure:"whatsapp"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// LoadConfig reads config.yml from the usual locations, then applies a
// small set of environment overrides for container deployments.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("notifier.provider", "noop")
	viper.SetDefault("notifier.webhook.timeout", 10*time.Second)
	viper.SetDefault("rate_limit.requests_per_second", 50)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		config.Database.Port, _ = strconv.Atoi(port)
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.Secret = secret
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}

	return &config, nil
}

// WorkerConfig is the reminder worker's environment-only configuration.
// The worker runs headless in containers, so it skips the yaml layer.
type WorkerConfig struct {
	Database struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD"`
		Name     string `envconfig:"DB_NAME" default:"smilesync"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}
	RedisURL string `envconfig:"REDIS_URL"`
	Notifier struct {
		Provider string        `envconfig:"NOTIFIER_PROVIDER" default:"noop"`
		URL      string        `envconfig:"NOTIFIER_WEBHOOK_URL"`
		Token    string        `envconfig:"NOTIFIER_WEBHOOK_TOKEN"`
		WhatsApp bool          `envconfig:"NOTIFIER_WHATSAPP"`
		Timeout  time.Duration `envconfig:"NOTIFIER_TIMEOUT" default:"10s"`
	}
	// DispatchHour is the local hour at which the nightly batch fires.
	DispatchHour int    `envconfig:"REMINDER_DISPATCH_HOUR" default:"18"`
	MetricsPort  int    `envconfig:"METRICS_PORT" default:"9090"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadWorkerConfig() (*WorkerConfig, error) {
	var config WorkerConfig
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process worker config: %w", err)
	}
	return &config, nil
}

// DatabaseConfigFromWorker converts worker env settings to the shared
// database config shape.
func (c *WorkerConfig) DatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}
