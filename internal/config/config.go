package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"reminderd/pkg/validator"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Engine    EngineConfig    `mapstructure:"engine"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" validate:"required"`
	Key          string        `mapstructure:"key"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type ChatConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	BotToken string        `mapstructure:"bot_token" validate:"required"`
	GuildID  string        `mapstructure:"guild_id" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type EngineConfig struct {
	DefaultChannel string `mapstructure:"default_channel" validate:"required"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoadConfig reads config.yaml plus environment overrides for the API binary.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets usually arrive via environment, which viper only merges for
	// keys already present in the file.
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("CHAT_BOT_TOKEN"); v != "" {
		config.Chat.BotToken = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		config.Redis.URL = v
	}

	if err := validator.New().Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.request_timeout", 30*time.Second)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "reminderd")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.key", "reminderd:triggers")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)

	viper.SetDefault("chat.timeout", 10*time.Second)

	viper.SetDefault("engine.default_channel", "general")

	viper.SetDefault("rate_limit.requests_per_second", 20.0)
	viper.SetDefault("rate_limit.burst", 40)
}

// WorkerConfig is the env-only configuration for the worker binary.
type WorkerConfig struct {
	DatabaseHost     string `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	DatabaseName     string `envconfig:"DB_NAME" default:"reminderd"`
	DatabaseSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL   string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	TriggerKey string `envconfig:"TRIGGER_KEY" default:"reminderd:triggers"`

	FireURL       string        `envconfig:"FIRE_URL" default:"http://localhost:8080/api/v1/triggers/fire"`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	PollBatchSize int           `envconfig:"POLL_BATCH_SIZE" default:"100"`
	RetryAttempts int           `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"1s"`

	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	OutboxMaxRetries   int           `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
	OutboxRetryBackoff time.Duration `envconfig:"OUTBOX_RETRY_BACKOFF" default:"30s"`

	ChatBaseURL  string        `envconfig:"CHAT_BASE_URL"`
	ChatBotToken string        `envconfig:"CHAT_BOT_TOKEN" required:"true"`
	ChatGuildID  string        `envconfig:"CHAT_GUILD_ID" required:"true"`
	ChatTimeout  time.Duration `envconfig:"CHAT_TIMEOUT" default:"10s"`

	DigestCron      string        `envconfig:"DIGEST_CRON" default:"0 8 * * *"`
	RetentionDays   int           `envconfig:"RETENTION_DAYS" default:"30"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1h"`

	HealthAddr string `envconfig:"HEALTH_ADDR" default:":8081"`
}

// LoadWorkerConfig reads the worker environment, loading a local .env first
// when present.
func LoadWorkerConfig() (*WorkerConfig, error) {
	_ = godotenv.Load()

	var config WorkerConfig
	if err := envconfig.Process("reminderd", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &config, nil
}

// DatabaseConfig rebuilds the shared database settings for the worker.
func (c *WorkerConfig) ToDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     c.DatabaseHost,
		Port:     c.DatabasePort,
		User:     c.DatabaseUser,
		Password: c.DatabasePassword,
		Name:     c.DatabaseName,
		SSLMode:  c.DatabaseSSLMode,
	}
}
