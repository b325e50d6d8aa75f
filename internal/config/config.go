package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы хранилища инцидентов
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" env-default:"8080"`
	HTTPBasePath string `env:"HTTP_BASE_PATH" env-default:""`
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string `env:"LOG_FORMAT" env-default:"json"`

	// Storage Config
	StorageDriver  string `env:"STORAGE_DRIVER" env-default:"file"`
	DataDir        string `env:"DATA_DIR" env-default:"data"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" env-default:"migrations"`
	SQLitePath     string `env:"SQLITE_PATH" env-default:"data/dispatch.db"`

	// Redis Config, пустой адрес отключает кеш и очередь вебхуков
	RedisAddr string        `env:"REDIS_ADDR"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" env-default:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" env-default:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" env-default:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" env-default:"1s"`

	// Scheduler Config
	WorkdayStartHour int    `env:"WORKDAY_START_HOUR" env-default:"8"`
	WorkdayEndHour   int    `env:"WORKDAY_END_HOUR" env-default:"18"`
	AutoAssignCron   string `env:"AUTO_ASSIGN_CRON"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageFile, StorageSQLite:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required for STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.WorkdayStartHour < 0 || c.WorkdayEndHour > 24 || c.WorkdayStartHour >= c.WorkdayEndHour {
		return fmt.Errorf("invalid workday %d-%d: expected 0 <= start < end <= 24", c.WorkdayStartHour, c.WorkdayEndHour)
	}
	if c.WebhookMaxRetries < 1 {
		c.WebhookMaxRetries = 1
	}

	// Базовый путь всегда начинается с "/" и не заканчивается им
	c.HTTPBasePath = strings.TrimRight(strings.TrimSpace(c.HTTPBasePath), "/")
	if c.HTTPBasePath != "" && !strings.HasPrefix(c.HTTPBasePath, "/") {
		c.HTTPBasePath = "/" + c.HTTPBasePath
	}
	return nil
}
