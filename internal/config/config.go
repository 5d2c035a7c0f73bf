package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	DBDSN       string
	HTTPAddr    string
	Location    *time.Location
	JWTSecret   string
	JWTTTL      time.Duration

	// Redis включает блокировку слотов между процессами
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	TelegramToken string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ReconcileCron     string
	MigrationsEnabled bool
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV"),
		DBDSN:         getenv("DB_DSN"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		JWTSecret:     getenv("JWT_SECRET"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		SMTPHost:      getenv("SMTP_HOST"),
		SMTPUser:      getenv("SMTP_USER"),
		SMTPPass:      getenv("SMTP_PASS"),
		SMTPFrom:      getenv("SMTP_FROM"),
		ReconcileCron: getenv("RECONCILE_CRON"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.ReconcileCron == "" {
		cfg.ReconcileCron = "0 7 * * *"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	var err error
	if cfg.Location, err = time.LoadLocation(orDefault(getenv("APP_TIMEZONE"), "Local")); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if cfg.JWTTTL, err = parseDuration(getenv("JWT_TTL"), 24*time.Hour); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.LockTTL, err = parseDuration(getenv("LOCK_TTL"), 10*time.Second); err != nil {
		return nil, fmt.Errorf("LOCK_TTL: %w", err)
	}
	if cfg.RedisDB, err = parseInt(getenv("REDIS_DB"), 0); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.SMTPPort, err = parseInt(getenv("SMTP_PORT"), 587); err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	if cfg.MigrationsEnabled, err = parseBool(getenv("MIGRATIONS_ENABLED"), true); err != nil {
		return nil, fmt.Errorf("MIGRATIONS_ENABLED: %w", err)
	}

	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseDuration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}

func parseInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func parseBool(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
