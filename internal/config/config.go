package config

import (
	"os"
	"strconv"
	"strings"

	"mathduel_backend/internal/logger"

	"github.com/joho/godotenv"
)

// Config хранит настройки приложения из окружения
type Config struct {
	AppPort          string
	DatabaseURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	BotToken         string
	JWTSecret        string
	AllowedOrigin    string
	StatsBotEnabled  bool
	AdminTelegramIDs []int64
}

// Load читает .env (если есть) и собирает конфиг из переменных окружения
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env не найден, используем переменные окружения")
	}

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigin:   os.Getenv("ALLOWED_ORIGIN"),
		StatsBotEnabled: os.Getenv("STATS_BOT_ENABLED") == "true",
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("некорректный REDIS_DB", "value", v)
		}
		cfg.RedisDB = n
	}

	// ADMIN_TELEGRAM_IDS: список через запятую
	if raw := os.Getenv("ADMIN_TELEGRAM_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				logger.Fatal("некорректный ADMIN_TELEGRAM_IDS", "value", part)
			}
			cfg.AdminTelegramIDs = append(cfg.AdminTelegramIDs, id)
		}
	}

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL не задан")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
