package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	// Limits are the fallback daily caps used when the adminConfig row has
	// never been written. Runtime values come from the limits.Provider.
	Limits struct {
		FreeDailyLikeCount    int
		FreeDailyDateCount    int
		PremiumDailyLikeCount int
		PremiumDailyDateCount int
	}

	// Chat holds the fixed reopen policy.
	Chat struct {
		ReopenCost int64
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "http_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.DSN = os.Getenv("MYSQL_DSN")
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "pulsedate")

		cfg.DB.DSN = fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
		)
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")

	// Daily cap defaults (free 10 likes / 3 dates, premium 99 / 15)
	cfg.Limits.FreeDailyLikeCount = getEnvInt("FREE_DAILY_LIKE_COUNT", 10)
	cfg.Limits.FreeDailyDateCount = getEnvInt("FREE_DAILY_DATE_COUNT", 3)
	cfg.Limits.PremiumDailyLikeCount = getEnvInt("PREMIUM_DAILY_LIKE_COUNT", 99)
	cfg.Limits.PremiumDailyDateCount = getEnvInt("PREMIUM_DAILY_DATE_COUNT", 15)

	cfg.Chat.ReopenCost = int64(getEnvInt("CHAT_REOPEN_COST", 50))

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
