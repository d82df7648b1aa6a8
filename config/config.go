package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Webhook configuration
	VerifyToken string

	// Bot platform configuration
	BotAPIBase     string
	BotToken       string
	OperatorChatID string

	// Chat behavior
	SessionTTL      time.Duration
	TypingDelay     time.Duration // per rune of the response
	MaxTypingDelay  time.Duration
	LexiconFile     string
	TemplatesFile   string
	DefaultLanguage string

	// Seed operator account
	AdminUsername string
	AdminPassword string

	// Server configuration
	Port string
}

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:    getEnv("MONGO_DB_NAME", "support_bot"),
		VerifyToken:     getEnv("WEBHOOK_VERIFY_TOKEN", "webhook_verify_token"),
		BotAPIBase:      getEnv("BOT_API_BASE", "https://api.telegram.org"),
		BotToken:        getEnv("BOT_TOKEN", ""),
		OperatorChatID:  getEnv("OPERATOR_CHAT_ID", ""),
		SessionTTL:      getDuration("CHAT_SESSION_TTL", 6*time.Hour),
		TypingDelay:     getDuration("TYPING_DELAY_PER_RUNE", 15*time.Millisecond),
		MaxTypingDelay:  getDuration("TYPING_DELAY_MAX", 3*time.Second),
		LexiconFile:     getEnv("LEXICON_FILE", ""),
		TemplatesFile:   getEnv("TEMPLATES_FILE", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		Port:            getEnv("PORT", "8080"),
	}

	// Validate required configuration
	if cfg.BotToken == "" {
		slog.Warn("BOT_TOKEN not set, outbound platform messages will fail")
	}
	if cfg.OperatorChatID == "" {
		slog.Warn("OPERATOR_CHAT_ID not set, problem notifications will fail")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	slog.Warn("Invalid duration, using default", "key", key, "value", value)
	return defaultValue
}
