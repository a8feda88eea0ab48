package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port int

	SQLitePath string

	JWTSecret     string
	JWTTTLMinutes int

	SMTPHost        string
	SMTPPort        int
	EmailUser       string
	EmailPass       string
	NotifyRecipient string

	OTLPEndpoint string
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 3000),

		SQLitePath: getEnv("SQLITE_PATH", "./db.sqlite"),

		JWTSecret:     getEnv("SECRET_KEY", ""),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		EmailUser:       getEnv("EMAIL_USER", ""),
		EmailPass:       getEnv("EMAIL_PASS", ""),
		NotifyRecipient: getEnv("NOTIFY_RECIPIENT", "admin@admin.com"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
