package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	SchemaPath         string
	CORSAllowedOrigins []string
	CompanyName        string
	OTPTTL             time.Duration
	OTPRequestLimit    int
	SMTPHost           string
	SMTPPort           string
	SMTPUsername       string
	SMTPPassword       string
	FromEmail          string
	FromName           string
}

func Load() (Config, error) {
	cfg := Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SchemaPath:         getEnvOrDefault("DB_SCHEMA_PATH", "db/schema.sql"),
		CORSAllowedOrigins: splitCSVEnv(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		CompanyName:        getEnvOrDefault("COMPANY_NAME", "Sri Chakra Milk Products - Avapadu"),
		OTPTTL:             getDurationOrDefault("OTP_TTL", 5*time.Minute),
		OTPRequestLimit:    getIntOrDefault("OTP_REQUEST_LIMIT", 5),
		SMTPHost:           strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:           getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername:       strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:       strings.TrimSpace(os.Getenv("SMTP_PASSWORD")),
		FromEmail:          getEnvOrDefault("FROM_EMAIL", "noreply@srichakramilk.com"),
		FromName:           getEnvOrDefault("FROM_NAME", "Sri Chakra Milk"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing required environment variable: DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required environment variable: JWT_SECRET")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitCSVEnv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		item := strings.TrimSpace(p)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
