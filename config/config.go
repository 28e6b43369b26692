package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Auth      AuthConfig
	Razorpay  RazorpayConfig
	AWS       AWSConfig
	Gemini    GeminiConfig
	Mail      MailConfig
	Redis     RedisConfig
	SentryDSN string

	CorsOrigins        []string
	ConsultationWindow time.Duration
	OTPTTL             time.Duration
	PayoutReportEmail  string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type AWSConfig struct {
	Region     string
	BucketName string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type MailConfig struct {
	SendGridAPIKey string
	FromName       string
	FromEmail      string
}

// RedisConfig only carries the cache TTL; the connection itself is opened by
// Core from REDIS_ADDR, REDIS_USERNAME, REDIS_PASSWORD and REDIS_DB.
type RedisConfig struct {
	TTL time.Duration
}

/*
* Read every setting from the environment
* godotenv has already been applied by main
 */
func Load() *Config {
	cfg := &Config{
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		AWS: AWSConfig{
			Region:     getEnv("AWS_REGION", "ap-south-1"),
			BucketName: getEnv("AWS_BUCKET_NAME", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromName:       getEnv("MAIL_FROM_NAME", "Cywala"),
			FromEmail:      getEnv("MAIL_FROM", "no-reply@cywala.com"),
		},
		Redis: RedisConfig{
			TTL: time.Duration(getEnvInt("DOCTOR_CACHE_TTL_MINUTES", 30)) * time.Minute,
		},
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		CorsOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174,https://cywala.com,https://www.cywala.com")),
		ConsultationWindow: time.Duration(getEnvInt("CONSULTATION_WINDOW_HOURS", 72)) * time.Hour,
		OTPTTL:             time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		PayoutReportEmail:  getEnv("PAYOUT_REPORT_EMAIL", ""),
	}
	if cfg.Auth.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is empty, tokens cannot be issued")
	}
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		log.Println("WARNING: ADMIN_EMAIL or ADMIN_PASSWORD is empty, admin login is disabled")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
