package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string
	RedisURL    string
	Timezone    string

	JWTSecret      string
	JWTExpiryHours int
	AdminUsername  string
	AdminPassword  string

	PublicOrigin string
	CORSOrigins  []string

	InfinitePayHandle      string
	InfinitePayCheckoutURL string
	InfinitePayCheckURL    string
	PaymentVerifyMode      string

	BookingSessionTTL  time.Duration
	RateLimitPerMinute int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string
	ReminderCron         string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DB_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		Timezone:    getEnv("TIMEZONE", "America/Sao_Paulo"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		AdminUsername:  getEnv("ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),

		PublicOrigin: strings.TrimRight(getEnv("PUBLIC_ORIGIN", "http://localhost:5173"), "/"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		InfinitePayHandle:      getEnv("INFINITEPAY_HANDLE", "studiojb"),
		InfinitePayCheckoutURL: getEnv("INFINITEPAY_CHECKOUT_URL", "https://checkout.infinitepay.io"),
		InfinitePayCheckURL:    getEnv("INFINITEPAY_CHECK_URL", "https://api.infinitepay.io/invoices/public/checkout/payment_check"),
		PaymentVerifyMode:      strings.ToLower(getEnv("PAYMENT_VERIFY_MODE", "trust")),

		BookingSessionTTL:  getEnvAsDuration("BOOKING_SESSION_TTL", 2*time.Hour),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:    getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		ReminderCron:         getEnv("REMINDER_CRON", "0 18 * * *"),
	}
}

// JWTExpiry is the lifetime of admin tokens.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// IsProduction gates secure cookies.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
