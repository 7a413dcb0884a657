package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mail providers accepted in MAIL_PROVIDER.
const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
	MailProviderLog      = "log"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	MailProvider   string
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderName     string
	EmailPassword  string
	SendGridAPIKey string

	// DigestSchedule is a cron spec evaluated in IST. Empty disables the in-process trigger.
	DigestSchedule string
	RedisURL       string
	LeaseTTL       time.Duration

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	AlertWhatsAppNumber  string
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	password := os.Getenv("EMAIL_PASSWORD")
	defaultProvider := MailProviderLog
	if password != "" {
		defaultProvider = MailProviderSMTP
	}

	schedule, ok := os.LookupEnv("DIGEST_SCHEDULE")
	if !ok {
		schedule = "0 8 * * *"
	}

	return &Config{
		Port:        getenvDefault("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),

		MailProvider:   getenvDefault("MAIL_PROVIDER", defaultProvider),
		SMTPHost:       getenvDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       ParseIntEnv("SMTP_PORT", 587),
		SenderEmail:    getenvDefault("SENDER_EMAIL", "tasksdaily4you@gmail.com"),
		SenderName:     getenvDefault("SENDER_NAME", "Daily Tasks"),
		EmailPassword:  password,
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),

		DigestSchedule: schedule,
		RedisURL:       os.Getenv("REDIS_URL"),
		LeaseTTL:       time.Duration(ParseIntEnv("DIGEST_LEASE_TTL_SECONDS", 600)) * time.Second,

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		AlertWhatsAppNumber:  os.Getenv("ALERT_WHATSAPP_NUMBER"),
	}
}

// AlertsEnabled reports whether operator alerts can be delivered over WhatsApp.
func (c *Config) AlertsEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioWhatsAppNumber != "" && c.AlertWhatsAppNumber != ""
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// ParseIntEnv returns the integer value for an environment variable or the provided default.
func ParseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, value, err)
		return def
	}
	return parsed
}
