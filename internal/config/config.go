package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Release     string
	Location    *time.Location

	TrackingPrefix string
	PasswordPrefix string

	Mail     MailConfig
	Kafka    KafkaConfig
	BotToken string
	AdminIDs []int64

	// Temporary Enrolled status is valid for this long before staff get an alert.
	TempEnrollmentWindow time.Duration
	TempWatchInterval    time.Duration
}

type MailConfig struct {
	Transport string // smtp|kafka|log
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	FromName  string
}

type KafkaConfig struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

// Load reads the environment. A .env file is picked up outside prod.
func Load() (*Config, error) {
	if strings.ToLower(os.Getenv("ENV")) != "prod" {
		_ = godotenv.Load()
	}

	tz := getenv("TZ", "Asia/Manila")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}
	smtpPort, err := getint("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	tempDays, err := getint("TEMP_ENROLLMENT_DAYS", 30)
	if err != nil {
		return nil, err
	}
	watch, err := time.ParseDuration(getenv("TEMP_WATCH_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("TEMP_WATCH_INTERVAL: %w", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("required env DATABASE_URL is empty")
	}

	cfg := &Config{
		DatabaseURL: dsn,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         getenv("ENV", "dev"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Release:     os.Getenv("RELEASE"),
		Location:    loc,

		TrackingPrefix: getenv("TRACKING_PREFIX", "SV8BSHS"),
		PasswordPrefix: getenv("PASSWORD_PREFIX", "SV8B"),

		Mail: MailConfig{
			Transport: strings.ToLower(getenv("MAIL_TRANSPORT", "log")),
			Host:      getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:      smtpPort,
			User:      os.Getenv("SMTP_USER"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			From:      getenv("MAIL_FROM", "enrollment@sv8bshs.site"),
			FromName:  getenv("MAIL_FROM_NAME", "SVSHS Enrollment"),
		},
		Kafka: KafkaConfig{
			Broker:   os.Getenv("KAFKA_BROKER"),
			Topic:    getenv("KAFKA_TOPIC", "enrollment.mail"),
			Username: os.Getenv("KAFKA_USERNAME"),
			Password: os.Getenv("KAFKA_PASSWORD"),
		},
		BotToken: os.Getenv("BOT_TOKEN"),
		AdminIDs: adminIDs,

		TempEnrollmentWindow: time.Duration(tempDays) * 24 * time.Hour,
		TempWatchInterval:    watch,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mail.Transport {
	case "smtp":
		if c.Mail.User == "" || c.Mail.Password == "" {
			return fmt.Errorf("MAIL_TRANSPORT=smtp needs SMTP_USER and SMTP_PASSWORD")
		}
	case "kafka":
		if c.Kafka.Broker == "" {
			return fmt.Errorf("MAIL_TRANSPORT=kafka needs KAFKA_BROKER")
		}
	case "log":
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}
	if c.TempEnrollmentWindow <= 0 {
		return fmt.Errorf("TEMP_ENROLLMENT_DAYS must be positive")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
