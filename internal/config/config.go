package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Report       ReportConfig
	Notification NotificationConfig
	Meeting      MeetingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Version     string
	FrontendURL string
}

// ReportConfig controls how durations are bucketed into calendar days.
type ReportConfig struct {
	Timezone          *time.Location
	OfficeHoursPerDay time.Duration
}

type NotificationConfig struct {
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
}

type MeetingConfig struct {
	ReminderLead time.Duration
}

func Load() (*Config, error) {
	// A missing .env is fine; the environment may be populated by the runtime.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "officehub"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("APP_VERSION", "v1.0.0"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Report configuration
	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	officeHours, err := time.ParseDuration(getEnv("OFFICE_HOURS_PER_DAY", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_HOURS_PER_DAY: %w", err)
	}
	config.Report = ReportConfig{
		Timezone:          loc,
		OfficeHoursPerDay: officeHours,
	}

	// Notification workers
	workers, err := strconv.Atoi(getEnv("NOTIFICATION_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_WORKERS: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("NOTIFICATION_BATCH_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_BATCH_SIZE: %w", err)
	}
	flushInterval, err := time.ParseDuration(getEnv("NOTIFICATION_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_FLUSH_INTERVAL: %w", err)
	}
	config.Notification = NotificationConfig{
		Workers:       workers,
		BatchSize:     batchSize,
		FlushInterval: flushInterval,
	}

	reminderLead, err := time.ParseDuration(getEnv("MEETING_REMINDER_LEAD", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEETING_REMINDER_LEAD: %w", err)
	}
	config.Meeting = MeetingConfig{ReminderLead: reminderLead}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Report.OfficeHoursPerDay <= 0 || c.Report.OfficeHoursPerDay > 24*time.Hour {
		return fmt.Errorf("OFFICE_HOURS_PER_DAY must be between 0 and 24h")
	}
	if c.Notification.Workers < 1 {
		return fmt.Errorf("NOTIFICATION_WORKERS must be at least 1")
	}
	if c.Meeting.ReminderLead <= 0 {
		return fmt.Errorf("MEETING_REMINDER_LEAD must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// AllowedOrigins returns the CORS origins derived from FRONTEND_URL (comma separated).
func (c *Config) AllowedOrigins() []string {
	return splitList(c.App.FrontendURL)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
