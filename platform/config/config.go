// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// GatewayConfig provides settings for the WhatsApp gateway client.
type GatewayConfig interface {
	GetGatewayURL() string
	GetGatewayAPIKey() string
	GetGatewayDeviceID() string
	GetGatewaySendRate() float64
	GetGatewaySendBurst() int
}

// DatabaseConfig provides connection settings for the optional Postgres
// directory source.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// DirectoryConfig provides settings for file-based directory loading.
type DirectoryConfig interface {
	GetSuppliersFile() string
	GetLocationsFile() string
	GetEmployeesFile() string
}

// SchedulerConfig provides settings for the asynq reminder scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetPendingReminderDelay() time.Duration
	IsSchedulerEnabled() bool
}

// SessionConfig provides settings for the conversation session store.
type SessionConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
}

// BotConfig provides the trusted identities for the message router.
type BotConfig interface {
	GetAdminContact() string
	GetApproverContact() string
}

// EmailConfig provides settings for SMTP delivery to email-only suppliers.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetWebhookAPIKey() string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	GatewayURL       string
	GatewayAPIKey    string
	GatewayDeviceID  string
	GatewaySendRate  float64
	GatewaySendBurst int

	WebhookAPIKey string

	AdminContact    string
	ApproverContact string

	SuppliersFile string
	LocationsFile string
	EmployeesFile string

	DatabaseURL string

	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	PendingReminderDelay time.Duration

	SessionTTL time.Duration

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment (and a .env file if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		GatewayURL:       getEnv("GATEWAY_URL", ""),
		GatewayAPIKey:    getEnv("GATEWAY_API_KEY", ""),
		GatewayDeviceID:  getEnv("GATEWAY_DEVICE_ID", ""),
		GatewaySendRate:  mustFloat(getEnv("GATEWAY_SEND_RATE", "1")),
		GatewaySendBurst: mustInt(getEnv("GATEWAY_SEND_BURST", "3")),

		WebhookAPIKey: getEnv("WEBHOOK_API_KEY", ""),

		AdminContact:    getEnv("ADMIN_CONTACT", ""),
		ApproverContact: getEnv("APPROVER_CONTACT", ""),

		SuppliersFile: getEnv("SUPPLIERS_FILE", "db/suppliers.yaml"),
		LocationsFile: getEnv("LOCATIONS_FILE", "db/locations.yaml"),
		EmployeesFile: getEnv("EMPLOYEES_FILE", "db/employees.yaml"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "orderbot"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		PendingReminderDelay: mustDuration(getEnv("PENDING_REMINDER_DELAY", "2h")),

		SessionTTL: mustDuration(getEnv("SESSION_TTL", "12h")),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "OrderBot"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		RateLimitRPS:   mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst: mustInt(getEnv("RATE_LIMIT_BURST", "20")),
	}

	if cfg.AdminContact == "" {
		return nil, fmt.Errorf("ADMIN_CONTACT is required")
	}

	return cfg, nil
}

// Getter methods satisfying the module-specific interfaces.

func (c *Config) GetEnv() string           { return c.Env }
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetWebhookAPIKey() string { return c.WebhookAPIKey }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

func (c *Config) GetGatewayURL() string       { return c.GatewayURL }
func (c *Config) GetGatewayAPIKey() string    { return c.GatewayAPIKey }
func (c *Config) GetGatewayDeviceID() string  { return c.GatewayDeviceID }
func (c *Config) GetGatewaySendRate() float64 { return c.GatewaySendRate }
func (c *Config) GetGatewaySendBurst() int    { return c.GatewaySendBurst }

func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

func (c *Config) GetSuppliersFile() string { return c.SuppliersFile }
func (c *Config) GetLocationsFile() string { return c.LocationsFile }
func (c *Config) GetEmployeesFile() string { return c.EmployeesFile }

func (c *Config) GetRedisURL() string                    { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool              { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string              { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int               { return c.AsynqConcurrency }
func (c *Config) GetPendingReminderDelay() time.Duration { return c.PendingReminderDelay }
func (c *Config) IsSchedulerEnabled() bool               { return c.RedisURL != "" }

func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

func (c *Config) GetAdminContact() string    { return c.AdminContact }
func (c *Config) GetApproverContact() string { return c.ApproverContact }

func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
