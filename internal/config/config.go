// Package config loads server settings from environment variables and
// validates them at startup.
//
// Every field is bound with struct tags:
//
//	env      primary variable name
//	envAlt   fallback variable name
//	default  value used when neither variable is set
//	required startup fails when the value is still empty
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Resolver ResolverConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"3m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including the wait for
	// in-flight analyses.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is enforced by middleware on every request.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"2m"`
}

// UploadConfig holds limits for uploaded files and their analysis.
type UploadConfig struct {
	// MaxFileSize is in bytes (default 50MB).
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxRows caps data rows read per file; 0 reads everything.
	MaxRows int `env:"UPLOAD_MAX_ROWS" default:"0"`

	// MaxConcurrent analyses run at once; further requests wait up to
	// MaxWaitTime for a slot.
	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" default:"4"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single analysis, column identification included.
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`

	AllowedExtensions []string `env:"UPLOAD_ALLOWED_EXTENSIONS" default:".csv,.xlsx,.xlsm"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit applies to the endpoints that accept files.
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies are CIDRs whose X-Forwarded-For headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api with an X-API-Key header.
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`
}

// DatabaseConfig configures the optional Postgres table source. With no URL
// the source endpoints are disabled.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// SourceRowLimit caps rows read from a single table.
	SourceRowLimit int `env:"DB_SOURCE_ROW_LIMIT" default:"10000"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// Column resolver modes.
const (
	ResolverHeader = "header"
	ResolverChat   = "chat"
	ResolverNone   = "none"
)

// ResolverConfig controls how the location and region columns are found
// when a request does not name them.
type ResolverConfig struct {
	// Mode is header, chat (chat first, header as fallback) or none.
	Mode string `env:"COLUMN_RESOLVER" default:"header"`

	// LocationColumn and RegionColumn, when both set, are tried first.
	LocationColumn string `env:"LOCATION_COLUMN"`
	RegionColumn   string `env:"REGION_COLUMN"`

	LLMBaseURL     string        `env:"LLM_BASE_URL" default:"https://api.openai.com/v1"`
	LLMAPIKey      string        `env:"LLM_API_KEY"`
	LLMModel       string        `env:"LLM_MODEL"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" default:"30s"`
	LLMMaxAttempts int           `env:"LLM_MAX_ATTEMPTS" default:"3"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
