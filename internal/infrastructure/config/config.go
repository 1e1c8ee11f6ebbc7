// Package config loads service configuration from config.toml and
// INVOICE_ prefixed environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of all service configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Reminder  ReminderConfig
	Telemetry TelemetryConfig
}

// AppConfig identifies the service instance.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds the Postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds the connection settings for the idempotency store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds server timeouts, body limits, rate limiting, and CORS.
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// ReminderConfig tunes the reminder sweep scheduler.
type ReminderConfig struct {
	Enabled         bool
	ScanInterval    time.Duration // how often due reminders and overdue invoices are swept
	JobTimeout      time.Duration
	DispatchWorkers int
	RetryAttempts   int
	RetryDelay      time.Duration
}

// TelemetryConfig holds the OpenTelemetry exporter settings.
type TelemetryConfig struct {
	Enabled            bool
	CollectorEndpoint  string // OTLP gRPC endpoint, e.g. "localhost:4317"
	ServiceName        string
	Insecure           bool // non-TLS collector connection, development only
	CollectionInterval time.Duration
	DBLogFullSQL       bool // log full SQL statements, development only
	DBSlowQueryThresh  time.Duration
}

// Load reads configuration in priority order: INVOICE_ prefixed
// environment variables, then config.toml, then built-in defaults.
// A zero or empty value is treated as unset and receives the default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// Running without a config file is supported; env vars and
		// defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("INVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Reminder: ReminderConfig{
			Enabled:         v.GetBool("reminder.enabled"),
			ScanInterval:    v.GetDuration("reminder.scan_interval"),
			JobTimeout:      v.GetDuration("reminder.job_timeout"),
			DispatchWorkers: v.GetInt("reminder.dispatch_workers"),
			RetryAttempts:   v.GetInt("reminder.retry_attempts"),
			RetryDelay:      v.GetDuration("reminder.retry_delay"),
		},
		Telemetry: TelemetryConfig{
			Enabled:            v.GetBool("telemetry.enabled"),
			CollectorEndpoint:  v.GetString("telemetry.collector_endpoint"),
			ServiceName:        v.GetString("telemetry.service_name"),
			Insecure:           v.GetBool("telemetry.insecure"),
			CollectionInterval: v.GetDuration("telemetry.collection_interval"),
			DBLogFullSQL:       v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh:  v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	cfg.App.fillDefaults()
	cfg.Database.fillDefaults()
	cfg.Redis.fillDefaults()
	cfg.Log.fillDefaults()
	cfg.HTTP.fillDefaults()
	cfg.Reminder.fillDefaults()
	cfg.Telemetry.fillDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *AppConfig) fillDefaults() {
	defaultString(&a.Name, "invoicehub-backend")
	defaultString(&a.Env, "development")
	defaultString(&a.Port, "8080")
}

func (d *DatabaseConfig) fillDefaults() {
	defaultString(&d.Host, "localhost")
	defaultInt(&d.Port, 5432)
	defaultString(&d.User, "postgres")
	defaultString(&d.DBName, "invoicehub")
	defaultString(&d.SSLMode, "disable")
	defaultInt(&d.MaxOpenConns, 25)
	defaultInt(&d.MaxIdleConns, 5)
	defaultInt(&d.ConnMaxLifetime, 60)
	defaultInt(&d.ConnMaxIdleTime, 30)
}

func (r *RedisConfig) fillDefaults() {
	defaultString(&r.Host, "localhost")
	defaultInt(&r.Port, 6379)
}

func (l *LogConfig) fillDefaults() {
	defaultString(&l.Level, "info")
	defaultString(&l.Format, "console")
	defaultString(&l.Output, "stdout")
}

func (h *HTTPConfig) fillDefaults() {
	defaultDuration(&h.ReadTimeout, 15*time.Second)
	defaultDuration(&h.WriteTimeout, 15*time.Second)
	defaultDuration(&h.IdleTimeout, 60*time.Second)
	defaultInt(&h.MaxHeaderBytes, 1<<20)
	if h.MaxBodySize == 0 {
		h.MaxBodySize = 10 << 20
	}
	defaultInt(&h.RateLimitRequests, 100)
	defaultDuration(&h.RateLimitWindow, time.Minute)

	// CORS origins have no fallback. An empty list means no cross-origin
	// requests are allowed until explicitly configured.
	if len(h.CORSAllowMethods) == 0 {
		h.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(h.CORSAllowHeaders) == 0 {
		h.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
}

func (r *ReminderConfig) fillDefaults() {
	defaultDuration(&r.ScanInterval, 15*time.Minute)
	defaultDuration(&r.JobTimeout, 5*time.Minute)
	defaultInt(&r.DispatchWorkers, 3)
	defaultInt(&r.RetryAttempts, 3)
	defaultDuration(&r.RetryDelay, 30*time.Second)
}

func (t *TelemetryConfig) fillDefaults() {
	defaultString(&t.CollectorEndpoint, "localhost:4317")
	defaultString(&t.ServiceName, "invoicehub-backend")
	defaultDuration(&t.CollectionInterval, time.Minute)
	defaultDuration(&t.DBSlowQueryThresh, 200*time.Millisecond)
	// DBLogFullSQL stays false unless explicitly enabled.
}

func defaultString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func defaultInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

func defaultDuration(field *time.Duration, value time.Duration) {
	if *field == 0 {
		*field = value
	}
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Reminder.DispatchWorkers < 0 {
		return fmt.Errorf("reminder.dispatch_workers cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure")
		}
	}

	return nil
}

// DSN renders the Postgres connection URL with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
