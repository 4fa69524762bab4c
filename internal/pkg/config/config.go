// internal/pkg/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig marks a required setting that was not provided.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	Archive  ArchiveConfig
	Ledger   LedgerConfig
	Security SecurityConfig
	Server   ServerConfig
	Worker   WorkerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name            string `required:"true"`
	Environment     string // development, staging, production
	Version         string
	LogLevel        string
	LogFormat       string // json, text
	Debug           bool
	SecretsProvider string // env, aws
	SecretName      string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string `required:"true"`
	Port               string `required:"true"`
	User               string `required:"true"`
	Password           string
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	LockTimeout        time.Duration
	StatementCacheMode string
	EnableQueryLogging bool
	MigrationPath      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	Concurrency         int
	Queues              map[string]int // queue name -> priority
	StrictPriority      bool
	ShutdownTimeout     time.Duration
	HealthCheckInterval time.Duration
}

// ArchiveConfig selects where journal archives are written
type ArchiveConfig struct {
	Backend         string // s3, local
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	LocalDir        string
}

// LedgerConfig tunes the movement processor and the location cache
type LedgerConfig struct {
	MaxRetries             int
	RetryBackoff           time.Duration
	LocationsCacheTTL      time.Duration
	ValidateIntakeCapacity bool
	NodeID                 int64
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
	UserIDHeader      string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host              string
	Port              string `required:"true"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	MaxHeaderBytes    int
	GracefulTimeout   time.Duration
	EnableHealthCheck bool
	TLSEnabled        bool
	TLSCertFile       string
	TLSKeyFile        string
}

// WorkerConfig holds background job configuration
type WorkerConfig struct {
	AuditCron   string
	AuditLimit  int
	ArchiveCron string
	Timezone    string
}

// Load loads configuration from environment variables, an optional
// CONFIG_FILE and built-in defaults, in that order of precedence.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logger.Info("config file loaded", slog.String("path", v.ConfigFileUsed()))
	}

	src := source{v: v}
	cfg := build(src, env)

	if cfg.App.SecretsProvider == "aws" {
		if err := applySecrets(context.Background(), cfg, logger); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func build(s source, env string) *Config {
	redisHost := s.getEnv("REDIS_HOST", "localhost")
	redisPort := s.getEnv("REDIS_PORT", "6379")

	return &Config{
		App: AppConfig{
			Name:            s.getEnv("APP_NAME", "wms-ledger"),
			Environment:     env,
			Version:         s.getEnv("APP_VERSION", "dev"),
			LogLevel:        s.getEnv("LOG_LEVEL", "debug"),
			LogFormat:       s.getEnv("LOG_FORMAT", "json"),
			Debug:           s.getBoolEnv("APP_DEBUG", env == "development"),
			SecretsProvider: s.getEnv("SECRETS_PROVIDER", "env"),
			SecretName:      s.getEnv("SECRETS_NAME", "wms-ledger/"+env),
		},
		Database: DatabaseConfig{
			Host:               s.getEnv("DB_HOST", "localhost"),
			Port:               s.getEnv("DB_PORT", "5432"),
			User:               s.getEnv("DB_USER", "ledger"),
			Password:           s.getEnv("DB_PASSWORD", "ledger_dev"),
			Name:               s.getEnv("DB_NAME", "wms_ledger"),
			SSLMode:            s.getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(s.getIntEnv("DB_MAX_CONNECTIONS", 25)),
			MinConnections:     int32(s.getIntEnv("DB_MIN_CONNECTIONS", 5)),
			MaxConnLifetime:    s.getDurationEnv("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    s.getDurationEnv("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  s.getDurationEnv("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     s.getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
			LockTimeout:        s.getDurationEnv("DB_LOCK_TIMEOUT", 5*time.Second),
			StatementCacheMode: s.getEnv("DB_STATEMENT_CACHE_MODE", "describe"),
			EnableQueryLogging: s.getBoolEnv("DB_QUERY_LOGGING", env == "development"),
			MigrationPath:      s.getEnv("DB_MIGRATION_PATH", ""),
		},
		Redis: RedisConfig{
			Host:            redisHost,
			Port:            redisPort,
			Password:        s.getEnv("REDIS_PASSWORD", ""),
			DB:              s.getIntEnv("REDIS_DB", 0),
			MaxRetries:      s.getIntEnv("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: s.getDurationEnv("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: s.getDurationEnv("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			DialTimeout:     s.getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     s.getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    s.getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:        s.getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns:    s.getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:     s.getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Asynq: AsynqConfig{
			RedisAddr:           fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:       s.getEnv("REDIS_PASSWORD", ""),
			RedisDB:             s.getIntEnv("ASYNQ_REDIS_DB", 1),
			Concurrency:         s.getIntEnv("ASYNQ_CONCURRENCY", 10),
			Queues:              parseQueues(s.getEnv("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:      s.getBoolEnv("ASYNQ_STRICT_PRIORITY", false),
			ShutdownTimeout:     s.getDurationEnv("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthCheckInterval: s.getDurationEnv("ASYNQ_HEALTH_CHECK_INTERVAL", 30*time.Second),
		},
		Archive: ArchiveConfig{
			Backend:         s.getEnv("ARCHIVE_BACKEND", "s3"),
			Region:          s.getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     s.getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: s.getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          s.getEnv("ARCHIVE_BUCKET", "wms-ledger-archive"),
			Endpoint:        s.getEnv("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    s.getBoolEnv("AWS_S3_PATH_STYLE", env == "development"),
			LocalDir:        s.getEnv("ARCHIVE_LOCAL_DIR", "./archive"),
		},
		Ledger: LedgerConfig{
			MaxRetries:             s.getIntEnv("LEDGER_MAX_RETRIES", 3),
			RetryBackoff:           s.getDurationEnv("LEDGER_RETRY_BACKOFF", 20*time.Millisecond),
			LocationsCacheTTL:      s.getDurationEnv("LEDGER_LOCATIONS_CACHE_TTL", 30*time.Second),
			ValidateIntakeCapacity: s.getBoolEnv("LEDGER_VALIDATE_INTAKE_CAPACITY", false),
			NodeID:                 int64(s.getIntEnv("LEDGER_NODE_ID", 1)),
		},
		Security: SecurityConfig{
			RateLimitRequests: s.getIntEnv("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: s.getDurationEnv("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    s.getSliceEnv("ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies:    s.getSliceEnv("TRUSTED_PROXIES", []string{}),
			SecureHeaders:     s.getBoolEnv("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   s.getEnv("REQUEST_ID_HEADER", "X-Request-ID"),
			UserIDHeader:      s.getEnv("USER_ID_HEADER", "X-User-ID"),
		},
		Server: ServerConfig{
			Host:              s.getEnv("SERVER_HOST", "0.0.0.0"),
			Port:              s.getEnv("SERVER_PORT", "8080"),
			ReadTimeout:       s.getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      s.getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       s.getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:    s.getDurationEnv("SERVER_REQUEST_TIMEOUT", 10*time.Second),
			MaxHeaderBytes:    s.getIntEnv("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout:   s.getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			EnableHealthCheck: s.getBoolEnv("ENABLE_HEALTH_CHECK", true),
			TLSEnabled:        s.getBoolEnv("TLS_ENABLED", false),
			TLSCertFile:       s.getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:        s.getEnv("TLS_KEY_FILE", ""),
		},
		Worker: WorkerConfig{
			AuditCron:   s.getEnv("WORKER_AUDIT_CRON", "*/30 * * * *"),
			AuditLimit:  s.getIntEnv("WORKER_AUDIT_LIMIT", 500),
			ArchiveCron: s.getEnv("WORKER_ARCHIVE_CRON", "15 0 * * *"),
			Timezone:    s.getEnv("WORKER_TIMEZONE", "UTC"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateRequiredFields(c); err != nil {
		return err
	}

	if c.Database.MaxConnections < c.Database.MinConnections {
		return fmt.Errorf("max connections must be >= min connections")
	}
	if c.Database.LockTimeout <= 0 {
		return fmt.Errorf("database lock timeout must be positive")
	}
	if c.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	if c.Ledger.MaxRetries < 0 {
		return fmt.Errorf("ledger max retries cannot be negative")
	}
	if c.Ledger.NodeID < 0 || c.Ledger.NodeID > 1023 {
		return fmt.Errorf("ledger node id must be between 0 and 1023")
	}
	switch c.Archive.Backend {
	case "s3":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("%w: archive bucket", ErrMissingRequiredConfig)
		}
	case "local":
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("%w: archive local dir", ErrMissingRequiredConfig)
		}
	default:
		return fmt.Errorf("unknown archive backend %q", c.Archive.Backend)
	}

	if c.IsProduction() {
		return (&ProductionValidator{}).Validate(c)
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// source resolves keys against the environment first, then the config file.
type source struct {
	v *viper.Viper
}

func (s source) lookup(key string) (string, bool) {
	if value := os.Getenv(key); value != "" {
		return value, true
	}
	if s.v != nil && s.v.IsSet(key) {
		if value := s.v.GetString(key); value != "" {
			return value, true
		}
	}
	return "", false
}

func (s source) getEnv(key, defaultValue string) string {
	if value, ok := s.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (s source) getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := s.lookup(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func (s source) getIntEnv(key string, defaultValue int) int {
	if value, ok := s.lookup(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func (s source) getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, ok := s.lookup(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func (s source) getSliceEnv(key string, defaultValue []string) []string {
	if value, ok := s.lookup(key); ok {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
