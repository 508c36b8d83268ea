package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Storage    StorageConfig
	NATS       NATSConfig
	Scheduling SchedulingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"meetsched"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`

	// ConnMaxLifetime recycles pooled connections so long-lived pods pick up
	// failovers behind the database load balancer.
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`

	// AutoMigrate applies the sql-migrate migrations at startup. Meant for
	// development; production schema changes go through CI.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meetsched"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"true"`
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	Enabled bool   `envconfig:"NATS_ENABLED" default:"true"`
}

// SchedulingConfig holds the timing knobs of the lifecycle engine. The
// defaults are the documented behavior; overriding them is meant for tests
// and staging.
type SchedulingConfig struct {
	EarlyStartWindow   time.Duration `envconfig:"EARLY_START_WINDOW" default:"15m"`
	LateStartWindow    time.Duration `envconfig:"LATE_START_WINDOW" default:"60m"`
	ReminderLead       time.Duration `envconfig:"REMINDER_LEAD" default:"3h"`
	ReminderSpan       time.Duration `envconfig:"REMINDER_SPAN" default:"30m"`
	LivenessThreshold  time.Duration `envconfig:"LIVENESS_THRESHOLD" default:"15s"`
	StalenessThreshold time.Duration `envconfig:"STALENESS_THRESHOLD" default:"30s"`
	LifecycleInterval  time.Duration `envconfig:"LIFECYCLE_SWEEP_INTERVAL" default:"5m"`
	ReminderInterval   time.Duration `envconfig:"REMINDER_SWEEP_INTERVAL" default:"30m"`
	PresenceInterval   time.Duration `envconfig:"PRESENCE_SWEEP_INTERVAL" default:"30s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scheduling.EarlyStartWindow <= 0 || c.Scheduling.LateStartWindow <= 0 {
		return fmt.Errorf("start windows must be positive")
	}
	if c.Scheduling.LivenessThreshold > c.Scheduling.StalenessThreshold {
		return fmt.Errorf("LIVENESS_THRESHOLD must not exceed STALENESS_THRESHOLD")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
