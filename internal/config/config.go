package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Storage       StorageConfig       `yaml:"storage"`
	JWT           JWTConfig           `yaml:"jwt"`
	Log           LogConfig           `yaml:"log"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                  string `yaml:"host"`
	Port                  int    `yaml:"port"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// StorageConfig selects the lifecycle store
type StorageConfig struct {
	Type string `yaml:"type"` // "postgres" or "memory"
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision, UTC)
type SchedulerConfig struct {
	ExpireDonations           string `yaml:"expire_donations"`
	PurgeNotifications        string `yaml:"purge_notifications"`
	NotificationRetentionDays int    `yaml:"notification_retention_days"`
}

// NotificationsConfig contains event delivery settings
type NotificationsConfig struct {
	Workers                int            `yaml:"workers"`
	QueueSize              int            `yaml:"queue_size"`
	DeliveryTimeoutSeconds int            `yaml:"delivery_timeout_seconds"`
	Kafka                  KafkaConfig    `yaml:"kafka"`
	SendGrid               SendGridConfig `yaml:"sendgrid"`
	Firebase               FirebaseConfig `yaml:"firebase"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Notifications
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Notifications.Kafka.Brokers = strings.Split(val, ",")
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notifications.SendGrid.APIKey = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS"); val != "" {
		c.Notifications.Firebase.CredentialsFile = val
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		c.Server.RequestTimeoutSeconds = 30
	}

	switch c.Storage.Type {
	case "":
		c.Storage.Type = "postgres"
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}

	if c.Storage.Type == "postgres" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler defaults
	if c.Scheduler.ExpireDonations == "" {
		c.Scheduler.ExpireDonations = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.PurgeNotifications == "" {
		c.Scheduler.PurgeNotifications = "0 0 3 * * *" // 3 AM UTC
	}
	if c.Scheduler.NotificationRetentionDays <= 0 {
		c.Scheduler.NotificationRetentionDays = 30
	}

	// Notification defaults
	n := &c.Notifications
	if n.Workers <= 0 {
		n.Workers = 4
	}
	if n.QueueSize <= 0 {
		n.QueueSize = 256
	}
	if n.DeliveryTimeoutSeconds <= 0 {
		n.DeliveryTimeoutSeconds = 10
	}
	if len(n.Kafka.Brokers) > 0 && n.Kafka.Topic == "" {
		n.Kafka.Topic = "donation-events"
	}
	if n.SendGrid.APIKey != "" && n.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when an API key is set")
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) NotificationRetention() time.Duration {
	return time.Duration(c.Scheduler.NotificationRetentionDays) * 24 * time.Hour
}
