package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	HTTPPort    int           `mapstructure:"http_port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Environment string        `mapstructure:"environment"`
}

// DatabaseConfig is the PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig is the Redis configuration.
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	Database    int           `mapstructure:"database"`
	MaxRetries  int           `mapstructure:"max_retries"`
	PoolSize    int           `mapstructure:"pool_size"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// NATSConfig is the NATS configuration.
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	ClientID       string        `mapstructure:"client_id"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnect   int           `mapstructure:"max_reconnect"`
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	MaxPingsOut    int           `mapstructure:"max_pings_out"`
}

// LoggerConfig is the logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// MetricsConfig is the Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AnalyticsConfig tunes the analytics engine.
type AnalyticsConfig struct {
	SummaryCacheTTL    time.Duration `mapstructure:"summary_cache_ttl"`
	RecomputeInterval  time.Duration `mapstructure:"recompute_interval"`
	DefaultRangeMonths int           `mapstructure:"default_range_months"`
}

// LoadConfig loads the configuration from environment variables and files.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("FLEET_SERVICE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found: environment variables and defaults apply.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("server.environment", "development")

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.database", "fleet_service")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 25)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.idle_timeout", "5m")

	// NATS
	viper.SetDefault("nats.enabled", true)
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.client_id", "fleet-service")
	viper.SetDefault("nats.connect_timeout", "30s")
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.max_reconnect", -1)
	viper.SetDefault("nats.ping_interval", "20s")
	viper.SetDefault("nats.max_pings_out", 2)

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")
	viper.SetDefault("logger.output_path", "stdout")

	// Metrics
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")

	// Analytics
	viper.SetDefault("analytics.summary_cache_ttl", "5m")
	viper.SetDefault("analytics.recompute_interval", "24h")
	viper.SetDefault("analytics.default_range_months", 3)
}

// GetDSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// GetRedisAddr returns the Redis host:port address.
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("NATS URL is required when NATS is enabled")
	}

	if c.Analytics.DefaultRangeMonths <= 0 {
		return fmt.Errorf("analytics default range must be positive: %d", c.Analytics.DefaultRangeMonths)
	}

	return nil
}
