package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Features FeaturesConfig `mapstructure:"features"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MongoDBConfig holds MongoDB connection settings
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GatewayConfig holds payment gateway credentials and settings
type GatewayConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
	Currency  string `mapstructure:"currency"`
	// TestMode skips signature verification when the key carries the
	// test sentinel prefix. Must never be enabled in production.
	TestMode bool `mapstructure:"test_mode"`
}

// TestKeyPrefix marks sandbox gateway credentials.
const TestKeyPrefix = "rzp_test_"

// IsTestKey reports whether the configured key id is a sandbox key.
func (g *GatewayConfig) IsTestKey() bool {
	return strings.HasPrefix(g.KeyID, TestKeyPrefix)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Issuer         string        `mapstructure:"issuer"`
}

// FeaturesConfig holds feature flag source settings
type FeaturesConfig struct {
	FilePath      string `mapstructure:"file_path"`
	ReloadChannel string `mapstructure:"reload_channel"`
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	SweepBatch    int           `mapstructure:"sweep_batch"`
	LockKey       string        `mapstructure:"lock_key"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// The .env file is optional; a missing file means env vars take
	// over, but a malformed one is a real configuration problem.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "hostelpg")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// MongoDB defaults
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "hostelpg")
	v.SetDefault("MONGODB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("MONGODB_MAX_POOL_SIZE", 100)

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Gateway defaults
	v.SetDefault("GATEWAY_BASE_URL", "https://api.razorpay.com")
	v.SetDefault("GATEWAY_KEY_ID", "")
	v.SetDefault("GATEWAY_KEY_SECRET", "")
	v.SetDefault("GATEWAY_CURRENCY", "INR")
	v.SetDefault("GATEWAY_TEST_MODE", false)

	// JWT defaults
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("JWT_ISSUER", "hostelpg")

	// Feature flag defaults
	v.SetDefault("FEATURES_FILE_PATH", "configs/features.yaml")
	v.SetDefault("FEATURES_RELOAD_CHANNEL", "hostelpg:features:reload")

	// Worker defaults
	v.SetDefault("WORKER_SWEEP_INTERVAL", "1h")
	v.SetDefault("WORKER_SWEEP_BATCH", 100)
	v.SetDefault("WORKER_LOCK_KEY", "hostelpg:exit-sweeper:lock")
	v.SetDefault("WORKER_LOCK_TTL", "5m")
}

func bindConfig(v *viper.Viper, cfg *Config) error {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// MongoDB
	cfg.MongoDB.URI = v.GetString("MONGODB_URI")
	cfg.MongoDB.Database = v.GetString("MONGODB_DATABASE")
	cfg.MongoDB.ConnectTimeout = v.GetDuration("MONGODB_CONNECT_TIMEOUT")
	cfg.MongoDB.MaxPoolSize = v.GetUint64("MONGODB_MAX_POOL_SIZE")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// Gateway
	cfg.Gateway.BaseURL = v.GetString("GATEWAY_BASE_URL")
	cfg.Gateway.KeyID = v.GetString("GATEWAY_KEY_ID")
	cfg.Gateway.KeySecret = v.GetString("GATEWAY_KEY_SECRET")
	cfg.Gateway.Currency = v.GetString("GATEWAY_CURRENCY")
	cfg.Gateway.TestMode = v.GetBool("GATEWAY_TEST_MODE")

	// JWT
	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Features
	cfg.Features.FilePath = v.GetString("FEATURES_FILE_PATH")
	cfg.Features.ReloadChannel = v.GetString("FEATURES_RELOAD_CHANNEL")

	// Worker
	cfg.Worker.SweepInterval = v.GetDuration("WORKER_SWEEP_INTERVAL")
	cfg.Worker.SweepBatch = v.GetInt("WORKER_SWEEP_BATCH")
	cfg.Worker.LockKey = v.GetString("WORKER_LOCK_KEY")
	cfg.Worker.LockTTL = v.GetDuration("WORKER_LOCK_TTL")

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri is required")
	}

	if c.MongoDB.Database == "" {
		return fmt.Errorf("mongodb database is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT secret must be changed in production")
		}
		if c.Gateway.TestMode {
			return fmt.Errorf("gateway test mode must be disabled in production")
		}
		if c.Gateway.IsTestKey() {
			return fmt.Errorf("gateway key must not be a test key in production")
		}
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
