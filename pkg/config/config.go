package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"hackcall-backend/pkg/constants"
	"hackcall-backend/pkg/env"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Database DatabaseConfig `yaml:"database"`
	Call     CallConfig     `yaml:"call"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port               int      `yaml:"port"`
	Environment        string   `yaml:"environment"` // development, staging, production
	ServiceName        string   `yaml:"service_name"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// StoreConfig selects the keyed store backing call records
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory, redis, sqlite
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"pool_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SQLiteConfig holds the on-disk key/value file configuration
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds the hackathon Postgres configuration used by maintenance tools
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CallConfig holds call membership policy switches
type CallConfig struct {
	// StrictStart rejects StartCall when the team already has a call instead of overwriting it.
	StrictStart bool `yaml:"strict_start"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `yaml:"level"`  // debug, info, warn, error
	Format   string `yaml:"format"` // json, text
	Output   string `yaml:"output"` // stdout, file
	FilePath string `yaml:"file_path"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8084,
			Environment: "development",
			ServiceName: "call-service",
			CORSAllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
			},
		},
		Store: StoreConfig{
			Backend: constants.StoreBackendMemory,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			PoolSize: 10,
			Timeout:  5 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: "data/calls.db",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "postgres",
			SSLMode:  "disable",
			MaxConns: 5,
			MinConns: 1,
		},
		Log: LogConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "/logs/app.log",
		},
	}
}

// Load builds configuration from defaults, an optional YAML file named by CONFIG_FILE,
// and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := env.GetString("CONFIG_FILE", ""); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MergeFile overlays the YAML file at path onto the configuration
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = env.GetInt("PORT", c.Server.Port)
	c.Server.Environment = env.GetString("ENV", c.Server.Environment)
	c.Server.ServiceName = env.GetString("SERVICE_NAME", c.Server.ServiceName)
	c.Server.CORSAllowedOrigins = env.GetSlice("CORS_ALLOWED_ORIGINS", c.Server.CORSAllowedOrigins)

	c.Store.Backend = env.GetString("STORE_BACKEND", c.Store.Backend)

	c.Redis.Host = env.GetString("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = env.GetInt("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = env.GetStringFromFile("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = env.GetInt("REDIS_DB", c.Redis.DB)
	c.Redis.PoolSize = env.GetInt("REDIS_POOL_SIZE", c.Redis.PoolSize)
	c.Redis.Timeout = env.GetDuration("REDIS_TIMEOUT", c.Redis.Timeout)

	c.SQLite.Path = env.GetString("SQLITE_PATH", c.SQLite.Path)

	c.Database.Host = env.GetString("DB_HOST", c.Database.Host)
	c.Database.Port = env.GetInt("DB_PORT", c.Database.Port)
	c.Database.User = env.GetString("DB_USER", c.Database.User)
	c.Database.Password = env.GetStringFromFile("DB_PASSWORD", c.Database.Password)
	c.Database.Database = env.GetString("DB_NAME", c.Database.Database)
	c.Database.SSLMode = env.GetString("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.MaxConns = env.GetInt("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = env.GetInt("DB_MIN_CONNS", c.Database.MinConns)

	c.Call.StrictStart = env.GetBool("CALL_STRICT_START", c.Call.StrictStart)

	c.Log.Level = env.GetString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = env.GetString("LOG_FORMAT", c.Log.Format)
	c.Log.Output = env.GetString("LOG_OUTPUT", c.Log.Output)
	c.Log.FilePath = env.GetString("LOG_FILE_PATH", c.Log.FilePath)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Backend {
	case constants.StoreBackendMemory, constants.StoreBackendRedis:
	case constants.StoreBackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH must be set when STORE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("unknown store backend %q (valid: memory, redis, sqlite)", c.Store.Backend)
	}

	if c.Store.Backend == constants.StoreBackendRedis && c.Redis.Timeout <= 0 {
		return fmt.Errorf("REDIS_TIMEOUT must be positive")
	}

	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
