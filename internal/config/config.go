// Package config provides configuration management for docsearch.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults match the original deployment.
const (
	DefaultPort             = 5000
	DefaultDBHost           = "localhost"
	DefaultDBPort           = 5433
	DefaultDBName           = "bismillah"
	DefaultDBUser           = "postgres"
	DefaultConnectTimeout   = 5   // seconds
	DefaultOracleTimeout    = 120 // seconds
	DefaultOracleModel      = "gpt-4o-mini"
	DefaultStoreDir         = "TEMP_STORAGE"
	DefaultStaticDir        = "frontend/dist"
)

// Config is the immutable runtime configuration, constructed once at startup
// and passed to each component.
type Config struct {
	Port int `yaml:"port"`

	DBHost                string `yaml:"db_host"`
	DBPort                int    `yaml:"db_port"`
	DBName                string `yaml:"db_name"`
	DBUser                string `yaml:"db_user"`
	DBPassword            string `yaml:"db_password"`
	DBConnectTimeoutSecs  int    `yaml:"db_connect_timeout"`

	OracleKey         string `yaml:"oracle_key"`
	OracleModel       string `yaml:"oracle_model"`
	OracleTimeoutSecs int    `yaml:"oracle_timeout"`

	// FileBasePath is the allowed root for /open-file serving.
	FileBasePath string `yaml:"file_base_path"`
	// StoreDir holds conversation records and chat snapshots.
	StoreDir string `yaml:"store_dir"`
	// StaticDir is the built SPA directory served with index fallback.
	StaticDir string `yaml:"static_dir"`
}

// Default returns the configuration defaults.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		Port:                 DefaultPort,
		DBHost:               DefaultDBHost,
		DBPort:               DefaultDBPort,
		DBName:               DefaultDBName,
		DBUser:               DefaultDBUser,
		DBConnectTimeoutSecs: DefaultConnectTimeout,
		OracleModel:          DefaultOracleModel,
		OracleTimeoutSecs:    DefaultOracleTimeout,
		FileBasePath:         cwd,
		StoreDir:             DefaultStoreDir,
		StaticDir:            DefaultStaticDir,
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration. Variable
// names follow the original deployment's .env keys.
func (c *Config) applyEnv() {
	envStr(&c.DBHost, "DB_HOST")
	envInt(&c.DBPort, "DB_PORT")
	envStr(&c.DBName, "DB_NAME")
	envStr(&c.DBUser, "DB_USER")
	envStr(&c.DBPassword, "DB_PASSWORD")
	envInt(&c.DBConnectTimeoutSecs, "DB_CONNECT_TIMEOUT")

	// Both key names are accepted, OPENAI_API_KEY wins.
	envStr(&c.OracleKey, "OPENAI_API")
	envStr(&c.OracleKey, "OPENAI_API_KEY")
	envStr(&c.OracleModel, "ORACLE_MODEL")
	envInt(&c.OracleTimeoutSecs, "ORACLE_TIMEOUT")

	envStr(&c.FileBasePath, "FILE_BASE_PATH")
	envStr(&c.StoreDir, "DOCSEARCH_STORE_DIR")
	envStr(&c.StaticDir, "DOCSEARCH_STATIC_DIR")
	envInt(&c.Port, "DOCSEARCH_PORT")
}

// Validate reports configuration that cannot support startup.
func (c *Config) Validate() error {
	if c.OracleKey == "" {
		return fmt.Errorf("missing OPENAI_API_KEY (or OPENAI_API) environment variable")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// DSN returns the keyword/value Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword)
}

// ConnectTimeout returns the data-engine connect timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.DBConnectTimeoutSecs) * time.Second
}

// OracleTimeout returns the wall-clock ceiling applied to oracle calls when
// the caller's context carries no deadline.
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.OracleTimeoutSecs) * time.Second
}

func envStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
