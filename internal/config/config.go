// Package config loads checkmark runtime configuration through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends understood by the CLI.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all runtime configuration for a checkmark process.
// Values are populated from checkmark.yaml, CHECKMARK_* env vars, and CLI flags.
type Config struct {
	Catalog      string        `mapstructure:"catalog"`
	Store        string        `mapstructure:"store"`
	StoreDir     string        `mapstructure:"store_dir"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	RedisPrefix  string        `mapstructure:"redis_prefix"`
	RedisTTL     time.Duration `mapstructure:"redis_ttl"`
	Listen       string        `mapstructure:"listen"`
	LogLevel     string        `mapstructure:"log_level"`
	HistoryLimit int           `mapstructure:"history_limit"`
	MemoryFile   string        `mapstructure:"memory_file"`
	// EncryptionKey is a base64 AES-256 key; when set, snapshots are sealed at rest.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "catalog.yaml")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("store_dir", ".checkmark")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "checkmark:")
	v.SetDefault("redis_ttl", "0s")
	v.SetDefault("listen", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("history_limit", 100)
	v.SetDefault("memory_file", "")
	v.SetDefault("encryption_key", "")
}

// Setup points v at the config file and the CHECKMARK_ environment.
// An empty cfgFile searches for checkmark.yaml in the working and home directories.
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("checkmark")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix("CHECKMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Read loads the config file, if any. A missing file is not an error.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config: %w", err)
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis_ttl must not be negative, got %s", c.RedisTTL)
	}
	return nil
}
