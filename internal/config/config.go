package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "TASKFORCE_"

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

type Config struct {
	HTTPPort        string
	Store           string
	DBPath          string
	Workers         int
	PoolSize        int
	ShutdownTimeout time.Duration
	LogLevel        string
}

func New() Config {
	return Config{
		HTTPPort:        ":8080",
		Store:           StoreMemory,
		DBPath:          "taskforce.db",
		Workers:         2,
		PoolSize:        100,
		ShutdownTimeout: time.Second * 10,
		LogLevel:        "info",
	}
}

// FromEnv applies TASKFORCE_* overrides on top of New.
func FromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

// Load is FromEnv with an injectable lookup.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := New()

	if v, ok := lookup(envPrefix + "HTTP_ADDR"); ok {
		cfg.HTTPPort = v
	}
	if v, ok := lookup(envPrefix + "STORE"); ok {
		cfg.Store = v
	}
	if v, ok := lookup(envPrefix + "DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		cfg.Workers = n
	}
	if v, ok := lookup(envPrefix + "POOL_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sPOOL_SIZE: %w", envPrefix, err)
		}
		cfg.PoolSize = n
	}
	if v, ok := lookup(envPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", envPrefix, err)
		}
		cfg.ShutdownTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreSQLite, StoreBolt:
		if c.DBPath == "" {
			return fmt.Errorf("store %q needs a db path", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool size must be > 0, got %d", c.PoolSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be > 0, got %s", c.ShutdownTimeout)
	}
	return nil
}
