package config

import (
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(lookupFrom(nil))
	if err != nil {
		t.Fatalf("Load() err=%v, want nil", err)
	}
	if cfg != New() {
		t.Fatalf("Load() = %+v, want %+v", cfg, New())
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(lookupFrom(map[string]string{
		"TASKFORCE_HTTP_ADDR":        ":9090",
		"TASKFORCE_STORE":            "sqlite",
		"TASKFORCE_DB_PATH":          "/tmp/tf.db",
		"TASKFORCE_WORKERS":          "4",
		"TASKFORCE_POOL_SIZE":        "10",
		"TASKFORCE_SHUTDOWN_TIMEOUT": "3s",
		"TASKFORCE_LOG_LEVEL":        "debug",
	}))
	if err != nil {
		t.Fatalf("Load() err=%v, want nil", err)
	}

	if cfg.HTTPPort != ":9090" || cfg.Store != StoreSQLite || cfg.DBPath != "/tmp/tf.db" {
		t.Fatalf("Load() = %+v", cfg)
	}
	if cfg.Workers != 4 || cfg.PoolSize != 10 {
		t.Fatalf("Load() workers=%d pool=%d, want 4 10", cfg.Workers, cfg.PoolSize)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("Load() ShutdownTimeout=%s, want 3s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("Load() LogLevel=%q, want debug", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"workers not a number": {"TASKFORCE_WORKERS": "many"},
		"bad duration":         {"TASKFORCE_SHUTDOWN_TIMEOUT": "soon"},
		"unknown store":        {"TASKFORCE_STORE": "redis"},
		"zero pool":            {"TASKFORCE_POOL_SIZE": "0"},
		"bolt without path":    {"TASKFORCE_STORE": "bolt", "TASKFORCE_DB_PATH": ""},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(lookupFrom(env)); err == nil {
				t.Fatalf("Load() err=nil, want non-nil")
			}
		})
	}
}
