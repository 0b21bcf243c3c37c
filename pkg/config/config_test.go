package config

import (
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		App:       AppConfig{Name: "rove"},
		GRPC:      GRPCConfig{Port: 1337},
		Log:       LogConfig{Level: "info"},
		Pipelines: PipelinesConfig{Dir: "sample_pipelines/fresh"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"invalid port - zero", func(c *Config) { c.GRPC.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.GRPC.Port = 70000 }, true},
		{"invalid log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"missing pipelines dir", func(c *Config) { c.Pipelines.Dir = "" }, true},
		{"invalid cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, true},
		{"invalid ratelimit backend", func(c *Config) { c.RateLimit.Backend = "etcd" }, true},
		{"metrics port checked when enabled", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Port = -1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLardDSN(t *testing.T) {
	cfg := LardConfig{
		Host: "db", Port: 5432, Database: "lard",
		Username: "qc", Password: "secret", SSLMode: "disable",
	}
	want := "host=db port=5432 user=qc password=secret dbname=lard sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewLoader(WithConfigPaths()).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.App.Name != "rove" {
		t.Errorf("default app name = %q", cfg.App.Name)
	}
	if cfg.GRPC.Port != 1337 {
		t.Errorf("default grpc port = %d", cfg.GRPC.Port)
	}
	if !cfg.Sources.TestData.Enabled {
		t.Error("testdata source should default to enabled")
	}
}
