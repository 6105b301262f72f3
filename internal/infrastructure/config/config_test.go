package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfigFile writes a temporary YAML config and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults for missing values", func(t *testing.T) {
		path := writeConfigFile(t, "database:\n  path: /tmp/test.db\n")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.Path != "/tmp/test.db" {
			t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
		}
		if cfg.API.Port != 8080 {
			t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
		}
		if cfg.Redunlive.PollInterval != 60 {
			t.Errorf("Redunlive.PollInterval = %d, want 60", cfg.Redunlive.PollInterval)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  path: /var/lib/captrack/captrack.db
api:
  port: 9090
redunlive:
  topology_source: /etc/captrack/topology.json
  poll_interval: 30
devices:
  user: operator
  timeout: 3
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.API.Port != 9090 {
			t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
		}
		if cfg.Redunlive.TopologySource != "/etc/captrack/topology.json" {
			t.Errorf("TopologySource = %q", cfg.Redunlive.TopologySource)
		}
		if cfg.Devices.User != "operator" {
			t.Errorf("Devices.User = %q, want %q", cfg.Devices.User, "operator")
		}
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		path := writeConfigFile(t, "database:\n  path: /tmp/from-file.db\n")
		t.Setenv("CAPTRACK_DATABASE_PATH", "/tmp/from-env.db")
		t.Setenv("CAPTRACK_DEVICES_PASSWORD", "s3cret")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.Path != "/tmp/from-env.db" {
			t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
		}
		if cfg.Devices.Password != "s3cret" {
			t.Errorf("Devices.Password = %q, want env override", cfg.Devices.Password)
		}
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		path := writeConfigFile(t, "api:\n  port: 70000\n")

		if _, err := Load(path); err == nil {
			t.Fatal("Load() expected error for invalid port, got nil")
		}
	})

	t.Run("rejects enabled influxdb without url", func(t *testing.T) {
		path := writeConfigFile(t, "influxdb:\n  enabled: true\n")

		if _, err := Load(path); err == nil {
			t.Fatal("Load() expected error for influxdb without url, got nil")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := Load("/nonexistent/config.yaml"); err == nil {
			t.Fatal("Load() expected error for missing file, got nil")
		}
	})
}
