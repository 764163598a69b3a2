package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileReturnsDefault(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Book.InitialCapacity != 2048 || cfg.Loader.Delimiter != "," || cfg.Report.PricePrecision != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Sinks.Kafka != nil || cfg.Sinks.Redis != nil {
		t.Errorf("sinks must be disabled by default")
	}
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("MATCHER_TOPIC", "trades.abc")
	path := writeConfig(t, `
service_name: sim
log_level: debug
book:
  initial_capacity: 64
report:
  show_depth: true
sinks:
  kafka:
    brokers: ["localhost:9092"]
    topic: ${MATCHER_TOPIC}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "sim" || cfg.LogLevel != "debug" || cfg.Book.InitialCapacity != 64 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.Report.ShowDepth || cfg.Report.PricePrecision != 2 {
		t.Errorf("expected show_depth with default precision, got %+v", cfg.Report)
	}
	if cfg.Loader.TrueToken != "true" {
		t.Errorf("expected default true token, got %q", cfg.Loader.TrueToken)
	}
	if cfg.Sinks.Kafka == nil || cfg.Sinks.Kafka.Topic != "trades.abc" {
		t.Errorf("expected kafka topic from env, got %+v", cfg.Sinks.Kafka)
	}
}

func TestLoadFromConfigFileEnv(t *testing.T) {
	path := writeConfig(t, "service_name: from-env\n")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServiceName != "from-env" {
		t.Errorf("expected CONFIG_FILE to be used, got %q", cfg.ServiceName)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "book: [1, 2"},
		{name: "negative capacity", body: "book:\n  initial_capacity: -1\n"},
		{name: "precision", body: "report:\n  price_precision: 12\n"},
		{name: "delimiter", body: "loader:\n  delimiter: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
