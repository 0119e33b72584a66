package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `environment: test
backend:
  type: clickhouse
feed:
  mode: simulate
  entities: [Construction, Healthcare]
  frequency: monthly
analytics:
  forecast:
    max_p: 2
    confidence: 0.90
policy:
  rules:
    - name: high-volatility
      metric: volatility
      op: gt
      threshold: 40000
      quantifier: any
      advisory: employment volatility above threshold
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	c, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", c.Server.Port)
	}
	if c.Analytics.Forecast.MaxP != 2 {
		t.Fatalf("expected yaml max_p override, got %d", c.Analytics.Forecast.MaxP)
	}
	if c.Analytics.Forecast.MaxD != 2 {
		t.Fatalf("expected default max_d 2, got %d", c.Analytics.Forecast.MaxD)
	}
	if c.Analytics.Forecast.Confidence != 0.90 {
		t.Fatalf("expected confidence 0.90, got %v", c.Analytics.Forecast.Confidence)
	}
	if len(c.Policy.Rules) != 1 {
		t.Fatalf("expected 1 policy rule, got %d", len(c.Policy.Rules))
	}
	r := c.Policy.Rules[0]
	if r.Name != "high-volatility" || r.Op != "gt" || r.Threshold != 40000 {
		t.Fatalf("rule parsed wrong: %+v", r)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	bad := `environment: test
backend:
  type: postgres
feed:
  mode: simulate
  entities: [Retail]
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestLoadRejectsWebsocketModeWithoutURL(t *testing.T) {
	bad := `environment: test
feed:
  mode: websocket
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for missing feed url")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("CLICKHOUSE_PASSWORD", "secret")

	c, err := LoadWithEnv(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "broker1:9092" {
		t.Fatalf("broker override not applied: %v", c.Kafka.Brokers)
	}
	if c.ClickHouse.Password != "secret" {
		t.Fatal("password override not applied")
	}
}
