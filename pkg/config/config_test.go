package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
marketdata:
  base_url: http://indicators.local
`

func TestLoadAppliesEngineDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Engine.MaxConcurrentScans != 3 {
		t.Fatalf("expected default scan ceiling, got %d", c.Engine.MaxConcurrentScans)
	}
	if c.Engine.ScanLockTimeout != 2*time.Minute {
		t.Fatalf("expected default lock timeout, got %v", c.Engine.ScanLockTimeout)
	}
	if c.Engine.Volatility.ExtremeRatio != 2.5 || c.Engine.Volatility.HighRatio != 1.5 {
		t.Fatalf("expected default volatility thresholds, got %+v", c.Engine.Volatility)
	}
	if c.Engine.Cache.ActionableTTL != 5*time.Minute {
		t.Fatalf("expected default cache ttl, got %v", c.Engine.Cache.ActionableTTL)
	}
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "marketdata:\n  base_url: http://x\n")); err == nil {
		t.Fatalf("missing environment must fail validation")
	}
}

func TestLoadRejectsInvertedVolatilityRatios(t *testing.T) {
	body := minimalConfig + `
engine:
  volatility:
	high_ratio: 3.0
	extreme_ratio: 2.0
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("extreme ratio below high ratio must fail validation")
	}
}

func TestLoadRejectsEnabledKafkaWithoutBrokers(t *testing.T) {
	body := minimalConfig + `
kafka:
  enabled: true
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("enabled kafka without brokers must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MARKETDATA_API_KEY", "sekret")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MarketData.APIKey != "sekret" {
		t.Fatalf("api key override missing")
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[0] != "a:9092" {
		t.Fatalf("broker override missing, got %v", c.Kafka.Brokers)
	}
}
