package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	MarketData struct {
		BaseURL        string        `yaml:"base_url"`
		APIKey         string        `yaml:"api_key"`
		Timeout        time.Duration `yaml:"timeout"`
		WebSocketURL   string        `yaml:"websocket_url"`
		StreamSymbols  []string      `yaml:"stream_symbols"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"marketdata"`
	Engine Engine `yaml:"engine"`
}

// Engine holds the decision-pipeline tunables.
type Engine struct {
	MaxConcurrentScans int           `yaml:"max_concurrent_scans"`
	ScanLockTimeout    time.Duration `yaml:"scan_lock_timeout"`
	SweepInterval      time.Duration `yaml:"sweep_interval"`
	MinBars            int           `yaml:"min_bars"`
	MinConfidence      float64       `yaml:"min_confidence"`
	ATRFloorPercent    float64       `yaml:"atr_floor_percent"`
	Volatility         struct {
		HighRatio    float64 `yaml:"high_ratio"`
		ExtremeRatio float64 `yaml:"extreme_ratio"`
		LowRatio     float64 `yaml:"low_ratio"`
	} `yaml:"volatility"`
	Cache struct {
		ActionableTTL time.Duration `yaml:"actionable_ttl"`
		NoTradeTTL    time.Duration `yaml:"no_trade_ttl"`
	} `yaml:"cache"`
	Detection struct {
		CooldownWindow time.Duration `yaml:"cooldown_window"`
		ValidityBars   int           `yaml:"validity_bars"`
		MemoryMaxAge   time.Duration `yaml:"memory_max_age"`
		TerminalGrace  time.Duration `yaml:"terminal_grace"`
		MemoryMaxCount int           `yaml:"memory_max_count"`
	} `yaml:"detection"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETDATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		c.MarketData.BaseURL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	e := &c.Engine
	if e.MaxConcurrentScans <= 0 {
		e.MaxConcurrentScans = 3
	}
	if e.ScanLockTimeout <= 0 {
		e.ScanLockTimeout = 2 * time.Minute
	}
	if e.SweepInterval <= 0 {
		e.SweepInterval = time.Minute
	}
	if e.MinBars <= 0 {
		e.MinBars = 50
	}
	if e.MinConfidence <= 0 {
		e.MinConfidence = 50
	}
	if e.ATRFloorPercent <= 0 {
		e.ATRFloorPercent = 0.02
	}
	if e.Volatility.HighRatio <= 0 {
		e.Volatility.HighRatio = 1.5
	}
	if e.Volatility.ExtremeRatio <= 0 {
		e.Volatility.ExtremeRatio = 2.5
	}
	if e.Volatility.LowRatio <= 0 {
		e.Volatility.LowRatio = 0.6
	}
	if e.Cache.ActionableTTL <= 0 {
		e.Cache.ActionableTTL = 5 * time.Minute
	}
	if e.Cache.NoTradeTTL <= 0 {
		e.Cache.NoTradeTTL = 90 * time.Second
	}
	if e.Detection.CooldownWindow <= 0 {
		e.Detection.CooldownWindow = 15 * time.Minute
	}
	if e.Detection.ValidityBars <= 0 {
		e.Detection.ValidityBars = 6
	}
	if e.Detection.MemoryMaxAge <= 0 {
		e.Detection.MemoryMaxAge = 48 * time.Hour
	}
	if e.Detection.TerminalGrace <= 0 {
		e.Detection.TerminalGrace = time.Hour
	}
	if e.Detection.MemoryMaxCount <= 0 {
		e.Detection.MemoryMaxCount = 500
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("marketdata.base_url is required")
	}
	if c.Engine.Volatility.ExtremeRatio <= c.Engine.Volatility.HighRatio {
		return fmt.Errorf("engine.volatility.extreme_ratio must exceed high_ratio")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
