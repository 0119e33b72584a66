package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Forecast is the yaml shape of the model search bounds and fit policy. The
// analytics engine has its own config type; DI maps this one onto it so that
// pkg/ stays free of internal/ imports.
type Forecast struct {
	MaxP            int     `yaml:"max_p" default:"3"`
	MaxD            int     `yaml:"max_d" default:"2"`
	MaxQ            int     `yaml:"max_q" default:"3"`
	MaxSeasonalP    int     `yaml:"max_seasonal_p" default:"1"`
	MaxSeasonalD    int     `yaml:"max_seasonal_d" default:"1"`
	MaxSeasonalQ    int     `yaml:"max_seasonal_q" default:"1"`
	Confidence      float64 `yaml:"confidence" default:"0.95"`
	MinObservations int     `yaml:"min_observations"`
}

// PolicyRule is the yaml shape of one declarative advisory rule.
type PolicyRule struct {
	Name       string  `yaml:"name"`
	Metric     string  `yaml:"metric"`     // volatility | resilience
	Op         string  `yaml:"op"`         // gt | gte | lt | lte
	Threshold  float64 `yaml:"threshold"`
	Quantifier string  `yaml:"quantifier"` // any | all (default any)
	Advisory   string  `yaml:"advisory"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Backend struct {
		Type         string        `yaml:"type" default:"clickhouse"`
		BatchSize    int           `yaml:"batch_size" default:"500"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"2s"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers       []string `yaml:"brokers"`
		Topic         string   `yaml:"topic" default:"labor.observations"`
		AdvisoryTopic string   `yaml:"advisory_topic" default:"labor.advisories"`
		RequiredAcks  int      `yaml:"required_acks" default:"-1"`
		Compression   string   `yaml:"compression" default:"gzip"`
		Producer      struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"500ms"`
			BatchSize    int           `yaml:"batch_size" default:"200"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"laborpulse"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"laborpulse"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Feed struct {
		Mode           string        `yaml:"mode" default:"websocket"` // websocket | simulate
		URL            string        `yaml:"url"`
		APIKey         string        `yaml:"api_key"`
		Entities       []string      `yaml:"entities"`
		Frequency      string        `yaml:"frequency" default:"monthly"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
		Seed           int64         `yaml:"seed" default:"1"` // simulate mode
		Periods        int           `yaml:"periods" default:"120"`
	} `yaml:"feed"`
	Analytics struct {
		Forecast Forecast `yaml:"forecast"`
		CacheTTL struct {
			Metrics  time.Duration `yaml:"metrics" default:"1m"`
			Forecast time.Duration `yaml:"forecast" default:"5m"`
		} `yaml:"cache_ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"analytics"`
	Policy struct {
		Rules []PolicyRule `yaml:"rules"`
	} `yaml:"policy"`
}

// Load reads and parses a YAML configuration file, applying defaults before
// validation.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
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

	if v := os.Getenv("FEED_API_KEY"); v != "" {
		c.Feed.APIKey = v
	}
	if v := os.Getenv("FEED_ENTITIES"); v != "" {
		c.Feed.Entities = strings.Split(v, ",")
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	switch c.Feed.Mode {
	case "websocket":
		if c.Feed.URL == "" {
			return fmt.Errorf("feed.url is required in websocket mode")
		}
	case "simulate":
		if len(c.Feed.Entities) == 0 {
			return fmt.Errorf("feed.entities cannot be empty in simulate mode")
		}
	default:
		return fmt.Errorf("feed.mode must be 'websocket' or 'simulate', got '%s'", c.Feed.Mode)
	}
	if c.Feed.Frequency != "annual" && c.Feed.Frequency != "monthly" {
		return fmt.Errorf("feed.frequency must be 'annual' or 'monthly', got '%s'", c.Feed.Frequency)
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required for the kafka backend")
	}
	return nil
}
