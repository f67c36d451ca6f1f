package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/geo-gap-compass/internal/logger"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port               int      `yaml:"port"`
		CORSOrigins        []string `yaml:"corsOrigins"`
		RateLimitPerMinute int      `yaml:"rateLimitPerMinute"`
		// APIKeys maps client name to key; empty disables auth.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"server"`

	AI struct {
		Provider           string  `yaml:"provider"`
		APIKey             string  `yaml:"apiKey"`
		Model              string  `yaml:"model"`
		BaseURL            string  `yaml:"baseURL"`
		TimeoutSeconds     int     `yaml:"timeoutSeconds"`
		Temperature        float32 `yaml:"temperature"`
		Concurrency        int     `yaml:"concurrency"`
		MaxPrompts         int     `yaml:"maxPrompts"`
		MockDelayMs        int     `yaml:"mockDelayMs"`
		MockOnTotalFailure bool    `yaml:"mockOnTotalFailure"`
	} `yaml:"ai"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Enabled        bool   `yaml:"enabled"`
		Endpoint       string `yaml:"endpoint"`
		AccessKey      string `yaml:"accessKey"`
		SecretKey      string `yaml:"secretKey"`
		BucketName     string `yaml:"bucketName"`
		Region         string `yaml:"region"`
		UseSSL         bool   `yaml:"useSSL"`
		FixturesPrefix string `yaml:"fixturesPrefix"`
		ReportsPrefix  string `yaml:"reportsPrefix"`
	} `yaml:"minio"`

	Fixtures struct {
		CitationsPath  string `yaml:"citationsPath"`
		TimeSeriesPath string `yaml:"timeSeriesPath"`
	} `yaml:"fixtures"`

	Redis struct {
		Address    string `yaml:"address"`
		Password   string `yaml:"password"`
		DB         int    `yaml:"db"`
		TTLSeconds int    `yaml:"ttlSeconds"`
	} `yaml:"redis"`

	WebSearch struct {
		BaseURL        string `yaml:"baseURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"websearch"`

	Log logger.Config `yaml:"log"`
}

// Default returns a config usable without any file or credentials.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Server.CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	c.Server.RateLimitPerMinute = 60
	c.AI.Provider = ProviderOpenAI
	c.AI.Model = "gpt-4o-mini"
	c.AI.TimeoutSeconds = 30
	c.AI.Temperature = 0.7
	c.AI.Concurrency = 4
	c.AI.MaxPrompts = 10
	c.AI.MockDelayMs = 100
	c.Database.SSLMode = "disable"
	c.Minio.FixturesPrefix = "fixtures/"
	c.Minio.ReportsPrefix = "reports/"
	c.Fixtures.CitationsPath = "fake_citations.json"
	c.Fixtures.TimeSeriesPath = "fake_time_series.json"
	c.Redis.TTLSeconds = 3600
	c.WebSearch.BaseURL = "https://api.duckduckgo.com/"
	c.WebSearch.TimeoutSeconds = 10
	c.Log.Level = "info"
	return &c
}

// Load reads .env files, the YAML file at path (if present) and env overrides.
func Load(path string) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env", "dev.env")

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("AI_PROVIDER"); v != "" {
		c.AI.Provider = strings.ToLower(v)
	}
	if c.AI.APIKey == "" {
		switch c.AI.Provider {
		case ProviderOpenAI:
			c.AI.APIKey = getenv("OPENAI_API_KEY")
		case ProviderAnthropic:
			c.AI.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	}
	if v := getenv("AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := getenv("REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
}

// Validate rejects values the service cannot wire.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("config: unknown ai.provider %q", c.AI.Provider)
	}
	switch c.Database.Driver {
	case "", DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("config: unknown database.driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.AI.Concurrency < 1 {
		c.AI.Concurrency = 1
	}
	if c.AI.MaxPrompts < 1 {
		c.AI.MaxPrompts = 10
	}
	if c.AI.TimeoutSeconds < 1 {
		c.AI.TimeoutSeconds = 30
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return errors.New("config: minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	return nil
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) MockDelay() time.Duration {
	return time.Duration(c.AI.MockDelayMs) * time.Millisecond
}

func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
