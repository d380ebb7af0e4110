package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Twitch    TwitchConfig    `yaml:"twitch"`
	Shortener ShortenerConfig `yaml:"shortener"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	HomepageURL  string        `yaml:"homepage_url" envconfig:"HOMEPAGE_URL" default:"https://github.com/RoyRiv3r/RoyRiv3r"`
}

// TwitchConfig holds Twitch API configuration.
type TwitchConfig struct {
	ClientID     string        `yaml:"client_id" envconfig:"TWITCH_CLIENT_ID"`
	ClientSecret string        `yaml:"client_secret" envconfig:"TWITCH_CLIENT_SECRET"`
	TokenURL     string        `yaml:"token_url" envconfig:"TWITCH_TOKEN_URL" default:"https://id.twitch.tv/oauth2/token"`
	GQLURL       string        `yaml:"gql_url" envconfig:"TWITCH_GQL_URL" default:"https://gql.twitch.tv/gql"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TWITCH_TIMEOUT" default:"8s"`
}

// ShortenerConfig holds TinyURL configuration.
type ShortenerConfig struct {
	APIURL  string        `yaml:"api_url" envconfig:"SHORTENER_API_URL" default:"https://tinyurl.com/api-create.php"`
	Timeout time.Duration `yaml:"timeout" envconfig:"SHORTENER_TIMEOUT" default:"8s"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"LOGGING_ENABLED" default:"false"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Load from YAML file if provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Twitch.ClientID == "" {
		return fmt.Errorf("TWITCH_CLIENT_ID is required")
	}
	if c.Twitch.ClientSecret == "" {
		return fmt.Errorf("TWITCH_CLIENT_SECRET is required")
	}
	if c.Server.HomepageURL == "" {
		return fmt.Errorf("HOMEPAGE_URL is required")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
