// Package config assembles the immutable process configuration from an
// optional YAML file and the environment. Environment values win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the process configuration, constructed once at start.
type Config struct {
	// Port is the TCP port the HTTP transport binds to.
	Port int

	// APIKey is forwarded to the upstream exchange-rate provider and
	// selects which provider endpoint is used.
	APIKey string

	// Token, when set, requires bearer auth on the RPC endpoint.
	Token string

	// Timeout bounds each outbound provider call.
	Timeout time.Duration

	// Retries is the maximum number of retries for failed provider calls.
	// The default of zero means a single attempt.
	Retries int
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Port:    3000,
		Timeout: 10 * time.Second,
		Retries: 0,
	}
}

// Load builds the configuration from the optional YAML file at path, then
// applies environment overrides. An empty path skips the file entirely; a
// missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.APIKey = getEnv("EXCHANGE_API_KEY", cfg.APIKey)
	cfg.Token = getEnv("MCP_TOKEN", cfg.Token)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid timeout: %s", cfg.Timeout)
	}

	return cfg, nil
}

// UnmarshalYAML decodes a config file section over the existing values.
// Timeout is spelled as a duration string ("10s", "1m").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Port    *int    `yaml:"port"`
		APIKey  *string `yaml:"apiKey"`
		Token   *string `yaml:"token"`
		Timeout *string `yaml:"timeout"`
		Retries *int    `yaml:"retries"`
	}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Port != nil {
		c.Port = *raw.Port
	}
	if raw.APIKey != nil {
		c.APIKey = *raw.APIKey
	}
	if raw.Token != nil {
		c.Token = *raw.Token
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(*raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = d
	}
	if raw.Retries != nil {
		c.Retries = *raw.Retries
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
