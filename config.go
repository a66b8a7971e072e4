package main

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/cotacao/gateway/internal/coingecko"
)

const (
	defaultPort = 8000
)

type Config struct {
	Port             int           `yaml:"port" envconfig:"PORT"`
	CoinGeckoBaseURL string        `yaml:"coingecko_base_url" envconfig:"COINGECKO_BASE_URL"`
	CoinGeckoAPIKey  string        `yaml:"coingecko_api_key" envconfig:"COINGECKO_API_KEY"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout" envconfig:"UPSTREAM_TIMEOUT"`
	AllowedOrigins   []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

// Load Config from a yaml file at path.
func (c *Config) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return err
	}

	c.applyDefaults()
	return nil
}

// Load Config from the environment.
func (c *Config) LoadFromEnv() error {
	if err := envconfig.Process("", c); err != nil {
		return err
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.CoinGeckoBaseURL == "" {
		c.CoinGeckoBaseURL = coingecko.DefaultBaseURL
	}
	if c.UpstreamTimeout == 0 {
		c.UpstreamTimeout = coingecko.DefaultTimeout
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}
