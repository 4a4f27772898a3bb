// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	// Home Assistant
	BaseURL      string        `env:"HA_URL,required"`
	Token        string        `env:"TOM_API,required"`
	CommandsFile string        `env:"HOMEVOX_COMMANDS" envDefault:"commands.yaml"`
	HTTPTimeout  time.Duration `env:"HOMEVOX_HTTP_TIMEOUT" envDefault:"0s"` // 0 = wait forever
	SocksProxy   string        `env:"HOMEVOX_SOCKS_PROXY"`

	// Transports
	SocketPath string `env:"HOMEVOX_SOCKET" envDefault:"/tmp/homevox.sock"`
	BusURL     string `env:"HOMEVOX_BUS_URL" envDefault:"ws://localhost:8092/ws"`

	// Questions; disabled without a key
	OpenAIKey string `env:"OPENAI_API_KEY"`
	ChatModel string `env:"HOMEVOX_CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
}

// ClientConfig is what homevox-ctl needs to reach the daemon.
type ClientConfig struct {
	SocketPath string `env:"HOMEVOX_SOCKET" envDefault:"/tmp/homevox.sock"`
}

// Load reads envFile when present, then parses and validates the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	loadEnvFile(envFile)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadClient(envFile string) (ClientConfig, error) {
	loadEnvFile(envFile)

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}
	// a missing file is fine, the environment may be set directly
	_ = godotenv.Load(path)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("HA_URL %q is not an absolute URL", c.BaseURL)
	}
	if c.Token == "" {
		return fmt.Errorf("TOM_API is empty")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HOMEVOX_HTTP_TIMEOUT must not be negative")
	}
	if c.CommandsFile == "" {
		return fmt.Errorf("HOMEVOX_COMMANDS is empty")
	}
	return nil
}

// ChatEnabled reports whether questions can be answered.
func (c Config) ChatEnabled() bool {
	return c.OpenAIKey != ""
}
