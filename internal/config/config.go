// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	currentConfig *Config
	configMutex   sync.RWMutex
)

// Flag is a boolean that also accepts yes/on and no/off.
type Flag bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flag) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on", "y", "t":
		*f = true
	case "", "0", "false", "no", "off", "n", "f":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %q", string(text))
	}
	return nil
}

// Config holds the process configuration.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	DataDir   string `env:"DATA_DIR" envDefault:"data"`
	LogDir    string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	DebugMode Flag   `env:"DEBUG_MODE" envDefault:"true"`

	CampaignPath   string `env:"AETHER_CAMPAIGN_PATH" envDefault:"data/campaign.json"`
	LoadDemo       Flag   `env:"AETHER_LOAD_DEMO" envDefault:"false"`
	DemoPath       string `env:"AETHER_DEMO_PATH" envDefault:"storage/seed_demo.yaml"`
	EventIndexPath string `env:"AETHER_EVENT_INDEX_PATH"`
	HostPin        string `env:"AETHER_HOST_PIN"`

	WSSendBuffer  int           `env:"WS_SEND_BUFFER" envDefault:"256"`
	WSPingTimeout time.Duration `env:"WS_PING_TIMEOUT" envDefault:"60s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if strings.TrimSpace(c.CampaignPath) == "" {
		return fmt.Errorf("AETHER_CAMPAIGN_PATH must not be empty")
	}
	if c.WSSendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.WSSendBuffer)
	}
	if c.WSPingTimeout <= 0 {
		return fmt.Errorf("WS_PING_TIMEOUT must be positive, got %s", c.WSPingTimeout)
	}
	return nil
}

// InitConfig loads the configuration, creates the data and log
// directories and stores the result as the process configuration.
func InitConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.DataDir, cfg.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	configMutex.Lock()
	defer configMutex.Unlock()
	currentConfig = cfg
	copied := *cfg
	return &copied, nil
}

// GetCurrentConfig returns a copy of the process configuration, loading it
// from the environment when InitConfig has not run.
func GetCurrentConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = &Config{}
			_ = env.Parse(cfg)
		}
		return cfg
	}
	copied := *currentConfig
	return &copied
}
