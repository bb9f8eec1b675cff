package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds shell configuration from environment variables.
// Command-line flags win over these; the environment fills gaps.
type EnvConfig struct {
	Headless       bool   `env:"GAMESHELL_HEADLESS" envDefault:"false"`
	ConfigPath     string `env:"GAMESHELL_CONFIG" envDefault:""`
	WrapperManaged bool   `env:"GAMESHELL_WRAPPER_MANAGED" envDefault:"false"`
	DisableConsole bool   `env:"GAMESHELL_NO_CONSOLE" envDefault:"false"`
}

// ParseEnvConfig parses shell configuration from environment variables.
func ParseEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv merges environment configuration into c. Values already set
// on the command line are left alone.
func (c *Config) ApplyEnv(e *EnvConfig) {
	if e == nil {
		return
	}
	if !c.Headless && e.Headless {
		c.Headless = true
	}
	if c.ConfigPath == "" {
		c.ConfigPath = e.ConfigPath
	}
}
