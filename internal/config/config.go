// Package config parses the runtime shell's command-line invocation and
// environment configuration.
package config

import (
	"fmt"
)

// Config holds the parsed command-line configuration.
type Config struct {
	// Headless disables everything that needs a display surface.
	Headless bool
	// ConfigPath is the application config file to load.
	ConfigPath string
	// ScriptPath is a script file to run once the runtime is up.
	ScriptPath string
	// ExecCommand is a single script line to evaluate at startup.
	ExecCommand string
	// Args are pass-through arguments after the "--" separator, kept
	// verbatim for script-level consumption.
	Args []string
}

// ParseArgs parses command-line arguments and returns a Config.
// Expected format: program_name [--headless] [--config <path>] [--script <path>] [--exec <line>] [-- args...]
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	programName := args[0]
	cfg := &Config{}

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--":
			cfg.Args = args[i+1:]
			return cfg, nil

		case "--headless":
			cfg.Headless = true

		case "--config", "-c":
			value, err := flagValue(args, i, "--config")
			if err != nil {
				return nil, err
			}
			cfg.ConfigPath = value
			i++

		case "--script":
			value, err := flagValue(args, i, "--script")
			if err != nil {
				return nil, err
			}
			cfg.ScriptPath = value
			i++

		case "--exec", "-e":
			value, err := flagValue(args, i, "--exec")
			if err != nil {
				return nil, err
			}
			cfg.ExecCommand = value
			i++

		default:
			return nil, fmt.Errorf("unknown argument %q\nUsage: %s [--headless] [--config <path>] [--script <path>] [--exec <line>] [-- args...]",
				args[i], programName)
		}
	}

	return cfg, nil
}

// flagValue returns the value following the flag at index i.
func flagValue(args []string, i int, name string) (string, error) {
	if i+1 >= len(args) {
		return "", fmt.Errorf("%s requires a value", name)
	}
	return args[i+1], nil
}
