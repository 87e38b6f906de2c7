package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"sidegame-server/internal/util"
)

// Config provides configuration for the game server
type Config struct {
	loaded bool

	// Secret is the server-wide secret that every per-game seed is derived
	// from. Two servers with different secrets never deal the same game.
	Secret string `yaml:"secret" envconfig:"secret"`

	// StartGameDelay is the countdown in seconds before a created game deals
	StartGameDelay int `yaml:"startGameDelay" envconfig:"start_game_delay"`

	// IdleTimeout is how long in seconds a disconnected seat survives
	// between games before the sweep reaps it
	IdleTimeout int `yaml:"idleTimeout" envconfig:"idle_timeout"`

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

var config Config

// DefaultConfig returns the configuration before any file or environment
// overrides are applied
func DefaultConfig() Config {
	return Config{
		StartGameDelay: 10,
		IdleTimeout:    600,
	}
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is not an error; the defaults stand
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("SG_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("sg", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
