package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings stores the service and CLI settings.
// The values are read by viper from an optional risklab.yaml and RISKLAB_* environment variables.
type Settings struct {
	Server     ServerSettings     `mapstructure:"server"`
	Simulation SimulationSettings `mapstructure:"simulation"`
	Storage    StorageSettings    `mapstructure:"storage"`
	Logging    LoggingSettings    `mapstructure:"logging"`
	Narrative  NarrativeSettings  `mapstructure:"narrative"`
}

// ServerSettings defines the HTTP listener settings.
type ServerSettings struct {
	Addr          string `mapstructure:"addr"`
	MaxIterations int    `mapstructure:"max_iterations"`
}

// SimulationSettings defines defaults applied when the analysis file leaves them unset.
type SimulationSettings struct {
	Iterations int `mapstructure:"iterations"`
	Workers    int `mapstructure:"workers"`
}

// StorageSettings defines the run history database.
type StorageSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingSettings defines the zap logger.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// NarrativeSettings selects the narrative provider.
type NarrativeSettings struct {
	Provider string `mapstructure:"provider"` // template or gemini
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// EnvPrefix prefixes every environment override, e.g. RISKLAB_SERVER_ADDR.
const EnvPrefix = "RISKLAB"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_iterations", 100000)
	v.SetDefault("simulation.iterations", 1000)
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.path", "data/risklab.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("narrative.provider", "template")
	v.SetDefault("narrative.model", "gemini-2.5-flash")
	v.SetDefault("narrative.api_key", "")
}

// LoadSettings reads settings from file, falling back to defaults.
// An empty file searches the working directory for risklab.yaml and tolerates its absence;
// an explicit file must exist.
func LoadSettings(file string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("risklab")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks settings values that have a closed set of options.
func (s Settings) Validate() error {
	switch s.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", s.Logging.Format)
	}
	switch s.Narrative.Provider {
	case "template", "gemini":
	default:
		return fmt.Errorf("narrative.provider must be template or gemini, got %q", s.Narrative.Provider)
	}
	if s.Server.MaxIterations <= 0 {
		return fmt.Errorf("server.max_iterations must be positive")
	}
	if s.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers cannot be negative")
	}
	return nil
}
