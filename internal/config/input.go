package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/domain"
	"gopkg.in/yaml.v3"
)

// AnalysisConfig is the analysis input file: the startups under review, the scenario
// parameters to run them under, and the simulation settings.
type AnalysisConfig struct {
	Simulation calculation.MonteCarloConfig `yaml:"simulation" json:"simulation"`
	Startups   []domain.StartupProfile      `yaml:"startups" json:"startups"`
	Scenarios  []domain.Scenario            `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// Startup returns the startup with the given id. An empty id selects the only startup
// when the file defines exactly one.
func (c *AnalysisConfig) Startup(id string) (domain.StartupProfile, error) {
	if id == "" {
		if len(c.Startups) == 1 {
			return c.Startups[0], nil
		}
		return domain.StartupProfile{}, fmt.Errorf("%w: %d startups defined, select one by id", domain.ErrInvalidArgument, len(c.Startups))
	}
	for _, s := range c.Startups {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.StartupProfile{}, fmt.Errorf("%w: %s", domain.ErrUnknownStartup, id)
}

// StartupIDs lists the configured startup ids in file order.
func (c *AnalysisConfig) StartupIDs() []string {
	ids := make([]string, len(c.Startups))
	for i, s := range c.Startups {
		ids[i] = s.ID
	}
	return ids
}

// ScenarioSet returns the configured scenarios layered over the defaults, so a file may
// override Base alone and still get Conservative and Aggressive.
func (c *AnalysisConfig) ScenarioSet() domain.ScenarioSet {
	set := domain.DefaultScenarioSet()
	for _, sc := range c.Scenarios {
		set = set.With(sc.Name, sc.Params)
	}
	return set
}

// InputParser handles parsing of analysis input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads an analysis configuration from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*AnalysisConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates an analysis configuration.
func (ip *InputParser) Parse(data []byte) (*AnalysisConfig, error) {
	var config AnalysisConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *AnalysisConfig) error {
	if len(config.Startups) == 0 {
		return fmt.Errorf("%w: no startups provided", domain.ErrInvalidArgument)
	}

	seen := make(map[string]bool, len(config.Startups))
	for i, s := range config.Startups {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("startup %d validation failed: %w", i, err)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate startup id %q", domain.ErrInvalidArgument, s.ID)
		}
		seen[s.ID] = true
	}

	for i, sc := range config.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("%w: scenario %d has no name", domain.ErrInvalidArgument, i)
		}
		if err := sc.Params.Validate(); err != nil {
			return fmt.Errorf("scenario %s validation failed: %w", sc.Name, err)
		}
	}

	if err := ip.validateSimulation(&config.Simulation); err != nil {
		return fmt.Errorf("simulation settings validation failed: %w", err)
	}

	return nil
}

func (ip *InputParser) validateSimulation(sim *calculation.MonteCarloConfig) error {
	if sim.Iterations < 0 {
		return fmt.Errorf("%w: iterations cannot be negative", domain.ErrInvalidArgument)
	}
	if sim.Horizon < 0 {
		return fmt.Errorf("%w: horizon_months cannot be negative", domain.ErrInvalidArgument)
	}
	if sim.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", domain.ErrInvalidArgument)
	}
	return nil
}

// SaveAnalysis writes an analysis configuration as YAML, creating parent directories.
func (ip *InputParser) SaveAnalysis(config *AnalysisConfig, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration returns a small, valid analysis configuration
func (ip *InputParser) CreateExampleConfiguration() *AnalysisConfig {
	return &AnalysisConfig{
		Simulation: calculation.MonteCarloConfig{
			Iterations: calculation.DefaultIterations,
			Horizon:    calculation.DefaultHorizonMonths,
			Seed:       42,
		},
		Startups: []domain.StartupProfile{
			{
				ID:              "techvision",
				Name:            "TechVision AI",
				Sector:          "AI/ML",
				Valuation:       42000000,
				FinancialHealth: 85,
				ExitPotential:   95,
				MarketRisk:      30,
				MarketSize:      100,
				MarketSizeUSD:   15e9,
				Competitors:     3,
				MonthlyBurn:     850000,
				RunwayMonths:    24,
			},
		},
		Scenarios: domain.DefaultScenarioSet().Scenarios(),
	}
}
