package domain

import (
	"fmt"
	"math"
)

// StartupProfile represents a startup under analysis: its last known valuation and the
// static health and market scores the advice rules read.
type StartupProfile struct {
	ID        string  `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	Sector    string  `yaml:"sector,omitempty" json:"sector,omitempty"`
	Valuation float64 `yaml:"valuation" json:"valuation"` // baseline valuation every trial compounds from

	// Scores on a 0-100 scale
	FinancialHealth float64 `yaml:"financial_health" json:"financial_health"`
	ExitPotential   float64 `yaml:"exit_potential" json:"exit_potential"`
	MarketRisk      float64 `yaml:"market_risk" json:"market_risk"`
	MarketSize      float64 `yaml:"market_size_score" json:"market_size_score"`

	MarketSizeUSD float64 `yaml:"market_size_usd" json:"market_size_usd"`
	Competitors   int     `yaml:"competitors" json:"competitors"`
	MonthlyBurn   float64 `yaml:"monthly_burn" json:"monthly_burn"`
	RunwayMonths  int     `yaml:"runway_months" json:"runway_months"`
}

// HealthScore averages financial health and exit potential.
func (s StartupProfile) HealthScore() float64 {
	return (s.FinancialHealth + s.ExitPotential) / 2
}

// MarketScore weights the inverse of market risk by the market size score.
func (s StartupProfile) MarketScore() float64 {
	return (100 - s.MarketRisk) * (s.MarketSize / 100)
}

// Validate checks the profile is usable as a simulation baseline.
func (s StartupProfile) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: startup id is required", ErrInvalidArgument)
	}
	if math.IsNaN(s.Valuation) || math.IsInf(s.Valuation, 0) || s.Valuation <= 0 {
		return fmt.Errorf("%w: startup %s valuation must be a positive number", ErrInvalidArgument, s.ID)
	}
	scores := []struct {
		name  string
		value float64
	}{
		{"financial_health", s.FinancialHealth},
		{"exit_potential", s.ExitPotential},
		{"market_risk", s.MarketRisk},
		{"market_size_score", s.MarketSize},
	}
	for _, f := range scores {
		if math.IsNaN(f.value) || f.value < 0 || f.value > 100 {
			return fmt.Errorf("%w: startup %s %s must be between 0 and 100", ErrInvalidArgument, s.ID, f.name)
		}
	}
	if s.Competitors < 0 {
		return fmt.Errorf("%w: startup %s competitors cannot be negative", ErrInvalidArgument, s.ID)
	}
	if s.MonthlyBurn < 0 {
		return fmt.Errorf("%w: startup %s monthly burn cannot be negative", ErrInvalidArgument, s.ID)
	}
	if s.RunwayMonths < 0 {
		return fmt.Errorf("%w: startup %s runway cannot be negative", ErrInvalidArgument, s.ID)
	}
	return nil
}
