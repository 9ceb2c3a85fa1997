package domain

import (
	"fmt"
	"math"
	"sort"
)

// Well-known scenario names.
const (
	ScenarioBase         = "Base"
	ScenarioConservative = "Conservative"
	ScenarioAggressive   = "Aggressive"
)

// SimulationParameters is the input of a single simulation run.
// InitialInvestment is carried for display only; it never enters the trajectory.
type SimulationParameters struct {
	MarketGrowthRate     float64 `yaml:"market_growth_rate" json:"market_growth_rate"`         // annual %
	CompetitorImpactRate float64 `yaml:"competitor_impact_rate" json:"competitor_impact_rate"` // % eroded over the horizon
	MonthlyBurnRate      float64 `yaml:"monthly_burn_rate" json:"monthly_burn_rate"`
	InitialInvestment    float64 `yaml:"initial_investment" json:"initial_investment"`
}

// Validate rejects parameters the simulator cannot represent. UI slider bounds are
// deliberately not enforced here.
func (p SimulationParameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"market_growth_rate", p.MarketGrowthRate},
		{"competitor_impact_rate", p.CompetitorImpactRate},
		{"monthly_burn_rate", p.MonthlyBurnRate},
		{"initial_investment", p.InitialInvestment},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidArgument, f.name)
		}
	}
	if p.MonthlyBurnRate < 0 {
		return fmt.Errorf("%w: monthly_burn_rate cannot be negative", ErrInvalidArgument)
	}
	if p.InitialInvestment < 0 {
		return fmt.Errorf("%w: initial_investment cannot be negative", ErrInvalidArgument)
	}
	return nil
}

// Scenario is a named parameter set.
type Scenario struct {
	Name   string               `yaml:"name" json:"name"`
	Params SimulationParameters `yaml:",inline" json:"params"`
}

// ScenarioSet is an immutable mapping of scenario name to parameters.
// Updates go through With, which returns a new set and leaves the receiver untouched.
type ScenarioSet struct {
	scenarios map[string]SimulationParameters
}

// NewScenarioSet builds a set from a list; later duplicates replace earlier ones.
func NewScenarioSet(scenarios ...Scenario) ScenarioSet {
	m := make(map[string]SimulationParameters, len(scenarios))
	for _, sc := range scenarios {
		m[sc.Name] = sc.Params
	}
	return ScenarioSet{scenarios: m}
}

// DefaultScenarioSet returns the Base, Conservative and Aggressive scenarios the
// dashboard starts from.
func DefaultScenarioSet() ScenarioSet {
	return NewScenarioSet(
		Scenario{Name: ScenarioBase, Params: SimulationParameters{
			MarketGrowthRate:     20,
			CompetitorImpactRate: 30,
			MonthlyBurnRate:      850000,
			InitialInvestment:    5000000,
		}},
		Scenario{Name: ScenarioConservative, Params: SimulationParameters{
			MarketGrowthRate:     10,
			CompetitorImpactRate: 50,
			MonthlyBurnRate:      850000,
			InitialInvestment:    5000000,
		}},
		Scenario{Name: ScenarioAggressive, Params: SimulationParameters{
			MarketGrowthRate:     35,
			CompetitorImpactRate: 20,
			MonthlyBurnRate:      850000,
			InitialInvestment:    5000000,
		}},
	)
}

// With returns a copy of the set where name maps to params.
func (s ScenarioSet) With(name string, params SimulationParameters) ScenarioSet {
	m := make(map[string]SimulationParameters, len(s.scenarios)+1)
	for k, v := range s.scenarios {
		m[k] = v
	}
	m[name] = params
	return ScenarioSet{scenarios: m}
}

// Get looks up a scenario by name.
func (s ScenarioSet) Get(name string) (Scenario, error) {
	p, ok := s.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	return Scenario{Name: name, Params: p}, nil
}

// Len returns the number of scenarios.
func (s ScenarioSet) Len() int { return len(s.scenarios) }

// Names returns Base, Conservative and Aggressive first (when present), then the
// remaining names alphabetically.
func (s ScenarioSet) Names() []string {
	names := make([]string, 0, len(s.scenarios))
	for k := range s.scenarios {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := scenarioRank(names[i]), scenarioRank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// Scenarios returns the set as an ordered list.
func (s ScenarioSet) Scenarios() []Scenario {
	names := s.Names()
	out := make([]Scenario, len(names))
	for i, n := range names {
		out[i] = Scenario{Name: n, Params: s.scenarios[n]}
	}
	return out
}

func scenarioRank(name string) int {
	switch name {
	case ScenarioBase:
		return 0
	case ScenarioConservative:
		return 1
	case ScenarioAggressive:
		return 2
	default:
		return 3
	}
}

// SliderRange describes a UI control affordance. It is not enforced by the simulator.
type SliderRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// SliderBounds lists the dashboard's input control ranges keyed by parameter name.
var SliderBounds = map[string]SliderRange{
	"market_growth_rate":     {Min: 0, Max: 100, Step: 1},
	"competitor_impact_rate": {Min: 0, Max: 100, Step: 1},
	"monthly_burn_rate":      {Min: 0, Max: 2000000, Step: 50000},
	"initial_investment":     {Min: 1000000, Max: 10000000, Step: 100000},
}
