package domain

import "time"

// TimelinePoint is the recorded value of one trial at the end of a month.
type TimelinePoint struct {
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

// TrialResult is one independent simulated trajectory.
type TrialResult struct {
	FinalValue float64         `json:"final_value"`
	Timeline   []TimelinePoint `json:"timeline"`
}

// RiskMetrics summarizes the final values of a trial set.
type RiskMetrics struct {
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile95 float64 `json:"percentile_95"`
	Percentile05 float64 `json:"percentile_05"`
	SuccessRate  float64 `json:"success_rate"` // fraction of trials ending above 2x baseline
}

// Recommendation is the headline of an InvestmentAdvice.
type Recommendation string

const (
	RecommendationStrong   Recommendation = "Strong"
	RecommendationModerate Recommendation = "Moderate"
	RecommendationHighRisk Recommendation = "HighRisk"
)

// Label returns the display text used by the dashboard cards.
func (r Recommendation) Label() string {
	switch r {
	case RecommendationStrong:
		return "Strong Buy"
	case RecommendationModerate:
		return "Moderate Buy"
	case RecommendationHighRisk:
		return "High Risk"
	default:
		return string(r)
	}
}

// InvestmentAdvice is the rule-based recommendation for a startup under a scenario.
type InvestmentAdvice struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     int            `json:"confidence"` // percent
	KeyPoints      []string       `json:"key_points"`
	Risks          []string       `json:"risks"`
	Opportunities  []string       `json:"opportunities"`
}

// TimelineBand is the nearest-rank percentile band of all trials at one month.
type TimelineBand struct {
	Month  int     `json:"month"`
	P05    float64 `json:"p05"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
}

// RiskReport is the full result of analyzing one startup under one scenario.
type RiskReport struct {
	RunID       string               `json:"run_id"`
	StartupID   string               `json:"startup_id"`
	StartupName string               `json:"startup_name"`
	Scenario    string               `json:"scenario"`
	Params      SimulationParameters `json:"params"`
	Baseline    float64              `json:"baseline_valuation"`
	Iterations  int                  `json:"iterations"`
	Horizon     int                  `json:"horizon_months"`
	Seed        int64                `json:"seed"`
	Metrics     RiskMetrics          `json:"metrics"`
	Advice      InvestmentAdvice     `json:"advice"`
	Band        []TimelineBand       `json:"band"`
	Trials      []TrialResult        `json:"trials,omitempty"`
	Narrative   string               `json:"narrative,omitempty"`
	Duration    time.Duration        `json:"duration_ns"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AnalysisReport groups the scenario reports of one startup for output formatting.
type AnalysisReport struct {
	Startup     StartupProfile `json:"startup"`
	Reports     []RiskReport   `json:"reports"`
	GeneratedAt time.Time      `json:"generated_at"`
}
