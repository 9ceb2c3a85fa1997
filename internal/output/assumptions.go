package output

import (
	"fmt"

	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Horizon: 60 monthly steps (5 years) from the current valuation",
	"Volatility: 15% annualized, uniform monthly shock",
	"Competitor drag grows linearly to the full impact rate by the final month",
	"Milestones: 30% chance of a 10% boost at months 0, 12, 24, 36 and 48",
	"Success: final value above 2x the current valuation",
	"Initial investment is shown for reference and does not change the trajectory",
}

// GenerateAssumptions renders the assumption list for the parameters a report actually ran with.
func GenerateAssumptions(report *domain.AnalysisReport) []string {
	if report == nil || len(report.Reports) == 0 {
		return DefaultAssumptions
	}
	r := report.Reports[0]
	return []string{
		fmt.Sprintf("Horizon: %d monthly steps from the current valuation of %s", r.Horizon, FormatCompact(r.Baseline)),
		fmt.Sprintf("Trials: %d per scenario, seed %d", r.Iterations, r.Seed),
		fmt.Sprintf("Volatility: %.0f%% annualized, uniform monthly shock", calculation.AnnualVolatility*100),
		"Competitor drag grows linearly to the full impact rate by the final month",
		fmt.Sprintf("Milestones: %.0f%% chance of a %.0f%% boost every %d months starting at month 0",
			(1-calculation.MilestoneThreshold)*100, (calculation.MilestoneBoost-1)*100, calculation.MilestoneInterval),
		fmt.Sprintf("Success: final value above %.0fx the current valuation (%s)", calculation.SuccessMultiple, FormatCompact(calculation.SuccessMultiple*r.Baseline)),
		"Initial investment is shown for reference and does not change the trajectory",
	}
}
