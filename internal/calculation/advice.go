package calculation

import (
	"fmt"

	"github.com/ventureboard/risklab/internal/domain"
)

// Advice thresholds. Every comparison is strict.
const (
	strongHealthCutoff   = 75.0
	strongMarketCutoff   = 60.0
	moderateHealthCutoff = 60.0
	moderateMarketCutoff = 40.0

	strongConfidence   = 85
	moderateConfidence = 65
	highRiskConfidence = 40

	aggressiveSuccessCutoff   = 0.6
	conservativeSuccessCutoff = 0.8

	largeMarketUSD      = 10e9
	fewCompetitors      = 5
	efficientBurnUSD    = 500000.0
	comfortableRunwayMo = 18
)

// AdviseScores applies the headline decision table to a health score and a market score.
func AdviseScores(healthScore, marketScore float64) (domain.Recommendation, int) {
	switch {
	case healthScore > strongHealthCutoff && marketScore > strongMarketCutoff:
		return domain.RecommendationStrong, strongConfidence
	case healthScore > moderateHealthCutoff && marketScore > moderateMarketCutoff:
		return domain.RecommendationModerate, moderateConfidence
	default:
		return domain.RecommendationHighRisk, highRiskConfidence
	}
}

// Advise builds the rule-based investment advice for a startup under the named scenario.
// It is a pure function of its inputs.
func Advise(startup domain.StartupProfile, metrics domain.RiskMetrics, scenarioName string) domain.InvestmentAdvice {
	healthScore := startup.HealthScore()
	marketScore := startup.MarketScore()
	rec, confidence := AdviseScores(healthScore, marketScore)

	advice := domain.InvestmentAdvice{
		Recommendation: rec,
		Confidence:     confidence,
		KeyPoints: []string{
			fmt.Sprintf("Overall health score of %.0f/100", healthScore),
			fmt.Sprintf("Market attractiveness score of %.0f/100", marketScore),
			fmt.Sprintf("%.0f%% of simulated outcomes exceed 2x the current valuation", metrics.SuccessRate*100),
			fmt.Sprintf("Median 5-year outcome of $%.1fM", metrics.Median/1e6),
		},
		Risks:         []string{},
		Opportunities: []string{},
	}

	switch scenarioName {
	case domain.ScenarioAggressive:
		if metrics.SuccessRate > aggressiveSuccessCutoff {
			advice.Opportunities = append(advice.Opportunities, "Aggressive growth scenario shows strong upside potential")
		} else {
			advice.Risks = append(advice.Risks, "Aggressive growth assumptions fail to deliver 2x returns in most simulations")
		}
	case domain.ScenarioConservative:
		if metrics.SuccessRate > conservativeSuccessCutoff {
			advice.Opportunities = append(advice.Opportunities, "Returns remain resilient even under conservative assumptions")
		} else {
			advice.Risks = append(advice.Risks, "Conservative scenario shows limited upside")
		}
	}

	if startup.MarketSizeUSD > largeMarketUSD {
		advice.Opportunities = append(advice.Opportunities, "Large addressable market above $10B")
	} else {
		advice.Risks = append(advice.Risks, "Limited addressable market size")
	}

	if startup.Competitors < fewCompetitors {
		advice.Opportunities = append(advice.Opportunities, "Limited competition in target market")
	} else {
		advice.Risks = append(advice.Risks, fmt.Sprintf("Crowded competitive landscape (%d competitors)", startup.Competitors))
	}

	if startup.MonthlyBurn < efficientBurnUSD {
		advice.Opportunities = append(advice.Opportunities, "Efficient capital deployment with a burn below $500K/month")
	} else {
		advice.Risks = append(advice.Risks, "High burn rate requires close monitoring")
	}

	if startup.RunwayMonths > comfortableRunwayMo {
		advice.Opportunities = append(advice.Opportunities, fmt.Sprintf("Comfortable runway of %d months", startup.RunwayMonths))
	} else {
		advice.Risks = append(advice.Risks, fmt.Sprintf("Runway of %d months may force near-term fundraising", startup.RunwayMonths))
	}

	return advice
}
