package output

import (
	"sort"

	"github.com/ventureboard/risklab/internal/domain"
)

// ScenarioRanking summarizes how the scenarios of one analysis compare.
type ScenarioRanking struct {
	BestScenario   string  // highest median outcome
	BestMedian     float64 // median of the best scenario
	MedianMultiple float64 // best median / baseline
	WorstDownside  string  // lowest 5th percentile outcome
	WorstP05       float64
	Spread         float64 // best median minus worst median
}

// RankScenarios picks the scenario with the highest median and the one with the worst downside.
// Ties resolve by scenario name so output is deterministic.
func RankScenarios(report *domain.AnalysisReport) ScenarioRanking {
	if report == nil || len(report.Reports) == 0 {
		return ScenarioRanking{}
	}
	reports := append([]domain.RiskReport(nil), report.Reports...)
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Metrics.Median != reports[j].Metrics.Median {
			return reports[i].Metrics.Median > reports[j].Metrics.Median
		}
		return reports[i].Scenario < reports[j].Scenario
	})
	best, worstMedian := reports[0], reports[len(reports)-1]

	worst := reports[0]
	for _, r := range reports[1:] {
		if r.Metrics.Percentile05 < worst.Metrics.Percentile05 ||
			(r.Metrics.Percentile05 == worst.Metrics.Percentile05 && r.Scenario < worst.Scenario) {
			worst = r
		}
	}

	multiple := 0.0
	if best.Baseline > 0 {
		multiple = best.Metrics.Median / best.Baseline
	}
	return ScenarioRanking{
		BestScenario:   best.Scenario,
		BestMedian:     best.Metrics.Median,
		MedianMultiple: multiple,
		WorstDownside:  worst.Scenario,
		WorstP05:       worst.Metrics.Percentile05,
		Spread:         best.Metrics.Median - worstMedian.Metrics.Median,
	}
}
