package output

import (
	"testing"

	"github.com/ventureboard/risklab/internal/domain"
)

func TestRankScenarios_SelectsHighestMedianAndWorstDownside(t *testing.T) {
	report := &domain.AnalysisReport{
		Reports: []domain.RiskReport{
			{Scenario: "Base", Baseline: 10, Metrics: domain.RiskMetrics{Median: 20, Percentile05: 5}},
			{Scenario: "Aggressive", Baseline: 10, Metrics: domain.RiskMetrics{Median: 30, Percentile05: 2}},
			{Scenario: "Conservative", Baseline: 10, Metrics: domain.RiskMetrics{Median: 12, Percentile05: 6}},
		},
	}

	rank := RankScenarios(report)
	if rank.BestScenario != "Aggressive" {
		t.Fatalf("BestScenario = %q, want Aggressive", rank.BestScenario)
	}
	if rank.MedianMultiple != 3 {
		t.Fatalf("MedianMultiple = %v, want 3", rank.MedianMultiple)
	}
	if rank.WorstDownside != "Aggressive" || rank.WorstP05 != 2 {
		t.Fatalf("WorstDownside = %q (%v), want Aggressive (2)", rank.WorstDownside, rank.WorstP05)
	}
	if rank.Spread != 18 {
		t.Fatalf("Spread = %v, want 18", rank.Spread)
	}
}

func TestRankScenarios_Empty(t *testing.T) {
	if got := RankScenarios(&domain.AnalysisReport{}); got != (ScenarioRanking{}) {
		t.Fatalf("expected zero ranking, got %+v", got)
	}
	if got := RankScenarios(nil); got != (ScenarioRanking{}) {
		t.Fatalf("expected zero ranking for nil, got %+v", got)
	}
}

func TestRankScenarios_TiesResolveByName(t *testing.T) {
	report := &domain.AnalysisReport{
		Reports: []domain.RiskReport{
			{Scenario: "B", Metrics: domain.RiskMetrics{Median: 1, Percentile05: 1}},
			{Scenario: "A", Metrics: domain.RiskMetrics{Median: 1, Percentile05: 1}},
		},
	}
	rank := RankScenarios(report)
	if rank.BestScenario != "A" || rank.WorstDownside != "A" {
		t.Fatalf("ties not resolved by name: %+v", rank)
	}
}
