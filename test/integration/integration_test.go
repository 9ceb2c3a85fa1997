package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/config"
	"github.com/ventureboard/risklab/internal/domain"
)

const exampleAnalysis = "../testdata/example_analysis.yaml"

func analyzeExample(t *testing.T) (*config.AnalysisConfig, *domain.AnalysisReport) {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(exampleAnalysis)
	require.NoError(t, err)
	startup, err := cfg.Startup("")
	require.NoError(t, err)

	engine := calculation.NewEngine(cfg.Simulation)
	report, err := engine.AnalyzeSet(context.Background(), startup, cfg.ScenarioSet())
	require.NoError(t, err)
	return cfg, report
}

func TestEndToEndAnalysis(t *testing.T) {
	cfg, report := analyzeExample(t)
	assert.Len(t, cfg.Startups, 1)
	require.Len(t, report.Reports, 4)

	for _, r := range report.Reports {
		assert.Equal(t, 1000, r.Iterations, r.Scenario)
		assert.Equal(t, calculation.DefaultHorizonMonths, r.Horizon)
		assert.Equal(t, int64(20240601), r.Seed)
		assert.LessOrEqual(t, r.Metrics.Min, r.Metrics.Percentile05)
		assert.LessOrEqual(t, r.Metrics.Percentile05, r.Metrics.Median)
		assert.LessOrEqual(t, r.Metrics.Median, r.Metrics.Percentile95)
		assert.LessOrEqual(t, r.Metrics.Percentile95, r.Metrics.Max)
		assert.GreaterOrEqual(t, r.Metrics.Min, 0.0)
		assert.Len(t, r.Band, calculation.DefaultHorizonMonths)

		// Health 90 and market 70 clear the strong-buy cutoffs whatever the scenario.
		assert.Equal(t, domain.RecommendationStrong, r.Advice.Recommendation)
		assert.Equal(t, 85, r.Advice.Confidence)
	}
}

func TestScenarioOrdering(t *testing.T) {
	_, report := analyzeExample(t)
	byName := make(map[string]domain.RiskReport, len(report.Reports))
	for _, r := range report.Reports {
		byName[r.Scenario] = r
	}

	// Same seed, so stronger growth and weaker competition dominate on the mean.
	assert.Greater(t, byName[domain.ScenarioAggressive].Metrics.Mean, byName[domain.ScenarioBase].Metrics.Mean)
	assert.Greater(t, byName[domain.ScenarioBase].Metrics.Mean, byName[domain.ScenarioConservative].Metrics.Mean)
	assert.Greater(t, byName[domain.ScenarioConservative].Metrics.Mean, byName["Downturn"].Metrics.Mean)
}

func TestAnalysisIsReproducible(t *testing.T) {
	_, a := analyzeExample(t)
	_, b := analyzeExample(t)
	for i := range a.Reports {
		assert.Equal(t, a.Reports[i].Metrics, b.Reports[i].Metrics, a.Reports[i].Scenario)
		assert.Equal(t, a.Reports[i].Band, b.Reports[i].Band, a.Reports[i].Scenario)
	}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(exampleAnalysis)
	require.NoError(t, err)
	assert.NoError(t, parser.ValidateConfiguration(cfg))

	cfg.Startups = append(cfg.Startups, cfg.Startups[0])
	assert.ErrorIs(t, parser.ValidateConfiguration(cfg), domain.ErrInvalidArgument)
}
