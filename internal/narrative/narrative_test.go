package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
)

func sample() (domain.StartupProfile, *domain.RiskReport) {
	startup := domain.StartupProfile{ID: "techvision", Name: "TechVision AI", Sector: "AI/ML", Valuation: 42000000}
	report := &domain.RiskReport{
		Scenario: domain.ScenarioAggressive,
		Baseline: 42000000,
		Horizon:  60,
		Metrics: domain.RiskMetrics{
			Median: 90300000, Percentile05: 12000000, Percentile95: 250000000, SuccessRate: 0.62,
		},
		Advice: domain.InvestmentAdvice{
			Recommendation: domain.RecommendationStrong,
			Confidence:     85,
			Risks:          []string{"High burn rate requires close monitoring"},
			Opportunities:  []string{"Limited competition in target market"},
		},
	}
	return startup, report
}

func TestTemplateNarrator(t *testing.T) {
	startup, report := sample()
	text, err := TemplateNarrator{}.Narrate(context.Background(), startup, report)
	require.NoError(t, err)

	assert.Equal(t,
		"Under the aggressive scenario, TechVision AI (AI/ML) moves from $42.0M to a median of $90.3M over 60 months, "+
			"with a 90% range of $12.0M to $250.0M. 62% of simulated paths more than double the current valuation. "+
			"Recommendation: Strong Buy at 85% confidence. Upside: Limited competition in target market. "+
			"Watch: High burn rate requires close monitoring.",
		text)
}

func TestTemplateNarratorOmitsEmptySections(t *testing.T) {
	startup, report := sample()
	startup.Sector = ""
	report.Advice.Risks = nil
	report.Advice.Opportunities = []string{}

	text, err := TemplateNarrator{}.Narrate(context.Background(), startup, report)
	require.NoError(t, err)
	assert.NotContains(t, text, "Upside:")
	assert.NotContains(t, text, "Watch:")
	assert.Contains(t, text, "TechVision AI moves from")
}

func TestTemplateNarratorErrors(t *testing.T) {
	startup, report := sample()
	_, err := TemplateNarrator{}.Narrate(context.Background(), startup, nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = TemplateNarrator{}.Narrate(ctx, startup, report)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuildPrompt(t *testing.T) {
	startup, report := sample()
	prompt := BuildPrompt(startup, report)
	for _, want := range []string{
		"Company: TechVision AI",
		"Scenario: Aggressive",
		"Median valuation after 60 months: $90.3M",
		"Probability of exceeding 2x: 62%",
		"Recommendation: Strong Buy (85% confidence)",
		"Risk: High burn rate requires close monitoring",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestGeminiNarratorUsesGenerator(t *testing.T) {
	startup, report := sample()
	var gotPrompt string
	n := &GeminiNarrator{model: "test-model", logger: zap.NewNop(), generate: func(ctx context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "  A strong bet.  \n", nil
	}}

	text, err := n.Narrate(context.Background(), startup, report)
	require.NoError(t, err)
	assert.Equal(t, "A strong bet.", text)
	assert.True(t, strings.HasPrefix(gotPrompt, "Write a three-sentence investment narrative"))
	assert.Equal(t, "test-model", n.Model())
}

func TestGeminiNarratorErrors(t *testing.T) {
	startup, report := sample()
	boom := errors.New("quota exceeded")
	n := &GeminiNarrator{model: "m", logger: zap.NewNop(), generate: func(context.Context, string) (string, error) { return "", boom }}
	_, err := n.Narrate(context.Background(), startup, report)
	assert.True(t, errors.Is(err, boom))

	n.generate = func(context.Context, string) (string, error) { return "   ", nil }
	_, err = n.Narrate(context.Background(), startup, report)
	assert.Error(t, err)
}

func TestNewGeminiNarratorRequiresKey(t *testing.T) {
	_, err := NewGeminiNarrator(context.Background(), "", "", nil)
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	startup, report := sample()
	failing := &GeminiNarrator{model: "m", logger: zap.NewNop(), generate: func(context.Context, string) (string, error) {
		return "", errors.New("offline")
	}}
	f := Fallback{Primary: failing, Secondary: TemplateNarrator{}, Logger: zap.NewNop()}

	text, err := f.Narrate(context.Background(), startup, report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Under the aggressive scenario"))
}
