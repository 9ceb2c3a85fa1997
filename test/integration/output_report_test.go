package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/internal/narrative"
	"github.com/ventureboard/risklab/internal/output"
	"github.com/ventureboard/risklab/internal/store"
)

func TestStoredRunRendersLikeFreshRun(t *testing.T) {
	cfg, report := analyzeExample(t)
	ctx := context.Background()

	runs, err := store.NewRunStore(filepath.Join(t.TempDir(), "runs", "history.db"))
	require.NoError(t, err)
	defer runs.Close()

	n := narrative.TemplateNarrator{}
	for i := range report.Reports {
		text, err := n.Narrate(ctx, cfg.Startups[0], &report.Reports[i])
		require.NoError(t, err)
		report.Reports[i].Narrative = text
		require.NoError(t, runs.SaveRun(ctx, &report.Reports[i]))
	}

	summaries, err := runs.ListRuns(ctx, "techvision", 0)
	require.NoError(t, err)
	require.Len(t, summaries, len(report.Reports))

	base := report.Reports[0]
	loaded, err := runs.GetRun(ctx, base.RunID)
	require.NoError(t, err)
	assert.Equal(t, base.Metrics, loaded.Metrics)
	assert.Equal(t, base.Advice, loaded.Advice)
	assert.Equal(t, base.Narrative, loaded.Narrative)

	single := func(r domain.RiskReport) *domain.AnalysisReport {
		return &domain.AnalysisReport{Startup: report.Startup, Reports: []domain.RiskReport{r}, GeneratedAt: report.GeneratedAt}
	}
	fresh, err := output.Render(single(base), "csv")
	require.NoError(t, err)
	stored, err := output.Render(single(*loaded), "csv")
	require.NoError(t, err)
	assert.Equal(t, string(fresh), string(stored))
}
