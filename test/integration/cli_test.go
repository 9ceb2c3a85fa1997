package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/output"
)

func TestOutputGeneration(t *testing.T) {
	_, report := analyzeExample(t)
	dir := t.TempDir()

	for _, format := range []string{"console", "console-lite", "json", "csv", "timeline-csv", "html", "pdf"} {
		t.Run(format, func(t *testing.T) {
			paths, err := output.GenerateReport(report, format, dir)
			require.NoError(t, err)
			require.Len(t, paths, 1)

			fi, err := os.Stat(paths[0])
			require.NoError(t, err)
			assert.Greater(t, fi.Size(), int64(0))
			assert.Equal(t, "."+output.FileExtension(format), filepath.Ext(paths[0]))
		})
	}
}

func TestOutputAll(t *testing.T) {
	_, report := analyzeExample(t)
	paths, err := output.GenerateReport(report, "all", t.TempDir())
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestRenderedReportsMentionEveryScenario(t *testing.T) {
	_, report := analyzeExample(t)
	for _, format := range []string{"console", "csv", "html"} {
		data, err := output.Render(report, format)
		require.NoError(t, err)
		for _, r := range report.Reports {
			assert.True(t, strings.Contains(string(data), r.Scenario), "%s output missing %s", format, r.Scenario)
		}
	}
}
