package observability

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveRun("Base", 1000, 20*time.Millisecond, nil)
	m.ObserveRun("Base", 500, 10*time.Millisecond, nil)
	m.ObserveRun("Aggressive", 1000, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("Base", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("Aggressive", "error")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.TrialsSimulated))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RunDuration))
}

func TestRecordHTTP(t *testing.T) {
	m := NewMetrics("")
	m.RecordHTTP("/api/simulate", 200, time.Millisecond)
	m.RecordHTTP("/api/simulate", 400, time.Millisecond)
	m.RecordHTTP("/api/simulate", 200, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/simulate", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/simulate", "400")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics("")
	m.RunsStored.Inc()
	m.LiveSessions.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, "risklab_storage_runs_stored_total 1"), text)
	assert.Contains(t, text, "risklab_live_sessions 3")
	assert.Contains(t, text, "go_goroutines")
}

func TestSeparateRegistries(t *testing.T) {
	a := NewMetrics("")
	b := NewMetrics("")
	a.RunsStored.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.RunsStored))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RunsStored))
}

func TestScenarioLabel(t *testing.T) {
	m := NewMetrics("")
	assert.Equal(t, "Aggressive", m.ScenarioLabel("Aggressive"))
	assert.Equal(t, CustomScenarioLabel, m.ScenarioLabel("Downturn"))

	m.SetKnownScenarios("Base", "Downturn")
	assert.Equal(t, "Downturn", m.ScenarioLabel("Downturn"))
	assert.Equal(t, CustomScenarioLabel, m.ScenarioLabel("Aggressive"))

	for i := 0; i < 100; i++ {
		m.ObserveRun(fmt.Sprintf("user-%d", i), 10, time.Millisecond, nil)
	}
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunsTotal))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(CustomScenarioLabel, "ok")))
}
