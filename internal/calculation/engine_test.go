package calculation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

type recordingObserver struct {
	mu   sync.Mutex
	runs []string
	errs []error
}

func (r *recordingObserver) ObserveRun(scenario string, iterations int, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, scenario)
	r.errs = append(r.errs, err)
}

func techVision() domain.StartupProfile {
	return domain.StartupProfile{
		ID:              "techvision",
		Name:            "TechVision AI",
		Sector:          "AI/ML",
		Valuation:       42000000,
		FinancialHealth: 85,
		ExitPotential:   95,
		MarketRisk:      30,
		MarketSize:      100,
		MarketSizeUSD:   15e9,
		Competitors:     3,
		MonthlyBurn:     850000,
		RunwayMonths:    24,
	}
}

func TestEngineAnalyze(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	orig := nowFunc
	defer SetNowFunc(orig)
	SetNowFunc(func() time.Time { return fixed })

	core, logs := observer.New(zap.InfoLevel)
	rec := &recordingObserver{}

	engine := NewEngine(MonteCarloConfig{Iterations: 250, Seed: 99})
	engine.SetLogger(zap.New(core))
	engine.SetObserver(rec)

	base, err := domain.DefaultScenarioSet().Get(domain.ScenarioBase)
	require.NoError(t, err)

	report, err := engine.Analyze(context.Background(), techVision(), base)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "techvision", report.StartupID)
	assert.Equal(t, domain.ScenarioBase, report.Scenario)
	assert.Equal(t, 250, report.Iterations)
	assert.Equal(t, DefaultHorizonMonths, report.Horizon)
	assert.Equal(t, int64(99), report.Seed)
	assert.Equal(t, 42000000.0, report.Baseline)
	assert.Equal(t, fixed, report.CreatedAt)
	assert.Len(t, report.Band, DefaultHorizonMonths)
	assert.Nil(t, report.Trials)
	assert.Equal(t, domain.RecommendationStrong, report.Advice.Recommendation)
	assert.Equal(t, 85, report.Advice.Confidence)

	assert.Equal(t, []string{domain.ScenarioBase}, rec.runs)
	assert.NoError(t, rec.errs[0])

	entries := logs.FilterMessage("scenario analyzed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, report.RunID, entries[0].ContextMap()["run_id"])
}

func TestEngineMatchesSimulator(t *testing.T) {
	engine := NewEngine(MonteCarloConfig{Iterations: 100, Seed: 5})
	engine.KeepTrials = true

	sc := domain.Scenario{Name: "custom", Params: baseParams()}
	report, err := engine.Analyze(context.Background(), techVision(), sc)
	require.NoError(t, err)
	require.Len(t, report.Trials, 100)

	trials, err := NewMonteCarloSimulator(42000000, MonteCarloConfig{Seed: 5}).Simulate(baseParams(), 100)
	require.NoError(t, err)
	assert.Equal(t, trials, report.Trials)

	metrics, err := Aggregate(trials, 42000000)
	require.NoError(t, err)
	assert.Equal(t, metrics, report.Metrics)
}

func TestEngineParallelWorkers(t *testing.T) {
	engine := NewEngine(MonteCarloConfig{Iterations: 120, Seed: 8, Workers: 4})
	report, err := engine.Analyze(context.Background(), techVision(), domain.Scenario{Name: domain.ScenarioAggressive, Params: baseParams()})
	require.NoError(t, err)
	assert.Equal(t, 120, report.Iterations)
}

func TestEngineInvalidStartup(t *testing.T) {
	rec := &recordingObserver{}
	engine := NewEngine(MonteCarloConfig{Iterations: 10, Seed: 1})
	engine.SetObserver(rec)

	bad := techVision()
	bad.Valuation = 0
	_, err := engine.Analyze(context.Background(), bad, domain.Scenario{Name: domain.ScenarioBase, Params: baseParams()})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}

func TestEngineInvalidParamsNamesScenario(t *testing.T) {
	engine := NewEngine(MonteCarloConfig{Iterations: 10, Seed: 1})
	sc := domain.Scenario{Name: "broken", Params: domain.SimulationParameters{MonthlyBurnRate: -10}}
	_, err := engine.Analyze(context.Background(), techVision(), sc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "scenario broken")
}

func TestEngineAnalyzeSet(t *testing.T) {
	engine := NewEngine(MonteCarloConfig{Iterations: 50, Seed: 3})

	result, err := engine.AnalyzeSet(context.Background(), techVision(), domain.DefaultScenarioSet())
	require.NoError(t, err)
	require.Len(t, result.Reports, 3)

	names := make([]string, len(result.Reports))
	for i, r := range result.Reports {
		names[i] = r.Scenario
		assert.Equal(t, int64(3), r.Seed, "scenarios share the seed")
	}
	assert.Equal(t, []string{domain.ScenarioBase, domain.ScenarioConservative, domain.ScenarioAggressive}, names)
	assert.Equal(t, "techvision", result.Startup.ID)
}

func TestEngineAnalyzeSetDrawsOneSeed(t *testing.T) {
	orig := seedFunc
	defer SetSeedFunc(orig)
	calls := int64(0)
	SetSeedFunc(func() int64 { calls++; return 1000 + calls })

	engine := NewEngine(MonteCarloConfig{Iterations: 20})
	result, err := engine.AnalyzeSet(context.Background(), techVision(), domain.DefaultScenarioSet())
	require.NoError(t, err)
	for _, r := range result.Reports {
		assert.Equal(t, int64(1001), r.Seed)
	}
	assert.Equal(t, int64(0), engine.Config.Seed, "engine config is untouched")
}

func TestEngineAnalyzeSetConcurrent(t *testing.T) {
	orig := seedFunc
	defer SetSeedFunc(orig)
	var calls atomic.Int64
	SetSeedFunc(func() int64 { return 2000 + calls.Add(1) })

	engine := NewEngine(MonteCarloConfig{Iterations: 20})
	results := make([]*domain.AnalysisReport, 4)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			r, err := engine.AnalyzeSet(context.Background(), techVision(), domain.DefaultScenarioSet())
			results[i] = r
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(4), calls.Load())
	assert.Equal(t, int64(0), engine.Config.Seed)
	seen := map[int64]bool{}
	for _, r := range results {
		seed := r.Reports[0].Seed
		for _, rep := range r.Reports {
			assert.Equal(t, seed, rep.Seed, "one seed per set")
		}
		seen[seed] = true
	}
	assert.Len(t, seen, 4)
}

func TestEngineAnalyzeSetEmpty(t *testing.T) {
	engine := NewEngine(MonteCarloConfig{})
	_, err := engine.AnalyzeSet(context.Background(), techVision(), domain.NewScenarioSet())
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestEngineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(MonteCarloConfig{Iterations: 10, Seed: 1})
	_, err := engine.AnalyzeSet(ctx, techVision(), domain.DefaultScenarioSet())
	assert.True(t, errors.Is(err, context.Canceled))
}
