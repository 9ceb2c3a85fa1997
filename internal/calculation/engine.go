package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
)

// Engine orchestrates simulate -> aggregate -> advise for a startup and its scenarios.
type Engine struct {
	Config     MonteCarloConfig
	KeepTrials bool // return full trajectories in each report

	Logger   *zap.Logger
	Observer Observer
}

// NewEngine creates an engine with a no-op logger and observer.
func NewEngine(config MonteCarloConfig) *Engine {
	if config.Iterations <= 0 {
		config.Iterations = DefaultIterations
	}
	if config.Horizon <= 0 {
		config.Horizon = DefaultHorizonMonths
	}
	return &Engine{
		Config:   config,
		Logger:   zap.NewNop(),
		Observer: NopObserver{},
	}
}

// SetLogger sets the engine logger. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	e.Logger = l
}

// SetObserver sets the run observer. If nil is provided, a no-op observer is used.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	e.Observer = o
}

// Analyze runs one scenario for a startup and returns the complete report.
func (e *Engine) Analyze(ctx context.Context, startup domain.StartupProfile, scenario domain.Scenario) (*domain.RiskReport, error) {
	return e.analyze(ctx, e.Config, startup, scenario)
}

func (e *Engine) analyze(ctx context.Context, cfg MonteCarloConfig, startup domain.StartupProfile, scenario domain.Scenario) (*domain.RiskReport, error) {
	start := nowFunc()
	report, err := e.evaluate(ctx, cfg, startup, scenario)
	elapsed := nowFunc().Sub(start)
	e.Observer.ObserveRun(scenario.Name, cfg.Iterations, elapsed, err)
	if err != nil {
		e.Logger.Warn("scenario analysis failed",
			zap.String("startup", startup.ID),
			zap.String("scenario", scenario.Name),
			zap.Error(err))
		return nil, err
	}
	report.Duration = elapsed

	e.Logger.Info("scenario analyzed",
		zap.String("run_id", report.RunID),
		zap.String("startup", startup.ID),
		zap.String("scenario", scenario.Name),
		zap.Int("iterations", report.Iterations),
		zap.Int64("seed", report.Seed),
		zap.Float64("median", report.Metrics.Median),
		zap.Float64("success_rate", report.Metrics.SuccessRate),
		zap.String("recommendation", string(report.Advice.Recommendation)),
		zap.Duration("elapsed", elapsed))
	return report, nil
}

func (e *Engine) evaluate(ctx context.Context, cfg MonteCarloConfig, startup domain.StartupProfile, scenario domain.Scenario) (*domain.RiskReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := startup.Validate(); err != nil {
		return nil, err
	}

	sim := NewMonteCarloSimulator(startup.Valuation, cfg)
	sim.SetLogger(e.Logger)

	var (
		trials []domain.TrialResult
		err    error
	)
	if cfg.Workers > 1 {
		trials, err = sim.RunParallel(ctx, scenario.Params, cfg.Iterations)
	} else {
		trials, err = sim.Simulate(scenario.Params, cfg.Iterations)
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	metrics, err := Aggregate(trials, startup.Valuation)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	report := &domain.RiskReport{
		RunID:       uuid.NewString(),
		StartupID:   startup.ID,
		StartupName: startup.Name,
		Scenario:    scenario.Name,
		Params:      scenario.Params,
		Baseline:    startup.Valuation,
		Iterations:  len(trials),
		Horizon:     sim.Horizon,
		Seed:        sim.Seed,
		Metrics:     metrics,
		Advice:      Advise(startup, metrics, scenario.Name),
		Band:        Band(trials),
		CreatedAt:   nowFunc().UTC(),
	}
	if e.KeepTrials {
		report.Trials = trials
	}
	return report, nil
}

// AnalyzeSet runs every scenario of the set in display order and stops at the first error.
// All scenarios share one seed so they are compared on the same draws.
func (e *Engine) AnalyzeSet(ctx context.Context, startup domain.StartupProfile, set domain.ScenarioSet) (*domain.AnalysisReport, error) {
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: no scenarios to analyze", domain.ErrInvalidArgument)
	}
	cfg := e.Config
	if cfg.Seed == 0 {
		cfg.Seed = seedFunc()
	}
	result := &domain.AnalysisReport{
		Startup:     startup,
		GeneratedAt: nowFunc().UTC(),
	}
	for _, sc := range set.Scenarios() {
		report, err := e.analyze(ctx, cfg, startup, sc)
		if err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, *report)
	}
	return result, nil
}
