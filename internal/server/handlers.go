package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ventureboard/risklab/internal/calculation"
	"github.com/ventureboard/risklab/internal/domain"
	"github.com/ventureboard/risklab/internal/store"
	"go.uber.org/zap"
)

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	StartupID     string                       `json:"startup_id"`
	Scenario      string                       `json:"scenario"`
	Params        *domain.SimulationParameters `json:"params,omitempty"`
	Iterations    int                          `json:"iterations,omitempty"`
	Seed          int64                        `json:"seed,omitempty"`
	IncludeTrials bool                         `json:"include_trials,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.RecordHTTP(route, rec.code, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownStartup), errors.Is(err, domain.ErrUnknownScenario), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// resolve turns a request into the startup, scenario and engine config to run.
func (s *Server) resolve(req SimulateRequest) (domain.StartupProfile, domain.Scenario, calculation.MonteCarloConfig, error) {
	cfg := s.simulation
	startup, err := s.analysis.Startup(req.StartupID)
	if err != nil {
		return startup, domain.Scenario{}, cfg, err
	}

	name := req.Scenario
	if name == "" {
		name = domain.ScenarioBase
	}
	var scenario domain.Scenario
	if req.Params != nil {
		scenario = domain.Scenario{Name: name, Params: *req.Params}
	} else if scenario, err = s.scenarios.Get(name); err != nil {
		return startup, scenario, cfg, err
	}

	switch {
	case req.Iterations < 0:
		return startup, scenario, cfg, fmt.Errorf("%w: iterations must be positive, got %d", domain.ErrInvalidArgument, req.Iterations)
	case req.Iterations > s.maxIterations:
		return startup, scenario, cfg, fmt.Errorf("%w: iterations %d exceed the limit of %d", domain.ErrInvalidArgument, req.Iterations, s.maxIterations)
	case req.Iterations > 0:
		cfg.Iterations = req.Iterations
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	return startup, scenario, cfg, nil
}

func (s *Server) run(ctx context.Context, startup domain.StartupProfile, scenario domain.Scenario, cfg calculation.MonteCarloConfig, keepTrials bool) (*domain.RiskReport, error) {
	engine := calculation.NewEngine(cfg)
	engine.KeepTrials = keepTrials
	engine.SetLogger(s.logger)
	engine.SetObserver(s.metrics)
	return engine.Analyze(ctx, startup, scenario)
}

// finish applies the optional narrative and history steps to a completed report.
// Failures are logged and never fail the request.
func (s *Server) finish(ctx context.Context, startup domain.StartupProfile, report *domain.RiskReport) {
	if s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, startup, report)
		if err != nil {
			s.metrics.NarrativeErrors.Inc()
			s.logger.Warn("narrative failed", zap.String("run_id", report.RunID), zap.Error(err))
		} else {
			report.Narrative = text
		}
	}

	if s.history != nil {
		if err := s.history.SaveRun(ctx, report); err != nil {
			s.logger.Warn("failed to save run", zap.String("run_id", report.RunID), zap.Error(err))
		} else {
			s.metrics.RunsStored.Inc()
		}
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	startup, scenario, cfg, err := s.resolve(req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	report, err := s.run(r.Context(), startup, scenario, cfg, req.IncludeTrials)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			s.logger.Error("simulation failed", zap.String("startup", startup.ID), zap.String("scenario", scenario.Name), zap.Error(err))
			writeError(w, code, "simulation failed")
			return
		}
		writeError(w, code, err.Error())
		return
	}
	s.finish(r.Context(), startup, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStartups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analysis.Startups)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Scenarios []domain.Scenario             `json:"scenarios"`
		Bounds    map[string]domain.SliderRange `json:"bounds"`
	}{s.scenarios.Scenarios(), domain.SliderBounds})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := s.history.ListRuns(r.Context(), r.URL.Query().Get("startup_id"), limit)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "run history is disabled")
		return
	}
	report, err := s.history.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			s.logger.Error("failed to load run", zap.Error(err))
			writeError(w, code, "failed to load run")
			return
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
