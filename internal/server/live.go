package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ventureboard/risklab/internal/domain"
	"go.uber.org/zap"
)

const (
	liveReadLimit = 64 << 10
	liveIdle      = 5 * time.Minute
	liveWriteWait = 10 * time.Second

	// maxLiveScenarios caps the scenarios one session may hold, configured ones included.
	maxLiveScenarios = 32
)

// LiveRequest is one slider update from a dashboard session.
type LiveRequest struct {
	Scenario   string                      `json:"scenario"`
	Params     domain.SimulationParameters `json:"params"`
	Iterations int                         `json:"iterations,omitempty"`
	Seed       int64                       `json:"seed,omitempty"`
}

// LiveResponse answers a LiveRequest. Report carries the previous successful
// result for the scenario when the update fails, or null if there is none.
type LiveResponse struct {
	Status   string             `json:"status"`
	Scenario string             `json:"scenario"`
	Error    string             `json:"error,omitempty"`
	Report   *domain.RiskReport `json:"report"`
}

// liveSession holds the per-connection scenario set and the last good report per scenario.
type liveSession struct {
	startup domain.StartupProfile
	set     domain.ScenarioSet
	last    map[string]*domain.RiskReport
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	startup, err := s.analysis.Startup(r.URL.Query().Get("startup_id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	if !s.trackConn(conn) {
		goingAway(conn)
		return
	}
	defer s.untrackConn(conn)
	defer conn.Close()

	s.metrics.LiveSessions.Inc()
	defer s.metrics.LiveSessions.Dec()

	conn.SetReadLimit(liveReadLimit)
	sess := &liveSession{
		startup: startup,
		set:     s.scenarios,
		last:    make(map[string]*domain.RiskReport),
	}
	s.logger.Debug("live session opened", zap.String("startup", startup.ID), zap.String("remote", r.RemoteAddr))

	for {
		conn.SetReadDeadline(time.Now().Add(liveIdle))
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live session read failed", zap.Error(err))
			}
			break
		}

		resp := s.liveUpdate(r, sess, req)
		s.metrics.LiveUpdates.WithLabelValues(resp.Status).Inc()

		conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug("live session write failed", zap.Error(err))
			break
		}
	}
	s.logger.Debug("live session closed", zap.String("startup", startup.ID))
}

func (s *Server) liveUpdate(r *http.Request, sess *liveSession, req LiveRequest) LiveResponse {
	if req.Scenario == "" {
		req.Scenario = domain.ScenarioBase
	}
	resp := LiveResponse{Status: "failed", Scenario: req.Scenario, Error: "simulation failed", Report: sess.last[req.Scenario]}

	if _, err := sess.set.Get(req.Scenario); err != nil && sess.set.Len() >= maxLiveScenarios {
		s.logger.Debug("live update rejected", zap.String("scenario", req.Scenario), zap.Int("scenarios", sess.set.Len()))
		return resp
	}
	next := sess.set.With(req.Scenario, req.Params)
	scenario, err := next.Get(req.Scenario)
	if err != nil {
		return resp
	}
	_, _, cfg, err := s.resolve(SimulateRequest{
		StartupID:  sess.startup.ID,
		Scenario:   req.Scenario,
		Params:     &scenario.Params,
		Iterations: req.Iterations,
		Seed:       req.Seed,
	})
	if err != nil {
		s.logger.Debug("live update rejected", zap.String("scenario", req.Scenario), zap.Error(err))
		return resp
	}

	report, err := s.run(r.Context(), sess.startup, scenario, cfg, false)
	if err != nil {
		s.logger.Warn("live update failed", zap.String("scenario", req.Scenario), zap.Error(err))
		return resp
	}
	sess.set = next
	sess.last[req.Scenario] = report
	return LiveResponse{Status: "ok", Scenario: req.Scenario, Report: report}
}
