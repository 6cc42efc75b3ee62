package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/portfolio"
	"github.com/soyeahso/scoredeck/internal/sim"
	"github.com/soyeahso/scoredeck/internal/store"
	"github.com/soyeahso/scoredeck/internal/version"
)

// routes builds the dashboard router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/portfolio", s.handleGetPortfolio)
		r.Put("/portfolio", s.handlePutPortfolio)
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/evaluations", s.handleListEvaluations)
		r.Post("/simulations", s.handleStartSimulation)
		r.Get("/simulations", s.handleListSimulations)
		r.Get("/simulations/{id}", s.handleGetSimulation)
	})

	return r
}

// requireAuth rejects API requests without a valid bearer token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Authorize(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.Version,
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, portfolio.Snap(s.portfolioHealth()))
}

func (s *Server) handlePutPortfolio(w http.ResponseWriter, r *http.Request) {
	var health domain.PortfolioHealth
	if err := json.NewDecoder(r.Body).Decode(&health); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := health.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.setPortfolioHealth(health)
	snap := portfolio.Snap(health)
	s.hub.Broadcast(EventPortfolio, snap)
	writeJSON(w, http.StatusOK, snap)
}

type evaluateRequest struct {
	Applicant domain.Applicant `json:"applicant"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Applicant.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	eval, err := s.invoker.Evaluate(r.Context(), req.Applicant, s.portfolioHealth())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, agentcore.ErrAgentResponse) {
			s.log.Error().Err(err).Msg("agent returned malformed response")
		} else {
			s.log.Error().Err(err).Msg("agent invocation failed")
		}
		writeError(w, status, "agent invocation failed")
		return
	}

	s.metrics.RecordEvaluation(eval.Decision.Verdict, eval.Cached, eval.Latency.Seconds())
	if err := s.history.RecordEvaluation(eval); err != nil {
		s.log.Error().Err(err).Str("id", eval.ID).Msg("recording evaluation failed")
	}
	s.hub.Broadcast(EventEvaluation, eval)

	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	evals, err := s.history.ListEvaluations(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("listing evaluations failed")
		writeError(w, http.StatusInternalServerError, "listing evaluations failed")
		return
	}
	if evals == nil {
		evals = []domain.Evaluation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"evaluations": evals})
}

type simulationRequest struct {
	Count int    `json:"count"`
	Seed  *int64 `json:"seed,omitempty"`
}

func (s *Server) handleStartSimulation(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count := req.Count
	if count == 0 {
		count = s.cfg.Simulation.DefaultCount
	}
	if count < 1 || count > s.cfg.Simulation.MaxCount {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("count must be 1-%d", s.cfg.Simulation.MaxCount))
		return
	}

	seed := s.cfg.Simulation.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	runID := s.startSimulation(count, seed)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"runId":  runID,
		"status": RunStatusRunning,
		"count":  count,
		"seed":   seed,
	})
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	runs, err := s.history.ListRuns(0)
	if err != nil {
		s.log.Error().Err(err).Msg("listing runs failed")
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	if runs == nil {
		runs = []sim.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if state, ok := s.tracker.get(id); ok {
		writeJSON(w, http.StatusOK, state)
		return
	}

	result, err := s.history.GetRun(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("runId", id).Msg("loading run failed")
		writeError(w, http.StatusInternalServerError, "loading run failed")
		return
	}

	writeJSON(w, http.StatusOK, RunState{
		RunID: id, Status: RunStatusFinished,
		Completed: result.Requested, Total: result.Requested,
		Result: result,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
