package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/soyeahso/scoredeck/internal/sim"
)

// RunStatus is the lifecycle state of a simulation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// RunState is the dashboard view of an in-flight or finished run.
type RunState struct {
	RunID     string      `json:"runId"`
	Status    RunStatus   `json:"status"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
	Error     string      `json:"error,omitempty"`
	Result    *sim.Result `json:"result,omitempty"`
}

// maxCompletedRuns bounds how many finished or failed runs the tracker
// retains. Completed runs live in history; the tracker only keeps a
// short tail so clients polling right after completion still get a hit.
const maxCompletedRuns = 32

// runTracker holds the state of recent simulation runs in memory so
// clients can poll while a run is in flight.
type runTracker struct {
	mu        sync.Mutex
	runs      map[string]*RunState
	completed []string // completed run IDs, oldest first
}

func newRunTracker() *runTracker {
	return &runTracker{runs: make(map[string]*RunState)}
}

func (t *runTracker) start(runID string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[runID] = &RunState{RunID: runID, Status: RunStatusRunning, Total: total}
}

func (t *runTracker) progress(runID string, completed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.runs[runID]; ok && completed > r.Completed {
		r.Completed = completed
	}
}

func (t *runTracker) finish(runID string, result *sim.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.runs[runID]; ok {
		r.Status = RunStatusFinished
		r.Completed = r.Total
		r.Result = result
		t.evictLocked(runID)
	}
}

func (t *runTracker) fail(runID string, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.runs[runID]; ok {
		r.Status = RunStatusFailed
		r.Error = errMsg
		t.evictLocked(runID)
	}
}

// evictLocked records runID as completed and drops the oldest completed
// entries beyond the retention cap. Running entries are never evicted.
func (t *runTracker) evictLocked(runID string) {
	t.completed = append(t.completed, runID)
	for len(t.completed) > maxCompletedRuns {
		delete(t.runs, t.completed[0])
		t.completed = t.completed[1:]
	}
}

// get returns a copy of the run state.
func (t *runTracker) get(runID string) (RunState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.runs[runID]
	if !ok {
		return RunState{}, false
	}
	return *r, true
}

// startSimulation launches a run in the background and returns its ID.
// The run is tied to the server lifetime, not the initiating request.
func (s *Server) startSimulation(count int, seed int64) string {
	runID := uuid.New().String()
	health := s.portfolioHealth()

	s.tracker.start(runID, count)
	s.metrics.RecordSimulationRun()

	s.runsWG.Add(1)
	go func() {
		defer s.runsWG.Done()

		result, err := s.engine.RunWithID(s.runCtx, runID, count, seed, health, func(p sim.Progress) {
			s.tracker.progress(p.RunID, p.Completed)
			s.hub.Broadcast(EventSimProgress, p)
		})
		if err != nil {
			s.tracker.fail(runID, err.Error())
			s.hub.Broadcast(EventSimFinished, RunState{
				RunID: runID, Status: RunStatusFailed, Total: count, Error: err.Error(),
			})
			if !errors.Is(err, context.Canceled) {
				s.log.Error().Err(err).Str("runId", runID).Msg("simulation run failed")
			}
			return
		}

		if err := s.history.RecordRun(result); err != nil {
			s.log.Error().Err(err).Str("runId", runID).Msg("recording run failed")
		}
		for _, eval := range result.Evaluations {
			s.metrics.RecordEvaluation(eval.Decision.Verdict, eval.Cached, float64(eval.LatencyMS)/1000)
		}

		s.tracker.finish(runID, result)
		s.hub.Broadcast(EventSimFinished, RunState{
			RunID: runID, Status: RunStatusFinished,
			Completed: count, Total: count, Result: result,
		})
	}()

	return runID
}
