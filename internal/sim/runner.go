package sim

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soyeahso/scoredeck/internal/agentcore"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
)

// Progress is emitted after each applicant finishes, successfully or not.
type Progress struct {
	RunID      string             `json:"runId"`
	Completed  int                `json:"completed"`
	Total      int                `json:"total"`
	Evaluation *domain.Evaluation `json:"evaluation,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Summary aggregates a finished run.
type Summary struct {
	Evaluated    int     `json:"evaluated"`
	Approved     int     `json:"approved"`
	ApprovalRate float64 `json:"approvalRate"`
	MeanMLScore  float64 `json:"meanMlScore"`
	Failed       int     `json:"failed"`
}

// Result is the outcome of one simulation run.
type Result struct {
	RunID       string               `json:"runId"`
	Seed        int64                `json:"seed"`
	Requested   int                  `json:"requested"`
	Evaluations []*domain.Evaluation `json:"evaluations"`
	Errors      []string             `json:"errors,omitempty"`
	Summary     Summary              `json:"summary"`
	StartedAt   time.Time            `json:"startedAt"`
	FinishedAt  time.Time            `json:"finishedAt"`
}

// Engine runs scenario simulations through the scoring agent with
// bounded concurrency.
type Engine struct {
	invoker     agentcore.Invoker
	concurrency int
	log         *logging.Logger
}

// NewEngine creates a simulation engine.
func NewEngine(invoker agentcore.Invoker, concurrency int, log *logging.Logger) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{invoker: invoker, concurrency: concurrency, log: log.Sub("sim")}
}

// Run evaluates count synthetic applicants against the given portfolio
// baseline. Individual agent failures are recorded and the run continues;
// only context cancellation aborts the run. onProgress, if non-nil, is
// called after each applicant completes.
func (e *Engine) Run(ctx context.Context, count int, seed int64, health domain.PortfolioHealth, onProgress func(Progress)) (*Result, error) {
	return e.RunWithID(ctx, uuid.New().String(), count, seed, health, onProgress)
}

// RunWithID is Run with a caller-assigned run ID, for callers that need
// to hand out the ID before the run starts.
func (e *Engine) RunWithID(ctx context.Context, runID string, count int, seed int64, health domain.PortfolioHealth, onProgress func(Progress)) (*Result, error) {
	applicants := NewSampler(seed).Applicants(count)

	result := &Result{
		RunID:       runID,
		Seed:        seed,
		Requested:   count,
		Evaluations: make([]*domain.Evaluation, 0, count),
		StartedAt:   time.Now(),
	}

	e.log.Info().
		Str("runId", runID).
		Int("count", count).
		Int64("seed", seed).
		Int("concurrency", e.concurrency).
		Msg("simulation run starting")

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, a := range applicants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			eval, err := e.invoker.Evaluate(gctx, a, health)

			mu.Lock()
			completed++
			p := Progress{RunID: runID, Completed: completed, Total: count}
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
				p.Error = err.Error()
				e.log.Warn().Err(err).Str("runId", runID).Msg("applicant evaluation failed")
			} else {
				result.Evaluations = append(result.Evaluations, eval)
				p.Evaluation = eval
			}
			mu.Unlock()

			if onProgress != nil {
				onProgress(p)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now()
	result.Summary = summarize(result)

	e.log.Info().
		Str("runId", runID).
		Int("evaluated", result.Summary.Evaluated).
		Int("approved", result.Summary.Approved).
		Int("failed", result.Summary.Failed).
		Float64("meanScore", result.Summary.MeanMLScore).
		Msg("simulation run finished")

	return result, nil
}

func summarize(r *Result) Summary {
	s := Summary{
		Evaluated: len(r.Evaluations),
		Failed:    len(r.Errors),
	}
	if s.Evaluated == 0 {
		return s
	}

	var scoreSum float64
	for _, eval := range r.Evaluations {
		scoreSum += eval.MLScore
		if eval.Decision.Approved() {
			s.Approved++
		}
	}
	s.ApprovalRate = float64(s.Approved) / float64(s.Evaluated)
	s.MeanMLScore = scoreSum / float64(s.Evaluated)
	return s
}
