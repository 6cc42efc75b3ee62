package store

import (
	"fmt"
	"sync"

	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/sim"
)

// MemoryHistory implements History in memory. Used when history
// persistence is configured off, and in tests.
type MemoryHistory struct {
	mu    sync.Mutex
	evals []domain.Evaluation
	runs  []*sim.Result
}

// NewMemoryHistory creates an empty in-memory history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (m *MemoryHistory) RecordEvaluation(eval *domain.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evals = append(m.evals, *eval)
	return nil
}

func (m *MemoryHistory) ListEvaluations(limit int) ([]domain.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.evals)
	if limit > n {
		limit = n
	}
	out := make([]domain.Evaluation, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.evals[i])
	}
	return out, nil
}

func (m *MemoryHistory) RecordRun(result *sim.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *result
	m.runs = append(m.runs, &cp)
	return nil
}

func (m *MemoryHistory) GetRun(id string) (*sim.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.runs {
		if r.RunID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
}

func (m *MemoryHistory) ListRuns(limit int) ([]sim.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.runs)
	if limit > n {
		limit = n
	}
	out := make([]sim.Result, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		r := *m.runs[i]
		r.Evaluations = nil
		out = append(out, r)
	}
	return out, nil
}
