package agentcore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/soyeahso/scoredeck/internal/domain"
)

// Mock is a test double for Invoker.
type Mock struct {
	EvaluateFunc func(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error)
}

func (m *Mock) Evaluate(ctx context.Context, a domain.Applicant, p domain.PortfolioHealth) (*domain.Evaluation, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, a, p)
	}
	return &domain.Evaluation{
		ID:        uuid.New().String(),
		Applicant: a,
		MLScore:   0.75,
		Decision: domain.Decision{
			Verdict:   domain.DecisionApproved,
			Rationale: "mock evaluation",
		},
		CreatedAt: time.Now(),
	}, nil
}
