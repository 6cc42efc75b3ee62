package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/portfolio"
	"github.com/soyeahso/scoredeck/internal/sim"
)

func TestEvaluationMarkdown(t *testing.T) {
	eval := &domain.Evaluation{
		ID:        "eval-1",
		Applicant: domain.Applicant{Age: 41, AnnualIncome: 62000, EmploymentYears: 7.5, DebtToIncome: 0.28},
		MLScore:   0.812,
		Decision: domain.Decision{
			Verdict:         domain.DecisionApproved,
			FinalScore:      "0.78",
			Rationale:       "stable income",
			Recommendations: "offer standard terms",
		},
		LatencyMS: 230,
		Cached:    true,
	}

	md := EvaluationMarkdown(eval)
	assert.Contains(t, md, "APROBADO")
	assert.Contains(t, md, "0.812")
	assert.Contains(t, md, "Rationale")
	assert.Contains(t, md, "offer standard terms")
	assert.Contains(t, md, "cached")
}

func TestEvaluationMarkdownRejected(t *testing.T) {
	md := EvaluationMarkdown(&domain.Evaluation{
		Decision: domain.Decision{Verdict: "RECHAZADO"},
	})
	assert.Contains(t, md, "❌ RECHAZADO")
	assert.NotContains(t, md, "Rationale")
}

func TestPortfolioMarkdown(t *testing.T) {
	snap := portfolio.Snap(domain.PortfolioHealth{
		AvailableCapital:          1_000_000,
		DelinquencyRate:           0.035,
		MonthlyDisbursementTarget: 500_000,
	})

	md := PortfolioMarkdown(snap)
	assert.Contains(t, md, "elevated")
	assert.Contains(t, md, "3.5%")
	assert.Contains(t, md, "50.0%")
}

func TestSimulationMarkdown(t *testing.T) {
	now := time.Now()
	md := SimulationMarkdown(&sim.Result{
		RunID:     "run-1",
		Seed:      42,
		Requested: 10,
		Errors:    []string{"runtime throttled"},
		Summary: sim.Summary{
			Evaluated: 9, Approved: 6, ApprovalRate: 6.0 / 9, MeanMLScore: 0.71, Failed: 1,
		},
		StartedAt:  now.Add(-2 * time.Second),
		FinishedAt: now,
	})

	assert.Contains(t, md, "run-1")
	assert.Contains(t, md, "6 (67%)")
	assert.Contains(t, md, "Errors")
	assert.Contains(t, md, "runtime throttled")
}

func TestNewRendererRenders(t *testing.T) {
	render := NewRenderer()
	out, err := render("# hello")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}
