// Package tui renders evaluation results for terminal output.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/portfolio"
	"github.com/soyeahso/scoredeck/internal/sim"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		// Fall back to raw markdown when the terminal can't be probed
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// EvaluationMarkdown formats one evaluation as markdown.
func EvaluationMarkdown(eval *domain.Evaluation) string {
	var b strings.Builder

	verdict := eval.Decision.Verdict
	if eval.Decision.Approved() {
		verdict = "✅ " + verdict
	} else {
		verdict = "❌ " + verdict
	}

	fmt.Fprintf(&b, "# Evaluation %s\n\n", eval.ID)
	fmt.Fprintf(&b, "**Verdict:** %s\n\n", verdict)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| ML score | %.3f |\n", eval.MLScore)
	if eval.Decision.FinalScore != "" {
		fmt.Fprintf(&b, "| Final score | %s |\n", eval.Decision.FinalScore)
	}
	fmt.Fprintf(&b, "| Age | %.0f |\n", eval.Applicant.Age)
	fmt.Fprintf(&b, "| Annual income | %.0f |\n", eval.Applicant.AnnualIncome)
	fmt.Fprintf(&b, "| Employment years | %.1f |\n", eval.Applicant.EmploymentYears)
	fmt.Fprintf(&b, "| Debt-to-income | %.2f |\n", eval.Applicant.DebtToIncome)
	fmt.Fprintf(&b, "| Latency | %dms |\n", eval.LatencyMS)
	if eval.Cached {
		fmt.Fprintf(&b, "| Source | cached |\n")
	}

	if eval.Decision.Rationale != "" {
		fmt.Fprintf(&b, "\n## Rationale\n\n%s\n", eval.Decision.Rationale)
	}
	if eval.Decision.Recommendations != "" {
		fmt.Fprintf(&b, "\n## Recommendations\n\n%s\n", eval.Decision.Recommendations)
	}
	return b.String()
}

// PortfolioMarkdown formats a portfolio snapshot as markdown.
func PortfolioMarkdown(snap portfolio.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio health\n\n")
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Risk band | %s |\n", snap.RiskBand)
	fmt.Fprintf(&b, "| Delinquency rate | %.1f%% |\n", snap.Health.DelinquencyRate*100)
	fmt.Fprintf(&b, "| Available capital | %.0f |\n", snap.Health.AvailableCapital)
	fmt.Fprintf(&b, "| Monthly target | %.0f |\n", snap.Health.MonthlyDisbursementTarget)
	fmt.Fprintf(&b, "| Target utilization | %.1f%% |\n", snap.TargetUtilization*100)
	return b.String()
}

// SimulationMarkdown formats a finished simulation run as markdown.
func SimulationMarkdown(result *sim.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Simulation %s\n\n", result.RunID)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Seed | %d |\n", result.Seed)
	fmt.Fprintf(&b, "| Requested | %d |\n", result.Requested)
	fmt.Fprintf(&b, "| Evaluated | %d |\n", result.Summary.Evaluated)
	fmt.Fprintf(&b, "| Approved | %d (%.0f%%) |\n", result.Summary.Approved, result.Summary.ApprovalRate*100)
	fmt.Fprintf(&b, "| Mean ML score | %.3f |\n", result.Summary.MeanMLScore)
	fmt.Fprintf(&b, "| Failed | %d |\n", result.Summary.Failed)
	fmt.Fprintf(&b, "| Duration | %s |\n", result.FinishedAt.Sub(result.StartedAt).Round(10*time.Millisecond))

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Errors\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}
