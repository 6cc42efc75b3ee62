package agentcore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/soyeahso/scoredeck/internal/domain"
)

// The CRO agent's wire contract uses Spanish field names. Keep them exactly
// as the runtime expects; the rest of the codebase speaks domain types.

type wireApplicant struct {
	Age             float64 `json:"edad"`
	AnnualIncome    float64 `json:"ingresos"`
	EmploymentYears float64 `json:"estabilidad_laboral"`
	DebtToIncome    float64 `json:"ratio_deuda_ingreso"`
}

type wirePortfolio struct {
	AvailableCapital          float64 `json:"capital_disponible"`
	DelinquencyRate           float64 `json:"tasa_mora_actual"`
	MonthlyDisbursementTarget float64 `json:"objetivo_mensual_desembolso"`
}

type wireRequest struct {
	Applicant wireApplicant `json:"cliente"`
	Portfolio wirePortfolio `json:"salud_cartera"`
}

type wireDecision struct {
	Verdict         string `json:"decision"`
	FinalScore      any    `json:"score_final"`
	Rationale       string `json:"justificacion"`
	Recommendations string `json:"recomendaciones"`
}

type wireResponse struct {
	MLScore  float64      `json:"score_ml"`
	Decision wireDecision `json:"decision"`
}

// EncodePayload builds the JSON request payload for the agent runtime.
// The encoding is deterministic (struct field order), so the bytes also
// serve as a cache key input.
func EncodePayload(a domain.Applicant, p domain.PortfolioHealth) ([]byte, error) {
	req := wireRequest{
		Applicant: wireApplicant{
			Age:             a.Age,
			AnnualIncome:    a.AnnualIncome,
			EmploymentYears: a.EmploymentYears,
			DebtToIncome:    a.DebtToIncome,
		},
		Portfolio: wirePortfolio{
			AvailableCapital:          p.AvailableCapital,
			DelinquencyRate:           p.DelinquencyRate,
			MonthlyDisbursementTarget: p.MonthlyDisbursementTarget,
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding agent payload: %w", err)
	}
	return data, nil
}

// decodeEvaluation parses the agent's response body into an Evaluation.
func decodeEvaluation(data []byte, a domain.Applicant) (*domain.Evaluation, error) {
	var resp wireResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAgentResponse, err)
	}

	finalScore := ""
	if resp.Decision.FinalScore != nil {
		finalScore = fmt.Sprint(resp.Decision.FinalScore)
	}

	return &domain.Evaluation{
		Applicant: a,
		MLScore:   resp.MLScore,
		Decision: domain.Decision{
			Verdict:         resp.Decision.Verdict,
			FinalScore:      finalScore,
			Rationale:       resp.Decision.Rationale,
			Recommendations: resp.Decision.Recommendations,
		},
		CreatedAt: time.Now(),
	}, nil
}
