package domain

import "time"

// DecisionApproved is the approval verdict the CRO agent emits. Other
// verdict strings are passed through untouched; the agent owns the taxonomy.
const DecisionApproved = "APROBADO"

// Decision is the agent's verdict on an applicant.
type Decision struct {
	Verdict         string `json:"verdict"`
	FinalScore      string `json:"finalScore,omitempty"`
	Rationale       string `json:"rationale,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
}

// Approved reports whether the verdict is an approval.
func (d Decision) Approved() bool {
	return d.Verdict == DecisionApproved
}

// Evaluation is the full outcome of scoring one applicant, including
// local metadata not produced by the agent.
type Evaluation struct {
	ID        string    `json:"id"`
	Applicant Applicant `json:"applicant"`
	MLScore   float64   `json:"mlScore"`
	Decision  Decision  `json:"decision"`
	Cached    bool      `json:"cached,omitempty"`
	Latency   time.Duration `json:"-"`
	LatencyMS int64     `json:"latencyMs"`
	CreatedAt time.Time `json:"createdAt"`
}
