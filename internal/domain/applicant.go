// Package domain defines the core types shared across scoredeck:
// applicants, portfolio health, and evaluations.
package domain

import (
	"errors"
	"fmt"
)

// Applicant bounds accepted by the scoring agent.
const (
	MinAge          = 18
	MaxAge          = 80
	MaxDebtToIncome = 1.0
)

var ErrInvalidApplicant = errors.New("invalid applicant")

// Applicant is a single credit applicant submitted for evaluation.
type Applicant struct {
	Age             float64 `json:"age"`
	AnnualIncome    float64 `json:"annualIncome"`
	EmploymentYears float64 `json:"employmentYears"`
	DebtToIncome    float64 `json:"debtToIncome"`
}

// Validate checks the applicant against the ranges the agent accepts.
func (a Applicant) Validate() error {
	if a.Age < MinAge || a.Age > MaxAge {
		return fmt.Errorf("%w: age must be %d-%d, got %v", ErrInvalidApplicant, MinAge, MaxAge, a.Age)
	}
	if a.AnnualIncome < 0 {
		return fmt.Errorf("%w: annual income must be non-negative, got %v", ErrInvalidApplicant, a.AnnualIncome)
	}
	if a.EmploymentYears < 0 {
		return fmt.Errorf("%w: employment years must be non-negative, got %v", ErrInvalidApplicant, a.EmploymentYears)
	}
	if a.DebtToIncome < 0 || a.DebtToIncome > MaxDebtToIncome {
		return fmt.Errorf("%w: debt-to-income ratio must be 0-%v, got %v", ErrInvalidApplicant, MaxDebtToIncome, a.DebtToIncome)
	}
	return nil
}
