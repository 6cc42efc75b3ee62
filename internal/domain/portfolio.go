package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidPortfolio = errors.New("invalid portfolio health")

// PortfolioHealth is the lender-side state sent alongside every
// evaluation so the agent can weigh portfolio risk against the applicant.
type PortfolioHealth struct {
	AvailableCapital          float64 `json:"availableCapital"`
	DelinquencyRate           float64 `json:"delinquencyRate"`
	MonthlyDisbursementTarget float64 `json:"monthlyDisbursementTarget"`
}

// Validate checks the portfolio values.
func (p PortfolioHealth) Validate() error {
	if p.AvailableCapital < 0 {
		return fmt.Errorf("%w: available capital must be non-negative, got %v", ErrInvalidPortfolio, p.AvailableCapital)
	}
	if p.DelinquencyRate < 0 || p.DelinquencyRate > 1 {
		return fmt.Errorf("%w: delinquency rate must be a fraction in [0, 1], got %v", ErrInvalidPortfolio, p.DelinquencyRate)
	}
	if p.MonthlyDisbursementTarget < 0 {
		return fmt.Errorf("%w: monthly disbursement target must be non-negative, got %v", ErrInvalidPortfolio, p.MonthlyDisbursementTarget)
	}
	return nil
}
