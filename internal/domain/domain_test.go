package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplicant() Applicant {
	return Applicant{
		Age:             35,
		AnnualIncome:    50000,
		EmploymentYears: 3,
		DebtToIncome:    0.3,
	}
}

func TestApplicantValidate(t *testing.T) {
	require.NoError(t, validApplicant().Validate())
}

func TestApplicantValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Applicant)
	}{
		{"too young", func(a *Applicant) { a.Age = 17 }},
		{"too old", func(a *Applicant) { a.Age = 81 }},
		{"negative income", func(a *Applicant) { a.AnnualIncome = -1 }},
		{"negative employment", func(a *Applicant) { a.EmploymentYears = -0.5 }},
		{"negative debt ratio", func(a *Applicant) { a.DebtToIncome = -0.1 }},
		{"debt ratio over one", func(a *Applicant) { a.DebtToIncome = 1.2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validApplicant()
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidApplicant)
		})
	}
}

func TestApplicantValidateEdges(t *testing.T) {
	a := validApplicant()
	a.Age = MinAge
	assert.NoError(t, a.Validate())
	a.Age = MaxAge
	assert.NoError(t, a.Validate())
	a.DebtToIncome = 0
	assert.NoError(t, a.Validate())
	a.DebtToIncome = 1
	assert.NoError(t, a.Validate())
}

func TestPortfolioValidate(t *testing.T) {
	p := PortfolioHealth{
		AvailableCapital:          1_000_000,
		DelinquencyRate:           0.035,
		MonthlyDisbursementTarget: 500_000,
	}
	require.NoError(t, p.Validate())

	p.DelinquencyRate = 1.5
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPortfolio)

	p.DelinquencyRate = 0.035
	p.AvailableCapital = -1
	assert.Error(t, p.Validate())
}

func TestDecisionApproved(t *testing.T) {
	assert.True(t, Decision{Verdict: DecisionApproved}.Approved())
	assert.False(t, Decision{Verdict: "RECHAZADO"}.Approved())
	assert.False(t, Decision{}.Approved())
}
