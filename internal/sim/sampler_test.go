package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerDeterministic(t *testing.T) {
	a := NewSampler(42).Applicants(20)
	b := NewSampler(42).Applicants(20)
	assert.Equal(t, a, b)
}

func TestSamplerSeedChangesStream(t *testing.T) {
	a := NewSampler(42).Applicants(10)
	b := NewSampler(43).Applicants(10)
	assert.NotEqual(t, a, b)
}

func TestSamplerApplicantsValid(t *testing.T) {
	applicants := NewSampler(7).Applicants(500)
	require.Len(t, applicants, 500)

	for _, a := range applicants {
		require.NoError(t, a.Validate())
		assert.GreaterOrEqual(t, a.Age, 18.0)
		assert.LessOrEqual(t, a.Age, 70.0)
		assert.Greater(t, a.AnnualIncome, 0.0)
		assert.GreaterOrEqual(t, a.EmploymentYears, 0.0)
		assert.Less(t, a.EmploymentYears, 10.0)
		assert.Greater(t, a.DebtToIncome, 0.0)
		assert.Less(t, a.DebtToIncome, 1.0)
	}
}

func TestSamplerDistributionShape(t *testing.T) {
	applicants := NewSampler(1).Applicants(2000)

	var ageSum, debtSum float64
	for _, a := range applicants {
		ageSum += a.Age
		debtSum += a.DebtToIncome
	}

	// Age centers near 35 (clipping pulls the mean up slightly).
	assert.InDelta(t, 35.0, ageSum/2000, 2.0)
	// Beta(2,5) has mean 2/7.
	assert.InDelta(t, 2.0/7.0, debtSum/2000, 0.05)
}
