// Package sim generates synthetic applicants and runs scenario
// simulations against the scoring agent.
package sim

import (
	"math"
	"math/rand"

	"github.com/soyeahso/scoredeck/internal/domain"
)

// Synthetic applicant distribution parameters. These mirror the profile
// the risk team uses for scenario runs: age roughly normal around 35,
// log-normal incomes, uniform employment history, right-skewed debt load.
const (
	ageMean   = 35.0
	ageStddev = 12.0
	ageFloor  = 18.0
	ageCeil   = 70.0

	incomeLogMean   = 10.0
	incomeLogStddev = 0.5

	employmentMaxYears = 10.0

	debtBetaAlpha = 2.0
	debtBetaBeta  = 5.0
)

// Sampler produces a deterministic stream of synthetic applicants.
// It is not safe for concurrent use; draw all applicants up front.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler seeded for reproducible runs.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Applicant draws one synthetic applicant.
func (s *Sampler) Applicant() domain.Applicant {
	return domain.Applicant{
		Age:             clip(ageMean+ageStddev*s.rng.NormFloat64(), ageFloor, ageCeil),
		AnnualIncome:    math.Exp(incomeLogMean + incomeLogStddev*s.rng.NormFloat64()),
		EmploymentYears: s.rng.Float64() * employmentMaxYears,
		DebtToIncome:    s.beta(debtBetaAlpha, debtBetaBeta),
	}
}

// Applicants draws n synthetic applicants.
func (s *Sampler) Applicants(n int) []domain.Applicant {
	out := make([]domain.Applicant, n)
	for i := range out {
		out[i] = s.Applicant()
	}
	return out
}

// beta samples Beta(a, b) as Gamma(a)/(Gamma(a)+Gamma(b)).
func (s *Sampler) beta(a, b float64) float64 {
	x := s.gamma(a)
	y := s.gamma(b)
	return x / (x + y)
}

// gamma samples Gamma(shape, 1) using Marsaglia-Tsang. Valid for shape >= 1,
// which covers both debt-ratio parameters.
func (s *Sampler) gamma(shape float64) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := s.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
