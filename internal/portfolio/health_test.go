package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soyeahso/scoredeck/internal/domain"
)

func TestBandFor(t *testing.T) {
	tests := []struct {
		rate float64
		want RiskBand
	}{
		{0, BandLow},
		{0.029, BandLow},
		{0.03, BandLow},
		{0.031, BandElevated},
		{0.05, BandElevated},
		{0.07, BandElevated},
		{0.071, BandCritical},
		{0.15, BandCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.rate), "rate %v", tt.rate)
	}
}

func TestSnap(t *testing.T) {
	snap := Snap(domain.PortfolioHealth{
		AvailableCapital:          1_000_000,
		DelinquencyRate:           0.035,
		MonthlyDisbursementTarget: 500_000,
	})

	assert.Equal(t, BandElevated, snap.RiskBand)
	assert.Equal(t, GaugeMax, snap.GaugeMax)
	assert.InDelta(t, 0.5, snap.TargetUtilization, 1e-9)
}

func TestSnapZeroCapital(t *testing.T) {
	snap := Snap(domain.PortfolioHealth{MonthlyDisbursementTarget: 500_000})
	assert.Equal(t, 0.0, snap.TargetUtilization)
	assert.Equal(t, BandLow, snap.RiskBand)
}
