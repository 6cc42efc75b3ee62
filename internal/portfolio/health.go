// Package portfolio assesses lender-side portfolio health.
package portfolio

import "github.com/soyeahso/scoredeck/internal/domain"

// RiskBand classifies the portfolio delinquency rate.
type RiskBand string

const (
	BandLow      RiskBand = "low"
	BandElevated RiskBand = "elevated"
	BandCritical RiskBand = "critical"
)

// Delinquency thresholds separating the bands, as fractions.
const (
	lowCeiling      = 0.03
	elevatedCeiling = 0.07
)

// GaugeMax is the top of the risk gauge scale shown on the dashboard.
const GaugeMax = 0.20

// BandFor returns the risk band for a delinquency rate.
func BandFor(rate float64) RiskBand {
	switch {
	case rate <= lowCeiling:
		return BandLow
	case rate <= elevatedCeiling:
		return BandElevated
	default:
		return BandCritical
	}
}

// Snapshot is the dashboard view of portfolio health.
type Snapshot struct {
	Health            domain.PortfolioHealth `json:"health"`
	RiskBand          RiskBand               `json:"riskBand"`
	GaugeMax          float64                `json:"gaugeMax"`
	TargetUtilization float64                `json:"targetUtilization"`
}

// Snap derives a Snapshot from the raw health values. Target utilization
// is the monthly disbursement target as a share of available capital;
// zero capital yields zero rather than a division error.
func Snap(h domain.PortfolioHealth) Snapshot {
	utilization := 0.0
	if h.AvailableCapital > 0 {
		utilization = h.MonthlyDisbursementTarget / h.AvailableCapital
	}
	return Snapshot{
		Health:            h,
		RiskBand:          BandFor(h.DelinquencyRate),
		GaugeMax:          GaugeMax,
		TargetUtilization: utilization,
	}
}
