package costmodel

import (
	"strings"
	"time"

	"github.com/arborhq/planwise/internal/domain"
)

// TOUDistribution splits a load across the three time-of-use windows. The
// three shares sum to 1.
type TOUDistribution struct {
	PeakPct         float64
	OffPeakPct      float64
	SuperOffPeakPct float64
}

// Household-level baseline splits. Working from home shifts load out of the
// overnight window into daytime off-peak.
var (
	baselineResidential  = TOUDistribution{PeakPct: 0.20, OffPeakPct: 0.50, SuperOffPeakPct: 0.30}
	baselineWorkFromHome = TOUDistribution{PeakPct: 0.18, OffPeakPct: 0.58, SuperOffPeakPct: 0.24}
)

// BaselineDistribution returns the household-level TOU split for a profile.
func BaselineDistribution(profile domain.UserProfile) TOUDistribution {
	if profile.HomeAttributes.WorkFromHome {
		return baselineWorkFromHome
	}
	return baselineResidential
}

// Cost prices a load against TOU rates using this distribution.
func (d TOUDistribution) Cost(kwh float64, rates domain.TOURates) float64 {
	return kwh * (d.PeakPct*rates.PeakRate + d.OffPeakPct*rates.OffPeakRate + d.SuperOffPeakPct*rates.SuperOffPeakRate)
}

const defaultEVMonthlyKWh = 400

// EVMonthlyKWh returns the estimated monthly EV charging load.
func EVMonthlyKWh(attrs domain.HomeAttributes) float64 {
	if attrs.EVMonthlyKWhEstimate > 0 {
		return attrs.EVMonthlyKWhEstimate
	}
	return defaultEVMonthlyKWh
}

// ChargesOvernight detects overnight charging from the free-text schedule
// field.
func ChargesOvernight(attrs domain.HomeAttributes) bool {
	schedule := strings.ToLower(attrs.EVTypicalChargingTime)
	return strings.Contains(schedule, "11pm") || strings.Contains(schedule, "overnight")
}

// evCost prices the monthly EV load. Overnight chargers land 90% in super
// off-peak and 10% in off-peak; everyone else spreads 30/50/20 across
// peak/off-peak/super off-peak.
func evCost(kwh float64, overnight bool, rates domain.TOURates) float64 {
	if overnight {
		return kwh*0.90*rates.SuperOffPeakRate + kwh*0.10*rates.OffPeakRate
	}
	return kwh*0.30*rates.PeakRate + kwh*0.50*rates.OffPeakRate + kwh*0.20*rates.SuperOffPeakRate
}

const referencePoolGallons = 20000

// PoolMonthlyKWh estimates the pool equipment load for a calendar month,
// scaled linearly by pool size against a 20,000-gallon reference. This is the
// load subtracted from baseline inside the TOU cost model.
func PoolMonthlyKWh(month time.Month, poolSizeGallons int) float64 {
	size := float64(poolSizeGallons)
	if poolSizeGallons <= 0 {
		size = referencePoolGallons
	}
	factor := size / referencePoolGallons

	switch month {
	case time.May, time.June, time.July, time.August, time.September:
		return 450 * factor
	case time.March, time.April, time.October:
		return 250 * factor
	default:
		return 60 * factor
	}
}

// EstimatePoolKWh is the standalone seasonal pool estimate used for cost
// attribution reports. It uses the 500/250/70 reporting season bases, not the
// TOU cost model's 450/250/60 above.
func EstimatePoolKWh(month time.Month, poolSizeGallons int) float64 {
	size := float64(poolSizeGallons)
	if poolSizeGallons <= 0 {
		size = referencePoolGallons
	}
	factor := size / referencePoolGallons

	switch month {
	case time.May, time.June, time.July, time.August, time.September:
		return float64(int(500*factor + 0.5))
	case time.March, time.April, time.October:
		return float64(int(250*factor + 0.5))
	default:
		return float64(int(70*factor + 0.5))
	}
}

// PoolPortionCost prices the estimated pool load over a usage history at a
// flat rate.
func PoolPortionCost(usage domain.UsageHistory, rate float64, poolSizeGallons int) float64 {
	var cost float64
	for _, m := range usage {
		cost += EstimatePoolKWh(m.CalendarMonth(), poolSizeGallons) * rate
	}
	return domain.RoundCents(cost)
}
