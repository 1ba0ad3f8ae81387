// Package costmodel projects the annual cost of a supplier plan under a
// customer's historical usage pattern. One pure function per rate structure,
// dispatched by ProjectAnnualCost.
package costmodel

import (
	"math"
	"time"

	"github.com/arborhq/planwise/internal/domain"
)

// ProjectAnnualCost computes the projected annual cost of a plan for a
// customer. Dispatch follows the plan's rate structure, with one exception:
// when the usage history carries solar generation data and the plan publishes
// both a flat rate and a buyback rate, the solar model applies regardless of
// structure. Missing rate fields for the selected model surface as
// *domain.InvalidPlanDataError.
func ProjectAnnualCost(usage domain.UsageHistory, plan domain.Plan, profile domain.UserProfile) (float64, error) {
	if usage.IsSolar() {
		if _, ok := plan.FlatRate(); ok && plan.SolarBuybackRate > 0 {
			return solarCost(usage, plan)
		}
	}

	switch plan.Structure {
	case domain.RateStructureFixed:
		return fixedRateCost(usage, plan)
	case domain.RateStructureVariable:
		return variableRateCost(usage, plan)
	case domain.RateStructureTimeOfUse:
		return touCost(usage, plan, profile)
	default:
		return 0, &domain.InvalidPlanDataError{PlanID: plan.ID, Reason: "unknown rate structure: " + string(plan.Structure)}
	}
}

func fixedRateCost(usage domain.UsageHistory, plan domain.Plan) (float64, error) {
	rate, ok := plan.FlatRate()
	if !ok {
		return 0, &domain.InvalidPlanDataError{PlanID: plan.ID, Reason: "fixed rate plan must have rate_per_kwh"}
	}

	var total float64
	for _, m := range usage {
		total += m.KWh * rate
	}
	total += plan.MonthlyFee * 12

	return domain.RoundCents(total), nil
}

func variableRateCost(usage domain.UsageHistory, plan domain.Plan) (float64, error) {
	if plan.Variable == nil {
		return 0, &domain.InvalidPlanDataError{PlanID: plan.ID, Reason: "variable rate plan must have base rate, peak rate and peak months"}
	}

	var total float64
	for _, m := range usage {
		rate := plan.Variable.BaseRate
		if plan.Variable.InPeak(m.CalendarMonth()) {
			rate = plan.Variable.PeakRate
		}
		total += m.KWh * rate
	}
	total += plan.MonthlyFee * 12

	return domain.RoundCents(total), nil
}

// touCost splits each month's consumption across the three rate windows.
// EV and pool sub-loads are carved out of the baseline first and priced by
// their own heuristics; the remainder follows the household-level split.
func touCost(usage domain.UsageHistory, plan domain.Plan, profile domain.UserProfile) (float64, error) {
	if plan.TOU == nil {
		return 0, &domain.InvalidPlanDataError{PlanID: plan.ID, Reason: "time-of-use plan must have peak, off-peak and super off-peak rates"}
	}

	rates := *plan.TOU
	attrs := profile.HomeAttributes
	dist := BaselineDistribution(profile)
	overnight := ChargesOvernight(attrs)

	var total float64
	for _, m := range usage {
		baseline := m.KWh

		if attrs.HasEV {
			evKWh := EVMonthlyKWh(attrs)
			baseline -= evKWh
			total += evCost(evKWh, overnight, rates)
		}

		if attrs.HasPool {
			poolKWh := PoolMonthlyKWh(m.CalendarMonth(), attrs.PoolSizeGallons)
			baseline -= poolKWh
			if attrs.PoolOptimized {
				total += poolKWh * rates.SuperOffPeakRate
			} else {
				// Equipment assumed to run through peak hours (2pm-10pm).
				total += poolKWh * rates.PeakRate
			}
		}

		total += dist.Cost(baseline, rates)
	}
	total += plan.MonthlyFee * 12

	return domain.RoundCents(total), nil
}

// solarCost settles each month's net grid position. Export credits accrue at
// the buyback rate into a rolling balance that offsets charges up to each
// month's bill; whatever is left after the final month is paid out, which can
// push the annual cost negative.
func solarCost(usage domain.UsageHistory, plan domain.Plan) (float64, error) {
	rate, ok := plan.FlatRate()
	if !ok || plan.SolarBuybackRate <= 0 {
		return 0, &domain.InvalidPlanDataError{PlanID: plan.ID, Reason: "solar plan must have rate_per_kwh and solar_buyback_rate"}
	}

	var annualCost, creditBalance float64
	for _, m := range usage {
		var monthlyCost float64

		if m.NetFromGrid > 0 {
			monthlyCost = m.NetFromGrid * rate
		}
		if m.NetToGrid > 0 {
			creditBalance += m.NetToGrid * plan.SolarBuybackRate
		}

		if creditBalance > 0 && monthlyCost > 0 {
			applied := math.Min(creditBalance, monthlyCost)
			monthlyCost -= applied
			creditBalance -= applied
		}

		annualCost += monthlyCost
	}

	annualCost += plan.MonthlyFee * 12
	annualCost -= creditBalance

	return domain.RoundCents(annualCost), nil
}

// CurrentAnnualCost prices a usage history against a flat-rate current plan.
func CurrentAnnualCost(usage domain.UsageHistory, plan domain.CurrentPlan) float64 {
	return domain.RoundCents(usage.TotalKWh()*plan.RatePerKWh + plan.MonthlyFee*12)
}

// YearsOnPlan returns plan tenure in years, to 1 decimal.
func YearsOnPlan(contractStart string, now time.Time) float64 {
	start, err := time.Parse("2006-01-02", contractStart)
	if err != nil {
		return 0
	}
	years := now.Sub(start).Hours() / (24 * 365.25)
	return math.Round(years*10) / 10
}
