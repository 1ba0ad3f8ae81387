// Package behavior runs rule-based post-hoc analysis of the winning plan and
// produces lifestyle-change suggestions with their own savings and payback
// math.
package behavior

import (
	"fmt"
	"math"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/service/costmodel"
)

// Defaults used when the winning plan does not publish the relevant TOU rate.
const (
	defaultSuperOffPeakRate = 0.045
	defaultPeakRate         = 0.160

	// A small share of charging inevitably lands outside the super
	// off-peak window; priced at a fixed blended rate.
	evSpilloverRate = 0.075

	// Monthly pool equipment load assumed by the detector. Independent of
	// pool size; a known simplification versus the seasonal estimate in the
	// cost model.
	avgPoolMonthlyKWh = 350

	poolTimerCost = 75
)

// Detect runs each detector against the recommended plan and returns the
// opportunities that fire. Each detector is independent; the result is nil
// when none fire.
func Detect(profile domain.UserProfile, raw domain.RawCustomerData, insights domain.CustomerInsights, bestPlan domain.Plan) []domain.BehaviorOpportunity {
	var opportunities []domain.BehaviorOpportunity

	if profile.HomeAttributes.HasEV {
		if opp := detectEVOptimization(profile, insights, bestPlan); opp != nil {
			opportunities = append(opportunities, *opp)
		}
	}

	if profile.HomeAttributes.HasPool {
		if opp := detectPoolOptimization(profile, insights, bestPlan); opp != nil {
			opportunities = append(opportunities, *opp)
		}
	}

	return opportunities
}

// detectEVOptimization compares the customer's flat-rate EV charging cost
// against charging mostly in the super off-peak window. Only fires when the
// recommended plan is time-of-use.
func detectEVOptimization(profile domain.UserProfile, insights domain.CustomerInsights, plan domain.Plan) *domain.BehaviorOpportunity {
	if !plan.TimeOfUse {
		return nil
	}

	attrs := profile.HomeAttributes
	evKWh := costmodel.EVMonthlyKWh(attrs)
	currentRate := insights.FinancialAnalysis.RateTrend.CurrentRate

	superOffPeakRate := defaultSuperOffPeakRate
	if plan.TOU != nil {
		superOffPeakRate = plan.TOU.SuperOffPeakRate
	}

	currentMonthlyCost := evKWh * currentRate
	optimizedMonthlyCost := evKWh*0.90*superOffPeakRate + evKWh*0.10*evSpilloverRate
	annualSavings := math.Round((currentMonthlyCost - optimizedMonthlyCost) * 12)

	if costmodel.ChargesOvernight(attrs) {
		return &domain.BehaviorOpportunity{
			Type:     "ev_time_of_use_switch",
			Headline: "Keep Charging Overnight, Just Switch Plans",
			Summary: fmt.Sprintf(
				"You're already doing everything right by charging your %s overnight. The problem is your current plan charges a flat rate no matter when you use electricity. A time-of-use plan rewards your smart charging habits with super off-peak rates of just $%g/kWh.",
				attrs.EVMakeModel, superOffPeakRate),
			CurrentBehavior:     fmt.Sprintf("Charging overnight on flat-rate plan at $%g/kWh", currentRate),
			RecommendedBehavior: fmt.Sprintf("Continue charging overnight, but on time-of-use plan at $%g/kWh super off-peak rate", superOffPeakRate),
			Implementation: domain.Implementation{
				Difficulty:      "easy",
				TimeToImplement: "No behavior change needed - just switch plans",
				Steps: []string{
					fmt.Sprintf("Switch to %s", plan.Name),
					"Keep your current charging schedule (11pm-7am)",
					"Track your savings in your account dashboard",
					"Enjoy lower EV charging costs immediately",
				},
			},
			SavingsSummary: fmt.Sprintf(
				"Your EV charging cost drops from $%.0f/month to $%.0f/month, saving you $%.0f per year with zero lifestyle changes.",
				math.Round(currentMonthlyCost), math.Round(optimizedMonthlyCost), annualSavings),
			LifestyleImpact:        "None. You're already charging at the optimal time. This is pure savings for what you're already doing.",
			Confidence:             0.87,
			EstimatedAnnualSavings: annualSavings,
		}
	}

	return &domain.BehaviorOpportunity{
		Type:     "ev_charging_optimization",
		Headline: "Charge Overnight and Save Big on EV Costs",
		Summary: fmt.Sprintf(
			"By switching your %s charging to overnight hours (11pm-7am) and moving to a time-of-use plan, you can cut your EV charging costs dramatically. The super off-peak rate of $%g/kWh is less than half your current rate.",
			attrs.EVMakeModel, superOffPeakRate),
		CurrentBehavior:     "Charging at various times on flat-rate plan",
		RecommendedBehavior: "Set charging timer to 11pm-7am on time-of-use plan",
		Implementation: domain.Implementation{
			Difficulty:      "easy",
			TimeToImplement: "5 minutes to set charging schedule in vehicle",
			Steps: []string{
				fmt.Sprintf("Switch to %s", plan.Name),
				"Open your vehicle app (Tesla app, etc.)",
				"Set charging schedule to start at 11pm",
				"Plug in when you get home, let it charge automatically overnight",
			},
		},
		SavingsSummary: fmt.Sprintf(
			"Your EV charging cost drops from $%.0f/month to $%.0f/month, saving you $%.0f per year.",
			math.Round(currentMonthlyCost), math.Round(optimizedMonthlyCost), annualSavings),
		LifestyleImpact:        "Minimal. Plug in when you get home, car charges while you sleep. Wake up to a full battery every morning.",
		Confidence:             0.85,
		EstimatedAnnualSavings: annualSavings,
	}
}

// detectPoolOptimization compares running pool equipment at peak rates versus
// shifting it overnight with a one-time timer purchase. Only fires when the
// recommended plan is time-of-use.
func detectPoolOptimization(profile domain.UserProfile, insights domain.CustomerInsights, plan domain.Plan) *domain.BehaviorOpportunity {
	if !plan.TimeOfUse {
		return nil
	}

	currentRate := insights.FinancialAnalysis.RateTrend.CurrentRate

	peakRate := defaultPeakRate
	superOffPeakRate := defaultSuperOffPeakRate
	if plan.TOU != nil {
		peakRate = plan.TOU.PeakRate
		superOffPeakRate = plan.TOU.SuperOffPeakRate
	}

	currentMonthlyCost := avgPoolMonthlyKWh * currentRate
	peakMonthlyCost := avgPoolMonthlyKWh * peakRate
	optimizedMonthlyCost := avgPoolMonthlyKWh * superOffPeakRate

	monthlyDelta := peakMonthlyCost - optimizedMonthlyCost
	annualSavingsOngoing := math.Round(monthlyDelta * 12)
	firstYearSavings := annualSavingsOngoing - poolTimerCost

	// Identical peak and super off-peak rates make the timer pointless and
	// the payback math degenerate; report no payback rather than divide by
	// zero.
	var payback *float64
	if monthlyDelta > 0 {
		p := math.Round(poolTimerCost/monthlyDelta*10) / 10
		payback = &p
	}

	return &domain.BehaviorOpportunity{
		Type:     "pool_timer_optimization",
		Headline: "Install a Timer, Run Pool Overnight, Save on Every Cycle",
		Summary: fmt.Sprintf(
			"Your pool equipment is likely running during expensive peak hours (afternoon/evening). A simple $%d programmable timer shifts operation to overnight super off-peak hours when electricity costs just $%g/kWh instead of $%g/kWh. Combined with switching to a time-of-use plan, this saves you big.",
			poolTimerCost, superOffPeakRate, peakRate),
		CurrentBehavior:     "Pool equipment running during peak hours (2pm-10pm)",
		RecommendedBehavior: "Install timer, run pool overnight (10pm-6am) on time-of-use plan",
		Implementation: domain.Implementation{
			Difficulty:      "easy",
			TimeToImplement: "30 minutes one-time setup",
			EquipmentNeeded: "Programmable timer (e.g., Intermatic T104)",
			EquipmentCost:   poolTimerCost,
			Steps: []string{
				fmt.Sprintf("Switch to %s", plan.Name),
				fmt.Sprintf("Purchase programmable timer ($%d at Home Depot/Amazon)", poolTimerCost),
				"Install timer on pool equipment circuit (DIY or electrician)",
				"Set timer to run 10pm-6am (8 hours)",
				"Pool stays clean, you save money while you sleep",
			},
		},
		SavingsSummary: fmt.Sprintf(
			"Pool costs drop from $%.0f/month to $%.0f/month. After the $%d timer investment, you save $%.0f in year 1, then $%.0f/year ongoing.",
			math.Round(currentMonthlyCost), math.Round(optimizedMonthlyCost), poolTimerCost, firstYearSavings, annualSavingsOngoing),
		LifestyleImpact:        "Zero. Pool is still clean and ready when you want to swim. Equipment just runs while you sleep instead of during the day.",
		Confidence:             0.90,
		EstimatedAnnualSavings: firstYearSavings,
		PaybackPeriodMonths:    payback,
	}
}
