package openai

import (
	"fmt"
	"strings"

	"github.com/arborhq/planwise/internal/domain"
)

// buildPrompt assembles the explanation prompt from the customer's situation
// and the recommended plan.
func buildPrompt(ectx domain.ExplanationContext) string {
	customer := ectx.Customer
	insights := customer.Insights
	profile := customer.Profile
	currentPlan := customer.RawData.CurrentPlan
	plan := ectx.Plan.Plan

	var mainIssue string
	switch insights.CustomerSegment {
	case domain.SegmentLoyaltyPenaltyVictim:
		mainIssue = fmt.Sprintf("Rate has increased %g%% over %g years",
			insights.FinancialAnalysis.RateTrend.TotalIncreasePct,
			insights.FinancialAnalysis.YearsOnCurrentPlan)
	case domain.SegmentVariableRateVictim:
		mainIssue = "Variable rates spike during high-usage months"
	case domain.SegmentSolarBuybackVictim:
		mainIssue = fmt.Sprintf("Poor solar buyback rate of $%g/kWh", currentPlan.BuybackRate)
	case domain.SegmentEVOwnerFlatRate:
		mainIssue = "EV charging on flat-rate plan (not time-of-use optimized)"
	case domain.SegmentPoolOwnerPeakUsage:
		mainIssue = "Pool equipment running during peak hours"
	}

	var features []string
	if plan.RenewablePercentage == 100 {
		features = append(features, "100% renewable energy")
	}
	if plan.MonthlyFee == 0 {
		features = append(features, "No monthly fee")
	}
	if plan.SolarBuybackRate > 0.10 {
		features = append(features, fmt.Sprintf("Excellent solar buyback at $%g/kWh", plan.SolarBuybackRate))
	}
	if plan.TimeOfUse {
		features = append(features, "Time-of-use rates reward off-peak usage")
	}

	var featureList strings.Builder
	for _, f := range features {
		fmt.Fprintf(&featureList, "- %s\n", f)
	}

	planRate := 0.0
	if flat, ok := plan.FlatRate(); ok {
		planRate = flat
	} else if plan.Variable != nil {
		planRate = plan.Variable.BaseRate
	}

	return fmt.Sprintf(`You are an energy plan recommendation expert writing personalized explanations for customers.

## Customer Context

**Name:** %s
**Current Situation:**
- Usage Pattern: %s
- Current Plan: %s by %s
- Current Rate: $%g/kWh + $%g/month
- Current Annual Cost: $%g
- Time on Plan: %g years
- Main Issue: %s

**Customer Priorities:**
- Primary Concern: %s
- Renewable Preference: %s
- Max Contract: %d months

## Recommended Plan

**Plan:** %s by %s
**Rate:** $%g/kWh + $%g/month
**Structure:** %s
**Projected Annual Cost:** $%g
**Annual Savings:** $%g
**Renewable:** %g%%
**Contract:** %d months
**Key Features:**
%s
## Your Task

Generate a clear, friendly 2-sentence explanation for why this plan is recommended for THIS specific customer.

## Requirements

1. **Reference the customer's specific situation** - Use their actual usage pattern or current pain point
2. **Highlight the most compelling benefit** - Savings amount, renewable %%, or key feature like flexibility
3. **If month-to-month contract** - Emphasize the no-commitment flexibility advantage over locked contracts
4. **Use plain language** - Avoid jargon
5. **Be conversational** - Write like you're talking to a friend
6. **Keep it brief** - Exactly 2 sentences, no more

Generate the explanation now. Return ONLY the 2-sentence explanation. Do not include labels, JSON, or any formatting.`,
		profile.Personal.DisplayName,
		insights.UsageAnalysis.PatternDescription,
		currentPlan.PlanName, currentPlan.Provider,
		currentPlan.RatePerKWh, currentPlan.MonthlyFee,
		insights.FinancialAnalysis.CurrentAnnualCost,
		insights.FinancialAnalysis.YearsOnCurrentPlan,
		mainIssue,
		profile.Preferences.PrimaryConcern,
		profile.Preferences.RenewablePriority,
		profile.Preferences.MaxContractMonths,
		plan.Name, plan.Provider,
		planRate, plan.MonthlyFee,
		plan.Structure,
		ectx.Plan.ProjectedCost,
		ectx.Savings,
		plan.RenewablePercentage,
		plan.ContractLengthMonths,
		featureList.String(),
	)
}
