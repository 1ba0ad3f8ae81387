package recommendation

import (
	"fmt"
	"math"

	"github.com/arborhq/planwise/internal/domain"
)

// buildPlanRecommendation assembles one ranked response entry from a scored
// plan and its already-generated explanation.
func buildPlanRecommendation(sp domain.ScoredPlan, rank int, savings float64, explanation string) domain.PlanRecommendation {
	plan := sp.Plan

	impact := domain.FinancialImpact{
		ProjectedAnnualCost: sp.ProjectedCost,
		AnnualSavings:       domain.RoundCents(savings),
		MonthlySavings:      domain.RoundCents(savings / 12),
		Total5YrSavings:     domain.RoundCents(savings * 5),
	}
	if currentCost := sp.ProjectedCost + savings; currentCost != 0 {
		impact.SavingsPercentage = math.Round(savings/currentCost*10000) / 100
	}

	var benefits []string
	if savings > 100 {
		benefits = append(benefits, fmt.Sprintf("Save $%.0f annually compared to current plan", math.Round(savings)))
	}
	if plan.RenewablePercentage == 100 {
		benefits = append(benefits, "100% renewable energy")
	} else if plan.RenewablePercentage >= 75 {
		benefits = append(benefits, fmt.Sprintf("%g%% renewable energy", plan.RenewablePercentage))
	}
	if plan.MonthlyFee == 0 {
		benefits = append(benefits, "No monthly fee saves additional $120/year")
	}
	if plan.SolarBuybackRate > 0.10 {
		benefits = append(benefits, fmt.Sprintf("Excellent solar buyback rates ($%g/kWh)", plan.SolarBuybackRate))
	}
	if plan.TimeOfUse && plan.EVOptimized {
		benefits = append(benefits, "Optimized for EV charging with super off-peak rates")
	}
	if plan.SupplierRating >= 4.5 {
		benefits = append(benefits, fmt.Sprintf("Highly rated provider (%g/5 stars)", plan.SupplierRating))
	}

	var considerations []string
	if plan.EarlyTerminationFee > 0 {
		considerations = append(considerations, fmt.Sprintf("$%g early termination fee", plan.EarlyTerminationFee))
	}
	if plan.ContractLengthMonths > 12 {
		considerations = append(considerations, fmt.Sprintf("%d-month contract commitment", plan.ContractLengthMonths))
	}

	return domain.PlanRecommendation{
		Rank:                 rank,
		PlanID:               plan.ID,
		PlanName:             plan.Name,
		Provider:             plan.Provider,
		RatePerKWh:           headlineRate(plan),
		MonthlyFee:           plan.MonthlyFee,
		RateStructure:        plan.Structure,
		ContractLengthMonths: plan.ContractLengthMonths,
		RenewablePercentage:  plan.RenewablePercentage,
		FinancialImpact:      impact,
		FitScore:             sp.FitScore,
		FitBreakdown:         sp.FitBreakdown,
		Explanation:          explanation,
		KeyBenefits:          benefits,
		Considerations:       considerations,
		NextSteps: domain.NextSteps{
			Action:                  "switch_supplier",
			EstimatedTimeToComplete: "15 minutes online",
		},
	}
}

// headlineRate picks the single per-kWh figure shown in the plan header: the
// flat rate when published, otherwise the variable base rate.
func headlineRate(plan domain.Plan) float64 {
	if rate, ok := plan.FlatRate(); ok {
		return rate
	}
	if plan.Variable != nil {
		return plan.Variable.BaseRate
	}
	return 0
}

func buildCurrentPlanAnalysis(insights domain.CustomerInsights) domain.CurrentPlanAnalysis {
	fin := insights.FinancialAnalysis

	analysis := domain.CurrentPlanAnalysis{
		OverpayingEstimate: fin.VsMarketAverage.EstimatedAnnualOverpayment,
		VsMarketAveragePct: fin.VsMarketAverage.OverpayingPct,
		RateTrend:          fin.RateTrend.Direction,
	}
	if fin.YearsOnCurrentPlan >= 3 && fin.RateTrend.IncreasesCount >= 2 {
		analysis.LoyaltyPenalty = fmt.Sprintf(
			"You've experienced %d rate increases totaling %g%% over %g years",
			fin.RateTrend.IncreasesCount, fin.RateTrend.TotalIncreasePct, fin.YearsOnCurrentPlan,
		)
	}
	return analysis
}
