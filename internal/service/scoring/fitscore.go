// Package scoring filters the plan catalog, scores candidate plans against a
// customer's situation and preferences, and ranks them.
package scoring

import (
	"sort"

	"github.com/arborhq/planwise/internal/domain"
)

// Weights blends the four component scores into the composite fit score.
type Weights struct {
	Cost        float64
	Renewable   float64
	Flexibility float64
	Rating      float64
}

// WeightsFor selects the weighting profile for a customer's primary concern.
func WeightsFor(concern domain.PrimaryConcern) Weights {
	switch concern {
	case domain.ConcernCostSavings:
		return Weights{Cost: 0.70, Renewable: 0.10, Flexibility: 0.10, Rating: 0.10}
	case domain.ConcernRenewableEnergy:
		return Weights{Cost: 0.30, Renewable: 0.50, Flexibility: 0.10, Rating: 0.10}
	case domain.ConcernFlexibility:
		return Weights{Cost: 0.30, Renewable: 0.10, Flexibility: 0.50, Rating: 0.10}
	default:
		return Weights{Cost: 0.40, Renewable: 0.30, Flexibility: 0.15, Rating: 0.15}
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// costScore maps the savings ratio onto 0-100; a 20% savings ratio scores a
// perfect 100, no or negative savings scores 0.
func costScore(currentAnnualCost, projectedCost float64) float64 {
	if currentAnnualCost <= 0 {
		return 0
	}
	savingsRatio := (currentAnnualCost - projectedCost) / currentAnnualCost
	return clamp(savingsRatio*500, 0, 100)
}

func renewableScore(renewablePercentage float64) float64 {
	return clamp(renewablePercentage, 0, 100)
}

// flexibilityScore rewards shorter commitments; month-to-month is a 100.
func flexibilityScore(contractMonths int) float64 {
	switch {
	case contractMonths == 0:
		return 100
	case contractMonths <= 6:
		return 80
	case contractMonths <= 12:
		return 60
	case contractMonths <= 24:
		return 40
	default:
		return 20
	}
}

func ratingScore(rating float64) float64 {
	return rating / 5.0 * 100
}

// FitScore computes the 0-100 composite score for a plan with a projected
// cost, plus the component breakdown. The breakdown reflects the
// pre-adjustment component scores, each rounded to 2 decimals independently
// of the final clamp.
func FitScore(plan domain.Plan, projectedCost float64, insights domain.CustomerInsights, profile domain.UserProfile) (float64, domain.FitBreakdown) {
	weights := WeightsFor(profile.Preferences.PrimaryConcern)

	cost := domain.RoundCents(costScore(insights.FinancialAnalysis.CurrentAnnualCost, projectedCost))
	renewable := renewableScore(plan.RenewablePercentage)
	flex := flexibilityScore(plan.ContractLengthMonths)
	rating := domain.RoundCents(ratingScore(plan.SupplierRating))

	score := cost*weights.Cost + renewable*weights.Renewable + flex*weights.Flexibility + rating*weights.Rating

	// Adjustments, applied in order.
	if plan.EarlyTerminationFee > 200 {
		score -= 5
	}
	// Variable rates amplify cost swings for customers whose usage already
	// swings hard with the seasons.
	if plan.Structure == domain.RateStructureVariable && insights.UsageAnalysis.SeasonalVariancePct > 100 {
		score -= 10
	}
	if profile.HomeAttributes.HasEV && plan.TimeOfUse {
		score += 5
	}
	if profile.HomeAttributes.HasSolar && plan.SolarBuybackRate > 0.10 {
		score += 5
	}

	score = clamp(score, 0, 100)

	breakdown := domain.FitBreakdown{
		CostScore:        cost,
		RenewableScore:   renewable,
		FlexibilityScore: flex,
		RatingScore:      rating,
	}

	return domain.RoundCents(score), breakdown
}

// PlanWithCost pairs an eligible plan with its projected annual cost.
type PlanWithCost struct {
	Plan          domain.Plan
	ProjectedCost float64
}

// ScoreAndRank scores every candidate and returns them sorted descending by
// fit score. The sort is stable: plans with equal scores keep their input
// order.
func ScoreAndRank(plans []PlanWithCost, insights domain.CustomerInsights, profile domain.UserProfile) []domain.ScoredPlan {
	scored := make([]domain.ScoredPlan, len(plans))
	for i, pc := range plans {
		score, breakdown := FitScore(pc.Plan, pc.ProjectedCost, insights, profile)
		scored[i] = domain.ScoredPlan{
			Plan:          pc.Plan,
			ProjectedCost: pc.ProjectedCost,
			FitScore:      score,
			FitBreakdown:  breakdown,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FitScore > scored[j].FitScore
	})

	return scored
}
