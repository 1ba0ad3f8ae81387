package scoring

import (
	"math"
	"testing"

	"github.com/arborhq/planwise/internal/domain"
)

func approxEqual(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func insightsWithCost(annualCost float64) domain.CustomerInsights {
	return domain.CustomerInsights{
		FinancialAnalysis: domain.FinancialAnalysis{CurrentAnnualCost: annualCost},
	}
}

func profileWithConcern(concern domain.PrimaryConcern) domain.UserProfile {
	var p domain.UserProfile
	p.Preferences.PrimaryConcern = concern
	return p
}

func TestWeightsFor(t *testing.T) {
	// Arrange
	cases := []struct {
		concern domain.PrimaryConcern
		want    Weights
	}{
		{domain.ConcernCostSavings, Weights{0.70, 0.10, 0.10, 0.10}},
		{domain.ConcernRenewableEnergy, Weights{0.30, 0.50, 0.10, 0.10}},
		{domain.ConcernFlexibility, Weights{0.30, 0.10, 0.50, 0.10}},
		{domain.ConcernBalanced, Weights{0.40, 0.30, 0.15, 0.15}},
		{"", Weights{0.40, 0.30, 0.15, 0.15}},
	}

	for _, tc := range cases {
		// Act
		got := WeightsFor(tc.concern)

		// Assert
		if got != tc.want {
			t.Errorf("WeightsFor(%q): expected %+v, got %+v", tc.concern, tc.want, got)
		}
	}
}

func TestFitScore_CostSaverScenario(t *testing.T) {
	// A 37.5% savings ratio caps the cost component at 100.

	// Arrange
	plan := domain.Plan{
		ID:                   "plan_green",
		Structure:            domain.RateStructureFixed,
		Fixed:                &domain.FixedRates{RatePerKWh: 0.10},
		ContractLengthMonths: 12,
		EarlyTerminationFee:  125,
		RenewablePercentage:  100,
		SupplierRating:       4.6,
	}
	insights := insightsWithCost(1920)
	profile := profileWithConcern(domain.ConcernCostSavings)

	// Act
	score, breakdown := FitScore(plan, 1200, insights, profile)

	// Assert
	if breakdown.CostScore != 100 {
		t.Errorf("expected cost component 100, got %v", breakdown.CostScore)
	}
	if breakdown.RenewableScore != 100 {
		t.Errorf("expected renewable component 100, got %v", breakdown.RenewableScore)
	}
	if breakdown.FlexibilityScore != 60 {
		t.Errorf("expected flexibility component 60, got %v", breakdown.FlexibilityScore)
	}
	approxEqual(t, breakdown.RatingScore, 92, 0.01)
	// 100*0.7 + 100*0.1 + 60*0.1 + 92*0.1
	approxEqual(t, score, 95.2, 0.01)
}

func TestFitScore_MonotonicInSavings(t *testing.T) {
	// With everything else equal, a lower projected cost never scores
	// lower. Savings ratios stay inside the unclamped band so the cost
	// component actually moves.

	// Arrange
	plan := domain.Plan{
		ID:                   "plan_same",
		Structure:            domain.RateStructureFixed,
		Fixed:                &domain.FixedRates{RatePerKWh: 0.12},
		ContractLengthMonths: 12,
		RenewablePercentage:  50,
		SupplierRating:       4.0,
	}
	insights := insightsWithCost(2000)
	profile := profileWithConcern(domain.ConcernBalanced)

	// Act
	smaller, smallerBreakdown := FitScore(plan, 1900, insights, profile)
	larger, largerBreakdown := FitScore(plan, 1800, insights, profile)

	// Assert: savings ratios 5% and 10% map to cost components 25 and 50.
	approxEqual(t, smallerBreakdown.CostScore, 25, 0.01)
	approxEqual(t, largerBreakdown.CostScore, 50, 0.01)
	if larger <= smaller {
		t.Errorf("expected higher savings to outscore: %v (savings 200) vs %v (savings 100)", larger, smaller)
	}
}

func TestFitScore_MonotonicInRenewablePercentage(t *testing.T) {
	// Arrange: two plans identical except for renewable share.
	dirty := domain.Plan{
		ID:                   "plan_dirty",
		Structure:            domain.RateStructureFixed,
		Fixed:                &domain.FixedRates{RatePerKWh: 0.12},
		ContractLengthMonths: 12,
		RenewablePercentage:  30,
		SupplierRating:       4.0,
	}
	green := dirty
	green.ID = "plan_green"
	green.RenewablePercentage = 80

	insights := insightsWithCost(2000)
	profile := profileWithConcern(domain.ConcernRenewableEnergy)

	// Act
	dirtyScore, dirtyBreakdown := FitScore(dirty, 1800, insights, profile)
	greenScore, greenBreakdown := FitScore(green, 1800, insights, profile)

	// Assert
	if dirtyBreakdown.RenewableScore != 30 || greenBreakdown.RenewableScore != 80 {
		t.Errorf("unexpected renewable components %v, %v",
			dirtyBreakdown.RenewableScore, greenBreakdown.RenewableScore)
	}
	if greenScore <= dirtyScore {
		t.Errorf("expected greener plan to outscore: %v (80%%) vs %v (30%%)", greenScore, dirtyScore)
	}
	// The gap is exactly the renewable delta times its weight.
	approxEqual(t, greenScore-dirtyScore, 50*0.50, 0.01)
}

func TestFitScore_NoSavingsScoresZeroCost(t *testing.T) {
	// Arrange
	plan := domain.Plan{
		ID:                   "plan_pricier",
		ContractLengthMonths: 12,
		SupplierRating:       4.0,
	}
	insights := insightsWithCost(1200)

	// Act
	_, breakdown := FitScore(plan, 1500, insights, profileWithConcern(domain.ConcernCostSavings))

	// Assert
	if breakdown.CostScore != 0 {
		t.Errorf("expected cost component 0 for negative savings, got %v", breakdown.CostScore)
	}
}

func TestFitScore_ZeroCurrentCostGuard(t *testing.T) {
	// Arrange
	plan := domain.Plan{ID: "plan", ContractLengthMonths: 12, SupplierRating: 4.0}

	// Act
	_, breakdown := FitScore(plan, 1000, insightsWithCost(0), profileWithConcern(domain.ConcernCostSavings))

	// Assert
	if breakdown.CostScore != 0 {
		t.Errorf("expected cost component 0 for zero current cost, got %v", breakdown.CostScore)
	}
}

func TestFitScore_Adjustments(t *testing.T) {
	base := domain.Plan{
		ID:                   "plan_adj",
		Structure:            domain.RateStructureFixed,
		Fixed:                &domain.FixedRates{RatePerKWh: 0.12},
		ContractLengthMonths: 12,
		RenewablePercentage:  50,
		SupplierRating:       4.0,
	}
	insights := insightsWithCost(1920)
	profile := profileWithConcern(domain.ConcernCostSavings)
	baseScore, _ := FitScore(base, 1200, insights, profile)

	t.Run("high early termination fee", func(t *testing.T) {
		// Arrange
		plan := base
		plan.EarlyTerminationFee = 240

		// Act
		score, _ := FitScore(plan, 1200, insights, profile)

		// Assert
		approxEqual(t, score, baseScore-5, 0.01)
	})

	t.Run("variable rate with seasonal swing", func(t *testing.T) {
		// Arrange
		plan := base
		plan.Structure = domain.RateStructureVariable
		swingy := insights
		swingy.UsageAnalysis.SeasonalVariancePct = 140

		// Act
		score, _ := FitScore(plan, 1200, swingy, profile)

		// Assert
		approxEqual(t, score, baseScore-10, 0.01)
	})

	t.Run("tou plan for ev owner", func(t *testing.T) {
		// Arrange
		plan := base
		plan.TimeOfUse = true
		evProfile := profile
		evProfile.HomeAttributes.HasEV = true

		// Act
		score, _ := FitScore(plan, 1200, insights, evProfile)

		// Assert
		approxEqual(t, score, baseScore+5, 0.01)
	})

	t.Run("strong buyback for solar owner", func(t *testing.T) {
		// Arrange
		plan := base
		plan.SolarBuybackRate = 0.125
		solarProfile := profile
		solarProfile.HomeAttributes.HasSolar = true

		// Act
		score, _ := FitScore(plan, 1200, insights, solarProfile)

		// Assert
		approxEqual(t, score, baseScore+5, 0.01)
	})
}

func TestFitScore_ClampedToHundred(t *testing.T) {
	// Arrange
	plan := domain.Plan{
		ID:                  "plan_max",
		TimeOfUse:           true,
		SolarBuybackRate:    0.15,
		RenewablePercentage: 100,
		SupplierRating:      5.0,
	}
	profile := profileWithConcern(domain.ConcernCostSavings)
	profile.HomeAttributes.HasEV = true
	profile.HomeAttributes.HasSolar = true

	// Act
	score, _ := FitScore(plan, 100, insightsWithCost(5000), profile)

	// Assert
	if score > 100 {
		t.Errorf("expected score clamped to 100, got %v", score)
	}
	if score != 100 {
		t.Errorf("expected perfect plan to score 100, got %v", score)
	}
}

func TestScoreAndRank_OrdersByScoreDescending(t *testing.T) {
	// Arrange
	insights := insightsWithCost(1920)
	profile := profileWithConcern(domain.ConcernCostSavings)
	plans := []PlanWithCost{
		{Plan: domain.Plan{ID: "worse", ContractLengthMonths: 12, SupplierRating: 3.0}, ProjectedCost: 1900},
		{Plan: domain.Plan{ID: "best", ContractLengthMonths: 12, SupplierRating: 4.8, RenewablePercentage: 100}, ProjectedCost: 1200},
		{Plan: domain.Plan{ID: "middle", ContractLengthMonths: 12, SupplierRating: 4.0}, ProjectedCost: 1500},
	}

	// Act
	scored := ScoreAndRank(plans, insights, profile)

	// Assert
	if len(scored) != 3 {
		t.Fatalf("expected 3 scored plans, got %d", len(scored))
	}
	if scored[0].Plan.ID != "best" || scored[1].Plan.ID != "middle" || scored[2].Plan.ID != "worse" {
		t.Errorf("unexpected order: %s, %s, %s", scored[0].Plan.ID, scored[1].Plan.ID, scored[2].Plan.ID)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].FitScore > scored[i-1].FitScore {
			t.Errorf("scores not descending at index %d", i)
		}
	}
}

func TestScoreAndRank_StableForEqualScores(t *testing.T) {
	// Arrange
	insights := insightsWithCost(1920)
	profile := profileWithConcern(domain.ConcernCostSavings)
	twin := domain.Plan{ContractLengthMonths: 12, SupplierRating: 4.0, RenewablePercentage: 50}
	first, second := twin, twin
	first.ID = "first"
	second.ID = "second"

	// Act
	scored := ScoreAndRank([]PlanWithCost{
		{Plan: first, ProjectedCost: 1400},
		{Plan: second, ProjectedCost: 1400},
	}, insights, profile)

	// Assert
	if scored[0].Plan.ID != "first" || scored[1].Plan.ID != "second" {
		t.Errorf("expected input order preserved for ties, got %s then %s", scored[0].Plan.ID, scored[1].Plan.ID)
	}
}
