package scoring

import (
	"testing"

	"github.com/arborhq/planwise/internal/domain"
)

func filterProfile(maxContract int, renewable domain.RenewablePriority) domain.UserProfile {
	var p domain.UserProfile
	p.Preferences.MaxContractMonths = maxContract
	p.Preferences.RenewablePriority = renewable
	return p
}

func filterInsights(annualCost, avgMonthlyKWh float64) domain.CustomerInsights {
	return domain.CustomerInsights{
		UsageAnalysis:     domain.UsageAnalysis{AvgMonthlyKWh: avgMonthlyKWh},
		FinancialAnalysis: domain.FinancialAnalysis{CurrentAnnualCost: annualCost},
	}
}

func fixedPlan(id string, rate float64, contractMonths int, renewablePct float64) domain.Plan {
	return domain.Plan{
		ID:                   id,
		Structure:            domain.RateStructureFixed,
		Fixed:                &domain.FixedRates{RatePerKWh: rate},
		ContractLengthMonths: contractMonths,
		RenewablePercentage:  renewablePct,
	}
}

func TestFilterPlans_ContractLength(t *testing.T) {
	// Arrange
	plans := []domain.Plan{
		fixedPlan("short", 0.10, 12, 50),
		fixedPlan("long", 0.10, 36, 50),
	}
	profile := filterProfile(24, domain.RenewableLow)
	insights := filterInsights(1920, 1000)

	// Act
	eligible := FilterPlans(plans, profile, insights)

	// Assert
	if len(eligible) != 1 || eligible[0].ID != "short" {
		t.Errorf("expected only the 12-month plan to survive, got %v", planIDs(eligible))
	}
}

func TestFilterPlans_RenewableFloor(t *testing.T) {
	// Arrange
	plans := []domain.Plan{
		fixedPlan("dirty", 0.10, 12, 20),
		fixedPlan("green", 0.10, 12, 80),
	}
	profile := filterProfile(24, domain.RenewableHigh)
	insights := filterInsights(1920, 1000)

	// Act
	eligible := FilterPlans(plans, profile, insights)

	// Assert
	if len(eligible) != 1 || eligible[0].ID != "green" {
		t.Errorf("expected only the 80%% renewable plan to survive, got %v", planIDs(eligible))
	}
}

func TestFilterPlans_SavingsThreshold(t *testing.T) {
	// Current cost 1500; a 0.12 plan on 1000 kWh/month projects 1440, which
	// clears only $60 of the $50 floor; a 0.125 plan projects 1500 and fails.

	// Arrange
	plans := []domain.Plan{
		fixedPlan("saves", 0.12, 12, 50),
		fixedPlan("breaks_even", 0.125, 12, 50),
	}
	profile := filterProfile(24, domain.RenewableLow)
	insights := filterInsights(1500, 1000)

	// Act
	eligible := FilterPlans(plans, profile, insights)

	// Assert
	if len(eligible) != 1 || eligible[0].ID != "saves" {
		t.Errorf("expected only the saving plan to survive, got %v", planIDs(eligible))
	}
}

func TestFilterPlans_LowCostCustomerSkipsSavingsRule(t *testing.T) {
	// A near-self-sufficient solar household spends under $500/year; the
	// absolute-savings rule would empty the catalog for them.

	// Arrange
	plans := []domain.Plan{fixedPlan("any", 0.12, 12, 50)}
	profile := filterProfile(24, domain.RenewableLow)
	insights := filterInsights(320, 900)

	// Act
	eligible := FilterPlans(plans, profile, insights)

	// Assert
	if len(eligible) != 1 {
		t.Errorf("expected the savings rule to be skipped, got %v", planIDs(eligible))
	}
}

func TestFilterPlans_SolarCustomerNeedsFlatRate(t *testing.T) {
	// Arrange
	tou := domain.Plan{
		ID:        "tou_only",
		Structure: domain.RateStructureTimeOfUse,
		TOU:       &domain.TOURates{PeakRate: 0.185, OffPeakRate: 0.098, SuperOffPeakRate: 0.045},
	}
	flat := fixedPlan("flat", 0.11, 12, 50)
	profile := filterProfile(24, domain.RenewableLow)
	profile.HomeAttributes.HasSolar = true
	insights := filterInsights(400, 300)

	// Act
	eligible := FilterPlans([]domain.Plan{tou, flat}, profile, insights)

	// Assert
	if len(eligible) != 1 || eligible[0].ID != "flat" {
		t.Errorf("expected only the flat-rate plan for a solar customer, got %v", planIDs(eligible))
	}
}

func TestFilterPlans_PreservesInputOrder(t *testing.T) {
	// Arrange
	plans := []domain.Plan{
		fixedPlan("a", 0.10, 12, 50),
		fixedPlan("b", 0.11, 12, 50),
		fixedPlan("c", 0.105, 12, 50),
	}
	profile := filterProfile(24, domain.RenewableLow)
	insights := filterInsights(1920, 1000)

	// Act
	eligible := FilterPlans(plans, profile, insights)

	// Assert
	ids := planIDs(eligible)
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("expected input order preserved, got %v", ids)
	}
}

func TestExclusionReasons(t *testing.T) {
	// Arrange
	plans := []domain.Plan{
		fixedPlan("long", 0.10, 36, 100),
		fixedPlan("dirty", 0.10, 12, 10),
	}
	profile := filterProfile(24, domain.RenewableHigh)

	// Act
	reasons := ExclusionReasons(plans, profile)

	// Assert
	if len(reasons) != 2 {
		t.Fatalf("expected 2 reasons, got %v", reasons)
	}
	if reasons[0] != ReasonContractTooLong || reasons[1] != ReasonRenewableTooLow {
		t.Errorf("unexpected reasons: %v", reasons)
	}

	// No plans filtered means no reasons.
	clean := []domain.Plan{fixedPlan("ok", 0.10, 12, 100)}
	if reasons := ExclusionReasons(clean, profile); len(reasons) != 0 {
		t.Errorf("expected no reasons, got %v", reasons)
	}
}

func planIDs(plans []domain.Plan) []string {
	ids := make([]string, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}
