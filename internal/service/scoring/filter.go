package scoring

import (
	"github.com/arborhq/planwise/internal/domain"
)

// Rough pre-filter constants. The estimate deliberately uses a flat default
// rate rather than the precise per-plan cost model that runs right after
// filtering; this is a known approximation carried over from the billing
// analytics and can exclude a plan the precise model would show as
// profitable.
const (
	defaultEstimateRate    = 0.12
	minEstimatedSavings    = 50
	lowCostCustomerCeiling = 500
)

// Exclusion reason tags reported in response metadata.
const (
	ReasonContractTooLong = "contract_too_long"
	ReasonRenewableTooLow = "renewable_too_low"
)

// FilterPlans applies the eligibility rules ahead of scoring. All rules must
// pass; input order is preserved for survivors.
func FilterPlans(plans []domain.Plan, profile domain.UserProfile, insights domain.CustomerInsights) []domain.Plan {
	minRenewable := profile.Preferences.RenewablePriority.MinimumRenewable()
	maxContract := profile.Preferences.MaxContractMonths
	hasSolar := profile.HomeAttributes.HasSolar

	// Customers with a very low current annual cost are effectively
	// self-sufficient solar households; absolute-dollar savings filters
	// would wrongly exclude everything for them.
	lowCostCustomer := insights.FinancialAnalysis.CurrentAnnualCost < lowCostCustomerCeiling

	eligible := make([]domain.Plan, 0, len(plans))
	for _, plan := range plans {
		if plan.ContractLengthMonths > maxContract {
			continue
		}
		if plan.RenewablePercentage < minRenewable {
			continue
		}

		// Solar customers need a flat settlement rate; plans without one
		// cannot be cost-modeled for them.
		if hasSolar {
			if _, ok := plan.FlatRate(); !ok {
				continue
			}
		}

		if !lowCostCustomer {
			rate := defaultEstimateRate
			if flat, ok := plan.FlatRate(); ok {
				rate = flat
			}
			estimatedCost := insights.UsageAnalysis.AvgMonthlyKWh * 12 * rate
			estimatedSavings := insights.FinancialAnalysis.CurrentAnnualCost - estimatedCost
			if estimatedSavings < minEstimatedSavings {
				continue
			}
		}

		eligible = append(eligible, plan)
	}

	return eligible
}

// ExclusionReasons reports which filter rules removed at least one plan from
// the catalog. It is a set of tags, not a per-plan breakdown.
func ExclusionReasons(plans []domain.Plan, profile domain.UserProfile) []string {
	reasons := make([]string, 0, 2)

	for _, p := range plans {
		if p.ContractLengthMonths > profile.Preferences.MaxContractMonths {
			reasons = append(reasons, ReasonContractTooLong)
			break
		}
	}

	minRenewable := profile.Preferences.RenewablePriority.MinimumRenewable()
	for _, p := range plans {
		if p.RenewablePercentage < minRenewable {
			reasons = append(reasons, ReasonRenewableTooLow)
			break
		}
	}

	return reasons
}
