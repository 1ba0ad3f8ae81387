package domain

// PrimaryConcern selects the fit-score weighting profile.
type PrimaryConcern string

const (
	ConcernCostSavings     PrimaryConcern = "cost_savings"
	ConcernRenewableEnergy PrimaryConcern = "renewable_energy"
	ConcernFlexibility     PrimaryConcern = "flexibility"
	ConcernBalanced        PrimaryConcern = "balanced"
)

// RenewablePriority maps to a minimum renewable percentage in plan filtering.
type RenewablePriority string

const (
	RenewableLow        RenewablePriority = "low"
	RenewableModerate   RenewablePriority = "moderate"
	RenewableHigh       RenewablePriority = "high"
	Renewable100Percent RenewablePriority = "100_percent"
)

// MinimumRenewable returns the renewable floor a plan must meet.
func (r RenewablePriority) MinimumRenewable() float64 {
	switch r {
	case RenewableModerate:
		return 50
	case RenewableHigh:
		return 75
	case Renewable100Percent:
		return 100
	default:
		return 0
	}
}

// CurrentPlan describes the plan a customer is on today.
type CurrentPlan struct {
	Provider             string        `json:"provider"`
	PlanID               string        `json:"plan_id"`
	PlanName             string        `json:"plan_name"`
	RatePerKWh           float64       `json:"rate_per_kwh,omitempty"`
	BuybackRate          float64       `json:"rate_per_kwh_buyback,omitempty"`
	MonthlyFee           float64       `json:"monthly_fee"`
	RateStructure        RateStructure `json:"rate_structure"`
	ContractStartDate    string        `json:"contract_start_date"`
	ContractLengthMonths int           `json:"contract_length_months"`
	EarlyTerminationFee  float64       `json:"early_termination_fee"`
	RenewablePercentage  float64       `json:"renewable_percentage"`
}

// ServiceAddress locates the metered premises.
type ServiceAddress struct {
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	State   string `json:"state"`
	Utility string `json:"utility"`
}

// RawCustomerData is layer 1 of the three-layer store: what the utility knows.
type RawCustomerData struct {
	CustomerID     string         `json:"customer_id"`
	ServiceAddress ServiceAddress `json:"service_address"`
	UsageHistory   UsageHistory   `json:"usage_history"`
	CurrentPlan    CurrentPlan    `json:"current_plan"`
}

// HomeAttributes captures the household sub-loads that shape time-of-use
// allocation and behavior detection.
type HomeAttributes struct {
	HomeType   string `json:"home_type,omitempty"`
	SquareFeet int    `json:"square_feet,omitempty"`
	Occupants  int    `json:"occupants,omitempty"`

	HasSolar      bool    `json:"has_solar"`
	SolarSystemKW float64 `json:"solar_system_kw,omitempty"`

	HasEV                 bool    `json:"has_ev"`
	EVMakeModel           string  `json:"ev_make_model,omitempty"`
	EVTypicalChargingTime string  `json:"ev_typical_charging_time,omitempty"`
	EVMonthlyKWhEstimate  float64 `json:"ev_monthly_kwh_estimate,omitempty"`

	HasPool         bool   `json:"has_pool"`
	PoolSizeGallons int    `json:"pool_size_gallons,omitempty"`
	PoolEquipment   string `json:"pool_equipment,omitempty"`
	PoolOptimized   bool   `json:"pool_optimized,omitempty"`

	WorkFromHome bool `json:"work_from_home"`
}

// Preferences are the stated customer preferences; request-level overrides are
// applied to a copy of the profile before scoring.
type Preferences struct {
	PrimaryConcern          PrimaryConcern    `json:"primary_concern"`
	RenewablePriority       RenewablePriority `json:"renewable_priority"`
	MaxContractMonths       int               `json:"max_contract_months"`
	WillingToChangeBehavior bool              `json:"willing_to_change_behavior,omitempty"`
}

// UserProfile is layer 2 of the three-layer store: what the customer told us.
type UserProfile struct {
	CustomerID string `json:"customer_id"`
	Personal   struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email,omitempty"`
	} `json:"personal"`
	HomeAttributes HomeAttributes `json:"home_attributes"`
	Preferences    Preferences    `json:"preferences"`
}

// RateTrend summarizes rate changes over the customer's tenure.
type RateTrend struct {
	Direction        string  `json:"direction"`
	OriginalRate     float64 `json:"original_rate"`
	CurrentRate      float64 `json:"current_rate"`
	TotalIncreasePct float64 `json:"total_increase_pct"`
	IncreasesCount   int     `json:"increases_count"`
}

// MarketComparison positions the customer's cost against the market average.
type MarketComparison struct {
	MarketAvgRate              float64 `json:"market_avg_rate"`
	OverpayingPct              float64 `json:"overpaying_pct"`
	EstimatedAnnualOverpayment float64 `json:"estimated_annual_overpayment"`
}

// UsageAnalysis is the precomputed usage profile.
type UsageAnalysis struct {
	PatternType         string  `json:"pattern_type"`
	PatternDescription  string  `json:"pattern_description"`
	TotalAnnualKWh      float64 `json:"total_annual_kwh"`
	AvgMonthlyKWh       float64 `json:"avg_monthly_kwh"`
	PeakMonth           string  `json:"peak_month,omitempty"`
	PeakKWh             float64 `json:"peak_kwh,omitempty"`
	LowMonth            string  `json:"low_month,omitempty"`
	LowKWh              float64 `json:"low_kwh,omitempty"`
	SeasonalVariancePct float64 `json:"seasonal_variance_pct"`
}

// FinancialAnalysis is the precomputed cost profile.
type FinancialAnalysis struct {
	CurrentAnnualCost  float64          `json:"current_annual_cost"`
	YearsOnCurrentPlan float64          `json:"years_on_current_plan"`
	RateTrend          RateTrend        `json:"rate_trend"`
	VsMarketAverage    MarketComparison `json:"vs_market_average"`
}

// CustomerInsights is layer 3 of the three-layer store: precomputed analytics.
// Read-only input to scoring and behavior detection.
type CustomerInsights struct {
	CustomerID          string            `json:"customer_id"`
	UsageAnalysis       UsageAnalysis     `json:"usage_analysis"`
	FinancialAnalysis   FinancialAnalysis `json:"financial_analysis"`
	CustomerSegment     string            `json:"customer_segment"`
	SegmentDescription  string            `json:"segment_description,omitempty"`
	EstimatedMaxSavings float64           `json:"estimated_max_savings,omitempty"`
}

// Well-known customer segments used by explanation templates.
const (
	SegmentLoyaltyPenaltyVictim = "loyalty_penalty_victim"
	SegmentVariableRateVictim   = "variable_rate_victim"
	SegmentSolarBuybackVictim   = "solar_buyback_victim"
	SegmentEVOwnerFlatRate      = "ev_owner_flat_rate"
	SegmentPoolOwnerPeakUsage   = "pool_owner_peak_usage"
)

// CustomerSummaryItem is a directory entry for the customer list endpoint.
type CustomerSummaryItem struct {
	CustomerID  string `json:"customer_id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// EnrichedCustomer bundles all three data layers for one customer.
type EnrichedCustomer struct {
	RawData  RawCustomerData  `json:"raw_data"`
	Profile  UserProfile      `json:"profile"`
	Insights CustomerInsights `json:"insights"`
}
