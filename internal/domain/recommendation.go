package domain

import "time"

// RecommendationRequest is the API request. CustomerID is required; the
// optional preference fields override the stored profile for this request only.
type RecommendationRequest struct {
	CustomerID  string `json:"customer_id"`
	Preferences *struct {
		Priority            PrimaryConcern    `json:"priority,omitempty"`
		RenewablePreference RenewablePriority `json:"renewable_preference,omitempty"`
		MaxContractMonths   *int              `json:"max_contract_months,omitempty"`
	} `json:"preferences,omitempty"`
}

// FitBreakdown holds the pre-adjustment component scores, each rounded to 2
// decimals.
type FitBreakdown struct {
	CostScore        float64 `json:"cost_score"`
	RenewableScore   float64 `json:"renewable_score"`
	FlexibilityScore float64 `json:"flexibility_score"`
	RatingScore      float64 `json:"rating_score"`
}

// ScoredPlan is a candidate plan with its projected cost and fit score.
// Created once per plan per request and never mutated after scoring.
type ScoredPlan struct {
	Plan          Plan         `json:"plan"`
	ProjectedCost float64      `json:"projected_cost"`
	FitScore      float64      `json:"fit_score"`
	FitBreakdown  FitBreakdown `json:"fit_breakdown"`
}

// FinancialImpact quantifies switching to a recommended plan.
type FinancialImpact struct {
	ProjectedAnnualCost float64 `json:"projected_annual_cost"`
	AnnualSavings       float64 `json:"annual_savings"`
	MonthlySavings      float64 `json:"monthly_savings"`
	SavingsPercentage   float64 `json:"savings_percentage"`
	Total5YrSavings     float64 `json:"total_5yr_savings"`
}

// NextSteps describes how to act on a recommendation.
type NextSteps struct {
	Action                  string `json:"action"`
	EstimatedTimeToComplete string `json:"estimated_time_to_complete"`
}

// PlanRecommendation is one ranked entry in the response.
type PlanRecommendation struct {
	Rank                 int             `json:"rank"`
	PlanID               string          `json:"plan_id"`
	PlanName             string          `json:"plan_name"`
	Provider             string          `json:"provider"`
	RatePerKWh           float64         `json:"rate_per_kwh,omitempty"`
	MonthlyFee           float64         `json:"monthly_fee"`
	RateStructure        RateStructure   `json:"rate_structure"`
	ContractLengthMonths int             `json:"contract_length_months"`
	RenewablePercentage  float64         `json:"renewable_percentage"`
	FinancialImpact      FinancialImpact `json:"financial_impact"`
	FitScore             float64         `json:"fit_score"`
	FitBreakdown         FitBreakdown    `json:"fit_breakdown"`
	Explanation          string          `json:"explanation"`
	KeyBenefits          []string        `json:"key_benefits"`
	Considerations       []string        `json:"considerations"`
	NextSteps            NextSteps       `json:"next_steps"`
}

// Implementation describes the setup work behind a behavior opportunity.
type Implementation struct {
	Difficulty      string   `json:"difficulty"`
	TimeToImplement string   `json:"time_to_implement"`
	EquipmentNeeded string   `json:"equipment_needed,omitempty"`
	EquipmentCost   float64  `json:"equipment_cost,omitempty"`
	Steps           []string `json:"steps"`
}

// BehaviorOpportunity is a non-plan-switch suggestion (charging or pool
// equipment timing) with its own savings and payback math. At most one per
// applicable household attribute, created fresh per request.
type BehaviorOpportunity struct {
	Type                   string         `json:"type"`
	Headline               string         `json:"headline"`
	Summary                string         `json:"summary"`
	CurrentBehavior        string         `json:"current_behavior"`
	RecommendedBehavior    string         `json:"recommended_behavior"`
	Implementation         Implementation `json:"implementation"`
	SavingsSummary         string         `json:"savings_summary"`
	LifestyleImpact        string         `json:"lifestyle_impact"`
	Confidence             float64        `json:"confidence"`
	EstimatedAnnualSavings float64        `json:"estimated_annual_savings"`
	PaybackPeriodMonths    *float64       `json:"payback_period_months,omitempty"`
}

// CurrentPlanAnalysis summarizes the customer's standing plan. LoyaltyPenalty
// is a non-empty advisory only when tenure >= 3 years with >= 2 rate
// increases.
type CurrentPlanAnalysis struct {
	OverpayingEstimate float64 `json:"overpaying_estimate"`
	VsMarketAveragePct float64 `json:"vs_market_average_pct"`
	RateTrend          string  `json:"rate_trend"`
	LoyaltyPenalty     string  `json:"loyalty_penalty"`
}

// Metadata records how the catalog was narrowed and where explanations came
// from. ExclusionReasons tags which filter rules removed at least one plan,
// not a per-plan reason list.
type Metadata struct {
	PlansAnalyzed     int      `json:"plans_analyzed"`
	PlansExcluded     int      `json:"plans_excluded"`
	ExclusionReasons  []string `json:"exclusion_reasons"`
	ExplanationSource string   `json:"ai_explanation_source"`
	FallbackUsed      bool     `json:"fallback_used"`
}

// CustomerSummary is the response header block.
type CustomerSummary struct {
	CustomerID        string  `json:"customer_id"`
	DisplayName       string  `json:"display_name"`
	CurrentAnnualCost float64 `json:"current_annual_cost"`
	AvgMonthlyKWh     float64 `json:"avg_monthly_kwh"`
	YearsOnPlan       float64 `json:"years_on_plan"`
}

// RecommendationResponse is the complete result of one recommendation run.
type RecommendationResponse struct {
	RequestID           string                `json:"request_id"`
	GeneratedAt         time.Time             `json:"generated_at"`
	ProcessingTimeMs    int64                 `json:"processing_time_ms"`
	CustomerSummary     CustomerSummary       `json:"customer_summary"`
	TopRecommendations  []PlanRecommendation  `json:"top_recommendations"`
	BehaviorSuggestions []BehaviorOpportunity `json:"behavior_suggestions"`
	CurrentPlanAnalysis CurrentPlanAnalysis   `json:"current_plan_analysis"`
	Metadata            Metadata              `json:"metadata"`
}

// ExplanationContext is everything an explainer needs to justify one plan to
// one customer.
type ExplanationContext struct {
	Customer EnrichedCustomer
	Plan     ScoredPlan
	Savings  float64
}
