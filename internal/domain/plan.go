package domain

import (
	"encoding/json"
	"time"
)

type RateStructure string

const (
	RateStructureFixed     RateStructure = "fixed"
	RateStructureVariable  RateStructure = "variable"
	RateStructureTimeOfUse RateStructure = "time_of_use"
)

// FixedRates is the rate variant for flat-rate plans.
type FixedRates struct {
	RatePerKWh float64 `json:"rate_per_kwh"`
}

// VariableRates is the rate variant for seasonally variable plans.
type VariableRates struct {
	BaseRate   float64      `json:"rate_per_kwh_base"`
	PeakRate   float64      `json:"rate_per_kwh_peak"`
	PeakMonths []time.Month `json:"peak_months"`
}

// InPeak reports whether the given calendar month is billed at the peak rate.
func (v VariableRates) InPeak(month time.Month) bool {
	for _, m := range v.PeakMonths {
		if m == month {
			return true
		}
	}
	return false
}

// TOURates is the rate variant for time-of-use plans.
type TOURates struct {
	PeakRate         float64 `json:"rate_per_kwh_peak"`
	OffPeakRate      float64 `json:"rate_per_kwh_offpeak"`
	SuperOffPeakRate float64 `json:"rate_per_kwh_super_offpeak"`
}

// Plan is a supplier plan from the catalog. The rate fields form a tagged
// union keyed by Structure: exactly one of Fixed, Variable, TOU is populated
// for a well-formed plan. A mismatch is a catalog data error, surfaced as
// *InvalidPlanDataError by Validate, never a recoverable filter condition.
type Plan struct {
	ID       string `json:"plan_id"`
	Provider string `json:"provider"`
	Name     string `json:"plan_name"`

	Structure RateStructure  `json:"rate_structure"`
	Fixed     *FixedRates    `json:"-"`
	Variable  *VariableRates `json:"-"`
	TOU       *TOURates      `json:"-"`

	MonthlyFee           float64 `json:"monthly_fee"`
	ContractLengthMonths int     `json:"contract_length_months"`
	EarlyTerminationFee  float64 `json:"early_termination_fee"`
	RenewablePercentage  float64 `json:"renewable_percentage"`
	RenewableType        string  `json:"renewable_type,omitempty"`
	SupplierRating       float64 `json:"supplier_rating"`
	CustomerReviews      int     `json:"customer_reviews,omitempty"`

	// SolarBuybackRate is zero when the plan offers no buyback. A zero rate
	// behaves identically to no buyback in every code path.
	SolarBuybackRate float64 `json:"solar_buyback_rate,omitempty"`
	TimeOfUse        bool    `json:"time_of_use"`
	EVOptimized      bool    `json:"ev_optimized,omitempty"`

	FactSheetURL string `json:"fact_sheet_url,omitempty"`
	SpecialTerms string `json:"special_terms,omitempty"`
}

// planWire is the flat catalog wire format, where all rate fields live side by
// side and only the combination matching rate_structure is meaningful.
type planWire struct {
	ID       string `json:"plan_id"`
	Provider string `json:"provider"`
	Name     string `json:"plan_name"`

	Structure        RateStructure `json:"rate_structure"`
	RatePerKWh       *float64      `json:"rate_per_kwh"`
	BaseRate         *float64      `json:"rate_per_kwh_base"`
	PeakRate         *float64      `json:"rate_per_kwh_peak"`
	OffPeakRate      *float64      `json:"rate_per_kwh_offpeak"`
	SuperOffPeakRate *float64      `json:"rate_per_kwh_super_offpeak"`
	PeakMonths       []int         `json:"peak_months"`

	MonthlyFee           float64 `json:"monthly_fee"`
	ContractLengthMonths int     `json:"contract_length_months"`
	EarlyTerminationFee  float64 `json:"early_termination_fee"`
	RenewablePercentage  float64 `json:"renewable_percentage"`
	RenewableType        string  `json:"renewable_type"`
	SupplierRating       float64 `json:"supplier_rating"`
	CustomerReviews      int     `json:"customer_reviews"`

	SolarBuybackRate *float64 `json:"solar_buyback_rate"`
	TimeOfUse        bool     `json:"time_of_use"`
	EVOptimized      bool     `json:"ev_optimized"`

	FactSheetURL string `json:"fact_sheet_url"`
	SpecialTerms string `json:"special_terms"`
}

// UnmarshalJSON decodes the flat catalog format into the rate variant matching
// the declared structure. Rate fields for other structures are discarded.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var w planWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Plan{
		ID:                   w.ID,
		Provider:             w.Provider,
		Name:                 w.Name,
		Structure:            w.Structure,
		MonthlyFee:           w.MonthlyFee,
		ContractLengthMonths: w.ContractLengthMonths,
		EarlyTerminationFee:  w.EarlyTerminationFee,
		RenewablePercentage:  w.RenewablePercentage,
		RenewableType:        w.RenewableType,
		SupplierRating:       w.SupplierRating,
		CustomerReviews:      w.CustomerReviews,
		TimeOfUse:            w.TimeOfUse,
		EVOptimized:          w.EVOptimized,
		FactSheetURL:         w.FactSheetURL,
		SpecialTerms:         w.SpecialTerms,
	}
	if w.SolarBuybackRate != nil {
		p.SolarBuybackRate = *w.SolarBuybackRate
	}

	// A published flat rate is kept regardless of structure: the solar model
	// and the rough savings pre-filter settle against it.
	if w.RatePerKWh != nil {
		p.Fixed = &FixedRates{RatePerKWh: *w.RatePerKWh}
	}

	switch w.Structure {
	case RateStructureVariable:
		if w.BaseRate != nil && w.PeakRate != nil && len(w.PeakMonths) > 0 {
			months := make([]time.Month, len(w.PeakMonths))
			for i, m := range w.PeakMonths {
				months[i] = time.Month(m)
			}
			p.Variable = &VariableRates{BaseRate: *w.BaseRate, PeakRate: *w.PeakRate, PeakMonths: months}
		}
	case RateStructureTimeOfUse:
		if w.PeakRate != nil && w.OffPeakRate != nil && w.SuperOffPeakRate != nil {
			p.TOU = &TOURates{PeakRate: *w.PeakRate, OffPeakRate: *w.OffPeakRate, SuperOffPeakRate: *w.SuperOffPeakRate}
		}
	}

	return nil
}

// MarshalJSON emits the flat catalog format, the inverse of UnmarshalJSON.
func (p Plan) MarshalJSON() ([]byte, error) {
	w := planWire{
		ID:                   p.ID,
		Provider:             p.Provider,
		Name:                 p.Name,
		Structure:            p.Structure,
		MonthlyFee:           p.MonthlyFee,
		ContractLengthMonths: p.ContractLengthMonths,
		EarlyTerminationFee:  p.EarlyTerminationFee,
		RenewablePercentage:  p.RenewablePercentage,
		RenewableType:        p.RenewableType,
		SupplierRating:       p.SupplierRating,
		CustomerReviews:      p.CustomerReviews,
		TimeOfUse:            p.TimeOfUse,
		EVOptimized:          p.EVOptimized,
		FactSheetURL:         p.FactSheetURL,
		SpecialTerms:         p.SpecialTerms,
	}
	if p.SolarBuybackRate != 0 {
		rate := p.SolarBuybackRate
		w.SolarBuybackRate = &rate
	}
	if p.Fixed != nil {
		rate := p.Fixed.RatePerKWh
		w.RatePerKWh = &rate
	}
	if p.Variable != nil {
		base, peak := p.Variable.BaseRate, p.Variable.PeakRate
		w.BaseRate = &base
		w.PeakRate = &peak
		w.PeakMonths = make([]int, len(p.Variable.PeakMonths))
		for i, m := range p.Variable.PeakMonths {
			w.PeakMonths[i] = int(m)
		}
	}
	if p.TOU != nil {
		peak, off, super := p.TOU.PeakRate, p.TOU.OffPeakRate, p.TOU.SuperOffPeakRate
		w.PeakRate = &peak
		w.OffPeakRate = &off
		w.SuperOffPeakRate = &super
	}
	return json.Marshal(w)
}

// Validate checks that the rate variant required by the declared structure is
// present.
func (p *Plan) Validate() error {
	switch p.Structure {
	case RateStructureFixed:
		if p.Fixed == nil {
			return &InvalidPlanDataError{PlanID: p.ID, Reason: "fixed plan missing rate_per_kwh"}
		}
	case RateStructureVariable:
		if p.Variable == nil {
			return &InvalidPlanDataError{PlanID: p.ID, Reason: "variable plan missing base rate, peak rate or peak months"}
		}
	case RateStructureTimeOfUse:
		if p.TOU == nil {
			return &InvalidPlanDataError{PlanID: p.ID, Reason: "time-of-use plan missing peak, off-peak or super off-peak rate"}
		}
	default:
		return &InvalidPlanDataError{PlanID: p.ID, Reason: "unknown rate structure: " + string(p.Structure)}
	}
	return nil
}

// FlatRate returns the plan's flat per-kWh rate when one is published.
// Solar cost modeling and the rough savings pre-filter depend on it.
func (p *Plan) FlatRate() (float64, bool) {
	if p.Fixed == nil {
		return 0, false
	}
	return p.Fixed.RatePerKWh, true
}
