package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/service/costmodel"
)

// Generator builds the demo dataset. One customer per segment archetype so
// every branch of scoring, filtering and behavior detection has a subject.
type Generator struct {
	outDir string
	log    *zap.Logger
}

func NewGenerator(outDir string, log *zap.Logger) *Generator {
	return &Generator{outDir: outDir, log: log}
}

func (g *Generator) Run() error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	customers := []seedCustomer{
		loyaltyPenaltyCustomer(),
		evOwnerCustomer(),
		solarOwnerCustomer(),
		poolOwnerCustomer(),
		variableRateCustomer(),
	}

	raw := make([]domain.RawCustomerData, len(customers))
	profiles := make([]domain.UserProfile, len(customers))
	insights := make([]domain.CustomerInsights, len(customers))
	for i, c := range customers {
		raw[i] = c.raw
		profiles[i] = c.profile
		insights[i] = buildInsights(c)
	}

	files := map[string]interface{}{
		"raw_utility_data.json": map[string]interface{}{"customers": raw},
		"user_profiles.json":    map[string]interface{}{"profiles": profiles},
		"system_analysis.json":  map[string]interface{}{"insights": insights},
		"supplier_plans.json":   map[string]interface{}{"plans": supplierPlans()},
	}
	for name, doc := range files {
		if err := g.writeFile(name, doc); err != nil {
			return err
		}
	}

	g.log.Info("Generated seed customers", zap.Int("customers", len(customers)))
	return nil
}

func (g *Generator) writeFile(name string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(g.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type seedCustomer struct {
	raw                domain.RawCustomerData
	profile            domain.UserProfile
	segment            string
	segmentDescription string
	patternType        string
	patternDescription string
	rateTrend          domain.RateTrend
	marketAvgRate      float64
}

// buildInsights derives the precomputed analysis layer from the raw data, the
// same arithmetic the analysis pipeline would run.
func buildInsights(c seedCustomer) domain.CustomerInsights {
	usage := c.raw.UsageHistory
	annualCost := costmodel.CurrentAnnualCost(usage, c.raw.CurrentPlan)
	years := costmodel.YearsOnPlan(c.raw.CurrentPlan.ContractStartDate, time.Now())

	analysis := domain.UsageAnalysis{
		PatternType:         c.patternType,
		PatternDescription:  c.patternDescription,
		TotalAnnualKWh:      usage.TotalKWh(),
		AvgMonthlyKWh:       usage.AvgMonthlyKWh(),
		SeasonalVariancePct: usage.SeasonalVariancePct(),
	}
	if peak, ok := usage.PeakMonth(); ok {
		analysis.PeakMonth = peak.Month
		analysis.PeakKWh = peak.KWh
	}
	if low, ok := usage.LowMonth(); ok {
		analysis.LowMonth = low.Month
		analysis.LowKWh = low.KWh
	}

	marketCost := usage.TotalKWh() * c.marketAvgRate
	overpayment := domain.RoundCents(annualCost - marketCost)
	overpayingPct := 0.0
	if marketCost > 0 {
		overpayingPct = domain.RoundCents((annualCost - marketCost) / marketCost * 100)
	}

	return domain.CustomerInsights{
		CustomerID:    c.raw.CustomerID,
		UsageAnalysis: analysis,
		FinancialAnalysis: domain.FinancialAnalysis{
			CurrentAnnualCost:  annualCost,
			YearsOnCurrentPlan: years,
			RateTrend:          c.rateTrend,
			VsMarketAverage: domain.MarketComparison{
				MarketAvgRate:              c.marketAvgRate,
				OverpayingPct:              overpayingPct,
				EstimatedAnnualOverpayment: overpayment,
			},
		},
		CustomerSegment:    c.segment,
		SegmentDescription: c.segmentDescription,
	}
}

// monthlyUsage builds a 12-month history from per-month kWh readings starting
// in January of last year.
func monthlyUsage(rate float64, kwh [12]float64) domain.UsageHistory {
	year := time.Now().Year() - 1
	history := make(domain.UsageHistory, 12)
	for i, v := range kwh {
		history[i] = domain.MonthlyUsage{
			Month:      fmt.Sprintf("%d-%02d", year, i+1),
			KWh:        v,
			BillAmount: domain.RoundCents(v * rate),
		}
	}
	return history
}

func austinAddress() domain.ServiceAddress {
	return domain.ServiceAddress{
		ZipCode: "78704",
		City:    "Austin",
		State:   "TX",
		Utility: "Austin Energy",
	}
}

func loyaltyPenaltyCustomer() seedCustomer {
	raw := domain.RawCustomerData{
		CustomerID:     "cust_001",
		ServiceAddress: austinAddress(),
		UsageHistory: monthlyUsage(0.165, [12]float64{
			980, 920, 870, 900, 1050, 1280, 1450, 1490, 1260, 1000, 930, 990,
		}),
		CurrentPlan: domain.CurrentPlan{
			Provider:             "Legacy Power Co",
			PlanID:               "legacy_standard",
			PlanName:             "Standard Residential",
			RatePerKWh:           0.165,
			MonthlyFee:           9.95,
			RateStructure:        domain.RateStructureFixed,
			ContractStartDate:    "2019-03-15",
			ContractLengthMonths: 12,
			EarlyTerminationFee:  0,
			RenewablePercentage:  12,
		},
	}
	profile := domain.UserProfile{CustomerID: raw.CustomerID}
	profile.Personal.DisplayName = "Margaret H."
	profile.HomeAttributes = domain.HomeAttributes{
		HomeType:   "single_family",
		SquareFeet: 2100,
		Occupants:  2,
	}
	profile.Preferences = domain.Preferences{
		PrimaryConcern:    domain.ConcernCostSavings,
		RenewablePriority: domain.RenewableLow,
		MaxContractMonths: 24,
	}
	return seedCustomer{
		raw:                raw,
		profile:            profile,
		segment:            domain.SegmentLoyaltyPenaltyVictim,
		segmentDescription: "Long-tenured customer paying well above market after repeated renewal rate increases",
		patternType:        "summer_peak",
		patternDescription: "Usage peaks in July and August with air conditioning load",
		rateTrend: domain.RateTrend{
			Direction:        "increasing",
			OriginalRate:     0.109,
			CurrentRate:      0.165,
			TotalIncreasePct: 51.4,
			IncreasesCount:   4,
		},
		marketAvgRate: 0.125,
	}
}

func evOwnerCustomer() seedCustomer {
	raw := domain.RawCustomerData{
		CustomerID:     "cust_002",
		ServiceAddress: austinAddress(),
		UsageHistory: monthlyUsage(0.142, [12]float64{
			1350, 1300, 1280, 1310, 1420, 1600, 1750, 1780, 1580, 1380, 1320, 1390,
		}),
		CurrentPlan: domain.CurrentPlan{
			Provider:             "TexFlat Energy",
			PlanID:               "texflat_12",
			PlanName:             "Simple Flat 12",
			RatePerKWh:           0.142,
			MonthlyFee:           0,
			RateStructure:        domain.RateStructureFixed,
			ContractStartDate:    "2024-06-01",
			ContractLengthMonths: 12,
			EarlyTerminationFee:  150,
			RenewablePercentage:  25,
		},
	}
	profile := domain.UserProfile{CustomerID: raw.CustomerID}
	profile.Personal.DisplayName = "Derek T."
	profile.HomeAttributes = domain.HomeAttributes{
		HomeType:              "single_family",
		SquareFeet:            2400,
		Occupants:             4,
		HasEV:                 true,
		EVMakeModel:           "Tesla Model Y",
		EVTypicalChargingTime: "after 11pm",
		EVMonthlyKWhEstimate:  420,
	}
	profile.Preferences = domain.Preferences{
		PrimaryConcern:          domain.ConcernCostSavings,
		RenewablePriority:       domain.RenewableModerate,
		MaxContractMonths:       24,
		WillingToChangeBehavior: true,
	}
	return seedCustomer{
		raw:                raw,
		profile:            profile,
		segment:            domain.SegmentEVOwnerFlatRate,
		segmentDescription: "EV owner charging overnight on a flat rate, missing time-of-use savings",
		patternType:        "high_baseload",
		patternDescription: "Consistently high usage with overnight EV charging on top of household load",
		rateTrend: domain.RateTrend{
			Direction:        "stable",
			OriginalRate:     0.142,
			CurrentRate:      0.142,
			TotalIncreasePct: 0,
			IncreasesCount:   0,
		},
		marketAvgRate: 0.125,
	}
}

func solarOwnerCustomer() seedCustomer {
	gen := func(v float64) *float64 { return &v }
	year := time.Now().Year() - 1
	consumption := [12]float64{900, 860, 880, 920, 1010, 1180, 1320, 1340, 1150, 950, 880, 910}
	generation := [12]float64{520, 580, 690, 760, 830, 870, 880, 850, 760, 650, 540, 480}

	history := make(domain.UsageHistory, 12)
	for i := 0; i < 12; i++ {
		net := consumption[i] - generation[i]
		rec := domain.MonthlyUsage{
			Month:          fmt.Sprintf("%d-%02d", year, i+1),
			ConsumptionKWh: consumption[i],
			GenerationKWh:  gen(generation[i]),
		}
		if net >= 0 {
			rec.KWh = net
			rec.NetFromGrid = net
		} else {
			rec.NetToGrid = -net
		}
		rec.BillAmount = domain.RoundCents(rec.NetFromGrid * 0.138)
		history[i] = rec
	}

	raw := domain.RawCustomerData{
		CustomerID:     "cust_003",
		ServiceAddress: austinAddress(),
		UsageHistory:   history,
		CurrentPlan: domain.CurrentPlan{
			Provider:             "SunState Electric",
			PlanID:               "sunstate_basic",
			PlanName:             "Solar Basic",
			RatePerKWh:           0.138,
			BuybackRate:          0.04,
			MonthlyFee:           14.95,
			RateStructure:        domain.RateStructureFixed,
			ContractStartDate:    "2023-08-01",
			ContractLengthMonths: 24,
			EarlyTerminationFee:  200,
			RenewablePercentage:  30,
		},
	}
	profile := domain.UserProfile{CustomerID: raw.CustomerID}
	profile.Personal.DisplayName = "Priya S."
	profile.HomeAttributes = domain.HomeAttributes{
		HomeType:      "single_family",
		SquareFeet:    2600,
		Occupants:     3,
		HasSolar:      true,
		SolarSystemKW: 7.2,
		WorkFromHome:  true,
	}
	profile.Preferences = domain.Preferences{
		PrimaryConcern:    domain.ConcernRenewableEnergy,
		RenewablePriority: domain.RenewableHigh,
		MaxContractMonths: 36,
	}
	return seedCustomer{
		raw:                raw,
		profile:            profile,
		segment:            domain.SegmentSolarBuybackVictim,
		segmentDescription: "Solar owner on a poor buyback rate, exporting summer surplus for pennies",
		patternType:        "solar_offset",
		patternDescription: "Generation offsets most daytime load; grid draw concentrated in evenings",
		rateTrend: domain.RateTrend{
			Direction:        "stable",
			OriginalRate:     0.138,
			CurrentRate:      0.138,
			TotalIncreasePct: 0,
			IncreasesCount:   0,
		},
		marketAvgRate: 0.125,
	}
}

func poolOwnerCustomer() seedCustomer {
	raw := domain.RawCustomerData{
		CustomerID:     "cust_004",
		ServiceAddress: austinAddress(),
		UsageHistory: monthlyUsage(0.158, [12]float64{
			1150, 1100, 1180, 1320, 1560, 1840, 1980, 2010, 1760, 1400, 1180, 1160,
		}),
		CurrentPlan: domain.CurrentPlan{
			Provider:             "Lone Star Power",
			PlanID:               "lonestar_flex",
			PlanName:             "Flex Residential",
			RatePerKWh:           0.158,
			MonthlyFee:           4.95,
			RateStructure:        domain.RateStructureFixed,
			ContractStartDate:    "2021-05-20",
			ContractLengthMonths: 12,
			EarlyTerminationFee:  0,
			RenewablePercentage:  18,
		},
	}
	profile := domain.UserProfile{CustomerID: raw.CustomerID}
	profile.Personal.DisplayName = "Carlos M."
	profile.HomeAttributes = domain.HomeAttributes{
		HomeType:        "single_family",
		SquareFeet:      3100,
		Occupants:       5,
		HasPool:         true,
		PoolSizeGallons: 22000,
		PoolEquipment:   "single-speed pump, afternoon schedule",
	}
	profile.Preferences = domain.Preferences{
		PrimaryConcern:          domain.ConcernCostSavings,
		RenewablePriority:       domain.RenewableLow,
		MaxContractMonths:       12,
		WillingToChangeBehavior: true,
	}
	return seedCustomer{
		raw:                raw,
		profile:            profile,
		segment:            domain.SegmentPoolOwnerPeakUsage,
		segmentDescription: "Pool pump running through afternoon peak hours on an above-market rate",
		patternType:        "summer_peak",
		patternDescription: "Pool pump and cooling load stack up through the summer afternoons",
		rateTrend: domain.RateTrend{
			Direction:        "increasing",
			OriginalRate:     0.139,
			CurrentRate:      0.158,
			TotalIncreasePct: 13.7,
			IncreasesCount:   2,
		},
		marketAvgRate: 0.125,
	}
}

func variableRateCustomer() seedCustomer {
	raw := domain.RawCustomerData{
		CustomerID:     "cust_005",
		ServiceAddress: austinAddress(),
		UsageHistory: monthlyUsage(0.149, [12]float64{
			760, 720, 700, 740, 850, 1080, 1260, 1300, 1060, 820, 740, 780,
		}),
		CurrentPlan: domain.CurrentPlan{
			Provider:             "GridWave Energy",
			PlanID:               "gridwave_market",
			PlanName:             "Market Tracker",
			RatePerKWh:           0.149,
			MonthlyFee:           0,
			RateStructure:        domain.RateStructureVariable,
			ContractStartDate:    "2024-01-10",
			ContractLengthMonths: 0,
			EarlyTerminationFee:  0,
			RenewablePercentage:  20,
		},
	}
	profile := domain.UserProfile{CustomerID: raw.CustomerID}
	profile.Personal.DisplayName = "Alison K."
	profile.HomeAttributes = domain.HomeAttributes{
		HomeType:   "condo",
		SquareFeet: 1300,
		Occupants:  1,
	}
	profile.Preferences = domain.Preferences{
		PrimaryConcern:    domain.ConcernBalanced,
		RenewablePriority: domain.RenewableModerate,
		MaxContractMonths: 12,
	}
	return seedCustomer{
		raw:                raw,
		profile:            profile,
		segment:            domain.SegmentVariableRateVictim,
		segmentDescription: "Variable-rate customer exposed to summer price spikes on a swingy usage pattern",
		patternType:        "summer_peak",
		patternDescription: "Moderate baseload with a pronounced summer cooling peak",
		rateTrend: domain.RateTrend{
			Direction:        "volatile",
			OriginalRate:     0.118,
			CurrentRate:      0.149,
			TotalIncreasePct: 26.3,
			IncreasesCount:   3,
		},
		marketAvgRate: 0.125,
	}
}

func supplierPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID:        "plan_greenvalue_12",
			Provider:  "GreenValue Energy",
			Name:      "GreenValue 12",
			Structure: domain.RateStructureFixed,
			Fixed:     &domain.FixedRates{RatePerKWh: 0.118},
			MonthlyFee:           0,
			ContractLengthMonths: 12,
			EarlyTerminationFee:  125,
			RenewablePercentage:  100,
			RenewableType:        "wind",
			SupplierRating:       4.6,
			CustomerReviews:      2140,
		},
		{
			ID:        "plan_texsaver_24",
			Provider:  "TexSaver Power",
			Name:      "TexSaver Lock 24",
			Structure: domain.RateStructureFixed,
			Fixed:     &domain.FixedRates{RatePerKWh: 0.109},
			MonthlyFee:           4.95,
			ContractLengthMonths: 24,
			EarlyTerminationFee:  240,
			RenewablePercentage:  22,
			SupplierRating:       4.2,
			CustomerReviews:      5210,
		},
		{
			ID:        "plan_nightowl_ev",
			Provider:  "Volt Metro",
			Name:      "Night Owl EV",
			Structure: domain.RateStructureTimeOfUse,
			TOU: &domain.TOURates{
				PeakRate:         0.185,
				OffPeakRate:      0.098,
				SuperOffPeakRate: 0.045,
			},
			MonthlyFee:           9.95,
			ContractLengthMonths: 12,
			EarlyTerminationFee:  150,
			RenewablePercentage:  35,
			SupplierRating:       4.7,
			CustomerReviews:      1890,
			TimeOfUse:            true,
			EVOptimized:          true,
		},
		{
			ID:        "plan_solarmax_buyback",
			Provider:  "Helio Direct",
			Name:      "SolarMax Buyback",
			Structure: domain.RateStructureFixed,
			Fixed:     &domain.FixedRates{RatePerKWh: 0.132},
			MonthlyFee:           0,
			ContractLengthMonths: 12,
			EarlyTerminationFee:  0,
			RenewablePercentage:  100,
			RenewableType:        "solar",
			SupplierRating:       4.4,
			CustomerReviews:      980,
			SolarBuybackRate:     0.125,
		},
		{
			ID:        "plan_gridwave_seasonal",
			Provider:  "GridWave Energy",
			Name:      "Seasonal Saver",
			Structure: domain.RateStructureVariable,
			Variable: &domain.VariableRates{
				BaseRate:   0.102,
				PeakRate:   0.151,
				PeakMonths: []time.Month{time.June, time.July, time.August, time.September},
			},
			MonthlyFee:           0,
			ContractLengthMonths: 12,
			EarlyTerminationFee:  99,
			RenewablePercentage:  40,
			SupplierRating:       3.9,
			CustomerReviews:      3470,
		},
		{
			ID:        "plan_evergreen_36",
			Provider:  "Evergreen Texas",
			Name:      "Evergreen 36",
			Structure: domain.RateStructureFixed,
			Fixed:     &domain.FixedRates{RatePerKWh: 0.114},
			MonthlyFee:           0,
			ContractLengthMonths: 36,
			EarlyTerminationFee:  350,
			RenewablePercentage:  100,
			RenewableType:        "wind_solar",
			SupplierRating:       4.8,
			CustomerReviews:      1560,
		},
		{
			ID:        "plan_freenights_tou",
			Provider:  "Lone Star Power",
			Name:      "Free Nights TOU",
			Structure: domain.RateStructureTimeOfUse,
			TOU: &domain.TOURates{
				PeakRate:         0.205,
				OffPeakRate:      0.112,
				SuperOffPeakRate: 0.012,
			},
			MonthlyFee:           9.95,
			ContractLengthMonths: 24,
			EarlyTerminationFee:  195,
			RenewablePercentage:  28,
			SupplierRating:       4.0,
			CustomerReviews:      6230,
			TimeOfUse:            true,
		},
		{
			ID:        "plan_basicflex_mtm",
			Provider:  "TexFlat Energy",
			Name:      "Basic Flex",
			Structure: domain.RateStructureFixed,
			Fixed:     &domain.FixedRates{RatePerKWh: 0.129},
			MonthlyFee:           0,
			ContractLengthMonths: 0,
			EarlyTerminationFee:  0,
			RenewablePercentage:  15,
			SupplierRating:       4.1,
			CustomerReviews:      4020,
		},
	}
}
