package costmodel

import (
	"testing"
	"time"

	"github.com/arborhq/planwise/internal/domain"
)

func TestBaselineDistribution(t *testing.T) {
	// Arrange
	var residential, wfh domain.UserProfile
	wfh.HomeAttributes.WorkFromHome = true

	// Act
	r := BaselineDistribution(residential)
	w := BaselineDistribution(wfh)

	// Assert
	if r.PeakPct != 0.20 || r.OffPeakPct != 0.50 || r.SuperOffPeakPct != 0.30 {
		t.Errorf("unexpected residential split: %+v", r)
	}
	if w.PeakPct != 0.18 || w.OffPeakPct != 0.58 || w.SuperOffPeakPct != 0.24 {
		t.Errorf("unexpected work-from-home split: %+v", w)
	}
}

func TestEVMonthlyKWh(t *testing.T) {
	// Arrange
	var attrs domain.HomeAttributes

	// Act / Assert
	if got := EVMonthlyKWh(attrs); got != 400 {
		t.Errorf("expected default 400 kWh, got %v", got)
	}

	attrs.EVMonthlyKWhEstimate = 520
	if got := EVMonthlyKWh(attrs); got != 520 {
		t.Errorf("expected estimate 520 kWh, got %v", got)
	}
}

func TestChargesOvernight(t *testing.T) {
	// Arrange
	cases := []struct {
		schedule string
		want     bool
	}{
		{"after 11pm", true},
		{"Overnight, usually", true},
		{"11PM to 6am", true},
		{"whenever I get home", false},
		{"", false},
	}

	for _, tc := range cases {
		attrs := domain.HomeAttributes{EVTypicalChargingTime: tc.schedule}

		// Act
		got := ChargesOvernight(attrs)

		// Assert
		if got != tc.want {
			t.Errorf("ChargesOvernight(%q): expected %v, got %v", tc.schedule, tc.want, got)
		}
	}
}

func TestPoolMonthlyKWh_SeasonsAndScaling(t *testing.T) {
	// Arrange / Act / Assert
	if got := PoolMonthlyKWh(time.July, 20000); got != 450 {
		t.Errorf("expected 450 for July at reference size, got %v", got)
	}
	if got := PoolMonthlyKWh(time.April, 20000); got != 250 {
		t.Errorf("expected 250 for April, got %v", got)
	}
	if got := PoolMonthlyKWh(time.January, 20000); got != 60 {
		t.Errorf("expected 60 for January, got %v", got)
	}

	// 30,000 gallons scales by 1.5.
	if got := PoolMonthlyKWh(time.July, 30000); got != 675 {
		t.Errorf("expected 675 for oversized pool, got %v", got)
	}

	// Unknown size falls back to the reference.
	if got := PoolMonthlyKWh(time.July, 0); got != 450 {
		t.Errorf("expected reference 450 for unknown size, got %v", got)
	}
}

func TestEstimatePoolKWh_UsesReportingBases(t *testing.T) {
	// Arrange / Act / Assert
	if got := EstimatePoolKWh(time.August, 20000); got != 500 {
		t.Errorf("expected 500 for August, got %v", got)
	}
	if got := EstimatePoolKWh(time.December, 20000); got != 70 {
		t.Errorf("expected 70 for December, got %v", got)
	}

	// 25,000 gallons scales by 1.25 and rounds to a whole number.
	if got := EstimatePoolKWh(time.March, 25000); got != 313 {
		t.Errorf("expected 313 for scaled shoulder month, got %v", got)
	}
}

func TestPoolPortionCost(t *testing.T) {
	// Arrange
	usage := domain.UsageHistory{
		{Month: "2025-07", KWh: 1500},
		{Month: "2025-01", KWh: 900},
	}

	// Act
	cost := PoolPortionCost(usage, 0.10, 20000)

	// Assert
	// July 500 kWh + January 70 kWh at $0.10 = $57.
	if cost != 57 {
		t.Errorf("expected 57, got %v", cost)
	}
}
