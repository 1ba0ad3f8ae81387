package domain

import (
	"math"
	"time"
)

// MonthlyUsage is one month of metered consumption. Solar customers carry the
// net-metering fields as well; GenerationKWh being present marks the record as
// solar data.
type MonthlyUsage struct {
	Month          string   `json:"month"` // "2024-07" or a full date
	KWh            float64  `json:"kwh"`
	BillAmount     float64  `json:"bill_amount,omitempty"`
	ConsumptionKWh float64  `json:"consumption_kwh,omitempty"`
	GenerationKWh  *float64 `json:"generation_kwh,omitempty"`
	NetFromGrid    float64  `json:"net_from_grid,omitempty"`
	NetToGrid      float64  `json:"net_to_grid,omitempty"`
}

// IsSolar reports whether this record carries solar generation data.
func (m MonthlyUsage) IsSolar() bool {
	return m.GenerationKWh != nil
}

// CalendarMonth parses the record's month field into a calendar month (1-12).
// Returns 0 when the field cannot be parsed.
func (m MonthlyUsage) CalendarMonth() time.Month {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, m.Month); err == nil {
			return t.Month()
		}
	}
	return 0
}

// UsageHistory is a chronological sequence of monthly records, normally 12
// entries. All helpers tolerate shorter histories.
type UsageHistory []MonthlyUsage

// IsSolar reports whether the history carries solar generation data.
func (h UsageHistory) IsSolar() bool {
	return len(h) > 0 && h[0].IsSolar()
}

// TotalKWh returns total annual consumption. For solar data the gross
// consumption is used, not the net grid draw.
func (h UsageHistory) TotalKWh() float64 {
	var total float64
	for _, m := range h {
		if m.IsSolar() {
			total += m.ConsumptionKWh
		} else {
			total += m.KWh
		}
	}
	return total
}

// AvgMonthlyKWh returns the average monthly consumption, rounded to 2 decimals.
func (h UsageHistory) AvgMonthlyKWh() float64 {
	if len(h) == 0 {
		return 0
	}
	return RoundCents(h.TotalKWh() / float64(len(h)))
}

// PeakMonth returns the highest-usage record.
func (h UsageHistory) PeakMonth() (MonthlyUsage, bool) {
	if len(h) == 0 {
		return MonthlyUsage{}, false
	}
	peak := h[0]
	for _, m := range h[1:] {
		if m.KWh > peak.KWh {
			peak = m
		}
	}
	return peak, true
}

// LowMonth returns the lowest-usage record.
func (h UsageHistory) LowMonth() (MonthlyUsage, bool) {
	if len(h) == 0 {
		return MonthlyUsage{}, false
	}
	low := h[0]
	for _, m := range h[1:] {
		if m.KWh < low.KWh {
			low = m
		}
	}
	return low, true
}

// SeasonalVariancePct returns (peak-low)/low as a percentage, rounded to 2
// decimals. Zero when the history is empty or the low month used no energy.
func (h UsageHistory) SeasonalVariancePct() float64 {
	peak, ok := h.PeakMonth()
	if !ok {
		return 0
	}
	low, _ := h.LowMonth()
	if low.KWh == 0 {
		return 0
	}
	return RoundCents((peak.KWh - low.KWh) / low.KWh * 100)
}

// RoundCents rounds a monetary amount to 2 decimal places, half away from zero.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
