// Package explain produces the per-plan natural-language explanations for a
// recommendation, fanning out to a text-generation backend with a
// deterministic template fallback.
package explain

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/arborhq/planwise/internal/domain"
)

// Template is the deterministic fallback explainer. It never fails and needs
// no network, so it doubles as the configured explainer in demo deployments.
type Template struct {
	source string
}

// NewTemplate returns the fallback explainer.
func NewTemplate() *Template {
	return &Template{source: "fallback_template"}
}

// NewDemoTemplate returns the template explainer tagged as a demo-mode
// selection rather than a degradation.
func NewDemoTemplate() *Template {
	return &Template{source: "demo_mode_fallback"}
}

func (t *Template) Source() string { return t.source }

// Explain assembles a short explanation from the customer's segment, the
// savings, and the plan's standout attributes.
func (t *Template) Explain(_ context.Context, ectx domain.ExplanationContext) (string, error) {
	insights := ectx.Customer.Insights
	plan := ectx.Plan.Plan

	var b strings.Builder

	switch insights.CustomerSegment {
	case domain.SegmentLoyaltyPenaltyVictim:
		fmt.Fprintf(&b, "After %g years on the same plan, switching locks in better rates. ",
			insights.FinancialAnalysis.YearsOnCurrentPlan)
	case domain.SegmentVariableRateVictim:
		b.WriteString("This fixed-rate plan eliminates the uncertainty of seasonal rate spikes. ")
	case domain.SegmentSolarBuybackVictim:
		b.WriteString("Better solar buyback rates maximize the value of your excess generation. ")
	default:
		b.WriteString("Based on your usage pattern, this plan offers excellent value. ")
	}

	fmt.Fprintf(&b, "You'll save $%.0f annually compared to your current plan. ", math.Round(ectx.Savings))

	switch {
	case plan.RenewablePercentage == 100:
		b.WriteString("Plus, you'll be powered by 100% renewable energy.")
	case plan.RenewablePercentage >= 75:
		fmt.Fprintf(&b, "It's %g%% renewable energy, aligning with your preferences.", plan.RenewablePercentage)
	}

	if plan.MonthlyFee == 0 && ectx.Savings > 100 {
		b.WriteString(" With no monthly fee, that adds up to even more savings.")
	}

	return strings.TrimSpace(b.String()), nil
}
