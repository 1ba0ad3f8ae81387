package explain

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/domain"
	"github.com/arborhq/planwise/internal/observability/telemetry"
	"github.com/arborhq/planwise/internal/ports"
)

// Batch fans explanation requests out to the primary explainer concurrently,
// one goroutine per plan with an independent per-call timeout. A stalled or
// failed call degrades that one plan to the template fallback without
// touching the others. No retries: a single timeout-and-fallback is the
// complete failure path, keeping worst-case latency bounded at one timeout.
type Batch struct {
	primary  ports.Explainer
	fallback *Template
	timeout  time.Duration
	log      *zap.Logger
}

// NewBatch wires a primary explainer with the template fallback. A nil
// primary means every explanation comes from the template.
func NewBatch(primary ports.Explainer, fallback *Template, timeout time.Duration, log *zap.Logger) *Batch {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Batch{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		log:      log,
	}
}

// Source reports the configured explanation source tag.
func (b *Batch) Source() string {
	if b.primary == nil {
		return b.fallback.Source()
	}
	return b.primary.Source()
}

// ExplainAll generates one explanation per context. The returned slice is
// index-aligned with the input; fallbackUsed reports whether any call
// degraded to the template.
func (b *Batch) ExplainAll(ctx context.Context, ectxs []domain.ExplanationContext) (explanations []string, fallbackUsed bool) {
	explanations = make([]string, len(ectxs))
	fellBack := make([]bool, len(ectxs))

	var wg sync.WaitGroup
	for i, ectx := range ectxs {
		wg.Add(1)
		go func(i int, ectx domain.ExplanationContext) {
			defer wg.Done()
			explanations[i], fellBack[i] = b.explainOne(ctx, ectx)
		}(i, ectx)
	}
	wg.Wait()

	for _, fb := range fellBack {
		if fb {
			fallbackUsed = true
		}
	}
	return explanations, fallbackUsed
}

func (b *Batch) explainOne(ctx context.Context, ectx domain.ExplanationContext) (string, bool) {
	if b.primary == nil {
		text, _ := b.fallback.Explain(ctx, ectx)
		return text, false
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	text, err := b.primary.Explain(callCtx, ectx)
	if err != nil || text == "" {
		b.log.Warn("explanation call failed, using template fallback",
			zap.String("plan_id", ectx.Plan.Plan.ID),
			zap.Error(err),
		)
		telemetry.ExplanationFallbacksTotal.Inc()
		text, _ = b.fallback.Explain(ctx, ectx)
		return text, true
	}

	return text, false
}
