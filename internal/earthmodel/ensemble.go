package earthmodel

import (
	"context"
	"log"
)

// AcceptCostThreshold is the maximum implausibility cost for a perturbed
// model to be accepted into an ensemble. Costs up to about 10 are normal
// for crustal profiles; beyond 20 the draw fought the monotonicity
// constraint hard enough that the variant is considered unlikely.
const AcceptCostThreshold = 20

// Generator collects accepted perturbation variants of a reference model.
type Generator struct {
	Perturber *Perturber

	// CostThreshold overrides AcceptCostThreshold when non-zero. A
	// negative threshold rejects every candidate.
	CostThreshold int

	// Logger receives a line per rejected candidate. Nil uses the
	// standard logger.
	Logger *log.Logger
}

// NewGenerator returns a Generator using the given perturber and the
// default acceptance threshold.
func NewGenerator(p *Perturber) *Generator {
	return &Generator{Perturber: p}
}

func (g *Generator) threshold() int {
	if g.CostThreshold != 0 {
		return g.CostThreshold
	}
	return AcceptCostThreshold
}

func (g *Generator) logf(format string, args ...interface{}) {
	if g.Logger != nil {
		g.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Generate draws perturbation variants of ref until count of them have
// been accepted, always perturbing the reference (independent draws, not
// a random walk). Rejected candidates are logged and discarded.
//
// The rejection loop has no internal iteration bound: with pathological
// uncertainty settings it may never converge, so the context is checked
// every draw and cancellation aborts with ctx.Err(). Variants are
// returned in acceptance order.
func (g *Generator) Generate(ctx context.Context, ref *LayeredModel, count int) ([]*LayeredModel, error) {
	variants := make([]*LayeredModel, 0, count)
	for len(variants) < count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		variant, cost := g.Perturber.Perturb(ref)
		if cost > g.threshold() {
			g.logf("earthmodel: skipped unlikely model, cost=%d", cost)
			continue
		}
		variants = append(variants, variant)
	}
	return variants, nil
}
