package earthmodel

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tremor-data/forward.report/internal/units"
)

// Perturbation limits and overrides. The depth-band values model
// geophysical knowledge that deep mantle velocities and discontinuity
// depths are better constrained than the crust.
const (
	// MaxLayerRetries caps the redraw loop for a single layer's velocity
	// perturbation. On exhaustion the layer keeps its prior velocity for
	// that sub-step; this is an accepted approximation, not an error.
	MaxLayerRetries = 1000

	// TruncationCost is assigned when velocity or depth ordering is
	// violated at the depth-limit truncation boundary.
	TruncationCost = 1000

	// Velocity uncertainty overrides for the upper and lower mantle
	// (after Woodward 1991): fractional values applied below each depth.
	upperMantleDepth  = 200 * units.Km
	upperMantleVelUnc = 0.02
	lowerMantleDepth  = 400 * units.Km
	lowerMantleVelUnc = 0.01
)

// discontinuityDepthUnc maps known mantle discontinuity depths (km of the
// layer bottom) to absolute depth uncertainties (after Shearer 1991).
var discontinuityDepthUnc = map[int]float64{
	410: 3 * units.Km,
	520: 4 * units.Km,
	660: 8 * units.Km,
}

// PerturbConfig holds the knobs of a perturbation pass. ErrDepth and
// ErrVelocity are fractional uncertainties treated as 3-sigma bounds on
// the Gaussian draws (0.1 = 10%). DepthLimit truncates the model; zero
// means no limit.
type PerturbConfig struct {
	ErrDepth    float64
	ErrVelocity float64
	DepthLimit  float64
	MaxRetries  int
}

// DefaultPerturbConfig returns the uncertainties used for teleseismic
// receiver-side crustal models.
func DefaultPerturbConfig() PerturbConfig {
	return PerturbConfig{
		ErrDepth:    0.1,
		ErrVelocity: 0.05,
		DepthLimit:  600 * units.Km,
		MaxRetries:  MaxLayerRetries,
	}
}

// Perturber applies constrained random perturbations to layered models.
// It holds no reference to any model; each Perturb call works on a deep
// copy of its input, so a Perturber is safe to reuse across models. The
// random source is not synchronised: use one Perturber per goroutine.
type Perturber struct {
	cfg PerturbConfig
	src rand.Source
}

// NewPerturber returns a Perturber with the given configuration. A nil
// source uses the shared global generator; pass a seeded source for
// reproducible draws.
func NewPerturber(cfg PerturbConfig, src rand.Source) *Perturber {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = MaxLayerRetries
	}
	return &Perturber{cfg: cfg, src: src}
}

// normal draws from N(0, sigma). A zero sigma short-circuits to zero so
// that zero-uncertainty passes are exact no-ops.
func (p *Perturber) normal(sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	n := distuv.Normal{Mu: 0, Sigma: sigma, Src: p.src}
	return n.Rand()
}

// velocityUncertainty returns the fractional velocity uncertainty for a
// layer starting at ztop, applying the mantle band overrides.
func (p *Perturber) velocityUncertainty(ztop float64) float64 {
	switch {
	case ztop > lowerMantleDepth:
		return lowerMantleVelUnc
	case ztop > upperMantleDepth:
		return upperMantleVelUnc
	default:
		return p.cfg.ErrVelocity
	}
}

// depthFactor returns the fractional depth uncertainty for a layer bottom,
// tightened near the known mantle discontinuities.
func (p *Perturber) depthFactor(zbot float64) float64 {
	if unc, ok := discontinuityDepthUnc[int(zbot/units.Km)]; ok {
		return unc / zbot
	}
	return p.cfg.ErrDepth
}

// Perturb applies one constrained random perturbation pass to the model
// and returns an independent variant together with its implausibility
// cost. The input model is never mutated.
//
// Per layer, shallow to deep:
//  1. Draw a Gaussian P-velocity delta (3-sigma = vp·errVelocity) and
//     apply it to the layer, rejecting and redrawing while it would make
//     velocity decrease relative to the layer above. Every rejection
//     increments the cost. Shear velocity follows via the layer's own
//     Vp/Vs ratio; gradient layers shift top and bottom together.
//  2. Draw a Gaussian bottom-depth delta (3-sigma = zbot·factor),
//     rejecting draws that would lift the bottom above the top. The
//     accepted delta carries into the next layer's top so the stack
//     stays gap-free.
//  3. Once a layer top reaches the depth limit, snap it to the previous
//     bottom, charge TruncationCost if ordering is violated there, and
//     stop.
func (p *Perturber) Perturb(model *LayeredModel) (*LayeredModel, int) {
	out := model.Clone()

	var last *Layer
	cost := 0
	deltaz := 0.0

	for i := range out.Layers {
		layer := &out.Layers[i]

		if p.cfg.DepthLimit > 0 && layer.ZTop >= p.cfg.DepthLimit {
			if last == nil {
				cost = TruncationCost
				break
			}
			layer.ZTop = last.ZBot
			if layer.MTop.Vp < last.MBot.Vp || layer.MTop.Vp > layer.MBot.Vp {
				cost = TruncationCost
			}
			if layer.ZBot < layer.ZTop {
				cost = TruncationCost
			}
			out.Layers = out.Layers[:i+1]
			break
		}

		count := 0
		errVel := p.velocityUncertainty(layer.ZTop)
		gradient := layer.IsGradient()

		for repeat := true; repeat; {
			if count > p.cfg.MaxRetries {
				break
			}

			deltavp := p.normal(layer.MTop.Vp * errVel / 3)

			if layer.ZTop == 0 {
				layer.MTop.Vp += deltavp
			}

			if last == nil {
				repeat = false
				continue
			}

			switch {
			case layer.MTop.Vp == last.MBot.Vp:
				// gradient continuation without an interface: only the
				// bottom moves, the top stays pinned to the layer above
				if layer.MBot.Vp+deltavp < layer.MTop.Vp {
					count++
				} else {
					layer.MBot.Vp += deltavp
					layer.MBot.Vs += deltavp / layer.MBot.VpVsRatio()
					repeat = false
					cost += count
				}
			case layer.MTop.Vp+deltavp < last.MBot.Vp:
				count++
			default:
				layer.MTop.Vp += deltavp
				layer.MTop.Vs += deltavp / layer.MTop.VpVsRatio()
				if gradient {
					layer.MBot.Vp += deltavp
					layer.MBot.Vs += deltavp / layer.MBot.VpVsRatio()
				}
				repeat = false
				cost += count
			}
		}

		// carry the previous layer's accepted bottom shift into this
		// layer's top to keep the stack gap-free
		layer.ZTop += deltaz

		factor := p.depthFactor(layer.ZBot)
		for repeat := true; repeat; {
			deltaz = p.normal(layer.ZBot * factor / 3)
			layer.ZBot += deltaz
			if layer.ZBot < layer.ZTop {
				layer.ZBot -= deltaz
				count++
			} else {
				repeat = false
				cost += count
			}
		}

		prev := *layer
		last = &prev
	}

	return out, cost
}
