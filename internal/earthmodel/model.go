// Package earthmodel implements layered velocity-depth models and the
// constrained stochastic perturbation used to build earth-model ensembles.
//
// A LayeredModel is an ordered, gap-free stack of layers with P-velocity
// non-decreasing with depth. The Perturber draws Gaussian variations of
// layer velocities and interface depths while enforcing those constraints
// through a bounded retry loop; the number of retries is surfaced as an
// implausibility cost, which the ensemble generator uses as its acceptance
// signal.
package earthmodel

import (
	"errors"
	"fmt"
)

// Material holds the elastic properties on one side of a layer.
type Material struct {
	Vp  float64 `json:"vp"`  // P-wave velocity (m/s)
	Vs  float64 `json:"vs"`  // S-wave velocity (m/s)
	Rho float64 `json:"rho"` // density (kg/m³)
}

// VpVsRatio returns the ratio of P to S velocity for the material.
func (m Material) VpVsRatio() float64 {
	return m.Vp / m.Vs
}

// Layer is one depth interval of a layered model. A layer whose top and
// bottom materials are equal is a homogeneous (interface) layer; otherwise
// the material varies linearly between top and bottom (gradient layer).
type Layer struct {
	ZTop float64  `json:"ztop"` // depth of layer top (m)
	ZBot float64  `json:"zbot"` // depth of layer bottom (m)
	MTop Material `json:"mtop"`
	MBot Material `json:"mbot"`
}

// Thickness returns the layer thickness in metres.
func (l Layer) Thickness() float64 {
	return l.ZBot - l.ZTop
}

// IsGradient reports whether the material varies across the layer.
func (l Layer) IsGradient() bool {
	return l.MTop != l.MBot
}

// LayeredModel is an ordered sequence of layers, shallow to deep.
type LayeredModel struct {
	Layers []Layer `json:"layers"`
}

// New validates the layer stack and returns a model. The stack must be
// non-empty, gap-free, with every layer at least as thick as zero and
// P-velocity non-decreasing with depth.
func New(layers []Layer) (*LayeredModel, error) {
	m := &LayeredModel{Layers: layers}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the model invariants: ordering, contiguity and
// non-decreasing P-velocity with depth.
func (m *LayeredModel) Validate() error {
	if len(m.Layers) == 0 {
		return errors.New("earthmodel: model has no layers")
	}
	for i, l := range m.Layers {
		if l.ZBot < l.ZTop {
			return fmt.Errorf("earthmodel: layer %d bottom %.1f above top %.1f", i, l.ZBot, l.ZTop)
		}
		if l.MBot.Vp < l.MTop.Vp {
			return fmt.Errorf("earthmodel: layer %d P-velocity decreases with depth", i)
		}
		if i > 0 {
			prev := m.Layers[i-1]
			if l.ZTop != prev.ZBot {
				return fmt.Errorf("earthmodel: gap between layer %d and %d (%.1f != %.1f)",
					i-1, i, prev.ZBot, l.ZTop)
			}
			if l.MTop.Vp < prev.MBot.Vp {
				return fmt.Errorf("earthmodel: P-velocity decreases across interface at layer %d", i)
			}
		}
	}
	return nil
}

// Clone returns a deep, independent copy of the model.
func (m *LayeredModel) Clone() *LayeredModel {
	layers := make([]Layer, len(m.Layers))
	copy(layers, m.Layers)
	return &LayeredModel{Layers: layers}
}

// Extract returns a copy of the model truncated at depthMax. The layer
// straddling depthMax is cut at the limit with its bottom material
// interpolated for gradient layers.
func (m *LayeredModel) Extract(depthMax float64) *LayeredModel {
	var layers []Layer
	for _, l := range m.Layers {
		if l.ZTop >= depthMax {
			break
		}
		if l.ZBot > depthMax {
			cut := l
			if l.IsGradient() && l.Thickness() > 0 {
				f := (depthMax - l.ZTop) / l.Thickness()
				cut.MBot = Material{
					Vp:  l.MTop.Vp + f*(l.MBot.Vp-l.MTop.Vp),
					Vs:  l.MTop.Vs + f*(l.MBot.Vs-l.MTop.Vs),
					Rho: l.MTop.Rho + f*(l.MBot.Rho-l.MTop.Rho),
				}
			}
			cut.ZBot = depthMax
			layers = append(layers, cut)
			break
		}
		layers = append(layers, l)
	}
	return &LayeredModel{Layers: layers}
}

// Depth returns the bottom depth of the deepest layer.
func (m *LayeredModel) Depth() float64 {
	if len(m.Layers) == 0 {
		return 0
	}
	return m.Layers[len(m.Layers)-1].ZBot
}
