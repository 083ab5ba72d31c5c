package earthmodel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tremor-data/forward.report/internal/units"
)

func TestPerturbZeroUncertaintyIsNoOp(t *testing.T) {
	ref := twoLayerCrust(t)
	p := NewPerturber(PerturbConfig{
		ErrDepth:    0,
		ErrVelocity: 0,
		DepthLimit:  100 * units.Km,
	}, rand.NewPCG(1, 1))

	variant, cost := p.Perturb(ref)

	assert.Equal(t, 0, cost, "zero-variance perturbation should have zero cost")
	if diff := cmp.Diff(ref, variant); diff != "" {
		t.Errorf("zero-variance perturbation changed the model (-want +got):\n%s", diff)
	}
}

func TestPerturbDoesNotMutateInput(t *testing.T) {
	ref := twoLayerCrust(t)
	before := ref.Clone()

	p := NewPerturber(PerturbConfig{ErrDepth: 0.1, ErrVelocity: 0.05, DepthLimit: 100 * units.Km},
		rand.NewPCG(2, 2))
	variant, _ := p.Perturb(ref)

	if diff := cmp.Diff(before, ref); diff != "" {
		t.Errorf("input model was mutated (-want +got):\n%s", diff)
	}
	require.NotSame(t, ref, variant)
}

func TestPerturbKeepsInvariants(t *testing.T) {
	ref := twoLayerCrust(t)
	p := NewPerturber(PerturbConfig{ErrDepth: 0.05, ErrVelocity: 0.05, DepthLimit: 100 * units.Km},
		rand.NewPCG(3, 3))

	for i := 0; i < 50; i++ {
		variant, cost := p.Perturb(ref)
		if cost > AcceptCostThreshold {
			continue
		}
		for j, l := range variant.Layers {
			assert.GreaterOrEqual(t, l.ZBot, l.ZTop, "draw %d layer %d depth ordering", i, j)
			assert.GreaterOrEqual(t, l.MBot.Vp, l.MTop.Vp, "draw %d layer %d gradient monotonicity", i, j)
			if j > 0 {
				prev := variant.Layers[j-1]
				assert.Equal(t, prev.ZBot, l.ZTop, "draw %d layer %d contiguity", i, j)
				assert.GreaterOrEqual(t, l.MTop.Vp, prev.MBot.Vp, "draw %d layer %d interface monotonicity", i, j)
			}
		}
	}
}

func TestPerturbPreservesVpVsRatio(t *testing.T) {
	ref := twoLayerCrust(t)
	p := NewPerturber(PerturbConfig{ErrDepth: 0, ErrVelocity: 0.05, DepthLimit: 100 * units.Km},
		rand.NewPCG(4, 4))

	variant, _ := p.Perturb(ref)

	// The second layer's top sits on an interface and gets both Vp and Vs
	// shifted; the shift keeps the layer's own Vp/Vs ratio.
	refRatio := ref.Layers[1].MTop.VpVsRatio()
	gotRatio := variant.Layers[1].MTop.VpVsRatio()
	assert.InDelta(t, refRatio, gotRatio, 0.02, "Vp/Vs ratio should be approximately preserved")
}

func TestPerturbDepthLimitTruncation(t *testing.T) {
	t.Run("clean truncation keeps ordering and zero cost", func(t *testing.T) {
		m, err := New([]Layer{
			{ZTop: 0, ZBot: 20 * units.Km,
				MTop: Material{Vp: 5800, Vs: 3350}, MBot: Material{Vp: 6200, Vs: 3580}},
			{ZTop: 20 * units.Km, ZBot: 35 * units.Km,
				MTop: Material{Vp: 6200, Vs: 3580}, MBot: Material{Vp: 7200, Vs: 4160}},
			{ZTop: 35 * units.Km, ZBot: 50 * units.Km,
				MTop: Material{Vp: 7200, Vs: 4160}, MBot: Material{Vp: 8000, Vs: 4620}},
		})
		require.NoError(t, err)

		p := NewPerturber(PerturbConfig{ErrDepth: 0, ErrVelocity: 0, DepthLimit: 35 * units.Km},
			rand.NewPCG(5, 5))
		variant, cost := p.Perturb(m)

		assert.Equal(t, 0, cost)
		require.Len(t, variant.Layers, 3)
		assert.Equal(t, variant.Layers[1].ZBot, variant.Layers[2].ZTop,
			"truncated layer top must snap to previous bottom")
	})

	t.Run("velocity violation at boundary charges truncation cost", func(t *testing.T) {
		m := &LayeredModel{Layers: []Layer{
			{ZTop: 0, ZBot: 20 * units.Km,
				MTop: Material{Vp: 5800, Vs: 3350}, MBot: Material{Vp: 6200, Vs: 3580}},
			{ZTop: 20 * units.Km, ZBot: 40 * units.Km,
				MTop: Material{Vp: 6200, Vs: 3580}, MBot: Material{Vp: 7200, Vs: 4160}},
			// velocity drop across the truncation boundary
			{ZTop: 40 * units.Km, ZBot: 60 * units.Km,
				MTop: Material{Vp: 7000, Vs: 4040}, MBot: Material{Vp: 8000, Vs: 4620}},
		}}

		p := NewPerturber(PerturbConfig{ErrDepth: 0, ErrVelocity: 0, DepthLimit: 40 * units.Km},
			rand.NewPCG(6, 6))
		_, cost := p.Perturb(m)
		assert.Equal(t, TruncationCost, cost)
	})

	t.Run("depth violation at boundary charges truncation cost", func(t *testing.T) {
		m := &LayeredModel{Layers: []Layer{
			{ZTop: 0, ZBot: 40 * units.Km,
				MTop: Material{Vp: 5800, Vs: 3350}, MBot: Material{Vp: 6200, Vs: 3580}},
			// bottom shallower than the snapped top
			{ZTop: 40 * units.Km, ZBot: 39 * units.Km,
				MTop: Material{Vp: 6200, Vs: 3580}, MBot: Material{Vp: 6200, Vs: 3580}},
		}}

		p := NewPerturber(PerturbConfig{ErrDepth: 0, ErrVelocity: 0, DepthLimit: 40 * units.Km},
			rand.NewPCG(7, 7))
		_, cost := p.Perturb(m)
		assert.Equal(t, TruncationCost, cost)
	})
}

func TestPerturbDepthOnlyScenario(t *testing.T) {
	// err_velocity = 0, err_depth = 0.05: velocities must be preserved
	// exactly while bottom depths vary within the Gaussian bound.
	ref := twoLayerCrust(t)
	p := NewPerturber(PerturbConfig{ErrDepth: 0.05, ErrVelocity: 0, DepthLimit: 35 * units.Km},
		rand.NewPCG(8, 8))
	gen := NewGenerator(p)

	variants, err := gen.Generate(t.Context(), ref, 5)
	require.NoError(t, err)
	require.Len(t, variants, 5)

	for i, v := range variants {
		require.Len(t, v.Layers, 2, "variant %d layer count", i)
		for j, l := range v.Layers {
			rl := ref.Layers[j]
			assert.Equal(t, rl.MTop, l.MTop, "variant %d layer %d top material", i, j)
			assert.Equal(t, rl.MBot, l.MBot, "variant %d layer %d bottom material", i, j)

			// depth deltas stay within a few sigma of the draw
			// (sigma = 0.05*zbot/3)
			delta := math.Abs(l.ZBot - rl.ZBot)
			assert.LessOrEqual(t, delta, 2*0.05*rl.ZBot, "variant %d layer %d depth delta", i, j)
		}
		assert.Equal(t, v.Layers[0].ZBot, v.Layers[1].ZTop, "variant %d contiguity", i)
	}
}

func TestVelocityUncertaintyBands(t *testing.T) {
	p := NewPerturber(PerturbConfig{ErrVelocity: 0.05}, nil)

	tests := []struct {
		ztop float64
		want float64
	}{
		{0, 0.05},
		{150 * units.Km, 0.05},
		{250 * units.Km, upperMantleVelUnc},
		{500 * units.Km, lowerMantleVelUnc},
	}
	for _, tt := range tests {
		if got := p.velocityUncertainty(tt.ztop); got != tt.want {
			t.Errorf("velocityUncertainty(%v) = %v, want %v", tt.ztop, got, tt.want)
		}
	}
}

func TestDepthFactorDiscontinuities(t *testing.T) {
	p := NewPerturber(PerturbConfig{ErrDepth: 0.1}, nil)

	if got := p.depthFactor(35 * units.Km); got != 0.1 {
		t.Errorf("depthFactor(35 km) = %v, want caller err_depth 0.1", got)
	}
	if got := p.depthFactor(410 * units.Km); got != 3*units.Km/(410*units.Km) {
		t.Errorf("depthFactor(410 km) = %v, want 3/410", got)
	}
	if got := p.depthFactor(660 * units.Km); got != 8*units.Km/(660*units.Km) {
		t.Errorf("depthFactor(660 km) = %v, want 8/660", got)
	}
}
