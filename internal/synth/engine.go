package synth

import (
	"context"

	"github.com/tremor-data/forward.report/internal/faultsource"
	"github.com/tremor-data/forward.report/internal/seistrace"
)

// Result is one raw synthetic trace for a (source, target) pair.
type Result struct {
	Source *faultsource.RectangularSource
	Target *faultsource.Target
	Trace  *seistrace.Trace
}

// Engine is the external forward-solver contract for the seismic path:
// one raw waveform per (source, target) pair over the full cross-product,
// ordered source-major (all targets of the first source, then all targets
// of the second, and so on). The worker count is a parallelism hint the
// solver is free to ignore. Solver failures are infrastructure errors and
// abort the whole batch.
type Engine interface {
	Process(ctx context.Context, sources []*faultsource.RectangularSource,
		targets []*faultsource.Target, nworkers int) ([]Result, error)
}

// Displacement is a static surface displacement vector at one
// observation point.
type Displacement struct {
	East  float64
	North float64
	Up    float64
}

// DisplacementEngine is the external forward-solver contract for the
// geodetic path: per-point surface displacements for a set of
// rectangular fault patches, one slice of points per requested time
// snapshot (coseismic-only runs request the single zero snapshot).
type DisplacementEngine interface {
	Displacements(ctx context.Context, patches []faultsource.RectangularSource,
		lats, lons []float64, snapshots []float64) ([][]Displacement, error)
}
