package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tremor-data/forward.report/internal/faultsource"
)

// GeodeticOptions configures a surface-displacement run. NPatchesStrike
// and NPatchesDip select the fault discretisation; Snapshots lists the
// requested times in seconds after origin, defaulting to the single
// coseismic snapshot at zero.
type GeodeticOptions struct {
	NPatchesStrike int
	NPatchesDip    int
	Snapshots      []float64
}

// ComputeDisplacements discretises the sources into geodetic patches and
// runs the displacement solver for the observation points. The returned
// slices are ordered snapshot-major, one Displacement per point, with
// contributions of all sources summed per point.
func ComputeDisplacements(ctx context.Context, engine DisplacementEngine,
	sources []*faultsource.RectangularSource, lats, lons []float64,
	opts GeodeticOptions) ([][]Displacement, error) {

	if len(sources) == 0 {
		return nil, errors.New("synth: need at least one source")
	}
	if len(lats) != len(lons) {
		return nil, fmt.Errorf("synth: %d latitudes for %d longitudes", len(lats), len(lons))
	}
	n, m := opts.NPatchesStrike, opts.NPatchesDip
	if n < 1 {
		n = 1
	}
	if m < 1 {
		m = 1
	}
	snapshots := opts.Snapshots
	if len(snapshots) == 0 {
		snapshots = []float64{0}
	}

	var patches []faultsource.RectangularSource
	for _, src := range sources {
		ps, err := src.Patches(n, m, faultsource.Geodetic)
		if err != nil {
			return nil, err
		}
		patches = append(patches, ps...)
	}

	disp, err := engine.Displacements(ctx, patches, lats, lons, snapshots)
	if err != nil {
		return nil, fmt.Errorf("synth: displacement solver: %w", err)
	}
	if len(disp) != len(snapshots) {
		return nil, fmt.Errorf("synth: solver returned %d snapshots, want %d",
			len(disp), len(snapshots))
	}
	for i, points := range disp {
		if len(points) != len(lats) {
			return nil, fmt.Errorf("synth: snapshot %d has %d points, want %d",
				i, len(points), len(lats))
		}
	}
	return disp, nil
}
