// Package synth drives the external forward solver to produce synthetic
// seismograms for (source, target) pairs and conditions them the way the
// observed data is conditioned: a cosine taper anchored at the tabulated
// phase arrival, a Butterworth bandpass, and stacking of multi-source
// contributions per target.
package synth

import (
	"fmt"

	"github.com/tremor-data/forward.report/internal/faultsource"
	"github.com/tremor-data/forward.report/internal/gfstore"
	"github.com/tremor-data/forward.report/internal/seistrace"
)

// ArrivalTime returns the absolute arrival time of the tabulated phase
// for a (source, target) pair. The target's channel selects the phase:
// transverse observes the shear arrival, vertical the compressional one.
func ArrivalTime(store gfstore.Store, src *faultsource.RectangularSource,
	tgt *faultsource.Target) (float64, error) {

	phase, err := gfstore.PhaseForChannel(tgt.Channel)
	if err != nil {
		return 0, err
	}
	tt, err := store.TravelTime(phase, src.Depth, tgt.DistanceTo(src))
	if err != nil {
		return 0, fmt.Errorf("synth: travel time for %s.%s: %w", tgt.Network, tgt.Station, err)
	}
	return tt + src.Time, nil
}

// PhaseTaperer builds the absolute-time cosine fade window for a
// (source, target) pair by shifting the taper offsets to the phase
// arrival.
func PhaseTaperer(store gfstore.Store, src *faultsource.RectangularSource,
	tgt *faultsource.Target, taper seistrace.ArrivalTaper) (seistrace.CosTaper, error) {

	arrival, err := ArrivalTime(store, src, tgt)
	if err != nil {
		return seistrace.CosTaper{}, err
	}
	return taper.Taperer(arrival), nil
}
