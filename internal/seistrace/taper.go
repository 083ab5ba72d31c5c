package seistrace

import (
	"fmt"
	"math"
)

// ArrivalTaper is a cosine fade window specified relative to a phase
// arrival time: A and B seconds of fade-in before the arrival, C and D
// seconds of fade-out after it. It is an immutable configuration value;
// Taperer binds it to an absolute arrival time.
type ArrivalTaper struct {
	A float64 // start of fade-in, before arrival (s)
	B float64 // end of fade-in, before arrival (s)
	C float64 // start of fade-out, after arrival (s)
	D float64 // end of fade-out, after arrival (s)
}

// DefaultArrivalTaper returns the window used for teleseismic body waves.
func DefaultArrivalTaper() ArrivalTaper {
	return ArrivalTaper{A: 15, B: 10, C: 50, D: 55}
}

// Duration returns the outer window length in seconds.
func (at ArrivalTaper) Duration() float64 {
	return at.A + at.D
}

// Taperer returns the absolute-time cosine taper anchored at arrival.
func (at ArrivalTaper) Taperer(arrival float64) CosTaper {
	return CosTaper{
		TA: arrival - at.A,
		TB: arrival - at.B,
		TC: arrival + at.C,
		TD: arrival + at.D,
	}
}

// CosTaper is a four-point cosine envelope in absolute time: zero before
// TA and after TD, unity between TB and TC, half-cosine ramps between.
type CosTaper struct {
	TA, TB, TC, TD float64
}

// Validate checks the time ordering TA ≤ TB ≤ TC ≤ TD.
func (ct CosTaper) Validate() error {
	if ct.TA > ct.TB || ct.TB > ct.TC || ct.TC > ct.TD {
		return fmt.Errorf("seistrace: taper times not ordered: %g %g %g %g",
			ct.TA, ct.TB, ct.TC, ct.TD)
	}
	return nil
}

// Value returns the envelope value at absolute time t.
func (ct CosTaper) Value(t float64) float64 {
	switch {
	case t <= ct.TA || t >= ct.TD:
		return 0
	case t < ct.TB:
		return 0.5 - 0.5*math.Cos(math.Pi*(t-ct.TA)/(ct.TB-ct.TA))
	case t <= ct.TC:
		return 1
	default:
		return 0.5 + 0.5*math.Cos(math.Pi*(t-ct.TC)/(ct.TD-ct.TC))
	}
}

// Apply multiplies the envelope into the trace samples in place.
func (ct CosTaper) Apply(tr *Trace) {
	for i := range tr.Data {
		tr.Data[i] *= ct.Value(tr.TimeAt(i))
	}
}

// ApplyChop tapers the trace in place and discards the samples outside
// the outer fade bounds [TA, TD].
func (ct CosTaper) ApplyChop(tr *Trace) {
	ct.Apply(tr)

	ia := int(math.Ceil((ct.TA - tr.TMin) / tr.DeltaT))
	if ia < 0 {
		ia = 0
	}
	ib := int(math.Floor((ct.TD-tr.TMin)/tr.DeltaT)) + 1
	if ib > len(tr.Data) {
		ib = len(tr.Data)
	}
	if ia >= ib {
		tr.Data = tr.Data[:0]
		return
	}
	tr.TMin += float64(ia) * tr.DeltaT
	tr.Data = tr.Data[ia:ib]
}
