// Package seistrace provides the waveform trace container and the
// conditioning primitives applied to it: four-point cosine tapering with
// window chopping, and Butterworth bandpass filtering.
package seistrace

import "fmt"

// Trace is a single evenly-sampled time series for one channel of one
// (source, target) pair. Conditioning operations that mutate samples do
// so in place; callers that need the original must Copy first.
type Trace struct {
	Network  string
	Station  string
	Location string
	Channel  string

	// DeltaT is the sampling interval in seconds.
	DeltaT float64

	// TMin is the absolute time of the first sample in seconds.
	TMin float64

	Data []float64
}

// SampleRate returns samples per second.
func (tr *Trace) SampleRate() float64 {
	return 1.0 / tr.DeltaT
}

// TMax returns the absolute time of the last sample.
func (tr *Trace) TMax() float64 {
	if len(tr.Data) == 0 {
		return tr.TMin
	}
	return tr.TMin + float64(len(tr.Data)-1)*tr.DeltaT
}

// TimeAt returns the absolute time of sample i.
func (tr *Trace) TimeAt(i int) float64 {
	return tr.TMin + float64(i)*tr.DeltaT
}

// Copy returns a deep copy of the trace.
func (tr *Trace) Copy() *Trace {
	out := *tr
	out.Data = make([]float64, len(tr.Data))
	copy(out.Data, tr.Data)
	return &out
}

// SameGrid reports whether two traces share sample spacing and length,
// the precondition for element-wise stacking.
func (tr *Trace) SameGrid(other *Trace) bool {
	return tr.DeltaT == other.DeltaT && len(tr.Data) == len(other.Data)
}

func (tr *Trace) String() string {
	return fmt.Sprintf("%s.%s.%s.%s n=%d dt=%g tmin=%g",
		tr.Network, tr.Station, tr.Location, tr.Channel, len(tr.Data), tr.DeltaT, tr.TMin)
}
