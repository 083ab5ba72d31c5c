package seistrace

import (
	"fmt"
	"math"
)

// BandpassConfig selects the corner frequencies and order of the
// Butterworth bandpass applied during conditioning. The order applies to
// each band edge: an order-4 bandpass runs a 4th-order highpass at the
// lower corner followed by a 4th-order lowpass at the upper corner.
type BandpassConfig struct {
	LowerCorner float64 // Hz
	UpperCorner float64 // Hz
	Order       int     // must be even
}

// DefaultBandpassConfig returns the teleseismic body-wave band.
func DefaultBandpassConfig() BandpassConfig {
	return BandpassConfig{LowerCorner: 0.001, UpperCorner: 0.1, Order: 4}
}

// Validate checks the configuration against a trace's Nyquist frequency.
func (bc BandpassConfig) Validate(sampleRate float64) error {
	if bc.Order < 2 || bc.Order%2 != 0 {
		return fmt.Errorf("seistrace: filter order %d must be even and >= 2", bc.Order)
	}
	if bc.LowerCorner <= 0 || bc.UpperCorner <= bc.LowerCorner {
		return fmt.Errorf("seistrace: corner frequencies %g, %g not ordered",
			bc.LowerCorner, bc.UpperCorner)
	}
	if nyquist := sampleRate / 2; bc.UpperCorner >= nyquist {
		return fmt.Errorf("seistrace: upper corner %g Hz at or above Nyquist %g Hz",
			bc.UpperCorner, nyquist)
	}
	return nil
}

// Apply bandpass-filters the trace in place.
func (bc BandpassConfig) Apply(tr *Trace) error {
	if err := bc.Validate(tr.SampleRate()); err != nil {
		return err
	}
	for _, s := range butterworthSections(highpass, bc.LowerCorner, tr.SampleRate(), bc.Order) {
		s.filter(tr.Data)
	}
	for _, s := range butterworthSections(lowpass, bc.UpperCorner, tr.SampleRate(), bc.Order) {
		s.filter(tr.Data)
	}
	return nil
}

type filterKind int

const (
	lowpass filterKind = iota
	highpass
)

// biquad is one second-order IIR section with normalised a0.
type biquad struct {
	b0, b1, b2, a1, a2 float64
}

// filter runs the section over x in place (direct form II transposed).
func (q biquad) filter(x []float64) {
	var z1, z2 float64
	for i, v := range x {
		y := q.b0*v + z1
		z1 = q.b1*v - q.a1*y + z2
		z2 = q.b2*v - q.a2*y
		x[i] = y
	}
}

// butterworthSections builds the biquad cascade for an order-n Butterworth
// low- or highpass at corner frequency fc. Section Q values follow from
// the Butterworth pole angles: Q_k = 1 / (2 sin((2k-1)π/(2n))).
func butterworthSections(kind filterKind, fc, sampleRate float64, order int) []biquad {
	n := order / 2
	sections := make([]biquad, n)

	w0 := 2 * math.Pi * fc / sampleRate
	cosw := math.Cos(w0)
	sinw := math.Sin(w0)

	for k := 0; k < n; k++ {
		q := 1 / (2 * math.Sin(float64(2*k+1)*math.Pi/float64(2*order)))
		alpha := sinw / (2 * q)
		a0 := 1 + alpha

		var s biquad
		switch kind {
		case lowpass:
			s.b0 = (1 - cosw) / 2 / a0
			s.b1 = (1 - cosw) / a0
			s.b2 = s.b0
		case highpass:
			s.b0 = (1 + cosw) / 2 / a0
			s.b1 = -(1 + cosw) / a0
			s.b2 = s.b0
		}
		s.a1 = -2 * cosw / a0
		s.a2 = (1 - alpha) / a0
		sections[k] = s
	}
	return sections
}
