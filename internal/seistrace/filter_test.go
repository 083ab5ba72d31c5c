package seistrace

import (
	"math"
	"testing"

	"github.com/tremor-data/forward.report/internal/testutil"
)

func sineTrace(freq, sampleRate float64, n int) *Trace {
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return &Trace{DeltaT: 1 / sampleRate, Data: data}
}

func tailPeak(data []float64, n int) float64 {
	peak := 0.0
	for _, v := range data[len(data)-n:] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

func TestBandpassValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BandpassConfig
		rate    float64
		wantErr bool
	}{
		{"defaults at 2 Hz sampling", DefaultBandpassConfig(), 2, false},
		{"odd order", BandpassConfig{LowerCorner: 0.01, UpperCorner: 0.1, Order: 3}, 2, true},
		{"zero order", BandpassConfig{LowerCorner: 0.01, UpperCorner: 0.1}, 2, true},
		{"corners swapped", BandpassConfig{LowerCorner: 0.1, UpperCorner: 0.01, Order: 4}, 2, true},
		{"upper corner above Nyquist", BandpassConfig{LowerCorner: 0.01, UpperCorner: 1.5, Order: 4}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.rate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBandpassPassband(t *testing.T) {
	// mid-band sine should come through with near-unit amplitude
	cfg := BandpassConfig{LowerCorner: 0.01, UpperCorner: 0.2, Order: 4}
	tr := sineTrace(0.05, 10, 20000)

	testutil.AssertNoError(t, cfg.Apply(tr))
	// two periods after settling
	testutil.AssertInDelta(t, tailPeak(tr.Data, 400), 1, 0.1)
}

func TestBandpassRejectsDC(t *testing.T) {
	cfg := BandpassConfig{LowerCorner: 0.01, UpperCorner: 0.2, Order: 4}
	tr := rampTrace(40000, 0.1, 0) // constant unit signal at 10 Hz sampling

	if err := cfg.Apply(tr); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if peak := tailPeak(tr.Data, 100); peak > 0.02 {
		t.Errorf("DC leak after highpass = %v, want ~0", peak)
	}
}

func TestBandpassRejectsHighFrequency(t *testing.T) {
	cfg := BandpassConfig{LowerCorner: 0.01, UpperCorner: 0.2, Order: 4}
	tr := sineTrace(2, 10, 20000)

	if err := cfg.Apply(tr); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if peak := tailPeak(tr.Data, 100); peak > 0.01 {
		t.Errorf("stopband leak = %v, want ~0", peak)
	}
}

func TestButterworthSectionCount(t *testing.T) {
	for _, order := range []int{2, 4, 6, 8} {
		got := len(butterworthSections(lowpass, 0.1, 10, order))
		if got != order/2 {
			t.Errorf("order %d: got %d sections, want %d", order, got, order/2)
		}
	}
}
