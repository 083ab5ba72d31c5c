package seistrace

import (
	"math"
	"testing"
)

func rampTrace(n int, deltaT, tmin float64) *Trace {
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}
	return &Trace{DeltaT: deltaT, TMin: tmin, Data: data}
}

func TestTapererWindowOrdering(t *testing.T) {
	at := ArrivalTaper{A: 15, B: 10, C: 50, D: 55}
	arrival := 120.0

	ct := at.Taperer(arrival)
	if err := ct.Validate(); err != nil {
		t.Fatalf("taper window not ordered: %v", err)
	}
	if ct.TA != arrival-15 || ct.TB != arrival-10 || ct.TC != arrival+50 || ct.TD != arrival+55 {
		t.Errorf("window = %+v, want offsets (-15, -10, +50, +55) around %v", ct, arrival)
	}
}

func TestCosTaperValidate(t *testing.T) {
	if err := (CosTaper{TA: 0, TB: 1, TC: 2, TD: 3}).Validate(); err != nil {
		t.Errorf("ordered taper rejected: %v", err)
	}
	if err := (CosTaper{TA: 2, TB: 1, TC: 3, TD: 4}).Validate(); err == nil {
		t.Error("unordered taper accepted")
	}
}

func TestCosTaperValue(t *testing.T) {
	ct := CosTaper{TA: 10, TB: 20, TC: 30, TD: 40}

	tests := []struct {
		t    float64
		want float64
	}{
		{5, 0},    // before window
		{10, 0},   // fade-in start
		{15, 0.5}, // fade-in midpoint
		{20, 1},   // flat start
		{25, 1},   // flat
		{30, 1},   // flat end
		{35, 0.5}, // fade-out midpoint
		{40, 0},   // fade-out end
		{45, 0},   // after window
	}
	for _, tt := range tests {
		if got := ct.Value(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Value(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	// envelope is bounded and monotone on each ramp
	prev := -1.0
	for x := 10.0; x <= 20; x += 0.5 {
		v := ct.Value(x)
		if v < prev || v < 0 || v > 1 {
			t.Fatalf("fade-in not monotone in [0,1] at t=%v: %v", x, v)
		}
		prev = v
	}
}

func TestCosTaperDegenerateRamps(t *testing.T) {
	// zero-length ramps behave as steps without dividing by zero
	ct := CosTaper{TA: 10, TB: 10, TC: 20, TD: 20}
	if got := ct.Value(15); got != 1 {
		t.Errorf("Value inside degenerate window = %v, want 1", got)
	}
	if got := ct.Value(5); got != 0 {
		t.Errorf("Value outside degenerate window = %v, want 0", got)
	}
}

func TestApplyChop(t *testing.T) {
	// 101 samples at 1 Hz covering t = 0..100
	tr := rampTrace(101, 1, 0)
	ct := CosTaper{TA: 20, TB: 25, TC: 60, TD: 65}

	ct.ApplyChop(tr)

	if tr.TMin != 20 {
		t.Errorf("TMin after chop = %v, want 20", tr.TMin)
	}
	if got := tr.TMax(); got != 65 {
		t.Errorf("TMax after chop = %v, want 65", got)
	}
	if len(tr.Data) != 46 {
		t.Errorf("len(Data) = %d, want 46", len(tr.Data))
	}

	// flat section untouched, edges faded
	if tr.Data[0] != 0 {
		t.Errorf("first kept sample = %v, want 0 (fade-in start)", tr.Data[0])
	}
	mid := int((40 - tr.TMin) / tr.DeltaT)
	if tr.Data[mid] != 1 {
		t.Errorf("flat-section sample = %v, want 1", tr.Data[mid])
	}
}

func TestApplyChopWindowOutsideTrace(t *testing.T) {
	tr := rampTrace(10, 1, 0)
	ct := CosTaper{TA: 100, TB: 105, TC: 110, TD: 115}
	ct.ApplyChop(tr)
	if len(tr.Data) != 0 {
		t.Errorf("expected empty trace for disjoint window, got %d samples", len(tr.Data))
	}
}

func TestTraceCopy(t *testing.T) {
	tr := rampTrace(10, 0.5, 3)
	cp := tr.Copy()
	cp.Data[0] = 42
	if tr.Data[0] == 42 {
		t.Error("Copy shares the sample array")
	}
	if cp.DeltaT != tr.DeltaT || cp.TMin != tr.TMin {
		t.Error("Copy lost metadata")
	}
}
