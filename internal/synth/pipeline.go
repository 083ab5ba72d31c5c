package synth

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tremor-data/forward.report/internal/faultsource"
	"github.com/tremor-data/forward.report/internal/gfstore"
	"github.com/tremor-data/forward.report/internal/seistrace"
)

// ErrGridMismatch is returned when per-target traces disagree on sample
// spacing or length, which would make element-wise stacking meaningless.
// The pipeline does not resample to reconcile mismatched grids.
var ErrGridMismatch = errors.New("synth: traces do not share a sample grid")

// OutMode selects the shape of the pipeline output.
type OutMode int

const (
	// OutArray returns a dense matrix with one row per target.
	OutArray OutMode = iota
	// OutTraces returns one stacked Trace per target.
	OutTraces
)

// Options configures one Compute run. Nil Taper or Filter skips that
// conditioning step.
type Options struct {
	Taper  *seistrace.ArrivalTaper
	Filter *seistrace.BandpassConfig

	// ReferenceTaperer overrides per-pair window computation: all traces
	// share this one window.
	ReferenceTaperer *seistrace.CosTaper

	OutMode  OutMode
	NWorkers int
}

// Output holds the stacked synthetics. Array is set in OutArray mode,
// Traces in OutTraces mode; TMins carries each target's conditioned
// start time, the anchor for conditioning the observed counterparts.
type Output struct {
	Array  *mat.Dense
	Traces []*seistrace.Trace
	TMins  []float64
}

// Pipeline computes conditioned synthetic seismograms. It owns no state
// beyond its collaborators: the solver engine and the travel-time store
// keyed per target.
type Pipeline struct {
	Engine Engine
	Store  gfstore.Store
}

// NewPipeline returns a Pipeline over the given collaborators.
func NewPipeline(engine Engine, store gfstore.Store) *Pipeline {
	return &Pipeline{Engine: engine, Store: store}
}

// Compute runs the forward solver for the full (sources × targets)
// cross-product and conditions the results.
//
//  1. Each raw trace is tapered with a window anchored at the phase
//     arrival computed for the first source (or the shared reference
//     window when set) and chopped to the window's outer bounds.
//  2. The optional bandpass is applied.
//  3. Contributions are stacked across sources per target; all traces of
//     one target must share a sample grid.
func (p *Pipeline) Compute(ctx context.Context, sources []*faultsource.RectangularSource,
	targets []*faultsource.Target, opts Options) (*Output, error) {

	if len(sources) == 0 || len(targets) == 0 {
		return nil, errors.New("synth: need at least one source and one target")
	}

	results, err := p.Engine.Process(ctx, sources, targets, opts.NWorkers)
	if err != nil {
		return nil, fmt.Errorf("synth: forward solver: %w", err)
	}
	if want := len(sources) * len(targets); len(results) != want {
		return nil, fmt.Errorf("synth: solver returned %d traces, want %d", len(results), want)
	}

	conditioned := make([]*seistrace.Trace, len(results))
	for i, res := range results {
		tr := res.Trace.Copy()

		if opts.Taper != nil {
			var taperer seistrace.CosTaper
			if opts.ReferenceTaperer != nil {
				taperer = *opts.ReferenceTaperer
			} else {
				// windows are anchored at the first source's arrival so
				// all contributions of one target share a window
				taperer, err = PhaseTaperer(p.Store, sources[0], res.Target, *opts.Taper)
				if err != nil {
					return nil, err
				}
			}
			taperer.ApplyChop(tr)
		}

		if opts.Filter != nil {
			if err := opts.Filter.Apply(tr); err != nil {
				return nil, err
			}
		}
		conditioned[i] = tr
	}

	nt := len(targets)
	tmins := make([]float64, nt)
	for i := 0; i < nt; i++ {
		tmins[i] = conditioned[i].TMin
	}

	stacked, err := stack(conditioned, len(sources), nt)
	if err != nil {
		return nil, err
	}

	out := &Output{TMins: tmins}
	switch opts.OutMode {
	case OutTraces:
		out.Traces = stacked
	default:
		out.Array, err = vstack(stacked)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// stack sums the per-source contributions for each target. Traces are
// ordered source-major; the first source's trace provides the output
// metadata for each target.
func stack(traces []*seistrace.Trace, ns, nt int) ([]*seistrace.Trace, error) {
	out := make([]*seistrace.Trace, nt)
	for t := 0; t < nt; t++ {
		acc := traces[t].Copy()
		for s := 1; s < ns; s++ {
			contrib := traces[s*nt+t]
			if !acc.SameGrid(contrib) {
				return nil, fmt.Errorf("%w: target %d source %d", ErrGridMismatch, t, s)
			}
			for i, v := range contrib.Data {
				acc.Data[i] += v
			}
		}
		out[t] = acc
	}
	return out, nil
}

// vstack packs one trace per row into a dense matrix. All traces must
// have equal length.
func vstack(traces []*seistrace.Trace) (*mat.Dense, error) {
	if len(traces) == 0 {
		return nil, errors.New("synth: nothing to stack")
	}
	n := len(traces[0].Data)
	for i, tr := range traces {
		if len(tr.Data) != n {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d",
				ErrGridMismatch, i, len(tr.Data), n)
		}
	}
	out := mat.NewDense(len(traces), n, nil)
	for i, tr := range traces {
		out.SetRow(i, tr.Data)
	}
	return out, nil
}

// ConditionObserved applies the pipeline's taper and filter treatment to
// already-recorded observation traces, anchored at the supplied start
// times instead of a computed arrival. This keeps synthetic and observed
// conditioning consistent for likelihood comparison. The input traces
// are not mutated.
func ConditionObserved(traces []*seistrace.Trace, taper *seistrace.ArrivalTaper,
	filter *seistrace.BandpassConfig, tmins []float64) (*mat.Dense, error) {

	if taper != nil && len(tmins) != len(traces) {
		return nil, fmt.Errorf("synth: %d start times for %d traces", len(tmins), len(traces))
	}

	cut := make([]*seistrace.Trace, len(traces))
	for i, tr := range traces {
		c := tr.Copy()

		if taper != nil {
			taperer := seistrace.CosTaper{
				TA: tmins[i],
				TB: tmins[i] + taper.B,
				TC: tmins[i] + taper.A + taper.C,
				TD: tmins[i] + taper.A + taper.D,
			}
			taperer.ApplyChop(c)
		}

		if filter != nil {
			if err := filter.Apply(c); err != nil {
				return nil, err
			}
		}
		cut[i] = c
	}
	return vstack(cut)
}
