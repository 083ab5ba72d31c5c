// Package config loads the JSON tuning parameters of the forward-model
// conditioning pipeline: the arrival taper four-tuple, bandpass corners
// and order, ensemble uncertainty fractions and acceptance threshold, and
// the sampling setup. Pointer fields distinguish "unset" from zero so the
// same JSON works for partial overrides and full configurations.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tremor-data/forward.report/internal/earthmodel"
	"github.com/tremor-data/forward.report/internal/seistrace"
	"github.com/tremor-data/forward.report/internal/units"
)

// TuningConfig is the root tuning document. Fields omitted from the JSON
// fall back to the Get* defaults, so partial configs are safe.
type TuningConfig struct {
	// Sampling
	SampleRate *float64 `json:"sample_rate,omitempty"` // Hz

	// Arrival taper offsets in seconds around the phase arrival
	TaperA *float64 `json:"taper_a,omitempty"`
	TaperB *float64 `json:"taper_b,omitempty"`
	TaperC *float64 `json:"taper_c,omitempty"`
	TaperD *float64 `json:"taper_d,omitempty"`

	// Bandpass
	FilterLowerCorner *float64 `json:"filter_lower_corner,omitempty"` // Hz
	FilterUpperCorner *float64 `json:"filter_upper_corner,omitempty"` // Hz
	FilterOrder       *int     `json:"filter_order,omitempty"`

	// Ensemble generation
	ErrDepth          *float64 `json:"err_depth,omitempty"`     // fractional
	ErrVelocity       *float64 `json:"err_velocity,omitempty"`  // fractional
	DepthLimitKm      *float64 `json:"depth_limit_km,omitempty"`
	AcceptCost        *int     `json:"accept_cost,omitempty"`
	MaxPerturbRetries *int     `json:"max_perturb_retries,omitempty"`

	// Solver
	NWorkers *int `json:"nworkers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads and validates a TuningConfig from a JSON file.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the set configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.SampleRate != nil && *c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %f", *c.SampleRate)
	}
	if c.FilterOrder != nil && (*c.FilterOrder < 2 || *c.FilterOrder%2 != 0) {
		return fmt.Errorf("filter_order must be even and >= 2, got %d", *c.FilterOrder)
	}
	if c.FilterLowerCorner != nil && c.FilterUpperCorner != nil &&
		*c.FilterUpperCorner <= *c.FilterLowerCorner {
		return fmt.Errorf("filter corners not ordered: %f >= %f",
			*c.FilterLowerCorner, *c.FilterUpperCorner)
	}
	for name, v := range map[string]*float64{
		"err_depth":    c.ErrDepth,
		"err_velocity": c.ErrVelocity,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be a fraction between 0 and 1, got %f", name, *v)
		}
	}
	taper := []*float64{c.TaperA, c.TaperB, c.TaperC, c.TaperD}
	for i, v := range taper {
		if v != nil && *v < 0 {
			return fmt.Errorf("taper offset %c must be non-negative, got %f", 'a'+i, *v)
		}
	}
	return nil
}

// Defaults, matching the teleseismic body-wave setup.
const (
	DefaultSampleRate        = 2.0
	DefaultFilterLowerCorner = 0.001
	DefaultFilterUpperCorner = 0.1
	DefaultFilterOrder       = 4
	DefaultErrDepth          = 0.1
	DefaultErrVelocity       = 0.05
	DefaultDepthLimitKm      = 600.0
	DefaultNWorkers          = 1
)

// GetSampleRate returns the configured or default sample rate.
func (c *TuningConfig) GetSampleRate() float64 {
	if c.SampleRate != nil {
		return *c.SampleRate
	}
	return DefaultSampleRate
}

// ArrivalTaper assembles the taper four-tuple, defaulting unset offsets.
func (c *TuningConfig) ArrivalTaper() seistrace.ArrivalTaper {
	at := seistrace.DefaultArrivalTaper()
	if c.TaperA != nil {
		at.A = *c.TaperA
	}
	if c.TaperB != nil {
		at.B = *c.TaperB
	}
	if c.TaperC != nil {
		at.C = *c.TaperC
	}
	if c.TaperD != nil {
		at.D = *c.TaperD
	}
	return at
}

// BandpassConfig assembles the filter configuration.
func (c *TuningConfig) BandpassConfig() seistrace.BandpassConfig {
	bc := seistrace.BandpassConfig{
		LowerCorner: DefaultFilterLowerCorner,
		UpperCorner: DefaultFilterUpperCorner,
		Order:       DefaultFilterOrder,
	}
	if c.FilterLowerCorner != nil {
		bc.LowerCorner = *c.FilterLowerCorner
	}
	if c.FilterUpperCorner != nil {
		bc.UpperCorner = *c.FilterUpperCorner
	}
	if c.FilterOrder != nil {
		bc.Order = *c.FilterOrder
	}
	return bc
}

// PerturbConfig assembles the ensemble perturbation configuration.
func (c *TuningConfig) PerturbConfig() earthmodel.PerturbConfig {
	pc := earthmodel.PerturbConfig{
		ErrDepth:    DefaultErrDepth,
		ErrVelocity: DefaultErrVelocity,
		DepthLimit:  units.KmToM(DefaultDepthLimitKm),
		MaxRetries:  earthmodel.MaxLayerRetries,
	}
	if c.ErrDepth != nil {
		pc.ErrDepth = *c.ErrDepth
	}
	if c.ErrVelocity != nil {
		pc.ErrVelocity = *c.ErrVelocity
	}
	if c.DepthLimitKm != nil {
		pc.DepthLimit = units.KmToM(*c.DepthLimitKm)
	}
	if c.MaxPerturbRetries != nil {
		pc.MaxRetries = *c.MaxPerturbRetries
	}
	return pc
}

// GetAcceptCost returns the ensemble acceptance cost threshold.
func (c *TuningConfig) GetAcceptCost() int {
	if c.AcceptCost != nil {
		return *c.AcceptCost
	}
	return earthmodel.AcceptCostThreshold
}

// GetNWorkers returns the solver worker-count hint.
func (c *TuningConfig) GetNWorkers() int {
	if c.NWorkers != nil && *c.NWorkers > 0 {
		return *c.NWorkers
	}
	return DefaultNWorkers
}
