// Package faultsource defines the source and receiver geometry shared by
// the seismic and geodetic forward-modeling paths: a single rectangular
// fault source type with patch discretisation for either toolchain,
// receiver target descriptors, and crustal reference-profile handling.
package faultsource

import (
	"fmt"
	"math"

	"github.com/tremor-data/forward.report/internal/covariance"
	"github.com/tremor-data/forward.report/internal/units"
)

// PatchKind selects the forward-modeling toolchain a patch is meant for.
// The geometry is identical; the kind is validated so a mismatched
// pipeline wiring fails early instead of producing silently wrong
// synthetics.
type PatchKind int

const (
	Seismic PatchKind = iota
	Geodetic
)

func (k PatchKind) String() string {
	switch k {
	case Seismic:
		return "seismic"
	case Geodetic:
		return "geodetic"
	default:
		return fmt.Sprintf("PatchKind(%d)", int(k))
	}
}

// RectangularSource is a rectangular fault, used for both teleseismic and
// geodetic computations. The depth attribute refers to the top-centre of
// the fault; AdjustReference converts between top and centre conventions.
type RectangularSource struct {
	Lat        float64 // deg
	Lon        float64 // deg
	EastShift  float64 // m, relative to (Lat, Lon)
	NorthShift float64 // m
	Depth      float64 // m
	Time       float64 // source origin time (s)

	Strike float64 // deg
	Dip    float64 // deg
	Rake   float64 // deg

	Length  float64 // along-strike extent (m)
	Width   float64 // down-dip extent (m)
	Slip    float64 // m
	Opening float64 // tensile opening (m), geodetic only
}

// DefaultRectangularSource returns a unit 1x1 km fault with 1 m slip.
func DefaultRectangularSource() RectangularSource {
	return RectangularSource{Length: units.Km, Width: units.Km, Slip: 1}
}

// DipVector returns the unit vector pointing down-dip in (east, north,
// down) coordinates.
func DipVector(dip, strike float64) [3]float64 {
	d := dip * units.DegToRad
	s := strike * units.DegToRad
	return [3]float64{
		math.Cos(d) * math.Cos(s),
		-math.Cos(d) * math.Sin(s),
		math.Sin(d),
	}
}

// StrikeVector returns the unit vector pointing along strike in (east,
// north, down) coordinates.
func StrikeVector(strike float64) [3]float64 {
	s := strike * units.DegToRad
	return [3]float64{math.Sin(s), math.Cos(s), 0}
}

// Center returns the fault centre given the top-centre depth, the fault
// width and the dip vector.
func Center(topDepth, width float64, dipVec [3]float64) [3]float64 {
	return [3]float64{
		0.5 * width * dipVec[0],
		0.5 * width * dipVec[1],
		topDepth + 0.5*width*dipVec[2],
	}
}

// TopDepth returns the fault top-centre position given the centre depth.
func TopDepth(centerDepth, width float64, dipVec [3]float64) [3]float64 {
	return [3]float64{
		-0.5 * width * dipVec[0],
		-0.5 * width * dipVec[1],
		centerDepth - 0.5*width*dipVec[2],
	}
}

// Patches cuts the source into n (along strike) by m (down dip)
// sub-faults. Discretisation starts at shallow depth going row-wise
// deeper; patch depths refer to patch centres. The kind must be Seismic
// or Geodetic.
func (rs *RectangularSource) Patches(n, m int, kind PatchKind) ([]RectangularSource, error) {
	if kind != Seismic && kind != Geodetic {
		return nil, fmt.Errorf("faultsource: unsupported patch kind %v", kind)
	}
	if n < 1 || m < 1 {
		return nil, fmt.Errorf("faultsource: patch grid %dx%d must be at least 1x1", n, m)
	}

	length := rs.Length / float64(n)
	width := rs.Width / float64(m)
	dipVec := DipVector(rs.Dip, rs.Strike)
	strikeVec := StrikeVector(rs.Strike)

	patches := make([]RectangularSource, 0, n*m)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			alongStrike := (float64(i) + 0.5 - 0.5*float64(n)) * length
			downDip := (float64(j) + 0.5 - 0.5*float64(m)) * width

			center := Center(rs.Depth, width, dipVec)
			var sub [3]float64
			for c := 0; c < 3; c++ {
				sub[c] = center[c] + strikeVec[c]*alongStrike + dipVec[c]*downDip
			}

			patch := RectangularSource{
				Lat:        rs.Lat,
				Lon:        rs.Lon,
				EastShift:  sub[0] + rs.EastShift,
				NorthShift: sub[1] + rs.NorthShift,
				Depth:      sub[2],
				Time:       rs.Time,
				Strike:     rs.Strike,
				Dip:        rs.Dip,
				Rake:       rs.Rake,
				Length:     length,
				Width:      width,
				Slip:       rs.Slip,
			}
			if kind == Geodetic {
				patch.Opening = rs.Opening
			}
			patches = append(patches, patch)
		}
	}
	return patches, nil
}

// DepthReference selects the meaning of a source's Depth field.
type DepthReference string

const (
	DepthTop    DepthReference = "top"
	DepthCenter DepthReference = "center"
)

// AdjustReference moves the source's depth and east/north shifts so that
// Depth refers to the fault centre, given which convention the input
// depth uses. The source is updated in place.
func AdjustReference(src *RectangularSource, input DepthReference) error {
	dipVec := DipVector(src.Dip, src.Strike)

	var center [3]float64
	switch input {
	case DepthTop:
		center = Center(src.Depth, src.Width, dipVec)
	case DepthCenter:
		center = [3]float64{0, 0, src.Depth}
	default:
		return fmt.Errorf("faultsource: unknown depth reference %q", input)
	}

	src.EastShift += center[0]
	src.NorthShift += center[1]
	src.Depth = center[2]
	return nil
}

// EffectiveLatLon returns the source position with the east/north shifts
// applied.
func (rs *RectangularSource) EffectiveLatLon() (float64, float64) {
	return units.ShiftLatLon(rs.Lat, rs.Lon, rs.NorthShift, rs.EastShift)
}

// Target describes one receiver channel, tied to the Green's-function
// store holding its velocity-model variant.
type Target struct {
	Network  string
	Station  string
	Location string
	Channel  string

	Lat     float64
	Lon     float64
	Azimuth float64
	Dip     float64

	// StoreID names the Green's-function store for this target's
	// velocity model variant.
	StoreID string

	// Covariance holds the data and model-prediction covariances used
	// when scoring fits against this target.
	Covariance *covariance.Covariance
}

// String returns the dotted NET.STA.LOC.CHA code for the target.
func (t *Target) String() string {
	return fmt.Sprintf("%s.%s.%s.%s", t.Network, t.Station, t.Location, t.Channel)
}

// DistanceTo returns the surface distance in metres from the source's
// effective position to the target.
func (t *Target) DistanceTo(src *RectangularSource) float64 {
	lat, lon := src.EffectiveLatLon()
	return units.GreatCircleDistance(lat, lon, t.Lat, t.Lon)
}
