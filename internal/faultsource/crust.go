package faultsource

import (
	"fmt"
	"math"
)

// Named crustal layer categories of a reference profile, mirroring the
// global crustal database's layer set.
const (
	LayerWater        = "water"
	LayerIce          = "ice"
	LayerSoftSediment = "softsed"
	LayerHardSediment = "hardsed"
	LayerUpperCrust   = "uppercrust"
	LayerMiddleCrust  = "middlecrust"
	LayerLowerCrust   = "lowercrust"
)

// CrustProfile is the layered reference profile returned by the crustal
// database for a geographic location: a thickness per named category plus
// the site elevation.
type CrustProfile struct {
	Thickness map[string]float64 // m per layer category
	Elevation float64            // m
}

// ProfileProvider is the crustal-database contract: a reference profile
// per geographic location.
type ProfileProvider interface {
	Profile(lat, lon float64) (*CrustProfile, error)
}

// LayerThickness returns the thickness of a named layer, zero if unset.
func (p *CrustProfile) LayerThickness(name string) float64 {
	return p.Thickness[name]
}

// SetLayerThickness sets the thickness of a named layer.
func (p *CrustProfile) SetLayerThickness(name string, m float64) {
	if p.Thickness == nil {
		p.Thickness = make(map[string]float64)
	}
	p.Thickness[name] = m
}

// RemediateWaterLayer removes an anomalous water layer from a profile
// before model construction, folding its thickness into the solid layers.
// The redistribution is a fixed domain heuristic and its arithmetic is
// preserved as-is:
//
//   - Seismic: the soft-sediment layer is thinned to ceil(softsed/3) and
//     the lower crust takes the water plus the sediment remainder.
//   - Geodetic: the whole water thickness goes to the lower crust.
//
// In both modes the water thickness and elevation are zeroed. Profiles
// without water are returned unchanged.
func RemediateWaterLayer(p *CrustProfile, kind PatchKind) error {
	water := p.LayerThickness(LayerWater)
	if water <= 0 {
		return nil
	}

	lowerCrust := p.LayerThickness(LayerLowerCrust)

	switch kind {
	case Seismic:
		softSed := p.LayerThickness(LayerSoftSediment)
		keptSed := math.Ceil(softSed / 3)
		p.SetLayerThickness(LayerSoftSediment, keptSed)
		p.SetLayerThickness(LayerLowerCrust, lowerCrust+water+(softSed-keptSed))
	case Geodetic:
		p.SetLayerThickness(LayerLowerCrust, lowerCrust+water)
	default:
		return fmt.Errorf("faultsource: unsupported remediation kind %v", kind)
	}

	p.SetLayerThickness(LayerWater, 0)
	p.Elevation = 0
	return nil
}
