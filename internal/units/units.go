// Package units provides shared physical constants and conversions for
// depths, distances and angles used across the forward-model packages.
package units

import "math"

// Length and angle constants
const (
	// Km is one kilometre in metres. Depths and distances are stored in
	// metres throughout; profile files and CLI flags use kilometres.
	Km = 1000.0

	// EarthRadius is the mean Earth radius in metres.
	EarthRadius = 6371.0 * Km

	// DegToRad converts degrees to radians.
	DegToRad = math.Pi / 180.0

	// RadToDeg converts radians to degrees.
	RadToDeg = 180.0 / math.Pi
)

// KmToM converts kilometres to metres.
func KmToM(km float64) float64 { return km * Km }

// MToKm converts metres to kilometres.
func MToKm(m float64) float64 { return m / Km }

// MToDeg converts a surface distance in metres to great-circle degrees.
func MToDeg(m float64) float64 {
	return m / (EarthRadius * DegToRad)
}

// DegToM converts great-circle degrees to a surface distance in metres.
func DegToM(deg float64) float64 {
	return deg * EarthRadius * DegToRad
}
