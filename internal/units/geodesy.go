package units

import "math"

// GreatCircleDistance returns the surface distance in metres between two
// geographic points, using the haversine formulation on a spherical Earth.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * DegToRad
	phi2 := lat2 * DegToRad
	dphi := (lat2 - lat1) * DegToRad
	dlam := (lon2 - lon1) * DegToRad

	sinPhi := math.Sin(dphi / 2)
	sinLam := math.Sin(dlam / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(a)))
}

// ShiftLatLon offsets a geographic point by local north and east shifts in
// metres, using a flat-Earth approximation valid for shifts small compared
// to the Earth radius.
func ShiftLatLon(lat, lon, northM, eastM float64) (float64, float64) {
	newLat := lat + MToDeg(northM)
	newLon := lon + MToDeg(eastM)/math.Cos(lat*DegToRad)
	return newLat, newLon
}
