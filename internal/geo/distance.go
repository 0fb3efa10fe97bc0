// Package geo provides great-circle distance math shared by the snapshot
// loader and the trip optimizer.
package geo

import "math"

// earthRadiusMiles matches the constant used for all stored distances.
// Distances must never mix this with any other radius or unit.
const earthRadiusMiles = 3959.87433

// Miles returns the haversine great-circle distance between two points in
// miles, rounded to 2 decimal places. Pure and total: any real coordinates
// yield a result, no error conditions.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return Round2(earthRadiusMiles * c)
}

// Round2 rounds to 2 decimal places. Used for displayed totals; intermediate
// comparisons keep full precision.
func Round2(v float64) float64 {
	if math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
