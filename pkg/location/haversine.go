// Package location holds the coordinate math shared by the location log.
package location

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// CoordinateDecimals matches the scale of the latitude and longitude columns.
const CoordinateDecimals = 8

var coordinateScale = math.Pow10(CoordinateDecimals)

// HaversineKm is the great-circle distance in kilometres between two
// latitude/longitude pairs given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// RoundCoordinate rounds v to CoordinateDecimals places, the precision the
// store keeps.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*coordinateScale) / coordinateScale
}
