package util

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance between two points in meters.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	a := sinLat*sinLat +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*sinLng*sinLng

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

// InitialBearing returns the forward azimuth from the first point toward the
// second, in degrees normalized to [0, 360).
func InitialBearing(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLng)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// MoveToward returns the point reached by traveling distanceMeters from the
// start point toward the end point along the great-circle path. If the
// requested distance exceeds the separation, the end point is returned.
func MoveToward(startLat, startLng, endLat, endLng, distanceMeters float64) [2]float64 {
	startPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(startLat, startLng))
	endPoint := s2.PointFromLatLng(s2.LatLngFromDegrees(endLat, endLng))

	totalAngle := s1.Angle(s2.ChordAngleBetweenPoints(startPoint, endPoint).Angle())
	totalMeters := totalAngle.Radians() * earthRadiusMeters

	if distanceMeters >= totalMeters {
		return [2]float64{endLat, endLng}
	}

	newPoint := s2.Interpolate(distanceMeters/totalMeters, startPoint, endPoint)
	newLatLng := s2.LatLngFromPoint(newPoint)

	return [2]float64{newLatLng.Lat.Degrees(), newLatLng.Lng.Degrees()}
}
