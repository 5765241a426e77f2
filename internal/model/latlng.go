package model

import "strconv"

// LatLng is a WGS-84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Key returns the coordinate pair as a "lat,lng" string. Used as the building
// block for route cache keys, so the formatting must stay stable.
func (p LatLng) Key() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
