package model

import "time"

// Fix is a single accepted location update. Fixes are ephemeral: the watcher
// keeps the current fix and a short rolling history, nothing is persisted.
type Fix struct {
	Lat              float64   `json:"lat"`
	Lng              float64   `json:"lng"`
	AccuracyMeters   float64   `json:"accuracy_meters"`
	Timestamp        time.Time `json:"timestamp"`
	HeadingDeg       float64   `json:"heading_deg,omitempty"`
	SpeedMps         float64   `json:"speed_mps,omitempty"`
	BearingToDestDeg float64   `json:"bearing_to_dest_deg,omitempty"`
}

// Position returns the fix location as a LatLng.
func (f Fix) Position() LatLng {
	return LatLng{Lat: f.Lat, Lng: f.Lng}
}
