package model

// RouteStep is a single turn instruction with its maneuver point.
type RouteStep struct {
	Instruction string `json:"instruction"`
	Maneuver    LatLng `json:"maneuver"`
}

// Route is a driving route between two points. Direct marks the degraded
// straight-line fallback used when the routing service is unreachable.
type Route struct {
	Points          []LatLng    `json:"points"`
	DistanceMeters  float64     `json:"distance_meters"`
	DurationSeconds float64     `json:"duration_seconds"`
	Steps           []RouteStep `json:"steps,omitempty"`
	Direct          bool        `json:"direct,omitempty"`
}
