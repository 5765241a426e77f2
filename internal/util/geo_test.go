package util

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
		tolerance  float64
	}{
		{
			name: "zero distance",
			lat1: 50.45, lng1: 30.52,
			lat2: 50.45, lng2: 30.52,
			want: 0, tolerance: 0.001,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lng1: 0,
			lat2: 0, lng2: 1,
			want: 111194.9, tolerance: 1,
		},
		{
			name: "quarter of the meridian",
			lat1: 0, lng1: 0,
			lat2: 90, lng2: 0,
			want: math.Pi / 2 * 6371000, tolerance: 1,
		},
		{
			name: "short hop",
			lat1: 40.7128, lng1: -74.0060,
			lat2: 40.7138, lng2: -74.0060,
			want: 111.19, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineDistance() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
	}{
		{"due east along the equator", 0, 0, 0, 90, 90},
		{"due north", 0, 0, 90, 0, 0},
		{"due west along the equator", 0, 0, 0, -90, 270},
		{"due south", 45, 10, 44, 10, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitialBearing(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("InitialBearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitialBearingRange(t *testing.T) {
	// The result must always normalize into [0, 360)
	points := []struct{ lat1, lng1, lat2, lng2 float64 }{
		{10, 20, -30, -40},
		{-50, 100, 60, -120},
		{0.001, 0.001, -0.001, -0.001},
		{89, 0, -89, 180},
	}

	for _, p := range points {
		got := InitialBearing(p.lat1, p.lng1, p.lat2, p.lng2)
		if got < 0 || got >= 360 {
			t.Errorf("InitialBearing(%v) = %v, outside [0, 360)", p, got)
		}
	}
}

func TestMoveToward(t *testing.T) {
	// Moving the full separation (or more) lands exactly on the end point
	got := MoveToward(0, 0, 0, 1, 200000)
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("MoveToward beyond end = %v, want end point", got)
	}

	// Moving half the separation lands halfway
	got = MoveToward(0, 0, 0, 1, 55597.46)
	if math.Abs(got[1]-0.5) > 0.001 {
		t.Errorf("MoveToward half = %v, want lng close to 0.5", got)
	}

	// The moved distance matches the requested distance
	got = MoveToward(50.45, 30.52, 50.5, 30.6, 1000)
	moved := HaversineDistance(50.45, 30.52, got[0], got[1])
	if math.Abs(moved-1000) > 1 {
		t.Errorf("MoveToward moved %v m, want 1000 m", moved)
	}
}
