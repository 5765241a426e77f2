package mapview

import (
	"testing"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/service/navigation"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity model.Severity
		want     string
	}{
		{model.SeverityHigh, "red"},
		{model.SeverityMedium, "orange"},
		{model.SeverityLow, "green"},
		{model.Severity("unknown"), "blue"},
		{model.Severity(""), "blue"},
	}

	for _, tt := range tests {
		if got := SeverityColor(tt.severity); got != tt.want {
			t.Errorf("SeverityColor(%q) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestComposeRenderContext(t *testing.T) {
	fix := &model.Fix{Lat: 50.45, Lng: 30.52, AccuracyMeters: 12, Timestamp: time.Now()}

	inline := Compose(fix, navigation.State{}, nil, nil, ContextInline)
	if inline.Zoom != 15 || inline.CSSClass != "map-inline" {
		t.Errorf("inline view = zoom %d class %q", inline.Zoom, inline.CSSClass)
	}

	modal := Compose(fix, navigation.State{}, nil, nil, ContextModal)
	if modal.Zoom != 13 || modal.CSSClass != "map-modal" {
		t.Errorf("modal view = zoom %d class %q", modal.Zoom, modal.CSSClass)
	}
}

func TestComposeMarkers(t *testing.T) {
	fix := &model.Fix{Lat: 50.45, Lng: 30.52, AccuracyMeters: 12, Timestamp: time.Now()}
	inc := &model.Incident{
		ID:       "abc",
		Name:     "Traffic accident",
		Severity: model.SeverityHigh,
		Lat:      50.46,
		Lng:      30.53,
	}
	route := &model.Route{
		Points: []model.LatLng{{Lat: 50.45, Lng: 30.52}, {Lat: 50.46, Lng: 30.53}},
	}

	view := Compose(fix, navigation.State{}, route, inc, ContextInline)

	if len(view.Markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(view.Markers))
	}
	if view.Markers[0].Kind != "current" {
		t.Errorf("marker 0 kind = %q, want current", view.Markers[0].Kind)
	}
	if view.Markers[1].Kind != "destination" || view.Markers[1].Color != "red" {
		t.Errorf("marker 1 = %+v, want red destination", view.Markers[1])
	}
	if view.AccuracyMeters != 12 {
		t.Errorf("AccuracyMeters = %v, want 12", view.AccuracyMeters)
	}
	if len(view.Polyline) != 2 {
		t.Errorf("polyline length = %d, want 2", len(view.Polyline))
	}
	if view.Center != fix.Position() {
		t.Errorf("Center = %v, want the current fix", view.Center)
	}
}

func TestComposeWithoutFix(t *testing.T) {
	inc := &model.Incident{ID: "abc", Name: "Fire", Severity: model.SeverityMedium, Lat: 50.46, Lng: 30.53}

	view := Compose(nil, navigation.State{}, nil, inc, ContextInline)

	if len(view.Markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(view.Markers))
	}
	if view.Center != inc.Position() {
		t.Errorf("Center = %v, want the incident site", view.Center)
	}
}

func TestComposeDestinationFromNavigation(t *testing.T) {
	dest := model.LatLng{Lat: 50.47, Lng: 30.54}
	nav := navigation.State{
		IsNavigating:    true,
		Destination:     &dest,
		DestinationName: "Rally point",
	}

	view := Compose(nil, nav, nil, nil, ContextInline)

	if len(view.Markers) != 1 {
		t.Fatalf("got %d markers, want 1", len(view.Markers))
	}
	m := view.Markers[0]
	if m.Kind != "destination" || m.Pos != dest || m.Color != "blue" || m.Label != "Rally point" {
		t.Errorf("marker = %+v", m)
	}
}
