package mapview

import (
	"respondnav/internal/model"
	"respondnav/internal/service/navigation"
)

// RenderContext tells the surface where it is mounted. Passed explicitly by
// the parent instead of being sniffed from the surroundings.
type RenderContext string

const (
	ContextInline RenderContext = "inline"
	ContextModal  RenderContext = "modal"
)

// Zoom per context: modal dialogs get a wider view.
const (
	inlineZoom = 15
	modalZoom  = 13
)

// Marker is a point drawn on the map.
type Marker struct {
	Kind  string       `json:"kind"`
	Pos   model.LatLng `json:"pos"`
	Color string       `json:"color,omitempty"`
	Label string       `json:"label,omitempty"`
}

// View is the render model the frontend draws: markers, the accuracy circle
// radius, and the route polyline.
type View struct {
	Center         model.LatLng     `json:"center"`
	Zoom           int              `json:"zoom"`
	CSSClass       string           `json:"css_class"`
	Markers        []Marker         `json:"markers"`
	AccuracyMeters float64          `json:"accuracy_meters,omitempty"`
	Polyline       []model.LatLng   `json:"polyline,omitempty"`
	Navigation     navigation.State `json:"navigation"`
}

// SeverityColor maps incident severity to its marker color. Unknown
// severities fall back to blue.
func SeverityColor(severity model.Severity) string {
	switch severity {
	case model.SeverityHigh:
		return "red"
	case model.SeverityMedium:
		return "orange"
	case model.SeverityLow:
		return "green"
	default:
		return "blue"
	}
}

// Compose builds the render model from the current fix, navigation state,
// route and destination incident. Any of fix, incident may be nil.
func Compose(fix *model.Fix, nav navigation.State, route *model.Route, incident *model.Incident, rc RenderContext) View {
	view := View{
		Zoom:       inlineZoom,
		CSSClass:   "map-inline",
		Navigation: nav,
	}

	if rc == ContextModal {
		view.Zoom = modalZoom
		view.CSSClass = "map-modal"
	}

	if fix != nil {
		view.Center = fix.Position()
		view.AccuracyMeters = fix.AccuracyMeters
		view.Markers = append(view.Markers, Marker{
			Kind: "current",
			Pos:  fix.Position(),
		})
	}

	if incident != nil {
		view.Markers = append(view.Markers, Marker{
			Kind:  "destination",
			Pos:   incident.Position(),
			Color: SeverityColor(incident.Severity),
			Label: incident.Name,
		})
		if fix == nil {
			view.Center = incident.Position()
		}
	} else if nav.Destination != nil {
		view.Markers = append(view.Markers, Marker{
			Kind:  "destination",
			Pos:   *nav.Destination,
			Color: SeverityColor(""),
			Label: nav.DestinationName,
		})
	}

	if route != nil {
		view.Polyline = route.Points
	}

	return view
}
