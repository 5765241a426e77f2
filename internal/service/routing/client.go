package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/util"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry encodings supported by OSRM.
const (
	GeometryGeoJSON  = "geojson"
	GeometryPolyline = "polyline"
)

// Client fetches driving routes from an OSRM-compatible HTTP service.
type Client struct {
	baseURL    string
	geometries string
	httpClient *http.Client
}

// NewClient creates an OSRM client. A nil httpClient gets a 15 s timeout
// default. Geometry defaults to GeoJSON.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		geometries: GeometryGeoJSON,
		httpClient: httpClient,
	}
}

// osrm wire format, routes[0] is the preferred route
type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Geometry json.RawMessage `json:"geometry"`
	Legs     []osrmLeg       `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	// Location order is [lon, lat] per GeoJSON convention
	Location [2]float64 `json:"location"`
	Type     string     `json:"type"`
	Modifier string     `json:"modifier"`
}

// FetchRoute requests a driving route between origin and destination and
// extracts geometry, totals and turn-by-turn steps from the first returned
// route.
func (c *Client) FetchRoute(ctx context.Context, origin, dest model.LatLng) (*model.Route, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=%s&steps=true",
		c.baseURL, origin.Lng, origin.Lat, dest.Lng, dest.Lat, c.geometries)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse routing response: %w", err)
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("routing service returned no route (code %q)", parsed.Code)
	}

	return c.toRoute(&parsed.Routes[0])
}

// toRoute converts the wire route into the domain model.
func (c *Client) toRoute(r *osrmRoute) (*model.Route, error) {
	points, err := c.decodeGeometry(r.Geometry)
	if err != nil {
		return nil, err
	}

	route := &model.Route{
		Points:          points,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}

	if len(r.Legs) > 0 {
		for _, step := range r.Legs[0].Steps {
			route.Steps = append(route.Steps, model.RouteStep{
				Instruction: instructionText(step),
				Maneuver:    model.LatLng{Lat: step.Maneuver.Location[1], Lng: step.Maneuver.Location[0]},
			})
		}
	}

	return route, nil
}

// decodeGeometry handles both the GeoJSON LineString and the encoded
// polyline representations.
func (c *Client) decodeGeometry(raw json.RawMessage) ([]model.LatLng, error) {
	if c.geometries == GeometryPolyline {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("invalid polyline geometry: %w", err)
		}
		pairs := util.DecodePolyline(encoded)
		points := make([]model.LatLng, len(pairs))
		for i, p := range pairs {
			points[i] = model.LatLng{Lat: p[0], Lng: p[1]}
		}
		return points, nil
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid geojson geometry: %w", err)
	}
	line, ok := geom.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected geometry type %q", geom.Type)
	}

	points := make([]model.LatLng, len(line))
	for i, p := range line {
		points[i] = model.LatLng{Lat: p.Lat(), Lng: p.Lon()}
	}
	return points, nil
}

// instructionText renders a human-readable instruction from an OSRM step.
func instructionText(step osrmStep) string {
	var b strings.Builder

	switch step.Maneuver.Type {
	case "depart":
		b.WriteString("Head out")
	case "arrive":
		b.WriteString("Arrive at destination")
	case "turn":
		b.WriteString("Turn")
	case "merge":
		b.WriteString("Merge")
	case "fork":
		b.WriteString("Keep")
	case "roundabout", "rotary":
		b.WriteString("Take the roundabout")
	case "end of road":
		b.WriteString("At the end of the road turn")
	default:
		b.WriteString("Continue")
	}

	if step.Maneuver.Modifier != "" && step.Maneuver.Type != "arrive" {
		b.WriteString(" ")
		b.WriteString(step.Maneuver.Modifier)
	}

	if step.Name != "" && step.Maneuver.Type != "arrive" {
		b.WriteString(" onto ")
		b.WriteString(step.Name)
	}

	return b.String()
}
