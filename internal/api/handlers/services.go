package routes

import (
	"respondnav/internal/model"
	"respondnav/internal/service/incident"
	"respondnav/internal/service/location"
	"respondnav/internal/service/navigation"
	"respondnav/internal/service/routing"
	"respondnav/internal/service/tiles"
)

// Services bundles the service instances the handlers operate on.
type Services struct {
	Source    *location.PushSource
	Watcher   *location.Watcher
	Nav       *navigation.NavigationService
	Routes    *routing.RouteService
	Tiles     *tiles.TileService
	Incidents *incident.IncidentService
}

func latLng(lat, lng float64) model.LatLng {
	return model.LatLng{Lat: lat, Lng: lng}
}
