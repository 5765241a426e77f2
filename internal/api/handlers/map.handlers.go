package routes

import (
	"respondnav/internal/model"
	"respondnav/internal/service/mapview"

	"github.com/gin-gonic/gin"
)

// SetupMapHandlers registers the map view endpoint
func SetupMapHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/map")

	group.GET("/view", func(c *gin.Context) { mapView(c, svc) })
}

type mapViewQuery struct {
	Context    string `form:"context" binding:"omitempty,oneof=inline modal"`
	IncidentID string `form:"incident_id"`
}

// mapView returns the render model the frontend draws
func mapView(c *gin.Context, svc *Services) {
	var q mapViewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	rc := mapview.ContextInline
	if q.Context == string(mapview.ContextModal) {
		rc = mapview.ContextModal
	}

	var fix *model.Fix
	if f, ok := svc.Watcher.Current(); ok {
		fix = &f
	}

	var inc *model.Incident
	if q.IncidentID != "" {
		if found, err := svc.Incidents.Get(q.IncidentID); err == nil {
			inc = found
		}
	}

	view := mapview.Compose(fix, svc.Nav.State(), svc.Nav.Route(), inc, rc)

	c.JSON(200, gin.H{
		"status": "success",
		"view":   view,
	})
}
