package routes

import (
	"errors"
	"log"

	"respondnav/internal/model"
	"respondnav/internal/service/incident"
	"respondnav/internal/service/navigation"

	"github.com/gin-gonic/gin"
)

// SetupNavigationHandlers registers the navigation endpoints
func SetupNavigationHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/navigation")

	group.POST("/start", func(c *gin.Context) { startNavigation(c, svc) })
	group.POST("/stop", func(c *gin.Context) { stopNavigation(c, svc) })
	group.GET("/state", func(c *gin.Context) { navigationState(c, svc) })
	group.PATCH("/state", func(c *gin.Context) { patchNavigationState(c, svc) })
	group.POST("/voice", func(c *gin.Context) { setVoice(c, svc) })
}

type startNavigationRequest struct {
	// Either an incident ID or explicit coordinates
	IncidentID string   `json:"incident_id"`
	Lat        *float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng        *float64 `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	Name       string   `json:"name"`
}

func startNavigation(c *gin.Context, svc *Services) {
	var req startNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	var dest model.LatLng
	name := req.Name

	switch {
	case req.IncidentID != "":
		inc, err := svc.Incidents.Get(req.IncidentID)
		if err != nil {
			if errors.Is(err, incident.ErrNotFound) {
				c.JSON(404, gin.H{"status": "error", "message": "incident not found"})
				return
			}
			c.JSON(500, gin.H{"status": "error", "message": err.Error()})
			return
		}
		dest = inc.Position()
		if name == "" {
			name = inc.Name
		}
	case req.Lat != nil && req.Lng != nil:
		dest = model.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	default:
		c.JSON(400, gin.H{"status": "error", "message": "incident_id or lat/lng required"})
		return
	}

	svc.Nav.StartNavigation(dest, name)

	log.Printf("Navigation started to %s (%f, %f)", name, dest.Lat, dest.Lng)
	c.JSON(200, gin.H{
		"status": "success",
		"state":  svc.Nav.State(),
	})
}

func stopNavigation(c *gin.Context, svc *Services) {
	svc.Nav.StopNavigation()

	log.Println("Navigation stopped")
	c.JSON(200, gin.H{
		"status": "success",
		"state":  svc.Nav.State(),
	})
}

func navigationState(c *gin.Context, svc *Services) {
	c.JSON(200, gin.H{
		"status": "success",
		"state":  svc.Nav.State(),
		"route":  svc.Nav.Route(),
	})
}

// patchNavigationState merges recomputed route data pushed back by the map
// surface
func patchNavigationState(c *gin.Context, svc *Services) {
	var patch navigation.StatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	svc.Nav.UpdateState(patch)
	c.JSON(200, gin.H{
		"status": "success",
		"state":  svc.Nav.State(),
	})
}

type voiceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func setVoice(c *gin.Context, svc *Services) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	svc.Nav.SetVoiceEnabled(*req.Enabled)
	c.JSON(200, gin.H{"status": "success"})
}
