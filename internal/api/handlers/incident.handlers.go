package routes

import (
	"errors"

	"respondnav/internal/model"
	"respondnav/internal/service/incident"

	"github.com/gin-gonic/gin"
)

// SetupIncidentHandlers registers the incident endpoints
func SetupIncidentHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/incidents")

	group.GET("", func(c *gin.Context) { listIncidents(c, svc) })
	group.POST("", func(c *gin.Context) { createIncident(c, svc) })
	group.GET("/nearby", func(c *gin.Context) { nearbyIncidents(c, svc) })
	group.GET("/:id", func(c *gin.Context) { getIncident(c, svc) })
	group.POST("/:id/resolve", func(c *gin.Context) { resolveIncident(c, svc) })
}

func listIncidents(c *gin.Context, svc *Services) {
	c.JSON(200, gin.H{
		"status":    "success",
		"incidents": svc.Incidents.List(),
	})
}

type createIncidentRequest struct {
	Name     string   `json:"name" binding:"required"`
	Severity string   `json:"severity" binding:"required,oneof=high medium low"`
	Lat      *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng      *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
	Address  string   `json:"address"`
}

func createIncident(c *gin.Context, svc *Services) {
	var req createIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	inc, err := svc.Incidents.Create(req.Name, model.Severity(req.Severity), *req.Lat, *req.Lng, req.Address)
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(201, gin.H{
		"status":   "success",
		"incident": inc,
	})
}

func getIncident(c *gin.Context, svc *Services) {
	inc, err := svc.Incidents.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			c.JSON(404, gin.H{"status": "error", "message": "incident not found"})
			return
		}
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"status":   "success",
		"incident": inc,
	})
}

func resolveIncident(c *gin.Context, svc *Services) {
	inc, err := svc.Incidents.Resolve(c.Param("id"))
	if err != nil {
		if errors.Is(err, incident.ErrNotFound) {
			c.JSON(404, gin.H{"status": "error", "message": "incident not found"})
			return
		}
		c.JSON(500, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"status":   "success",
		"incident": inc,
	})
}

type nearbyQuery struct {
	// Pointers so that 0 passes required
	Lat    *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	Radius float64  `form:"radius" binding:"gte=0"`
}

func nearbyIncidents(c *gin.Context, svc *Services) {
	var q nearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if q.Radius == 0 {
		q.Radius = 5000
	}

	c.JSON(200, gin.H{
		"status":    "success",
		"incidents": svc.Incidents.Nearby(*q.Lat, *q.Lng, q.Radius),
	})
}
