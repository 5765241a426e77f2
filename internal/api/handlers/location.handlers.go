package routes

import (
	"context"
	"log"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/service/location"

	"github.com/gin-gonic/gin"
)

// SetupLocationHandlers registers the location tracking endpoints
func SetupLocationHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/location")

	group.POST("", func(c *gin.Context) { pushFix(c, svc) })
	group.GET("", func(c *gin.Context) { currentFix(c, svc) })
	group.GET("/history", func(c *gin.Context) { fixHistory(c, svc) })
	group.POST("/error", func(c *gin.Context) { pushError(c, svc) })
	group.POST("/tracking/start", func(c *gin.Context) { startTracking(c, svc) })
	group.POST("/tracking/stop", func(c *gin.Context) { stopTracking(c, svc) })
}

type fixRequest struct {
	// Pointers so that 0 (equator, prime meridian) passes required
	Lat            *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng            *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
	AccuracyMeters float64 `json:"accuracy_meters" binding:"gte=0"`
	HeadingDeg     float64 `json:"heading_deg" binding:"gte=0,lt=360"`
	SpeedMps       float64 `json:"speed_mps" binding:"gte=0"`
}

// pushFix receives a raw fix from the responder's device
func pushFix(c *gin.Context, svc *Services) {
	var req fixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	svc.Source.Push(model.Fix{
		Lat:            *req.Lat,
		Lng:            *req.Lng,
		AccuracyMeters: req.AccuracyMeters,
		HeadingDeg:     req.HeadingDeg,
		SpeedMps:       req.SpeedMps,
		Timestamp:      time.Now(),
	})

	c.JSON(202, gin.H{"status": "accepted"})
}

type sourceErrorRequest struct {
	Code int `json:"code" binding:"required,gte=1,lte=3"`
}

// pushError reports a device-side positioning failure
func pushError(c *gin.Context, svc *Services) {
	var req sourceErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	svc.Source.Fail(location.ErrorCode(req.Code), nil)
	c.JSON(202, gin.H{"status": "accepted"})
}

func currentFix(c *gin.Context, svc *Services) {
	fix, ok := svc.Watcher.Current()
	if !ok {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "no location fix yet",
			"error":   svc.Watcher.LastError(),
		})
		return
	}

	c.JSON(200, gin.H{
		"status":   "success",
		"fix":      fix,
		"tracking": svc.Watcher.Tracking(),
		"error":    svc.Watcher.LastError(),
	})
}

func fixHistory(c *gin.Context, svc *Services) {
	c.JSON(200, gin.H{
		"status":  "success",
		"history": svc.Watcher.History(),
	})
}

func startTracking(c *gin.Context, svc *Services) {
	if err := svc.Watcher.StartTracking(context.Background()); err != nil {
		c.JSON(409, gin.H{"status": "error", "message": err.Error()})
		return
	}

	log.Println("Location tracking started")
	c.JSON(200, gin.H{"status": "success", "message": "Tracking started"})
}

func stopTracking(c *gin.Context, svc *Services) {
	svc.Watcher.StopTracking()

	log.Println("Location tracking stopped")
	c.JSON(200, gin.H{"status": "success", "message": "Tracking stopped"})
}
