package routes

import (
	"context"
	"strconv"
	"strings"

	"respondnav/internal/model"

	"github.com/gin-gonic/gin"
)

// SetupTileHandlers registers the tile cache endpoints
func SetupTileHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/tiles")

	group.GET("/:z/:x/:y", func(c *gin.Context) { getTile(c, svc) })
	group.POST("/preload", func(c *gin.Context) { preloadTiles(c, svc) })
}

// getTile serves a tile through the cache; never fails, the placeholder
// covers fetch errors
func getTile(c *gin.Context, svc *Services) {
	z, errZ := strconv.Atoi(c.Param("z"))
	x, errX := strconv.Atoi(c.Param("x"))
	y, errY := strconv.Atoi(strings.TrimSuffix(c.Param("y"), ".png"))
	if errZ != nil || errX != nil || errY != nil {
		c.JSON(400, gin.H{"status": "error", "message": "invalid tile coordinates"})
		return
	}

	data := svc.Tiles.Tile(c.Request.Context(), z, x, y)
	c.Data(200, "image/png", data)
}

type preloadRequest struct {
	// Pointers so that 0 passes required
	Lat    *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng    *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
	Zoom   int      `json:"zoom" binding:"required,gte=1,lte=19"`
	Radius int      `json:"radius"`
}

// preloadTiles warms the tile cache around a point. Runs in the background;
// the response only acknowledges the request.
func preloadTiles(c *gin.Context, svc *Services) {
	var req preloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if req.Radius == 0 {
		req.Radius = 2
	}

	center := model.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	go svc.Tiles.PreloadTiles(context.Background(), center, req.Zoom, req.Radius)

	c.JSON(202, gin.H{
		"status": "accepted",
		"cached": svc.Tiles.CacheLen(),
	})
}
