package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupRouteHandlers registers the route computation endpoints
func SetupRouteHandlers(router *gin.RouterGroup, svc *Services) {
	group := router.Group("/route")

	group.GET("", func(c *gin.Context) { getRoute(c, svc) })
}

type routeQuery struct {
	// Pointers so that 0 passes required
	FromLat *float64 `form:"from_lat" binding:"required,gte=-90,lte=90"`
	FromLng *float64 `form:"from_lng" binding:"required,gte=-180,lte=180"`
	ToLat   *float64 `form:"to_lat" binding:"required,gte=-90,lte=90"`
	ToLng   *float64 `form:"to_lng" binding:"required,gte=-180,lte=180"`
	Force   bool     `form:"force"`
}

// getRoute returns a cached or freshly fetched route between two points
func getRoute(c *gin.Context, svc *Services) {
	var q routeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	origin := latLng(*q.FromLat, *q.FromLng)
	dest := latLng(*q.ToLat, *q.ToLng)

	route, err := svc.Routes.GetRoute(c.Request.Context(), origin, dest, q.Force)
	if err != nil {
		c.JSON(502, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"status": "success",
		"route":  route,
	})
}
