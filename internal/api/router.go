package api

import (
	routes "respondnav/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, svc *routes.Services, config map[string]string) {
	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), config)

	// Setup domain handlers
	routes.SetupLocationHandlers(api, svc)
	routes.SetupNavigationHandlers(api, svc)
	routes.SetupRouteHandlers(api, svc)
	routes.SetupIncidentHandlers(api, svc)
	routes.SetupTileHandlers(api, svc)
	routes.SetupMapHandlers(api, svc)
}
