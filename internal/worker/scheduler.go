package worker

import (
	"log"

	"respondnav/internal/config"
	"respondnav/internal/service/incident"
	"respondnav/internal/service/location"
	"respondnav/internal/service/tiles"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(watcher *location.Watcher, tileService *tiles.TileService, incidentService *incident.IncidentService) {
	log.Println("Starting all workers...")

	StartTilePrefetchWorker(watcher, tileService)
	incidentService.StartPersistenceWorkers(config.RedisBackupInterval, config.PostgresBackupInterval)

	log.Println("All workers started")
}
