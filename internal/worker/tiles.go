package worker

import (
	"context"
	"log"
	"time"

	"respondnav/internal/config"
	"respondnav/internal/service/location"
	"respondnav/internal/service/tiles"
)

const prefetchZoom = 15

// StartTilePrefetchWorker starts the worker that keeps map tiles around the
// responder's current position cached for offline viewing
func StartTilePrefetchWorker(watcher *location.Watcher, tileService *tiles.TileService) {
	ticker := time.NewTicker(config.TilePrefetchInterval)
	go func() {
		for range ticker.C {
			fix, ok := watcher.Current()
			if !ok {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
			tileService.PreloadTiles(ctx, fix.Position(), prefetchZoom, 2)
			cancel()
		}
	}()

	log.Println("Tile prefetch worker started with interval:", config.TilePrefetchInterval)
}
