package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"respondnav/internal/api"
	"respondnav/internal/model"
	routes "respondnav/internal/api/handlers"
	"respondnav/internal/config"
	"respondnav/internal/postgres"
	"respondnav/internal/redis"
	"respondnav/internal/service/incident"
	"respondnav/internal/service/location"
	"respondnav/internal/service/navigation"
	"respondnav/internal/service/routing"
	"respondnav/internal/service/tiles"
	"respondnav/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func main() {
	cfg, err := loadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.LogFile)

	initializeDatabaseAndCache(cfg)
	defer closeConnections()

	setupSignalHandler()

	svc := initializeServices(cfg)

	startWorkers(svc)

	runAPIServer(cfg, svc)
}

func setupLogging(logFile string) {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	// The file stays open for the application lifetime.

	// Use MultiWriter to output logs to both terminal and file
	multiWriter := io.MultiWriter(os.Stdout, f)
	log.SetOutput(multiWriter)
}

func loadConfiguration() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Fallback to environment variables directly
		log.Println("Failed to load config via config package, using fallback method")

		cfg.Port = getEnvWithDefault("PORT", ":8080")
		cfg.DBUrl = getEnvWithDefault("DB_URL", "")
		cfg.RedisUrl = getEnvWithDefault("REDIS_URL", "")
		cfg.OSRMUrl = getEnvWithDefault("OSRM_URL", "https://router.project-osrm.org")
		cfg.TileUrl = getEnvWithDefault("TILE_URL", "https://%s.tile.openstreetmap.org/%d/%d/%d.png")
		cfg.LogFile = getEnvWithDefault("LOG_FILE", "respondnav.log")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func initializeDatabaseAndCache(cfg config.Config) {
	// Initialize PostgreSQL (optional)
	postgres.Init(cfg.DBUrl)

	// Initialize Redis (optional, best-effort)
	if err := redis.Init(cfg.RedisUrl); err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
	}
}

func initializeServices(cfg config.Config) *routes.Services {
	// Incident store, loaded from PostgreSQL and merged with Redis
	incidentService := incident.GetIncidentService()
	if err := incidentService.InitService(context.Background()); err != nil {
		log.Fatalf("Failed to initialize incident service: %v", err)
	}

	// Location pipeline: device pushes fixes, the watcher filters them
	source := location.NewPushSource()
	watcher := location.NewWatcher(source)

	// Routing and tiles over external services
	routeService := routing.NewRouteService(
		routing.NewClient(cfg.OSRMUrl, nil),
		config.RouteCacheCapacity,
		config.RouteRecomputeMinGap,
	)
	tileService := tiles.NewTileService(cfg.TileUrl, config.TileCacheCapacity, nil)

	// Navigation state machine, fed by the watcher
	navService := navigation.NewNavigationService(routeService, watcher, navigation.LogAnnouncer{})
	watcher.OnFix(navService.OnFix)

	if err := watcher.StartTracking(context.Background()); err != nil {
		log.Fatalf("Failed to start location tracking: %v", err)
	}

	if cfg.SimDemo {
		startSimulatedFeed(source)
	}

	return &routes.Services{
		Source:    source,
		Watcher:   watcher,
		Nav:       navService,
		Routes:    routeService,
		Tiles:     tileService,
		Incidents: incidentService,
	}
}

// startSimulatedFeed pushes fixes from a simulated drive loop into the same
// source the API feeds, so the rest of the pipeline is exercised unchanged.
func startSimulatedFeed(source *location.PushSource) {
	loop := []model.LatLng{
		{Lat: 50.450100, Lng: 30.523400},
		{Lat: 50.454700, Lng: 30.523800},
		{Lat: 50.454900, Lng: 30.530000},
		{Lat: 50.450300, Lng: 30.529600},
		{Lat: 50.450100, Lng: 30.523400},
	}
	sim := location.NewSimulatedSource(loop, 12, time.Second)

	go func() {
		fixes, _ := sim.Watch(context.Background())
		for fix := range fixes {
			source.Push(fix)
		}
	}()

	log.Println("Simulated location feed started")
}

func startWorkers(svc *routes.Services) {
	worker.StartAllWorkers(svc.Watcher, svc.Tiles, svc.Incidents)
}

func runAPIServer(cfg config.Config, svc *routes.Services) {
	r := gin.Default()

	api.SetupRouter(r, svc, map[string]string{
		"port": cfg.Port,
	})

	if err := r.Run(cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func closeConnections() {
	if err := postgres.Close(); err != nil {
		log.Printf("Error closing PostgreSQL connection: %v", err)
	}

	if err := redis.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}
}

func setupSignalHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutdown signal received, closing connections...")
		closeConnections()
		os.Exit(0)
	}()
}
