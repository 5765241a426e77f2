package config

import "time"

// Timers
const (
	// RouteRecomputeInterval defines how often active navigation forces a
	// route recomputation
	RouteRecomputeInterval = 30 * time.Second

	// RouteRecomputeMinGap is the minimum interval between non-forced route
	// fetches, throttling recomputation as location updates stream in
	RouteRecomputeMinGap = 30 * time.Second

	// TilePrefetchInterval defines how often tiles around the current
	// position are prefetched for offline viewing
	TilePrefetchInterval = 60 * time.Second

	// RedisBackupInterval defines how often to save dirty incidents to Redis
	RedisBackupInterval = 10 * time.Second

	// PostgresBackupInterval defines how often to save incidents to PostgreSQL
	PostgresBackupInterval = 60 * time.Second
)

// Thresholds and capacities
const (
	// MoveThresholdMeters filters GPS jitter while idle
	MoveThresholdMeters = 5.0

	// NavigatingMoveThresholdMeters tightens the sampling resolution during
	// active guidance
	NavigatingMoveThresholdMeters = 3.0

	// TurnAdvanceRadiusMeters selects the active turn instruction
	TurnAdvanceRadiusMeters = 50.0

	// AnnounceRadiusMeters limits how early an instruction is spoken
	AnnounceRadiusMeters = 200.0

	// RouteCacheCapacity bounds the in-memory route cache
	RouteCacheCapacity = 100

	// TileCacheCapacity bounds the in-memory tile cache
	TileCacheCapacity = 1000

	// FixHistoryLength bounds the rolling history of accepted fixes
	FixHistoryLength = 50
)
