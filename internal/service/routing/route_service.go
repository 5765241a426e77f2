package routing

import (
	"context"
	"log"
	"sync"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/service/storage"
	"respondnav/internal/util"
)

// averageSpeedMps is the assumed driving speed used to estimate the duration
// of the straight-line fallback route (30 km/h city driving).
const averageSpeedMps = 30.0 / 3.6

// Fetcher fetches a route from the routing service.
type Fetcher interface {
	FetchRoute(ctx context.Context, origin, dest model.LatLng) (*model.Route, error)
}

// RouteService returns driving routes, serving an exact-key in-memory cache
// before reaching the routing service. The cache key is ordered
// "origin,destination": swapping the endpoints is a distinct entry. Entries
// are never invalidated by time, only evicted by capacity.
type RouteService struct {
	fetcher Fetcher
	cache   *storage.BoundedCache[string, *model.Route]
	minGap  time.Duration

	// onlineFn reports network reachability; nowFn supplies time. Both are
	// injectable for tests.
	onlineFn func() bool
	nowFn    func() time.Time

	mu            sync.Mutex
	lastRecompute time.Time
}

// NewRouteService creates a route service with the given cache capacity and
// minimum gap between non-forced recomputations.
func NewRouteService(fetcher Fetcher, capacity int, minGap time.Duration) *RouteService {
	return &RouteService{
		fetcher:  fetcher,
		cache:    storage.NewBoundedCache[string, *model.Route](capacity),
		minGap:   minGap,
		onlineFn: func() bool { return true },
		nowFn:    time.Now,
	}
}

// SetOnlineCheck overrides the network reachability probe.
func (s *RouteService) SetOnlineCheck(fn func() bool) { s.onlineFn = fn }

// SetNow overrides the clock.
func (s *RouteService) SetNow(fn func() time.Time) { s.nowFn = fn }

// RouteKey builds the ordered cache key for an origin/destination pair.
func RouteKey(origin, dest model.LatLng) string {
	return origin.Key() + ";" + dest.Key()
}

// GetRoute returns a route from origin to dest. Without force, an exact
// cache hit is returned immediately, and recomputation is throttled to one
// fetch per minGap. The map must never go blank: on throttle, offline, or
// fetch failure the degraded straight-line route is returned with a nil
// error.
func (s *RouteService) GetRoute(ctx context.Context, origin, dest model.LatLng, force bool) (*model.Route, error) {
	key := RouteKey(origin, dest)

	if !force {
		if route, ok := s.cache.Get(key); ok {
			return route, nil
		}
		if !s.recomputeAllowed() {
			return DirectRoute(origin, dest), nil
		}
	}

	if !s.onlineFn() {
		// Offline: a stale cached route beats a straight line even when
		// forced.
		if route, ok := s.cache.Get(key); ok {
			return route, nil
		}
		return DirectRoute(origin, dest), nil
	}

	s.markRecompute()

	route, err := s.fetcher.FetchRoute(ctx, origin, dest)
	if err != nil {
		log.Printf("Route fetch failed, falling back to direct path: %v", err)
		return DirectRoute(origin, dest), nil
	}

	s.cache.Set(key, route)
	return route, nil
}

// CachedRoute returns the cached entry for the pair without fetching.
func (s *RouteService) CachedRoute(origin, dest model.LatLng) (*model.Route, bool) {
	return s.cache.Get(RouteKey(origin, dest))
}

// CacheLen returns the number of cached routes.
func (s *RouteService) CacheLen() int {
	return s.cache.Len()
}

func (s *RouteService) recomputeAllowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRecompute.IsZero() || s.nowFn().Sub(s.lastRecompute) >= s.minGap
}

func (s *RouteService) markRecompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRecompute = s.nowFn()
}

// DirectRoute builds the degraded two-point route used when no real route is
// available.
func DirectRoute(origin, dest model.LatLng) *model.Route {
	distance := util.HaversineDistance(origin.Lat, origin.Lng, dest.Lat, dest.Lng)
	return &model.Route{
		Points:          []model.LatLng{origin, dest},
		DistanceMeters:  distance,
		DurationSeconds: distance / averageSpeedMps,
		Direct:          true,
	}
}
