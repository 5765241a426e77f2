package routing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"respondnav/internal/model"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	route *model.Route
	err   error
}

func (f *stubFetcher) FetchRoute(_ context.Context, origin, dest model.LatLng) (*model.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.route != nil {
		return f.route, nil
	}
	return &model.Route{
		Points:          []model.LatLng{origin, dest},
		DistanceMeters:  1234,
		DurationSeconds: 90,
	}, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	pointA = model.LatLng{Lat: 50.4501, Lng: 30.5234}
	pointB = model.LatLng{Lat: 50.4547, Lng: 30.5238}
)

func TestCacheKeyAsymmetry(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewRouteService(fetcher, 10, 0)

	if _, err := svc.GetRoute(context.Background(), pointA, pointB, false); err != nil {
		t.Fatalf("GetRoute(A,B) failed: %v", err)
	}
	if _, ok := svc.CachedRoute(pointA, pointB); !ok {
		t.Fatal("route A->B should be cached")
	}

	// Swapping origin and destination is a distinct key and a cache miss
	if _, ok := svc.CachedRoute(pointB, pointA); ok {
		t.Error("route B->A must not hit the A->B cache entry")
	}

	if _, err := svc.GetRoute(context.Background(), pointB, pointA, false); err != nil {
		t.Fatalf("GetRoute(B,A) failed: %v", err)
	}
	if fetcher.callCount() != 2 {
		t.Errorf("fetch count = %d, want 2", fetcher.callCount())
	}
}

func TestRecomputeThrottle(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewRouteService(fetcher, 10, 30*time.Second)

	now := time.Unix(1700000000, 0)
	svc.SetNow(func() time.Time { return now })

	first, err := svc.GetRoute(context.Background(), pointA, pointB, false)
	if err != nil {
		t.Fatalf("first GetRoute failed: %v", err)
	}

	// Second non-forced call within the gap: cache hit, no network call
	now = now.Add(10 * time.Second)
	second, err := svc.GetRoute(context.Background(), pointA, pointB, false)
	if err != nil {
		t.Fatalf("second GetRoute failed: %v", err)
	}
	if second != first {
		t.Error("second call should return the cached route")
	}
	if fetcher.callCount() != 1 {
		t.Errorf("fetch count = %d, want 1", fetcher.callCount())
	}

	// A different pair within the gap is throttled down to the direct path
	pointC := model.LatLng{Lat: 50.5, Lng: 30.6}
	throttled, err := svc.GetRoute(context.Background(), pointA, pointC, false)
	if err != nil {
		t.Fatalf("throttled GetRoute failed: %v", err)
	}
	if !throttled.Direct {
		t.Error("throttled miss should degrade to the direct route")
	}
	if fetcher.callCount() != 1 {
		t.Errorf("fetch count = %d, want 1 after throttled call", fetcher.callCount())
	}

	// A forced call always bypasses the throttle and the cache
	if _, err := svc.GetRoute(context.Background(), pointA, pointB, true); err != nil {
		t.Fatalf("forced GetRoute failed: %v", err)
	}
	if fetcher.callCount() != 2 {
		t.Errorf("fetch count = %d, want 2 after forced call", fetcher.callCount())
	}
}

func TestOfflineFallback(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewRouteService(fetcher, 10, 0)
	svc.SetOnlineCheck(func() bool { return false })

	route, err := svc.GetRoute(context.Background(), pointA, pointB, false)
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}

	if !route.Direct {
		t.Error("offline miss should return the direct route")
	}
	if len(route.Points) != 2 || route.Points[0] != pointA || route.Points[1] != pointB {
		t.Errorf("direct route points = %v, want [origin destination]", route.Points)
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetch count = %d, want 0 while offline", fetcher.callCount())
	}
}

func TestOfflinePrefersCachedRoute(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewRouteService(fetcher, 10, 0)

	cached, err := svc.GetRoute(context.Background(), pointA, pointB, false)
	if err != nil {
		t.Fatalf("GetRoute failed: %v", err)
	}

	svc.SetOnlineCheck(func() bool { return false })

	// Even forced, a stale cached route beats a straight line offline
	route, err := svc.GetRoute(context.Background(), pointA, pointB, true)
	if err != nil {
		t.Fatalf("offline GetRoute failed: %v", err)
	}
	if route != cached {
		t.Error("offline forced call should fall back to the cached route")
	}
}

func TestFetchErrorDegradesSilently(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	svc := NewRouteService(fetcher, 10, 0)

	route, err := svc.GetRoute(context.Background(), pointA, pointB, false)
	if err != nil {
		t.Fatalf("GetRoute must not surface fetch errors, got: %v", err)
	}
	if !route.Direct || len(route.Points) != 2 {
		t.Errorf("fetch error should degrade to the direct route, got %+v", route)
	}
}

func TestCacheCapacityEviction(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewRouteService(fetcher, 2, 0)

	dests := []model.LatLng{
		{Lat: 1, Lng: 1},
		{Lat: 2, Lng: 2},
		{Lat: 3, Lng: 3},
	}
	for _, d := range dests {
		if _, err := svc.GetRoute(context.Background(), pointA, d, false); err != nil {
			t.Fatalf("GetRoute failed: %v", err)
		}
	}

	if svc.CacheLen() != 2 {
		t.Errorf("CacheLen() = %d, want 2", svc.CacheLen())
	}
	if _, ok := svc.CachedRoute(pointA, dests[0]); ok {
		t.Error("oldest cache entry should have been evicted")
	}
}
