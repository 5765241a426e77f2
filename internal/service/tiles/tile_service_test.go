package tiles

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"respondnav/internal/model"
)

func TestTileXY(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		zoom     int
		x, y     int
	}{
		{"origin at zoom 0", 0, 0, 0, 0, 0},
		{"origin at zoom 1", 0, 0, 1, 1, 1},
		{"London at zoom 12", 51.507222, -0.1275, 12, 2046, 1362},
		{"Kyiv at zoom 10", 50.4501, 30.5234, 10, 598, 345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := TileXY(tt.lat, tt.lng, tt.zoom)
			if x != tt.x || y != tt.y {
				t.Errorf("TileXY() = (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

// testTileServer counts tile fetches and can be switched to failing.
type testTileServer struct {
	mu       sync.Mutex
	requests []string
	failing  bool
}

func (s *testTileServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path)
		failing := s.failing
		s.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("png-bytes-" + r.URL.Path))
	}
}

func (s *testTileServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newTestService(t *testing.T, capacity int) (*TileService, *testTileServer) {
	t.Helper()
	backend := &testTileServer{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	// The %s subdomain slot becomes a path segment against the test server
	return NewTileService(server.URL+"/%s/%d/%d/%d.png", capacity, nil), backend
}

func TestPreloadTiles(t *testing.T) {
	svc, backend := newTestService(t, 1000)

	center := model.LatLng{Lat: 50.4501, Lng: 30.5234}
	svc.PreloadTiles(context.Background(), center, 15, 2)

	// A 5x5 window across three zoom levels
	want := 3 * 25
	if backend.count() != want {
		t.Errorf("fetched %d tiles, want %d", backend.count(), want)
	}
	if svc.CacheLen() != want {
		t.Errorf("cached %d tiles, want %d", svc.CacheLen(), want)
	}

	// A second preload of the same window is all cache hits
	svc.PreloadTiles(context.Background(), center, 15, 2)
	if backend.count() != want {
		t.Errorf("fetched %d tiles after second preload, want %d", backend.count(), want)
	}
}

func TestPreloadRadiusClamped(t *testing.T) {
	svc, backend := newTestService(t, 1000)

	svc.PreloadTiles(context.Background(), model.LatLng{Lat: 50, Lng: 30}, 15, 10)

	// Radius clamps to 3: a 7x7 window across three zoom levels
	want := 3 * 49
	if backend.count() != want {
		t.Errorf("fetched %d tiles, want %d", backend.count(), want)
	}
}

func TestTileFailureReturnsPlaceholder(t *testing.T) {
	svc, backend := newTestService(t, 10)
	backend.failing = true

	data := svc.Tile(context.Background(), 15, 100, 200)

	if len(data) == 0 {
		t.Fatal("Tile returned no bytes")
	}
	if string(data[1:4]) != "PNG" {
		t.Error("fallback is not a PNG")
	}
	if svc.CacheLen() != 0 {
		t.Error("failed fetches must not be cached")
	}
}

func TestTileCacheHit(t *testing.T) {
	svc, backend := newTestService(t, 10)

	first := svc.Tile(context.Background(), 15, 100, 200)
	second := svc.Tile(context.Background(), 15, 100, 200)

	if string(first) != string(second) {
		t.Error("cache hit returned different bytes")
	}
	if backend.count() != 1 {
		t.Errorf("fetched %d times, want 1", backend.count())
	}
}

func TestSubdomainRotation(t *testing.T) {
	svc := NewTileService("https://%s.tile.openstreetmap.org/%d/%d/%d.png", 10, nil)

	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		url := svc.TileURL(15, 100, 200)
		for _, sub := range []string{"a", "b", "c"} {
			if strings.HasPrefix(url, fmt.Sprintf("https://%s.", sub)) {
				seen[sub] = true
			}
		}
	}

	if len(seen) != 3 {
		t.Errorf("rotation used subdomains %v, want all of a, b, c", seen)
	}
}
