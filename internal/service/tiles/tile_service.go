package tiles

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/service/storage"
)

// Tile servers cap the usable zoom range.
const (
	minZoom = 0
	maxZoom = 19
)

// subdomains balances tile requests across the provider's mirrors.
var subdomains = []string{"a", "b", "c"}

// placeholderPNG is a 1x1 transparent PNG returned when a tile is neither
// cached nor fetchable.
var placeholderPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

// TileService prefetches and caches map tile images for offline viewing.
// The cache is bounded and evicts the oldest-inserted entry first. Tile
// preloading is advisory: a miss just means a live fetch (or the placeholder)
// at render time.
type TileService struct {
	urlTemplate string
	cache       *storage.BoundedCache[string, []byte]
	httpClient  *http.Client
	rr          atomic.Uint64
}

// NewTileService creates a tile service. urlTemplate takes subdomain, zoom,
// x, y (e.g. "https://%s.tile.openstreetmap.org/%d/%d/%d.png"). A nil
// httpClient gets a 10 s timeout default.
func NewTileService(urlTemplate string, capacity int, httpClient *http.Client) *TileService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TileService{
		urlTemplate: urlTemplate,
		cache:       storage.NewBoundedCache[string, []byte](capacity),
		httpClient:  httpClient,
	}
}

// TileXY returns the slippy-map tile coordinates containing the given point.
func TileXY(lat, lng float64, zoom int) (int, int) {
	latRad := lat * math.Pi / 180
	n := math.Pow(2, float64(zoom))
	x := int((lng + 180) / 360 * n)
	y := int((1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * n)
	return x, y
}

// TileURL builds the fetch URL for a tile, rotating across subdomains.
func (s *TileService) TileURL(zoom, x, y int) string {
	sub := subdomains[s.rr.Add(1)%uint64(len(subdomains))]
	return fmt.Sprintf(s.urlTemplate, sub, zoom, x, y)
}

// cacheKey identifies a tile independent of the subdomain it was fetched
// from.
func cacheKey(zoom, x, y int) string {
	return fmt.Sprintf("%d/%d/%d", zoom, x, y)
}

// PreloadTiles issues best-effort fetches for the tile window of radiusTiles
// around center, across zoom-1..zoom+1. Failures are logged and otherwise
// ignored.
func (s *TileService) PreloadTiles(ctx context.Context, center model.LatLng, zoom, radiusTiles int) {
	if radiusTiles < 2 {
		radiusTiles = 2
	} else if radiusTiles > 3 {
		radiusTiles = 3
	}

	for z := zoom - 1; z <= zoom+1; z++ {
		if z < minZoom || z > maxZoom {
			continue
		}
		cx, cy := TileXY(center.Lat, center.Lng, z)
		max := int(math.Pow(2, float64(z))) - 1

		for dx := -radiusTiles; dx <= radiusTiles; dx++ {
			for dy := -radiusTiles; dy <= radiusTiles; dy++ {
				x, y := cx+dx, cy+dy
				if x < 0 || y < 0 || x > max || y > max {
					continue
				}
				if _, ok := s.cache.Get(cacheKey(z, x, y)); ok {
					continue
				}
				if _, err := s.fetch(ctx, z, x, y); err != nil {
					log.Printf("Tile preload failed for %d/%d/%d: %v", z, x, y, err)
				}
			}
		}
	}
}

// Tile returns the tile image, from cache when possible, fetching otherwise.
// When the fetch fails the placeholder PNG is returned so the map never goes
// blank.
func (s *TileService) Tile(ctx context.Context, zoom, x, y int) []byte {
	if data, ok := s.cache.Get(cacheKey(zoom, x, y)); ok {
		return data
	}
	data, err := s.fetch(ctx, zoom, x, y)
	if err != nil {
		log.Printf("Tile fetch failed for %d/%d/%d: %v", zoom, x, y, err)
		return placeholderPNG
	}
	return data
}

// CacheLen returns the number of cached tiles.
func (s *TileService) CacheLen() int {
	return s.cache.Len()
}

func (s *TileService) fetch(ctx context.Context, zoom, x, y int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.TileURL(zoom, x, y), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "respondnav/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile server returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey(zoom, x, y), data)
	return data, nil
}
