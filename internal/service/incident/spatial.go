package incident

import (
	"math"
	"sort"
	"sync"

	"respondnav/internal/model"
	"respondnav/internal/util"

	"github.com/dhconnelly/rtreego"
)

// metersPerDegree approximates one degree of latitude. The search window is
// a coarse over-approximation; the Haversine filter trims the result.
const metersPerDegree = 111320.0

// pointExtent is the degenerate rectangle size used to index point
// locations; rtreego rejects zero-area rects.
const pointExtent = 1e-6

// incidentSpatial wraps an incident for R-tree indexing
type incidentSpatial struct {
	incident *model.Incident
	rect     rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface
func (e *incidentSpatial) Bounds() rtreego.Rect {
	return e.rect
}

// spatialIndex answers radius queries over incident sites.
type spatialIndex struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[string]*incidentSpatial
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		tree:    rtreego.NewTree(2, 8, 16),
		entries: make(map[string]*incidentSpatial),
	}
}

// upsert indexes an incident, replacing any prior entry for the same ID.
func (idx *spatialIndex) upsert(inc *model.Incident) {
	rect, err := rtreego.NewRect(
		rtreego.Point{inc.Lng, inc.Lat},
		[]float64{pointExtent, pointExtent},
	)
	if err != nil {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if prev, ok := idx.entries[inc.ID]; ok {
		idx.tree.Delete(prev)
	}

	entry := &incidentSpatial{incident: inc, rect: rect}
	idx.entries[inc.ID] = entry
	idx.tree.Insert(entry)
}

// nearby returns active incidents within radiusMeters of the point, closest
// first.
func (idx *spatialIndex) nearby(lat, lng, radiusMeters float64) []*model.Incident {
	halfLat := radiusMeters / metersPerDegree
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	halfLng := halfLat / cosLat

	rect, err := rtreego.NewRect(
		rtreego.Point{lng - halfLng, lat - halfLat},
		[]float64{2 * halfLng, 2 * halfLat},
	)
	if err != nil {
		return nil
	}

	idx.mu.RLock()
	candidates := idx.tree.SearchIntersect(rect)
	idx.mu.RUnlock()

	type scored struct {
		incident *model.Incident
		distance float64
	}

	var hits []scored
	for _, c := range candidates {
		inc := c.(*incidentSpatial).incident
		if inc.State != model.IncidentStateActive {
			continue
		}
		d := util.HaversineDistance(lat, lng, inc.Lat, inc.Lng)
		if d <= radiusMeters {
			hits = append(hits, scored{incident: inc, distance: d})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	result := make([]*model.Incident, len(hits))
	for i, h := range hits {
		result[i] = h.incident
	}
	return result
}
