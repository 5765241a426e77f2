package location

import (
	"context"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/util"
)

// SimulatedSource replays movement along a fixed path at a constant speed.
// Used for demos and ambulance-bay testing where no live GPS feed exists.
type SimulatedSource struct {
	path     []model.LatLng
	speedMps float64
	interval time.Duration

	pos  model.LatLng
	next int
}

// NewSimulatedSource creates a source that walks the given path. The path
// must contain at least one point; the source starts at the first.
func NewSimulatedSource(path []model.LatLng, speedMps float64, interval time.Duration) *SimulatedSource {
	return &SimulatedSource{
		path:     path,
		speedMps: speedMps,
		interval: interval,
		pos:      path[0],
		next:     1,
	}
}

// Watch implements PositionSource. Emits a fix per interval, advancing along
// the path by speed*interval on the great circle.
func (s *SimulatedSource) Watch(ctx context.Context) (<-chan model.Fix, <-chan error) {
	fixes := make(chan model.Fix)
	errs := make(chan error)

	go func() {
		defer close(fixes)
		defer close(errs)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fix := s.step()
				select {
				case fixes <- fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return fixes, errs
}

// step advances the simulated position and returns the resulting fix.
func (s *SimulatedSource) step() model.Fix {
	remaining := s.speedMps * s.interval.Seconds()

	for s.next < len(s.path) && remaining > 0 {
		target := s.path[s.next]
		dist := util.HaversineDistance(s.pos.Lat, s.pos.Lng, target.Lat, target.Lng)
		if dist <= remaining {
			s.pos = target
			s.next++
			remaining -= dist
			continue
		}
		moved := util.MoveToward(s.pos.Lat, s.pos.Lng, target.Lat, target.Lng, remaining)
		s.pos = model.LatLng{Lat: moved[0], Lng: moved[1]}
		remaining = 0
	}

	return model.Fix{
		Lat:            s.pos.Lat,
		Lng:            s.pos.Lng,
		AccuracyMeters: 5,
		SpeedMps:       s.speedMps,
		Timestamp:      time.Now(),
	}
}
