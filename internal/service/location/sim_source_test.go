package location

import (
	"context"
	"testing"
	"time"

	"respondnav/internal/model"
	"respondnav/internal/util"
)

func TestSimulatedSourceAdvancesAlongPath(t *testing.T) {
	path := []model.LatLng{
		{Lat: 50.450100, Lng: 30.523400},
		{Lat: 50.454700, Lng: 30.523800},
	}
	sim := NewSimulatedSource(path, 100, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes, _ := sim.Watch(ctx)

	var prev model.Fix
	first := true
	total := 0.0
	for i := 0; i < 5; i++ {
		select {
		case fix := <-fixes:
			if first {
				prev = fix
				first = false
				continue
			}
			step := util.HaversineDistance(prev.Lat, prev.Lng, fix.Lat, fix.Lng)
			// 100 m/s over 10 ms is 1 m per tick.
			if step > 1.5 {
				t.Fatalf("tick %d moved %.2f m, want about 1 m", i, step)
			}
			total += step
			prev = fix
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for simulated fix")
		}
	}

	if total == 0 {
		t.Fatal("simulated source did not move")
	}
}

func TestSimulatedSourceStopsAtPathEnd(t *testing.T) {
	path := []model.LatLng{
		{Lat: 50.450100, Lng: 30.523400},
		{Lat: 50.450110, Lng: 30.523400},
	}
	// Fast enough to cover the whole path in one tick.
	sim := NewSimulatedSource(path, 1000, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes, _ := sim.Watch(ctx)

	var last model.Fix
	for i := 0; i < 3; i++ {
		select {
		case last = <-fixes:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for simulated fix")
		}
	}

	end := path[len(path)-1]
	if d := util.HaversineDistance(last.Lat, last.Lng, end.Lat, end.Lng); d > 0.1 {
		t.Fatalf("expected source to rest at path end, got %.2f m away", d)
	}
}
