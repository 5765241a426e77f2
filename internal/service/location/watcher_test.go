package location

import (
	"context"
	"testing"
	"time"

	"respondnav/internal/model"
)

func fixAt(lat, lng float64) model.Fix {
	return model.Fix{Lat: lat, Lng: lng, AccuracyMeters: 5, Timestamp: time.Now()}
}

// offsetMeters shifts a latitude northward by roughly the given meters.
func offsetMeters(lat, meters float64) float64 {
	return lat + meters/111194.9
}

func TestWatcherDistanceFilter(t *testing.T) {
	w := NewWatcher(NewPushSource())

	var emitted []model.Fix
	w.OnFix(func(f model.Fix) { emitted = append(emitted, f) })

	base := 50.45
	w.accept(fixAt(base, 30.52))
	// 2 m north: below the 5 m idle threshold, must be dropped
	w.accept(fixAt(offsetMeters(base, 2), 30.52))
	// 10 m north of the last accepted fix: passes
	w.accept(fixAt(offsetMeters(base, 10), 30.52))

	if len(emitted) != 2 {
		t.Fatalf("emitted %d fixes, want 2", len(emitted))
	}

	current, ok := w.Current()
	if !ok || current.Lat != offsetMeters(base, 10) {
		t.Errorf("Current() = %v, %v; want the last accepted fix", current, ok)
	}
}

func TestWatcherNavigatingThreshold(t *testing.T) {
	w := NewWatcher(NewPushSource())
	w.SetNavigating(true)

	var emitted []model.Fix
	w.OnFix(func(f model.Fix) { emitted = append(emitted, f) })

	base := 50.45
	w.accept(fixAt(base, 30.52))
	// 4 m: above the 3 m navigating threshold, accepted
	w.accept(fixAt(offsetMeters(base, 4), 30.52))
	// 2 m more: below even the navigating threshold, dropped
	w.accept(fixAt(offsetMeters(base, 6), 30.52))

	if len(emitted) != 2 {
		t.Fatalf("emitted %d fixes, want 2", len(emitted))
	}
}

func TestWatcherEmitsInOrder(t *testing.T) {
	w := NewWatcher(NewPushSource())

	var emitted []model.Fix
	w.OnFix(func(f model.Fix) { emitted = append(emitted, f) })

	lats := []float64{50.0, 50.001, 50.002, 50.003}
	for _, lat := range lats {
		w.accept(fixAt(lat, 30.52))
	}

	if len(emitted) != len(lats) {
		t.Fatalf("emitted %d fixes, want %d", len(emitted), len(lats))
	}
	for i, lat := range lats {
		if emitted[i].Lat != lat {
			t.Errorf("fix %d has lat %v, want %v", i, emitted[i].Lat, lat)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "permission denied",
			err:  &SourceError{Code: ErrPermissionDenied},
			want: "Location access denied. Please enable location permissions.",
		},
		{
			name: "position unavailable",
			err:  &SourceError{Code: ErrPositionUnavailable},
			want: "Location information is unavailable.",
		},
		{
			name: "timeout",
			err:  &SourceError{Code: ErrTimeout},
			want: "Location request timed out.",
		},
		{
			name: "unknown error",
			err:  context.Canceled,
			want: "Unable to determine location.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWatcherTracking(t *testing.T) {
	source := NewPushSource()
	w := NewWatcher(source)

	done := make(chan model.Fix, 4)
	w.OnFix(func(f model.Fix) { done <- f })

	if err := w.StartTracking(context.Background()); err != nil {
		t.Fatalf("StartTracking failed: %v", err)
	}
	if err := w.StartTracking(context.Background()); err == nil {
		t.Error("second StartTracking should fail while active")
	}

	source.Push(fixAt(50.45, 30.52))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fix was not emitted")
	}

	source.Fail(ErrTimeout, nil)

	deadline := time.After(time.Second)
	for w.LastError() == "" {
		select {
		case <-deadline:
			t.Fatal("source error was not surfaced")
		case <-time.After(5 * time.Millisecond):
		}
	}

	w.StopTracking()
}
