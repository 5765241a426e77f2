package location

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"respondnav/internal/config"
	"respondnav/internal/model"
	"respondnav/internal/redis"
	"respondnav/internal/util"
)

// LocationChannel is the Redis channel carrying accepted fixes for
// downstream sync.
const LocationChannel = "responder:location"

// Watcher consumes raw fixes from a PositionSource and emits only fixes that
// moved far enough from the last accepted one, suppressing GPS jitter and
// rate-limiting downstream route recomputation.
type Watcher struct {
	source PositionSource

	mu           sync.RWMutex
	tracking     bool
	navigating   bool
	current      *model.Fix
	lastAccepted *model.Fix
	history      []model.Fix
	lastError    string
	cancel       context.CancelFunc
	handlers     []func(model.Fix)
}

// NewWatcher creates a watcher over the given position source.
func NewWatcher(source PositionSource) *Watcher {
	return &Watcher{source: source}
}

// OnFix registers a handler called for every accepted fix, in acceptance
// order. Must be called before StartTracking.
func (w *Watcher) OnFix(fn func(model.Fix)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// StartTracking begins continuous position watching. Returns an error if
// tracking is already active.
func (w *Watcher) StartTracking(ctx context.Context) error {
	w.mu.Lock()
	if w.tracking {
		w.mu.Unlock()
		return errors.New("tracking already active")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.tracking = true
	w.cancel = cancel
	w.lastError = ""
	w.mu.Unlock()

	fixes, errs := w.source.Watch(ctx)

	go func() {
		for fixes != nil || errs != nil {
			select {
			case fix, ok := <-fixes:
				if !ok {
					fixes = nil
					continue
				}
				w.accept(fix)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				// No automatic retry: the error is surfaced and tracking
				// continues on whatever the source delivers next.
				w.mu.Lock()
				w.lastError = UserMessage(err)
				w.mu.Unlock()
			}
		}
		w.mu.Lock()
		w.tracking = false
		w.mu.Unlock()
	}()

	return nil
}

// StopTracking cancels position watching. No further fixes are emitted.
func (w *Watcher) StopTracking() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.tracking = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Tracking reports whether the watcher is active.
func (w *Watcher) Tracking() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tracking
}

// SetNavigating switches the distance threshold between the idle and the
// tighter navigating resolution.
func (w *Watcher) SetNavigating(navigating bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.navigating = navigating
}

// Current returns the latest accepted fix.
func (w *Watcher) Current() (model.Fix, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return model.Fix{}, false
	}
	return *w.current, true
}

// History returns the rolling history of accepted fixes, oldest first.
func (w *Watcher) History() []model.Fix {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]model.Fix, len(w.history))
	copy(out, w.history)
	return out
}

// LastError returns the most recent user-facing positioning error, empty
// when none occurred since tracking started.
func (w *Watcher) LastError() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// accept applies the distance-threshold filter and emits the fix when it
// passes. Emitted fixes preserve source order.
func (w *Watcher) accept(fix model.Fix) {
	w.mu.Lock()

	threshold := float64(config.MoveThresholdMeters)
	if w.navigating {
		threshold = config.NavigatingMoveThresholdMeters
	}

	if w.lastAccepted != nil {
		moved := util.HaversineDistance(w.lastAccepted.Lat, w.lastAccepted.Lng, fix.Lat, fix.Lng)
		if moved <= threshold {
			w.mu.Unlock()
			return
		}
	}

	w.current = &fix
	w.lastAccepted = &fix
	w.history = append(w.history, fix)
	if len(w.history) > config.FixHistoryLength {
		w.history = w.history[len(w.history)-config.FixHistoryLength:]
	}
	handlers := make([]func(model.Fix), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(fix)
	}

	w.publish(fix)
}

// publish forwards the accepted fix to Redis for downstream sync.
// Best-effort: failures are swallowed.
func (w *Watcher) publish(fix model.Fix) {
	if !redis.Available() {
		return
	}
	payload, err := json.Marshal(fix)
	if err != nil {
		return
	}
	_ = redis.Publish(LocationChannel, payload)
}
