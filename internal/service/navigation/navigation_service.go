package navigation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"respondnav/internal/config"
	"respondnav/internal/model"
	"respondnav/internal/service/routing"
	"respondnav/internal/util"
)

// Summary is the route digest shown in the navigation overlay.
type Summary struct {
	DistanceText    string `json:"distance_text"`
	DurationText    string `json:"duration_text"`
	NextInstruction string `json:"next_instruction"`
}

// State is the navigation state exposed to the map surface.
type State struct {
	IsNavigating    bool          `json:"is_navigating"`
	Destination     *model.LatLng `json:"destination"`
	DestinationName string        `json:"destination_name"`
	RouteSummary    *Summary      `json:"route_summary"`
	BearingDeg      float64       `json:"bearing_deg"`
	VoiceEnabled    bool          `json:"voice_enabled"`
}

// StatePatch carries partial state updates pushed back from the map surface.
// Nil fields are left untouched; the Navigating/Idle flag never changes here.
type StatePatch struct {
	BearingDeg      *float64 `json:"bearing_deg,omitempty"`
	RouteSummary    *Summary `json:"route_summary,omitempty"`
	NextInstruction *string  `json:"next_instruction,omitempty"`
}

// Tracker is the slice of the location watcher the navigation service needs.
type Tracker interface {
	Current() (model.Fix, bool)
	SetNavigating(bool)
}

// NavigationService owns the Idle/Navigating state machine. While
// navigating, a recurring timer forces route recomputation and every
// accepted fix updates bearing and the active turn instruction.
type NavigationService struct {
	routes    *routing.RouteService
	tracker   Tracker
	announcer Announcer

	recomputeEvery time.Duration

	mu     sync.RWMutex
	state  State
	route  *model.Route
	spoken map[string]bool
	stop   chan struct{}

	// gen invalidates in-flight recomputations: a fetch whose generation is
	// stale by the time it resolves is discarded instead of overwriting
	// newer state.
	gen atomic.Uint64
}

// NewNavigationService wires the state machine to the route service, the
// location tracker, and an announcer.
func NewNavigationService(routes *routing.RouteService, tracker Tracker, announcer Announcer) *NavigationService {
	if announcer == nil {
		announcer = NoopAnnouncer{}
	}
	return &NavigationService{
		routes:         routes,
		tracker:        tracker,
		announcer:      announcer,
		recomputeEvery: config.RouteRecomputeInterval,
		spoken:         make(map[string]bool),
	}
}

// SetRecomputeInterval overrides the forced-recompute period. For tests.
func (s *NavigationService) SetRecomputeInterval(d time.Duration) {
	s.recomputeEvery = d
}

// State returns a snapshot of the navigation state.
func (s *NavigationService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Route returns the last computed route, nil when none.
func (s *NavigationService) Route() *model.Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.route
}

// SetVoiceEnabled toggles spoken instructions. Survives stop/start.
func (s *NavigationService) SetVoiceEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.VoiceEnabled = enabled
}

// StartNavigation enters the Navigating state toward the destination,
// resetting any previous route summary and starting the recomputation timer.
// Safe to call while already navigating: the destination is replaced.
func (s *NavigationService) StartNavigation(dest model.LatLng, name string) {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	stop := make(chan struct{})
	s.stop = stop

	d := dest
	s.state.IsNavigating = true
	s.state.Destination = &d
	s.state.DestinationName = name
	s.state.RouteSummary = nil
	s.state.BearingDeg = 0
	s.route = nil
	s.spoken = make(map[string]bool)
	voice := s.state.VoiceEnabled
	s.mu.Unlock()

	s.tracker.SetNavigating(true)

	if voice && s.announcer.Available() {
		s.announcer.Speak(fmt.Sprintf("Starting navigation to %s", name))
	}

	gen := s.gen.Add(1)
	go s.recompute(gen, true)
	go s.recomputeLoop(stop)
}

// StopNavigation returns to Idle: destination, route summary and bearing are
// cleared, the recomputation timer is cancelled, and any in-flight fetch is
// invalidated by generation.
func (s *NavigationService) StopNavigation() {
	s.gen.Add(1)

	s.mu.Lock()
	wasNavigating := s.state.IsNavigating
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.state.IsNavigating = false
	s.state.Destination = nil
	s.state.DestinationName = ""
	s.state.RouteSummary = nil
	s.state.BearingDeg = 0
	s.route = nil
	s.spoken = make(map[string]bool)
	voice := s.state.VoiceEnabled
	s.mu.Unlock()

	s.tracker.SetNavigating(false)

	if wasNavigating && voice && s.announcer.Available() {
		s.announcer.Speak("Navigation ended")
	}
}

// UpdateState merges a partial update without changing the Navigating/Idle
// flag.
func (s *NavigationService) UpdateState(patch StatePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.BearingDeg != nil {
		s.state.BearingDeg = *patch.BearingDeg
	}
	if patch.RouteSummary != nil {
		s.state.RouteSummary = patch.RouteSummary
	}
	if patch.NextInstruction != nil && s.state.RouteSummary != nil {
		s.state.RouteSummary.NextInstruction = *patch.NextInstruction
	}
}

// OnFix consumes an accepted location fix: recalculates the bearing to the
// destination and advances the turn instruction. Registered with the
// watcher.
func (s *NavigationService) OnFix(fix model.Fix) {
	s.mu.Lock()
	if !s.state.IsNavigating || s.state.Destination == nil {
		s.mu.Unlock()
		return
	}
	dest := *s.state.Destination
	route := s.route
	s.state.BearingDeg = util.InitialBearing(fix.Lat, fix.Lng, dest.Lat, dest.Lng)
	s.mu.Unlock()

	if route == nil {
		return
	}

	idx := CurrentStep(route, fix.Position())
	if idx < 0 {
		return
	}
	step := route.Steps[idx]

	s.mu.Lock()
	if s.state.RouteSummary != nil {
		s.state.RouteSummary.NextInstruction = step.Instruction
	}
	voice := s.state.VoiceEnabled
	alreadySpoken := s.spoken[step.Instruction]
	s.mu.Unlock()

	if !voice || alreadySpoken || !s.announcer.Available() {
		return
	}

	dist := util.HaversineDistance(fix.Lat, fix.Lng, step.Maneuver.Lat, step.Maneuver.Lng)
	if dist <= config.AnnounceRadiusMeters {
		s.mu.Lock()
		s.spoken[step.Instruction] = true
		s.mu.Unlock()
		s.announcer.Speak(step.Instruction)
	}
}

// CurrentStep returns the index of the first step whose maneuver point lies
// within the turn-advance radius of pos, or -1 when none does.
func CurrentStep(route *model.Route, pos model.LatLng) int {
	for i, step := range route.Steps {
		d := util.HaversineDistance(pos.Lat, pos.Lng, step.Maneuver.Lat, step.Maneuver.Lng)
		if d <= config.TurnAdvanceRadiusMeters {
			return i
		}
	}
	return -1
}

// recomputeLoop forces a route recomputation on every tick until navigation
// stops.
func (s *NavigationService) recomputeLoop(stop chan struct{}) {
	ticker := time.NewTicker(s.recomputeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.recompute(s.gen.Add(1), true)
		}
	}
}

// recompute fetches a fresh route from the current position and applies it,
// unless a newer recomputation (or a stop) superseded this one while the
// fetch was in flight.
func (s *NavigationService) recompute(gen uint64, force bool) {
	s.mu.RLock()
	dest := s.state.Destination
	s.mu.RUnlock()
	if dest == nil {
		return
	}

	fix, ok := s.tracker.Current()
	if !ok {
		return
	}

	route, err := s.routes.GetRoute(context.Background(), fix.Position(), *dest, force)
	if err != nil || route == nil {
		return
	}

	if s.gen.Load() != gen {
		// Stale response: state moved on while the fetch was in flight.
		return
	}

	summary := &Summary{
		DistanceText: FormatDistance(route.DistanceMeters),
		DurationText: FormatDuration(route.DurationSeconds),
	}
	if len(route.Steps) > 0 {
		summary.NextInstruction = route.Steps[0].Instruction
	}

	s.mu.Lock()
	if s.state.IsNavigating {
		s.route = route
		s.state.RouteSummary = summary
	}
	s.mu.Unlock()
}

// FormatDistance renders meters as "850 m" or "2.4 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatDuration renders seconds as "45 s", "12 min" or "1 h 5 min".
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0f s", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0f min", d.Minutes())
	default:
		h := int(d.Hours())
		m := int(d.Minutes()) - h*60
		if m == 0 {
			return fmt.Sprintf("%d h", h)
		}
		return fmt.Sprintf("%d h %d min", h, m)
	}
}
