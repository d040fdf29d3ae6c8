package navigation

import (
	"errors"

	"github.com/dinasim/greener-sub003/internal/shared/geo"
)

var (
	ErrEmptyRoute      = errors.New("route has no waypoints")
	ErrOutOfRange      = errors.New("waypoint index out of range")
	ErrUnknownWaypoint = errors.New("waypoint not in route")
)

// Waypoint is one plant stop on a watering route. A nil Target means the
// plant has no recorded location and can only be completed manually.
type Waypoint struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	Target      *geo.Coordinates `json:"target,omitempty"`
}

// NewWaypoint validates the target coordinates up front so the arrival
// detector never sees malformed input.
func NewWaypoint(id, displayName string, target *geo.Coordinates) (Waypoint, error) {
	if id == "" {
		return Waypoint{}, errors.New("waypoint id required")
	}
	if target != nil {
		if err := target.Validate(); err != nil {
			return Waypoint{}, err
		}
	}
	return Waypoint{ID: id, DisplayName: displayName, Target: target}, nil
}

// Route is an ordered sequence of waypoints plus the session's cursor and
// completion state. A route is owned by exactly one Controller; it is not
// safe for use from multiple goroutines on its own.
type Route struct {
	waypoints []Waypoint
	cursor    int
	completed map[string]struct{}
}

func NewRoute(waypoints []Waypoint) *Route {
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	return &Route{
		waypoints: wps,
		completed: map[string]struct{}{},
	}
}

func (r *Route) Len() int { return len(r.waypoints) }

func (r *Route) Cursor() int { return r.cursor }

// Active returns the waypoint under the cursor.
func (r *Route) Active() (Waypoint, error) {
	if len(r.waypoints) == 0 {
		return Waypoint{}, ErrEmptyRoute
	}
	return r.waypoints[r.cursor], nil
}

func (r *Route) Waypoints() []Waypoint {
	wps := make([]Waypoint, len(r.waypoints))
	copy(wps, r.waypoints)
	return wps
}

// Advance moves the cursor forward, clamping at the last waypoint.
// Running past the end is a state the controller checks, not an error.
func (r *Route) Advance() {
	if r.cursor < len(r.waypoints)-1 {
		r.cursor++
	}
}

// Retreat moves the cursor back, clamping at zero.
func (r *Route) Retreat() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// JumpTo sets the cursor directly, used when the user taps a waypoint in the
// route overview.
func (r *Route) JumpTo(index int) error {
	if index < 0 || index >= len(r.waypoints) {
		return ErrOutOfRange
	}
	r.cursor = index
	return nil
}

// MarkCompleted records a watered waypoint. Marking twice is a no-op.
func (r *Route) MarkCompleted(id string) {
	r.completed[id] = struct{}{}
}

func (r *Route) IsCompleted(id string) bool {
	_, ok := r.completed[id]
	return ok
}

func (r *Route) CompletedIDs() []string {
	ids := make([]string, 0, len(r.completed))
	for _, wp := range r.waypoints {
		if r.IsCompleted(wp.ID) {
			ids = append(ids, wp.ID)
		}
	}
	return ids
}

func (r *Route) findWaypoint(id string) (Waypoint, bool) {
	for _, wp := range r.waypoints {
		if wp.ID == id {
			return wp, true
		}
	}
	return Waypoint{}, false
}

// ProgressFraction reports cursor position as a value in [0,1]. A
// single-waypoint route is always at 1.
func (r *Route) ProgressFraction() float64 {
	if len(r.waypoints) <= 1 {
		return 1
	}
	return float64(r.cursor) / float64(len(r.waypoints)-1)
}
