package navigation

import (
	"context"
	"errors"
	"time"

	"github.com/dinasim/greener-sub003/internal/shared/geo"

	"sync"
)

type State string

const (
	StateIdle      State = "idle"
	StateTracking  State = "tracking"
	StateCompleted State = "completed"
)

var (
	ErrNoRoute          = errors.New("no route loaded")
	ErrSessionCompleted = errors.New("session already finished")
	ErrConfirmPending   = errors.New("confirmation already in progress")
)

// WateringMarker is the external mark-watered collaborator. Failures are
// surfaced to the caller unchanged; the controller never retries.
type WateringMarker interface {
	MarkWatered(ctx context.Context, waypointID, method string, coords *geo.Coordinates) (time.Time, error)
}

// Controller runs one guided watering session: it owns the route's cursor and
// completion state, manages the single geolocator subscription, and emits
// typed events for the UI layer. All sample and command processing is
// serialized under one mutex, so the arrival detector is never invoked
// concurrently for the same session.
type Controller struct {
	mu          sync.Mutex
	state       State
	route       *Route
	geolocator  Geolocator
	marker      WateringMarker
	emit        EventSink
	unsubscribe func()

	// announced tracks waypoints the UI has already been prompted for in the
	// current tracking stretch. It resets on pause and tracking loss, so an
	// uncompleted waypoint re-fires on re-arrival after resume.
	announced map[string]struct{}
	// confirming suppresses duplicate mark-watered calls while one is in
	// flight for the same waypoint.
	confirming map[string]struct{}

	lastSample   *PositionSample
	lastDistance *float64
}

func NewController(geolocator Geolocator, marker WateringMarker, sink EventSink) *Controller {
	if sink == nil {
		sink = func(Event) {}
	}
	return &Controller{
		state:      StateIdle,
		geolocator: geolocator,
		marker:     marker,
		emit:       sink,
		announced:  map[string]struct{}{},
		confirming: map[string]struct{}{},
	}
}

// Start loads a route and begins tracking. Starting while already tracking is
// a no-op rather than a duplicate subscription.
func (c *Controller) Start(route *Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCompleted {
		return ErrSessionCompleted
	}
	if c.state == StateTracking {
		return nil
	}
	if route == nil || route.Len() == 0 {
		return ErrEmptyRoute
	}
	c.route = route
	return c.subscribeLocked()
}

// Resume re-opens the position subscription after a pause or tracking loss.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCompleted {
		return ErrSessionCompleted
	}
	if c.state == StateTracking {
		return nil
	}
	if c.route == nil {
		return ErrNoRoute
	}
	return c.subscribeLocked()
}

func (c *Controller) subscribeLocked() error {
	unsub, err := c.geolocator.Subscribe(c.onSample, c.onStreamError)
	if err != nil {
		return err
	}
	c.unsubscribe = unsub
	c.state = StateTracking
	return nil
}

// Pause releases the subscription synchronously. Cursor and completion state
// are preserved.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateTracking {
		return
	}
	c.releaseLocked()
	c.state = StateIdle
}

// Finish terminates the session. Finishing is always caller-initiated; the
// controller never infers completion, since a user may skip plants.
func (c *Controller) Finish() {
	c.mu.Lock()
	if c.state == StateCompleted {
		c.mu.Unlock()
		return
	}
	c.releaseLocked()
	c.state = StateCompleted
	emit := c.emit
	c.mu.Unlock()

	emit(Event{Type: EventFinished})
}

func (c *Controller) releaseLocked() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.announced = map[string]struct{}{}
}

func (c *Controller) onStreamError(err error) {
	c.mu.Lock()
	if c.state != StateTracking {
		c.mu.Unlock()
		return
	}
	c.releaseLocked()
	c.state = StateIdle
	emit := c.emit
	c.mu.Unlock()

	emit(Event{Type: EventTrackingLost, Error: err.Error()})
}

func (c *Controller) onSample(sample PositionSample) {
	c.mu.Lock()
	if c.state != StateTracking || c.route == nil {
		c.mu.Unlock()
		return
	}

	s := sample
	c.lastSample = &s

	result := Evaluate(c.route, sample)
	switch result.Kind {
	case NoTarget:
		c.lastDistance = nil
	default:
		d := result.DistanceM
		c.lastDistance = &d
	}

	var event *Event
	if result.Kind == Arrived {
		_, prompted := c.announced[result.WaypointID]
		_, pending := c.confirming[result.WaypointID]
		if !prompted && !pending {
			c.announced[result.WaypointID] = struct{}{}
			event = &Event{Type: EventArrived, WaypointID: result.WaypointID, DistanceM: result.DistanceM}
		}
	}
	emit := c.emit
	c.mu.Unlock()

	if event != nil {
		emit(*event)
	}
}

// ConfirmWatered performs the real-world completion: it calls the external
// mark-watered service, and only on success marks the waypoint completed and
// advances the cursor past it. A second confirm for the same waypoint while
// the first is in flight is rejected without a second external call.
func (c *Controller) ConfirmWatered(ctx context.Context, waypointID string) (time.Time, error) {
	c.mu.Lock()
	if c.state == StateCompleted {
		c.mu.Unlock()
		return time.Time{}, ErrSessionCompleted
	}
	if c.route == nil {
		c.mu.Unlock()
		return time.Time{}, ErrNoRoute
	}
	wp, ok := c.route.findWaypoint(waypointID)
	if !ok {
		c.mu.Unlock()
		return time.Time{}, ErrUnknownWaypoint
	}
	if c.route.IsCompleted(waypointID) {
		c.mu.Unlock()
		return time.Time{}, nil
	}
	if _, pending := c.confirming[waypointID]; pending {
		c.mu.Unlock()
		return time.Time{}, ErrConfirmPending
	}
	c.confirming[waypointID] = struct{}{}

	method := "gps"
	var coords *geo.Coordinates
	if c.lastSample != nil {
		cc := c.lastSample.Coordinates()
		coords = &cc
	}
	if wp.Target == nil {
		method = "manual"
	}
	c.mu.Unlock()

	// External call outside the lock: position samples keep flowing while the
	// network round-trip is pending.
	nextDue, err := c.marker.MarkWatered(ctx, waypointID, method, coords)

	c.mu.Lock()
	delete(c.confirming, waypointID)
	if err != nil {
		c.mu.Unlock()
		return time.Time{}, err
	}

	c.route.MarkCompleted(waypointID)
	if active, aerr := c.route.Active(); aerr == nil && active.ID == waypointID {
		c.route.Advance()
	}
	emit := c.emit
	c.mu.Unlock()

	emit(Event{Type: EventWatered, WaypointID: waypointID, NextDue: nextDue})
	return nextDue, nil
}

// Next, Previous and JumpTo are manual overrides. They never mark anything
// completed and are legal in any state.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route == nil {
		return ErrNoRoute
	}
	c.route.Advance()
	return nil
}

func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route == nil {
		return ErrNoRoute
	}
	c.route.Retreat()
	return nil
}

func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.route == nil {
		return ErrNoRoute
	}
	return c.route.JumpTo(index)
}

// Snapshot is the session view exposed to the UI layer.
type Snapshot struct {
	State            State     `json:"state"`
	Cursor           int       `json:"cursor"`
	Active           *Waypoint `json:"active,omitempty"`
	Completed        []string  `json:"completed"`
	DistanceM        *float64  `json:"distance_m,omitempty"`
	ProgressFraction float64   `json:"progress_fraction"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state, Completed: []string{}}
	if c.route == nil {
		return snap
	}
	snap.Cursor = c.route.Cursor()
	snap.Completed = c.route.CompletedIDs()
	snap.ProgressFraction = c.route.ProgressFraction()
	if wp, err := c.route.Active(); err == nil {
		snap.Active = &wp
	}
	if c.lastDistance != nil {
		d := *c.lastDistance
		snap.DistanceM = &d
	}
	return snap
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
