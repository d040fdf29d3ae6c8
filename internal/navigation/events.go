package navigation

import "time"

type EventType string

const (
	// EventArrived asks the caller to prompt the user for confirmation.
	// The controller never marks a waypoint watered on its own.
	EventArrived EventType = "arrived"
	// EventWatered reports a confirmed completion and the plant's next due time.
	EventWatered EventType = "watered"
	// EventTrackingLost reports a geolocator failure; the session fell back to
	// idle and can be resumed.
	EventTrackingLost EventType = "tracking_lost"
	// EventFinished reports session termination.
	EventFinished EventType = "finished"
)

type Event struct {
	Type       EventType `json:"type"`
	WaypointID string    `json:"waypoint_id,omitempty"`
	DistanceM  float64   `json:"distance_m,omitempty"`
	NextDue    time.Time `json:"next_due,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// EventSink receives controller events. Sinks are invoked on the sample or
// command path and must not call back into the controller.
type EventSink func(Event)
