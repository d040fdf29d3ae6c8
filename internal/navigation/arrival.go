package navigation

import "github.com/dinasim/greener-sub003/internal/shared/geo"

// ArrivalThresholdM tolerates consumer-GPS drift of a few meters while
// avoiding false triggers between closely spaced plants. Comparison is
// strict: a sample exactly on the threshold has not arrived.
const ArrivalThresholdM = 3.0

type ArrivalKind int

const (
	// NotYet: outside the threshold; DistanceM carries the remaining distance.
	NotYet ArrivalKind = iota
	// Arrived: first-class arrival at an uncompleted waypoint.
	Arrived
	// AlreadyCompleted: within threshold of a waypoint already marked watered.
	AlreadyCompleted
	// NoTarget: the active waypoint has no coordinates; manual completion only.
	NoTarget
)

func (k ArrivalKind) String() string {
	return []string{"not_yet", "arrived", "already_completed", "no_target"}[k]
}

type ArrivalResult struct {
	Kind       ArrivalKind
	WaypointID string
	DistanceM  float64
}

// Evaluate decides whether the sample constitutes an arrival at the route's
// active waypoint. It is pure: deduplication state lives entirely in the
// route's completed set.
func Evaluate(route *Route, sample PositionSample) ArrivalResult {
	wp, err := route.Active()
	if err != nil {
		return ArrivalResult{Kind: NoTarget}
	}
	if wp.Target == nil {
		return ArrivalResult{Kind: NoTarget, WaypointID: wp.ID}
	}

	d := geo.DistanceMeters(sample.Coordinates(), *wp.Target)
	if d < ArrivalThresholdM {
		if route.IsCompleted(wp.ID) {
			return ArrivalResult{Kind: AlreadyCompleted, WaypointID: wp.ID, DistanceM: d}
		}
		return ArrivalResult{Kind: Arrived, WaypointID: wp.ID, DistanceM: d}
	}
	return ArrivalResult{Kind: NotYet, WaypointID: wp.ID, DistanceM: d}
}
