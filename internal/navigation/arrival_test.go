package navigation

import (
	"testing"
	"time"

	"github.com/dinasim/greener-sub003/internal/shared/geo"
)

// ~1 degree of longitude on the equator in meters.
const metersPerDegree = 111194.9266

func equatorSample(offsetM float64) PositionSample {
	return PositionSample{Lat: 0, Lng: offsetM / metersPerDegree, Timestamp: time.Now()}
}

func equatorRoute(t *testing.T) *Route {
	t.Helper()
	return NewRoute([]Waypoint{mustWaypoint(t, "a", 0, 0)})
}

func TestEvaluateArrivedWithinThreshold(t *testing.T) {
	route := equatorRoute(t)
	res := Evaluate(route, equatorSample(2.0))
	if res.Kind != Arrived {
		t.Fatalf("expected arrived at ~2m, got %v (%.3fm)", res.Kind, res.DistanceM)
	}
	if res.WaypointID != "a" {
		t.Fatalf("unexpected waypoint id %q", res.WaypointID)
	}
}

func TestEvaluateThresholdIsStrict(t *testing.T) {
	route := equatorRoute(t)

	near := Evaluate(route, equatorSample(2.999))
	if near.Kind != Arrived || near.DistanceM >= ArrivalThresholdM {
		t.Fatalf("expected arrived just inside threshold, got %v (%.6fm)", near.Kind, near.DistanceM)
	}

	at := Evaluate(route, equatorSample(3.0))
	if at.Kind != NotYet || at.DistanceM < ArrivalThresholdM {
		t.Fatalf("expected not-yet at exactly the threshold, got %v (%.6fm)", at.Kind, at.DistanceM)
	}
}

func TestEvaluateDedupViaCompletedSet(t *testing.T) {
	route := equatorRoute(t)

	// Before completion every in-threshold sample reads as an arrival; the
	// controller applies MarkCompleted after the user confirms.
	for _, d := range []float64{2, 1, 1.5} {
		if res := Evaluate(route, equatorSample(d)); res.Kind != Arrived {
			t.Fatalf("expected arrived at %vm before completion, got %v", d, res.Kind)
		}
	}

	route.MarkCompleted("a")
	for _, d := range []float64{2, 1, 1.5} {
		if res := Evaluate(route, equatorSample(d)); res.Kind != AlreadyCompleted {
			t.Fatalf("expected already-completed at %vm, got %v", d, res.Kind)
		}
	}
}

func TestEvaluateNotYetCarriesDistance(t *testing.T) {
	route := equatorRoute(t)
	res := Evaluate(route, equatorSample(250))
	if res.Kind != NotYet {
		t.Fatalf("expected not-yet, got %v", res.Kind)
	}
	if res.DistanceM < 240 || res.DistanceM > 260 {
		t.Fatalf("unexpected distance %v", res.DistanceM)
	}
}

func TestEvaluateNoTargetWaypoint(t *testing.T) {
	wp, err := NewWaypoint("manual", "Indoor fern", nil)
	if err != nil {
		t.Fatalf("waypoint: %v", err)
	}
	route := NewRoute([]Waypoint{wp})

	samples := []PositionSample{
		equatorSample(0),
		equatorSample(2),
		{Lat: 51.5, Lng: -0.12},
	}
	for _, s := range samples {
		if res := Evaluate(route, s); res.Kind != NoTarget {
			t.Fatalf("expected no-target for %+v, got %v", s, res.Kind)
		}
	}
}

func TestEvaluateUsesActiveWaypoint(t *testing.T) {
	route := NewRoute([]Waypoint{
		mustWaypoint(t, "a", 0, 0),
		mustWaypoint(t, "b", 0.01, 0),
	})
	route.MarkCompleted("a")
	route.Advance()

	// Standing at a's coordinates with the cursor on b must not produce a
	// stale arrival for a.
	res := Evaluate(route, equatorSample(0))
	if res.Kind != NotYet || res.WaypointID != "b" {
		t.Fatalf("expected not-yet relative to b, got %v for %q", res.Kind, res.WaypointID)
	}

	coords := geo.Coordinates{Lat: 0.01, Lng: 0}
	atB := Evaluate(route, PositionSample{Lat: coords.Lat, Lng: coords.Lng})
	if atB.Kind != Arrived || atB.WaypointID != "b" {
		t.Fatalf("expected arrival at b, got %v for %q", atB.Kind, atB.WaypointID)
	}
}
