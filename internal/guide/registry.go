package guide

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dinasim/greener-sub003/internal/navigation"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("guide session not found")

// RouteBuilder turns a business's due plants into an ordered waypoint
// list. The watering service implements it.
type RouteBuilder interface {
	BuildRoute(ctx context.Context, businessID string, plantIDs []string) ([]navigation.Waypoint, error)
}

// Broadcaster fans session events out to watching clients.
type Broadcaster interface {
	BroadcastEvent(sessionID string, event any)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Session is one live guided watering walk. The feed is the websocket
// adapter's entry point for device position samples.
type Session struct {
	ID         string
	BusinessID string
	Feed       *navigation.SampleFeed
	Controller *navigation.Controller
	CreatedAt  time.Time
}

// Registry owns the active guide sessions of this API instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	routes RouteBuilder
	marker navigation.WateringMarker
	hub    Broadcaster
	pub    Publisher
}

func NewRegistry(routes RouteBuilder, marker navigation.WateringMarker, hub Broadcaster, pub Publisher) *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		routes:   routes,
		marker:   marker,
		hub:      hub,
		pub:      pub,
	}
}

// CreateSession builds the route, wires a controller to it and starts
// tracking. An empty plantIDs slice routes every due plant of the
// business.
func (r *Registry) CreateSession(ctx context.Context, businessID string, plantIDs []string) (*Session, error) {
	waypoints, err := r.routes.BuildRoute(ctx, businessID, plantIDs)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	feed := navigation.NewSampleFeed()

	sink := func(event navigation.Event) {
		if r.hub != nil {
			r.hub.BroadcastEvent(sessionID, event)
		}
		if r.pub == nil {
			return
		}
		switch event.Type {
		case navigation.EventArrived:
			_ = r.pub.Publish(context.Background(), "guide.waypoint.arrived", map[string]string{
				"session_id":  sessionID,
				"business_id": businessID,
				"plant_id":    event.WaypointID,
			})
		case navigation.EventFinished:
			_ = r.pub.Publish(context.Background(), "guide.session.finished", map[string]string{
				"session_id":  sessionID,
				"business_id": businessID,
			})
		}
	}

	ctrl := navigation.NewController(feed, r.marker, sink)
	if err := ctrl.Start(navigation.NewRoute(waypoints)); err != nil {
		return nil, err
	}

	session := &Session{
		ID:         sessionID,
		BusinessID: businessID,
		Feed:       feed,
		Controller: ctrl,
		CreatedAt:  time.Now(),
	}

	r.mu.Lock()
	r.sessions[sessionID] = session
	r.mu.Unlock()

	if r.pub != nil {
		_ = r.pub.Publish(ctx, "guide.session.started", map[string]string{
			"session_id":  sessionID,
			"business_id": businessID,
		})
	}
	return session, nil
}

func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove finishes the session if needed and drops it from the registry.
func (r *Registry) Remove(sessionID string) error {
	r.mu.Lock()
	session, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Controller.Finish()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
