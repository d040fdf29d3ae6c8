package navigation

import (
	"errors"
	"sync"
	"time"

	"github.com/dinasim/greener-sub003/internal/shared/geo"
)

// PositionSample is one live position fix from the device.
type PositionSample struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	AccuracyM float64   `json:"accuracy_m"`
	Timestamp time.Time `json:"timestamp"`
}

func (s PositionSample) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: s.Lat, Lng: s.Lng}
}

// Geolocator abstracts the device position stream. Subscribe returns an
// unsubscribe func that must stop delivery synchronously.
type Geolocator interface {
	Subscribe(onSample func(PositionSample), onError func(error)) (func(), error)
}

// SampleFeed is a push-driven Geolocator. The guide websocket adapter pushes
// device-reported samples into it; tests push scripted ones.
type SampleFeed struct {
	mu       sync.Mutex
	onSample func(PositionSample)
	onError  func(error)
}

func NewSampleFeed() *SampleFeed {
	return &SampleFeed{}
}

func (f *SampleFeed) Subscribe(onSample func(PositionSample), onError func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onSample != nil {
		return nil, errors.New("feed already subscribed")
	}
	f.onSample = onSample
	f.onError = onError
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.onSample = nil
		f.onError = nil
	}, nil
}

// Push delivers a sample to the subscriber, if any. Samples arriving while
// unsubscribed are dropped.
func (f *SampleFeed) Push(sample PositionSample) {
	f.mu.Lock()
	onSample := f.onSample
	f.mu.Unlock()
	if onSample != nil {
		onSample(sample)
	}
}

// Fail reports a stream failure (e.g. the device revoked location permission).
func (f *SampleFeed) Fail(err error) {
	f.mu.Lock()
	onError := f.onError
	f.mu.Unlock()
	if onError != nil {
		onError(err)
	}
}
