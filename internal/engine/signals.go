package engine

import (
	"fmt"

	messagebus "github.com/vardius/message-bus"
)

const signalTopic = "engine-signal"

// SignalType names an asynchronous engine notification
type SignalType string

const (
	SignalSourceLoaded   SignalType = "source_loaded"
	SignalSourceFailed   SignalType = "source_failed"
	SignalTransitionDone SignalType = "transition_done"
)

// Signal is an asynchronous notification from the engine
type Signal struct {
	Type     SignalType `json:"type"`
	SourceID string     `json:"sourceId,omitempty"`
	SceneID  string     `json:"sceneId,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// Signals fans engine notifications out to subscribers. Each subscriber
// receives signals in publish order on its own goroutine.
type Signals struct {
	bus messagebus.MessageBus
}

// NewSignals creates a signal stream with the given per-subscriber queue size
func NewSignals(queueSize int) *Signals {
	return &Signals{bus: messagebus.New(queueSize)}
}

// Publish sends a signal to every subscriber
func (s *Signals) Publish(signal Signal) {
	s.bus.Publish(signalTopic, signal)
}

// Subscribe registers fn and returns a function that removes it
func (s *Signals) Subscribe(fn func(Signal)) (func(), error) {
	if err := s.bus.Subscribe(signalTopic, fn); err != nil {
		return nil, fmt.Errorf("failed to subscribe to engine signals: %w", err)
	}
	return func() {
		_ = s.bus.Unsubscribe(signalTopic, fn)
	}, nil
}

// Close stops delivery to all subscribers
func (s *Signals) Close() {
	s.bus.Close(signalTopic)
}
