package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"slidecast/internal/engine"
	"slidecast/internal/logger"
)

type pendingTransition struct {
	scene    engine.Scene
	sourceID string
	cancel   context.CancelFunc
}

// Transitioner switches the output to a new scene once its source is loaded.
// At most one transition is pending; scheduling another cancels the unfired one.
type Transitioner struct {
	engine  engine.Engine
	timeout time.Duration
	log     zerolog.Logger

	// fireMu serializes engine transitions in submission order
	fireMu      sync.Mutex
	mu          sync.Mutex
	pending     *pendingTransition
	waiters     map[string]chan error
	unsubscribe func()
}

// NewTransitioner subscribes to engine signals. timeout bounds the wait for
// a source_loaded signal; the transition runs anyway once it elapses.
func NewTransitioner(eng engine.Engine, signals *engine.Signals, timeout time.Duration) (*Transitioner, error) {
	t := &Transitioner{
		engine:  eng,
		timeout: timeout,
		log:     logger.Component("transition"),
		waiters: make(map[string]chan error),
	}

	unsubscribe, err := signals.Subscribe(t.handleSignal)
	if err != nil {
		return nil, err
	}
	t.unsubscribe = unsubscribe
	return t, nil
}

// Await registers interest in sourceID's load signal. Call it before the
// source is created so the signal cannot be missed.
func (t *Transitioner) Await(sourceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.waiters[sourceID]; !ok {
		t.waiters[sourceID] = make(chan error, 1)
	}
}

// Forget drops a waiter registered with Await
func (t *Transitioner) Forget(sourceID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.waiters, sourceID)
}

func (t *Transitioner) handleSignal(signal engine.Signal) {
	var result error
	switch signal.Type {
	case engine.SignalSourceLoaded:
	case engine.SignalSourceFailed:
		result = errors.New(signal.Message)
	default:
		return
	}

	// The waiter stays registered until its transition fires or is dropped,
	// so a signal that beats Schedule is still buffered for it.
	t.mu.Lock()
	defer t.mu.Unlock()
	if ch, ok := t.waiters[signal.SourceID]; ok {
		select {
		case ch <- result:
		default:
		}
	}
}

// Schedule queues a transition to scene, fired when sourceID loads
func (t *Transitioner) Schedule(scene engine.Scene, sourceID string) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingTransition{scene: scene, sourceID: sourceID, cancel: cancel}

	t.mu.Lock()
	if prev := t.pending; prev != nil {
		prev.cancel()
		if prev.sourceID != sourceID {
			delete(t.waiters, prev.sourceID)
		}
		t.log.Debug().Str("scene", prev.scene.ID()).Msg("pending transition superseded")
	}
	t.pending = p
	ready, ok := t.waiters[sourceID]
	t.mu.Unlock()

	if !ok {
		// Nothing to wait on; fall through on the timeout alone.
		ready = nil
	}
	go t.wait(ctx, p, ready)
}

func (t *Transitioner) wait(ctx context.Context, p *pendingTransition, ready <-chan error) {
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case err := <-ready:
		if err != nil {
			t.log.Error().Err(err).Str("source", p.sourceID).Msg("source failed to load, transition dropped")
			t.clear(p)
			return
		}
	case <-timer.C:
		t.log.Warn().Str("source", p.sourceID).Dur("timeout", t.timeout).
			Msg("source not loaded in time, transitioning anyway")
	}

	t.fireMu.Lock()
	defer t.fireMu.Unlock()

	t.mu.Lock()
	if t.pending != p {
		t.mu.Unlock()
		return
	}
	t.pending = nil
	delete(t.waiters, p.sourceID)
	t.mu.Unlock()
	p.cancel()

	if err := t.engine.TransitionTo(p.scene); err != nil {
		t.log.Error().Err(err).Str("scene", p.scene.ID()).Msg("transition failed")
		return
	}
	t.log.Info().Str("scene", p.scene.ID()).Msg("transitioned")
}

func (t *Transitioner) clear(p *pendingTransition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == p {
		t.pending = nil
	}
	delete(t.waiters, p.sourceID)
	p.cancel()
}

// Pending returns the scene id of the unfired transition, if any
func (t *Transitioner) Pending() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return "", false
	}
	return t.pending.scene.ID(), true
}

// Close cancels any pending transition and stops listening for signals
func (t *Transitioner) Close() {
	t.mu.Lock()
	if t.pending != nil {
		t.pending.cancel()
		t.pending = nil
	}
	t.mu.Unlock()

	if t.unsubscribe != nil {
		t.unsubscribe()
	}
}
