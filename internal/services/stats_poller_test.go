package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"slidecast/internal/engine"
)

func TestStatsPoller_PublishesUntilCancelled(t *testing.T) {
	events := &recordingPublisher{}
	poller := NewStatsPoller(newFakeEngine(nil), events, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		poller.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(events.types()) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	events.mu.Lock()
	first := events.events[0]
	events.mu.Unlock()
	assert.Equal(t, EventPerformanceStats, first.Type)
	assert.Equal(t, engine.Statistics{CPU: 1.5, FrameRate: 30}, first.Data)
}

func TestNewStatsPoller_DefaultsToOneSecond(t *testing.T) {
	poller := NewStatsPoller(newFakeEngine(nil), &recordingPublisher{}, 0)
	assert.Equal(t, time.Second, poller.interval)
}
