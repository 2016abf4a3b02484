package services

import (
	"context"
	"time"

	"slidecast/internal/engine"
)

// StatsPoller samples engine performance statistics at a fixed interval
type StatsPoller struct {
	engine   engine.Engine
	events   EventPublisher
	interval time.Duration
}

// NewStatsPoller creates a poller publishing to events
func NewStatsPoller(eng engine.Engine, events EventPublisher, interval time.Duration) *StatsPoller {
	if interval <= 0 {
		interval = time.Second
	}
	return &StatsPoller{
		engine:   eng,
		events:   events,
		interval: interval,
	}
}

// Run polls until ctx is done
func (p *StatsPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.events.Publish(Event{Type: EventPerformanceStats, Data: p.engine.Statistics()})
		}
	}
}
