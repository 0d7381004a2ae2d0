package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "rugby-server"

// Metrics holds the server's OpenTelemetry instruments. The global meter
// provider is a no-op until an exporter installs a real one.
type Metrics struct {
	goals      metric.Int64Counter
	knockouts  metric.Int64Counter
	throws     metric.Int64Counter
	passes     metric.Int64Counter
	pickups    metric.Int64Counter
	matchesEnd metric.Int64Counter
	rooms      metric.Int64Counter
	tickTime   metric.Float64Histogram
	liveRooms  metric.Int64ObservableGauge
	livePeers  metric.Int64ObservableGauge

	mu          sync.RWMutex
	activeRooms int
	peers       int
}

// NewMetrics registers all instruments on the global meter
func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	mt := &Metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&mt.goals, "match.goals", "Goals scored"},
		{&mt.knockouts, "match.knockouts", "Units knocked out"},
		{&mt.throws, "match.throws", "Balls thrown by the human"},
		{&mt.passes, "match.passes", "AI passes"},
		{&mt.pickups, "match.pickups", "Loose ball pickups"},
		{&mt.matchesEnd, "match.finished", "Matches played to the end"},
		{&mt.rooms, "rooms.created", "Rooms created"},
	}
	var err error
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	mt.tickTime, err = m.Float64Histogram(
		"game.tick.duration",
		metric.WithDescription("Wall time spent in one frame update"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}

	mt.liveRooms, err = m.Int64ObservableGauge(
		"rooms.active",
		metric.WithDescription("Rooms currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rooms gauge: %w", err)
	}
	mt.livePeers, err = m.Int64ObservableGauge(
		"peers.connected",
		metric.WithDescription("WebSocket connections currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating peers gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			mt.mu.RLock()
			defer mt.mu.RUnlock()
			o.ObserveInt64(mt.liveRooms, int64(mt.activeRooms))
			o.ObserveInt64(mt.livePeers, int64(mt.peers))
			return nil
		},
		mt.liveRooms, mt.livePeers,
	)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}
	return mt, nil
}

// RecordEvent counts a match event
func (mt *Metrics) RecordEvent(ev MatchEvent) {
	if mt == nil {
		return
	}
	ctx := context.Background()
	team := metric.WithAttributes(attribute.String("team", ev.Team))
	switch ev.Kind {
	case EventGoal:
		mt.goals.Add(ctx, 1, team)
	case EventKnockout:
		mt.knockouts.Add(ctx, 1, team)
	case EventThrow:
		mt.throws.Add(ctx, 1)
	case EventPass:
		mt.passes.Add(ctx, 1, team)
	case EventPickup:
		mt.pickups.Add(ctx, 1, team)
	case EventMatchOver:
		mt.matchesEnd.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", ev.Team)))
	}
}

// RecordTick records how long one frame update took
func (mt *Metrics) RecordTick(d time.Duration) {
	if mt == nil {
		return
	}
	mt.tickTime.Record(context.Background(), float64(d.Microseconds())/1000)
}

// RoomCreated counts a new room
func (mt *Metrics) RoomCreated(mode GameMode) {
	if mt == nil {
		return
	}
	mt.rooms.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("mode", int(mode))))
}

// SetActiveRooms updates the live room gauge
func (mt *Metrics) SetActiveRooms(n int) {
	if mt == nil {
		return
	}
	mt.mu.Lock()
	mt.activeRooms = n
	mt.mu.Unlock()
}

// SetPeers updates the live connection gauge
func (mt *Metrics) SetPeers(n int) {
	if mt == nil {
		return
	}
	mt.mu.Lock()
	mt.peers = n
	mt.mu.Unlock()
}

// Snapshot returns the live gauge values
func (mt *Metrics) Snapshot() (rooms, peers int) {
	if mt == nil {
		return 0, 0
	}
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.activeRooms, mt.peers
}
