package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	FrameRate      = 60 // frame updates per second
	BroadcastRate  = 30 // state broadcasts per second
	FrameDuration  = time.Second / FrameRate
	BroadcastEvery = FrameRate / BroadcastRate

	maxDisplaysPerRoom = 8
	maxStepsPerFrame   = 10 // fixed steps one frame may run before the backlog is dropped
)

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game hosts one Match and drives it in real time
type Game struct {
	mu      sync.Mutex
	log     zerolog.Logger
	cfg     MatchConfig
	match   *Match
	metrics *Metrics

	displays   map[string]Broadcaster // connection id -> display
	controller Broadcaster
	ctrlID     string

	tick     uint64
	acc      float64
	stop     chan struct{}
	stopOnce sync.Once
}

// NewGame creates a Game with a fresh match. Practice rooms start at once,
// match rooms start after the matchmaking delay.
func NewGame(cfg MatchConfig, log zerolog.Logger, metrics *Metrics) *Game {
	g := &Game{
		log:      log,
		cfg:      cfg,
		metrics:  metrics,
		displays: make(map[string]Broadcaster),
		stop:     make(chan struct{}),
	}
	g.match = g.newMatch()
	return g
}

func (g *Game) newMatch() *Match {
	m := NewMatch(g.cfg, NewPhysicsWorld(), g.log)
	if g.cfg.Mode == ModeMatch {
		m.QueueStart(g.cfg.MatchingDelay)
	} else {
		m.StartMatch()
	}
	return m
}

// Run starts the game loop. It returns at once if Stop was already called.
func (g *Game) Run() {
	select {
	case <-g.stop:
		return
	default:
	}

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			start := time.Now()
			g.update(dt)
			g.metrics.RecordTick(time.Since(start))
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop, whether or not Run has started yet
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// AddDisplay attaches a display connection. Returns false when the room is full.
func (g *Game) AddDisplay(id string, b Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.displays[id]; !ok && len(g.displays) >= maxDisplaysPerRoom {
		return false
	}
	g.displays[id] = b
	return true
}

// RemoveDisplay detaches a display connection
func (g *Game) RemoveDisplay(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.displays, id)
}

// DisplayCount returns the number of attached displays
func (g *Game) DisplayCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.displays)
}

// SetController attaches the phone controller, replacing any previous one
func (g *Game) SetController(id string, b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.controller != nil && g.ctrlID != id {
		g.controller.SendJSON(Envelope{T: MsgCtrlOff})
	}
	g.controller = b
	g.ctrlID = id
	g.broadcastMsg(Envelope{T: MsgCtrlOn})
}

// RemoveController detaches the controller if id is the current one
func (g *Game) RemoveController(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctrlID != id {
		return
	}
	g.controller = nil
	g.ctrlID = ""
	g.match.SetHumanInput(HumanInput{})
	g.broadcastMsg(Envelope{T: MsgCtrlOff})
}

// HasController reports whether a controller is attached
func (g *Game) HasController() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.controller != nil
}

// HandleInput stores the latest movement intent
func (g *Game) HandleInput(in HumanInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.match.SetHumanInput(in)
}

// HandleAction applies an action button press or release
func (g *Game) HandleAction(msg ActionMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if msg.Down {
		g.match.PressAction()
	} else {
		g.match.ReleaseAction(msg.SX, msg.SY)
	}
	g.flushEvents()
}

// HandleCard records the human's card choice
func (g *Game) HandleCard(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.match.ChooseCard(index)
	g.flushEvents()
}

// Restart replaces a finished match with a fresh one. Returns false while
// the current match is still running.
func (g *Game) Restart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.match.Phase() != PhaseMatchOver {
		return false
	}
	g.cfg.Seed = rand.Int63()
	g.match = g.newMatch()
	g.acc = 0
	g.log.Info().Msg("match restarted")
	g.flushEvents()
	return true
}

// Phase returns the current match phase
func (g *Game) Phase() MatchPhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.match.Phase()
}

// Mode returns the room's game mode
func (g *Game) Mode() GameMode { return g.cfg.Mode }

// Snapshot returns the current presentation state
func (g *Game) Snapshot() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	gs := g.match.Snapshot()
	gs.Controller = g.controller != nil
	gs.Tick = g.tick
	return gs
}

// update advances the match by dt of wall time
func (g *Game) update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	g.acc += dt
	steps := 0
	for g.acc >= FixedStep {
		g.match.FixedTick()
		g.acc -= FixedStep
		steps++
		if steps >= maxStepsPerFrame {
			g.acc = 0
			break
		}
	}
	g.match.Frame(dt)
	g.flushEvents()

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// flushEvents records and forwards the match's pending events
func (g *Game) flushEvents() {
	for _, ev := range g.match.DrainEvents() {
		g.metrics.RecordEvent(ev)
		g.broadcastMsg(Envelope{T: MsgEvent, Data: ev})
	}
}

// broadcastState sends the current game state to all displays as msgpack
func (g *Game) broadcastState() {
	if len(g.displays) == 0 {
		return
	}
	data, err := msgpack.Marshal(g.snapshot())
	if err != nil {
		g.log.Error().Err(err).Msg("encoding state")
		return
	}
	for _, d := range g.displays {
		d.SendBinary(data)
	}
}

// broadcastMsg sends a message to all displays and the controller
func (g *Game) broadcastMsg(msg Envelope) {
	for _, d := range g.displays {
		d.SendJSON(msg)
	}
	if g.controller != nil {
		g.controller.SendJSON(msg)
	}
}
