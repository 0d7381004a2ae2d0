package main

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	binary   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.binary = append(m.binary, data)
}

func (m *mockBroadcaster) envelopes(t string) []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Envelope
	for _, msg := range m.messages {
		if env, ok := msg.(Envelope); ok && env.T == t {
			out = append(out, env)
		}
	}
	return out
}

func newTestGame(mode GameMode) *Game {
	cfg := DefaultConfig(mode)
	cfg.Seed = 7
	return NewGame(cfg, zerolog.Nop(), nil)
}

func TestGamePracticeStartsImmediately(t *testing.T) {
	g := newTestGame(ModePractice)
	if g.Phase() != PhaseActive {
		t.Errorf("expected active phase, got %s", g.Phase())
	}
}

func TestGameMatchModeQueuesStart(t *testing.T) {
	g := newTestGame(ModeMatch)
	if g.Phase() != PhaseIdle {
		t.Fatalf("expected idle phase, got %s", g.Phase())
	}
	if s := g.Snapshot().Status; s != "Matching players..." {
		t.Errorf("unexpected status %q", s)
	}
	// 5 seconds of matchmaking plus a little slack
	for i := 0; i < 320; i++ {
		g.update(1.0 / FrameRate)
	}
	if g.Phase() != PhaseActive {
		t.Errorf("expected active phase after matchmaking, got %s", g.Phase())
	}
}

func TestGameDisplays(t *testing.T) {
	g := newTestGame(ModePractice)
	d := &mockBroadcaster{}
	if !g.AddDisplay("a", d) {
		t.Fatal("first display should be accepted")
	}
	if g.DisplayCount() != 1 {
		t.Errorf("expected 1 display, got %d", g.DisplayCount())
	}
	for i := 0; i < maxDisplaysPerRoom; i++ {
		g.AddDisplay(GenerateID(4), &mockBroadcaster{})
	}
	if g.DisplayCount() != maxDisplaysPerRoom {
		t.Errorf("display count should cap at %d, got %d", maxDisplaysPerRoom, g.DisplayCount())
	}
	g.RemoveDisplay("a")
	if g.DisplayCount() != maxDisplaysPerRoom-1 {
		t.Errorf("expected %d displays, got %d", maxDisplaysPerRoom-1, g.DisplayCount())
	}
}

func TestGameUpdateBroadcastsState(t *testing.T) {
	g := newTestGame(ModePractice)
	d := &mockBroadcaster{}
	g.AddDisplay("d", d)

	for i := 0; i < BroadcastEvery*3; i++ {
		g.update(1.0 / FrameRate)
	}

	d.mu.Lock()
	frames := len(d.binary)
	var last []byte
	if frames > 0 {
		last = d.binary[frames-1]
	}
	d.mu.Unlock()

	if frames != 3 {
		t.Fatalf("expected 3 state frames, got %d", frames)
	}
	var gs GameState
	if err := msgpack.Unmarshal(last, &gs); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if len(gs.Units) != 2*TeamSize {
		t.Errorf("expected %d units, got %d", 2*TeamSize, len(gs.Units))
	}
	if gs.Phase != "active" {
		t.Errorf("expected active phase in state, got %s", gs.Phase)
	}
	if gs.Ball.Carrier != int(g.match.Human()) {
		t.Errorf("human should carry the ball at kickoff, carrier %d", gs.Ball.Carrier)
	}
}

func TestGameControllerNotifications(t *testing.T) {
	g := newTestGame(ModePractice)
	d := &mockBroadcaster{}
	g.AddDisplay("d", d)

	ctl := &mockBroadcaster{}
	g.SetController("c1", ctl)
	if !g.HasController() {
		t.Fatal("controller should be attached")
	}
	if len(d.envelopes(MsgCtrlOn)) != 1 {
		t.Error("display should be told the controller attached")
	}

	g.RemoveController("someone-else")
	if !g.HasController() {
		t.Error("removing a stale controller id should be ignored")
	}
	g.RemoveController("c1")
	if g.HasController() {
		t.Error("controller should be detached")
	}
	if len(d.envelopes(MsgCtrlOff)) != 1 {
		t.Error("display should be told the controller detached")
	}
}

func TestGameActionForwardsEvents(t *testing.T) {
	g := newTestGame(ModePractice)
	d := &mockBroadcaster{}
	g.AddDisplay("d", d)

	g.HandleAction(ActionMsg{Down: true})
	for i := 0; i < 30; i++ {
		g.update(1.0 / FrameRate)
	}
	g.HandleAction(ActionMsg{Down: false, SX: 100, SY: 1000})

	evs := d.envelopes(MsgEvent)
	found := false
	for _, env := range evs {
		if ev, ok := env.Data.(MatchEvent); ok && ev.Kind == EventThrow {
			found = true
		}
	}
	if !found {
		t.Error("expected a throw event to be broadcast")
	}
	if g.match.Ball().Carrier() != NoUnit {
		t.Error("ball should be loose after the throw")
	}
}

func TestGameRestartOnlyAfterMatchOver(t *testing.T) {
	g := newTestGame(ModePractice)
	if g.Restart() {
		t.Fatal("restart should be refused while the match runs")
	}

	g.mu.Lock()
	g.match.round = TotalRounds
	g.match.phase = PhaseRoundEnding
	g.match.finishRound()
	g.mu.Unlock()
	if g.Phase() != PhaseMatchOver {
		t.Fatalf("expected match over, got %s", g.Phase())
	}

	if !g.Restart() {
		t.Fatal("restart should succeed after match over")
	}
	if g.Phase() != PhaseActive {
		t.Errorf("practice restart should be active, got %s", g.Phase())
	}
	if g.match.Round() != 1 || g.match.Scores() != [2]int{} {
		t.Error("restart should build a fresh match")
	}
}

func TestGameStop(t *testing.T) {
	g := newTestGame(ModePractice)
	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	g.Stop()
	<-done
	g.Stop()
}

func TestGameStopBeforeRun(t *testing.T) {
	g := newTestGame(ModePractice)
	g.Stop()
	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run kept looping after an earlier Stop")
	}
}
