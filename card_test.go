package main

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

// newCardPhaseMatch returns a match that has just entered the round 2 card phase
func newCardPhaseMatch(t *testing.T) *Match {
	t.Helper()
	m := newActiveMatch()
	m.scoreGoal(TeamBlue, &m.units[idBluePlayer])
	tickFor(m, RoundOverDelay)
	if m.Phase() != PhasePreRound {
		t.Fatalf("expected card phase, got %s", m.Phase())
	}
	return m
}

func TestCardPhaseStarts(t *testing.T) {
	m := newCardPhaseMatch(t)
	cp, ok := m.CardPhase()
	if !ok {
		t.Fatal("card phase should be running")
	}
	if cp.Options[0].ID == cp.Options[1].ID {
		t.Error("options should be distinct")
	}
	if cp.Total != m.Units() || cp.Choice != -1 || cp.HumanChosen {
		t.Errorf("unexpected initial card phase %+v", cp)
	}
	if r := cp.Remaining(m.Now()); r <= CardCountdown-2*FixedStep || r > CardCountdown {
		t.Errorf("expected a fresh countdown, got %f", r)
	}
	if !hasEvent(m.DrainEvents(), EventCardPhase) {
		t.Error("expected card phase event")
	}
	if !m.Snapshot().Cards.Active {
		t.Error("snapshot should show the card phase")
	}
}

func TestChooseCard(t *testing.T) {
	m := newCardPhaseMatch(t)
	m.DrainEvents()

	m.ChooseCard(2)
	m.ChooseCard(-1)
	if cp, _ := m.CardPhase(); cp.HumanChosen {
		t.Fatal("out of range choices should be ignored")
	}

	m.ChooseCard(1)
	cp, _ := m.CardPhase()
	if !cp.HumanChosen || cp.Choice != 1 || cp.SelectionsDone < 1 {
		t.Fatalf("choice not recorded: %+v", cp)
	}
	evs := m.DrainEvents()
	if !hasEvent(evs, EventCardChosen) {
		t.Fatal("expected card chosen event")
	}
	if !strings.Contains(m.Status(), cp.Options[1].Name) {
		t.Errorf("status should name the card, got %q", m.Status())
	}

	m.ChooseCard(0)
	if cp, _ := m.CardPhase(); cp.Choice != 1 {
		t.Error("only the first choice counts")
	}
}

func TestChooseCardOutsidePreRound(t *testing.T) {
	m := newActiveMatch()
	m.ChooseCard(0)
	if len(m.DrainEvents()) != 0 {
		t.Error("choice outside the card phase should be ignored")
	}
	if _, ok := m.CardPhase(); ok {
		t.Error("no card phase in round 1")
	}
}

func TestCardPhaseTimeoutPicksDefault(t *testing.T) {
	m := newCardPhaseMatch(t)
	cp, _ := m.CardPhase()
	m.DrainEvents()

	tickFor(m, CardCountdown)
	if m.Phase() != PhaseActive {
		t.Fatalf("expected play after the countdown, got %s", m.Phase())
	}
	evs := m.DrainEvents()
	var chosen string
	for _, ev := range evs {
		if ev.Kind == EventCardChosen {
			chosen = ev.Text
		}
	}
	if !strings.Contains(chosen, cp.Options[CardDefaultPick].Name) {
		t.Errorf("expected default card, got %q", chosen)
	}
	if !hasEvent(evs, EventRoundStart) {
		t.Error("expected round start event")
	}
}

func TestCardPhaseEndsWhenAllChose(t *testing.T) {
	m := newCardPhaseMatch(t)
	m.ChooseCard(0)
	m.cards.SelectionsDone = m.cards.Total
	m.FixedTick()
	if m.Phase() != PhaseActive {
		t.Errorf("expected play once everyone chose, got %s", m.Phase())
	}
}

func TestSimulatedPicksAdvance(t *testing.T) {
	m := newCardPhaseMatch(t)
	tickFor(m, CardSimPickMax)
	cp, _ := m.CardPhase()
	if cp.SelectionsDone < 1 {
		t.Error("a simulated pick should land within the max delay")
	}
	if cp.SelectionsDone >= cp.Total {
		t.Error("simulated picks never cover the human")
	}
}

func TestCardPhaseFreezesPlay(t *testing.T) {
	m := newCardPhaseMatch(t)
	elapsed := m.RoundElapsed()
	m.Frame(1)
	m.PressAction()
	if m.RoundElapsed() != elapsed {
		t.Error("round clock should not run during the card phase")
	}
	if charging, _ := m.Charging(); charging {
		t.Error("throws cannot be charged during the card phase")
	}
}

func TestCardRemaining(t *testing.T) {
	cp := CardPhase{Deadline: 10}
	if r := cp.Remaining(4); math.Abs(r-6) > 1e-9 {
		t.Errorf("expected 6, got %f", r)
	}
	if r := cp.Remaining(12); r != 0 {
		t.Errorf("expected 0 after the deadline, got %f", r)
	}
}

type fixedRng []int

func (f *fixedRng) Intn(int) int {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestDrawTwo(t *testing.T) {
	r := fixedRng{3, 3}
	if a, b := drawTwo(&r, 5); a != 3 || b != 4 {
		t.Errorf("expected (3, 4), got (%d, %d)", a, b)
	}
	r = fixedRng{3, 1}
	if a, b := drawTwo(&r, 5); a != 3 || b != 1 {
		t.Errorf("expected (3, 1), got (%d, %d)", a, b)
	}

	rng := rand.New(rand.NewSource(42))
	for n := 2; n <= len(CardPool); n++ {
		for i := 0; i < 50; i++ {
			a, b := drawTwo(rng, n)
			if a == b || a < 0 || b < 0 || a >= n || b >= n {
				t.Fatalf("drawTwo(%d) = (%d, %d)", n, a, b)
			}
		}
	}
}
