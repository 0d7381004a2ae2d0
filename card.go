package main

import "fmt"

const (
	CardCountdown   = 10.0 // seconds to choose
	CardSimPickMin  = 0.5  // seconds, simulated pick delay lower bound
	CardSimPickMax  = 1.6  // seconds, simulated pick delay upper bound
	CardDefaultPick = 0
)

// Card is a perk offered between rounds. Effects are announced only.
type Card struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardPool is the full list of perks
var CardPool = []Card{
	{ID: "sprint", Name: "Sprint Boost"},
	{ID: "jump", Name: "Jump Boost"},
	{ID: "shield", Name: "Shield Up"},
	{ID: "stamina", Name: "Stamina Recovery"},
	{ID: "tackle", Name: "Tackle Power"},
	{ID: "armor", Name: "Damage Armor"},
	{ID: "burst", Name: "Burst Speed"},
	{ID: "steal", Name: "Steal Expert"},
	{ID: "pass", Name: "Pass Boost"},
	{ID: "vision", Name: "Wide Vision"},
	{ID: "guard", Name: "Defensive Stance"},
	{ID: "counter", Name: "Counter Rush"},
	{ID: "rally", Name: "Team Rally"},
	{ID: "aura", Name: "Recovery Aura"},
	{ID: "charge", Name: "Charge Ready"},
	{ID: "grip", Name: "Secure Grip"},
}

// CardPhase is the state of an inter-round card choice
type CardPhase struct {
	Options        [2]Card
	Deadline       float64 // match clock
	SelectionsDone int
	Total          int
	HumanChosen    bool
	Choice         int
	simPicked      int
}

// Remaining returns seconds left on the countdown
func (c *CardPhase) Remaining(now float64) float64 {
	r := c.Deadline - now
	if r < 0 {
		return 0
	}
	return r
}

// drawTwo picks two distinct indices from [0, n)
func drawTwo(rng interface{ Intn(int) int }, n int) (int, int) {
	first := rng.Intn(n)
	second := rng.Intn(n - 1)
	if second >= first {
		second++
	}
	return first, second
}

func (m *Match) startCardPhase() {
	a, b := drawTwo(m.rng, len(m.cfg.Cards))
	m.cards = &CardPhase{
		Options:  [2]Card{m.cfg.Cards[a], m.cfg.Cards[b]},
		Deadline: m.now + CardCountdown,
		Total:    len(m.units),
		Choice:   -1,
	}
	m.phase = PhasePreRound
	m.emit(MatchEvent{Kind: EventCardPhase, Text: "Paused: choose a card for this round"})
	m.scheduleSimPick()
}

// scheduleSimPick queues the next simulated pick for a non-human unit
func (m *Match) scheduleSimPick() {
	cp := m.cards
	if cp == nil || cp.simPicked >= cp.Total-1 {
		return
	}
	wait := CardSimPickMin + m.rng.Float64()*(CardSimPickMax-CardSimPickMin)
	m.sched.Schedule(m.now+wait, m.epoch, func() {
		if m.phase != PhasePreRound || m.cards != cp {
			return
		}
		cp.simPicked++
		cp.SelectionsDone = min(cp.Total, cp.SelectionsDone+1)
		m.scheduleSimPick()
	})
}

// ChooseCard records the human's pick. Only the first choice counts.
func (m *Match) ChooseCard(index int) {
	if m.phase != PhasePreRound || m.cards == nil || m.cards.HumanChosen {
		return
	}
	if index < 0 || index > 1 {
		return
	}
	cp := m.cards
	cp.HumanChosen = true
	cp.Choice = index
	cp.SelectionsDone = min(cp.Total, cp.SelectionsDone+1)
	card := cp.Options[index]
	m.log.Debug().Int("round", m.round).Str("card", card.ID).Msg("card chosen")
	m.emit(MatchEvent{Kind: EventCardChosen, Text: fmt.Sprintf("Card this round: %s", card.Name)})
}

// checkCardPhaseDone ends the card phase on timeout or when everyone chose
func (m *Match) checkCardPhaseDone() {
	cp := m.cards
	if cp == nil {
		return
	}
	if m.now < cp.Deadline && cp.SelectionsDone < cp.Total {
		return
	}
	if !cp.HumanChosen {
		m.ChooseCard(CardDefaultPick)
	}
	m.phase = PhaseActive
	m.emit(MatchEvent{Kind: EventRoundStart, Text: "Round start, Blue pushes with the ball"})
}

// CardPhase returns a copy of the current card phase, if one is running
func (m *Match) CardPhase() (CardPhase, bool) {
	if m.cards == nil || m.phase != PhasePreRound {
		return CardPhase{}, false
	}
	return *m.cards, true
}
