package main

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

const (
	TotalRounds    = 4
	FixedStep      = 0.02 // seconds per authoritative tick
	FieldHalfX     = 65.0
	FieldHalfZ     = 130.0
	BlueGoalZ      = -124.0
	RedGoalZ       = 124.0
	GoalHalfDepth  = 3.0
	HalfLineGap    = 1.5 // restricted units stop this far short of the centre line
	RoundOverDelay = 1.8 // seconds between a score and the next round
	AIAttackPoll   = 0.1 // seconds between AI attack attempts
	MatchingDelay  = 5.0 // seconds of matchmaking before a queued match starts
)

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhaseIdle MatchPhase = iota
	PhasePreRound
	PhaseActive
	PhaseRoundEnding
	PhaseMatchOver
)

func (p MatchPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreRound:
		return "cards"
	case PhaseActive:
		return "active"
	case PhaseRoundEnding:
		return "round_end"
	case PhaseMatchOver:
		return "over"
	}
	return "unknown"
}

// GameMode selects how a room enters its match
type GameMode int

const (
	ModePractice GameMode = 0 // start immediately
	ModeMatch    GameMode = 1 // matchmaking countdown first
)

// Outcome of a finished match
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeBlue
	OutcomeRed
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlue:
		return "blue"
	case OutcomeRed:
		return "red"
	case OutcomeDraw:
		return "draw"
	}
	return ""
}

// MatchConfig holds settings for a match
type MatchConfig struct {
	Mode          GameMode
	Roster        []UnitSpec
	Cards         []Card
	MatchingDelay float64
	Seed          int64
}

// DefaultConfig returns the standard 5v5 setup for the given mode
func DefaultConfig(mode GameMode) MatchConfig {
	return MatchConfig{
		Mode:          mode,
		Roster:        DefaultRoster,
		Cards:         CardPool,
		MatchingDelay: MatchingDelay,
		Seed:          rand.Int63(),
	}
}

// World is a Motion implementation that can also be populated
type World interface {
	Motion
	AddBody(spec BodySpec) BodyID
	AddStatic(box AABB)
}

// Match is one authoritative match. It is not safe for concurrent use; Game
// serializes access.
type Match struct {
	log    zerolog.Logger
	cfg    MatchConfig
	motion World
	rng    *rand.Rand
	sched  Scheduler

	units []Unit
	human UnitID
	ball  Ball

	now           float64
	epoch         uint64
	phase         MatchPhase
	round         int
	scores        [2]int
	outcome       Outcome
	roundElapsed  float64
	aiAttackTimer float64
	startQueued   bool
	startAt       float64

	control HumanControl
	preview Trajectory
	cards   *CardPhase
	status  string
	events  []MatchEvent
}

// NewMatch builds the pitch, roster and ball inside world
func NewMatch(cfg MatchConfig, world World, log zerolog.Logger) *Match {
	if len(cfg.Cards) < 2 {
		cfg.Cards = CardPool
	}
	m := &Match{
		log:    log,
		cfg:    cfg,
		motion: world,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		human:  NoUnit,
		phase:  PhaseIdle,
		round:  1,
		status: "Get ready",
	}
	m.buildWorld()
	return m
}

func (m *Match) buildWorld() {
	m.motion.AddStatic(AABB{Center: Vec3{0, 0.03, 0}, Half: Vec3{65, 0.03, 0.25}})
	m.motion.AddStatic(AABB{Center: Vec3{0, 0.02, BlueGoalZ}, Half: Vec3{65, 0.02, GoalHalfDepth}})
	m.motion.AddStatic(AABB{Center: Vec3{0, 0.02, RedGoalZ}, Half: Vec3{65, 0.02, GoalHalfDepth}})

	var perTeam [2]int
	for i, spec := range m.cfg.Roster {
		body := m.motion.AddBody(unitBodySpec(spec))
		u := NewUnit(UnitID(i), spec, body)
		m.units = append(m.units, u)
		perTeam[spec.Team]++
		if spec.Control == ControlHuman && m.human == NoUnit {
			m.human = u.ID
		}
	}
	if perTeam[TeamBlue] != TeamSize || perTeam[TeamRed] != TeamSize {
		m.log.Warn().
			Int("blue", perTeam[TeamBlue]).
			Int("red", perTeam[TeamRed]).
			Msg("team roster size is not 5, continuing")
	}
	if m.human == NoUnit {
		m.log.Warn().Msg("roster has no human unit")
	}

	m.ball = Ball{
		Body:       m.motion.AddBody(ballBodySpec(Vec3{})),
		Possession: Loose{},
	}
	if owner := m.kickoffOwner(); owner != NoUnit {
		m.AttachToCarrier(owner)
	}
}

// kickoffOwner is the unit that starts each round with the ball
func (m *Match) kickoffOwner() UnitID {
	if m.human != NoUnit {
		return m.human
	}
	if len(m.units) > 0 {
		return 0
	}
	return NoUnit
}

// unit returns the unit for id, or nil when id is out of range
func (m *Match) unit(id UnitID) *Unit {
	if id < 0 || int(id) >= len(m.units) {
		return nil
	}
	return &m.units[id]
}

func (m *Match) pos(u *Unit) Vec3 { return m.motion.Position(u.Body) }

func (m *Match) forward(u *Unit) Vec3 { return YawForward(m.motion.Yaw(u.Body)) }

// StartMatch begins round 1 immediately
func (m *Match) StartMatch() {
	if m.phase != PhaseIdle {
		return
	}
	m.startQueued = false
	m.round = 1
	m.scores = [2]int{}
	m.outcome = OutcomeNone
	m.log.Info().Msg("match started")
	m.beginRound()
}

// QueueStart starts the match after delay seconds of match clock
func (m *Match) QueueStart(delay float64) {
	if m.phase != PhaseIdle {
		return
	}
	m.startQueued = true
	m.startAt = m.now + delay
	m.setStatus("Matching players...")
	m.sched.Schedule(m.startAt, m.epoch, m.StartMatch)
}

// FixedTick advances the authoritative simulation by one FixedStep
func (m *Match) FixedTick() {
	if m.phase == PhaseMatchOver {
		return
	}
	m.now += FixedStep
	m.sched.RunDue(m.now, m.currentEpoch)

	if m.phase == PhasePreRound {
		m.checkCardPhaseDone()
	}

	if m.phase == PhaseActive {
		m.moveUnits()
		m.pollAIAttacks()
		m.followBall()
		m.scanLoosePickup()
		m.checkGoal()
	}

	if m.phase != PhaseIdle && m.phase != PhaseMatchOver {
		m.motion.Step(FixedStep)
	}
}

// Frame advances per-frame timers and refreshes the throw preview
func (m *Match) Frame(dt float64) {
	if dt <= 0 || m.phase == PhaseMatchOver {
		return
	}
	if m.phase != PhaseActive {
		m.preview.Hide()
		return
	}
	m.roundElapsed += dt
	m.control.advanceHold(m, dt)
	m.refreshPreview()
}

func (m *Match) currentEpoch() uint64 { return m.epoch }

func (m *Match) moveUnits() {
	for i := range m.units {
		u := &m.units[i]
		switch u.Control {
		case ControlHuman:
			m.moveHuman(u)
		case ControlAI:
			m.moveAI(u)
		default:
			m.holdPlaceholder(u)
		}
	}
}

// checkGoal scores for a living carrier inside the opposing goal zone
func (m *Match) checkGoal() {
	c := m.unit(m.ball.Carrier())
	if c == nil || !c.IsAlive() {
		return
	}
	z := m.pos(c).Z
	if c.Team == TeamBlue && z >= RedGoalZ-GoalHalfDepth {
		m.scoreGoal(TeamBlue, c)
	} else if c.Team == TeamRed && z <= BlueGoalZ+GoalHalfDepth {
		m.scoreGoal(TeamRed, c)
	}
}

func (m *Match) scoreGoal(team Team, scorer *Unit) {
	if m.phase != PhaseActive {
		return
	}
	m.scores[team]++
	m.phase = PhaseRoundEnding
	m.control.resetCharge()
	m.preview.Hide()
	for i := range m.units {
		m.motion.SetVelocity(m.units[i].Body, Vec3Zero)
	}
	m.log.Info().
		Int("round", m.round).
		Str("team", team.String()).
		Str("scorer", scorer.Name).
		Ints("score", m.scores[:]).
		Msg("goal")
	m.emit(MatchEvent{
		Kind: EventGoal,
		Unit: scorer.Name,
		Team: team.String(),
		Text: fmt.Sprintf("%s scores this round", team),
	})
	m.sched.Schedule(m.now+RoundOverDelay, m.epoch, m.finishRound)
}

// finishRound advances the round counter after the round-over pause
func (m *Match) finishRound() {
	if m.phase != PhaseRoundEnding {
		return
	}
	m.round++
	if m.round > TotalRounds {
		m.endMatch()
		return
	}
	m.beginRound()
}

func (m *Match) endMatch() {
	m.phase = PhaseMatchOver
	m.epoch++
	m.sched.Clear()
	m.control.resetCharge()
	m.preview.Hide()

	var text string
	switch {
	case m.scores[TeamBlue] > m.scores[TeamRed]:
		m.outcome = OutcomeBlue
		text = "Blue wins the match"
	case m.scores[TeamRed] > m.scores[TeamBlue]:
		m.outcome = OutcomeRed
		text = "Red wins the match"
	default:
		m.outcome = OutcomeDraw
		text = "Draw"
	}
	m.log.Info().Ints("score", m.scores[:]).Str("outcome", m.outcome.String()).Msg("match over")
	m.emit(MatchEvent{Kind: EventMatchOver, Team: m.outcome.String(), Text: text + ", start a new match to play again"})
}

// beginRound resets the pitch and enters the card phase or play
func (m *Match) beginRound() {
	m.epoch++
	m.resetRound()
	m.log.Info().Int("round", m.round).Msg("round start")
	if m.round >= 2 {
		m.startCardPhase()
		return
	}
	m.phase = PhaseActive
	m.emit(MatchEvent{Kind: EventRoundStart, Text: "Blue has the ball, push to the Red end zone"})
}

func (m *Match) resetRound() {
	m.roundElapsed = 0
	m.aiAttackTimer = 0
	m.control.resetCharge()
	m.preview.Hide()
	m.cards = nil
	for i := range m.units {
		m.respawn(&m.units[i])
	}
	if owner := m.kickoffOwner(); owner != NoUnit {
		m.AttachToCarrier(owner)
	}
}

func (m *Match) setStatus(s string) {
	m.status = s
}

func (m *Match) emit(ev MatchEvent) {
	ev.Round = m.displayRound()
	m.events = append(m.events, ev)
	if ev.Text != "" {
		m.status = ev.Text
	}
}

// DrainEvents returns and clears events since the last call
func (m *Match) DrainEvents() []MatchEvent {
	evs := m.events
	m.events = nil
	return evs
}

func (m *Match) displayRound() int {
	if m.round > TotalRounds {
		return TotalRounds
	}
	return m.round
}

// Phase returns the current phase
func (m *Match) Phase() MatchPhase { return m.phase }

// Round returns the current round number
func (m *Match) Round() int { return m.round }

// Scores returns the Blue and Red scores
func (m *Match) Scores() [2]int { return m.scores }

// Outcome returns the match result once the phase is MatchOver
func (m *Match) Outcome() Outcome { return m.outcome }

// Now returns the match clock
func (m *Match) Now() float64 { return m.now }

// Human returns the human unit's id
func (m *Match) Human() UnitID { return m.human }

// Unit returns a copy of the unit record
func (m *Match) Unit(id UnitID) (Unit, bool) {
	u := m.unit(id)
	if u == nil {
		return Unit{}, false
	}
	return *u, true
}

// Units returns the number of units in the arena
func (m *Match) Units() int { return len(m.units) }

// Ball returns a copy of the ball record
func (m *Match) Ball() Ball { return m.ball }

// Status returns the latest status line
func (m *Match) Status() string { return m.status }

// RoundElapsed returns seconds of active play in this round
func (m *Match) RoundElapsed() float64 { return m.roundElapsed }
