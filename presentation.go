package main

import (
	"fmt"
	"math"
)

// ToState converts a unit to its presentation record
func (u *Unit) ToState(pos Vec3, yaw float64, barVisible bool) UnitState {
	alpha := 1.0
	if !u.IsAlive() {
		alpha = DeadAlpha
	}
	fill := 0.0
	if u.MaxHealth > 0 {
		fill = Clamp01(u.Health / u.MaxHealth)
	}
	return UnitState{
		Name:    u.Name,
		Team:    int(u.Team),
		Control: u.Control.String(),
		Pos:     round2v(pos),
		Yaw:     round2(yaw),
		Health:  u.Health,
		Fill:    round2(fill),
		Bar:     barVisible && u.IsAlive(),
		Alive:   u.IsAlive(),
		Alpha:   alpha,
	}
}

// Snapshot derives everything a display needs to draw the match
func (m *Match) Snapshot() GameState {
	bars := m.phase == PhaseActive || m.phase == PhaseRoundEnding
	gs := GameState{
		Phase:       m.phase.String(),
		Round:       m.displayRound(),
		TotalRounds: TotalRounds,
		Scores:      m.scores,
		Status:      m.status,
		Clock:       FormatClock(m.roundElapsed),
		Action:      m.ActionLabel(),
		Winner:      m.outcome.String(),
		Units:       make([]UnitState, 0, len(m.units)),
	}
	for i := range m.units {
		u := &m.units[i]
		gs.Units = append(gs.Units, u.ToState(m.pos(u), m.motion.Yaw(u.Body), bars))
	}
	if h := m.unit(m.human); h != nil {
		gs.HumanHealth = h.Health
		gs.HumanMax = h.MaxHealth
	}
	gs.Ball = BallState{
		Pos:     round2v(m.motion.Position(m.ball.Body)),
		Carrier: int(m.ball.Carrier()),
	}
	if m.preview.Visible {
		pts := make([]Vec3, len(m.preview.Points))
		for i, p := range m.preview.Points {
			pts[i] = round2v(p)
		}
		gs.Preview = PreviewState{Visible: true, Points: pts, Marker: round2v(m.preview.Marker)}
	}
	if cp, ok := m.CardPhase(); ok {
		gs.Cards = CardState{
			Active:    true,
			Countdown: fmt.Sprintf("%.1fs left, %d/%d chosen", cp.Remaining(m.now), cp.SelectionsDone, cp.Total),
			Options:   [2]string{cp.Options[0].Name, cp.Options[1].Name},
			Done:      cp.SelectionsDone,
			Total:     cp.Total,
			Chosen:    cp.HumanChosen,
		}
	}
	return gs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2v(v Vec3) Vec3 {
	return Vec3{round2(v.X), round2(v.Y), round2(v.Z)}
}
