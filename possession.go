package main

import (
	"fmt"
	"math"
)

const (
	PickupRadius    = 2.1
	MaxThrowCharge  = 1.8 // seconds of hold for a full-power throw
	ThrowMinSpeed   = 10.0
	ThrowMaxSpeed   = 28.0
	ThrowMinArc     = 1.5
	ThrowMaxArc     = 6.0
	ThrowMinLift    = 0.08 // floor on the aim direction's vertical component
	ThrowForward    = 1.0
	ThrowHeight     = 1.6
	ThrowLock       = 0.55
	PassBaseSpeed   = 12.0
	PassSpeedPerM   = 0.62
	PassMinSpeed    = 14.0
	PassMaxSpeed    = 34.0
	PassBaseArc     = 1.4
	PassArcPerM     = 0.032
	PassMinArc      = 1.8
	PassMaxArc      = 5.6
	PassForward     = 0.9
	PassHeight      = 1.55
	PassLock        = 0.55
	DropForward     = 1.2
	DropHeight      = 1.25
	DropVelocityMul = 0.55
	DropLock        = 0.25
)

// ThrowLaunch is the initial state of a released ball
type ThrowLaunch struct {
	Start    Vec3
	Velocity Vec3
	Speed    float64
	Arc      float64
}

// ChargeFraction maps a hold duration to [0, 1]
func ChargeFraction(hold float64) float64 {
	return Clamp01(hold / MaxThrowCharge)
}

// ThrowSpeed returns launch speed for a charge fraction
func ThrowSpeed(charge float64) float64 {
	return Lerp(ThrowMinSpeed, ThrowMaxSpeed, charge)
}

// ThrowArc returns the upward launch component for a charge fraction
func ThrowArc(charge float64) float64 {
	return Lerp(ThrowMinArc, ThrowMaxArc, charge)
}

// throwLaunch computes where and how a throw leaves the thrower. aim may
// point anywhere; its vertical part is floored at ThrowMinLift.
func throwLaunch(pos, facing, aim Vec3, charge float64) ThrowLaunch {
	charge = Clamp01(charge)
	dir := aim
	dir.Y = math.Max(ThrowMinLift, dir.Y)
	dir = dir.Normalized()
	speed := ThrowSpeed(charge)
	arc := ThrowArc(charge)
	return ThrowLaunch{
		Start:    pos.Add(facing.Scale(ThrowForward)).Add(Vec3Up.Scale(ThrowHeight)),
		Velocity: dir.Scale(speed).Add(Vec3Up.Scale(arc)),
		Speed:    speed,
		Arc:      arc,
	}
}

// passLaunch computes a pass from pos toward target
func passLaunch(pos, facing, target Vec3) ThrowLaunch {
	to := target.Sub(pos)
	d := to.Flat().Len()
	speed := Clamp(PassBaseSpeed+d*PassSpeedPerM, PassMinSpeed, PassMaxSpeed)
	arc := Clamp(PassBaseArc+d*PassArcPerM, PassMinArc, PassMaxArc)
	return ThrowLaunch{
		Start:    pos.Add(facing.Scale(PassForward)).Add(Vec3Up.Scale(PassHeight)),
		Velocity: to.Normalized().Scale(speed).Add(Vec3Up.Scale(arc)),
		Speed:    speed,
		Arc:      arc,
	}
}

// AttachToCarrier gives the ball to u. Valid from any state.
func (m *Match) AttachToCarrier(id UnitID) {
	u := m.unit(id)
	if u == nil {
		return
	}
	m.ball.Possession = Carried{By: id}
	m.motion.SetVelocity(m.ball.Body, Vec3Zero)
	m.motion.SetMode(m.ball.Body, BodyKinematic)
	m.motion.SetCollidable(m.ball.Body, false)
	m.followBall()
}

// release turns the ball loose with the given launch and pickup lock
func (m *Match) release(l ThrowLaunch, lock float64) {
	m.ball.Possession = Loose{}
	m.ball.PickupLockedUntil = m.now + lock
	m.motion.SetMode(m.ball.Body, BodyDynamic)
	m.motion.SetCollidable(m.ball.Body, true)
	m.motion.SetPosition(m.ball.Body, l.Start)
	m.motion.SetVelocity(m.ball.Body, l.Velocity)
}

// Throw launches the ball from its carrier. charge is clamped to [0, 1].
// aim is the direction the thrower is looking.
func (m *Match) Throw(id UnitID, charge float64, aim Vec3) bool {
	u := m.unit(id)
	if u == nil || !u.IsAlive() || m.ball.Carrier() != id {
		return false
	}
	l := throwLaunch(m.pos(u), m.forward(u), aim, charge)
	m.release(l, ThrowLock)
	m.log.Debug().Str("unit", u.Name).Float64("charge", Clamp01(charge)).Float64("speed", l.Speed).Msg("throw")
	m.emit(MatchEvent{Kind: EventThrow, Unit: u.Name, Team: u.Team.String(), Text: "Thrown"})
	return true
}

// Pass sends the ball from an AI carrier to a teammate
func (m *Match) Pass(from, to UnitID) bool {
	u, t := m.unit(from), m.unit(to)
	if u == nil || t == nil || !u.IsAI() || !u.IsAlive() || !t.IsAlive() {
		return false
	}
	if u.Team != t.Team || from == to || m.ball.Carrier() != from {
		return false
	}
	l := passLaunch(m.pos(u), m.forward(u), m.pos(t))
	m.release(l, PassLock)
	m.emit(MatchEvent{
		Kind: EventPass,
		Unit: u.Name,
		Team: u.Team.String(),
		Text: fmt.Sprintf("%s passes to %s", u.Name, t.Name),
	})
	return true
}

// Drop loosens the ball from a carrier, using the velocity the carrier had
// before it was stopped
func (m *Match) Drop(id UnitID, priorVel Vec3) bool {
	u := m.unit(id)
	if u == nil || m.ball.Carrier() != id {
		return false
	}
	m.release(ThrowLaunch{
		Start:    m.pos(u).Add(m.forward(u).Scale(DropForward)).Add(Vec3Up.Scale(DropHeight)),
		Velocity: priorVel.Scale(DropVelocityMul),
	}, DropLock)
	return true
}

// TryImmediatePass has an AI carrier pass to the nearest living non-AI
// teammate, if there is one
func (m *Match) TryImmediatePass(id UnitID) bool {
	u := m.unit(id)
	if u == nil || !u.IsAI() || m.ball.Carrier() != id {
		return false
	}
	mate := m.nearestNonAITeammate(u)
	if mate == nil {
		return false
	}
	return m.Pass(id, mate.ID)
}

func (m *Match) nearestNonAITeammate(from *Unit) *Unit {
	var best *Unit
	bestSq := math.MaxFloat64
	origin := m.pos(from)
	for i := range m.units {
		c := &m.units[i]
		if c.ID == from.ID || !c.IsAlive() || c.Team != from.Team || c.IsAI() {
			continue
		}
		d := m.pos(c).SqrDist(origin)
		if d < bestSq {
			bestSq = d
			best = c
		}
	}
	return best
}

// followBall keeps a carried ball above its carrier
func (m *Match) followBall() {
	c := m.unit(m.ball.Carrier())
	if c == nil {
		return
	}
	m.motion.SetPosition(m.ball.Body, m.pos(c).Add(Vec3Up.Scale(BallFollowHeight)))
}

// scanLoosePickup attaches a loose ball to the first living unit in arena
// order within reach. Order, not distance, decides ties.
func (m *Match) scanLoosePickup() {
	if !m.ball.IsLoose() || m.phase != PhaseActive {
		return
	}
	if m.now < m.ball.PickupLockedUntil {
		return
	}
	ballPos := m.motion.Position(m.ball.Body)
	for i := range m.units {
		u := &m.units[i]
		if !u.IsAlive() {
			continue
		}
		if m.pos(u).Dist(ballPos) > PickupRadius {
			continue
		}
		m.AttachToCarrier(u.ID)
		m.emit(MatchEvent{
			Kind: EventPickup,
			Unit: u.Name,
			Team: u.Team.String(),
			Text: fmt.Sprintf("%s picked up the ball", u.Name),
		})
		if u.IsAI() {
			m.TryImmediatePass(u.ID)
		}
		return
	}
}
