package main

import (
	"fmt"
	"math"
)

const (
	AttackCooldown  = 1.0  // seconds between attempts, hit or miss
	AttackRange     = 3.2  // metres
	AttackHalfAngle = 42.0 // degrees either side of facing
	AttackDamage    = 1.0
)

// TryAttack swings at the nearest enemy in front of the attacker. The
// cooldown restarts on every valid attempt. Returns true on a hit.
func (m *Match) TryAttack(id UnitID) bool {
	u := m.unit(id)
	if u == nil || !u.IsAlive() || m.now < u.NextAttackAt {
		return false
	}
	u.NextAttackAt = m.now + AttackCooldown
	target := m.findAttackTarget(u)
	if target == nil {
		return false
	}
	m.ApplyDamage(target.ID, AttackDamage)
	return true
}

// findAttackTarget returns the nearest living enemy inside range and cone
func (m *Match) findAttackTarget(attacker *Unit) *Unit {
	var best *Unit
	bestDist := math.MaxFloat64
	origin := m.pos(attacker)
	fwd := m.forward(attacker)
	for i := range m.units {
		c := &m.units[i]
		if c.Team == attacker.Team || !c.IsAlive() {
			continue
		}
		to := m.pos(c).Sub(origin).Flat()
		dist := to.Len()
		if dist > AttackRange || dist <= 1e-4 {
			continue
		}
		if AngleBetween(fwd, to) > AttackHalfAngle {
			continue
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

// ApplyDamage lowers a living unit's health and knocks it out at zero
func (m *Match) ApplyDamage(id UnitID, amount float64) {
	u := m.unit(id)
	if u == nil {
		return
	}
	if died := u.TakeDamage(amount); died {
		m.knockOut(u)
	}
}

// knockOut moves a unit to Dead, drops the ball if it had it and schedules
// its respawn
func (m *Match) knockOut(u *Unit) {
	delay := RespawnDelay(m.roundElapsed)
	respawnAt := m.now + delay
	u.Health = 0
	u.Vitality = Dead{RespawnAt: respawnAt}

	prior := m.motion.Velocity(u.Body)
	m.motion.SetVelocity(u.Body, Vec3Zero)
	m.motion.SetMode(u.Body, BodyFrozen)
	m.motion.SetCollidable(u.Body, false)

	text := fmt.Sprintf("%s was knocked out", u.Name)
	if m.Drop(u.ID, prior) {
		text = fmt.Sprintf("%s was knocked out and dropped the ball", u.Name)
		if u.Control == ControlHuman {
			m.control.resetCharge()
		}
	}
	m.log.Debug().Str("unit", u.Name).Float64("respawn_in", delay).Msg("knocked out")
	m.emit(MatchEvent{Kind: EventKnockout, Unit: u.Name, Team: u.Team.String(), Text: text})

	id := u.ID
	m.sched.Schedule(respawnAt, m.epoch, func() {
		m.respawnIfDead(id)
	})
}

func (m *Match) respawnIfDead(id UnitID) {
	u := m.unit(id)
	if u == nil || u.IsAlive() {
		return
	}
	m.respawn(u)
	m.emit(MatchEvent{Kind: EventRespawn, Unit: u.Name, Team: u.Team.String()})
}

// respawn restores the spawn transform, full health and the unit's role
// constraints in one step
func (m *Match) respawn(u *Unit) {
	m.motion.SetMode(u.Body, u.RoleMode())
	m.motion.SetPosition(u.Body, u.SpawnPos)
	m.motion.SetYaw(u.Body, u.SpawnYaw)
	m.motion.SetVelocity(u.Body, Vec3Zero)
	m.motion.SetCollidable(u.Body, true)
	u.Revive()
	u.NextAttackAt = 0
}

// pollAIAttacks lets every living AI swing on a fixed interval
func (m *Match) pollAIAttacks() {
	m.aiAttackTimer += FixedStep
	if m.aiAttackTimer < AIAttackPoll {
		return
	}
	m.aiAttackTimer = 0
	for i := range m.units {
		u := &m.units[i]
		if u.IsAI() && u.IsAlive() {
			m.TryAttack(u.ID)
		}
	}
}
