package main

import "math"

const (
	AILooseBallSpeed = 8.2 // chasing a loose ball
	AICarrySpeed     = 7.9 // running the ball to goal
	AISupportSpeed   = 6.9 // marking an enemy while a teammate carries
	AIChaseSpeed     = 7.6 // chasing the enemy carrier
	AITurnFactor     = 0.25
	AIArriveSqr      = 0.01  // squared distance treated as arrived
	AIFacingMinSqr   = 0.001 // squared direction length needed to turn
)

// aiGoal returns where an AI unit wants to go and how fast
func (m *Match) aiGoal(u *Unit) (Vec3, float64, bool) {
	if m.ball.IsLoose() {
		return m.motion.Position(m.ball.Body), AILooseBallSpeed, true
	}
	carrier := m.unit(m.ball.Carrier())
	if carrier == nil {
		return Vec3Zero, 0, false
	}
	if carrier.ID == u.ID {
		return Vec3{X: 0, Y: m.pos(u).Y, Z: attackGoalZ(u.Team)}, AICarrySpeed, true
	}
	if carrier.Team == u.Team {
		if enemy := m.nearestLivingEnemy(u); enemy != nil {
			return m.pos(enemy), AISupportSpeed, true
		}
		return m.pos(carrier), AISupportSpeed, true
	}
	return m.pos(carrier), AIChaseSpeed, true
}

// attackGoalZ is the goal line a team scores on
func attackGoalZ(t Team) float64 {
	if t == TeamBlue {
		return RedGoalZ
	}
	return BlueGoalZ
}

// moveAI steers one AI unit toward its current goal
func (m *Match) moveAI(u *Unit) {
	if !u.IsAlive() {
		return
	}
	target, speed, ok := m.aiGoal(u)
	if !ok {
		return
	}

	pos := m.pos(u)
	to := target.Sub(pos).Flat()
	dir := Vec3Zero
	if to.SqrLen() > AIArriveSqr {
		dir = to.Normalized()
	}

	vel := m.motion.Velocity(u.Body)
	horizontal := dir.Scale(speed)
	m.motion.SetVelocity(u.Body, Vec3{X: horizontal.X, Y: vel.Y, Z: horizontal.Z})

	if dir.SqrLen() > AIFacingMinSqr {
		m.turnToward(u, dir, AITurnFactor)
	}

	if u.RestrictHalf {
		m.clampToOwnHalf(u)
	}
	m.clampIntoField(u)
}

// holdPlaceholder keeps a remote stand-in still on the horizontal plane
func (m *Match) holdPlaceholder(u *Unit) {
	if !u.IsAlive() {
		return
	}
	vel := m.motion.Velocity(u.Body)
	m.motion.SetVelocity(u.Body, Vec3{Y: vel.Y})
}

// nearestLivingEnemy scans all units for the closest opponent
func (m *Match) nearestLivingEnemy(u *Unit) *Unit {
	var best *Unit
	bestSq := math.MaxFloat64
	origin := m.pos(u)
	for i := range m.units {
		c := &m.units[i]
		if c.Team == u.Team || !c.IsAlive() {
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

// turnToward slerps the unit's yaw toward dir
func (m *Match) turnToward(u *Unit, dir Vec3, t float64) {
	yaw := m.motion.Yaw(u.Body)
	m.motion.SetYaw(u.Body, LerpAngle(yaw, YawOf(dir), t))
}

// clampToOwnHalf corrects position after movement. Velocity is untouched.
func (m *Match) clampToOwnHalf(u *Unit) {
	p := m.pos(u)
	if u.Team == TeamBlue {
		p.Z = math.Min(p.Z, -HalfLineGap)
	} else {
		p.Z = math.Max(p.Z, HalfLineGap)
	}
	m.motion.SetPosition(u.Body, p)
}

// clampIntoField keeps a unit inside the pitch rectangle
func (m *Match) clampIntoField(u *Unit) {
	p := m.pos(u)
	p.X = Clamp(p.X, -FieldHalfX, FieldHalfX)
	p.Z = Clamp(p.Z, -FieldHalfZ, FieldHalfZ)
	m.motion.SetPosition(u.Body, p)
}
