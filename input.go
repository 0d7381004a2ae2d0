package main

import "math"

const (
	HumanSpeed       = 9.0
	HumanTurnFactor  = 0.35
	HumanTurnMinSqr  = 0.05 // squared intent length needed to turn
	JumpVelocity     = 7.5
	DefaultViewPitch = 22 * math.Pi / 180 // camera looks down this far by default

	// Reference screen the controller reports release positions in,
	// origin bottom-left.
	ScreenRefWidth  = 1080.0
	ScreenRefHeight = 1920.0
)

// ScreenRect is an axis-aligned rectangle in reference screen space
type ScreenRect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside the rectangle
func (r ScreenRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// CancelZone is the drop target that aborts a charged throw
var CancelZone = ScreenRect{X: ScreenRefWidth - 188 - 36, Y: 254 - 36, W: 72, H: 72}

// HumanInput is one sample from the controller
type HumanInput struct {
	MoveX     float64 `json:"x"`
	MoveY     float64 `json:"y"`
	Jump      bool    `json:"j,omitempty"`
	ViewYaw   float64 `json:"yaw,omitempty"`   // radians, camera heading
	ViewPitch float64 `json:"pitch,omitempty"` // radians, positive looks down
	HasView   bool    `json:"view,omitempty"`
}

// HumanControl holds the translated state of the human's inputs
type HumanControl struct {
	moveX, moveY float64
	jumpQueued   bool
	viewYaw      float64
	viewPitch    float64
	hasView      bool
	charging     bool
	hold         float64
}

// SetHumanInput stores the latest movement intent. The intent vector is
// clamped to unit length.
func (m *Match) SetHumanInput(in HumanInput) {
	c := &m.control
	x := Clamp(in.MoveX, -1, 1)
	y := Clamp(in.MoveY, -1, 1)
	if l := math.Hypot(x, y); l > 1 {
		x, y = x/l, y/l
	}
	c.moveX, c.moveY = x, y
	if in.Jump {
		c.jumpQueued = true
	}
	if in.HasView {
		c.hasView = true
		c.viewYaw = in.ViewYaw
		c.viewPitch = Clamp(in.ViewPitch, -math.Pi/2, math.Pi/2)
	}
}

// PressAction starts charging a throw when the human carries the ball
func (m *Match) PressAction() {
	h := m.unit(m.human)
	if m.phase != PhaseActive || h == nil || !h.IsAlive() {
		return
	}
	if m.ball.Carrier() == m.human {
		m.control.charging = true
		m.control.hold = 0
		m.refreshPreview()
	}
}

// ReleaseAction throws a charged ball unless released over the cancel zone,
// or attacks when the human does not carry the ball. sx, sy are in reference
// screen space.
func (m *Match) ReleaseAction(sx, sy float64) {
	h := m.unit(m.human)
	if h == nil || !h.IsAlive() {
		return
	}
	c := &m.control
	if c.charging {
		if m.ball.Carrier() == m.human {
			if CancelZone.Contains(sx, sy) {
				m.setStatus("Throw cancelled")
			} else {
				m.Throw(m.human, ChargeFraction(c.hold), c.aim(m, h))
			}
		}
		c.resetCharge()
		m.preview.Hide()
		return
	}
	if m.phase == PhaseActive && m.ball.Carrier() != m.human {
		m.TryAttack(m.human)
	}
}

// ActionLabel is the caption for the human's action button
func (m *Match) ActionLabel() string {
	if m.human != NoUnit && m.ball.Carrier() == m.human {
		return "THROW"
	}
	return "ATTACK"
}

// Charging reports whether a throw is being charged, and for how long
func (m *Match) Charging() (bool, float64) {
	return m.control.charging, m.control.hold
}

func (c *HumanControl) resetCharge() {
	c.charging = false
	c.hold = 0
}

func (c *HumanControl) advanceHold(m *Match, dt float64) {
	if c.charging && m.ball.Carrier() == m.human {
		c.hold += dt
	}
}

// aim is the camera forward. Without a reported view the camera is assumed
// to sit behind the unit at the default pitch.
func (c *HumanControl) aim(m *Match, h *Unit) Vec3 {
	yaw, pitch := m.motion.Yaw(h.Body), DefaultViewPitch
	if c.hasView {
		yaw, pitch = c.viewYaw, c.viewPitch
	}
	cp := math.Cos(pitch)
	return Vec3{
		X: math.Sin(yaw) * cp,
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * cp,
	}
}

// moveHuman applies the camera-relative intent to the human unit
func (m *Match) moveHuman(u *Unit) {
	if !u.IsAlive() {
		return
	}
	c := &m.control
	fwd, right := Vec3{Z: 1}, Vec3{X: 1}
	if c.hasView {
		fwd, right = YawForward(c.viewYaw), YawRight(c.viewYaw)
	}
	desired := right.Scale(c.moveX).Add(fwd.Scale(c.moveY))

	vel := m.motion.Velocity(u.Body)
	horizontal := desired.Normalized().Scale(HumanSpeed * Clamp01(desired.Len()))
	vel = Vec3{X: horizontal.X, Y: vel.Y, Z: horizontal.Z}
	m.motion.SetVelocity(u.Body, vel)

	if desired.SqrLen() > HumanTurnMinSqr {
		m.turnToward(u, desired, HumanTurnFactor)
	}

	if c.jumpQueued && m.motion.Grounded(u.Body) {
		vel.Y = JumpVelocity
		m.motion.SetVelocity(u.Body, vel)
		c.jumpQueued = false
	}

	m.clampIntoField(u)
}
