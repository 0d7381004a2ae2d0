package main

import "math"

const (
	GravityY        = -9.81
	GroundedHeight  = 1.08 // unit centre height that still counts as standing
	GroundHalfX     = 70.0 // ground plane extent
	GroundHalfZ     = 140.0
	bounceThreshold = 1.0 // m/s of impact below which bodies stop instead of bouncing
)

// BodySpec describes a body added to the physics world
type BodySpec struct {
	Pos        Vec3
	Yaw        float64
	Half       Vec3    // collider half extents
	RestHeight float64 // centre height when resting on the ground
	Drag       float64
	Friction   float64 // horizontal slowdown per second while grounded
	Bounce     float64
	Mode       BodyMode
	Collidable bool
}

type body struct {
	BodySpec
	vel Vec3
}

// PhysicsWorld is a small kinematic integrator over a flat pitch with static
// box colliders. It implements Motion.
type PhysicsWorld struct {
	gravity Vec3
	bodies  []body
	statics []AABB
}

// NewPhysicsWorld creates an empty world with standard gravity
func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{gravity: Vec3{Y: GravityY}}
}

// AddBody registers a body and returns its handle
func (w *PhysicsWorld) AddBody(spec BodySpec) BodyID {
	w.bodies = append(w.bodies, body{BodySpec: spec})
	return BodyID(len(w.bodies) - 1)
}

// AddStatic registers an immovable box collider
func (w *PhysicsWorld) AddStatic(box AABB) {
	w.statics = append(w.statics, box)
}

func (w *PhysicsWorld) get(id BodyID) *body {
	if id < 0 || int(id) >= len(w.bodies) {
		return nil
	}
	return &w.bodies[id]
}

func (w *PhysicsWorld) Position(id BodyID) Vec3 {
	if b := w.get(id); b != nil {
		return b.Pos
	}
	return Vec3Zero
}

func (w *PhysicsWorld) SetPosition(id BodyID, p Vec3) {
	if b := w.get(id); b != nil {
		b.Pos = p
	}
}

func (w *PhysicsWorld) Velocity(id BodyID) Vec3 {
	if b := w.get(id); b != nil {
		return b.vel
	}
	return Vec3Zero
}

func (w *PhysicsWorld) SetVelocity(id BodyID, v Vec3) {
	if b := w.get(id); b != nil {
		if b.Mode == BodyPlanarLocked {
			v.X, v.Z = 0, 0
		}
		b.vel = v
	}
}

func (w *PhysicsWorld) Yaw(id BodyID) float64 {
	if b := w.get(id); b != nil {
		return b.Yaw
	}
	return 0
}

func (w *PhysicsWorld) SetYaw(id BodyID, yaw float64) {
	if b := w.get(id); b != nil {
		b.Yaw = NormalizeAngle(yaw)
	}
}

func (w *PhysicsWorld) SetMode(id BodyID, mode BodyMode) {
	if b := w.get(id); b != nil {
		b.Mode = mode
	}
}

func (w *PhysicsWorld) SetCollidable(id BodyID, on bool) {
	if b := w.get(id); b != nil {
		b.Collidable = on
	}
}

func (w *PhysicsWorld) Gravity() Vec3 { return w.gravity }

// Grounded reports whether the body's centre is at or below standing height
func (w *PhysicsWorld) Grounded(id BodyID) bool {
	return w.Position(id).Y <= GroundedHeight
}

// Step integrates every dynamic body by dt seconds
func (w *PhysicsWorld) Step(dt float64) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.Mode == BodyFrozen || b.Mode == BodyKinematic {
			continue
		}

		b.vel = b.vel.Add(w.gravity.Scale(dt))
		if b.Mode == BodyPlanarLocked {
			b.vel.X, b.vel.Z = 0, 0
		}
		if b.Drag > 0 {
			b.vel = b.vel.Scale(Clamp01(1 - b.Drag*dt))
		}
		b.Pos = b.Pos.Add(b.vel.Scale(dt))

		if b.Pos.Y <= b.RestHeight {
			b.Pos.Y = b.RestHeight
			if b.vel.Y < 0 {
				if b.Bounce > 0 && -b.vel.Y > bounceThreshold {
					b.vel.Y = -b.vel.Y * b.Bounce
				} else {
					b.vel.Y = 0
				}
			}
			if b.Friction > 0 {
				k := Clamp01(1 - b.Friction*dt)
				b.vel.X *= k
				b.vel.Z *= k
			}
		}
	}
}

// Linecast reports the first hit along from->to against the ground, static
// boxes and collidable bodies
func (w *PhysicsWorld) Linecast(from, to Vec3) (Vec3, bool) {
	best := math.Inf(1)

	if t, ok := segmentPlaneIntersect(from, to, 0); ok {
		p := lerpVec(from, to, t)
		if math.Abs(p.X) <= GroundHalfX && math.Abs(p.Z) <= GroundHalfZ {
			best = t
		}
	}
	for _, box := range w.statics {
		if t, ok := segmentAABBIntersect(from, to, box); ok && t < best {
			best = t
		}
	}
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Collidable {
			continue
		}
		box := AABB{Center: b.Pos, Half: b.Half}
		if t, ok := segmentAABBIntersect(from, to, box); ok && t < best {
			best = t
		}
	}

	if math.IsInf(best, 1) {
		return Vec3Zero, false
	}
	return lerpVec(from, to, best), true
}

// Raycast casts along dir for maxDist
func (w *PhysicsWorld) Raycast(origin, dir Vec3, maxDist float64) (Vec3, bool) {
	d := dir.Normalized()
	if d == Vec3Zero || maxDist <= 0 {
		return Vec3Zero, false
	}
	return w.Linecast(origin, origin.Add(d.Scale(maxDist)))
}

func lerpVec(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}
