package main

// BodyID addresses a body owned by a Motion implementation
type BodyID int

// BodyMode selects how the motion integrator treats a body
type BodyMode int

const (
	BodyDynamic      BodyMode = iota // integrated with gravity and drag
	BodyKinematic                    // moved only by SetPosition
	BodyFrozen                       // no integration at all
	BodyPlanarLocked                 // vertical motion only
)

// Motion is the physics boundary the match engine drives. Positions, yaw and
// velocities of every unit and the ball live behind it.
type Motion interface {
	Position(id BodyID) Vec3
	SetPosition(id BodyID, p Vec3)
	Velocity(id BodyID) Vec3
	SetVelocity(id BodyID, v Vec3)
	Yaw(id BodyID) float64
	SetYaw(id BodyID, yaw float64)
	SetMode(id BodyID, mode BodyMode)
	SetCollidable(id BodyID, on bool)

	// Linecast reports the first collider hit along from->to.
	Linecast(from, to Vec3) (Vec3, bool)
	// Raycast reports the first collider hit along dir within maxDist.
	Raycast(origin, dir Vec3, maxDist float64) (Vec3, bool)
	Gravity() Vec3
	Grounded(id BodyID) bool

	Step(dt float64)
}
