package main

const (
	BallFollowHeight = 1.65 // carried ball sits this far above the carrier's centre
	BallHalfX        = 0.26
	BallHalfYZ       = 0.19
	BallDrag         = 0.2
	BallFriction     = 0.65
	BallBounce       = 0.08
)

// Possession is either Carried or Loose
type Possession interface{ isPossession() }

// Carried means the ball is attached to a unit
type Carried struct {
	By UnitID
}

// Loose means the ball is free, in flight or on the ground
type Loose struct{}

func (Carried) isPossession() {}
func (Loose) isPossession()   {}

// Ball is the single match ball
type Ball struct {
	Body              BodyID
	Possession        Possession
	PickupLockedUntil float64 // match clock
}

// Carrier returns the carrying unit, or NoUnit when the ball is loose
func (b Ball) Carrier() UnitID {
	if c, ok := b.Possession.(Carried); ok {
		return c.By
	}
	return NoUnit
}

// IsLoose reports whether nobody carries the ball
func (b Ball) IsLoose() bool {
	_, ok := b.Possession.(Loose)
	return ok
}

func ballBodySpec(pos Vec3) BodySpec {
	return BodySpec{
		Pos:        pos,
		Half:       Vec3{BallHalfX, BallHalfYZ, BallHalfYZ},
		RestHeight: BallHalfYZ,
		Drag:       BallDrag,
		Friction:   BallFriction,
		Bounce:     BallBounce,
		Mode:       BodyKinematic,
	}
}
