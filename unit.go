package main

const (
	TeamSize        = 5
	UnitMaxHealth   = 10.0
	UnitHalfWidth   = 0.625 // collider half extent on X and Z
	UnitHalfHeight  = 1.0
	UnitRestHeight  = 1.0
	UnitDrag        = 1.5
	DeadAlpha       = 0.28 // display opacity while knocked out
	RespawnMinDelay = 3.0   // seconds, at round start
	RespawnMaxDelay = 10.0  // seconds, once the round is this old
	RespawnRampTime = 480.0 // seconds of round time to reach the max delay
)

// Team identifies a squad
type Team int

const (
	TeamBlue Team = iota
	TeamRed
)

func (t Team) String() string {
	if t == TeamBlue {
		return "Blue"
	}
	return "Red"
}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// ControlKind says who drives a unit
type ControlKind int

const (
	ControlHuman ControlKind = iota
	ControlAI
	ControlPlaceholder
)

func (c ControlKind) String() string {
	switch c {
	case ControlHuman:
		return "human"
	case ControlAI:
		return "ai"
	default:
		return "placeholder"
	}
}

// UnitID is a stable index into the match's unit arena
type UnitID int

// NoUnit marks the absence of a unit
const NoUnit UnitID = -1

// Vitality is either Alive or Dead
type Vitality interface{ isVitality() }

// Alive is the vitality of a unit that can act
type Alive struct{}

// Dead is the vitality of a knocked-out unit waiting to respawn
type Dead struct {
	RespawnAt float64 // match clock
}

func (Alive) isVitality() {}
func (Dead) isVitality()  {}

// Unit is one member of a squad. Spatial state lives in the Motion adapter
// under Body.
type Unit struct {
	ID           UnitID
	Name         string
	Team         Team
	Control      ControlKind
	RestrictHalf bool
	Body         BodyID
	SpawnPos     Vec3
	SpawnYaw     float64
	MaxHealth    float64
	Health       float64
	Vitality     Vitality
	NextAttackAt float64 // match clock
}

// UnitSpec is a roster entry
type UnitSpec struct {
	Name         string
	Team         Team
	Control      ControlKind
	Pos          Vec3
	RestrictHalf bool
}

// DefaultRoster is the fixed 5v5 line-up
var DefaultRoster = []UnitSpec{
	{Name: "BluePlayer", Team: TeamBlue, Control: ControlHuman, Pos: Vec3{-10, 1, -95}},
	{Name: "BlueRemote_1", Team: TeamBlue, Control: ControlPlaceholder, Pos: Vec3{10, 1, -95}},
	{Name: "BlueAI_1", Team: TeamBlue, Control: ControlAI, Pos: Vec3{-28, 1, -66}, RestrictHalf: true},
	{Name: "BlueAI_2", Team: TeamBlue, Control: ControlAI, Pos: Vec3{28, 1, -66}, RestrictHalf: true},
	{Name: "BlueAI_3", Team: TeamBlue, Control: ControlAI, Pos: Vec3{0, 1, -44}},
	{Name: "RedRemote_1", Team: TeamRed, Control: ControlPlaceholder, Pos: Vec3{-10, 1, 95}},
	{Name: "RedRemote_2", Team: TeamRed, Control: ControlPlaceholder, Pos: Vec3{10, 1, 95}},
	{Name: "RedAI_1", Team: TeamRed, Control: ControlAI, Pos: Vec3{-28, 1, 66}, RestrictHalf: true},
	{Name: "RedAI_2", Team: TeamRed, Control: ControlAI, Pos: Vec3{28, 1, 66}, RestrictHalf: true},
	{Name: "RedAI_3", Team: TeamRed, Control: ControlAI, Pos: Vec3{0, 1, 44}},
}

// NewUnit creates a living unit from a roster entry
func NewUnit(id UnitID, spec UnitSpec, body BodyID) Unit {
	return Unit{
		ID:           id,
		Name:         spec.Name,
		Team:         spec.Team,
		Control:      spec.Control,
		RestrictHalf: spec.RestrictHalf && spec.Control == ControlAI,
		Body:         body,
		SpawnPos:     spec.Pos,
		MaxHealth:    UnitMaxHealth,
		Health:       UnitMaxHealth,
		Vitality:     Alive{},
	}
}

// IsAlive reports whether the unit can act
func (u *Unit) IsAlive() bool {
	_, ok := u.Vitality.(Alive)
	return ok
}

// IsAI reports whether the unit is AI controlled
func (u *Unit) IsAI() bool { return u.Control == ControlAI }

// TakeDamage lowers health, flooring at 0. Returns true if the unit died.
func (u *Unit) TakeDamage(amount float64) bool {
	if !u.IsAlive() || amount <= 0 {
		return false
	}
	u.Health -= amount
	if u.Health > 0 {
		return false
	}
	u.Health = 0
	return true
}

// Revive restores full health and Alive
func (u *Unit) Revive() {
	u.Health = u.MaxHealth
	u.Vitality = Alive{}
}

// RoleMode is the body mode this unit's control kind calls for
func (u *Unit) RoleMode() BodyMode {
	if u.Control == ControlPlaceholder {
		return BodyPlanarLocked
	}
	return BodyDynamic
}

// RespawnDelay grows linearly with round time from the min to the max delay
func RespawnDelay(roundElapsed float64) float64 {
	return Lerp(RespawnMinDelay, RespawnMaxDelay, Clamp01(roundElapsed/RespawnRampTime))
}

// unitBodySpec returns the collider description for a roster entry
func unitBodySpec(spec UnitSpec) BodySpec {
	mode := BodyDynamic
	if spec.Control == ControlPlaceholder {
		mode = BodyPlanarLocked
	}
	return BodySpec{
		Pos:        spec.Pos,
		Half:       Vec3{UnitHalfWidth, UnitHalfHeight, UnitHalfWidth},
		RestHeight: UnitRestHeight,
		Drag:       UnitDrag,
		Mode:       mode,
		Collidable: true,
	}
}
