package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
)

// Vec3 is a world-space vector. Y is up; Blue attacks toward +Z.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

var (
	Vec3Zero = Vec3{}
	Vec3Up   = Vec3{Y: 1}
)

func (a Vec3) Add(b Vec3) Vec3        { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3        { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3   { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64     { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) SqrLen() float64        { return a.Dot(a) }
func (a Vec3) Len() float64           { return math.Sqrt(a.SqrLen()) }
func (a Vec3) Flat() Vec3             { return Vec3{a.X, 0, a.Z} }
func (a Vec3) WithY(y float64) Vec3   { return Vec3{a.X, y, a.Z} }
func (a Vec3) Dist(b Vec3) float64    { return a.Sub(b).Len() }
func (a Vec3) SqrDist(b Vec3) float64 { return a.Sub(b).SqrLen() }

// Normalized returns the unit vector, or zero for very short vectors
func (a Vec3) Normalized() Vec3 {
	l := a.Len()
	if l < 1e-5 {
		return Vec3Zero
	}
	return a.Scale(1 / l)
}

func (a Vec3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", a.X, a.Y, a.Z)
}

// YawForward returns the horizontal forward vector for a yaw in radians
func YawForward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// YawRight returns the horizontal right vector for a yaw in radians
func YawRight(yaw float64) Vec3 {
	return Vec3{X: math.Cos(yaw), Z: -math.Sin(yaw)}
}

// YawOf returns the yaw that faces along dir's horizontal component
func YawOf(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// AngleBetween returns the unsigned angle between a and b in degrees
func AngleBetween(a, b Vec3) float64 {
	den := a.Len() * b.Len()
	if den < 1e-15 {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/den, -1, 1)) * 180 / math.Pi
}

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 restricts v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b with t clamped to [0, 1]
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates between two angles taking the short path
func LerpAngle(from, to, t float64) float64 {
	diff := NormalizeAngle(to - from)
	return NormalizeAngle(from + diff*t)
}

// FormatClock renders seconds as mm:ss
func FormatClock(seconds float64) string {
	total := int(math.Max(0, math.Floor(seconds)))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
