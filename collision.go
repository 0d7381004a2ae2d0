package main

import "math"

// AABB is an axis-aligned box given by its centre and half extents
type AABB struct {
	Center Vec3
	Half   Vec3
}

// Min returns the lowest corner of the box
func (b AABB) Min() Vec3 { return b.Center.Sub(b.Half) }

// Max returns the highest corner of the box
func (b AABB) Max() Vec3 { return b.Center.Add(b.Half) }

// Contains reports whether p lies inside or on the box
func (b AABB) Contains(p Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// CheckSphereOverlap checks if two spheres overlap
func CheckSphereOverlap(a Vec3, ra float64, b Vec3, rb float64) bool {
	radSum := ra + rb
	return a.SqrDist(b) <= radSum*radSum
}

// slab clips the parametric interval [tmin, tmax] against one axis of a box.
func slab(origin, dir, lo, hi, tmin, tmax float64) (float64, float64, bool) {
	if math.Abs(dir) < 1e-12 {
		if origin < lo || origin > hi {
			return tmin, tmax, false
		}
		return tmin, tmax, true
	}
	t1 := (lo - origin) / dir
	t2 := (hi - origin) / dir
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	tmin = math.Max(tmin, t1)
	tmax = math.Min(tmax, t2)
	return tmin, tmax, tmin <= tmax
}

// segmentAABBIntersect returns the segment parameter t in [0,1] of the first
// contact between segment a-b and the box. A segment starting inside the box
// hits at t=0.
func segmentAABBIntersect(a, b Vec3, box AABB) (float64, bool) {
	d := b.Sub(a)
	lo, hi := box.Min(), box.Max()
	tmin, tmax := 0.0, 1.0
	var ok bool
	if tmin, tmax, ok = slab(a.X, d.X, lo.X, hi.X, tmin, tmax); !ok {
		return 0, false
	}
	if tmin, tmax, ok = slab(a.Y, d.Y, lo.Y, hi.Y, tmin, tmax); !ok {
		return 0, false
	}
	if tmin, _, ok = slab(a.Z, d.Z, lo.Z, hi.Z, tmin, tmax); !ok {
		return 0, false
	}
	return tmin, true
}

// segmentPlaneIntersect returns where segment a-b crosses or touches the
// horizontal plane y=h.
func segmentPlaneIntersect(a, b Vec3, h float64) (float64, bool) {
	if a.Y < h && b.Y < h {
		return 0, false
	}
	if a.Y >= h && b.Y > h {
		return 0, false
	}
	dy := b.Y - a.Y
	if math.Abs(dy) < 1e-12 {
		return 0, true
	}
	t := (h - a.Y) / dy
	return Clamp01(t), true
}
