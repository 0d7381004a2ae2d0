package main

import (
	"math"
	"testing"
)

func TestCheckSphereOverlap(t *testing.T) {
	if !CheckSphereOverlap(Vec3{}, 1, Vec3{X: 1.5}, 1) {
		t.Error("spheres should overlap")
	}
	if !CheckSphereOverlap(Vec3{}, 1, Vec3{X: 2}, 1) {
		t.Error("touching spheres should overlap")
	}
	if CheckSphereOverlap(Vec3{}, 1, Vec3{X: 2.5}, 1) {
		t.Error("spheres should not overlap")
	}
}

func TestSegmentAABBIntersect(t *testing.T) {
	box := AABB{Center: Vec3{X: 5}, Half: Vec3{X: 1, Y: 1, Z: 1}}

	tHit, ok := segmentAABBIntersect(Vec3{}, Vec3{X: 10}, box)
	if !ok {
		t.Fatal("segment through box should hit")
	}
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Errorf("expected t=0.4, got %f", tHit)
	}

	if _, ok := segmentAABBIntersect(Vec3{Y: 3}, Vec3{X: 10, Y: 3}, box); ok {
		t.Error("segment above box should miss")
	}

	if _, ok := segmentAABBIntersect(Vec3{}, Vec3{X: 3}, box); ok {
		t.Error("segment ending before box should miss")
	}

	tHit, ok = segmentAABBIntersect(Vec3{X: 5}, Vec3{X: 10}, box)
	if !ok || tHit != 0 {
		t.Errorf("segment starting inside should hit at 0, got %f %v", tHit, ok)
	}
}

func TestSegmentPlaneIntersect(t *testing.T) {
	tHit, ok := segmentPlaneIntersect(Vec3{Y: 2}, Vec3{Y: -2}, 0)
	if !ok || math.Abs(tHit-0.5) > 1e-9 {
		t.Errorf("expected crossing at 0.5, got %f %v", tHit, ok)
	}
	if _, ok := segmentPlaneIntersect(Vec3{Y: 2}, Vec3{Y: 1}, 0); ok {
		t.Error("segment above plane should miss")
	}
	if _, ok := segmentPlaneIntersect(Vec3{Y: -1}, Vec3{Y: -2}, 0); ok {
		t.Error("segment below plane should miss")
	}
}
