package main

import (
	"math"
	"testing"
)

func TestPredictThrowNoHit(t *testing.T) {
	w := NewPhysicsWorld()
	tr := PredictThrow(w, Vec3{0, 100, 10}, Vec3{Z: 1})
	if !tr.Visible || tr.Hit {
		t.Fatalf("expected a visible unobstructed flight, got %+v", tr)
	}
	if len(tr.Points) != PreviewSamples {
		t.Fatalf("expected %d points, got %d", PreviewSamples, len(tr.Points))
	}
	last := tr.Points[len(tr.Points)-1]
	wantT := PreviewSamples * PreviewStep
	if math.Abs(last.Z-(10+wantT)) > 1e-9 {
		t.Errorf("unexpected last sample %v", last)
	}
	// ground is out of probe reach so the fallback height applies
	if tr.Landing.Y != PreviewFallbackY {
		t.Errorf("expected fallback landing height, got %f", tr.Landing.Y)
	}
	if math.Abs(tr.Marker.Y-(PreviewFallbackY+PreviewMarkerLift)) > 1e-9 {
		t.Errorf("marker should sit just above the landing, got %f", tr.Marker.Y)
	}
}

func TestPredictThrowTruncatesAtGround(t *testing.T) {
	w := NewPhysicsWorld()
	tr := PredictThrow(w, Vec3{0, 2, 0}, Vec3{Z: 10})
	if !tr.Hit {
		t.Fatal("flight should hit the ground")
	}
	// the ball is above ground at 0.63s and below it at 0.72s
	if len(tr.Points) != 8 {
		t.Fatalf("expected 8 points, got %d", len(tr.Points))
	}
	last := tr.Points[len(tr.Points)-1]
	if math.Abs(last.Y) > 1e-9 {
		t.Errorf("last point should be on the ground, got %v", last)
	}
	if math.Abs(tr.Landing.Y) > 1e-9 || tr.Landing.Flat().Dist(last.Flat()) > 1e-9 {
		t.Errorf("landing should be the hit point, got %v", tr.Landing)
	}
}

func TestPredictThrowStopsAtStatic(t *testing.T) {
	w := NewPhysicsWorld()
	w.AddStatic(AABB{Center: Vec3{0, 1, 5}, Half: Vec3{1, 1, 0.5}})
	tr := PredictThrow(w, Vec3{0, 1, 0}, Vec3{Z: 20})
	if !tr.Hit || len(tr.Points) != 3 {
		t.Fatalf("expected a hit on the third sample, got %d points", len(tr.Points))
	}
	if last := tr.Points[2]; math.Abs(last.Z-4.5) > 1e-6 {
		t.Errorf("expected hit on the near face, got %v", last)
	}
}

func TestPreviewFollowsCharge(t *testing.T) {
	m := newActiveMatch()
	if m.Preview().Visible {
		t.Fatal("no preview before charging")
	}
	m.PressAction()
	if !m.Preview().Visible || len(m.Preview().Points) == 0 {
		t.Fatal("preview should show as soon as charging starts")
	}
	m.Frame(0.2)
	short := m.Preview().Points[len(m.Preview().Points)-1]
	m.Frame(1.6)
	long := m.Preview().Points[len(m.Preview().Points)-1]
	start := m.pos(&m.units[idBluePlayer])
	if long.Flat().Dist(start.Flat()) <= short.Flat().Dist(start.Flat()) {
		t.Error("more charge should reach further")
	}

	m.ReleaseAction(0, 0)
	if m.Preview().Visible {
		t.Error("preview should hide after release")
	}
	if !m.Ball().IsLoose() {
		t.Error("release should throw")
	}
}

func TestPreviewDoesNotMoveBodies(t *testing.T) {
	m := newActiveMatch()
	w := m.motion.(*PhysicsWorld)
	before := make([]body, len(w.bodies))
	copy(before, w.bodies)

	m.PressAction()
	m.Frame(0.9)

	for i := range before {
		if before[i] != w.bodies[i] {
			t.Fatalf("body %d changed during preview", i)
		}
	}
}

func TestCancelZoneKeepsBall(t *testing.T) {
	m := newActiveMatch()
	m.PressAction()
	m.Frame(0.5)
	m.ReleaseAction(CancelZone.X+CancelZone.W/2, CancelZone.Y+CancelZone.H/2)

	if m.Ball().Carrier() != idBluePlayer {
		t.Error("cancelled throw should keep the ball")
	}
	if m.Status() != "Throw cancelled" {
		t.Errorf("unexpected status %q", m.Status())
	}
	if charging, _ := m.Charging(); charging || m.Preview().Visible {
		t.Error("cancel should end the charge and hide the preview")
	}
	if hasEvent(m.DrainEvents(), EventThrow) {
		t.Error("no throw event expected")
	}
}

func TestPreviewHiddenOutsidePlay(t *testing.T) {
	m := newActiveMatch()
	m.PressAction()
	m.scoreGoal(TeamBlue, &m.units[idBluePlayer])
	m.Frame(0.1)
	if m.Preview().Visible {
		t.Error("preview should hide once the round ends")
	}
}
