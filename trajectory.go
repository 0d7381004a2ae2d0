package main

const (
	PreviewSamples     = 20
	PreviewStep        = 0.09 // seconds between samples
	PreviewProbeHeight = 40.0 // landing probe starts this far above the landing point
	PreviewProbeLength = 120.0
	PreviewFallbackY   = 0.05
	PreviewMarkerLift  = 0.03
)

// Trajectory is a predicted ball flight for display. Points holds only the
// visible samples.
type Trajectory struct {
	Visible bool
	Points  []Vec3
	Landing Vec3
	Marker  Vec3
	Hit     bool // flight was cut short by a collider
}

// Hide clears the preview
func (t *Trajectory) Hide() {
	t.Visible = false
	t.Points = t.Points[:0]
	t.Hit = false
}

// PredictThrow samples a ballistic flight from start with velocity v,
// truncating at the first collider hit, and projects the landing point onto
// the ground. It does not modify the world.
func PredictThrow(motion Motion, start, v Vec3) Trajectory {
	g := motion.Gravity()
	tr := Trajectory{Visible: true, Points: make([]Vec3, 0, PreviewSamples)}

	prev := start
	landing := start
	for i := 0; i < PreviewSamples; i++ {
		t := float64(i+1) * PreviewStep
		p := start.Add(v.Scale(t)).Add(g.Scale(0.5 * t * t))
		if hit, ok := motion.Linecast(prev, p); ok {
			tr.Points = append(tr.Points, hit)
			tr.Hit = true
			landing = hit
			break
		}
		tr.Points = append(tr.Points, p)
		landing = p
		prev = p
	}

	if ground, ok := motion.Raycast(landing.Add(Vec3Up.Scale(PreviewProbeHeight)), Vec3{Y: -1}, PreviewProbeLength); ok {
		landing = ground
	} else {
		landing.Y = PreviewFallbackY
	}
	tr.Landing = landing
	tr.Marker = landing.Add(Vec3Up.Scale(PreviewMarkerLift))
	return tr
}

// refreshPreview recomputes the human's throw preview while a charge is held
func (m *Match) refreshPreview() {
	h := m.unit(m.human)
	if h == nil || !m.control.charging || m.ball.Carrier() != m.human || !h.IsAlive() {
		m.preview.Hide()
		return
	}
	l := throwLaunch(m.pos(h), m.forward(h), m.control.aim(m, h), ChargeFraction(m.control.hold))
	m.preview = PredictThrow(m.motion, l.Start, l.Velocity)
}

// Preview returns the current throw preview
func (m *Match) Preview() Trajectory { return m.preview }
