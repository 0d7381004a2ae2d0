package main

import (
	"testing"

	"github.com/rs/zerolog"
	"pgregory.net/rapid"
)

func TestChargeAlwaysClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hold := rapid.Float64Range(-100, 100).Draw(t, "hold")
		c := ChargeFraction(hold)
		if c < 0 || c > 1 {
			t.Fatalf("charge %f out of range", c)
		}
		if s := ThrowSpeed(c); s < ThrowMinSpeed || s > ThrowMaxSpeed {
			t.Fatalf("speed %f out of range", s)
		}
		if a := ThrowArc(c); a < ThrowMinArc || a > ThrowMaxArc {
			t.Fatalf("arc %f out of range", a)
		}
	})
}

func TestRespawnDelayBoundedAndMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 5000).Draw(t, "a")
		b := rapid.Float64Range(0, 5000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		da, db := RespawnDelay(a), RespawnDelay(b)
		if da < RespawnMinDelay || db > RespawnMaxDelay {
			t.Fatalf("delay out of bounds: %f %f", da, db)
		}
		if da > db {
			t.Fatalf("delay should not shrink as the round ages: %f > %f", da, db)
		}
	})
}

// checkMatchInvariants verifies the state rules that hold after any sequence
// of operations
func checkMatchInvariants(t *rapid.T, m *Match) {
	if c := m.Ball().Carrier(); c != NoUnit {
		u, ok := m.Unit(c)
		if !ok || !u.IsAlive() {
			t.Fatalf("ball carried by missing or dead unit %d", c)
		}
		if m.Ball().IsLoose() {
			t.Fatal("ball both carried and loose")
		}
	}
	for i := 0; i < m.Units(); i++ {
		u, _ := m.Unit(UnitID(i))
		if u.Health < 0 || u.Health > u.MaxHealth {
			t.Fatalf("%s health %f out of range", u.Name, u.Health)
		}
		if u.IsAlive() != (u.Health > 0) {
			t.Fatalf("%s alive=%v with health %f", u.Name, u.IsAlive(), u.Health)
		}
	}
	s := m.Scores()
	if s[TeamBlue]+s[TeamRed] > TotalRounds {
		t.Fatalf("more goals than rounds: %v", s)
	}
	if r := m.Snapshot().Round; r < 1 || r > TotalRounds {
		t.Fatalf("displayed round %d out of range", r)
	}
	if cp, ok := m.CardPhase(); ok {
		if cp.HumanChosen != (cp.Choice >= 0) || cp.Choice > 1 {
			t.Fatalf("inconsistent card choice %+v", cp)
		}
		if cp.SelectionsDone > cp.Total {
			t.Fatalf("selections %d exceed total %d", cp.SelectionsDone, cp.Total)
		}
	}
}

func TestMatchInvariantsUnderRandomPlay(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig(ModePractice)
		cfg.Seed = rapid.Int64().Draw(t, "seed")
		m := NewMatch(cfg, NewPhysicsWorld(), zerolog.Nop())
		m.StartMatch()

		var lastScores [2]int
		lastRound := m.Round()
		over := false
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 7).Draw(t, "action") {
			case 0:
				n := rapid.IntRange(1, 50).Draw(t, "ticks")
				for j := 0; j < n; j++ {
					m.FixedTick()
				}
			case 1:
				id := UnitID(rapid.IntRange(0, m.Units()-1).Draw(t, "victim"))
				m.ApplyDamage(id, rapid.Float64Range(0, 12).Draw(t, "damage"))
			case 2:
				m.SetHumanInput(HumanInput{
					MoveX: rapid.Float64Range(-2, 2).Draw(t, "mx"),
					MoveY: rapid.Float64Range(-2, 2).Draw(t, "my"),
					Jump:  rapid.Bool().Draw(t, "jump"),
				})
			case 3:
				m.PressAction()
				m.Frame(rapid.Float64Range(0, 2).Draw(t, "hold"))
			case 4:
				m.ReleaseAction(
					rapid.Float64Range(0, ScreenRefWidth).Draw(t, "sx"),
					rapid.Float64Range(0, ScreenRefHeight).Draw(t, "sy"),
				)
			case 5:
				m.ChooseCard(rapid.IntRange(-1, 2).Draw(t, "card"))
			case 6:
				team := rapid.SampledFrom([]Team{TeamBlue, TeamRed}).Draw(t, "team")
				m.scoreGoal(team, &m.units[idBluePlayer])
			case 7:
				m.Frame(rapid.Float64Range(-1, 30).Draw(t, "dt"))
			}

			checkMatchInvariants(t, m)
			s := m.Scores()
			if s[TeamBlue] < lastScores[TeamBlue] || s[TeamRed] < lastScores[TeamRed] {
				t.Fatalf("score went down: %v -> %v", lastScores, s)
			}
			if m.Round() < lastRound {
				t.Fatalf("round went down: %d -> %d", lastRound, m.Round())
			}
			if over && m.Phase() != PhaseMatchOver {
				t.Fatal("match over is final")
			}
			lastScores, lastRound = s, m.Round()
			over = m.Phase() == PhaseMatchOver
		}
	})
}
