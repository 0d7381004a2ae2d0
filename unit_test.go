package main

import "testing"

func TestNewUnit(t *testing.T) {
	u := NewUnit(3, UnitSpec{Name: "X", Team: TeamRed, Control: ControlPlaceholder, Pos: Vec3{1, 1, 2}, RestrictHalf: true}, 7)
	if u.ID != 3 || u.Body != 7 || u.Name != "X" {
		t.Errorf("unexpected unit %+v", u)
	}
	if u.RestrictHalf {
		t.Error("only AI units can be restricted to their half")
	}
	if !u.IsAlive() || u.Health != UnitMaxHealth {
		t.Error("new unit should be alive at full health")
	}
	if u.SpawnPos != (Vec3{1, 1, 2}) {
		t.Errorf("unexpected spawn %v", u.SpawnPos)
	}
}

func TestUnitTakeDamage(t *testing.T) {
	u := NewUnit(0, DefaultRoster[2], 0)
	if u.TakeDamage(0) || u.TakeDamage(-3) {
		t.Error("non-positive damage should be ignored")
	}
	if u.Health != UnitMaxHealth {
		t.Errorf("health changed by ignored damage: %f", u.Health)
	}
	if u.TakeDamage(4) {
		t.Error("should survive 4 damage")
	}
	if u.Health != 6 {
		t.Errorf("expected health 6, got %f", u.Health)
	}
	if !u.TakeDamage(20) {
		t.Error("should report death")
	}
	if u.Health != 0 {
		t.Errorf("health should floor at 0, got %f", u.Health)
	}

	u.Vitality = Dead{RespawnAt: 5}
	if u.TakeDamage(1) {
		t.Error("dead unit should not die again")
	}
}

func TestUnitRevive(t *testing.T) {
	u := NewUnit(0, DefaultRoster[0], 0)
	u.TakeDamage(UnitMaxHealth)
	u.Vitality = Dead{RespawnAt: 3}
	u.Revive()
	if !u.IsAlive() || u.Health != u.MaxHealth {
		t.Errorf("revive should restore full health, got %+v", u)
	}
}

func TestRoleMode(t *testing.T) {
	tests := []struct {
		control ControlKind
		want    BodyMode
	}{
		{ControlHuman, BodyDynamic},
		{ControlAI, BodyDynamic},
		{ControlPlaceholder, BodyPlanarLocked},
	}
	for _, tt := range tests {
		u := Unit{Control: tt.control}
		if got := u.RoleMode(); got != tt.want {
			t.Errorf("%s: expected mode %d, got %d", tt.control, tt.want, got)
		}
	}
}

func TestTeam(t *testing.T) {
	if TeamBlue.String() != "Blue" || TeamRed.String() != "Red" {
		t.Error("unexpected team names")
	}
	if TeamBlue.Opponent() != TeamRed || TeamRed.Opponent() != TeamBlue {
		t.Error("unexpected opponents")
	}
}

func TestDefaultRosterShape(t *testing.T) {
	var perTeam [2]int
	humans := 0
	for _, s := range DefaultRoster {
		perTeam[s.Team]++
		if s.Control == ControlHuman {
			humans++
			if s.Team != TeamBlue {
				t.Error("the human plays for Blue")
			}
		}
		if s.Team == TeamBlue && s.Pos.Z >= 0 || s.Team == TeamRed && s.Pos.Z <= 0 {
			t.Errorf("%s spawns in the wrong half", s.Name)
		}
	}
	if perTeam != [2]int{TeamSize, TeamSize} || humans != 1 {
		t.Errorf("expected 5v5 with one human, got %v and %d humans", perTeam, humans)
	}
}
