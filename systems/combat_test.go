package systems

import (
	"testing"

	"github.com/pthm-cable/beans/components"
)

func TestDamage(t *testing.T) {
	tests := []struct {
		name          string
		own, opponent float32
		want          float32
	}{
		{"equal", 5, 5, 5},
		{"weaker", 3, 10, 12},
		{"stronger", 10, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Damage(5, tt.own, tt.opponent); got != tt.want {
				t.Errorf("Damage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSuppressesMates(t *testing.T) {
	s := newSim(t, 41)
	a := s.spawn(100, 100, 80)
	b := s.spawn(120, 100, 80)
	s.pop.Bean(a).LockedPartner = b
	s.pop.Bean(b).LockedPartner = a

	if !s.combat.Filter(a, b) {
		t.Error("locked mates not suppressed")
	}
	if len(s.pop.Cocoons(nil)) != 1 {
		t.Error("no cocoon")
	}
}

func TestFilterIgnoresUnlockedNonSeekers(t *testing.T) {
	s := newSim(t, 42)
	a := s.spawn(100, 100, 80)
	b := s.spawn(120, 100, 80)
	if s.combat.Filter(a, b) {
		t.Error("ordinary contact suppressed")
	}
	if s.hasEvent(EventCombat) || s.hasEvent(EventMating) {
		t.Error("ordinary contact had side effects")
	}
}

func TestGuardFightsIntruder(t *testing.T) {
	s := newSim(t, 43)
	guard := s.spawn(100, 100, 60)
	intruder := s.spawn(120, 100, 60)
	g := s.pop.Bean(guard)
	g.Hoard = s.hoards.Register(100, 100, 40)
	g.State = components.StateGuarding
	g.Attrs.Strength = 8
	in := s.pop.Bean(intruder)
	in.Attrs.Strength = 5

	if s.combat.Filter(guard, intruder) {
		t.Fatal("combat must not suppress the collision response")
	}
	g, in = s.pop.Bean(guard), s.pop.Bean(intruder)
	if g.Satiety != 55 {
		t.Errorf("guard satiety = %v, want 55", g.Satiety)
	}
	if in.Satiety != 52 {
		t.Errorf("intruder satiety = %v, want 52", in.Satiety)
	}
	if g.CombatTimer <= 0 || in.CombatTimer <= 0 {
		t.Error("combat timers not set")
	}

	// Cooldown blocks an immediate second exchange
	s.combat.Filter(guard, intruder)
	if s.pop.Bean(guard).Satiety != 55 {
		t.Error("damage applied during cooldown")
	}
}

func TestCombatFleeAndKill(t *testing.T) {
	s := newSim(t, 44)
	guard := s.spawn(100, 100, 60)
	weak := s.spawn(120, 100, 22)
	dead := s.spawn(80, 100, 3)
	g := s.pop.Bean(guard)
	g.Hoard = s.hoards.Register(100, 100, 40)
	g.State = components.StateGuarding

	s.combat.Filter(guard, weak)
	if st := s.pop.Bean(weak).State; st != components.StateFleeing {
		t.Errorf("weakened intruder state = %v, want fleeing", st)
	}

	s.pop.Bean(guard).CombatTimer = 0
	s.combat.Filter(guard, dead)
	d := s.pop.Bean(dead)
	if d.Fate != components.FateKilled || d.Satiety != 0 {
		t.Errorf("fate = %v satiety = %v, want killed at 0", d.Fate, d.Satiety)
	}
}

func TestGuardsOfRivalHoardsFight(t *testing.T) {
	s := newSim(t, 45)
	a := s.spawn(100, 100, 60)
	b := s.spawn(120, 100, 60)
	ba, bb := s.pop.Bean(a), s.pop.Bean(b)
	ba.Hoard = s.hoards.Register(80, 100, 40)
	bb.Hoard = s.hoards.Register(140, 100, 40)
	ba.State = components.StateGuarding
	bb.State = components.StateChasingEnemy

	s.combat.Filter(a, b)
	if !s.hasEvent(EventCombat) {
		t.Error("rival defenders did not fight")
	}
}

func TestSameHoardDoesNotFight(t *testing.T) {
	s := newSim(t, 46)
	a := s.spawn(100, 100, 60)
	b := s.spawn(120, 100, 60)
	hoard := s.hoards.Register(100, 100, 40)
	ba, bb := s.pop.Bean(a), s.pop.Bean(b)
	ba.Hoard, bb.Hoard = hoard, hoard
	ba.State = components.StateGuarding

	s.combat.Filter(a, b)
	if s.hasEvent(EventCombat) {
		t.Error("hoard mates fought")
	}
}
