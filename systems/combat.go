package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
)

// CombatSystem is the collision filter. Touching mates are turned into a
// cocoon; a defender touching an intruder starts a fight.
type CombatSystem struct {
	cfg   *config.Config
	pop   *Population
	brain *BrainSystem
	repro *ReproductionSystem

	Events EventSink
}

// NewCombatSystem creates the collision filter.
func NewCombatSystem(cfg *config.Config, pop *Population, brain *BrainSystem, repro *ReproductionSystem) *CombatSystem {
	return &CombatSystem{cfg: cfg, pop: pop, brain: brain, repro: repro}
}

// Filter implements CollisionFilter.
func (s *CombatSystem) Filter(ea, eb ecs.Entity) bool {
	a, b := s.pop.ActiveBean(ea), s.pop.ActiveBean(eb)
	if a == nil || b == nil {
		return false
	}
	if Compatible(ea, a, eb, b) {
		return s.repro.Mate(ea, eb)
	}
	if isDefending(a, b) || isDefending(b, a) {
		s.fight(ea, a, eb, b)
	}
	return false
}

// isDefending reports whether d is defending a territory that i is not
// part of. Two defenders of different hoards defend against each other.
func isDefending(d, i *components.Bean) bool {
	if d.State != components.StateGuarding && d.State != components.StateChasingEnemy {
		return false
	}
	return d.Hoard != components.NoHoard && d.Hoard != i.Hoard
}

// Damage is the satiety a bean of strength own loses to an opponent of
// strength opponent.
func Damage(base, own, opponent float32) float32 {
	return base + max(0, opponent-own)
}

func (s *CombatSystem) fight(ea ecs.Entity, a *components.Bean, eb ecs.Entity, b *components.Bean) {
	if a.CombatTimer > 0 || b.CombatTimer > 0 {
		return
	}
	base := float32(s.cfg.Combat.BaseDamage)
	dmgA := Damage(base, a.Attrs.Strength, b.Attrs.Strength)
	dmgB := Damage(base, b.Attrs.Strength, a.Attrs.Strength)

	pa, pb := *s.pop.PosMap.Get(ea), *s.pop.PosMap.Get(eb)
	s.hit(ea, a, dmgA, components.Point{X: pb.X, Y: pb.Y})
	s.hit(eb, b, dmgB, components.Point{X: pa.X, Y: pa.Y})

	s.Events.emit(Event{Kind: EventCombat, Bean: a.ID, Other: b.ID, X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2, Value: dmgA + dmgB})
	slog.Debug("combat", "a", a.ID, "b", b.ID, "damage_a", dmgA, "damage_b", dmgB)
}

// hit applies damage from a threat at the given point.
func (s *CombatSystem) hit(e ecs.Entity, b *components.Bean, damage float32, threat components.Point) {
	b.Satiety -= damage
	b.CombatTimer = float32(s.cfg.Combat.CooldownMs)
	b.Threat = threat
	if b.Satiety <= 0 {
		b.Satiety = 0
		b.Fate = components.FateKilled
		return
	}
	if b.Satiety < b.Strategy.FleeThreshold {
		s.brain.FleeFrom(e, threat)
	}
}
