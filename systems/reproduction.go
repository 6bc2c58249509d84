package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/traits"
)

// ReproductionSystem turns mated pairs into cocoons and hatches cocoons
// into offspring.
type ReproductionSystem struct {
	cfg    *config.Config
	pop    *Population
	grid   *SpatialGrid
	hoards *HoardRegistry
	rng    *rand.Rand

	Events EventSink

	// Spilled is the satiety lost because every hatchling of a cocoon was
	// already full.
	Spilled float32

	cocoons []ecs.Entity
	brood   []components.Bean
}

// NewReproductionSystem creates the reproduction system. Offspring are
// inserted into grid.
func NewReproductionSystem(cfg *config.Config, pop *Population, grid *SpatialGrid, hoards *HoardRegistry, rng *rand.Rand) *ReproductionSystem {
	return &ReproductionSystem{cfg: cfg, pop: pop, grid: grid, hoards: hoards, rng: rng}
}

// Compatible reports whether two touching beans should mate: either they
// are locked to each other, or both are ready seekers and neither is
// locked to a third bean.
func Compatible(ea ecs.Entity, a *components.Bean, eb ecs.Entity, b *components.Bean) bool {
	if a.LockedPartner == eb && b.LockedPartner == ea {
		return true
	}
	if !a.IsAdult || !b.IsAdult || !a.IsSeekingMate || !b.IsSeekingMate {
		return false
	}
	if a.ReproCooldown > 0 || b.ReproCooldown > 0 {
		return false
	}
	return (a.LockedPartner == noEntity || a.LockedPartner == eb) &&
		(b.LockedPartner == noEntity || b.LockedPartner == ea)
}

// Mate retires both parents into a cocoon at their midpoint. It returns
// false if either parent is no longer active.
func (s *ReproductionSystem) Mate(ea, eb ecs.Entity) bool {
	a, b := s.pop.ActiveBean(ea), s.pop.ActiveBean(eb)
	if a == nil || b == nil || ea == eb {
		return false
	}
	pa, pb := s.pop.PosMap.Get(ea), s.pop.PosMap.Get(eb)
	x, y := (pa.X+pb.X)/2, (pa.Y+pb.Y)/2

	cocoon := components.Cocoon{
		TotalSatiety:   a.Satiety + b.Satiety,
		Color:          genetics.Blend(a.Color, b.Color),
		Attrs:          [2]traits.Attributes{a.Attrs, b.Attrs},
		Strategies:     [2]genetics.SurvivalStrategy{a.Strategy, b.Strategy},
		InheritedHoard: s.inheritedHoard(a.Hoard, b.Hoard),
		Radius:         float32(s.cfg.Cocoon.Radius),
	}
	s.pop.SpawnCocoon(x, y, cocoon)

	a.Fate = components.FateMated
	b.Fate = components.FateMated

	s.Events.emit(Event{Kind: EventMating, Bean: a.ID, Other: b.ID, Hoard: cocoon.InheritedHoard, X: x, Y: y, Value: cocoon.TotalSatiety})
	slog.Debug("mated", "a", a.ID, "b", b.ID, "satiety", cocoon.TotalSatiety)
	return true
}

// inheritedHoard resolves the offspring's territory from the parents'.
func (s *ReproductionSystem) inheritedHoard(a, b components.HoardID) components.HoardID {
	_, okA := s.hoards.Get(a)
	_, okB := s.hoards.Get(b)
	switch {
	case okA && okB && a == b:
		return a
	case okA && okB:
		return s.hoards.Merge(a, b)
	case okA:
		return a
	case okB:
		return b
	}
	return components.NoHoard
}

// Update ages every cocoon by dt and hatches those whose gestation is over.
func (s *ReproductionSystem) Update(dt float32) {
	s.cocoons = s.pop.Cocoons(s.cocoons[:0])
	gestation := s.cfg.Derived.GestationMs
	for _, e := range s.cocoons {
		c := s.pop.CocoonMap.Get(e)
		c.Elapsed += dt
		if c.Elapsed >= gestation {
			s.hatch(e)
		}
	}
}

// hatch splits a cocoon into offspring that share its satiety.
func (s *ReproductionSystem) hatch(e ecs.Entity) []ecs.Entity {
	c := *s.pop.CocoonMap.Get(e)
	pos := *s.pop.PosMap.Get(e)
	s.pop.Remove(e)

	lo, hi := s.cfg.Cocoon.MinOffspring, s.cfg.Cocoon.MaxOffspring
	n := lo + s.rng.Intn(hi-lo+1)
	return s.spawnOffspring(c, pos, n)
}

func (s *ReproductionSystem) spawnOffspring(c components.Cocoon, pos components.Position, n int) []ecs.Entity {
	attrMin, attrMax := float32(s.cfg.Attributes.Min), float32(s.cfg.Attributes.Max)
	mutation := float32(s.cfg.Attributes.Mutation)
	offset := float32(s.cfg.Cocoon.SpawnOffset)
	radius := float32(s.cfg.Bean.ChildRadius)

	s.brood = s.brood[:0]
	for i := 0; i < n; i++ {
		attrs := traits.Inherit(c.Attrs[0], c.Attrs[1], s.rng, mutation, attrMin, attrMax)
		strategy := genetics.Breed(c.Strategies[0], c.Strategies[1], s.rng)
		bean := NewBean(s.cfg, attrs, strategy, 0, false)
		bean.Hoard = c.InheritedHoard
		bean.Color = c.Color
		bean.ReproCooldown = s.rng.Float32() * float32(s.cfg.Mating.CooldownJitterMs)
		s.brood = append(s.brood, bean)
	}
	if spilled := shareSatiety(s.brood, c.TotalSatiety); spilled > 0 {
		s.Spilled += spilled
		slog.Debug("hatchlings full", "spilled", spilled)
	}

	children := make([]ecs.Entity, 0, n)
	for i := range s.brood {
		ux, uy := unitVector(float32(i) / float32(n) * 2 * math.Pi)
		x := clampFloat(pos.X+ux*offset, radius, s.cfg.Derived.WorldW32-radius)
		y := clampFloat(pos.Y+uy*offset, radius, s.cfg.Derived.WorldH32-radius)
		child := s.pop.SpawnBean(x, y, radius, s.brood[i])
		s.grid.Insert(child, x, y)
		children = append(children, child)

		b := s.pop.BeanMap.Get(child)
		s.Events.emit(Event{Kind: EventBirth, Bean: b.ID, Hoard: c.InheritedHoard, X: x, Y: y, Value: b.Satiety})
	}
	slog.Debug("cocoon hatched", "offspring", n, "satiety", c.TotalSatiety)
	return children
}

// shareSatiety splits total equally across beans without taking any past
// MaxSatiety. What a full bean cannot hold goes to siblings with room; the
// rest is returned.
func shareSatiety(beans []components.Bean, total float32) float32 {
	for total > 1e-4 {
		open := 0
		for i := range beans {
			if beans[i].Satiety < beans[i].MaxSatiety {
				open++
			}
		}
		if open == 0 {
			break
		}
		share := total / float32(open)
		total = 0
		for i := range beans {
			b := &beans[i]
			if b.Satiety >= b.MaxSatiety {
				continue
			}
			add := min(share, b.MaxSatiety-b.Satiety)
			b.Satiety += add
			total += share - add
		}
	}
	return total
}
