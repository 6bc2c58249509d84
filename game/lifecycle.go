package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/traits"
)

// spawnInitialPopulation creates the founding adults at random positions.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.Population.Initial; i++ {
		x := g.rng.Float32() * g.cfg.Derived.WorldW32
		y := g.rng.Float32() * g.cfg.Derived.WorldH32
		g.spawnFounder(x, y)
	}
	slog.Info("population seeded", "beans", g.cfg.Population.Initial, "food", g.food.Count())
}

// spawnFounder creates an adult with random attributes and strategy and a
// jittered mating cooldown so founders do not all pair up at once.
func (g *Game) spawnFounder(x, y float32) ecs.Entity {
	cfg := g.cfg
	attrs := traits.RandomAttributes(g.rng, float32(cfg.Attributes.Min), float32(cfg.Attributes.Max))
	strategy := genetics.Random(g.rng)

	bean := systems.NewBean(cfg, attrs, strategy, float32(cfg.Satiety.Start), true)
	bean.ReproCooldown = g.rng.Float32() * float32(cfg.Mating.CooldownJitterMs)
	bean.FacingAngle = g.rng.Float32() * 2 * math.Pi

	e := g.pop.SpawnBean(x, y, float32(cfg.Bean.AdultRadius), bean)
	g.grid.Insert(e, x, y)
	g.lifetime.Register(g.pop.BeanMap.Get(e).ID, g.tick)
	return e
}

// removeGone deletes every bean that starved, was killed or retired into a
// cocoon during this step. Each bean is removed exactly once: the entity is
// gone after this pass, so a later pass cannot see it again.
func (g *Game) removeGone() {
	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		b := g.pop.Bean(e)
		if b == nil || !b.Gone() {
			continue
		}
		pos := g.pop.PosMap.Get(e)
		id, fate := b.ID, b.Fate

		stats := g.lifetime.Remove(id)
		if fate == components.FateStarved || fate == components.FateKilled {
			g.totalDeaths++
			if stats != nil {
				g.collector.RecordLifespan(float64(g.tick-stats.BirthTick) * float64(g.cfg.Derived.DTSec))
			}
			g.onEvent(systems.Event{Kind: systems.EventDeath, Bean: id, Hoard: b.Hoard, X: pos.X, Y: pos.Y, Value: b.Age, Fate: fate})
		}

		g.grid.Remove(e)
		g.pop.Remove(e)
	}

	g.cocoons = g.pop.Cocoons(g.cocoons[:0])
	if !g.extinct && g.pop.BeanCount() == 0 && len(g.cocoons) == 0 {
		g.extinct = true
		slog.Info("population extinct", "tick", g.tick, "births", g.totalBirths, "deaths", g.totalDeaths)
	}
}
