package game

import (
	"github.com/pthm-cable/beans/telemetry"
)

// Step advances the world by one fixed step of physics.dt_ms.
//
// Order: brain, motion, physics (with the combat/mating collision filter),
// food contact, cocoons, removal of gone beans, hoard pruning, food
// spawning, then telemetry. Every pass walks a snapshot taken before it, so
// removals and births inside a pass never skip or repeat a bean.
func (g *Game) Step() {
	dt := g.cfg.Derived.DT
	g.perf.StartTick()

	g.beans = g.pop.Beans(g.beans[:0])
	g.perf.StartPhase(telemetry.PhaseBrain, len(g.beans))
	for _, e := range g.beans {
		g.brain.Think(e, dt)
	}

	g.perf.StartPhase(telemetry.PhaseMotion, len(g.beans))
	g.motion.Update(g.beans, dt)

	g.perf.StartPhase(telemetry.PhasePhysics, len(g.beans))
	g.physics.Update(g.beans, dt)

	g.perf.StartPhase(telemetry.PhaseFeeding, len(g.beans))
	g.brain.Feed(g.beans)

	g.perf.StartPhase(telemetry.PhaseReproduction, 0)
	g.repro.Update(dt)

	g.perf.StartPhase(telemetry.PhaseCleanup, len(g.beans))
	g.removeGone()
	g.pruneHoards()

	g.perf.StartPhase(telemetry.PhaseFood, g.food.Count())
	g.food.Update(dt)

	g.tick++

	g.perf.StartPhase(telemetry.PhaseTelemetry, 0)
	g.flushTelemetry()
	g.publishFrame()

	g.perf.EndTick()
}

// pruneHoards destroys every hoard no living bean or cocoon refers to.
func (g *Game) pruneHoards() {
	if g.hoards.Len() == 0 {
		return
	}
	clear(g.live)
	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		if b := g.pop.ActiveBean(e); b != nil && b.Hoard != 0 {
			g.live[b.Hoard] = struct{}{}
		}
	}
	g.cocoons = g.pop.Cocoons(g.cocoons[:0])
	for _, e := range g.cocoons {
		if c := g.pop.CocoonMap.Get(e); c.InheritedHoard != 0 {
			g.live[c.InheritedHoard] = struct{}{}
		}
	}
	g.hoards.PruneEmpty(g.live)
}

// Counts summarises the world for HUDs and progress logs.
type Counts struct {
	Beans       int
	Adults      int
	Cocoons     int
	Food        int
	Hoards      int
	TownCenters int
	Births      int
	Deaths      int
}

// Counts returns the current world summary.
func (g *Game) Counts() Counts {
	c := Counts{
		Food:        g.food.Count(),
		Hoards:      g.hoards.Len(),
		TownCenters: g.hoards.TownCenters(),
		Births:      g.totalBirths,
		Deaths:      g.totalDeaths,
	}
	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		b := g.pop.ActiveBean(e)
		if b == nil {
			continue
		}
		c.Beans++
		if b.IsAdult {
			c.Adults++
		}
	}
	g.cocoons = g.pop.Cocoons(g.cocoons[:0])
	c.Cocoons = len(g.cocoons)
	return c
}
