package telemetry

import (
	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/systems"
)

// Sample is the world state the collector reads at the end of a window.
type Sample struct {
	Population  int
	Adults      int
	Cocoons     int
	Food        int
	Hoards      int
	TownCenters int
	Workers     int
	Guards      int
	Explorers   int

	Satieties  []float64
	WanderLust []float64
	Hoarding   []float64
	Risk       []float64
	Mating     []float64
	Aggression []float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dtSec               float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births        int
	starved       int
	killed        int
	matings       int
	locks         int
	locksBroken   int
	combats       int
	flees         int
	deposits      int
	hoardsCreated int
	hoardsPruned  int
	constructions int
	lifespans     []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dtSec: seconds per tick
func NewCollector(windowDurationSec float64, dtSec float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dtSec))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dtSec:               dtSec,
	}
}

// Record counts one simulation event.
func (c *Collector) Record(ev systems.Event) {
	switch ev.Kind {
	case systems.EventBirth:
		c.births++
	case systems.EventDeath:
		switch ev.Fate {
		case components.FateStarved:
			c.starved++
		case components.FateKilled:
			c.killed++
		}
	case systems.EventMating:
		c.matings++
	case systems.EventLock:
		c.locks++
	case systems.EventLockBroken:
		c.locksBroken++
	case systems.EventCombat:
		c.combats++
	case systems.EventFlee:
		c.flees++
	case systems.EventDeposit:
		c.deposits++
	case systems.EventHoardCreated:
		c.hoardsCreated++
	case systems.EventHoardPruned:
		c.hoardsPruned++
	case systems.EventConstructionComplete:
		c.constructions++
	}
}

// RecordLifespan adds the age, in seconds, of a bean that left the world.
func (c *Collector) RecordLifespan(sec float64) {
	c.lifespans = append(c.lifespans, sec)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	mean, std, p10, p50, p90 := Distribution(s.Satieties)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dtSec),

		Population:  s.Population,
		Adults:      s.Adults,
		Cocoons:     s.Cocoons,
		Food:        s.Food,
		Hoards:      s.Hoards,
		TownCenters: s.TownCenters,
		Workers:     s.Workers,
		Guards:      s.Guards,
		Explorers:   s.Explorers,

		Births:        c.births,
		Starved:       c.starved,
		Killed:        c.killed,
		Matings:       c.matings,
		Locks:         c.locks,
		LocksBroken:   c.locksBroken,
		Combats:       c.combats,
		Flees:         c.flees,
		Deposits:      c.deposits,
		HoardsCreated: c.hoardsCreated,
		HoardsPruned:  c.hoardsPruned,
		Constructions: c.constructions,

		SatietyMean: mean,
		SatietyStd:  std,
		SatietyP10:  p10,
		SatietyP50:  p50,
		SatietyP90:  p90,

		LifespanMean: Mean(c.lifespans),

		WanderLustMean:   Mean(s.WanderLust),
		HoardingMean:     Mean(s.Hoarding),
		RiskAversionMean: Mean(s.Risk),
		MatingMean:       Mean(s.Mating),
		AggressionMean:   Mean(s.Aggression),
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.starved = 0
	c.killed = 0
	c.matings = 0
	c.locks = 0
	c.locksBroken = 0
	c.combats = 0
	c.flees = 0
	c.deposits = 0
	c.hoardsCreated = 0
	c.hoardsPruned = 0
	c.constructions = 0
	c.lifespans = c.lifespans[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
