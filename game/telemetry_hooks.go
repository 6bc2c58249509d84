package game

import (
	"log/slog"

	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/telemetry"
	"github.com/pthm-cable/beans/traits"
)

// onEvent is the sink every system reports to.
func (g *Game) onEvent(ev systems.Event) {
	if ev.Kind == systems.EventBirth {
		g.totalBirths++
		g.lifetime.Register(ev.Bean, g.tick)
	}
	g.collector.Record(ev)
	g.lifetime.Record(ev)
	if err := g.output.WriteEvent(telemetry.NewEventRecord(g.runID, g.tick, ev)); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// sample reads the world state a stats window reports.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		Food:        g.food.Count(),
		Hoards:      g.hoards.Len(),
		TownCenters: g.hoards.TownCenters(),
	}

	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		b := g.pop.ActiveBean(e)
		if b == nil {
			continue
		}
		s.Population++
		if b.IsAdult {
			s.Adults++
		}
		switch b.Role {
		case traits.RoleWorker:
			s.Workers++
		case traits.RoleGuard:
			s.Guards++
		case traits.RoleExplorer:
			s.Explorers++
		}
		s.Satieties = append(s.Satieties, float64(b.Satiety))
		s.WanderLust = append(s.WanderLust, float64(b.Strategy.WanderLust))
		s.Hoarding = append(s.Hoarding, float64(b.Strategy.HoardingThreshold))
		s.Risk = append(s.Risk, float64(b.Strategy.RiskAversion))
		s.Mating = append(s.Mating, float64(b.Strategy.MatingThreshold))
		s.Aggression = append(s.Aggression, float64(b.Strategy.Aggression))
	}

	g.cocoons = g.pop.Cocoons(g.cocoons[:0])
	s.Cocoons = len(g.cocoons)
	return s
}
