package game

import (
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/observer"
	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/telemetry"
)

func init() {
	config.MustInit("")
}

type framesSeen struct {
	ticks []int32
}

func (f *framesSeen) Publish(frame observer.FrameMsg) error {
	f.ticks = append(f.ticks, frame.Tick)
	return nil
}

func TestUpdateRunsSpeedSubSteps(t *testing.T) {
	tests := []struct {
		speed int
		want  int32
	}{
		{1, 1},
		{3, 3},
		{10, 10},
	}
	for _, tt := range tests {
		g := New(Options{Seed: 1, Speed: tt.speed})
		g.Update()
		if g.Tick() != tt.want {
			t.Errorf("speed %d: tick = %d, want %d", tt.speed, g.Tick(), tt.want)
		}
	}
}

func TestSetSpeedClamps(t *testing.T) {
	g := New(Options{Seed: 1})
	maxSteps := config.Cfg().Physics.MaxStepsFrame

	tests := []struct {
		in, want int
	}{
		{-4, 1},
		{0, 1},
		{5, 5},
		{maxSteps + 20, maxSteps},
	}
	for _, tt := range tests {
		g.SetSpeed(tt.in)
		if g.Speed() != tt.want {
			t.Errorf("SetSpeed(%d): speed = %d, want %d", tt.in, g.Speed(), tt.want)
		}
	}
}

func TestPauseStopsUpdate(t *testing.T) {
	g := New(Options{Seed: 1, Speed: 2})
	g.TogglePause()
	g.Update()
	if g.Tick() != 0 {
		t.Fatalf("tick = %d while paused", g.Tick())
	}
	g.TogglePause()
	g.Update()
	if g.Tick() != 2 {
		t.Fatalf("tick = %d after resume, want 2", g.Tick())
	}
}

func TestFoundersSeeded(t *testing.T) {
	g := New(Options{Seed: 7})
	cfg := config.Cfg()
	c := g.Counts()
	if c.Beans != cfg.Population.Initial || c.Adults != cfg.Population.Initial {
		t.Errorf("beans = %d adults = %d, want %d", c.Beans, c.Adults, cfg.Population.Initial)
	}
	if c.Food != cfg.Food.InitialFood {
		t.Errorf("food = %d, want %d", c.Food, cfg.Food.InitialFood)
	}
}

func TestRemoveGoneCountsDeathsOnce(t *testing.T) {
	tests := []struct {
		name       string
		fate       components.Fate
		wantDeaths int
	}{
		{"starved", components.FateStarved, 1},
		{"killed", components.FateKilled, 1},
		{"mated", components.FateMated, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Options{Seed: 3})
			before := g.Counts().Beans

			g.beans = g.pop.Beans(g.beans[:0])
			e := g.beans[0]
			g.pop.BeanMap.Get(e).Fate = tt.fate

			g.removeGone()
			g.removeGone()

			if g.pop.Alive(e) {
				t.Fatal("bean still alive")
			}
			if g.grid.Has(e) {
				t.Fatal("bean still indexed")
			}
			if g.totalDeaths != tt.wantDeaths {
				t.Errorf("deaths = %d, want %d", g.totalDeaths, tt.wantDeaths)
			}
			if got := g.Counts().Beans; got != before-1 {
				t.Errorf("beans = %d, want %d", got, before-1)
			}
		})
	}
}

func TestPruneKeepsReferencedHoards(t *testing.T) {
	g := New(Options{Seed: 5})

	byBean := g.hoards.Register(100, 100, 37.5)
	byCocoon := g.hoards.Register(500, 500, 37.5)
	orphan := g.hoards.Register(900, 900, 37.5)

	g.beans = g.pop.Beans(g.beans[:0])
	g.pop.BeanMap.Get(g.beans[0]).Hoard = byBean
	g.pop.SpawnCocoon(500, 500, components.Cocoon{InheritedHoard: byCocoon, Radius: 13})

	g.pruneHoards()

	for _, id := range []components.HoardID{byBean, byCocoon} {
		if _, ok := g.hoards.Get(id); !ok {
			t.Errorf("hoard %d pruned while referenced", id)
		}
	}
	if _, ok := g.hoards.Get(orphan); ok {
		t.Errorf("hoard %d survived without references", orphan)
	}
}

func TestExtinction(t *testing.T) {
	g := New(Options{Seed: 9})
	g.beans = g.pop.Beans(g.beans[:0])
	for _, e := range g.beans {
		g.pop.BeanMap.Get(e).Fate = components.FateStarved
	}
	g.removeGone()
	if !g.Extinct() {
		t.Fatal("expected extinction")
	}
	if g.totalDeaths != config.Cfg().Population.Initial {
		t.Errorf("deaths = %d", g.totalDeaths)
	}
}

func TestPublishesEveryNTicks(t *testing.T) {
	seen := &framesSeen{}
	g := New(Options{Seed: 2, Publisher: seen})
	every := int32(config.Cfg().Observer.EveryTicks)

	for i := int32(0); i < every*3; i++ {
		g.Step()
	}
	if len(seen.ticks) != 3 {
		t.Fatalf("frames = %d, want 3", len(seen.ticks))
	}
	for i, tick := range seen.ticks {
		if tick != every*int32(i+1) {
			t.Errorf("frame %d at tick %d", i, tick)
		}
	}
}

func TestFrameMatchesSchema(t *testing.T) {
	s, err := jsonschema.Compile("../observer/frame.schema.json")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	g := New(Options{Seed: 11})
	for i := 0; i < 300; i++ {
		g.Step()
	}

	frame := g.Frame()
	if len(frame.Beans) != g.Counts().Beans {
		t.Errorf("frame beans = %d, counts = %d", len(frame.Beans), g.Counts().Beans)
	}

	b, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestStatsWindowFlushes(t *testing.T) {
	var windows []telemetry.WindowStats
	g := New(Options{Seed: 4, StatsCallback: func(s telemetry.WindowStats) {
		windows = append(windows, s)
	}})

	ticks := g.collector.WindowDurationTicks()
	for i := int32(0); i < ticks*2; i++ {
		g.Step()
	}
	if len(windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(windows))
	}
	w := windows[1]
	if w.WindowEndTick != ticks*2 {
		t.Errorf("window end = %d, want %d", w.WindowEndTick, ticks*2)
	}
	if w.Population+w.Starved+w.Killed == 0 && w.Cocoons == 0 {
		t.Errorf("empty window: %+v", w)
	}
}

func TestEventsReachLifetimeTracker(t *testing.T) {
	g := New(Options{Seed: 6})
	g.onEvent(systems.Event{Kind: systems.EventBirth, Bean: 9999})
	if g.Lifetime(9999) == nil {
		t.Fatal("birth not registered")
	}
	if g.totalBirths != 1 {
		t.Errorf("births = %d", g.totalBirths)
	}
}
