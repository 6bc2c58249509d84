package telemetry

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newProfiler(window int) (*StepProfiler, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	p := NewStepProfiler(window)
	p.now = clk.now
	return p, clk
}

// step runs one profiled step of 10 beans: 1ms of brain, 3ms of physics.
func step(p *StepProfiler, clk *fakeClock) {
	p.StartTick()
	p.StartPhase(PhaseBrain, 10)
	clk.advance(time.Millisecond)
	p.StartPhase(PhasePhysics, 10)
	clk.advance(3 * time.Millisecond)
	p.EndTick()
}

func TestStepProfilerPhaseCost(t *testing.T) {
	p, clk := newProfiler(10)
	step(p, clk)
	step(p, clk)

	s := p.Stats()
	if s.Steps != 2 {
		t.Fatalf("steps = %d, want 2", s.Steps)
	}
	if s.AvgStep != 4*time.Millisecond || s.MaxStep != 4*time.Millisecond {
		t.Errorf("avg/max step = %v/%v, want 4ms/4ms", s.AvgStep, s.MaxStep)
	}
	if s.TicksPerSecond != 250 {
		t.Errorf("ticks/s = %v, want 250", s.TicksPerSecond)
	}

	tests := []struct {
		phase   Phase
		avg     time.Duration
		pct     float64
		perBean time.Duration
	}{
		{PhaseBrain, time.Millisecond, 25, 100 * time.Microsecond},
		{PhasePhysics, 3 * time.Millisecond, 75, 300 * time.Microsecond},
		{PhaseFood, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			if s.PhaseAvg[tt.phase] != tt.avg {
				t.Errorf("avg = %v, want %v", s.PhaseAvg[tt.phase], tt.avg)
			}
			if s.PhasePct[tt.phase] != tt.pct {
				t.Errorf("pct = %v, want %v", s.PhasePct[tt.phase], tt.pct)
			}
			if s.PerItem[tt.phase] != tt.perBean {
				t.Errorf("per bean = %v, want %v", s.PerItem[tt.phase], tt.perBean)
			}
		})
	}
	if s.ItemsAvg[PhaseBrain] != 10 {
		t.Errorf("beans per step = %v, want 10", s.ItemsAvg[PhaseBrain])
	}
}

func TestStepProfilerWindowKeepsLatest(t *testing.T) {
	p, clk := newProfiler(3)
	for i := 1; i <= 5; i++ {
		p.StartTick()
		p.StartPhase(PhaseMotion, 0)
		clk.advance(time.Duration(i) * time.Millisecond)
		p.EndTick()
	}

	s := p.Stats()
	if s.Steps != 3 {
		t.Fatalf("steps = %d, want 3", s.Steps)
	}
	// 3, 4 and 5 ms survive.
	if s.AvgStep != 4*time.Millisecond {
		t.Errorf("avg step = %v, want 4ms", s.AvgStep)
	}
	if s.MaxStep != 5*time.Millisecond {
		t.Errorf("max step = %v, want 5ms", s.MaxStep)
	}
	if s.PerItem[PhaseMotion] != 0 {
		t.Errorf("per item without items = %v, want 0", s.PerItem[PhaseMotion])
	}
}

func TestStepProfilerEmpty(t *testing.T) {
	p, _ := newProfiler(0)
	s := p.Stats()
	if s.Steps != 0 || s.AvgStep != 0 || s.TicksPerSecond != 0 || s.FPS != 0 {
		t.Errorf("empty stats = %+v", s)
	}
	if len(p.ring) != 60 {
		t.Errorf("default window = %d, want 60", len(p.ring))
	}
}

func TestStepProfilerStepsPerFrame(t *testing.T) {
	p, clk := newProfiler(10)
	p.RecordFrame()
	if s := p.Stats(); s.FrameDuration != 0 || s.FPS != 0 {
		t.Fatalf("first frame has no duration, got %v", s.FrameDuration)
	}

	// Speed x3: three steps inside one 20ms frame.
	for i := 0; i < 3; i++ {
		step(p, clk)
	}
	clk.advance(8 * time.Millisecond)
	p.RecordFrame()

	s := p.Stats()
	if s.StepsPerFrame != 3 {
		t.Errorf("steps per frame = %d, want 3", s.StepsPerFrame)
	}
	if s.FrameDuration != 20*time.Millisecond || s.FPS != 50 {
		t.Errorf("frame = %v (%v fps), want 20ms (50 fps)", s.FrameDuration, s.FPS)
	}

	// Paused frame.
	clk.advance(10 * time.Millisecond)
	p.RecordFrame()
	if s := p.Stats(); s.StepsPerFrame != 0 {
		t.Errorf("paused steps per frame = %d, want 0", s.StepsPerFrame)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	p, clk := newProfiler(10)
	step(p, clk)
	p.StartTick()
	p.StartPhase(PhaseFood, 40)
	clk.advance(4 * time.Millisecond)
	p.EndTick()

	row := p.Stats().ToCSV(600)
	if row.WindowEnd != 600 {
		t.Errorf("window end = %d", row.WindowEnd)
	}
	if row.AvgStepUS != 4000 || row.MaxStepUS != 4000 {
		t.Errorf("avg/max us = %d/%d, want 4000/4000", row.AvgStepUS, row.MaxStepUS)
	}
	if row.BeansAvg != 5 || row.FoodAvg != 20 {
		t.Errorf("beans/food avg = %v/%v, want 5/20", row.BeansAvg, row.FoodAvg)
	}
	if row.BrainPerBeanNS != 100_000 || row.PhysPerBeanNS != 300_000 {
		t.Errorf("per bean ns = %d/%d", row.BrainPerBeanNS, row.PhysPerBeanNS)
	}
	if row.FoodPct != 50 {
		t.Errorf("food pct = %v, want 50", row.FoodPct)
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseReproduction.String(); got != "reproduction" {
		t.Errorf("got %q", got)
	}
	if got := Phase(200).String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}
