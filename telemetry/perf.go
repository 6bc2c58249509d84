package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one pass of the simulation step.
type Phase uint8

const (
	PhaseBrain Phase = iota
	PhaseMotion
	PhasePhysics
	PhaseFeeding
	PhaseReproduction
	PhaseCleanup
	PhaseFood
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"brain", "motion", "physics", "feeding",
	"reproduction", "cleanup", "food", "telemetry",
}

func (p Phase) String() string {
	if p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists the step phases in execution order.
var Phases = [numPhases]Phase{
	PhaseBrain, PhaseMotion, PhasePhysics, PhaseFeeding,
	PhaseReproduction, PhaseCleanup, PhaseFood, PhaseTelemetry,
}

// stepCost is what one step spent in each phase and how many entities
// (beans, cocoons or food items) each phase walked.
type stepCost struct {
	total time.Duration
	spent [numPhases]time.Duration
	items [numPhases]int
}

// StepProfiler keeps a ring of the last N step costs plus the render cadence:
// how long a frame took and how many steps the speed multiplier packed into it.
type StepProfiler struct {
	ring   []stepCost
	next   int
	filled int

	cur        stepCost
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame     time.Time
	frame         time.Duration
	stepsInFrame  int
	stepsPerFrame int

	now func() time.Time
}

// NewStepProfiler returns a profiler averaging over window steps.
func NewStepProfiler(window int) *StepProfiler {
	if window < 1 {
		window = 60
	}
	return &StepProfiler{ring: make([]stepCost, window), now: time.Now}
}

// StartTick marks the beginning of a step.
func (p *StepProfiler) StartTick() {
	p.cur = stepCost{}
	p.inPhase = false
	p.stepStart = p.now()
}

// StartPhase closes the running phase and opens the next one. items is the
// number of entities the phase is about to walk; zero when it is not per-entity.
func (p *StepProfiler) StartPhase(phase Phase, items int) {
	t := p.now()
	p.closePhase(t)
	p.phase = phase
	p.inPhase = true
	p.phaseStart = t
	p.cur.items[phase] += items
}

func (p *StepProfiler) closePhase(t time.Time) {
	if p.inPhase {
		p.cur.spent[p.phase] += t.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the step and pushes it into the ring.
func (p *StepProfiler) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.cur.total = t.Sub(p.stepStart)
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
	p.stepsInFrame++
}

// RecordFrame closes a rendered frame. Steps ended since the previous frame
// become its step count; zero while paused.
func (p *StepProfiler) RecordFrame() {
	t := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = t.Sub(p.lastFrame)
	}
	p.lastFrame = t
	p.stepsPerFrame = p.stepsInFrame
	p.stepsInFrame = 0
}

// PerfStats summarises the profiler window.
type PerfStats struct {
	Steps          int
	AvgStep        time.Duration
	MaxStep        time.Duration
	PhaseAvg       [numPhases]time.Duration
	PhasePct       [numPhases]float64
	PerItem        [numPhases]time.Duration // phase cost per entity walked
	ItemsAvg       [numPhases]float64
	TicksPerSecond float64
	FrameDuration  time.Duration
	FPS            float64
	StepsPerFrame  int
}

// Stats averages the recorded steps.
func (p *StepProfiler) Stats() PerfStats {
	s := PerfStats{
		Steps:         p.filled,
		FrameDuration: p.frame,
		StepsPerFrame: p.stepsPerFrame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var spent [numPhases]time.Duration
	var items [numPhases]int
	for i := 0; i < p.filled; i++ {
		c := &p.ring[i]
		total += c.total
		s.MaxStep = max(s.MaxStep, c.total)
		for ph := range c.spent {
			spent[ph] += c.spent[ph]
			items[ph] += c.items[ph]
		}
	}

	n := time.Duration(p.filled)
	s.AvgStep = total / n
	if s.AvgStep > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgStep)
	}
	for ph := range spent {
		s.PhaseAvg[ph] = spent[ph] / n
		s.ItemsAvg[ph] = float64(items[ph]) / float64(p.filled)
		if total > 0 {
			s.PhasePct[ph] = float64(spent[ph]) / float64(total) * 100
		}
		if items[ph] > 0 {
			s.PerItem[ph] = spent[ph] / time.Duration(items[ph])
		}
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Duration("avg_step", s.AvgStep),
		slog.Duration("max_step", s.MaxStep),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs,
			slog.Float64("fps", s.FPS),
			slog.Int("steps_per_frame", s.StepsPerFrame))
	}
	for _, ph := range Phases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	attrs = append(attrs,
		slog.Duration("brain_per_bean", s.PerItem[PhaseBrain]),
		slog.Duration("physics_per_bean", s.PerItem[PhasePhysics]))
	return slog.GroupValue(attrs...)
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgStepUS      int64   `csv:"avg_step_us"`
	MaxStepUS      int64   `csv:"max_step_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
	StepsPerFrame  int     `csv:"steps_per_frame"`
	BeansAvg       float64 `csv:"beans_avg"`
	FoodAvg        float64 `csv:"food_avg"`
	BrainPct       float64 `csv:"brain_pct"`
	MotionPct      float64 `csv:"motion_pct"`
	PhysicsPct     float64 `csv:"physics_pct"`
	FeedingPct     float64 `csv:"feeding_pct"`
	ReproPct       float64 `csv:"reproduction_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	FoodPct        float64 `csv:"food_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	BrainPerBeanNS int64   `csv:"brain_per_bean_ns"`
	PhysPerBeanNS  int64   `csv:"physics_per_bean_ns"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgStepUS:      s.AvgStep.Microseconds(),
		MaxStepUS:      s.MaxStep.Microseconds(),
		TicksPerSecond: s.TicksPerSecond,
		StepsPerFrame:  s.StepsPerFrame,
		BeansAvg:       s.ItemsAvg[PhaseBrain],
		FoodAvg:        s.ItemsAvg[PhaseFood],
		BrainPct:       s.PhasePct[PhaseBrain],
		MotionPct:      s.PhasePct[PhaseMotion],
		PhysicsPct:     s.PhasePct[PhasePhysics],
		FeedingPct:     s.PhasePct[PhaseFeeding],
		ReproPct:       s.PhasePct[PhaseReproduction],
		CleanupPct:     s.PhasePct[PhaseCleanup],
		FoodPct:        s.PhasePct[PhaseFood],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
		BrainPerBeanNS: s.PerItem[PhaseBrain].Nanoseconds(),
		PhysPerBeanNS:  s.PerItem[PhasePhysics].Nanoseconds(),
	}
}
