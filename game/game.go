// Package game wires the simulation systems together and advances the world
// one fixed step at a time. It never draws; renderers read its state.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/telemetry"
)

// fertilityGrid is the resolution of the food fertility map.
const fertilityGrid = 128

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	pop       *systems.Population
	grid      *systems.SpatialGrid
	hoards    *systems.HoardRegistry
	fertility *systems.FertilityField
	food      *systems.FoodField

	brain   *systems.BrainSystem
	motion  *systems.MotionSystem
	physics *systems.PhysicsSystem
	repro   *systems.ReproductionSystem
	combat  *systems.CombatSystem

	// Telemetry
	runID         string
	collector     *telemetry.Collector
	perf          *telemetry.StepProfiler
	bookmarks     *telemetry.BookmarkDetector
	lifetime      *telemetry.LifetimeTracker
	output        *telemetry.OutputManager
	publisher     FramePublisher
	logStats      bool
	statsCallback func(telemetry.WindowStats)

	// State
	tick    int32
	paused  bool
	speed   int
	extinct bool

	totalBirths int
	totalDeaths int

	// Scratch buffers reused every step
	beans   []ecs.Entity
	cocoons []ecs.Entity
	live    map[components.HoardID]struct{}
}

// New creates a world and seeds its founding population and food.
func New(opts Options) *Game {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		seed:          opts.Seed,
		runID:         opts.RunID,
		output:        opts.Output,
		publisher:     opts.Publisher,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		live:          make(map[components.HoardID]struct{}),
	}
	g.SetSpeed(opts.Speed)

	g.pop = systems.NewPopulation()
	g.grid = systems.NewSpatialGrid(float32(cfg.Physics.GridCellSize))
	g.hoards = systems.NewHoardRegistry(cfg.TownCenter.TriggerDeposits, float32(cfg.TownCenter.Cost))
	g.hoards.Events = g.onEvent

	g.fertility = systems.NewFertilityField(fertilityGrid, fertilityGrid, cfg.Derived.WorldW32, cfg.Derived.WorldH32, systems.FertilityParams{
		Frequency:   cfg.Food.NoiseFrequency,
		Octaves:     cfg.Food.NoiseOctaves,
		Persistence: cfg.Food.NoisePersistence,
		Seed:        opts.Seed,
	})
	g.food = systems.NewFoodField(cfg, g.pop, g.fertility, rng)

	g.brain = systems.NewBrainSystem(cfg, g.pop, g.grid, g.hoards, g.food, rng)
	g.brain.Events = g.onEvent
	g.motion = systems.NewMotionSystem(cfg, g.pop)
	g.repro = systems.NewReproductionSystem(cfg, g.pop, g.grid, g.hoards, rng)
	g.repro.Events = g.onEvent
	g.combat = systems.NewCombatSystem(cfg, g.pop, g.brain, g.repro)
	g.combat.Events = g.onEvent
	g.physics = systems.NewPhysicsSystem(cfg, g.pop, g.grid)
	g.physics.Filter = g.combat.Filter

	g.collector = telemetry.NewCollector(cfg.Telemetry.WindowSec, cfg.Derived.DTSec)
	g.perf = telemetry.NewStepProfiler(cfg.Telemetry.ProfileWindow)
	g.bookmarks = telemetry.NewBookmarkDetector(10)
	g.lifetime = telemetry.NewLifetimeTracker()

	g.food.Seed(cfg.Food.InitialFood)
	g.spawnInitialPopulation()

	return g
}

// Update runs Speed sub-steps unless paused. Each sub-step is a full fixed
// step, so a higher speed never enlarges the integration interval.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.Step()
	}
}

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 {
	return g.tick
}

// RunID returns the run identifier.
func (g *Game) RunID() string {
	return g.runID
}

// Seed returns the RNG seed the world was built from.
func (g *Game) Seed() int64 {
	return g.seed
}

// Speed returns the number of sub-steps per Update.
func (g *Game) Speed() int {
	return g.speed
}

// SetSpeed sets the number of sub-steps per Update.
func (g *Game) SetSpeed(n int) {
	maxSteps := g.cfg.Physics.MaxStepsFrame
	if maxSteps < 1 {
		maxSteps = 1
	}
	g.speed = min(max(n, 1), maxSteps)
}

// Paused reports whether Update is a no-op.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause flips the pause state.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Extinct reports whether no beans or cocoons remain.
func (g *Game) Extinct() bool {
	return g.extinct
}

// Population exposes the entity store for read-only rendering.
func (g *Game) Population() *systems.Population {
	return g.pop
}

// Hoards exposes the hoard registry for read-only rendering.
func (g *Game) Hoards() *systems.HoardRegistry {
	return g.hoards
}

// Fertility exposes the food fertility map.
func (g *Game) Fertility() *systems.FertilityField {
	return g.fertility
}

// Perf returns the step profiler.
func (g *Game) Perf() *telemetry.StepProfiler {
	return g.perf
}

// Lifetime returns the stats accumulated by a living bean, or nil.
func (g *Game) Lifetime(beanID uint32) *telemetry.LifetimeStats {
	return g.lifetime.Get(beanID)
}
