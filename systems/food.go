package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/traits"
)

// FoodItem is a read-only view of a food entity near a query point.
type FoodItem struct {
	E    ecs.Entity
	X, Y float32
	components.Food
}

// FoodWorld is the food collaborator the brain talks to.
type FoodWorld interface {
	ListFoodNear(dst []FoodItem, x, y, radius float32) []FoodItem
	RemoveFood(e ecs.Entity)
	DropFood(x, y float32, load components.FoodLoad, stash components.HoardID) ecs.Entity
}

// FoodField spawns food over a fertility map and indexes it for lookups.
type FoodField struct {
	cfg       *config.Config
	pop       *Population
	grid      *SpatialGrid
	fertility *FertilityField
	rng       *rand.Rand

	spawnTimer float32
	scratch    []ecs.Entity
}

// NewFoodField creates an empty field. fertility may be nil for uniform
// spawning.
func NewFoodField(cfg *config.Config, pop *Population, fertility *FertilityField, rng *rand.Rand) *FoodField {
	return &FoodField{
		cfg:       cfg,
		pop:       pop,
		grid:      NewSpatialGrid(float32(cfg.Physics.GridCellSize)),
		fertility: fertility,
		rng:       rng,
	}
}

// Count returns the number of food items in the world.
func (f *FoodField) Count() int {
	return f.grid.Len()
}

// ListFoodNear appends every food item within radius of (x, y) to dst.
func (f *FoodField) ListFoodNear(dst []FoodItem, x, y, radius float32) []FoodItem {
	f.scratch = f.grid.Query(f.scratch[:0], x, y, radius)
	radiusSq := radius * radius
	for _, e := range f.scratch {
		if !f.pop.Alive(e) {
			continue
		}
		pos := f.pop.PosMap.Get(e)
		if distanceSq(pos.X, pos.Y, x, y) > radiusSq {
			continue
		}
		dst = append(dst, FoodItem{E: e, X: pos.X, Y: pos.Y, Food: *f.pop.FoodMap.Get(e)})
	}
	return dst
}

// RemoveFood deletes a food item. Stale handles are ignored.
func (f *FoodField) RemoveFood(e ecs.Entity) {
	f.grid.Remove(e)
	f.pop.Remove(e)
}

// DropFood places a food item, tagged with the hoard that stashed it.
func (f *FoodField) DropFood(x, y float32, load components.FoodLoad, stash components.HoardID) ecs.Entity {
	e := f.pop.SpawnFood(x, y, components.Food{FoodLoad: load, Stash: stash})
	f.grid.Insert(e, x, y)
	return e
}

// Seed scatters the initial food.
func (f *FoodField) Seed(n int) {
	for i := 0; i < n; i++ {
		f.spawnOne()
	}
}

// Update advances the spawn timer and places food every spawn interval
// until the field is full.
func (f *FoodField) Update(dt float32) {
	interval := float32(f.cfg.Food.SpawnIntervalMs)
	f.spawnTimer += dt
	for f.spawnTimer >= interval {
		f.spawnTimer -= interval
		if f.Count() < f.cfg.Food.MaxFood {
			f.spawnOne()
		}
	}
}

// spawnOne tries a few candidate points and accepts each with probability
// equal to the local fertility. The last candidate is taken regardless so
// a barren map still gets fed.
func (f *FoodField) spawnOne() ecs.Entity {
	w := f.cfg.Derived.WorldW32
	h := f.cfg.Derived.WorldH32
	pad := float32(f.cfg.Movement.TargetPadding)

	attempts := f.cfg.Food.SpawnAttempts
	if attempts < 1 {
		attempts = 1
	}
	var x, y float32
	for i := 0; i < attempts; i++ {
		x = randBetween(f.rng, pad, w-pad)
		y = randBetween(f.rng, pad, h-pad)
		if f.fertility == nil || f.rng.Float32() < f.fertility.Sample(x, y) {
			break
		}
	}
	return f.DropFood(x, y, f.randomLoad(), components.NoHoard)
}

func (f *FoodField) randomLoad() components.FoodLoad {
	values := f.cfg.Food.SatietyValues
	load := components.FoodLoad{Satiety: float32(values[f.rng.Intn(len(values))])}
	if f.rng.Float64() < f.cfg.Food.BonusChance {
		load.Bonus = components.Bonus{
			Attr:  traits.Attr(f.rng.Intn(int(traits.NumAttrs))),
			Value: float32(f.cfg.Food.BonusValue),
		}
	}
	return load
}
