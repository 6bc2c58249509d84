package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
)

// Feed lets every bean in the snapshot eat or pick up the food it touches.
func (s *BrainSystem) Feed(beans []ecs.Entity) {
	foodRadius := float32(s.cfg.Food.Radius)
	for _, e := range beans {
		b := s.pop.ActiveBean(e)
		if b == nil || b.Carrying {
			continue
		}
		pos := s.pop.PosMap.Get(e)
		reach := s.pop.BodyMap.Get(e).Radius + foodRadius
		s.foods = s.food.ListFoodNear(s.foods[:0], pos.X, pos.Y, reach)
		for _, f := range s.foods {
			if s.touchFood(e, b, pos, f) {
				break
			}
		}
	}
}

// touchFood handles contact with one food item and reports whether the
// bean is done feeding for this tick.
func (s *BrainSystem) touchFood(e ecs.Entity, b *components.Bean, pos *components.Position, f FoodItem) bool {
	if !b.IsFull {
		s.eat(b, f)
		return false
	}
	if b.Satiety < b.Strategy.HoardingThreshold || b.IsSeekingMate || b.State == components.StateFleeing {
		return true
	}
	// Never pick food back up from the bean's own stash
	if f.Stash != components.NoHoard && f.Stash == b.Hoard {
		return false
	}
	s.pickUp(e, b, pos, f)
	return true
}

// eat consumes a food item, applying its satiety and any attribute bonus.
func (s *BrainSystem) eat(b *components.Bean, f FoodItem) {
	s.food.RemoveFood(f.E)
	if f.Bonus.Value != 0 {
		b.Attrs.Add(f.Bonus.Attr, f.Bonus.Value, float32(s.cfg.Attributes.Min), float32(s.cfg.Attributes.Max))
		b.MaxSatiety = s.cfg.MaxSatiety(b.Attrs.Constitution)
	}
	b.Satiety = min(b.MaxSatiety, b.Satiety+f.Satiety)
	s.updateFullness(b)
}

// pickUp starts a haul to the bean's hoard, founding one if needed.
func (s *BrainSystem) pickUp(e ecs.Entity, b *components.Bean, pos *components.Position, f FoodItem) {
	s.food.RemoveFood(f.E)
	b.Carrying = true
	b.Carried = f.FoodLoad
	s.ensureHoard(b, pos)
	b.IsGuarding = false
	b.Enemy = noEntity
	b.State = components.StateHaulingFood
	b.PreviousState = components.StateHaulingFood
	b.StateTimer = 0
}
