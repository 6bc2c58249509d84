package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/traits"
)

func TestFoodSpawnsUpToMax(t *testing.T) {
	s := newSim(t, 61)
	cfg := *s.cfg
	cfg.Food.MaxFood = 5
	field := NewFoodField(&cfg, s.pop, nil, rand.New(rand.NewSource(1)))

	field.Update(float32(cfg.Food.SpawnIntervalMs) * 20)
	if field.Count() != 5 {
		t.Errorf("count = %d, want capped at 5", field.Count())
	}
}

func TestFoodSpawnsInsideWorld(t *testing.T) {
	s := newSim(t, 62)
	fert := NewFertilityField(32, 32, s.cfg.Derived.WorldW32, s.cfg.Derived.WorldH32, FertilityParams{
		Frequency: 0.002, Octaves: 3, Persistence: 0.5, Seed: 7,
	})
	field := NewFoodField(s.cfg, s.pop, fert, rand.New(rand.NewSource(2)))
	field.Seed(200)

	for _, e := range s.pop.Foods(nil) {
		pos := s.pop.PosMap.Get(e)
		if pos.X < 0 || pos.Y < 0 || pos.X > s.cfg.Derived.WorldW32 || pos.Y > s.cfg.Derived.WorldH32 {
			t.Fatalf("food outside world at %+v", *pos)
		}
		f := s.pop.FoodMap.Get(e)
		if f.Satiety <= 0 || f.Stash != components.NoHoard {
			t.Errorf("wild food = %+v", *f)
		}
	}
}

func TestEatingAppliesBonus(t *testing.T) {
	s := newSim(t, 63)
	e := s.spawn(700, 700, 40)
	s.food.DropFood(705, 700, components.FoodLoad{
		Satiety: 5,
		Bonus:   components.Bonus{Attr: traits.Constitution, Value: 1},
	}, components.NoHoard)

	before := s.pop.Bean(e).MaxSatiety
	s.brain.Feed(s.pop.Beans(nil))

	b := s.pop.Bean(e)
	if b.Satiety != 45 {
		t.Errorf("satiety = %v, want 45", b.Satiety)
	}
	if b.MaxSatiety != before+float32(s.cfg.Satiety.MaxConMult) {
		t.Errorf("max satiety = %v, want %v", b.MaxSatiety, before+float32(s.cfg.Satiety.MaxConMult))
	}
	if s.food.Count() != 0 {
		t.Error("eaten food left in the world")
	}
}

func TestFullBeanPicksUpSurplus(t *testing.T) {
	s := newSim(t, 64)
	e := s.spawn(700, 700, 1000)
	b := s.pop.Bean(e)
	b.Satiety = b.MaxSatiety
	b.IsFull = true
	s.food.DropFood(705, 700, components.FoodLoad{Satiety: 2}, components.NoHoard)

	s.brain.Feed(s.pop.Beans(nil))

	b = s.pop.Bean(e)
	if !b.Carrying || b.Carried.Satiety != 2 {
		t.Fatalf("carrying = %v %+v", b.Carrying, b.Carried)
	}
	if b.State != components.StateHaulingFood {
		t.Errorf("state = %v, want hauling_food", b.State)
	}
	if _, ok := s.hoards.Get(b.Hoard); !ok {
		t.Error("no hoard founded for the haul")
	}
}

func TestOwnStashIsNotPickedUp(t *testing.T) {
	s := newSim(t, 65)
	e := s.spawn(700, 700, 1000)
	b := s.pop.Bean(e)
	b.Satiety = b.MaxSatiety
	b.IsFull = true
	b.Hoard = s.hoards.Register(700, 700, 40)
	s.food.DropFood(705, 700, components.FoodLoad{Satiety: 2}, b.Hoard)

	s.brain.Feed(s.pop.Beans(nil))

	if s.pop.Bean(e).Carrying {
		t.Error("picked up food from its own stash")
	}
	if s.food.Count() != 1 {
		t.Error("stash was consumed")
	}
}
