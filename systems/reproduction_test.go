package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/traits"
)

func TestMateBuildsCocoon(t *testing.T) {
	s := newSim(t, 21)
	a := s.spawn(100, 100, 70)
	b := s.spawn(120, 100, 45)

	if !s.repro.Mate(a, b) {
		t.Fatal("Mate returned false")
	}
	if !s.pop.Bean(a).Gone() || !s.pop.Bean(b).Gone() {
		t.Error("parents not retired")
	}

	cocoons := s.pop.Cocoons(nil)
	if len(cocoons) != 1 {
		t.Fatalf("cocoons = %d, want 1", len(cocoons))
	}
	c := s.pop.CocoonMap.Get(cocoons[0])
	if c.TotalSatiety != 115 {
		t.Errorf("total satiety = %v, want 115", c.TotalSatiety)
	}
	if pos := s.pop.PosMap.Get(cocoons[0]); pos.X != 110 || pos.Y != 100 {
		t.Errorf("cocoon at %+v, want midpoint", *pos)
	}

	// Retired parents cannot mate again
	if s.repro.Mate(a, b) {
		t.Error("retired parents mated twice")
	}
}

func TestInheritedHoard(t *testing.T) {
	tests := []struct {
		name      string
		a, b      bool // whether each parent has a hoard
		same      bool
		wantMerge bool
		wantNone  bool
	}{
		{name: "shared", a: true, b: true, same: true},
		{name: "distinct merge", a: true, b: true, wantMerge: true},
		{name: "only one", a: true},
		{name: "neither", wantNone: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSim(t, 22)
			ha, hb := components.NoHoard, components.NoHoard
			if tt.a {
				ha = s.hoards.Register(0, 0, 40)
			}
			if tt.b {
				hb = s.hoards.Register(200, 0, 20)
			}
			if tt.same {
				hb = ha
			}

			got := s.repro.inheritedHoard(ha, hb)
			switch {
			case tt.wantNone:
				if got != components.NoHoard {
					t.Errorf("got %v, want NoHoard", got)
				}
			case tt.wantMerge:
				h, ok := s.hoards.Get(got)
				if !ok || got == ha || got == hb {
					t.Fatalf("got %v, want a new merged hoard", got)
				}
				if h.X != 100 || h.Radius != 30 {
					t.Errorf("merged = %+v", h)
				}
			default:
				if got != ha {
					t.Errorf("got %v, want %v", got, ha)
				}
			}
		})
	}
}

func TestOffspringConserveSatiety(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		s := newSim(t, int64(30+n))
		c := components.Cocoon{
			TotalSatiety: 137.3,
			Attrs: [2]traits.Attributes{
				{Strength: 4, Speed: 8, Constitution: 12},
				{Strength: 10, Speed: 2, Constitution: 6},
			},
			Strategies: [2]genetics.SurvivalStrategy{testStrategy(), testStrategy()},
		}
		children := s.repro.spawnOffspring(c, components.Position{X: 500, Y: 500}, n)
		if len(children) != n {
			t.Fatalf("n=%d: got %d children", n, len(children))
		}
		var sum float64
		for _, e := range children {
			b := s.pop.Bean(e)
			sum += float64(b.Satiety)
			if b.IsAdult {
				t.Errorf("n=%d: newborn is adult", n)
			}
			if r := s.pop.BodyMap.Get(e).Radius; r != float32(s.cfg.Bean.ChildRadius) {
				t.Errorf("n=%d: radius %v", n, r)
			}
		}
		if math.Abs(sum-137.3) > 1e-3 {
			t.Errorf("n=%d: offspring satiety sum %v, want 137.3", n, sum)
		}
	}
}

func TestShareSatietyCapsAtMax(t *testing.T) {
	tests := []struct {
		name    string
		max     []float32
		total   float32
		want    []float32
		spilled float32
	}{
		{name: "equal split", max: []float32{100, 100}, total: 120, want: []float32{60, 60}},
		{name: "small child tops up siblings", max: []float32{50, 100, 200}, total: 240, want: []float32{50, 95, 95}},
		{name: "two capped", max: []float32{50, 100, 200}, total: 330, want: []float32{50, 100, 180}},
		{name: "all full", max: []float32{82, 90}, total: 200, want: []float32{82, 90}, spilled: 28},
		{name: "nothing to share", max: []float32{90, 90}, total: 0, want: []float32{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beans := make([]components.Bean, len(tt.max))
			for i, m := range tt.max {
				beans[i].MaxSatiety = m
			}
			spilled := shareSatiety(beans, tt.total)
			for i, b := range beans {
				if math.Abs(float64(b.Satiety-tt.want[i])) > 1e-3 {
					t.Errorf("bean %d satiety = %v, want %v", i, b.Satiety, tt.want[i])
				}
			}
			if math.Abs(float64(spilled-tt.spilled)) > 1e-3 {
				t.Errorf("spilled = %v, want %v", spilled, tt.spilled)
			}
		})
	}
}

func TestHatchlingsNeverExceedMax(t *testing.T) {
	s := newSim(t, 41)
	weak := traits.Attributes{Strength: 1, Speed: 1, Constitution: 1}
	c := components.Cocoon{
		TotalSatiety: 400,
		Attrs:        [2]traits.Attributes{weak, weak},
		Strategies:   [2]genetics.SurvivalStrategy{testStrategy(), testStrategy()},
	}
	children := s.repro.spawnOffspring(c, components.Position{X: 500, Y: 500}, 2)

	var sum float64
	for _, e := range children {
		b := s.pop.Bean(e)
		if b.Satiety > b.MaxSatiety {
			t.Errorf("hatchling satiety %v above max %v", b.Satiety, b.MaxSatiety)
		}
		if b.Satiety != b.MaxSatiety {
			t.Errorf("hatchling not filled: %v of %v", b.Satiety, b.MaxSatiety)
		}
		sum += float64(b.Satiety)
	}
	if got := sum + float64(s.repro.Spilled); math.Abs(got-400) > 1e-3 {
		t.Errorf("kept %v + spilled %v = %v, want 400", sum, s.repro.Spilled, got)
	}
	if s.repro.Spilled <= 0 {
		t.Error("expected spilled satiety to be recorded")
	}
	for _, ev := range s.events {
		if ev.Kind == EventBirth && ev.Value > s.cfg.MaxSatiety(1.5) {
			t.Errorf("birth event carries %v, above any hatchling max", ev.Value)
		}
	}
}

func TestCocoonHatchesAfterGestation(t *testing.T) {
	s := newSim(t, 23)
	a := s.spawn(300, 300, 60)
	b := s.spawn(320, 300, 60)
	hoard := s.hoards.Register(310, 300, 30)
	s.pop.Bean(a).Hoard = hoard
	s.pop.Bean(b).Hoard = hoard
	s.repro.Mate(a, b)
	s.pop.Remove(a)
	s.pop.Remove(b)

	dt := s.cfg.Derived.DT
	ticks := int(s.cfg.Derived.GestationMs/dt) - 1
	for i := 0; i < ticks; i++ {
		s.repro.Update(dt)
	}
	if len(s.pop.Cocoons(nil)) != 1 {
		t.Fatal("cocoon hatched early")
	}
	for i := 0; i < 3; i++ {
		s.repro.Update(dt)
	}
	if len(s.pop.Cocoons(nil)) != 0 {
		t.Fatal("cocoon did not hatch")
	}

	beans := s.pop.Beans(nil)
	lo, hi := s.cfg.Cocoon.MinOffspring, s.cfg.Cocoon.MaxOffspring
	if len(beans) < lo || len(beans) > hi {
		t.Fatalf("offspring = %d, want %d..%d", len(beans), lo, hi)
	}
	for _, e := range beans {
		if got := s.pop.Bean(e).Hoard; got != hoard {
			t.Errorf("offspring hoard = %v, want %v", got, hoard)
		}
		if !s.grid.Has(e) {
			t.Error("offspring not indexed")
		}
	}
	if !s.hasEvent(EventBirth) {
		t.Error("no birth event")
	}
}
