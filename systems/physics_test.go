package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestPhysicsDragStopsBean(t *testing.T) {
	s := newSim(t, 51)
	phys := NewPhysicsSystem(s.cfg, s.pop, s.grid)
	e := s.spawn(1000, 1000, 50)
	vel := s.pop.VelMap.Get(e)
	vel.X = 200

	beans := s.pop.Beans(nil)
	// 200 px/s under 400 px/s^2 drag stops within half a second
	for i := 0; i < 31; i++ {
		phys.Update(beans, s.cfg.Derived.DT)
	}
	vel = s.pop.VelMap.Get(e)
	if vel.X != 0 || vel.Y != 0 {
		t.Errorf("velocity = %+v, want rest", *vel)
	}
	if x := s.pop.PosMap.Get(e).X; x <= 1000 || x > 1051 {
		t.Errorf("x = %v, want about 1050", x)
	}
}

func TestPhysicsClampsToBounds(t *testing.T) {
	s := newSim(t, 52)
	phys := NewPhysicsSystem(s.cfg, s.pop, s.grid)
	e := s.spawn(20, 500, 50)
	s.pop.VelMap.Get(e).X = -3000

	phys.Update(s.pop.Beans(nil), s.cfg.Derived.DT)

	r := s.pop.BodyMap.Get(e).Radius
	if x := s.pop.PosMap.Get(e).X; x != r {
		t.Errorf("x = %v, want clamped to radius %v", x, r)
	}
	if vx := s.pop.VelMap.Get(e).X; vx <= 0 {
		t.Errorf("vx = %v, want bounced positive", vx)
	}
	if !s.pop.BodyMap.Get(e).Touching {
		t.Error("wall contact not flagged")
	}
}

func TestPhysicsSeparatesOverlap(t *testing.T) {
	s := newSim(t, 53)
	phys := NewPhysicsSystem(s.cfg, s.pop, s.grid)
	a := s.spawn(500, 500, 50)
	b := s.spawn(510, 500, 50)

	calls := 0
	phys.Filter = func(x, y ecs.Entity) bool {
		calls++
		return false
	}
	phys.Update(s.pop.Beans(nil), s.cfg.Derived.DT)

	if calls != 1 {
		t.Errorf("filter called %d times, want once per pair", calls)
	}
	pa, pb := s.pop.PosMap.Get(a), s.pop.PosMap.Get(b)
	minDist := s.pop.BodyMap.Get(a).Radius + s.pop.BodyMap.Get(b).Radius
	if d := distance(pa.X, pa.Y, pb.X, pb.Y); d < minDist-1e-3 {
		t.Errorf("distance %v after separation, want >= %v", d, minDist)
	}
}

func TestPhysicsFilterSuppressesResponse(t *testing.T) {
	s := newSim(t, 54)
	phys := NewPhysicsSystem(s.cfg, s.pop, s.grid)
	a := s.spawn(500, 500, 50)
	b := s.spawn(510, 500, 50)
	phys.Filter = func(x, y ecs.Entity) bool { return true }

	phys.Update(s.pop.Beans(nil), s.cfg.Derived.DT)

	pa, pb := s.pop.PosMap.Get(a), s.pop.PosMap.Get(b)
	if pa.X != 500 || pb.X != 510 {
		t.Errorf("suppressed pair moved: %v, %v", pa.X, pb.X)
	}
}
