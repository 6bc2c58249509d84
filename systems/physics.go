package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/config"
)

// CollisionFilter is consulted for every touching pair of beans before the
// physical response. Returning true suppresses the response.
type CollisionFilter func(a, b ecs.Entity) bool

// PhysicsSystem integrates bean motion: linear drag, world bounds and
// circle-circle collisions.
type PhysicsSystem struct {
	cfg  *config.Config
	pop  *Population
	grid *SpatialGrid

	Filter CollisionFilter

	neighbors []Neighbor
}

// NewPhysicsSystem creates a new physics system over the bean grid.
func NewPhysicsSystem(cfg *config.Config, pop *Population, grid *SpatialGrid) *PhysicsSystem {
	return &PhysicsSystem{cfg: cfg, pop: pop, grid: grid}
}

// Update integrates every bean in the snapshot by dt milliseconds, then
// resolves collisions.
func (s *PhysicsSystem) Update(beans []ecs.Entity, dt float32) {
	dtSec := dt / 1000
	drag := float32(s.cfg.Physics.Drag) * dtSec
	bounce := float32(s.cfg.Physics.Bounce)
	w, h := s.cfg.Derived.WorldW32, s.cfg.Derived.WorldH32

	for _, e := range beans {
		if s.pop.ActiveBean(e) == nil {
			continue
		}
		pos := s.pop.PosMap.Get(e)
		vel := s.pop.VelMap.Get(e)
		body := s.pop.BodyMap.Get(e)

		// Linear drag toward rest
		speed := velocityMagnitude(vel.X, vel.Y)
		if speed <= drag {
			vel.X, vel.Y = 0, 0
		} else {
			scale := (speed - drag) / speed
			vel.X *= scale
			vel.Y *= scale
		}

		pos.X += vel.X * dtSec
		pos.Y += vel.Y * dtSec

		body.Touching = false
		r := body.Radius
		if pos.X < r {
			pos.X = r
			vel.X = -vel.X * bounce
			body.Touching = true
		} else if pos.X > w-r {
			pos.X = w - r
			vel.X = -vel.X * bounce
			body.Touching = true
		}
		if pos.Y < r {
			pos.Y = r
			vel.Y = -vel.Y * bounce
			body.Touching = true
		} else if pos.Y > h-r {
			pos.Y = h - r
			vel.Y = -vel.Y * bounce
			body.Touching = true
		}

		s.grid.Update(e, pos.X, pos.Y)
	}

	s.collide(beans, bounce)
}

// collide resolves each overlapping pair once, from the bean with the
// lower id.
func (s *PhysicsSystem) collide(beans []ecs.Entity, bounce float32) {
	reach := 2 * float32(s.cfg.Bean.AdultRadius)
	for _, e := range beans {
		a := s.pop.ActiveBean(e)
		if a == nil {
			continue
		}
		pos := s.pop.PosMap.Get(e)
		s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, reach, e, s.pop.PosMap)
		for _, n := range s.neighbors {
			b := s.pop.ActiveBean(n.E)
			if b == nil || b.ID < a.ID {
				continue
			}
			// The filter may have removed a from play
			if a.Gone() {
				break
			}
			s.resolve(e, n.E, bounce)
		}
	}
}

func (s *PhysicsSystem) resolve(ea, eb ecs.Entity, bounce float32) {
	pa, pb := s.pop.PosMap.Get(ea), s.pop.PosMap.Get(eb)
	ra, rb := s.pop.BodyMap.Get(ea).Radius, s.pop.BodyMap.Get(eb).Radius

	dx, dy := pb.X-pa.X, pb.Y-pa.Y
	distSq := dx*dx + dy*dy
	minDist := ra + rb
	if distSq >= minDist*minDist {
		return
	}

	if s.Filter != nil && s.Filter(ea, eb) {
		return
	}

	dist := float32(math.Sqrt(float64(distSq)))
	var nx, ny float32
	if dist == 0 {
		nx, ny = 1, 0
	} else {
		nx, ny = dx/dist, dy/dist
	}

	overlap := (minDist - dist) / 2
	pa.X -= nx * overlap
	pa.Y -= ny * overlap
	pb.X += nx * overlap
	pb.Y += ny * overlap

	va, vb := s.pop.VelMap.Get(ea), s.pop.VelMap.Get(eb)
	// Relative velocity along the normal; only approaching pairs bounce
	rel := (vb.X-va.X)*nx + (vb.Y-va.Y)*ny
	if rel < 0 {
		impulse := -(1 + bounce) * rel / 2
		va.X -= impulse * nx
		va.Y -= impulse * ny
		vb.X += impulse * nx
		vb.Y += impulse * ny
	}

	s.pop.BodyMap.Get(ea).Touching = true
	s.pop.BodyMap.Get(eb).Touching = true
}
