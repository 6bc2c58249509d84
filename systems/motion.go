package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
)

// TailParams configures the trailing spring.
type TailParams struct {
	Stiffness     float32
	Damping       float32 // Velocity retained per reference tick
	RopeLength    float32
	ReferenceTick float32 // ms
}

// TailParamsFromConfig reads the spring constants.
func TailParamsFromConfig(cfg *config.Config) TailParams {
	return TailParams{
		Stiffness:     float32(cfg.Tail.Stiffness),
		Damping:       float32(cfg.Tail.Damping),
		RopeLength:    float32(cfg.Tail.RopeLength),
		ReferenceTick: float32(cfg.Tail.ReferenceTickMs),
	}
}

// StepTail advances the tail toward the head by dt milliseconds. The step
// is scaled by dt/ReferenceTick and damping is raised to that power, so the
// tail behaves the same whatever step size the simulation runs at.
func StepTail(t *components.Tail, headX, headY, dt float32, p TailParams) {
	k := dt / p.ReferenceTick

	dx := headX - t.X
	dy := headY - t.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist > p.RopeLength && dist > 0 {
		force := (dist - p.RopeLength) * p.Stiffness
		t.VX += dx / dist * force * k
		t.VY += dy / dist * force * k
	}

	damp := float32(math.Pow(float64(p.Damping), float64(k)))
	t.VX *= damp
	t.VY *= damp

	t.X += t.VX * k
	t.Y += t.VY * k
}

// BurstSpeed is the impulse speed of a bean with the given speed attribute.
func BurstSpeed(cfg *config.Config, speedAttr float32) float32 {
	return float32(cfg.Movement.BaseSpeed) + speedAttr*float32(cfg.Movement.SpeedCoeff)
}

// FleeSpeed is the sustained speed of a fleeing bean.
func FleeSpeed(cfg *config.Config, speedAttr float32) float32 {
	return float32(cfg.Combat.FleeBaseSpeed) + speedAttr*float32(cfg.Movement.SpeedCoeff)
}

// MotionSystem owns per-bean secondary motion: the tail spring and the
// sustained flee velocity.
type MotionSystem struct {
	cfg    *config.Config
	pop    *Population
	params TailParams
}

// NewMotionSystem creates the motion system.
func NewMotionSystem(cfg *config.Config, pop *Population) *MotionSystem {
	return &MotionSystem{cfg: cfg, pop: pop, params: TailParamsFromConfig(cfg)}
}

// Update steps every bean in the snapshot.
func (s *MotionSystem) Update(beans []ecs.Entity, dt float32) {
	for _, e := range beans {
		bean := s.pop.ActiveBean(e)
		if bean == nil {
			continue
		}
		pos := s.pop.PosMap.Get(e)
		if bean.State == components.StateFleeing {
			vel := s.pop.VelMap.Get(e)
			vx, vy := unitVector(bean.FacingAngle)
			speed := FleeSpeed(s.cfg, bean.Attrs.Speed)
			vel.X, vel.Y = vx*speed, vy*speed
		}
		StepTail(s.pop.TailMap.Get(e), pos.X, pos.Y, dt, s.params)
	}
}
