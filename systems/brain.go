package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/traits"
)

// Role-specific tuning of the shared formulas.
const (
	guardIdleRangeMult = 1.5  // Guards start guarding further from home
	guardScanMult      = 1.5  // Intruder scan range, guards
	workerScanMult     = 0.5  // Intruder scan range, workers
	otherChaseChance   = 0.3  // Chance a non-guard, non-explorer gives chase
	workerIdleChance   = 0.7  // Chance a worker drops guard duty on patrol timeout
	workerWanderBonus  = 0.2  // Added to wanderlust for workers
	explorerSearchMult = 1.5  // Food search radius, explorers
	explorerRoamMult   = 2.0  // Wander radius, explorers
	mateSearchMult     = 2.0  // Mate scan range relative to lock range
	guardRingMult      = 1.5  // Food ring around the hoard while guarding
	matePatrolMult     = 0.5  // Wander radius while seeking from a guard post
	roamRiskMult       = 4.0  // Wander radius gain for (1 - riskAversion)
	guardTimerMin      = 3000 // ms
	guardTimerMax      = 6000
	patrolTimerMin     = 2000
	patrolTimerMax     = 4000
	guardResumeMs      = 2000
)

var noEntity ecs.Entity

// BrainSystem runs the per-bean decision machine. It holds no per-bean
// state: everything it decides is written back to the Bean component.
// Shared registries are injected at construction instead of read from
// globals so the machine can be driven in isolation.
type BrainSystem struct {
	cfg    *config.Config
	pop    *Population
	grid   *SpatialGrid
	hoards *HoardRegistry
	food   FoodWorld
	rng    *rand.Rand

	Events EventSink

	neighbors []Neighbor
	foods     []FoodItem
}

// NewBrainSystem creates the decision system.
func NewBrainSystem(cfg *config.Config, pop *Population, grid *SpatialGrid, hoards *HoardRegistry, food FoodWorld, rng *rand.Rand) *BrainSystem {
	return &BrainSystem{
		cfg:    cfg,
		pop:    pop,
		grid:   grid,
		hoards: hoards,
		food:   food,
		rng:    rng,
	}
}

// NewBean builds the component of a freshly spawned bean.
func NewBean(cfg *config.Config, attrs traits.Attributes, strategy genetics.SurvivalStrategy, satiety float32, adult bool) components.Bean {
	b := components.Bean{
		Satiety:    satiety,
		MaxSatiety: cfg.MaxSatiety(attrs.Constitution),
		Attrs:      attrs,
		IsAdult:    adult,
		Strategy:   strategy,
		Color:      genetics.StrategyColor(strategy),
		State:      components.StateIdle,
	}
	if adult {
		b.Age = float32(cfg.Bean.MaturityAgeMs)
		b.Role = traits.AssignRole(attrs)
		b.Strategy = traits.ApplyRole(strategy, b.Role)
		b.Color = genetics.StrategyColor(b.Strategy)
	}
	return b
}

// Think advances one bean by dt milliseconds. A bean that starves is
// marked and left for the caller to remove.
func (s *BrainSystem) Think(e ecs.Entity, dt float32) {
	b := s.pop.ActiveBean(e)
	if b == nil {
		return
	}
	pos := s.pop.PosMap.Get(e)
	vel := s.pop.VelMap.Get(e)
	body := s.pop.BodyMap.Get(e)

	s.age(b, body, dt)

	b.StateTimer -= dt
	b.ReproCooldown = max(0, b.ReproCooldown-dt)
	b.CombatTimer = max(0, b.CombatTimer-dt)
	s.grid.Update(e, pos.X, pos.Y)

	speed := velocityMagnitude(vel.X, vel.Y)
	if !s.digest(b, speed, dt) {
		return
	}

	if b.State != components.StateFleeing && b.CombatTimer > 0 && b.Satiety < b.Strategy.FleeThreshold {
		s.FleeFrom(e, b.Threat)
	}

	s.tryStartSeeking(b, dt)
	if b.IsSeekingMate && b.Satiety < b.Strategy.MatingThreshold {
		s.setIdle(b)
	}

	s.behave(e, b, pos, vel, speed)

	s.detectStuck(b, body, vel, speed, dt)
}

// age advances the bean's age and handles the adulthood transition.
func (s *BrainSystem) age(b *components.Bean, body *components.Body, dt float32) {
	b.Age += dt
	if !b.IsAdult && b.Age >= float32(s.cfg.Bean.MaturityAgeMs) {
		s.growUp(b)
	}
	if b.Growth > 0 {
		b.Growth = max(0, b.Growth-dt)
		child := float32(s.cfg.Bean.ChildRadius)
		adult := float32(s.cfg.Bean.AdultRadius)
		t := 1 - b.Growth/float32(s.cfg.Bean.GrowthDurationMs)
		body.Radius = child + (adult-child)*t
	}
}

func (s *BrainSystem) growUp(b *components.Bean) {
	b.IsAdult = true
	b.Growth = float32(s.cfg.Bean.GrowthDurationMs)
	if b.Growth <= 0 {
		b.Growth = 1
	}
	b.Role = traits.AssignRole(b.Attrs)
	b.Strategy = traits.ApplyRole(b.Strategy, b.Role)
	b.Color = genetics.StrategyColor(b.Strategy)
}

// digest applies satiety decay and the full flag hysteresis. It returns
// false when the bean starved.
func (s *BrainSystem) digest(b *components.Bean, speed, dt float32) bool {
	rate := float32(s.cfg.Satiety.DecayIdle)
	if speed > float32(s.cfg.Satiety.MovingSpeed) {
		rate = float32(s.cfg.Satiety.DecayMoving)
	}
	b.Satiety -= rate * dt / 1000
	if b.Satiety <= 0 {
		b.Satiety = 0
		b.Fate = components.FateStarved
		return false
	}
	s.updateFullness(b)
	return true
}

func (s *BrainSystem) updateFullness(b *components.Bean) {
	if b.Satiety >= b.MaxSatiety {
		b.Satiety = b.MaxSatiety
		b.IsFull = true
	} else if b.Satiety < b.MaxSatiety*float32(s.cfg.Satiety.FullRatio) {
		b.IsFull = false
	}
}

// MatingChance is the per-tick probability of starting to seek a mate.
func MatingChance(satiety, threshold, k, dt float32) float32 {
	if satiety <= threshold {
		return 0
	}
	surplus := satiety - threshold
	return min(1, surplus*surplus*k*dt/1000)
}

// tryStartSeeking rolls the reproduction trigger and reports whether the
// bean started seeking.
func (s *BrainSystem) tryStartSeeking(b *components.Bean, dt float32) bool {
	if !b.IsAdult || b.IsSeekingMate || b.ReproCooldown > 0 {
		return false
	}
	if b.State != components.StateIdle && b.State != components.StateGuarding {
		return false
	}
	p := MatingChance(b.Satiety, b.Strategy.MatingThreshold, float32(s.cfg.Mating.K), dt)
	if p <= 0 || s.rng.Float32() >= p {
		return false
	}
	b.State = components.StateSeekingMate
	b.IsSeekingMate = true
	b.IsGuarding = false
	b.StateTimer = 0
	return true
}

func (s *BrainSystem) behave(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity, speed float32) {
	switch b.State {
	case components.StateIdle:
		s.idle(e, b, pos)
	case components.StateCharging:
		s.charge(e, b, pos, vel)
	case components.StateBursting:
		b.State = components.StateDecelerating
	case components.StateDecelerating:
		s.decelerate(e, b, pos, vel, speed)
	case components.StateSeekingMate:
		s.seekMate(e, b, pos, vel)
	case components.StateMovingToPartner:
		s.moveToPartner(e, b, pos, vel)
	case components.StateHaulingFood:
		s.haul(e, b, pos, vel)
	case components.StateBuilding:
		s.build(e, b, pos, vel)
	case components.StateGuarding:
		s.guard(e, b, pos)
	case components.StateChasingEnemy:
		s.chase(e, b, pos, vel)
	case components.StateFleeing:
		if b.StateTimer <= 0 {
			s.setIdle(b)
			return
		}
		if b.HasTarget {
			b.FacingAngle = angleTo(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y)
		}
	}
}

func (s *BrainSystem) idle(e ecs.Entity, b *components.Bean, pos *components.Position) {
	if b.Carrying {
		b.State = components.StateHaulingFood
		b.PreviousState = components.StateHaulingFood
		return
	}

	if h, ok := s.hoards.Get(b.Hoard); ok {
		d := distance(pos.X, pos.Y, h.X, h.Y)
		guardRange := h.Radius
		lo, hi := float32(patrolTimerMin), float32(patrolTimerMax)
		if b.Role == traits.RoleGuard {
			guardRange *= guardIdleRangeMult
			lo, hi = guardTimerMin, guardTimerMax
		}
		if d < guardRange {
			b.State = components.StateGuarding
			b.IsGuarding = true
			b.StateTimer = randBetween(s.rng, lo, hi)
			return
		}
	}

	if b.StateTimer > 0 {
		return
	}

	chance := b.Strategy.WanderLust
	if b.Role == traits.RoleWorker {
		chance += workerWanderBonus
	}
	if s.rng.Float32() < chance {
		s.pickTarget(e, b, pos)
		b.State = components.StateCharging
		b.StateTimer = float32(s.cfg.Movement.ChargeMs)
		return
	}
	b.StateTimer = s.idleDuration()
}

func (s *BrainSystem) idleDuration() float32 {
	return randBetween(s.rng, float32(s.cfg.Movement.IdleMinMs), float32(s.cfg.Movement.IdleMaxMs))
}

// setIdle clears every goal and starts a fresh idle wait.
func (s *BrainSystem) setIdle(b *components.Bean) {
	b.State = components.StateIdle
	b.PreviousState = components.StateIdle
	b.IsSeekingMate = false
	b.IsGuarding = false
	b.LockedPartner = noEntity
	b.Enemy = noEntity
	b.HasTarget = false
	b.StateTimer = s.idleDuration()
}

// pickTarget sets the move target to the nearest food worth going for, or
// to a territory-aware random point.
func (s *BrainSystem) pickTarget(e ecs.Entity, b *components.Bean, pos *components.Position) {
	if !b.IsFull {
		radius := float32(s.cfg.Vision.Radius) * b.Strategy.SearchRange
		desperate := b.Satiety < float32(s.cfg.Satiety.Desperate)
		if desperate {
			radius *= float32(s.cfg.Satiety.Desperation)
		}
		if b.Role == traits.RoleExplorer {
			radius *= explorerSearchMult
		}
		cx, cy := pos.X, pos.Y
		if h, ok := s.hoards.Get(b.Hoard); ok && b.IsGuarding && b.Satiety > b.Strategy.HungerTolerance {
			cx, cy = h.X, h.Y
			radius = h.Radius * guardRingMult
		}

		s.foods = s.food.ListFoodNear(s.foods[:0], cx, cy, radius)
		bestDist := float32(math.MaxFloat32)
		found := false
		for _, f := range s.foods {
			d := distanceSq(pos.X, pos.Y, f.X, f.Y)
			if d < bestDist {
				bestDist = d
				b.MoveTarget = components.Point{X: f.X, Y: f.Y}
				found = true
			}
		}
		if found {
			b.HasTarget = true
			return
		}
	}
	s.pickRandomTarget(b, pos)
}

// pickRandomTarget chooses a wander point. Beans with a hoard stay within
// a radius that grows as risk aversion falls; a bean already outside it is
// sent home instead. Hunger lifts the limit.
func (s *BrainSystem) pickRandomTarget(b *components.Bean, pos *components.Position) {
	pad := float32(s.cfg.Movement.TargetPadding)
	w, h := s.cfg.Derived.WorldW32, s.cfg.Derived.WorldH32
	b.HasTarget = true

	if hoard, ok := s.hoards.Get(b.Hoard); ok {
		allowed := hoard.Radius * (1 + (1-b.Strategy.RiskAversion)*roamRiskMult)
		if b.Role == traits.RoleExplorer {
			allowed *= explorerRoamMult
		}
		if b.Satiety < b.Strategy.HungerTolerance {
			allowed = float32(s.cfg.Satiety.HungerRadius)
		}
		if distance(pos.X, pos.Y, hoard.X, hoard.Y) > allowed {
			b.MoveTarget = components.Point{X: hoard.X, Y: hoard.Y}
			return
		}
		b.MoveTarget = s.randomPointAround(hoard.X, hoard.Y, allowed)
		return
	}

	b.MoveTarget = components.Point{
		X: randBetween(s.rng, pad, w-pad),
		Y: randBetween(s.rng, pad, h-pad),
	}
}

// randomPointAround picks a uniform point in a disc, clamped to the world.
func (s *BrainSystem) randomPointAround(cx, cy, radius float32) components.Point {
	pad := float32(s.cfg.Movement.TargetPadding)
	ux, uy := unitVector(randAngle(s.rng))
	r := radius * float32(math.Sqrt(float64(s.rng.Float32())))
	return components.Point{
		X: clampFloat(cx+ux*r, pad, s.cfg.Derived.WorldW32-pad),
		Y: clampFloat(cy+uy*r, pad, s.cfg.Derived.WorldH32-pad),
	}
}

func (s *BrainSystem) charge(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	if !b.HasTarget {
		s.setIdle(b)
		return
	}
	if distance(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y) < float32(s.cfg.Movement.TargetReached) {
		s.arrive(b)
		return
	}
	s.steer(e, b, pos, b.MoveTarget.X, b.MoveTarget.Y, float32(s.cfg.Movement.SeparationWeight))
	if b.StateTimer <= 0 {
		s.burst(b, vel)
	}
}

// arrive ends a plain trip at its target.
func (s *BrainSystem) arrive(b *components.Bean) {
	if b.IsGuarding {
		b.State = components.StateGuarding
		b.StateTimer = randBetween(s.rng, patrolTimerMin, patrolTimerMax)
		b.HasTarget = false
		return
	}
	s.setIdle(b)
}

// steer faces the target, blended with repulsion from nearby beans so
// that travellers do not stack. The locked partner is not repelled.
func (s *BrainSystem) steer(e ecs.Entity, b *components.Bean, pos *components.Position, tx, ty, weight float32) {
	dx, dy := tx-pos.X, ty-pos.Y
	d := velocityMagnitude(dx, dy)
	if d == 0 {
		return
	}
	dirX, dirY := dx/d, dy/d

	sepX, sepY := s.separation(e, b, pos)
	dirX += sepX * weight
	dirY += sepY * weight
	if dirX == 0 && dirY == 0 {
		return
	}
	b.FacingAngle = float32(math.Atan2(float64(dirY), float64(dirX)))
}

// separation returns the normalised inverse-distance repulsion from
// neighbours within the separation radius.
func (s *BrainSystem) separation(e ecs.Entity, b *components.Bean, pos *components.Position) (float32, float32) {
	radius := float32(s.cfg.Movement.SeparationRadius)
	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, radius, e, s.pop.PosMap)

	var sx, sy float32
	count := 0
	for _, n := range s.neighbors {
		if n.E == b.LockedPartner || n.DistSq == 0 {
			continue
		}
		dist := float32(math.Sqrt(float64(n.DistSq)))
		// Away from the neighbour, stronger when closer
		sx -= n.DX / dist / dist
		sy -= n.DY / dist / dist
		count++
	}
	if count == 0 {
		return 0, 0
	}
	sx /= float32(count)
	sy /= float32(count)
	mag := velocityMagnitude(sx, sy)
	if mag == 0 {
		return 0, 0
	}
	return sx / mag, sy / mag
}

// burst applies the movement impulse along the facing angle and remembers
// the state to resume after coasting.
func (s *BrainSystem) burst(b *components.Bean, vel *components.Velocity) {
	speed := BurstSpeed(s.cfg, b.Attrs.Speed)
	ux, uy := unitVector(b.FacingAngle)
	vel.X, vel.Y = ux*speed, uy*speed
	b.PreviousState = b.State
	b.State = components.StateBursting
}

func (s *BrainSystem) decelerate(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity, speed float32) {
	// Grace period after a stuck escape
	if b.StateTimer > 0 {
		return
	}

	if speed < float32(s.cfg.Movement.StopSpeed) {
		vel.X, vel.Y = 0, 0
		s.finishHop(b, pos)
		return
	}

	far := b.HasTarget && distance(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y) > float32(s.cfg.Movement.FarDistance)
	if far && speed < float32(s.cfg.Movement.HopContinueSpeed) {
		s.resumeHop(b)
	}
}

// resumeHop continues a multi-hop trip without stopping.
func (s *BrainSystem) resumeHop(b *components.Bean) {
	charge := float32(s.cfg.Movement.ChargeMs)
	switch {
	case b.LockedPartner != noEntity:
		b.State = components.StateMovingToPartner
		b.StateTimer = charge
	case b.IsSeekingMate:
		b.State = components.StateSeekingMate
		b.StateTimer = charge
	case b.PreviousState == components.StateHaulingFood, b.PreviousState == components.StateBuilding:
		b.State = b.PreviousState
		b.StateTimer = charge
	case b.PreviousState == components.StateChasingEnemy:
		b.State = components.StateChasingEnemy
		b.StateTimer = charge
	case b.IsGuarding:
		b.State = components.StateGuarding
		b.StateTimer = guardResumeMs
	default:
		b.State = components.StateCharging
		b.StateTimer = charge
	}
}

// finishHop settles a bean that came to rest, completing any hand-off.
func (s *BrainSystem) finishHop(b *components.Bean, pos *components.Position) {
	switch {
	case b.LockedPartner != noEntity:
		b.State = components.StateMovingToPartner
		b.StateTimer = 0
	case b.IsSeekingMate:
		b.State = components.StateSeekingMate
		b.StateTimer = 0
	case b.PreviousState == components.StateHaulingFood:
		b.State = components.StateHaulingFood
		b.StateTimer = 0
		if h, ok := s.hoards.Get(b.Hoard); ok && distance(pos.X, pos.Y, h.X, h.Y) < float32(s.cfg.Hoard.DropDistance) {
			s.deposit(b, pos)
		}
	case b.PreviousState == components.StateBuilding:
		b.State = components.StateBuilding
		b.StateTimer = 0
	case b.PreviousState == components.StateChasingEnemy:
		b.State = components.StateChasingEnemy
		b.StateTimer = 0
	case b.IsGuarding:
		b.State = components.StateGuarding
		b.StateTimer = randBetween(s.rng, patrolTimerMin, patrolTimerMax)
	default:
		s.setIdle(b)
	}
}

// seekMate scans for intruders and for a mate. A mate in range is locked
// mutually in the same call; a distant one is approached.
func (s *BrainSystem) seekMate(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	if h, ok := s.hoards.Get(b.Hoard); ok {
		r := float32(s.cfg.Vision.GuardRadius) * b.Strategy.SearchRange
		if enemy := s.findIntruder(e, b, pos, h, r); enemy != noEntity {
			s.startChase(b, enemy)
			return
		}
	}

	lockRange := float32(s.cfg.Vision.Radius) * b.Strategy.SearchRange
	mate, dist := s.findClosestMate(e, pos, lockRange*mateSearchMult)
	if mate != noEntity {
		if dist <= lockRange {
			s.lock(e, b, mate)
			return
		}
		mpos := s.pop.PosMap.Get(mate)
		b.MoveTarget = components.Point{X: mpos.X, Y: mpos.Y}
		b.HasTarget = true
		b.FacingAngle = angleTo(pos.X, pos.Y, mpos.X, mpos.Y)
		if b.StateTimer <= 0 {
			s.burst(b, vel)
		}
		return
	}

	if b.StateTimer > 0 {
		return
	}
	if h, ok := s.hoards.Get(b.Hoard); ok && b.IsGuarding {
		b.MoveTarget = s.randomPointAround(h.X, h.Y, h.Radius*matePatrolMult)
		b.HasTarget = true
	} else {
		s.pickRandomTarget(b, pos)
	}
	b.FacingAngle = angleTo(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y)
	s.burst(b, vel)
}

// findClosestMate returns the nearest bean that is seeking and not locked
// to someone else.
func (s *BrainSystem) findClosestMate(e ecs.Entity, pos *components.Position, radius float32) (ecs.Entity, float32) {
	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, radius, e, s.pop.PosMap)
	best := noEntity
	bestSq := float32(math.MaxFloat32)
	for _, n := range s.neighbors {
		other := s.pop.ActiveBean(n.E)
		if other == nil || !other.IsAdult {
			continue
		}
		if other.State != components.StateSeekingMate && other.State != components.StateMovingToPartner {
			continue
		}
		if other.LockedPartner != noEntity && other.LockedPartner != e {
			continue
		}
		if n.DistSq < bestSq {
			best, bestSq = n.E, n.DistSq
		}
	}
	if best == noEntity {
		return noEntity, 0
	}
	return best, float32(math.Sqrt(float64(bestSq)))
}

// lock commits two beans to each other in one step.
func (s *BrainSystem) lock(e ecs.Entity, b *components.Bean, mate ecs.Entity) {
	other := s.pop.ActiveBean(mate)
	if other == nil {
		return
	}
	for _, pair := range [2]struct {
		bean    *components.Bean
		partner ecs.Entity
	}{{b, mate}, {other, e}} {
		pair.bean.LockedPartner = pair.partner
		pair.bean.IsSeekingMate = true
		pair.bean.IsGuarding = false
		pair.bean.State = components.StateMovingToPartner
		pair.bean.StateTimer = 0
	}
	s.Events.emit(Event{Kind: EventLock, Bean: b.ID, Other: other.ID})
}

// moveToPartner re-validates the lock before every approach. A broken
// back-reference drops the lock on this side only; the partner notices on
// its own turn.
func (s *BrainSystem) moveToPartner(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	partner := s.pop.ActiveBean(b.LockedPartner)
	if partner == nil || partner.Satiety <= 0 || !partner.IsSeekingMate || partner.LockedPartner != e {
		slog.Debug("mate lock dropped", "bean", b.ID)
		s.Events.emit(Event{Kind: EventLockBroken, Bean: b.ID})
		b.LockedPartner = noEntity
		b.State = components.StateSeekingMate
		b.StateTimer = 0
		return
	}

	ppos := s.pop.PosMap.Get(b.LockedPartner)
	b.MoveTarget = components.Point{X: ppos.X, Y: ppos.Y}
	b.HasTarget = true
	s.steer(e, b, pos, ppos.X, ppos.Y, float32(s.cfg.Movement.MateSeparation))
	if b.StateTimer <= 0 {
		s.burst(b, vel)
	}
}

func (s *BrainSystem) guard(e ecs.Entity, b *components.Bean, pos *components.Position) {
	h, ok := s.hoards.Get(b.Hoard)
	if !ok {
		s.setIdle(b)
		return
	}
	b.IsGuarding = true

	scan := float32(1)
	switch b.Role {
	case traits.RoleGuard:
		scan = guardScanMult
	case traits.RoleWorker:
		scan = workerScanMult
	}
	r := float32(s.cfg.Vision.GuardRadius) * b.Strategy.SearchRange * scan
	if enemy := s.findIntruder(e, b, pos, h, r); enemy != noEntity {
		if b.Role == traits.RoleGuard || b.Role == traits.RoleExplorer || s.rng.Float32() < otherChaseChance {
			s.startChase(b, enemy)
			return
		}
	}

	if b.StateTimer > 0 {
		return
	}
	if b.Role == traits.RoleWorker && s.rng.Float32() < workerIdleChance {
		s.setIdle(b)
		return
	}
	b.MoveTarget = s.randomPointAround(h.X, h.Y, h.Radius)
	b.HasTarget = true
	b.State = components.StateCharging
	b.StateTimer = float32(s.cfg.Movement.ChargeMs)
}

// findIntruder returns the nearest bean inside the hoard that does not
// belong to it and is not the locked partner.
func (s *BrainSystem) findIntruder(e ecs.Entity, b *components.Bean, pos *components.Position, h Hoard, radius float32) ecs.Entity {
	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], pos.X, pos.Y, radius, e, s.pop.PosMap)
	best := noEntity
	bestSq := float32(math.MaxFloat32)
	hoardSq := h.Radius * h.Radius
	for _, n := range s.neighbors {
		if n.E == b.LockedPartner {
			continue
		}
		other := s.pop.ActiveBean(n.E)
		if other == nil || other.Hoard == b.Hoard {
			continue
		}
		npos := s.pop.PosMap.Get(n.E)
		if distanceSq(npos.X, npos.Y, h.X, h.Y) > hoardSq {
			continue
		}
		if n.DistSq < bestSq {
			best, bestSq = n.E, n.DistSq
		}
	}
	return best
}

func (s *BrainSystem) startChase(b *components.Bean, enemy ecs.Entity) {
	b.Enemy = enemy
	b.IsGuarding = true
	b.State = components.StateChasingEnemy
	b.StateTimer = float32(s.cfg.Movement.ChargeMs)
}

// chase re-targets the nearest intruder every tick. A target that left the
// hoard is no longer an intruder, so the chase ends with it.
func (s *BrainSystem) chase(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	h, ok := s.hoards.Get(b.Hoard)
	if !ok {
		s.setIdle(b)
		return
	}
	if distance(pos.X, pos.Y, h.X, h.Y) > float32(s.cfg.Vision.MaxChaseDist)*b.Strategy.Aggression {
		slog.Debug("chase abandoned", "bean", b.ID)
		s.setIdle(b)
		return
	}
	r := float32(s.cfg.Vision.GuardRadius) * b.Strategy.SearchRange
	b.Enemy = s.findIntruder(e, b, pos, h, r)
	if b.Enemy == noEntity {
		s.setIdle(b)
		return
	}
	epos := s.pop.PosMap.Get(b.Enemy)
	b.MoveTarget = components.Point{X: epos.X, Y: epos.Y}
	b.HasTarget = true
	b.FacingAngle = angleTo(pos.X, pos.Y, epos.X, epos.Y)
	if b.StateTimer <= 0 {
		s.burst(b, vel)
	}
}

func (s *BrainSystem) haul(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	if !b.Carrying {
		s.setIdle(b)
		return
	}
	h, ok := s.hoards.Get(b.Hoard)
	if !ok {
		s.ensureHoard(b, pos)
		h, _ = s.hoards.Get(b.Hoard)
	}

	if distance(pos.X, pos.Y, h.X, h.Y) < float32(s.cfg.Hoard.DepositDistance) {
		if b.Role == traits.RoleWorker {
			for _, site := range s.hoards.ConstructionSites(b.Hoard) {
				if !site.Complete() {
					b.State = components.StateBuilding
					b.PreviousState = components.StateBuilding
					b.MoveTarget = components.Point{X: site.X, Y: site.Y}
					b.HasTarget = true
					return
				}
			}
		}
		s.deposit(b, pos)
		return
	}

	b.MoveTarget = components.Point{X: h.X, Y: h.Y}
	b.HasTarget = true
	b.FacingAngle = angleTo(pos.X, pos.Y, h.X, h.Y)
	if b.StateTimer <= 0 {
		s.burst(b, vel)
	}
}

// deposit drops the carried food as a stash at the bean's position.
func (s *BrainSystem) deposit(b *components.Bean, pos *components.Position) {
	load := b.Carried
	s.food.DropFood(pos.X, pos.Y, load, b.Hoard)
	b.Carrying = false
	b.Carried = components.FoodLoad{}
	b.IsFull = false
	s.hoards.RecordDeposit(b.Hoard, load.Satiety)
	s.Events.emit(Event{Kind: EventDeposit, Bean: b.ID, Hoard: b.Hoard, X: pos.X, Y: pos.Y, Value: load.Satiety})
	s.setIdle(b)
}

func (s *BrainSystem) build(e ecs.Entity, b *components.Bean, pos *components.Position, vel *components.Velocity) {
	if !b.Carrying {
		s.setIdle(b)
		return
	}
	if !b.HasTarget || distance(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y) < float32(s.cfg.Hoard.DepositDistance) {
		s.contribute(b, pos)
		return
	}
	b.FacingAngle = angleTo(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y)
	if b.StateTimer <= 0 {
		s.burst(b, vel)
	}
}

// contribute adds the carried food to the nearest open site in reach, or
// falls back to hauling when there is none.
func (s *BrainSystem) contribute(b *components.Bean, pos *components.Position) {
	reachSq := float32(s.cfg.Hoard.BuildDistance * s.cfg.Hoard.BuildDistance)
	for _, site := range s.hoards.ConstructionSites(b.Hoard) {
		if site.Complete() || distanceSq(pos.X, pos.Y, site.X, site.Y) > reachSq {
			continue
		}
		s.hoards.AddProgress(site.ID, b.Carried.Satiety)
		b.Carrying = false
		b.Carried = components.FoodLoad{}
		b.IsFull = false
		s.setIdle(b)
		return
	}
	b.State = components.StateHaulingFood
	b.PreviousState = components.StateHaulingFood
}

// ensureHoard registers a hoard at the bean's position if it has none.
func (s *BrainSystem) ensureHoard(b *components.Bean, pos *components.Position) {
	if _, ok := s.hoards.Get(b.Hoard); ok {
		return
	}
	body := float32(s.cfg.Bean.AdultRadius)
	if !b.IsAdult {
		body = float32(s.cfg.Bean.ChildRadius)
	}
	b.Hoard = s.hoards.Register(pos.X, pos.Y, body*float32(s.cfg.Hoard.RadiusMultiplier))
}

// FleeFrom sends a bean running directly away from a threat point. A
// guard that flees gives up its hoard.
func (s *BrainSystem) FleeFrom(e ecs.Entity, threat components.Point) {
	b := s.pop.ActiveBean(e)
	if b == nil {
		return
	}
	pos := s.pop.PosMap.Get(e)

	dx, dy := pos.X-threat.X, pos.Y-threat.Y
	d := velocityMagnitude(dx, dy)
	if d == 0 {
		dx, dy = unitVector(randAngle(s.rng))
	} else {
		dx, dy = dx/d, dy/d
	}
	dist := float32(s.cfg.Combat.FleeDistance)
	b.MoveTarget = components.Point{
		X: clampFloat(pos.X+dx*dist, 0, s.cfg.Derived.WorldW32),
		Y: clampFloat(pos.Y+dy*dist, 0, s.cfg.Derived.WorldH32),
	}
	b.HasTarget = true
	b.FacingAngle = angleTo(pos.X, pos.Y, b.MoveTarget.X, b.MoveTarget.Y)

	if b.IsGuarding || b.State == components.StateGuarding || b.State == components.StateChasingEnemy {
		b.Hoard = components.NoHoard
	}
	b.State = components.StateFleeing
	b.PreviousState = components.StateFleeing
	b.StateTimer = float32(s.cfg.Combat.FleeMs)
	b.IsGuarding = false
	b.IsSeekingMate = false
	b.LockedPartner = noEntity
	b.Enemy = noEntity
	s.Events.emit(Event{Kind: EventFlee, Bean: b.ID, X: pos.X, Y: pos.Y})
}

// detectStuck nudges a bean sideways when it has been pinned against
// something while trying to move.
func (s *BrainSystem) detectStuck(b *components.Bean, body *components.Body, vel *components.Velocity, speed, dt float32) {
	if !b.State.TryingToMove() || !body.Touching || speed >= float32(s.cfg.Movement.StuckSpeed) {
		b.StuckTimer = 0
		return
	}
	b.StuckTimer += dt
	if b.StuckTimer <= float32(s.cfg.Movement.StuckMs) {
		return
	}

	side := float32(math.Pi / 2)
	if s.rng.Intn(2) == 0 {
		side = -side
	}
	ux, uy := unitVector(b.FacingAngle + side)
	escape := BurstSpeed(s.cfg, b.Attrs.Speed)
	vel.X, vel.Y = ux*escape, uy*escape

	b.PreviousState = b.State
	b.State = components.StateDecelerating
	b.StateTimer = float32(s.cfg.Movement.StuckGraceMs)
	b.StuckTimer = 0
}
