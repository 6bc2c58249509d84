// Package traits defines bean attributes and the roles derived from them.
package traits

import (
	"math/rand"

	"github.com/pthm-cable/beans/genetics"
)

// Attr identifies one physical attribute.
type Attr uint8

const (
	Strength Attr = iota
	Speed
	Constitution
	NumAttrs
)

func (a Attr) String() string {
	switch a {
	case Strength:
		return "strength"
	case Speed:
		return "speed"
	case Constitution:
		return "constitution"
	}
	return "unknown"
}

// Attributes are the three physical stats of a bean.
type Attributes struct {
	Strength     float32 `inspect:"bar,max:20"`
	Speed        float32 `inspect:"bar,max:20"`
	Constitution float32 `inspect:"bar,max:20"`
}

// Get returns one attribute.
func (a *Attributes) Get(attr Attr) float32 {
	switch attr {
	case Strength:
		return a.Strength
	case Speed:
		return a.Speed
	case Constitution:
		return a.Constitution
	}
	return 0
}

// Add raises one attribute by v and clamps it to [lo, hi].
func (a *Attributes) Add(attr Attr, v, lo, hi float32) {
	switch attr {
	case Strength:
		a.Strength = clamp(a.Strength+v, lo, hi)
	case Speed:
		a.Speed = clamp(a.Speed+v, lo, hi)
	case Constitution:
		a.Constitution = clamp(a.Constitution+v, lo, hi)
	}
}

// Clamp returns a copy with every attribute inside [lo, hi].
func (a Attributes) Clamp(lo, hi float32) Attributes {
	return Attributes{
		Strength:     clamp(a.Strength, lo, hi),
		Speed:        clamp(a.Speed, lo, hi),
		Constitution: clamp(a.Constitution, lo, hi),
	}
}

// RandomAttributes draws founder attributes uniformly in [lo, hi].
func RandomAttributes(rng *rand.Rand, lo, hi float32) Attributes {
	draw := func() float32 { return lo + rng.Float32()*(hi-lo) }
	return Attributes{Strength: draw(), Speed: draw(), Constitution: draw()}
}

// Inherit averages two parents and adds a uniform mutation in
// [-mutation, +mutation] to each attribute, clamped to [lo, hi].
func Inherit(a, b Attributes, rng *rand.Rand, mutation, lo, hi float32) Attributes {
	mutate := func(x, y float32) float32 {
		return clamp((x+y)/2+(rng.Float32()*2-1)*mutation, lo, hi)
	}
	return Attributes{
		Strength:     mutate(a.Strength, b.Strength),
		Speed:        mutate(a.Speed, b.Speed),
		Constitution: mutate(a.Constitution, b.Constitution),
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Role is assigned once at adulthood from the dominant attribute.
type Role uint8

const (
	RoleNone Role = iota
	RoleWorker
	RoleGuard
	RoleExplorer
)

func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleGuard:
		return "guard"
	case RoleExplorer:
		return "explorer"
	}
	return "none"
}

// AssignRole picks the role of the attribute that is at least as large as
// the other two. Ties resolve Guard, then Explorer, then Worker.
func AssignRole(a Attributes) Role {
	switch {
	case a.Strength >= a.Speed && a.Strength >= a.Constitution:
		return RoleGuard
	case a.Speed >= a.Strength && a.Speed >= a.Constitution:
		return RoleExplorer
	default:
		return RoleWorker
	}
}

// RoleModifier is the strategy bias a role applies once at assignment.
type RoleModifier struct {
	Aggression        float32
	RiskAversion      float32
	WanderLust        float32
	SearchRange       float32
	HoardingThreshold float32
}

var roleModifiers = map[Role]RoleModifier{
	RoleGuard:    {Aggression: 0.5, RiskAversion: -0.2},
	RoleExplorer: {WanderLust: 0.2, SearchRange: 0.5},
	RoleWorker:   {HoardingThreshold: -10, RiskAversion: 0.2},
}

// ModifierFor returns the strategy bias of a role.
func ModifierFor(r Role) RoleModifier {
	return roleModifiers[r]
}

// ApplyRole biases a strategy by the role's modifier and clamps the result.
func ApplyRole(s genetics.SurvivalStrategy, r Role) genetics.SurvivalStrategy {
	m := roleModifiers[r]
	s.Aggression += m.Aggression
	s.RiskAversion += m.RiskAversion
	s.WanderLust += m.WanderLust
	s.SearchRange += m.SearchRange
	s.HoardingThreshold += m.HoardingThreshold
	return s.Clamp()
}
