// Package components defines ECS components for the simulation.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/traits"
)

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity in px/s.
type Velocity struct {
	X, Y float32
}

// Point is a world coordinate that is not itself an entity.
type Point struct {
	X, Y float32
}

// HoardID names a territory in the hoard registry. Zero means no hoard.
type HoardID uint32

// NoHoard is the absent hoard id.
const NoHoard HoardID = 0

// Bonus raises one attribute when the food carrying it is eaten.
// A zero Value means the food carries no bonus.
type Bonus struct {
	Attr  traits.Attr
	Value float32
}

// FoodLoad is the satiety and bonus of a food item held or stashed.
type FoodLoad struct {
	Satiety float32
	Bonus   Bonus
}

// Food is a pickup lying in the world.
type Food struct {
	FoodLoad
	Stash HoardID // Hoard that dropped it, NoHoard for wild food
}

// Tail is the trailing spring point drawn behind a bean.
type Tail struct {
	X, Y   float32
	VX, VY float32
}

// Cocoon gestates the combined genetics of two parents until it hatches.
type Cocoon struct {
	TotalSatiety   float32
	Color          genetics.Color
	Attrs          [2]traits.Attributes
	Strategies     [2]genetics.SurvivalStrategy
	InheritedHoard HoardID
	Elapsed        float32 // ms since creation
	Radius         float32
}

// Bean holds the stats, genetics and state machine fields of one agent.
type Bean struct {
	ID uint32 `inspect:"label"`

	// Stats
	Satiety    float32 `inspect:"bar,max:120"`
	MaxSatiety float32 `inspect:"label,fmt:%.0f"`
	IsFull     bool
	Attrs      traits.Attributes `inspect:"skip"`
	Age        float32           `inspect:"label,unit:ms"`
	IsAdult    bool
	Growth     float32           `inspect:"skip"` // ms remaining in the adulthood growth transition
	Role       traits.Role       `inspect:"skip"`

	Strategy genetics.SurvivalStrategy `inspect:"skip"`
	Color    genetics.Color            `inspect:"skip"`

	// State machine
	State         MoveState `inspect:"skip"`
	PreviousState MoveState `inspect:"skip"`
	StateTimer    float32   `inspect:"label,unit:ms"`
	MoveTarget    Point     `inspect:"skip"`
	HasTarget     bool      `inspect:"skip"`
	FacingAngle   float32   `inspect:"angle"`

	IsSeekingMate bool
	IsGuarding    bool

	// References
	Hoard         HoardID    `inspect:"skip"`
	LockedPartner ecs.Entity `inspect:"skip"` // zero entity when unlocked
	Enemy         ecs.Entity `inspect:"skip"`
	Threat        Point      `inspect:"skip"`

	Carrying bool     `inspect:"skip"`
	Carried  FoodLoad `inspect:"skip"`

	// Timers, ms
	ReproCooldown float32 `inspect:"label,unit:ms"`
	CombatTimer   float32 `inspect:"skip"`
	StuckTimer    float32 `inspect:"skip"`

	Fate Fate `inspect:"skip"`
}

// Fate records why a bean left the simulation.
type Fate uint8

const (
	FateAlive   Fate = iota
	FateStarved      // satiety ran out
	FateKilled       // satiety ran out in combat
	FateMated        // retired into a cocoon
)

func (f Fate) String() string {
	switch f {
	case FateStarved:
		return "starved"
	case FateKilled:
		return "killed"
	case FateMated:
		return "mated"
	}
	return "alive"
}

// Gone reports whether the bean is awaiting removal.
func (b *Bean) Gone() bool {
	return b.Fate != FateAlive
}
