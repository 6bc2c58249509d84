package components

// MoveState is the current state of a bean's decision machine.
type MoveState uint8

const (
	StateIdle MoveState = iota
	StateCharging
	StateBursting
	StateDecelerating
	StateSeekingMate
	StateMovingToPartner
	StateHaulingFood
	StateGuarding
	StateChasingEnemy
	StateFleeing
	StateBuilding
	numStates
)

var stateNames = [numStates]string{
	"idle",
	"charging",
	"bursting",
	"decelerating",
	"seeking_mate",
	"moving_to_partner",
	"hauling_food",
	"guarding",
	"chasing_enemy",
	"fleeing",
	"building",
}

func (s MoveState) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "unknown"
}

// TryingToMove reports whether the state expects the bean to make progress
// toward a target, which is when stuck detection applies.
func (s MoveState) TryingToMove() bool {
	switch s {
	case StateCharging, StateMovingToPartner, StateHaulingFood, StateBuilding:
		return true
	}
	return false
}

// States lists every state in declaration order.
func States() []MoveState {
	out := make([]MoveState, numStates)
	for i := range out {
		out[i] = MoveState(i)
	}
	return out
}
