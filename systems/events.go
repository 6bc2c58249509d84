package systems

import "github.com/pthm-cable/beans/components"

// EventKind classifies a simulation event.
type EventKind uint8

const (
	EventBirth EventKind = iota
	EventDeath
	EventLock
	EventLockBroken
	EventMating
	EventCombat
	EventFlee
	EventHoardCreated
	EventHoardMerged
	EventHoardPruned
	EventDeposit
	EventConstructionStarted
	EventConstructionComplete
)

var eventNames = [...]string{
	EventBirth:                "birth",
	EventDeath:                "death",
	EventLock:                 "lock",
	EventLockBroken:           "lock_broken",
	EventMating:               "mating",
	EventCombat:               "combat",
	EventFlee:                 "flee",
	EventHoardCreated:         "hoard_created",
	EventHoardMerged:          "hoard_merged",
	EventHoardPruned:          "hoard_pruned",
	EventDeposit:              "deposit",
	EventConstructionStarted:  "construction_started",
	EventConstructionComplete: "construction_complete",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is a notable state change reported by a system.
type Event struct {
	Kind  EventKind
	Bean  uint32 // Subject bean id, 0 if none
	Other uint32 // Second bean id, 0 if none
	Hoard components.HoardID
	X, Y  float32
	Value float32 // Kind-specific amount (damage, satiety, progress)
	Fate  components.Fate
}

// EventSink receives events. A nil sink discards them.
type EventSink func(Event)

func (s EventSink) emit(ev Event) {
	if s != nil {
		s(ev)
	}
}
