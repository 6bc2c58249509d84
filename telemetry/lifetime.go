package telemetry

import "github.com/pthm-cable/beans/systems"

// LifetimeStats tracks per-bean statistics over its lifetime.
type LifetimeStats struct {
	BirthTick int32

	Combats  int
	Flees    int
	Deposits int
	Locks    int

	DepositedSatiety float32
}

// LifetimeTracker manages per-bean lifetime statistics, keyed by bean id.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new bean.
func (lt *LifetimeTracker) Register(beanID uint32, birthTick int32) {
	lt.stats[beanID] = &LifetimeStats{BirthTick: birthTick}
}

// Get returns the lifetime stats for a bean, or nil if not found.
func (lt *LifetimeTracker) Get(beanID uint32) *LifetimeStats {
	return lt.stats[beanID]
}

// Remove removes a bean's stats and returns them.
func (lt *LifetimeTracker) Remove(beanID uint32) *LifetimeStats {
	stats := lt.stats[beanID]
	delete(lt.stats, beanID)
	return stats
}

// Record attributes an event to the beans it names.
func (lt *LifetimeTracker) Record(ev systems.Event) {
	switch ev.Kind {
	case systems.EventCombat:
		lt.each(ev, func(s *LifetimeStats) { s.Combats++ })
	case systems.EventLock:
		lt.each(ev, func(s *LifetimeStats) { s.Locks++ })
	case systems.EventFlee:
		if s := lt.stats[ev.Bean]; s != nil {
			s.Flees++
		}
	case systems.EventDeposit:
		if s := lt.stats[ev.Bean]; s != nil {
			s.Deposits++
			s.DepositedSatiety += ev.Value
		}
	}
}

func (lt *LifetimeTracker) each(ev systems.Event, fn func(*LifetimeStats)) {
	if s := lt.stats[ev.Bean]; s != nil {
		fn(s)
	}
	if s := lt.stats[ev.Other]; s != nil {
		fn(s)
	}
}

// Count returns the number of tracked beans.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
