// Package telemetry provides population statistics, bookmarks, the event
// log and run output.
package telemetry

import (
	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/systems"
)

// EventRecord is one line of the event log.
type EventRecord struct {
	RunID string  `json:"run"`
	Tick  int32   `json:"tick"`
	Kind  string  `json:"kind"`
	Bean  uint32  `json:"bean,omitempty"`
	Other uint32  `json:"other,omitempty"`
	Hoard uint32  `json:"hoard,omitempty"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Value float32 `json:"value,omitempty"`
	Fate  string  `json:"fate,omitempty"`
}

// NewEventRecord converts a simulation event at the given tick.
func NewEventRecord(runID string, tick int32, ev systems.Event) EventRecord {
	rec := EventRecord{
		RunID: runID,
		Tick:  tick,
		Kind:  ev.Kind.String(),
		Bean:  ev.Bean,
		Other: ev.Other,
		Hoard: uint32(ev.Hoard),
		X:     ev.X,
		Y:     ev.Y,
		Value: ev.Value,
	}
	if ev.Fate != components.FateAlive {
		rec.Fate = ev.Fate.String()
	}
	return rec
}
