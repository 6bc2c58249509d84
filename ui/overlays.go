package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable world overlay. IDs double as bit positions.
type OverlayID uint8

const (
	OverlayFertility OverlayID = iota
	OverlayGrid
	OverlayRoleColors
	OverlaySatietyColors
	OverlayStateRings
	OverlayHoardAreas
	OverlayPerf
)

func (id OverlayID) bit() uint32 { return 1 << id }

// Overlay groups shown as headers in the controls panel.
const (
	CategoryWorld = "World"
	CategoryBeans = "Beans"
	CategoryDebug = "Debug"
)

// OverlayDescriptor is one toggle in the controls panel.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // 0 = no hotkey
	KeyLabel  string // shown as [K]
	Category  string
	Default   bool
	Excludes  uint32 // overlay bits switched off when this one turns on
}

var overlayTable = []OverlayDescriptor{
	{ID: OverlayFertility, Name: "Fertility", Key: rl.KeyF, KeyLabel: "F", Category: CategoryWorld, Default: true},
	{ID: OverlayGrid, Name: "Spatial Grid", Key: rl.KeyG, KeyLabel: "G", Category: CategoryWorld},
	{ID: OverlayHoardAreas, Name: "Hoard Areas", Key: rl.KeyH, KeyLabel: "H", Category: CategoryWorld, Default: true},
	{ID: OverlayRoleColors, Name: "Role Colors", Key: rl.KeyC, KeyLabel: "C", Category: CategoryBeans, Excludes: OverlaySatietyColors.bit()},
	{ID: OverlaySatietyColors, Name: "Satiety Colors", Key: rl.KeyV, KeyLabel: "V", Category: CategoryBeans, Excludes: OverlayRoleColors.bit()},
	{ID: OverlayStateRings, Name: "State Rings", Key: rl.KeyR, KeyLabel: "R", Category: CategoryBeans, Default: true},
	{ID: OverlayPerf, Name: "Step Timings", Key: rl.KeyP, KeyLabel: "P", Category: CategoryDebug},
}

// OverlayRegistry holds which overlays are on as a bit set.
type OverlayRegistry struct {
	on uint32
}

// NewOverlayRegistry starts with the default overlays on.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{}
	for _, d := range overlayTable {
		if d.Default {
			r.on |= d.ID.bit()
		}
	}
	return r
}

// Toggle flips id and returns its new state. Turning bean coloring on turns
// the other coloring off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.on ^= id.bit()
	on := r.IsEnabled(id)
	if on {
		for _, d := range overlayTable {
			if d.ID == id {
				r.on &^= d.Excludes
			}
		}
	}
	return on
}

// IsEnabled reports whether id is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.on&id.bit() != 0
}

// Categories lists the panel groups in display order.
func (r *OverlayRegistry) Categories() []string {
	return []string{CategoryWorld, CategoryBeans, CategoryDebug}
}

// ByCategory returns the overlays of one group.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range overlayTable {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// HandleKeyPress toggles the overlay bound to key, if any.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, d := range overlayTable {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return 0, false, false
}
