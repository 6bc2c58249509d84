// Package ui draws the screen-space panels: HUD, controls, overlay toggles
// and the bean detail sections the inspector lays out.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/components"
)

// Widget is how one bean field is drawn.
type Widget int

const (
	WidgetText   Widget = iota // label and value text
	WidgetBar                  // filled bar over Span
	WidgetSwatch               // color square
)

// Span is the value range a bar covers.
type Span struct {
	Min, Max float32
}

// Ratio maps v into [0, 1]; an empty span reads as 0.
func (s Span) Ratio(v float32) float32 {
	if s.Max <= s.Min {
		return 0
	}
	return min(max((v-s.Min)/(s.Max-s.Min), 0), 1)
}

// BeanField is one row of a bean section. Exactly one of Value, Text or
// Swatch is set, matching Widget.
type BeanField struct {
	Label  string
	Widget Widget
	Span   Span
	Warn   float32 // bars below this ratio use the warning fill

	Value  func(*components.Bean) float32
	Text   func(*components.Bean) string
	Swatch func(*components.Bean) rl.Color
	Shown  func(*components.Bean) bool // nil shows always
}

func (f BeanField) shown(b *components.Bean) bool {
	return f.Shown == nil || f.Shown(b)
}

// BeanSection is a titled group of bean fields.
type BeanSection struct {
	Title  string
	Fields []BeanField
}

// Theme holds panel colors and metrics.
type Theme struct {
	Panel, Border, Header rl.Color
	Label, Value          rl.Color
	Track, Fill, Warn     rl.Color

	Pad, Line, LabelW, BarH int32
	Font, HeaderFont        int32
}

// DefaultTheme is the dark slate look shared by every panel.
func DefaultTheme() Theme {
	return Theme{
		Panel:      rl.Color{R: 20, G: 25, B: 30, A: 240},
		Border:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:     rl.Yellow,
		Label:      rl.LightGray,
		Value:      rl.LightGray,
		Track:      rl.Color{R: 40, G: 40, B: 40, A: 255},
		Fill:       rl.Color{R: 100, G: 150, B: 200, A: 255},
		Warn:       rl.Color{R: 200, G: 100, B: 100, A: 255},
		Pad:        10,
		Line:       16,
		LabelW:     110,
		BarH:       12,
		Font:       12,
		HeaderFont: 14,
	}
}
