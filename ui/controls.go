package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/telemetry"
)

// ControlsPanel renders the left-side panel with the speed slider, the
// pause button and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// ControlsResult reports the user's changes from one Draw call.
type ControlsResult struct {
	Speed       int
	TogglePause bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel. speed is the current sub-step multiplier and
// maxSpeed its upper bound.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, speed, maxSpeed int, paused bool) ControlsResult {
	res := ControlsResult{Speed: speed}
	if !c.visible {
		return res
	}

	r := c.renderer
	padding := r.Theme.Pad
	lineHeight := r.Theme.Line

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*4 + lineHeight*2 + 60

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	inner := float32(c.width - padding*2)

	rl.DrawText(fmt.Sprintf("Speed %dx", speed), c.x+padding, y, 16, rl.White)
	y += lineHeight + 4
	v := gui.SliderBar(
		rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: inner - 40, Height: 16},
		"", fmt.Sprint(maxSpeed),
		float32(speed), 1, float32(maxSpeed),
	)
	res.Speed = int(v + 0.5)
	y += 24

	label := "Pause"
	if paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: inner, Height: 24}, label) {
		res.TogglePause = true
	}
	y += 36

	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(category, c.x+padding, y, r.Theme.HeaderFont, r.Theme.Header)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return res
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.Label
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.Font, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.Font)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.Font, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// WindowStatsPanel renders the most recent telemetry window.
type WindowStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewWindowStatsPanel creates a new window stats panel.
func NewWindowStatsPanel(x, y, width int32) *WindowStatsPanel {
	return &WindowStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *WindowStatsPanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the panel. Nothing is drawn before the first window closes.
func (q *WindowStatsPanel) Draw(s *telemetry.WindowStats) int32 {
	if s == nil {
		return q.y
	}
	r := q.renderer
	padding := r.Theme.Pad
	lineHeight := r.Theme.Line

	panelHeight := lineHeight*8 + padding*2
	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding
	rl.DrawText(fmt.Sprintf("Window @ %.0fs", s.SimTimeSec), q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(q.x+padding, y, "Satiety", fmt.Sprintf("%.1f ± %.1f", s.SatietyMean, s.SatietyStd))
	y = r.DrawLabelValue(q.x+padding, y, "Births", fmt.Sprint(s.Births))
	y = r.DrawLabelValue(q.x+padding, y, "Starved/Killed", fmt.Sprintf("%d / %d", s.Starved, s.Killed))
	y = r.DrawLabelValue(q.x+padding, y, "Combats", fmt.Sprint(s.Combats))
	y = r.DrawLabelValue(q.x+padding, y, "Deposits", fmt.Sprint(s.Deposits))
	y = r.DrawLabelValue(q.x+padding, y, "Roles W/G/E", fmt.Sprintf("%d / %d / %d", s.Workers, s.Guards, s.Explorers))

	return y
}
