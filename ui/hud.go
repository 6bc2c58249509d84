package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	RunID       string
	Beans       int
	Adults      int
	Cocoons     int
	Food        int
	Hoards      int
	TownCenters int
	Births      int
	Deaths      int
	Tick        int32
	Speed       int
	FPS         int32
	Paused      bool
	Extinct     bool
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Beans: %d (%d adult) | Cocoons: %d | Food: %d", data.Beans, data.Adults, data.Cocoons, data.Food),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Hoards: %d | Town centers: %d | Births: %d | Deaths: %d", data.Hoards, data.TownCenters, data.Births, data.Deaths),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	switch {
	case data.Extinct:
		rl.DrawText("EXTINCT", 10, 95, 16, rl.Red)
	case data.Paused:
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	default:
		rl.DrawText("Running", 10, 95, 16, rl.Yellow)
	}
	if data.RunID != "" {
		rl.DrawText(data.RunID, 10, 113, 10, rl.Gray)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel with phases in step order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Step: %s  (%.0f/s, %d/frame)", stats.AvgStep.Round(time.Microsecond), stats.TicksPerSecond, stats.StepsPerFrame), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range telemetry.Phases {
		avg := stats.PhaseAvg[ph]
		pct := stats.PhasePct[ph]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", ph, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
