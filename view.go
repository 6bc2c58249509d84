package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/camera"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/game"
	"github.com/pthm-cable/beans/inspector"
	"github.com/pthm-cable/beans/renderer"
	"github.com/pthm-cable/beans/telemetry"
	"github.com/pthm-cable/beans/ui"
)

const controlsLegend = "SPACE pause | , . speed | arrows pan | wheel zoom | HOME reset | TAB controls | click inspect"

// view owns the window-side state of a graphical run. It only reads the
// simulation, except for pause and speed.
type view struct {
	g   *game.Game
	cfg *config.Config

	screenW, screenH float32
	cam              *camera.Camera

	background *renderer.BackgroundRenderer
	fertility  *renderer.FertilityRenderer
	world      *renderer.WorldRenderer

	hud         *ui.HUD
	controls    *ui.ControlsPanel
	overlays    *ui.OverlayRegistry
	perfPanel   *ui.PerfPanel
	windowPanel *ui.WindowStatsPanel
	inspector   *inspector.Inspector

	lastWindow *telemetry.WindowStats
}

// runGraphical opens the window and runs until it is closed or max ticks
// is reached.
func runGraphical(opts game.Options, maxTicks int) {
	cfg := config.Cfg()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Beans")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape deselects

	v := &view{cfg: cfg}
	opts.StatsCallback = func(s telemetry.WindowStats) {
		v.lastWindow = &s
	}
	v.g = game.New(opts)
	v.init()
	defer v.fertility.Unload()

	for !rl.WindowShouldClose() {
		v.handleInput()
		v.g.Update()
		v.g.Perf().RecordFrame()
		v.draw()

		if maxTicks > 0 && int(v.g.Tick()) >= maxTicks {
			break
		}
	}
}

func (v *view) init() {
	v.screenW = float32(rl.GetScreenWidth())
	v.screenH = float32(rl.GetScreenHeight())
	v.cam = camera.New(v.screenW, v.screenH, v.cfg.Derived.WorldW32, v.cfg.Derived.WorldH32)

	v.background = renderer.NewBackgroundRenderer(v.cfg.Derived.WorldW32, v.cfg.Derived.WorldH32, float32(v.cfg.Physics.GridCellSize), 18, 22, 28)
	v.fertility = renderer.NewFertilityRenderer()
	v.world = renderer.NewWorldRenderer(v.cfg.Derived.GestationMs, float32(v.cfg.Food.Radius))

	v.hud = ui.NewHUD()
	v.overlays = ui.NewOverlayRegistry()
	v.controls = ui.NewControlsPanel(10, 135, 220)
	v.perfPanel = ui.NewPerfPanel(int32(v.screenW)-260, int32(v.screenH)-170)
	v.windowPanel = ui.NewWindowStatsPanel(10, int32(v.screenH)-185, 240)
	v.inspector = inspector.NewInspector(int32(v.screenW))
}

func (v *view) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.g.SetSpeed(v.g.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.g.SetSpeed(v.g.Speed() + 1)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}

	v.handleCameraInput()

	mouse := rl.GetMousePosition()
	if v.controls.IsVisible() && mouse.X < 240 {
		return
	}
	wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
	v.inspector.HandleInput(mouse.X, mouse.Y, wx, wy, v.g.Population())
}

// handleResize checks for window resize and propagates new dimensions.
func (v *view) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h

	v.cam.Resize(w, h)
	v.inspector.Resize(int32(w))
	v.perfPanel.SetPosition(int32(w)-260, int32(h)-170)
	v.windowPanel.SetPosition(10, int32(h)-185)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *view) handleCameraInput() {
	const panSpeed = 12 // screen pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	// Drag with the middle button
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

func (v *view) applyOverlays() {
	v.world.ShowStates = v.overlays.IsEnabled(ui.OverlayStateRings)
	v.world.ShowHoards = v.overlays.IsEnabled(ui.OverlayHoardAreas)
	switch {
	case v.overlays.IsEnabled(ui.OverlayRoleColors):
		v.world.Mode = renderer.ColorRole
	case v.overlays.IsEnabled(ui.OverlaySatietyColors):
		v.world.Mode = renderer.ColorSatiety
	default:
		v.world.Mode = renderer.ColorStrategy
	}
}

func (v *view) draw() {
	v.applyOverlays()
	pop := v.g.Population()
	selected, _ := v.inspector.Selected(pop)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 14, A: 255})

	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: v.screenW / 2, Y: v.screenH / 2},
		Target: rl.Vector2{X: v.cam.X, Y: v.cam.Y},
		Zoom:   v.cam.Zoom,
	})
	v.background.Draw(v.cam.Zoom, v.overlays.IsEnabled(ui.OverlayGrid))
	if v.overlays.IsEnabled(ui.OverlayFertility) {
		v.fertility.Draw(v.g.Fertility())
	}
	v.world.Draw(pop, v.g.Hoards(), v.cam, selected)
	v.inspector.DrawSelectionHighlight(pop)
	rl.EndMode2D()

	c := v.g.Counts()
	v.hud.Draw(ui.HUDData{
		Title:       "Beans",
		RunID:       v.g.RunID(),
		Beans:       c.Beans,
		Adults:      c.Adults,
		Cocoons:     c.Cocoons,
		Food:        c.Food,
		Hoards:      c.Hoards,
		TownCenters: c.TownCenters,
		Births:      c.Births,
		Deaths:      c.Deaths,
		Tick:        v.g.Tick(),
		Speed:       v.g.Speed(),
		FPS:         rl.GetFPS(),
		Paused:      v.g.Paused(),
		Extinct:     v.g.Extinct(),
	})

	res := v.controls.Draw(v.overlays, v.g.Speed(), v.cfg.Physics.MaxStepsFrame, v.g.Paused())
	if res.Speed != v.g.Speed() {
		v.g.SetSpeed(res.Speed)
	}
	if res.TogglePause {
		v.g.TogglePause()
	}

	v.windowPanel.Draw(v.lastWindow)
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.g.Perf().Stats())
	}
	if e, ok := v.inspector.Selected(pop); ok {
		v.inspector.Draw(pop, v.g.Lifetime(pop.BeanMap.Get(e).ID))
	}
	v.hud.DrawControls(int32(v.screenH), controlsLegend)

	rl.EndDrawing()
}
