package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/telemetry"
	"github.com/pthm-cable/beans/ui"
)

// Panel dimensions
const (
	ColumnWidth  = 280
	PanelWidth   = ColumnWidth * 2
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorVision      = rl.Color{R: 200, G: 200, B: 200, A: 50}
	ColorTarget      = rl.Color{R: 255, G: 200, B: 100, A: 160}
)

// Inspector manages bean selection and the read-only detail panel.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32

	sections []ui.BeanSection
	ui       *ui.Renderer
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth int32) *Inspector {
	return &Inspector{
		panelX:   screenWidth - PanelWidth - 10,
		panelY:   10,
		sections: ui.BeanSections(),
		ui:       ui.NewRenderer(),
	}
}

// Resize keeps the panel anchored to the right edge.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// HandleInput processes clicks. mouseX/mouseY are screen coordinates,
// worldX/worldY the same point in world space.
func (ins *Inspector) HandleInput(mouseX, mouseY, worldX, worldY float32, pop *systems.Population) {
	// Right click or Escape to deselect
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return
		}

		// Clicks inside the panel don't pick
		if int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
			int32(mouseY) >= ins.panelY {
			return
		}
	}

	if e, ok := Pick(pop, worldX, worldY); ok {
		ins.selected = e
		ins.hasSelected = true
	}
}

// Pick returns the active bean whose body, padded by 5px, contains the
// world point. The closest one wins.
func Pick(pop *systems.Population, wx, wy float32) (ecs.Entity, bool) {
	var closest ecs.Entity
	closestDist := float32(1e12)
	found := false

	for _, e := range pop.Beans(nil) {
		if pop.ActiveBean(e) == nil {
			continue
		}
		pos := pop.PosMap.Get(e)
		body := pop.BodyMap.Get(e)

		dx := wx - pos.X
		dy := wy - pos.Y
		dist := dx*dx + dy*dy

		hitRadius := body.Radius + 5
		if dist < hitRadius*hitRadius && dist < closestDist {
			closest = e
			closestDist = dist
			found = true
		}
	}
	return closest, found
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selected = ecs.Entity{}
}

// Selected returns the currently selected entity, dropping selections whose
// bean has left the simulation.
func (ins *Inspector) Selected(pop *systems.Population) (ecs.Entity, bool) {
	if ins.hasSelected && pop.ActiveBean(ins.selected) == nil {
		ins.Deselect()
	}
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if a bean is selected. life may be nil.
func (ins *Inspector) Draw(pop *systems.Population, life *telemetry.LifetimeStats) {
	e, ok := ins.Selected(pop)
	if !ok {
		return
	}
	bean := pop.ActiveBean(e)
	pos := pop.PosMap.Get(e)
	vel := pop.VelMap.Get(e)
	body := pop.BodyMap.Get(e)

	panelHeight := ins.calculatePanelHeight(body, bean)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	// Left column: raw component fields
	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	y += DrawLabel(x, y, "Position", fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y), nil)
	y += DrawLabel(x, y, "Velocity", fmt.Sprintf("(%.1f, %.1f)", vel.X, vel.Y), nil)
	for _, f := range ExtractFields(body) {
		y += DrawField(x, y, f)
	}
	for _, f := range ExtractFields(bean) {
		y += DrawField(x, y, f)
	}

	y += 4
	ins.drawSectionHeader(x, y, "LIFETIME")
	y += 20
	if life != nil {
		y += DrawLabel(x, y, "Born", fmt.Sprintf("tick %d", life.BirthTick), nil)
		y += DrawLabel(x, y, "Combats", life.Combats, nil)
		y += DrawLabel(x, y, "Flees", life.Flees, nil)
		y += DrawLabel(x, y, "Locks", life.Locks, nil)
		DrawLabel(x, y, "Deposits", fmt.Sprintf("%d (%.0f)", life.Deposits, life.DepositedSatiety), nil)
	} else {
		rl.DrawText("(not tracked)", x, y, 12, ColorTextDim)
	}

	// Right column: descriptor sections
	x = ins.panelX + ColumnWidth + PanelPadding
	y = ins.panelY + HeaderHeight + PanelPadding
	for _, sd := range ins.sections {
		y = ins.ui.DrawSection(x, y, sd, bean, ColumnWidth-2*PanelPadding)
	}
}

// drawSectionHeader renders a section title.
func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, ColumnWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// calculatePanelHeight computes the height of the taller column.
func (ins *Inspector) calculatePanelHeight(body *components.Body, bean *components.Bean) int32 {
	left := int32(HeaderHeight + PanelPadding)
	left += rowHeight * 2 // position, velocity
	for _, f := range ExtractFields(body) {
		left += FieldHeight(f)
	}
	for _, f := range ExtractFields(bean) {
		left += FieldHeight(f)
	}
	left += 4 + 20 + rowHeight*5 // lifetime
	left += PanelPadding

	right := int32(HeaderHeight + PanelPadding)
	for _, sd := range ins.sections {
		right += ins.ui.SectionHeight(sd, bean)
	}
	right += PanelPadding

	return max(left, right)
}

// DrawSelectionHighlight draws the selected bean's vision radius and its
// current movement target in world space.
func (ins *Inspector) DrawSelectionHighlight(pop *systems.Population) {
	e, ok := ins.Selected(pop)
	if !ok {
		return
	}
	bean := pop.ActiveBean(e)
	pos := pop.PosMap.Get(e)
	center := rl.Vector2{X: pos.X, Y: pos.Y}

	vision := float32(config.Cfg().Vision.Radius) * bean.Strategy.SearchRange
	rl.DrawCircleLinesV(center, vision, ColorVision)

	if bean.HasTarget {
		target := rl.Vector2{X: bean.MoveTarget.X, Y: bean.MoveTarget.Y}
		rl.DrawLineV(center, target, ColorTarget)
		rl.DrawCircleV(target, 3, ColorTarget)
	}
}
