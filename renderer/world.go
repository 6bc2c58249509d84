package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/beans/camera"
	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/systems"
	"github.com/pthm-cable/beans/traits"
)

// Ring colours for notable states
var (
	colorCombat   = rl.Color{R: 255, G: 60, B: 60, A: 220}
	colorSeeking  = rl.Color{R: 255, G: 120, B: 200, A: 180}
	colorFleeing  = rl.Color{R: 255, G: 255, B: 255, A: 160}
	colorCarried  = rl.Color{R: 250, G: 220, B: 90, A: 255}
	colorFood     = rl.Color{R: 140, G: 220, B: 90, A: 255}
	colorBonus    = rl.Color{R: 120, G: 200, B: 255, A: 255}
	colorStash    = rl.Color{R: 220, G: 180, B: 90, A: 255}
	colorHoard    = rl.Color{R: 230, G: 200, B: 120, A: 60}
	colorSite     = rl.Color{R: 230, G: 200, B: 120, A: 200}
	colorTown     = rl.Color{R: 240, G: 210, B: 140, A: 230}
	colorCocoon   = rl.Color{R: 230, G: 230, B: 210, A: 255}
	colorSelected = rl.Color{R: 255, G: 255, B: 0, A: 255}
)

// ColorMode selects how bean bodies are tinted.
type ColorMode int

const (
	ColorStrategy ColorMode = iota // heritable strategy colour
	ColorRole                      // one colour per role
	ColorSatiety                   // red when starving, green when full
)

var roleColors = [...]rl.Color{
	traits.RoleNone:     {R: 170, G: 170, B: 170, A: 230},
	traits.RoleWorker:   {R: 240, G: 200, B: 80, A: 230},
	traits.RoleGuard:    {R: 220, G: 80, B: 80, A: 230},
	traits.RoleExplorer: {R: 80, G: 180, B: 240, A: 230},
}

// WorldRenderer draws food, hoards, cocoons and beans. It only reads
// simulation state.
type WorldRenderer struct {
	Mode       ColorMode
	ShowStates bool // combat, fleeing and mate-seeking rings
	ShowHoards bool // hoard territory discs

	gestationMs float32
	foodRadius  float32

	beans   []ecs.Entity
	foods   []ecs.Entity
	cocoons []ecs.Entity
}

// NewWorldRenderer creates a renderer.
func NewWorldRenderer(gestationMs, foodRadius float32) *WorldRenderer {
	return &WorldRenderer{
		ShowStates:  true,
		ShowHoards:  true,
		gestationMs: gestationMs,
		foodRadius:  foodRadius,
	}
}

// Draw renders everything visible through cam; call between BeginMode2D and
// EndMode2D. selected may be the zero entity.
func (r *WorldRenderer) Draw(pop *systems.Population, hoards *systems.HoardRegistry, cam *camera.Camera, selected ecs.Entity) {
	r.drawHoards(hoards, cam)
	r.drawFood(pop, cam)
	r.drawCocoons(pop, cam)
	r.drawBeans(pop, cam, selected)
}

func (r *WorldRenderer) drawHoards(hoards *systems.HoardRegistry, cam *camera.Camera) {
	for _, h := range hoards.Hoards() {
		if !cam.IsVisible(h.X, h.Y, h.Radius) {
			continue
		}
		center := rl.Vector2{X: h.X, Y: h.Y}
		if r.ShowHoards {
			rl.DrawCircleV(center, h.Radius, colorHoard)
			rl.DrawCircleLinesV(center, h.Radius, rl.Fade(colorHoard, 0.8))
		}
		if h.TownCenter != nil {
			size := h.Radius * 0.6
			rl.DrawRectanglePro(
				rl.Rectangle{X: h.X, Y: h.Y, Width: size, Height: size},
				rl.Vector2{X: size / 2, Y: size / 2}, 45, colorTown)
		}
	}
	for _, site := range hoards.Sites() {
		if !cam.IsVisible(site.X, site.Y, 20) {
			continue
		}
		frac := float32(0)
		if site.ResourcesNeeded > 0 {
			frac = min(site.Progress/site.ResourcesNeeded, 1)
		}
		center := rl.Vector2{X: site.X, Y: site.Y}
		rl.DrawRing(center, 14, 18, -90, -90+360*frac, 24, colorSite)
		rl.DrawCircleLinesV(center, 18, rl.Fade(colorSite, 0.4))
	}
}

func (r *WorldRenderer) drawFood(pop *systems.Population, cam *camera.Camera) {
	r.foods = pop.Foods(r.foods[:0])
	for _, e := range r.foods {
		pos := pop.PosMap.Get(e)
		if !cam.IsVisible(pos.X, pos.Y, r.foodRadius) {
			continue
		}
		f := pop.FoodMap.Get(e)
		c := colorFood
		switch {
		case f.Stash != components.NoHoard:
			c = colorStash
		case f.Bonus.Value > 0:
			c = colorBonus
		}
		rl.DrawCircleV(rl.Vector2{X: pos.X, Y: pos.Y}, r.foodRadius*(0.7+0.15*f.Satiety), c)
	}
}

func (r *WorldRenderer) drawCocoons(pop *systems.Population, cam *camera.Camera) {
	r.cocoons = pop.Cocoons(r.cocoons[:0])
	for _, e := range r.cocoons {
		pos := pop.PosMap.Get(e)
		c := pop.CocoonMap.Get(e)
		if !cam.IsVisible(pos.X, pos.Y, c.Radius) {
			continue
		}
		center := rl.Vector2{X: pos.X, Y: pos.Y}
		rl.DrawCircleV(center, c.Radius, toRL(c.Color, 255))
		rl.DrawCircleLinesV(center, c.Radius, colorCocoon)
		if r.gestationMs > 0 {
			frac := min(c.Elapsed/r.gestationMs, 1)
			rl.DrawRing(center, c.Radius+2, c.Radius+4, -90, -90+360*frac, 24, colorCocoon)
		}
	}
}

func (r *WorldRenderer) drawBeans(pop *systems.Population, cam *camera.Camera, selected ecs.Entity) {
	r.beans = pop.Beans(r.beans[:0])
	for _, e := range r.beans {
		b := pop.ActiveBean(e)
		if b == nil {
			continue
		}
		pos := pop.PosMap.Get(e)
		body := pop.BodyMap.Get(e)
		if !cam.IsVisible(pos.X, pos.Y, body.Radius*3) {
			continue
		}
		tail := pop.TailMap.Get(e)
		r.drawBean(b, pos, body, tail)
		if e == selected {
			rl.DrawCircleLinesV(rl.Vector2{X: pos.X, Y: pos.Y}, body.Radius+6, colorSelected)
		}
	}
}

// drawBean draws the jelly body: a tapered tail toward the spring point,
// the head circle, an eye on the facing side and state rings.
func (r *WorldRenderer) drawBean(b *components.Bean, pos *components.Position, body *components.Body, tail *components.Tail) {
	head := rl.Vector2{X: pos.X, Y: pos.Y}
	tailPt := rl.Vector2{X: tail.X, Y: tail.Y}
	fill := r.beanColor(b)

	rl.DrawLineEx(head, tailPt, body.Radius*1.2, rl.Fade(fill, 0.6))
	rl.DrawCircleV(tailPt, body.Radius*0.6, rl.Fade(fill, 0.6))
	rl.DrawCircleV(head, body.Radius, fill)

	fx := float32(math.Cos(float64(b.FacingAngle)))
	fy := float32(math.Sin(float64(b.FacingAngle)))
	eye := rl.Vector2{X: pos.X + fx*body.Radius*0.5, Y: pos.Y + fy*body.Radius*0.5}
	rl.DrawCircleV(eye, max(body.Radius*0.18, 1.5), rl.Black)

	if b.Carrying {
		rl.DrawCircleV(rl.Vector2{X: pos.X + fx*body.Radius, Y: pos.Y + fy*body.Radius}, 4, colorCarried)
	}

	if !r.ShowStates {
		return
	}
	switch {
	case b.CombatTimer > 0:
		rl.DrawCircleLinesV(head, body.Radius+3, colorCombat)
	case b.State == components.StateFleeing:
		rl.DrawCircleLinesV(head, body.Radius+3, colorFleeing)
	case b.IsSeekingMate:
		rl.DrawCircleLinesV(head, body.Radius+3, colorSeeking)
	}
}

func (r *WorldRenderer) beanColor(b *components.Bean) rl.Color {
	switch r.Mode {
	case ColorRole:
		if int(b.Role) < len(roleColors) {
			return roleColors[b.Role]
		}
	case ColorSatiety:
		frac := float32(0)
		if b.MaxSatiety > 0 {
			frac = min(max(b.Satiety/b.MaxSatiety, 0), 1)
		}
		return rl.Color{R: uint8(230 * (1 - frac)), G: uint8(60 + 170*frac), B: 70, A: 230}
	}
	return toRL(b.Color, 230)
}

func toRL(c genetics.Color, a uint8) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: a}
}
