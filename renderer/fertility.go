package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/systems"
)

// FertilityRenderer draws the food fertility map as a faint green wash
// stretched over the world rectangle.
type FertilityRenderer struct {
	tex         rl.Texture2D
	texW, texH  int
	initialized bool
}

// NewFertilityRenderer creates a renderer; the texture is built on first Draw.
func NewFertilityRenderer() *FertilityRenderer {
	return &FertilityRenderer{}
}

// init uploads the static fertility grid. It must run after the window exists.
func (r *FertilityRenderer) init(f *systems.FertilityField) {
	r.texW, r.texH = f.GridSize()

	img := rl.GenImageColor(r.texW, r.texH, rl.Blank)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	pixels := make([]color.RGBA, r.texW*r.texH)
	for i, v := range f.Cap {
		v = min(max(v, 0), 1)
		pixels[i] = color.RGBA{R: 40, G: uint8(90 + v*120), B: 50, A: uint8(v * 110)}
	}
	rl.UpdateTexture(r.tex, pixels)
	r.initialized = true
}

// Draw renders the map in world space; call between BeginMode2D and EndMode2D.
func (r *FertilityRenderer) Draw(f *systems.FertilityField) {
	if f == nil {
		return
	}
	if !r.initialized {
		r.init(f)
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.texW), Height: float32(r.texH)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: f.Width(), Height: f.Height()}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FertilityRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
