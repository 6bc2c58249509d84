package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer draws the world floor, a faint cell grid and the
// world bounds.
type BackgroundRenderer struct {
	worldW, worldH float32
	cellSize       float32
	floor          rl.Color
	grid           rl.Color
	edge           rl.Color
}

// NewBackgroundRenderer creates a background for a world of the given size.
// cellSize is the spacing of the grid lines; zero disables them.
func NewBackgroundRenderer(worldW, worldH, cellSize float32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		worldW:   worldW,
		worldH:   worldH,
		cellSize: cellSize,
		floor:    rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		grid:     rl.Color{R: 255, G: 255, B: 255, A: 12},
		edge:     rl.Color{R: 200, G: 200, B: 220, A: 120},
	}
}

// Draw renders in world space; call between BeginMode2D and EndMode2D.
func (b *BackgroundRenderer) Draw(zoom float32, showGrid bool) {
	rl.DrawRectangleRec(rl.Rectangle{Width: b.worldW, Height: b.worldH}, b.floor)

	if showGrid && b.cellSize > 0 {
		for x := b.cellSize; x < b.worldW; x += b.cellSize {
			rl.DrawLineV(rl.Vector2{X: x, Y: 0}, rl.Vector2{X: x, Y: b.worldH}, b.grid)
		}
		for y := b.cellSize; y < b.worldH; y += b.cellSize {
			rl.DrawLineV(rl.Vector2{X: 0, Y: y}, rl.Vector2{X: b.worldW, Y: y}, b.grid)
		}
	}

	// Keep the border about two screen pixels wide at any zoom
	rl.DrawRectangleLinesEx(rl.Rectangle{Width: b.worldW, Height: b.worldH}, 2/zoom, b.edge)
}
