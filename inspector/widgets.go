package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	labelWidth = 110
	rowHeight  = 18
)

// DrawLabel renders "name: value" and returns the row height.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	return drawText(x, y, name, FormatValue(value, options["fmt"]))
}

func drawText(x, y int32, name, text string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(text, x+labelWidth, y, 14, ColorText)
	return rowHeight
}

// DrawBar renders a horizontal bar of value over the "max" option.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := min(max(value/GetMax(options), 0), 1)
	const barWidth, barHeight = 100, 14

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + labelWidth
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)
	fill := ColorBarFill
	if ratio < 0.3 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(barWidth*ratio), barHeight, fill)

	rl.DrawText(fmt.Sprintf("%.1f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return rowHeight
}

// DrawAngle renders a compass needle for a heading in radians.
func DrawAngle(x, y int32, name string, radians float32) int32 {
	const size = 40
	cx := float32(x + labelWidth + size/2)
	cy := float32(y + size/2)

	rl.DrawText(name, x, y+size/2-7, 14, ColorTextDim)

	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, size/2, ColorAngleBg)
	rl.DrawCircleLinesV(rl.Vector2{X: cx, Y: cy}, size/2, ColorTextDim)

	const needle = size/2 - 4
	tip := rl.Vector2{
		X: cx + needle*float32(math.Cos(float64(radians))),
		Y: cy + needle*float32(math.Sin(float64(radians))),
	}
	rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, tip, 2, ColorAngleNeedle)

	degrees := math.Mod(float64(radians)*180/math.Pi+360, 360)
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+labelWidth+size+5, y+size/2-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	c, text := ColorBoolOff, "no"
	if value {
		c, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(x+labelWidth, y, 14, 14, c)
	rl.DrawText(text, x+labelWidth+19, y, 14, c)
	return rowHeight
}

// DrawField renders a field using its widget type and returns its height.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return drawText(x, y, f.Name, f.Text())
}

// FieldHeight returns the height DrawField uses for f.
func FieldHeight(f Field) int32 {
	if f.Widget == WidgetAngle {
		return 44
	}
	return rowHeight
}
