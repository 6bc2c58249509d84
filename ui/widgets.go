package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/components"
)

// Renderer draws themed panel primitives.
type Renderer struct {
	Theme Theme
}

// NewRenderer returns a renderer using DefaultTheme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills and outlines a panel rectangle.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawLabelValue draws "label: value" and returns the next row's y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := &r.Theme
	rl.DrawText(label+":", x, y, t.Font, t.Label)
	rl.DrawText(value, x+t.LabelW, y, t.Font, t.Value)
	return y + t.Line
}

const barGap = 2

func (r *Renderer) drawBar(x, y int32, f BeanField, v float32, width int32) int32 {
	t := &r.Theme
	ratio := f.Span.Ratio(v)
	bx := x + t.LabelW
	bw := width - t.LabelW - 50

	rl.DrawText(f.Label+":", x, y, t.Font, t.Label)
	rl.DrawRectangle(bx, y+barGap, bw, t.BarH, t.Track)
	fill := t.Fill
	if ratio < f.Warn {
		fill = t.Warn
	}
	rl.DrawRectangle(bx, y+barGap, int32(float32(bw)*ratio), t.BarH, fill)
	rl.DrawText(fmt.Sprintf("%.2f", v), bx+bw+5, y, t.Font, t.Value)
	return y + t.Line + barGap
}

func (r *Renderer) drawSwatch(x, y int32, label string, c rl.Color) int32 {
	t := &r.Theme
	rl.DrawText(label+":", x, y, t.Font, t.Label)
	rl.DrawRectangle(x+t.LabelW, y+1, t.BarH, t.BarH, c)
	return y + t.Line
}

// DrawSection draws one bean section and returns the y below it.
func (r *Renderer) DrawSection(x, y int32, s BeanSection, b *components.Bean, width int32) int32 {
	t := &r.Theme
	if s.Title != "" {
		rl.DrawText(s.Title, x, y, t.HeaderFont, t.Header)
		y += t.Line
	}
	for _, f := range s.Fields {
		if !f.shown(b) {
			continue
		}
		switch f.Widget {
		case WidgetBar:
			y = r.drawBar(x, y, f, f.Value(b), width)
		case WidgetSwatch:
			y = r.drawSwatch(x, y, f.Label, f.Swatch(b))
		default:
			y = r.DrawLabelValue(x, y, f.Label, f.Text(b))
		}
	}
	return y + 4
}

// SectionHeight is the height DrawSection takes for b.
func (r *Renderer) SectionHeight(s BeanSection, b *components.Bean) int32 {
	t := &r.Theme
	h := int32(4)
	if s.Title != "" {
		h += t.Line
	}
	for _, f := range s.Fields {
		if !f.shown(b) {
			continue
		}
		h += t.Line
		if f.Widget == WidgetBar {
			h += barGap
		}
	}
	return h
}
