package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beans/components"
	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/genetics"
	"github.com/pthm-cable/beans/traits"
)

// BeanSections lists the inspector's right-hand column: identity, physical
// attributes and strategy genes.
func BeanSections() []BeanSection {
	return []BeanSection{
		identitySection(),
		attributeSection(),
		strategySection(),
	}
}

func identitySection() BeanSection {
	return BeanSection{
		Title: "Bean",
		Fields: []BeanField{
			{
				Label: "Color", Widget: WidgetSwatch,
				Swatch: func(b *components.Bean) rl.Color {
					return rl.Color{R: b.Color.R, G: b.Color.G, B: b.Color.B, A: 255}
				},
			},
			{
				Label: "State", Widget: WidgetText,
				Text: func(b *components.Bean) string {
					if b.PreviousState != b.State {
						return fmt.Sprintf("%s (from %s)", b.State, b.PreviousState)
					}
					return b.State.String()
				},
			},
			{
				Label: "Role", Widget: WidgetText,
				Text: func(b *components.Bean) string { return b.Role.String() },
			},
			{
				Label: "Hoard", Widget: WidgetText,
				Text: func(b *components.Bean) string {
					if b.Hoard == components.NoHoard {
						return "-"
					}
					return fmt.Sprintf("#%d", b.Hoard)
				},
			},
			{
				Label: "Carrying", Widget: WidgetText,
				Shown: func(b *components.Bean) bool { return b.Carrying },
				Text: func(b *components.Bean) string {
					return fmt.Sprintf("%.0f satiety", b.Carried.Satiety)
				},
			},
		},
	}
}

func attributeSection() BeanSection {
	cfg := config.Cfg().Attributes
	span := Span{Min: float32(cfg.Min), Max: float32(cfg.Max)}

	fields := make([]BeanField, 0, traits.NumAttrs)
	for a := traits.Attr(0); a < traits.NumAttrs; a++ {
		fields = append(fields, BeanField{
			Label:  a.String(),
			Widget: WidgetBar,
			Span:   span,
			Value:  func(b *components.Bean) float32 { return b.Attrs.Get(a) },
		})
	}
	return BeanSection{Title: "Attributes", Fields: fields}
}

// strategySection warns on genes sitting in the bottom tenth of their range.
func strategySection() BeanSection {
	fields := make([]BeanField, 0, genetics.NumFields)
	for f := genetics.Field(0); f < genetics.NumFields; f++ {
		r := genetics.FieldRange(f)
		fields = append(fields, BeanField{
			Label:  f.String(),
			Widget: WidgetBar,
			Span:   Span{Min: r.Min, Max: r.Max},
			Warn:   0.1,
			Value:  func(b *components.Bean) float32 { return b.Strategy.Get(f) },
		})
	}
	return BeanSection{Title: "Survival Strategy", Fields: fields}
}
