package genetics

// Color is an opaque RGB display colour.
type Color struct {
	R, G, B uint8
}

// StrategyColor maps a strategy onto a display colour: aggression drives
// red, wanderlust green and risk aversion blue. A floor keeps every bean
// visible against the dark background.
func StrategyColor(s SurvivalStrategy) Color {
	aggr := (s.Aggression - scalarRange.Min) / (scalarRange.Max - scalarRange.Min)
	return Color{
		R: channel(aggr),
		G: channel(s.WanderLust),
		B: channel(s.RiskAversion),
	}
}

// Blend mixes two colours 50/50.
func Blend(a, b Color) Color {
	return Color{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
	}
}

func channel(t float32) uint8 {
	t = unitRange.Clamp(t)
	return uint8(60 + t*195)
}
