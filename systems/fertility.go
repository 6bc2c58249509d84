package systems

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// FertilityField is a static grid of [0,1] fertility values sampled from
// octave simplex noise. Food spawns preferentially where it is high.
type FertilityField struct {
	W, H int

	// Fertility per cell, row-major
	Cap []float32

	worldW, worldH float32
}

// FertilityParams configures the noise.
type FertilityParams struct {
	Frequency   float64 // Cycles per world unit
	Octaves     int
	Persistence float64
	Seed        int64
}

// NewFertilityField samples a w*h grid covering the world.
func NewFertilityField(w, h int, worldW, worldH float32, p FertilityParams) *FertilityField {
	f := &FertilityField{
		W:      w,
		H:      h,
		Cap:    make([]float32, w*h),
		worldW: worldW,
		worldH: worldH,
	}
	noise := opensimplex.NewNormalized(p.Seed)
	cellW := float64(worldW) / float64(w)
	cellH := float64(worldH) / float64(h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wx := (float64(x) + 0.5) * cellW
			wy := (float64(y) + 0.5) * cellH
			v := octaveNoise(noise, wx, wy, p.Octaves, p.Frequency, p.Persistence)
			// Contrast shaping: sparse fertile patches
			f.Cap[y*w+x] = float32(v * v)
		}
	}
	return f
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// Width returns the world width covered by the field.
func (f *FertilityField) Width() float32 { return f.worldW }

// Height returns the world height covered by the field.
func (f *FertilityField) Height() float32 { return f.worldH }

// Sample returns the fertility at world coordinates (bilinear interpolation,
// clamped at the edges).
func (f *FertilityField) Sample(x, y float32) float32 {
	fx := x/f.worldW*float32(f.W) - 0.5
	fy := y/f.worldH*float32(f.H) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	at := func(cx, cy int) float32 {
		if cx < 0 {
			cx = 0
		} else if cx >= f.W {
			cx = f.W - 1
		}
		if cy < 0 {
			cy = 0
		} else if cy >= f.H {
			cy = f.H - 1
		}
		return f.Cap[cy*f.W+cx]
	}

	a := at(x0, y0) + (at(x0+1, y0)-at(x0, y0))*tx
	b := at(x0, y0+1) + (at(x0+1, y0+1)-at(x0, y0+1))*tx
	return a + (b-a)*ty
}

// GridSize returns the grid dimensions.
func (f *FertilityField) GridSize() (int, int) {
	return f.W, f.H
}
