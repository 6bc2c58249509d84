package genetics

import (
	"math"
	"math/rand"
	"testing"
)

func TestClampBounds(t *testing.T) {
	s := SurvivalStrategy{
		WanderLust:        1.7,
		HoardingThreshold: -5,
		RiskAversion:      -0.1,
		HungerTolerance:   140,
		MatingThreshold:   50,
		SearchRange:       0.05,
		FleeThreshold:     100.5,
		Aggression:        9,
	}
	c := s.Clamp()

	want := SurvivalStrategy{
		WanderLust:        1,
		HoardingThreshold: 0,
		RiskAversion:      0,
		HungerTolerance:   100,
		MatingThreshold:   50,
		SearchRange:       0.2,
		FleeThreshold:     100,
		Aggression:        3,
	}
	if c != want {
		t.Errorf("Clamp() = %+v, want %+v", c, want)
	}
	if again := c.Clamp(); again != c {
		t.Errorf("re-clamp changed value: %+v -> %+v", c, again)
	}
}

func TestRandomWithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		s := Random(rng)
		if s.Clamp() != s {
			t.Fatalf("random strategy out of range: %+v", s)
		}
	}
}

func TestRandomDrawsFromFounderRange(t *testing.T) {
	for f := Field(0); f < NumFields; f++ {
		fr, r := FounderRange(f), FieldRange(f)
		if fr.Min < r.Min || fr.Max > r.Max || fr.Min >= fr.Max {
			t.Errorf("%s: founder range %v not inside %v", f, fr, r)
		}
	}

	rng := rand.New(rand.NewSource(3))
	lo, hi := Random(rng), Random(rng)
	for i := 0; i < 2000; i++ {
		s := Random(rng)
		for f := Field(0); f < NumFields; f++ {
			v := s.Get(f)
			if fr := FounderRange(f); v < fr.Min || v > fr.Max {
				t.Fatalf("%s = %v outside founder range %v", f, v, fr)
			}
			lo.Set(f, min(lo.Get(f), v))
			hi.Set(f, max(hi.Get(f), v))
		}
	}
	// The draw covers the founder range, not a corner of it.
	for f := Field(0); f < NumFields; f++ {
		fr := FounderRange(f)
		span := fr.Max - fr.Min
		if lo.Get(f) > fr.Min+span*0.05 || hi.Get(f) < fr.Max-span*0.05 {
			t.Errorf("%s drawn over [%v, %v], want near %v", f, lo.Get(f), hi.Get(f), fr)
		}
	}
}

func TestBreedMutatesExactlyOneField(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := SurvivalStrategy{0.2, 40, 0.4, 20, 60, 1.0, 20, 1.0}
	b := SurvivalStrategy{0.6, 80, 0.8, 40, 80, 2.0, 40, 2.0}

	for i := 0; i < 200; i++ {
		child := Breed(a, b, rng)
		changed := 0
		for f := Field(0); f < NumFields; f++ {
			avg := (a.Get(f) + b.Get(f)) / 2
			diff := math.Abs(float64(child.Get(f) - avg))
			if diff > 1e-5 {
				changed++
				if diff > float64(MutationStep(f))+1e-5 {
					t.Errorf("field %s mutated by %v, step %v", f, diff, MutationStep(f))
				}
			}
		}
		if changed > 1 {
			t.Fatalf("breed changed %d fields, want at most 1", changed)
		}
	}
}

func TestBreedClampsAtBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	top := SurvivalStrategy{1, 100, 1, 100, 100, 3, 100, 3}
	bottom := SurvivalStrategy{0, 0, 0, 0, 0, 0.2, 0, 0.2}

	for i := 0; i < 200; i++ {
		if c := Breed(top, top, rng); c.Clamp() != c {
			t.Fatalf("child of top parents out of range: %+v", c)
		}
		if c := Breed(bottom, bottom, rng); c.Clamp() != c {
			t.Fatalf("child of bottom parents out of range: %+v", c)
		}
	}
}

func TestMutationStep(t *testing.T) {
	tests := []struct {
		field Field
		want  float32
	}{
		{WanderLust, 0.2},
		{RiskAversion, 0.2},
		{SearchRange, 0.2},
		{Aggression, 0.2},
		{HoardingThreshold, 10},
		{HungerTolerance, 10},
		{MatingThreshold, 10},
		{FleeThreshold, 10},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			if got := MutationStep(tt.field); got != tt.want {
				t.Errorf("MutationStep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	got := Blend(Color{255, 0, 100}, Color{1, 200, 101})
	want := Color{128, 100, 100}
	if got != want {
		t.Errorf("Blend = %+v, want %+v", got, want)
	}
}
