// Package genetics defines the heritable survival strategy of a bean and
// how two parent strategies combine into an offspring strategy.
package genetics

import "math/rand"

// SurvivalStrategy is the genetic parameter vector governing a bean's
// probabilistic behaviour thresholds.
type SurvivalStrategy struct {
	WanderLust        float32 `inspect:"bar,max:1"`   // Chance to roam instead of idling
	HoardingThreshold float32 `inspect:"bar,max:100"` // Satiety needed before hauling surplus
	RiskAversion      float32 `inspect:"bar,max:1"`   // How tightly the bean clings to its hoard
	HungerTolerance   float32 `inspect:"bar,max:100"` // Satiety under which safety is ignored
	MatingThreshold   float32 `inspect:"bar,max:100"` // Satiety needed to seek a mate
	SearchRange       float32 `inspect:"bar,max:3"`   // Vision multiplier
	FleeThreshold     float32 `inspect:"bar,max:100"` // Satiety under which combat turns to flight
	Aggression        float32 `inspect:"bar,max:3"`   // Chase distance multiplier
}

// Field identifies one strategy gene.
type Field uint8

const (
	WanderLust Field = iota
	HoardingThreshold
	RiskAversion
	HungerTolerance
	MatingThreshold
	SearchRange
	FleeThreshold
	Aggression
	NumFields
)

var fieldNames = [NumFields]string{
	"wander_lust",
	"hoarding_threshold",
	"risk_aversion",
	"hunger_tolerance",
	"mating_threshold",
	"search_range",
	"flee_threshold",
	"aggression",
}

func (f Field) String() string {
	if f < NumFields {
		return fieldNames[f]
	}
	return "unknown"
}

// Range is the closed interval a gene may take.
type Range struct {
	Min, Max float32
}

// Clamp limits v to the range.
func (r Range) Clamp(v float32) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

var (
	unitRange      = Range{0, 1}
	thresholdRange = Range{0, 100}
	scalarRange    = Range{0.2, 3.0}
)

// FieldRange returns the valid interval of a gene.
func FieldRange(f Field) Range {
	switch f {
	case WanderLust, RiskAversion:
		return unitRange
	case SearchRange, Aggression:
		return scalarRange
	default:
		return thresholdRange
	}
}

// MutationStep returns the maximum absolute mutation of a gene:
// 10 for 0-100 thresholds, 0.2 for unit and multiplier genes.
func MutationStep(f Field) float32 {
	if FieldRange(f) == thresholdRange {
		return 10
	}
	return 0.2
}

// Get returns the value of a gene.
func (s *SurvivalStrategy) Get(f Field) float32 {
	switch f {
	case WanderLust:
		return s.WanderLust
	case HoardingThreshold:
		return s.HoardingThreshold
	case RiskAversion:
		return s.RiskAversion
	case HungerTolerance:
		return s.HungerTolerance
	case MatingThreshold:
		return s.MatingThreshold
	case SearchRange:
		return s.SearchRange
	case FleeThreshold:
		return s.FleeThreshold
	case Aggression:
		return s.Aggression
	}
	return 0
}

// Set assigns a gene without clamping.
func (s *SurvivalStrategy) Set(f Field, v float32) {
	switch f {
	case WanderLust:
		s.WanderLust = v
	case HoardingThreshold:
		s.HoardingThreshold = v
	case RiskAversion:
		s.RiskAversion = v
	case HungerTolerance:
		s.HungerTolerance = v
	case MatingThreshold:
		s.MatingThreshold = v
	case SearchRange:
		s.SearchRange = v
	case FleeThreshold:
		s.FleeThreshold = v
	case Aggression:
		s.Aggression = v
	}
}

// Clamp returns a copy with every gene inside its valid range.
// Clamping an already clamped strategy returns it unchanged.
func (s SurvivalStrategy) Clamp() SurvivalStrategy {
	for f := Field(0); f < NumFields; f++ {
		s.Set(f, FieldRange(f).Clamp(s.Get(f)))
	}
	return s
}

// founderRange is the interval founders draw each gene from. It sits inside
// FieldRange so selection, not the initial draw, pushes genes to their bounds.
var founderRange = [NumFields]Range{
	WanderLust:        {0.2, 0.8},
	HoardingThreshold: {60, 95},
	RiskAversion:      {0.2, 0.8},
	HungerTolerance:   {10, 40},
	MatingThreshold:   {40, 80},
	SearchRange:       {0.8, 1.5},
	FleeThreshold:     {10, 40},
	Aggression:        {0.5, 1.5},
}

// FounderRange returns the interval founders draw gene f from.
func FounderRange(f Field) Range {
	return founderRange[f]
}

// Random draws a founder strategy, each gene uniform over its FounderRange.
func Random(rng *rand.Rand) SurvivalStrategy {
	var s SurvivalStrategy
	for f := Field(0); f < NumFields; f++ {
		r := founderRange[f]
		s.Set(f, r.Min+rng.Float32()*(r.Max-r.Min))
	}
	return s
}

// Breed averages the two parents and mutates exactly one randomly chosen
// gene by up to its MutationStep, then clamps the result.
func Breed(a, b SurvivalStrategy, rng *rand.Rand) SurvivalStrategy {
	var child SurvivalStrategy
	for f := Field(0); f < NumFields; f++ {
		child.Set(f, (a.Get(f)+b.Get(f))/2)
	}
	f := Field(rng.Intn(int(NumFields)))
	step := MutationStep(f)
	child.Set(f, child.Get(f)+(rng.Float32()*2-1)*step)
	return child.Clamp()
}
