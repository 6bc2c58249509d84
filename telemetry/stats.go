package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Population  int `csv:"population"`
	Adults      int `csv:"adults"`
	Cocoons     int `csv:"cocoons"`
	Food        int `csv:"food"`
	Hoards      int `csv:"hoards"`
	TownCenters int `csv:"town_centers"`
	Workers     int `csv:"workers"`
	Guards      int `csv:"guards"`
	Explorers   int `csv:"explorers"`

	// Events during window
	Births        int `csv:"births"`
	Starved       int `csv:"starved"`
	Killed        int `csv:"killed"`
	Matings       int `csv:"matings"`
	Locks         int `csv:"locks"`
	LocksBroken   int `csv:"locks_broken"`
	Combats       int `csv:"combats"`
	Flees         int `csv:"flees"`
	Deposits      int `csv:"deposits"`
	HoardsCreated int `csv:"hoards_created"`
	HoardsPruned  int `csv:"hoards_pruned"`
	Constructions int `csv:"constructions"`

	// Satiety distribution (sampled at window end)
	SatietyMean float64 `csv:"satiety_mean"`
	SatietyStd  float64 `csv:"satiety_std"`
	SatietyP10  float64 `csv:"satiety_p10"`
	SatietyP50  float64 `csv:"satiety_p50"`
	SatietyP90  float64 `csv:"satiety_p90"`

	// Mean lifespan of beans that died this window, seconds
	LifespanMean float64 `csv:"lifespan_mean"`

	// Strategy gene means
	WanderLustMean   float64 `csv:"wanderlust_mean"`
	HoardingMean     float64 `csv:"hoarding_mean"`
	RiskAversionMean float64 `csv:"risk_aversion_mean"`
	MatingMean       float64 `csv:"mating_mean"`
	AggressionMean   float64 `csv:"aggression_mean"`
}

// Distribution computes mean, population standard deviation and the
// 10th/50th/90th percentiles of values. It returns zeros for no values.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std = stat.PopMeanStdDev(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// Mean returns the mean of values, or 0 for none.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("cocoons", s.Cocoons),
		slog.Int("hoards", s.Hoards),
		slog.Int("births", s.Births),
		slog.Int("starved", s.Starved),
		slog.Int("killed", s.Killed),
		slog.Int("matings", s.Matings),
		slog.Int("combats", s.Combats),
		slog.Float64("satiety_mean", s.SatietyMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"adults", s.Adults,
		"cocoons", s.Cocoons,
		"food", s.Food,
		"hoards", s.Hoards,
		"town_centers", s.TownCenters,
		"births", s.Births,
		"starved", s.Starved,
		"killed", s.Killed,
		"matings", s.Matings,
		"locks", s.Locks,
		"locks_broken", s.LocksBroken,
		"combats", s.Combats,
		"deposits", s.Deposits,
		"satiety_mean", s.SatietyMean,
		"satiety_p50", s.SatietyP50,
		"lifespan_mean", s.LifespanMean,
	)
}
