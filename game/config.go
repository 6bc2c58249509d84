package game

import (
	"github.com/pthm-cable/beans/observer"
	"github.com/pthm-cable/beans/telemetry"
)

// FramePublisher receives sampled frames of public world state.
type FramePublisher interface {
	Publish(frame observer.FrameMsg) error
}

// Options holds configuration for game initialization.
type Options struct {
	Seed  int64
	Speed int // Sub-steps per Update, clamped to [1, physics.max_steps_per_frame]

	RunID    string
	LogStats bool // Log window stats and bookmarks via slog

	// Output receives telemetry, perf and bookmark rows. Nil disables output.
	Output *telemetry.OutputManager

	// Publisher receives a frame every observer.every_ticks steps. Nil disables it.
	Publisher FramePublisher

	// StatsCallback, if set, is called with every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns options for an interactive run.
func DefaultOptions() Options {
	return Options{Seed: 42, Speed: 1}
}
