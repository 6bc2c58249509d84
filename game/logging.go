package game

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// LogProgress writes one headless progress line. elapsed is wall time since
// the run started.
func (g *Game) LogProgress(elapsed time.Duration) {
	c := g.Counts()
	simSec := float64(g.tick) * float64(g.cfg.Derived.DTSec)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(g.tick) / elapsed.Seconds()
	}
	slog.Info("progress",
		"tick", humanize.Comma(int64(g.tick)),
		"sim_time", (time.Duration(simSec) * time.Second).String(),
		"started", humanize.Time(time.Now().Add(-elapsed)),
		"ticks_per_sec", humanize.FormatFloat("#,###.", rate),
		"beans", humanize.Comma(int64(c.Beans)),
		"adults", c.Adults,
		"cocoons", c.Cocoons,
		"food", c.Food,
		"hoards", c.Hoards,
		"town_centers", c.TownCenters,
		"births", humanize.Comma(int64(c.Births)),
		"deaths", humanize.Comma(int64(c.Deaths)),
	)
}
