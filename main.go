package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/beans/config"
	"github.com/pthm-cable/beans/game"
	"github.com/pthm-cable/beans/observer"
	"github.com/pthm-cable/beans/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	speed := flag.Int("speed", 1, "Simulation sub-steps per update")
	observeAddr := flag.String("observe", "", "Serve the websocket observer on this address (overrides observer.addr)")
	progressEvery := flag.Duration("progress", 10*time.Second, "Headless progress log interval")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	runID := telemetry.NewRunID()

	output, err := telemetry.NewOutputManager(*outputDir, runID, cfg.Telemetry.EventLog)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := game.DefaultOptions()
	opts.Seed = rngSeed
	opts.Speed = *speed
	opts.RunID = runID
	opts.LogStats = *logStats
	opts.Output = output

	addr := cfg.Observer.Addr
	if *observeAddr != "" {
		addr = *observeAddr
	}
	if addr != "" {
		srv := observer.NewServer(observer.HelloMsg{
			RunID:       runID,
			WorldWidth:  cfg.Derived.WorldW32,
			WorldHeight: cfg.Derived.WorldH32,
			TickMs:      cfg.Derived.DT,
		}, cfg.Observer.SendBuffer)
		go func() {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				slog.Error("observer stopped", "addr", addr, "error", err)
			}
		}()
		opts.Publisher = srv
	}

	if *headless {
		runHeadless(ctx, opts, *maxTicks, *progressEvery)
		return
	}
	runGraphical(opts, *maxTicks)
}

// runHeadless steps the simulation without raylib until max ticks,
// extinction or interrupt.
func runHeadless(ctx context.Context, opts game.Options, maxTicks int, progressEvery time.Duration) {
	g := game.New(opts)

	slog.Info("starting headless simulation",
		"run_id", g.RunID(),
		"seed", g.Seed(),
		"speed", g.Speed(),
		"max_ticks", maxTicks,
	)

	start := time.Now()
	lastProgress := start
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			g.LogProgress(time.Since(start))
			return
		default:
		}

		g.Update()

		if progressEvery > 0 && time.Since(lastProgress) >= progressEvery {
			g.LogProgress(time.Since(start))
			lastProgress = time.Now()
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			g.LogProgress(time.Since(start))
			return
		}
		if g.Extinct() {
			g.LogProgress(time.Since(start))
			return
		}
	}
}
