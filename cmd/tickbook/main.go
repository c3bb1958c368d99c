package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tickbook/domain/orderbook"
	"tickbook/infra/config"
	"tickbook/infra/log"
	"tickbook/infra/metrics"
	"tickbook/jobs/simulator"
	"tickbook/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- Config ----------------

	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("config load failed")
	}
	logger := log.NewLogger(cfg)

	// ---------------- Metrics ----------------

	registry, m := metrics.Init(logger)

	// ---------------- Engine ----------------

	engine := service.NewEngine(logger, m)

	// ---------------- Demo ----------------

	if cfg.Demo.Enabled {
		runDemo(engine, cfg.Demo, logger)
	}

	// ---------------- Simulation ----------------

	if cfg.Simulation.Enabled {
		simCfg := cfg.Simulation
		if simCfg.Seed == 0 {
			simCfg.Seed = uint64(time.Now().UnixNano())
		}

		sim, err := simulator.New(engine, simCfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("simulator init failed")
		}

		reports, err := sim.Run(ctx)
		if err != nil {
			logger.Warn().Err(err).Int("rounds_completed", len(reports)).Msg("simulation stopped")
		}
		logDepth(engine, touchedTickers(reports), logger)
	}

	// ---------------- Summary ----------------

	summary, err := metrics.Summary(registry, "tickbook_")
	if err != nil {
		logger.Error().Err(err).Msg("metrics gather failed")
		return
	}
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	ev := logger.Info()
	for _, name := range names {
		ev = ev.Float64(name, summary[name])
	}
	ev.Msg("shutdown complete")
}

func runDemo(engine *service.Engine, demo config.Demo, logger zerolog.Logger) {
	for _, o := range demo.Orders {
		// sides were checked by config.Validate
		side, _ := orderbook.ParseSide(o.Side)
		engine.AddOrder(side, o.Symbol, o.Qty, o.Price)
	}
	for _, sym := range demo.Match {
		engine.Match(sym)
	}
	logDepth(engine, demo.Match, logger)
}

func logDepth(engine *service.Engine, symbols []string, logger zerolog.Logger) {
	for _, sym := range symbols {
		d := engine.Depth(sym)
		logger.Info().
			Str("symbol", sym).
			Int("slot", d.Slot).
			Interface("bids", d.Bids).
			Interface("asks", d.Asks).
			Msg("book")
	}
}

func touchedTickers(reports []simulator.Report) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range reports {
		for _, sym := range r.Touched {
			if _, ok := seen[sym]; !ok {
				seen[sym] = struct{}{}
				out = append(out, sym)
			}
		}
	}
	sort.Strings(out)
	return out
}
