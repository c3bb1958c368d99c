package simulator

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tickbook/domain/orderbook"
	"tickbook/infra/config"
)

// Engine is the part of service.Engine the simulator drives.
type Engine interface {
	AddOrder(side orderbook.Side, symbol string, qty int64, price float64)
	Match(symbol string)
}

type Simulator struct {
	engine Engine
	cfg    config.Simulation
	log    zerolog.Logger
}

// Report describes one completed round.
type Report struct {
	Round   int
	Orders  int
	Touched []string
}

func New(engine Engine, cfg config.Simulation, logger zerolog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		engine: engine,
		cfg:    cfg,
		log:    logger.With().Str("component", "simulator").Logger(),
	}, nil
}

// ------------------------------------------------
// RUN LOOP
// ------------------------------------------------

// Run plays cfg.Rounds rounds, waiting cfg.Interval between them. It
// stops early with ctx.Err() when ctx is cancelled and returns the
// reports of the rounds that completed.
func (s *Simulator) Run(ctx context.Context) ([]Report, error) {
	s.log.Info().
		Int("rounds", s.cfg.Rounds).
		Int("orders", s.cfg.Orders).
		Int("workers", s.cfg.Workers).
		Uint64("seed", s.cfg.Seed).
		Msg("simulation started")

	reports := make([]Report, 0, s.cfg.Rounds)
	for round := 0; round < s.cfg.Rounds; round++ {
		if round > 0 && s.cfg.Interval > 0 {
			t := time.NewTimer(s.cfg.Interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return reports, ctx.Err()
			case <-t.C:
			}
		}

		rep, err := s.RunRound(ctx, round)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)

		s.log.Info().
			Int("round", rep.Round).
			Int("orders", rep.Orders).
			Strs("touched", rep.Touched).
			Msg("round complete")
	}
	return reports, nil
}

// ------------------------------------------------
// ROUND
// ------------------------------------------------

// RunRound submits one round of random orders, then matches every
// ticker the round touched, once each, in sorted order.
func (s *Simulator) RunRound(ctx context.Context, round int) (Report, error) {
	var (
		mu      sync.Mutex
		touched = make(map[string]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	for w, n := range split(s.cfg.Orders, s.cfg.Workers) {
		rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(round)<<32|uint64(w)))
		g.Go(func() error {
			seen, err := s.submit(gctx, rng, n)
			mu.Lock()
			for sym := range seen {
				touched[sym] = struct{}{}
			}
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Report{Round: round}, err
	}

	symbols := make([]string, 0, len(touched))
	for sym := range touched {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return Report{Round: round}, err
		}
		s.engine.Match(sym)
	}

	return Report{Round: round, Orders: s.cfg.Orders, Touched: symbols}, nil
}

func (s *Simulator) submit(ctx context.Context, rng *rand.Rand, n int) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return seen, err
		}
		o := s.draw(rng)
		seen[o.Symbol] = struct{}{}
		s.engine.AddOrder(o.Side, o.Symbol, o.Qty, o.Price)
	}
	return seen, nil
}

type order struct {
	Side   orderbook.Side
	Symbol string
	Qty    int64
	Price  float64
}

func (s *Simulator) draw(rng *rand.Rand) order {
	c := s.cfg
	side := orderbook.Bid
	if rng.IntN(2) == 1 {
		side = orderbook.Ask
	}
	return order{
		Symbol: c.Tickers[rng.IntN(len(c.Tickers))],
		Side:   side,
		Qty:    c.MinQty + rng.Int64N(c.MaxQty-c.MinQty+1),
		Price:  float64(c.MinPrice + rng.IntN(c.MaxPrice-c.MinPrice+1)),
	}
}

// split spreads total across workers; the first total%workers workers
// take one extra. Workers with nothing to do are left out.
func split(total, workers int) []int {
	out := make([]int, 0, workers)
	for w := 0; w < workers; w++ {
		n := total / workers
		if w < total%workers {
			n++
		}
		if n > 0 {
			out = append(out, n)
		}
	}
	return out
}
