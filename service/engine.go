package service

import (
	"sync"

	"github.com/rs/zerolog"

	"tickbook/domain/orderbook"
	"tickbook/domain/ticker"
	"tickbook/infra/metrics"
)

/*
Engine is the only entry point into the books.

Every slot has one mutex covering insert, match and depth reads of
that slot's bid and ask queues. Slots never share a lock.

Slots come from ticker.Slot, so two symbols with the same code-point
sum modulo ticker.MaxTickers share a book.
*/

type Engine struct {
	slots [ticker.MaxTickers]slot

	log     zerolog.Logger
	metrics *metrics.Metrics
}

type slot struct {
	mu   sync.Mutex
	book *orderbook.OrderBook
}

// Depth is a copy of one slot's queues, best price first.
type Depth struct {
	Slot int
	Bids []orderbook.RestingOrder
	Asks []orderbook.RestingOrder
}

// NewEngine creates all books up front. They stay for the lifetime of
// the Engine.
func NewEngine(logger zerolog.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		log:     logger.With().Str("component", "engine").Logger(),
		metrics: m,
	}
	for i := range e.slots {
		book := orderbook.NewOrderBook()
		book.OnFill = e.recordFill
		e.slots[i].book = book
	}
	return e
}

//
// ──────────────────────────────────────────────────────────
// Commands
// ──────────────────────────────────────────────────────────
//

// Resolve returns the slot symbol maps to.
func (e *Engine) Resolve(symbol string) int {
	return ticker.Slot(symbol)
}

// AddOrder rests an order in the book symbol resolves to.
func (e *Engine) AddOrder(side orderbook.Side, symbol string, qty int64, price float64) {
	e.AddOrderAt(side, ticker.Slot(symbol), qty, price)
}

// AddOrderAt rests an order in the book at slot. An out-of-range slot
// is dropped without any effect on the books.
func (e *Engine) AddOrderAt(side orderbook.Side, slot int, qty int64, price float64) {
	if !ticker.Valid(slot) {
		e.metrics.Dropped.WithLabelValues("insert").Inc()
		return
	}

	s := &e.slots[slot]
	s.mu.Lock()
	s.book.Insert(side, price, qty)
	s.mu.Unlock()

	e.metrics.OrdersInserted.WithLabelValues(side.String()).Inc()
	e.log.Debug().
		Int("slot", slot).
		Stringer("side", side).
		Int64("qty", qty).
		Float64("price", price).
		Msg("order rested")
}

// Match runs one sweep over the book symbol resolves to.
func (e *Engine) Match(symbol string) {
	e.MatchAt(ticker.Slot(symbol))
}

// MatchAt runs one sweep over the book at slot. An out-of-range slot is
// dropped without any effect on the books.
func (e *Engine) MatchAt(slot int) {
	if !ticker.Valid(slot) {
		e.metrics.Dropped.WithLabelValues("match").Inc()
		return
	}

	s := &e.slots[slot]
	s.mu.Lock()
	bidsBefore, asksBefore := s.book.Bids.Len(), s.book.Asks.Len()
	s.book.Match()
	bidsAfter, asksAfter := s.book.Bids.Len(), s.book.Asks.Len()
	crossed := s.book.Crossed()
	s.mu.Unlock()

	e.metrics.MatchSweeps.Inc()
	e.log.Debug().
		Int("slot", slot).
		Int("bids_before", bidsBefore).
		Int("asks_before", asksBefore).
		Int("bids_after", bidsAfter).
		Int("asks_after", asksAfter).
		Bool("crossed", crossed).
		Msg("match sweep")
}

// recordFill runs under the slot lock of the sweep that produced f.
func (e *Engine) recordFill(f orderbook.Fill) {
	e.metrics.Fills.Inc()
	// quantities are not validated; counters only accept increases
	if f.Qty > 0 {
		e.metrics.FilledQty.Add(float64(f.Qty))
	}
	if f.BidDone {
		e.metrics.OrdersRemoved.WithLabelValues(orderbook.Bid.String()).Inc()
	}
	if f.AskDone {
		e.metrics.OrdersRemoved.WithLabelValues(orderbook.Ask.String()).Inc()
	}
}

//
// ──────────────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────────────
//

// Depth copies the book symbol resolves to.
func (e *Engine) Depth(symbol string) Depth {
	d, _ := e.DepthAt(ticker.Slot(symbol))
	return d
}

// DepthAt copies the book at slot. It reports false for an
// out-of-range slot.
func (e *Engine) DepthAt(slot int) (Depth, bool) {
	if !ticker.Valid(slot) {
		return Depth{Slot: slot}, false
	}

	s := &e.slots[slot]
	s.mu.Lock()
	defer s.mu.Unlock()

	return Depth{
		Slot: slot,
		Bids: s.book.BidOrders(),
		Asks: s.book.AskOrders(),
	}, true
}
