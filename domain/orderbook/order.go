package orderbook

import (
	"errors"
	"fmt"
	"strings"
)

type Side int

const (
	Bid Side = iota
	Ask
)

// MaxOrdersPerTicker is the advisory capacity of one side of a book.
// Insert does not enforce it.
const MaxOrdersPerTicker = 10000

var ErrUnknownSide = errors.New("orderbook: unknown side")

func (s Side) String() string {
	if s == Bid {
		return "bid"
	}
	return "ask"
}

// ParseSide accepts buy/bid and sell/ask in any case.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "buy", "bid":
		return Bid, nil
	case "sell", "ask":
		return Ask, nil
	default:
		return Bid, fmt.Errorf("%w: %q", ErrUnknownSide, v)
	}
}

// Order is a resting order. It has no identity; its position in the
// queue is all that distinguishes it from another order with the same
// price and quantity.
type Order struct {
	Price float64
	Qty   int64

	next *Order
	prev *Order
}

// Read-only traversal helper
func (o *Order) Next() *Order {
	return o.next
}

// RestingOrder is a detached copy of an Order.
type RestingOrder struct {
	Price float64
	Qty   int64
}
