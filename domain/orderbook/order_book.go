package orderbook

// Fill describes one crossing step of a sweep. Quantities on the book
// have already been reduced when it is delivered.
type Fill struct {
	BidPrice float64
	AskPrice float64
	Qty      int64

	// BidDone and AskDone report which of the two orders left the book.
	BidDone bool
	AskDone bool
}

// OrderBook holds both sides of one slot. It is single-writer; callers
// that share a book across goroutines must serialize Insert, Match and
// reads themselves.
type OrderBook struct {
	Bids *Queue
	Asks *Queue

	// OnFill, when set, is called once per crossing step.
	OnFill func(Fill)
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids: newQueue(Bid),
		Asks: newQueue(Ask),
	}
}

// Insert adds a resting order. It never fails: quantity and price are
// not validated and the advisory capacity is not enforced. Any side
// other than Bid goes to the ask queue.
func (b *OrderBook) Insert(side Side, price float64, qty int64) {
	o := &Order{Price: price, Qty: qty}
	if side == Bid {
		b.Bids.insert(o)
	} else {
		b.Asks.insert(o)
	}
}

// Match sweeps both queues once from the top, crossing bid and ask
// while bid price >= ask price.
//
// After a crossing step each cursor moves to the next order on its
// side, whether the current one was removed or only reduced, so a
// partially filled order is not revisited in the same sweep. When the
// pair does not cross, only the bid cursor moves and the sweep carries
// on to the end of the bid queue.
func (b *OrderBook) Match() {
	bid := b.Bids.head
	ask := b.Asks.head

	for bid != nil && ask != nil {
		// written this way so a NaN on either side does not cross
		if !(bid.Price >= ask.Price) {
			bid = bid.next
			continue
		}

		matched := min(bid.Qty, ask.Qty)
		bid.Qty -= matched
		ask.Qty -= matched

		f := Fill{
			BidPrice: bid.Price,
			AskPrice: ask.Price,
			Qty:      matched,
			BidDone:  bid.Qty == 0,
			AskDone:  ask.Qty == 0,
		}

		if f.BidDone {
			bid = b.Bids.remove(bid)
		} else {
			bid = bid.next
		}

		if f.AskDone {
			ask = b.Asks.remove(ask)
		} else {
			ask = ask.next
		}

		if b.OnFill != nil {
			b.OnFill(f)
		}
	}
}

// BidOrders copies the bid queue, best price first.
func (b *OrderBook) BidOrders() []RestingOrder {
	return b.Bids.Orders()
}

// AskOrders copies the ask queue, best price first.
func (b *OrderBook) AskOrders() []RestingOrder {
	return b.Asks.Orders()
}

// Crossed reports whether the best bid is at or above the best ask.
func (b *OrderBook) Crossed() bool {
	if b.Bids.head == nil || b.Asks.head == nil {
		return false
	}
	return b.Bids.head.Price >= b.Asks.head.Price
}
