package orderbook

// Queue is one side of a book: a doubly linked list kept in priority
// order. Bids run from highest to lowest price, asks from lowest to
// highest. A new order goes ahead of resting orders at the same price.
type Queue struct {
	side Side

	head *Order
	tail *Order

	length int
}

func newQueue(side Side) *Queue {
	return &Queue{side: side}
}

// ahead reports whether an incoming price belongs in front of rest.
// NaN never belongs in front of anything and nothing goes in front of
// a resting NaN.
func (q *Queue) ahead(price float64, rest *Order) bool {
	if q.side == Bid {
		return price >= rest.Price
	}
	return price <= rest.Price
}

// insert places o before the first resting order it is ahead of, or
// at the tail.
func (q *Queue) insert(o *Order) {
	for cur := q.head; cur != nil; cur = cur.next {
		if q.ahead(o.Price, cur) {
			q.insertBefore(o, cur)
			return
		}
	}
	q.pushBack(o)
}

func (q *Queue) insertBefore(o, at *Order) {
	o.next = at
	o.prev = at.prev
	if at.prev != nil {
		at.prev.next = o
	} else {
		q.head = o
	}
	at.prev = o
	q.length++
}

func (q *Queue) pushBack(o *Order) {
	if q.head == nil {
		q.head = o
		q.tail = o
	} else {
		q.tail.next = o
		o.prev = q.tail
		q.tail = o
	}
	q.length++
}

// remove unlinks o and returns the order that followed it.
func (q *Queue) remove(o *Order) *Order {
	next := o.next

	if o.prev != nil {
		o.prev.next = o.next
	} else {
		q.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		q.tail = o.prev
	}

	o.next = nil
	o.prev = nil
	q.length--

	return next
}

// Read-only helper
func (q *Queue) Head() *Order {
	return q.head
}

func (q *Queue) Len() int {
	return q.length
}

func (q *Queue) Empty() bool {
	return q.head == nil
}

// Volume sums the quantity resting on this side.
func (q *Queue) Volume() int64 {
	var total int64
	for o := q.head; o != nil; o = o.next {
		total += o.Qty
	}
	return total
}

// Orders copies the queue in priority order.
func (q *Queue) Orders() []RestingOrder {
	out := make([]RestingOrder, 0, q.length)
	for o := q.head; o != nil; o = o.next {
		out = append(out, RestingOrder{Price: o.Price, Qty: o.Qty})
	}
	return out
}
