package market

// Level aggregates every resident order at one price on one side of a book.
// Orders are kept in arrival order.
type Level struct {
	Side          Side
	Price         uint64
	TotalQuantity uint64
	OrderCount    int

	head *Order
	tail *Order
}

// Front returns the oldest order in the level.
func (l *Level) Front() *Order { return l.head }

// Orders visits resident orders in arrival order until fn returns false.
func (l *Level) Orders(fn func(o *Order) bool) {
	for o := l.head; o != nil; o = o.next {
		if !fn(o) {
			return
		}
	}
}

func (l *Level) Empty() bool { return l.OrderCount == 0 }

func (l *Level) enqueue(o *Order) {
	o.next = nil
	o.prev = l.tail
	if l.tail == nil {
		l.head = o
	} else {
		l.tail.next = o
	}
	l.tail = o
	l.TotalQuantity += o.Quantity
	l.OrderCount++
}

func (l *Level) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next, o.prev = nil, nil
	l.TotalQuantity -= o.Quantity
	l.OrderCount--
}

// reset drops every order link; used when a whole book is torn down.
func (l *Level) reset() {
	for o := l.head; o != nil; {
		next := o.next
		o.next, o.prev = nil, nil
		o = next
	}
	l.head, l.tail = nil, nil
	l.TotalQuantity = 0
	l.OrderCount = 0
}
