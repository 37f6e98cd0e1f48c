package market

type levelAction uint8

const (
	levelAdd levelAction = iota
	levelUpdate
	levelDelete
)

// levelChange records one level transition; top is whether the level was the
// best of its side at the moment of the change.
type levelChange struct {
	action levelAction
	level  *Level
	top    bool
}

// OrderBook holds the bid and ask ladders of one symbol. It is owned by a
// Manager and mutated only through it.
type OrderBook struct {
	symbol Symbol
	bids   *ladder
	asks   *ladder
}

func newOrderBook(symbol Symbol) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids:   newLadder(SideBuy),
		asks:   newLadder(SideSell),
	}
}

func (b *OrderBook) Symbol() Symbol { return b.symbol }

// BestBid returns the highest bid level, or nil when there are no bids.
func (b *OrderBook) BestBid() *Level { return b.bids.best }

// BestAsk returns the lowest ask level, or nil when there are no asks.
func (b *OrderBook) BestAsk() *Level { return b.asks.best }

// Level returns the level at price on side, or nil.
func (b *OrderBook) Level(side Side, price uint64) *Level {
	return b.ladder(side).find(price)
}

// Bids visits bid levels from best to worst until fn returns false.
func (b *OrderBook) Bids(fn func(level *Level) bool) { b.bids.ascend(fn) }

// Asks visits ask levels from best to worst until fn returns false.
func (b *OrderBook) Asks(fn func(level *Level) bool) { b.asks.ascend(fn) }

// Depth returns the number of price levels on side.
func (b *OrderBook) Depth(side Side) int { return b.ladder(side).len() }

func (b *OrderBook) Empty() bool { return b.bids.len() == 0 && b.asks.len() == 0 }

func (b *OrderBook) ladder(side Side) *ladder {
	if side == SideBuy {
		return b.bids
	}
	return b.asks
}

// upsert queues o at the back of its price level, creating the level if needed.
func (b *OrderBook) upsert(o *Order) levelChange {
	ld := b.ladder(o.Side)
	action := levelUpdate
	level := ld.find(o.Price)
	if level == nil {
		level = &Level{Side: o.Side, Price: o.Price}
		ld.insert(level)
		action = levelAdd
	}
	level.enqueue(o)
	return levelChange{action: action, level: level, top: ld.best == level}
}

// reduce takes quantity off a resident order. When the order is exhausted it
// leaves the level, and an emptied level leaves the ladder.
func (b *OrderBook) reduce(o *Order, quantity uint64) levelChange {
	ld := b.ladder(o.Side)
	level := ld.find(o.Price)
	top := ld.best == level
	if quantity >= o.Quantity {
		level.unlink(o)
		o.Quantity = 0
	} else {
		o.Quantity -= quantity
		level.TotalQuantity -= quantity
	}
	if level.Empty() {
		ld.remove(level)
		return levelChange{action: levelDelete, level: level, top: top}
	}
	return levelChange{action: levelUpdate, level: level, top: top}
}

// remove detaches o from its level without touching its quantity.
func (b *OrderBook) remove(o *Order) levelChange {
	ld := b.ladder(o.Side)
	level := ld.find(o.Price)
	top := ld.best == level
	level.unlink(o)
	if level.Empty() {
		ld.remove(level)
		return levelChange{action: levelDelete, level: level, top: top}
	}
	return levelChange{action: levelUpdate, level: level, top: top}
}

// move re-queues o with new terms. It always loses its queue position.
func (b *OrderBook) move(o *Order, price, quantity uint64) []levelChange {
	if price == o.Price {
		ld := b.ladder(o.Side)
		level := ld.find(o.Price)
		level.unlink(o)
		o.Quantity = quantity
		level.enqueue(o)
		return []levelChange{{action: levelUpdate, level: level, top: ld.best == level}}
	}
	out := b.remove(o)
	o.Price = price
	o.Quantity = quantity
	return []levelChange{out, b.upsert(o)}
}

// drain empties both ladders and returns the orders that were resident, in
// ladder then arrival order, with a delete change for every level.
func (b *OrderBook) drain() ([]*Order, []levelChange) {
	var orders []*Order
	var changes []levelChange
	for _, ld := range []*ladder{b.bids, b.asks} {
		ld.ascend(func(level *Level) bool {
			level.Orders(func(o *Order) bool {
				orders = append(orders, o)
				return true
			})
			changes = append(changes, levelChange{action: levelDelete, level: level, top: ld.best == level})
			level.reset()
			return true
		})
		ld.clear()
	}
	return orders, changes
}
