package observer

import (
	"sync/atomic"

	"market-book/src/market"
)

// Counter tallies market notifications. It is written from the feed goroutine
// and may be read concurrently through Snapshot.
type Counter struct {
	market.NopHandler

	updates    atomic.Int64
	symbols    atomic.Int64
	maxSymbols atomic.Int64
	books      atomic.Int64
	maxBooks   atomic.Int64
	orders     atomic.Int64
	maxOrders  atomic.Int64

	addOrder     atomic.Int64
	reduceOrder  atomic.Int64
	modifyOrder  atomic.Int64
	replaceOrder atomic.Int64
	deleteOrder  atomic.Int64
	executeOrder atomic.Int64
}

type CounterSnapshot struct {
	Updates       int64 `json:"updates"`
	Symbols       int64 `json:"symbols"`
	MaxSymbols    int64 `json:"max_symbols"`
	OrderBooks    int64 `json:"order_books"`
	MaxOrderBooks int64 `json:"max_order_books"`
	Orders        int64 `json:"orders"`
	MaxOrders     int64 `json:"max_orders"`
	AddOrder      int64 `json:"add_order"`
	ReduceOrder   int64 `json:"reduce_order"`
	ModifyOrder   int64 `json:"modify_order"`
	ReplaceOrder  int64 `json:"replace_order"`
	DeleteOrder   int64 `json:"delete_order"`
	ExecuteOrder  int64 `json:"execute_order"`
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Updates:       c.updates.Load(),
		Symbols:       c.symbols.Load(),
		MaxSymbols:    c.maxSymbols.Load(),
		OrderBooks:    c.books.Load(),
		MaxOrderBooks: c.maxBooks.Load(),
		Orders:        c.orders.Load(),
		MaxOrders:     c.maxOrders.Load(),
		AddOrder:      c.addOrder.Load(),
		ReduceOrder:   c.reduceOrder.Load(),
		ModifyOrder:   c.modifyOrder.Load(),
		ReplaceOrder:  c.replaceOrder.Load(),
		DeleteOrder:   c.deleteOrder.Load(),
		ExecuteOrder:  c.executeOrder.Load(),
	}
}

func (c *Counter) OnAddSymbol(market.Symbol) {
	c.updates.Add(1)
	raise(&c.maxSymbols, c.symbols.Add(1))
}

func (c *Counter) OnDeleteSymbol(market.Symbol) {
	c.updates.Add(1)
	c.symbols.Add(-1)
}

func (c *Counter) OnAddOrderBook(*market.OrderBook) {
	c.updates.Add(1)
	raise(&c.maxBooks, c.books.Add(1))
}

func (c *Counter) OnDeleteOrderBook(*market.OrderBook) {
	c.updates.Add(1)
	c.books.Add(-1)
}

func (c *Counter) OnUpdateOrderBook(*market.OrderBook, *market.Level, bool) {
	c.updates.Add(1)
}

func (c *Counter) OnAddOrder(*market.Order) {
	c.updates.Add(1)
	c.addOrder.Add(1)
	raise(&c.maxOrders, c.orders.Add(1))
}

func (c *Counter) OnReduceOrder(*market.Order, uint64) {
	c.updates.Add(1)
	c.reduceOrder.Add(1)
}

func (c *Counter) OnModifyOrder(*market.Order, uint64, uint64) {
	c.updates.Add(1)
	c.modifyOrder.Add(1)
}

func (c *Counter) OnReplaceOrder(*market.Order, uint64, uint64, uint64) {
	c.updates.Add(1)
	c.replaceOrder.Add(1)
}

func (c *Counter) OnReplaceOrderWith(*market.Order, *market.Order) {
	c.updates.Add(1)
	c.replaceOrder.Add(1)
}

func (c *Counter) OnDeleteOrder(*market.Order) {
	c.updates.Add(1)
	c.deleteOrder.Add(1)
	c.orders.Add(-1)
}

func (c *Counter) OnExecuteOrder(*market.Order, uint64, uint64) {
	c.updates.Add(1)
	c.executeOrder.Add(1)
}

// raise stores v into peak if it is larger. Only the feed goroutine writes.
func raise(peak *atomic.Int64, v int64) {
	if v > peak.Load() {
		peak.Store(v)
	}
}
