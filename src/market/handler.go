package market

// Handler observes every structural change made by a Manager. Methods are
// called synchronously, on the caller's goroutine, in the order the changes
// happen and after the Manager state is fully updated.
//
// A Handler may read the Manager from inside a callback but must not mutate
// it; mutating calls made during a notification fail with ErrReentrantMutation.
//
// Order and Level pointers refer to engine-owned values and are only valid for
// the duration of the call.
type Handler interface {
	OnAddSymbol(symbol Symbol)
	OnDeleteSymbol(symbol Symbol)

	OnAddOrderBook(book *OrderBook)
	OnDeleteOrderBook(book *OrderBook)
	// OnUpdateOrderBook follows every level change. top is set when the level
	// is, or was before deletion, the best level of its side.
	OnUpdateOrderBook(book *OrderBook, level *Level, top bool)

	OnAddLevel(book *OrderBook, level *Level, top bool)
	OnUpdateLevel(book *OrderBook, level *Level, top bool)
	OnDeleteLevel(book *OrderBook, level *Level, top bool)

	OnAddOrder(order *Order)
	// OnReduceOrder receives the order after quantity was taken off it.
	OnReduceOrder(order *Order, quantity uint64)
	// OnModifyOrder receives the order terms before the modification.
	OnModifyOrder(order *Order, newPrice, newQuantity uint64)
	// OnReplaceOrder receives the replaced order, which is no longer resident.
	OnReplaceOrder(order *Order, newID, newPrice, newQuantity uint64)
	OnReplaceOrderWith(order *Order, newOrder *Order)
	// OnUpdateOrder is sent for an order that stays resident after a reduce,
	// modify or execute.
	OnUpdateOrder(order *Order)
	OnDeleteOrder(order *Order)
	// OnExecuteOrder receives the order after the fill and the price it printed at.
	OnExecuteOrder(order *Order, price, quantity uint64)
}

// NopHandler ignores every notification. Embed it to implement only the
// callbacks you need.
type NopHandler struct{}

func (NopHandler) OnAddSymbol(Symbol)                            {}
func (NopHandler) OnDeleteSymbol(Symbol)                         {}
func (NopHandler) OnAddOrderBook(*OrderBook)                     {}
func (NopHandler) OnDeleteOrderBook(*OrderBook)                  {}
func (NopHandler) OnUpdateOrderBook(*OrderBook, *Level, bool)    {}
func (NopHandler) OnAddLevel(*OrderBook, *Level, bool)           {}
func (NopHandler) OnUpdateLevel(*OrderBook, *Level, bool)        {}
func (NopHandler) OnDeleteLevel(*OrderBook, *Level, bool)        {}
func (NopHandler) OnAddOrder(*Order)                             {}
func (NopHandler) OnReduceOrder(*Order, uint64)                  {}
func (NopHandler) OnModifyOrder(*Order, uint64, uint64)          {}
func (NopHandler) OnReplaceOrder(*Order, uint64, uint64, uint64) {}
func (NopHandler) OnReplaceOrderWith(*Order, *Order)             {}
func (NopHandler) OnUpdateOrder(*Order)                          {}
func (NopHandler) OnDeleteOrder(*Order)                          {}
func (NopHandler) OnExecuteOrder(*Order, uint64, uint64)         {}

// Handlers fans each notification out to every handler in slice order.
type Handlers []Handler

func (hs Handlers) OnAddSymbol(symbol Symbol) {
	for _, h := range hs {
		h.OnAddSymbol(symbol)
	}
}

func (hs Handlers) OnDeleteSymbol(symbol Symbol) {
	for _, h := range hs {
		h.OnDeleteSymbol(symbol)
	}
}

func (hs Handlers) OnAddOrderBook(book *OrderBook) {
	for _, h := range hs {
		h.OnAddOrderBook(book)
	}
}

func (hs Handlers) OnDeleteOrderBook(book *OrderBook) {
	for _, h := range hs {
		h.OnDeleteOrderBook(book)
	}
}

func (hs Handlers) OnUpdateOrderBook(book *OrderBook, level *Level, top bool) {
	for _, h := range hs {
		h.OnUpdateOrderBook(book, level, top)
	}
}

func (hs Handlers) OnAddLevel(book *OrderBook, level *Level, top bool) {
	for _, h := range hs {
		h.OnAddLevel(book, level, top)
	}
}

func (hs Handlers) OnUpdateLevel(book *OrderBook, level *Level, top bool) {
	for _, h := range hs {
		h.OnUpdateLevel(book, level, top)
	}
}

func (hs Handlers) OnDeleteLevel(book *OrderBook, level *Level, top bool) {
	for _, h := range hs {
		h.OnDeleteLevel(book, level, top)
	}
}

func (hs Handlers) OnAddOrder(order *Order) {
	for _, h := range hs {
		h.OnAddOrder(order)
	}
}

func (hs Handlers) OnReduceOrder(order *Order, quantity uint64) {
	for _, h := range hs {
		h.OnReduceOrder(order, quantity)
	}
}

func (hs Handlers) OnModifyOrder(order *Order, newPrice, newQuantity uint64) {
	for _, h := range hs {
		h.OnModifyOrder(order, newPrice, newQuantity)
	}
}

func (hs Handlers) OnReplaceOrder(order *Order, newID, newPrice, newQuantity uint64) {
	for _, h := range hs {
		h.OnReplaceOrder(order, newID, newPrice, newQuantity)
	}
}

func (hs Handlers) OnReplaceOrderWith(order *Order, newOrder *Order) {
	for _, h := range hs {
		h.OnReplaceOrderWith(order, newOrder)
	}
}

func (hs Handlers) OnUpdateOrder(order *Order) {
	for _, h := range hs {
		h.OnUpdateOrder(order)
	}
}

func (hs Handlers) OnDeleteOrder(order *Order) {
	for _, h := range hs {
		h.OnDeleteOrder(order)
	}
}

func (hs Handlers) OnExecuteOrder(order *Order, price, quantity uint64) {
	for _, h := range hs {
		h.OnExecuteOrder(order, price, quantity)
	}
}
