package feed

import (
	"market-book/src/market"
)

// Event is one decoded feed message. Each event maps to exactly one market
// operation.
type Event interface {
	Kind() string
	Apply(m *market.Manager) error
}

type AddSymbol struct {
	SymbolID uint32
	Name     string
}

func (AddSymbol) Kind() string { return KindAddSymbol }

func (e AddSymbol) Apply(m *market.Manager) error {
	return m.AddSymbol(market.NewSymbol(e.SymbolID, e.Name))
}

type DeleteSymbol struct {
	SymbolID uint32
}

func (DeleteSymbol) Kind() string { return KindDeleteSymbol }

func (e DeleteSymbol) Apply(m *market.Manager) error {
	return m.DeleteSymbol(e.SymbolID)
}

type AddOrderBook struct {
	SymbolID uint32
}

func (AddOrderBook) Kind() string { return KindAddOrderBook }

func (e AddOrderBook) Apply(m *market.Manager) error {
	symbol, ok := m.Symbol(e.SymbolID)
	if !ok {
		symbol = market.Symbol{ID: e.SymbolID}
	}
	return m.AddOrderBook(symbol)
}

type DeleteOrderBook struct {
	SymbolID uint32
}

func (DeleteOrderBook) Kind() string { return KindDeleteOrderBook }

func (e DeleteOrderBook) Apply(m *market.Manager) error {
	return m.DeleteOrderBook(e.SymbolID)
}

type AddOrder struct {
	Order market.Order
}

func (AddOrder) Kind() string { return KindAddOrder }

func (e AddOrder) Apply(m *market.Manager) error {
	return m.AddOrder(e.Order)
}

type ReduceOrder struct {
	OrderID  uint64
	Quantity uint64
}

func (ReduceOrder) Kind() string { return KindReduceOrder }

func (e ReduceOrder) Apply(m *market.Manager) error {
	return m.ReduceOrder(e.OrderID, e.Quantity)
}

type ModifyOrder struct {
	OrderID  uint64
	Price    uint64
	Quantity uint64
}

func (ModifyOrder) Kind() string { return KindModifyOrder }

func (e ModifyOrder) Apply(m *market.Manager) error {
	return m.ModifyOrder(e.OrderID, e.Price, e.Quantity)
}

type ReplaceOrder struct {
	OrderID    uint64
	NewOrderID uint64
	Price      uint64
	Quantity   uint64
}

func (ReplaceOrder) Kind() string { return KindReplaceOrder }

func (e ReplaceOrder) Apply(m *market.Manager) error {
	return m.ReplaceOrder(e.OrderID, e.NewOrderID, e.Price, e.Quantity)
}

// ReplaceOrderWith carries the complete replacement order.
type ReplaceOrderWith struct {
	OrderID uint64
	Order   market.Order
}

func (ReplaceOrderWith) Kind() string { return KindReplaceOrder }

func (e ReplaceOrderWith) Apply(m *market.Manager) error {
	return m.ReplaceOrderWith(e.OrderID, e.Order)
}

type DeleteOrder struct {
	OrderID uint64
}

func (DeleteOrder) Kind() string { return KindDeleteOrder }

func (e DeleteOrder) Apply(m *market.Manager) error {
	return m.DeleteOrder(e.OrderID)
}

// ExecuteOrder fills an order at its resting price, or at Price when
// WithPrice is set.
type ExecuteOrder struct {
	OrderID   uint64
	Quantity  uint64
	Price     uint64
	WithPrice bool
}

func (ExecuteOrder) Kind() string { return KindExecuteOrder }

func (e ExecuteOrder) Apply(m *market.Manager) error {
	if e.WithPrice {
		return m.ExecuteOrderAt(e.OrderID, e.Price, e.Quantity)
	}
	return m.ExecuteOrder(e.OrderID, e.Quantity)
}

// Unknown stands for a message the decoder did not recognize. Applying it is
// a no-op; the Applier only counts it.
type Unknown struct {
	Type string
}

func (Unknown) Kind() string { return KindUnknown }

func (Unknown) Apply(*market.Manager) error { return nil }
