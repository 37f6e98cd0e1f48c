package market

import (
	"fmt"
	"strings"
)

type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

type OrderType uint8

const (
	TypeLimit OrderType = iota
	TypeMarket
)

func (t OrderType) String() string {
	if t == TypeMarket {
		return "MARKET"
	}
	return "LIMIT"
}

// SymbolNameSize is the width of the instrument name field on the feed.
const SymbolNameSize = 8

type Symbol struct {
	ID   uint32
	Name string
}

// NewSymbol strips the feed's space padding and bounds the name to SymbolNameSize bytes.
func NewSymbol(id uint32, name string) Symbol {
	name = strings.TrimSpace(name)
	if len(name) > SymbolNameSize {
		name = name[:SymbolNameSize]
	}
	return Symbol{ID: id, Name: name}
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d:%s", s.ID, s.Name)
}

// Order is one resident order. Price is in ticks and Quantity is the remaining
// resident quantity.
type Order struct {
	ID       uint64
	SymbolID uint32
	Side     Side
	Type     OrderType
	Price    uint64
	Quantity uint64

	next *Order
	prev *Order
}

func NewOrder(id uint64, symbolID uint32, side Side, orderType OrderType, price, quantity uint64) Order {
	return Order{
		ID:       id,
		SymbolID: symbolID,
		Side:     side,
		Type:     orderType,
		Price:    price,
		Quantity: quantity,
	}
}

func NewLimitOrder(id uint64, symbolID uint32, side Side, price, quantity uint64) Order {
	return NewOrder(id, symbolID, side, TypeLimit, price, quantity)
}

func (o *Order) IsBuy() bool  { return o.Side == SideBuy }
func (o *Order) IsSell() bool { return o.Side == SideSell }

// Next returns the order queued behind o in its level, or nil.
func (o *Order) Next() *Order { return o.next }

// snapshot copies the order terms without its queue links.
func (o *Order) snapshot() *Order {
	c := *o
	c.next, c.prev = nil, nil
	return &c
}

func (o Order) String() string {
	return fmt.Sprintf("Order(id=%d symbol=%d %s %s price=%d qty=%d)",
		o.ID, o.SymbolID, o.Side, o.Type, o.Price, o.Quantity)
}
