package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"market-book/src/market"
)

const (
	KindAddSymbol       = "add_symbol"
	KindDeleteSymbol    = "delete_symbol"
	KindAddOrderBook    = "add_order_book"
	KindDeleteOrderBook = "delete_order_book"
	KindAddOrder        = "add_order"
	KindReduceOrder     = "reduce_order"
	KindModifyOrder     = "modify_order"
	KindReplaceOrder    = "replace_order"
	KindDeleteOrder     = "delete_order"
	KindExecuteOrder    = "execute_order"
	KindUnknown         = "unknown"
)

// Message is the JSON envelope of a feed event. Prices are integer ticks.
type Message struct {
	Type       string        `json:"type"`
	SymbolID   uint32        `json:"symbol_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	OrderID    uint64        `json:"order_id,omitempty"`
	NewOrderID uint64        `json:"new_order_id,omitempty"`
	Side       string        `json:"side,omitempty"`
	OrderType  string        `json:"order_type,omitempty"`
	Price      *uint64       `json:"price,omitempty"`
	Quantity   uint64        `json:"quantity,omitempty"`
	Order      *OrderMessage `json:"order,omitempty"`
}

// OrderMessage is a complete order, used by the full-order form of replace_order.
type OrderMessage struct {
	ID        uint64 `json:"id"`
	SymbolID  uint32 `json:"symbol_id"`
	Side      string `json:"side"`
	OrderType string `json:"order_type,omitempty"`
	Price     uint64 `json:"price"`
	Quantity  uint64 `json:"quantity"`
}

// DecodeError reports a message that was recognized but malformed.
type DecodeError struct {
	Type    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s", e.Type, e.Message)
}

// Decode parses one JSON message into an Event.
func Decode(data []byte) (Event, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, &DecodeError{Type: "message", Message: err.Error()}
	}
	return msg.Event()
}

// Event converts the envelope into a typed event. Unrecognized types become
// Unknown rather than an error.
func (msg Message) Event() (Event, error) {
	switch strings.ToLower(msg.Type) {
	case KindAddSymbol:
		return AddSymbol{SymbolID: msg.SymbolID, Name: msg.Name}, nil
	case KindDeleteSymbol:
		return DeleteSymbol{SymbolID: msg.SymbolID}, nil
	case KindAddOrderBook:
		return AddOrderBook{SymbolID: msg.SymbolID}, nil
	case KindDeleteOrderBook:
		return DeleteOrderBook{SymbolID: msg.SymbolID}, nil
	case KindAddOrder:
		order, err := OrderMessage{
			ID:        msg.OrderID,
			SymbolID:  msg.SymbolID,
			Side:      msg.Side,
			OrderType: msg.OrderType,
			Price:     deref(msg.Price),
			Quantity:  msg.Quantity,
		}.order(msg.Type)
		if err != nil {
			return nil, err
		}
		return AddOrder{Order: order}, nil
	case KindReduceOrder:
		return ReduceOrder{OrderID: msg.OrderID, Quantity: msg.Quantity}, nil
	case KindModifyOrder:
		if msg.Price == nil {
			return nil, &DecodeError{Type: msg.Type, Message: "price is required"}
		}
		return ModifyOrder{OrderID: msg.OrderID, Price: *msg.Price, Quantity: msg.Quantity}, nil
	case KindReplaceOrder:
		if msg.Order != nil {
			order, err := msg.Order.order(msg.Type)
			if err != nil {
				return nil, err
			}
			return ReplaceOrderWith{OrderID: msg.OrderID, Order: order}, nil
		}
		if msg.Price == nil {
			return nil, &DecodeError{Type: msg.Type, Message: "price or order is required"}
		}
		return ReplaceOrder{
			OrderID:    msg.OrderID,
			NewOrderID: msg.NewOrderID,
			Price:      *msg.Price,
			Quantity:   msg.Quantity,
		}, nil
	case KindDeleteOrder:
		return DeleteOrder{OrderID: msg.OrderID}, nil
	case KindExecuteOrder:
		return ExecuteOrder{
			OrderID:   msg.OrderID,
			Quantity:  msg.Quantity,
			Price:     deref(msg.Price),
			WithPrice: msg.Price != nil,
		}, nil
	default:
		return Unknown{Type: msg.Type}, nil
	}
}

func (om OrderMessage) order(msgType string) (market.Order, error) {
	side, err := ParseSide(om.Side)
	if err != nil {
		return market.Order{}, &DecodeError{Type: msgType, Message: err.Error()}
	}
	orderType, err := ParseOrderType(om.OrderType)
	if err != nil {
		return market.Order{}, &DecodeError{Type: msgType, Message: err.Error()}
	}
	return market.NewOrder(om.ID, om.SymbolID, side, orderType, om.Price, om.Quantity), nil
}

// ParseSide accepts BUY/SELL and the feed's B/S indicator, in any case.
func ParseSide(s string) (market.Side, error) {
	switch strings.ToUpper(s) {
	case "B", "BUY":
		return market.SideBuy, nil
	case "S", "SELL":
		return market.SideSell, nil
	}
	return market.SideBuy, fmt.Errorf("side must be BUY or SELL, got %q", s)
}

// ParseOrderType defaults to LIMIT when s is empty.
func ParseOrderType(s string) (market.OrderType, error) {
	switch strings.ToUpper(s) {
	case "", "LIMIT":
		return market.TypeLimit, nil
	case "MARKET":
		return market.TypeMarket, nil
	}
	return market.TypeLimit, fmt.Errorf("order_type must be LIMIT or MARKET, got %q", s)
}

func deref(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
