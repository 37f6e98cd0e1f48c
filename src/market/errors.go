package market

import "errors"

var (
	ErrDuplicateSymbol    = errors.New("duplicate symbol")
	ErrSymbolNotFound     = errors.New("symbol not found")
	ErrDuplicateOrderBook = errors.New("duplicate order book")
	ErrOrderBookNotFound  = errors.New("order book not found")
	ErrDuplicateOrder     = errors.New("duplicate order")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	// ErrInvalidOrder rejects orders that cannot rest in a price ladder.
	// Market orders never rest, so a feed that sends them sees this error
	// for each one.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrReentrantMutation is returned when a Handler mutates the Manager
	// from inside a notification.
	ErrReentrantMutation = errors.New("market mutated from inside a notification")
)
