package observer

import (
	"github.com/rs/zerolog"

	"market-book/src/market"
)

// Journal writes every market notification to a zerolog logger. Order events
// go out at debug level and level events at trace level.
type Journal struct {
	log zerolog.Logger
}

func NewJournal(log zerolog.Logger) *Journal {
	return &Journal{log: log.With().Str("component", "market").Logger()}
}

func (j *Journal) OnAddSymbol(s market.Symbol) {
	j.log.Info().Uint32("symbol_id", s.ID).Str("symbol", s.Name).Msg("Symbol added")
}

func (j *Journal) OnDeleteSymbol(s market.Symbol) {
	j.log.Info().Uint32("symbol_id", s.ID).Str("symbol", s.Name).Msg("Symbol deleted")
}

func (j *Journal) OnAddOrderBook(b *market.OrderBook) {
	j.log.Debug().Uint32("symbol_id", b.Symbol().ID).Msg("Order book added")
}

func (j *Journal) OnDeleteOrderBook(b *market.OrderBook) {
	j.log.Debug().Uint32("symbol_id", b.Symbol().ID).Msg("Order book deleted")
}

func (j *Journal) OnUpdateOrderBook(b *market.OrderBook, l *market.Level, top bool) {
	if !top {
		return
	}
	e := j.log.Trace().Uint32("symbol_id", b.Symbol().ID)
	if bid := b.BestBid(); bid != nil {
		e = e.Uint64("bid", bid.Price).Uint64("bid_qty", bid.TotalQuantity)
	}
	if ask := b.BestAsk(); ask != nil {
		e = e.Uint64("ask", ask.Price).Uint64("ask_qty", ask.TotalQuantity)
	}
	e.Msg("Top of book changed")
}

func (j *Journal) OnAddLevel(b *market.OrderBook, l *market.Level, top bool) {
	j.level("Level added", b, l, top)
}

func (j *Journal) OnUpdateLevel(b *market.OrderBook, l *market.Level, top bool) {
	j.level("Level updated", b, l, top)
}

func (j *Journal) OnDeleteLevel(b *market.OrderBook, l *market.Level, top bool) {
	j.level("Level deleted", b, l, top)
}

func (j *Journal) OnAddOrder(o *market.Order) {
	j.order(o).Msg("Order added")
}

func (j *Journal) OnReduceOrder(o *market.Order, quantity uint64) {
	j.order(o).Uint64("reduced", quantity).Msg("Order reduced")
}

func (j *Journal) OnModifyOrder(o *market.Order, newPrice, newQuantity uint64) {
	j.order(o).
		Uint64("new_price", newPrice).
		Uint64("new_quantity", newQuantity).
		Msg("Order modified")
}

func (j *Journal) OnReplaceOrder(o *market.Order, newID, newPrice, newQuantity uint64) {
	j.order(o).
		Uint64("new_order_id", newID).
		Uint64("new_price", newPrice).
		Uint64("new_quantity", newQuantity).
		Msg("Order replaced")
}

func (j *Journal) OnReplaceOrderWith(o *market.Order, n *market.Order) {
	j.order(o).
		Uint64("new_order_id", n.ID).
		Uint64("new_price", n.Price).
		Uint64("new_quantity", n.Quantity).
		Msg("Order replaced")
}

func (j *Journal) OnUpdateOrder(o *market.Order) {
	j.order(o).Msg("Order updated")
}

func (j *Journal) OnDeleteOrder(o *market.Order) {
	j.order(o).Msg("Order deleted")
}

func (j *Journal) OnExecuteOrder(o *market.Order, price, quantity uint64) {
	j.order(o).
		Uint64("exec_price", price).
		Uint64("exec_quantity", quantity).
		Msg("Order executed")
}

func (j *Journal) order(o *market.Order) *zerolog.Event {
	return j.log.Debug().
		Uint64("order_id", o.ID).
		Uint32("symbol_id", o.SymbolID).
		Str("side", o.Side.String()).
		Uint64("price", o.Price).
		Uint64("quantity", o.Quantity)
}

func (j *Journal) level(msg string, b *market.OrderBook, l *market.Level, top bool) {
	j.log.Trace().
		Uint32("symbol_id", b.Symbol().ID).
		Str("side", l.Side.String()).
		Uint64("price", l.Price).
		Uint64("total_quantity", l.TotalQuantity).
		Int("orders", l.OrderCount).
		Bool("top", top).
		Msg(msg)
}
