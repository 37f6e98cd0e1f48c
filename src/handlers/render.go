package handlers

import (
	"math/big"

	"github.com/shopspring/decimal"

	"market-book/src/market"
	"market-book/src/models"
)

// displayPrice renders integer ticks with the configured implied decimals.
func (h *BookHandler) displayPrice(ticks uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(ticks), -h.priceScale).StringFixed(h.priceScale)
}

func (h *BookHandler) renderLevel(l *market.Level) models.PriceLevelInfo {
	return models.PriceLevelInfo{
		Price:        l.Price,
		DisplayPrice: h.displayPrice(l.Price),
		Quantity:     l.TotalQuantity,
		Orders:       l.OrderCount,
	}
}

func (h *BookHandler) renderBook(book *market.OrderBook, depth int) models.OrderBookResponse {
	symbol := book.Symbol()
	resp := models.OrderBookResponse{
		SymbolID: symbol.ID,
		Symbol:   symbol.Name,
		Bids:     make([]models.PriceLevelInfo, 0, min(depth, book.Depth(market.SideBuy))),
		Asks:     make([]models.PriceLevelInfo, 0, min(depth, book.Depth(market.SideSell))),
	}

	if best := book.BestBid(); best != nil {
		info := h.renderLevel(best)
		resp.BestBid = &info
	}
	if best := book.BestAsk(); best != nil {
		info := h.renderLevel(best)
		resp.BestAsk = &info
	}

	book.Bids(func(l *market.Level) bool {
		resp.Bids = append(resp.Bids, h.renderLevel(l))
		return len(resp.Bids) < depth
	})
	book.Asks(func(l *market.Level) bool {
		resp.Asks = append(resp.Asks, h.renderLevel(l))
		return len(resp.Asks) < depth
	})
	return resp
}

func (h *BookHandler) renderOrder(m *market.Manager, o *market.Order) models.OrderResponse {
	resp := models.OrderResponse{
		OrderID:      o.ID,
		SymbolID:     o.SymbolID,
		Side:         o.Side.String(),
		Type:         o.Type.String(),
		Price:        o.Price,
		DisplayPrice: h.displayPrice(o.Price),
		Quantity:     o.Quantity,
	}

	book, ok := m.OrderBook(o.SymbolID)
	if !ok {
		return resp
	}
	if level := book.Level(o.Side, o.Price); level != nil {
		pos := 0
		level.Orders(func(queued *market.Order) bool {
			pos++
			if queued == o {
				resp.QueuePosition = pos
				return false
			}
			return true
		})
	}
	return resp
}
