package models

import "market-book/src/observer"

type SubmitEventsResponse struct {
	BatchID      string       `json:"batch_id"`
	Received     int          `json:"received"`
	Applied      int          `json:"applied"`
	Rejected     int          `json:"rejected"`
	Unrecognized int          `json:"unrecognized"`
	Errors       []EventError `json:"errors,omitempty"`
}

type EventError struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Kind  string `json:"kind"` // engine error kind, e.g. "order_not_found"
	Error string `json:"error"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SymbolInfo struct {
	ID           uint32 `json:"id"`
	Name         string `json:"name"`
	HasOrderBook bool   `json:"has_order_book"`
}

type SymbolsResponse struct {
	Symbols []SymbolInfo `json:"symbols"`
}

type OrderBookResponse struct {
	SymbolID  uint32           `json:"symbol_id"`
	Symbol    string           `json:"symbol"`
	Timestamp int64            `json:"timestamp"` // unix timestamp in milliseconds
	BestBid   *PriceLevelInfo  `json:"best_bid,omitempty"`
	BestAsk   *PriceLevelInfo  `json:"best_ask,omitempty"`
	Bids      []PriceLevelInfo `json:"bids"` // sorted descending (highest first)
	Asks      []PriceLevelInfo `json:"asks"` // sorted ascending (lowest first)
}

type PriceLevelInfo struct {
	Price        uint64 `json:"price"`         // price in ticks
	DisplayPrice string `json:"display_price"` // price with implied decimals applied
	Quantity     uint64 `json:"quantity"`      // aggregated quantity at this price
	Orders       int    `json:"orders"`
}

type OrderResponse struct {
	OrderID      uint64 `json:"order_id"`
	SymbolID     uint32 `json:"symbol_id"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	Price        uint64 `json:"price"`
	DisplayPrice string `json:"display_price"`
	Quantity     uint64 `json:"quantity"`
	// QueuePosition is the 1-based position of the order in its level.
	QueuePosition int `json:"queue_position"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	MessagesApplied int64  `json:"messages_applied"`
}

type MarketStats struct {
	Symbols       int `json:"symbols"`
	MaxSymbols    int `json:"max_symbols"`
	OrderBooks    int `json:"order_books"`
	MaxOrderBooks int `json:"max_order_books"`
	Orders        int `json:"orders"`
	MaxOrders     int `json:"max_orders"`
}

type FeedStats struct {
	Messages     int64 `json:"messages"`
	Applied      int64 `json:"applied"`
	Rejected     int64 `json:"rejected"`
	Unrecognized int64 `json:"unrecognized"`
}

type MetricsResponse struct {
	Market                 MarketStats              `json:"market"`
	Feed                   FeedStats                `json:"feed"`
	Notifications          observer.CounterSnapshot `json:"notifications"`
	LatencyP50Ms           float64                  `json:"latency_p50_ms"`
	LatencyP99Ms           float64                  `json:"latency_p99_ms"`
	LatencyP999Ms          float64                  `json:"latency_p999_ms"`
	ThroughputEventsPerSec float64                  `json:"throughput_events_per_sec"`
}
