package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"market-book/src/config"
	"market-book/src/feed"
	"market-book/src/market"
	"market-book/src/models"
	"market-book/src/observer"
)

type BookHandler struct {
	Applier   *feed.Applier
	Counter   *observer.Counter
	StartTime time.Time

	cfg        config.HTTPConfig
	priceScale int32
	latencies  *latencyWindow
}

func NewBookHandler(applier *feed.Applier, counter *observer.Counter, cfg *config.Config) *BookHandler {
	return &BookHandler{
		Applier:    applier,
		Counter:    counter,
		StartTime:  time.Now(),
		cfg:        cfg.HTTP,
		priceScale: cfg.App.PriceScale,
		latencies:  newLatencyWindow(10000),
	}
}

// SubmitEvents accepts one feed message or a JSON array of them and applies
// the batch atomically with respect to other writers.
func (h *BookHandler) SubmitEvents(c *fiber.Ctx) error {
	msgs, err := parseMessages(c.Body())
	if err != nil {
		log.Warn().
			Err(err).
			Str("ip", c.IP()).
			Str("path", c.Path()).
			Msg("Invalid request: malformed JSON")
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: malformed JSON",
		})
	}

	if len(msgs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request: no events",
		})
	}

	// edge case: reject oversized batches before touching the market
	if len(msgs) > h.cfg.MaxBatch {
		log.Warn().
			Int("events", len(msgs)).
			Int("max_batch", h.cfg.MaxBatch).
			Str("ip", c.IP()).
			Msg("Event batch too large")
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse{
			Error: "Invalid request: batch exceeds " + strconv.Itoa(h.cfg.MaxBatch) + " events",
		})
	}

	resp := models.SubmitEventsResponse{
		BatchID:  uuid.New().String(),
		Received: len(msgs),
	}

	events := make([]feed.Event, 0, len(msgs))
	positions := make([]int, 0, len(msgs))
	for i, msg := range msgs {
		ev, err := msg.Event()
		if err != nil {
			resp.Rejected++
			resp.Errors = append(resp.Errors, models.EventError{
				Index: i,
				Type:  msg.Type,
				Kind:  "malformed",
				Error: err.Error(),
			})
			continue
		}
		if _, ok := ev.(feed.Unknown); ok {
			resp.Unrecognized++
		}
		events = append(events, ev)
		positions = append(positions, i)
	}

	start := time.Now()
	errs := h.Applier.ApplyAll(events)
	h.latencies.record(time.Since(start))

	for j, err := range errs {
		if err == nil {
			if _, ok := events[j].(feed.Unknown); !ok {
				resp.Applied++
			}
			continue
		}
		resp.Rejected++
		resp.Errors = append(resp.Errors, models.EventError{
			Index: positions[j],
			Type:  msgs[positions[j]].Type,
			Kind:  errorKind(err),
			Error: err.Error(),
		})
	}

	log.Info().
		Str("batch_id", resp.BatchID).
		Int("received", resp.Received).
		Int("applied", resp.Applied).
		Int("rejected", resp.Rejected).
		Int("unrecognized", resp.Unrecognized).
		Str("ip", c.IP()).
		Msg("Event batch processed")

	switch {
	case resp.Rejected == 0:
		return c.Status(fiber.StatusOK).JSON(resp)
	case resp.Rejected == resp.Received:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	default:
		return c.Status(fiber.StatusMultiStatus).JSON(resp)
	}
}

func (h *BookHandler) GetSymbols(c *fiber.Ctx) error {
	var resp models.SymbolsResponse
	h.Applier.View(func(m *market.Manager) {
		symbols := m.Symbols()
		resp.Symbols = make([]models.SymbolInfo, 0, len(symbols))
		for _, s := range symbols {
			_, hasBook := m.OrderBook(s.ID)
			resp.Symbols = append(resp.Symbols, models.SymbolInfo{
				ID:           s.ID,
				Name:         s.Name,
				HasOrderBook: hasBook,
			})
		}
	})
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetOrderBook renders the best depth levels per side. The symbol parameter
// is either a numeric symbol id or a symbol name.
func (h *BookHandler) GetOrderBook(c *fiber.Ctx) error {
	param := c.Params("symbol")

	depth, err := strconv.Atoi(c.Query("depth", strconv.Itoa(h.cfg.DefaultDepth)))
	if err != nil || depth <= 0 {
		depth = h.cfg.DefaultDepth
	}

	// edge case: enforce maximum depth limit
	if depth > h.cfg.MaxDepth {
		depth = h.cfg.MaxDepth
	}

	var (
		resp  models.OrderBookResponse
		found bool
	)
	h.Applier.View(func(m *market.Manager) {
		book, ok := h.lookupBook(m, param)
		if !ok {
			return
		}
		found = true
		resp = h.renderBook(book, depth)
	})

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Order book not found",
		})
	}
	resp.Timestamp = time.Now().UnixMilli()
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *BookHandler) GetOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid order id",
		})
	}

	var (
		resp  models.OrderResponse
		found bool
	)
	h.Applier.View(func(m *market.Manager) {
		o, ok := m.Order(id)
		if !ok {
			return
		}
		found = true
		resp = h.renderOrder(m, o)
	})

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Order not found",
		})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *BookHandler) lookupBook(m *market.Manager, param string) (*market.OrderBook, bool) {
	if id, err := strconv.ParseUint(param, 10, 32); err == nil {
		return m.OrderBook(uint32(id))
	}
	for _, s := range m.Symbols() {
		if s.Name == param {
			return m.OrderBook(s.ID)
		}
	}
	return nil, false
}

func parseMessages(body []byte) ([]feed.Message, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var msgs []feed.Message
		if err := json.Unmarshal(body, &msgs); err != nil {
			return nil, err
		}
		return msgs, nil
	}
	var msg feed.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, err
	}
	return []feed.Message{msg}, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, market.ErrDuplicateSymbol):
		return "duplicate_symbol"
	case errors.Is(err, market.ErrSymbolNotFound):
		return "symbol_not_found"
	case errors.Is(err, market.ErrDuplicateOrderBook):
		return "duplicate_order_book"
	case errors.Is(err, market.ErrOrderBookNotFound):
		return "order_book_not_found"
	case errors.Is(err, market.ErrDuplicateOrder):
		return "duplicate_order"
	case errors.Is(err, market.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, market.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, market.ErrInvalidOrder):
		return "invalid_order"
	default:
		return "internal"
	}
}
