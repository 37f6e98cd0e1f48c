package handlers

import (
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"market-book/src/market"
	"market-book/src/models"
)

// latencyWindow keeps the most recent batch apply latencies.
type latencyWindow struct {
	mu      sync.RWMutex
	samples []time.Duration
	max     int
}

func newLatencyWindow(max int) *latencyWindow {
	return &latencyWindow{samples: make([]time.Duration, 0, max), max: max}
}

func (w *latencyWindow) record(latency time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples = append(w.samples, latency)

	// edge case: maintain rolling window by removing oldest measurements
	if len(w.samples) > w.max {
		w.samples = w.samples[len(w.samples)-w.max:]
	}
}

// percentiles returns p50, p99 and p99.9 in milliseconds.
func (w *latencyWindow) percentiles() (p50, p99, p999 float64) {
	w.mu.RLock()
	sorted := slices.Clone(w.samples)
	w.mu.RUnlock()

	if len(sorted) == 0 {
		return 0, 0, 0
	}
	slices.Sort(sorted)

	at := func(q float64) float64 {
		i := min(int(float64(len(sorted))*q), len(sorted)-1)
		return float64(sorted[i].Nanoseconds()) / 1e6
	}
	return at(0.50), at(0.99), at(0.999)
}

func (h *BookHandler) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:          "healthy",
		UptimeSeconds:   int64(time.Since(h.StartTime).Seconds()),
		MessagesApplied: h.Applier.Counters().Applied,
	})
}

func (h *BookHandler) Metrics(c *fiber.Ctx) error {
	var stats market.Stats
	h.Applier.View(func(m *market.Manager) {
		stats = m.Stats()
	})
	counters := h.Applier.Counters()
	p50, p99, p999 := h.latencies.percentiles()

	var throughput float64
	if uptime := time.Since(h.StartTime).Seconds(); uptime > 0 {
		throughput = float64(counters.Messages) / uptime
	}

	return c.Status(fiber.StatusOK).JSON(models.MetricsResponse{
		Market: models.MarketStats{
			Symbols:       stats.Symbols,
			MaxSymbols:    stats.MaxSymbols,
			OrderBooks:    stats.OrderBooks,
			MaxOrderBooks: stats.MaxOrderBooks,
			Orders:        stats.Orders,
			MaxOrders:     stats.MaxOrders,
		},
		Feed: models.FeedStats{
			Messages:     counters.Messages,
			Applied:      counters.Applied,
			Rejected:     counters.Rejected,
			Unrecognized: counters.Unrecognized,
		},
		Notifications:          h.Counter.Snapshot(),
		LatencyP50Ms:           p50,
		LatencyP99Ms:           p99,
		LatencyP999Ms:          p999,
		ThroughputEventsPerSec: throughput,
	})
}
