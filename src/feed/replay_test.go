package feed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-book/src/market"
)

const replayInput = `
# session start
{"type":"add_symbol","symbol_id":1,"name":"MSFT"}
{"type":"add_order_book","symbol_id":1}
{"type":"add_order","order_id":1,"symbol_id":1,"side":"B","price":100,"quantity":10}
{"type":"add_order","order_id":2,"symbol_id":1,"side":"S","price":101,"quantity":5}
{"type":"add_order","order_id":2,"symbol_id":1,"side":"S","price":102,"quantity":5}
not json at all
{"type":"execute_order","order_id":2,"quantity":5}
{"type":"system_event"}
`

func TestReplay(t *testing.T) {
	a := newTestApplier()

	res, err := Replay(context.Background(), strings.NewReader(replayInput), a)
	require.NoError(t, err)

	assert.Equal(t, ReplayResult{Lines: 8, Malformed: 1, Rejected: 1}, res)
	assert.Equal(t, int64(1), a.Counters().Unrecognized)

	a.View(func(m *market.Manager) {
		book, ok := m.OrderBook(1)
		require.True(t, ok)
		require.NotNil(t, book.BestBid())
		assert.Equal(t, uint64(100), book.BestBid().Price)
		assert.Nil(t, book.BestAsk())
		_, ok = m.Order(2)
		assert.False(t, ok)
	})
}

func TestReplayStopsOnCancel(t *testing.T) {
	a := newTestApplier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Replay(ctx, strings.NewReader(replayInput), a)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Lines)
}
