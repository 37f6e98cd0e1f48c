package market

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLadderOrdersBidsDescendingAndAsksAscending(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))

	for i, price := range []uint64{15050, 15060, 15040} {
		o := NewLimitOrder(uint64(i+1), 1, SideBuy, price, 100)
		book.upsert(&o)
	}
	for i, price := range []uint64{15070, 15080, 15065} {
		o := NewLimitOrder(uint64(i+10), 1, SideSell, price, 100)
		book.upsert(&o)
	}

	var bids, asks []uint64
	book.Bids(func(l *Level) bool { bids = append(bids, l.Price); return true })
	book.Asks(func(l *Level) bool { asks = append(asks, l.Price); return true })

	assert.Equal(t, []uint64{15060, 15050, 15040}, bids)
	assert.Equal(t, []uint64{15065, 15070, 15080}, asks)
	require.NotNil(t, book.BestBid())
	require.NotNil(t, book.BestAsk())
	assert.Equal(t, uint64(15060), book.BestBid().Price)
	assert.Equal(t, uint64(15065), book.BestAsk().Price)
	assert.Equal(t, 3, book.Depth(SideBuy))
	assert.Equal(t, 3, book.Depth(SideSell))
}

func TestUpsertReportsTopAndCreation(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))

	a := NewLimitOrder(1, 1, SideBuy, 100, 10)
	change := book.upsert(&a)
	assert.Equal(t, levelAdd, change.action)
	assert.True(t, change.top)

	b := NewLimitOrder(2, 1, SideBuy, 99, 10)
	change = book.upsert(&b)
	assert.Equal(t, levelAdd, change.action)
	assert.False(t, change.top)

	c := NewLimitOrder(3, 1, SideBuy, 100, 5)
	change = book.upsert(&c)
	assert.Equal(t, levelUpdate, change.action)
	assert.True(t, change.top)
	assert.Equal(t, uint64(15), change.level.TotalQuantity)
	assert.Equal(t, 2, change.level.OrderCount)
}

func TestLevelKeepsArrivalOrder(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	orders := make([]Order, 4)
	for i := range orders {
		orders[i] = NewLimitOrder(uint64(i+1), 1, SideSell, 200, uint64(i+1))
		book.upsert(&orders[i])
	}

	book.remove(&orders[1])

	var ids []uint64
	book.Level(SideSell, 200).Orders(func(o *Order) bool {
		ids = append(ids, o.ID)
		return true
	})
	assert.Equal(t, []uint64{1, 3, 4}, ids)
	assert.Equal(t, uint64(1+3+4), book.Level(SideSell, 200).TotalQuantity)
	assert.Equal(t, uint64(1), book.Level(SideSell, 200).Front().ID)
	assert.Equal(t, uint64(3), book.Level(SideSell, 200).Front().Next().ID)
}

func TestRemovingBestLevelPromotesNext(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	best := NewLimitOrder(1, 1, SideSell, 101, 10)
	worse := NewLimitOrder(2, 1, SideSell, 105, 10)
	book.upsert(&best)
	book.upsert(&worse)

	change := book.remove(&best)

	assert.Equal(t, levelDelete, change.action)
	assert.True(t, change.top)
	assert.Nil(t, book.Level(SideSell, 101))
	require.NotNil(t, book.BestAsk())
	assert.Equal(t, uint64(105), book.BestAsk().Price)

	change = book.remove(&worse)
	assert.True(t, change.top)
	assert.Nil(t, book.BestAsk())
	assert.True(t, book.Empty())
}

func TestReducePartialAndFull(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	a := NewLimitOrder(1, 1, SideBuy, 50, 30)
	b := NewLimitOrder(2, 1, SideBuy, 50, 20)
	book.upsert(&a)
	book.upsert(&b)

	change := book.reduce(&a, 10)
	assert.Equal(t, levelUpdate, change.action)
	assert.Equal(t, uint64(20), a.Quantity)
	assert.Equal(t, uint64(40), change.level.TotalQuantity)

	change = book.reduce(&a, 20)
	assert.Equal(t, levelUpdate, change.action)
	assert.Equal(t, uint64(0), a.Quantity)
	assert.Equal(t, uint64(20), change.level.TotalQuantity)
	assert.Equal(t, 1, change.level.OrderCount)

	change = book.reduce(&b, 20)
	assert.Equal(t, levelDelete, change.action)
	assert.Nil(t, book.BestBid())
}

func TestMoveSamePriceRequeuesAtBack(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	a := NewLimitOrder(1, 1, SideBuy, 50, 30)
	b := NewLimitOrder(2, 1, SideBuy, 50, 20)
	book.upsert(&a)
	book.upsert(&b)

	changes := book.move(&a, 50, 5)

	require.Len(t, changes, 1)
	assert.Equal(t, levelUpdate, changes[0].action)
	level := book.Level(SideBuy, 50)
	assert.Equal(t, uint64(2), level.Front().ID)
	assert.Equal(t, uint64(25), level.TotalQuantity)
}

func TestMoveToNewPrice(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	a := NewLimitOrder(1, 1, SideBuy, 50, 30)
	book.upsert(&a)

	changes := book.move(&a, 55, 40)

	require.Len(t, changes, 2)
	assert.Equal(t, levelDelete, changes[0].action)
	assert.Equal(t, uint64(50), changes[0].level.Price)
	assert.Equal(t, levelAdd, changes[1].action)
	assert.True(t, changes[1].top)
	assert.Equal(t, uint64(55), book.BestBid().Price)
	assert.Equal(t, uint64(40), book.BestBid().TotalQuantity)
}

func TestDrainEmptiesBook(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	orders := []Order{
		NewLimitOrder(1, 1, SideBuy, 50, 1),
		NewLimitOrder(2, 1, SideBuy, 49, 1),
		NewLimitOrder(3, 1, SideSell, 51, 1),
	}
	for i := range orders {
		book.upsert(&orders[i])
	}

	drained, changes := book.drain()

	assert.Len(t, drained, 3)
	require.Len(t, changes, 3)
	assert.True(t, changes[0].top)
	assert.False(t, changes[1].top)
	assert.True(t, changes[2].top)
	for _, c := range changes {
		assert.Equal(t, levelDelete, c.action)
		assert.Zero(t, c.level.OrderCount)
	}
	assert.True(t, book.Empty())
	assert.Nil(t, book.BestBid())
	assert.Nil(t, book.BestAsk())
}

func TestNewSymbolTrimsPadding(t *testing.T) {
	assert.Equal(t, "AAPL", NewSymbol(1, "AAPL    ").Name)
	assert.Equal(t, "ABCDEFGH", NewSymbol(2, "ABCDEFGHIJ").Name)
}

func TestConcurrentLevelLookupsDoNotWrite(t *testing.T) {
	book := newOrderBook(NewSymbol(1, "AAPL"))
	for i, price := range []uint64{100, 101, 102, 103} {
		o := NewLimitOrder(uint64(i+1), 1, SideSell, price, 10)
		book.upsert(&o)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				price := uint64(100 + (g+i)%4)
				level := book.Level(SideSell, price)
				if assert.NotNil(t, level) {
					assert.Equal(t, price, level.Price)
				}
			}
		}(g)
	}
	wg.Wait()
}
