package market

import (
	"github.com/google/btree"
)

const ladderDegree = 32

// ladder is one side of a book: levels ordered best first by the side's
// comparator, with the best level cached.
type ladder struct {
	side Side
	tree *btree.BTreeG[*Level]
	best *Level
}

func newLadder(side Side) *ladder {
	less := func(a, b *Level) bool { return a.Price < b.Price }
	if side == SideBuy {
		// bids: highest price first
		less = func(a, b *Level) bool { return a.Price > b.Price }
	}
	return &ladder{
		side: side,
		tree: btree.NewG[*Level](ladderDegree, less),
	}
}

// better reports whether price a ranks ahead of price b on this side.
func (l *ladder) better(a, b uint64) bool {
	if l.side == SideBuy {
		return a > b
	}
	return a < b
}

func (l *ladder) find(price uint64) *Level {
	level, ok := l.tree.Get(&Level{Price: price})
	if !ok {
		return nil
	}
	return level
}

func (l *ladder) insert(level *Level) {
	l.tree.ReplaceOrInsert(level)
	if l.best == nil || l.better(level.Price, l.best.Price) {
		l.best = level
	}
}

func (l *ladder) remove(level *Level) {
	l.tree.Delete(level)
	if l.best == level {
		l.best = nil
		if next, ok := l.tree.Min(); ok {
			l.best = next
		}
	}
}

func (l *ladder) len() int { return l.tree.Len() }

// ascend walks levels from best to worst.
func (l *ladder) ascend(fn func(level *Level) bool) {
	l.tree.Ascend(func(level *Level) bool { return fn(level) })
}

func (l *ladder) clear() {
	l.tree.Clear(false)
	l.best = nil
}
