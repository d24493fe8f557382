package orderbook

import "limitbook/domain"

// Level aggregates every resting order at one price into a single
// (price, total volume) pair.
type Level struct {
	Price  int64
	Volume int64
}

// SideBook is the resting-order collection for one side of one symbol: an
// indexedHeap under a side-specific comparator.
//
//   - Buy:  higher price first, ties broken by lower Seq (earlier arrival).
//   - Sell: lower price first, ties broken by lower Seq.
type SideBook struct {
	side Side
	heap *indexedHeap
}

// Side re-exports domain.Side so callers of this package don't need to
// import domain just to name a side.
type Side = domain.Side

const (
	Buy  = domain.Buy
	Sell = domain.Sell
)

// NewSideBook creates an empty book for the given side.
func NewSideBook(side Side) *SideBook {
	return &SideBook{side: side, heap: newIndexedHeap(comparatorFor(side))}
}

func comparatorFor(side Side) func(a, b *domain.Order) bool {
	if side == Buy {
		return func(a, b *domain.Order) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.Seq < b.Seq
		}
	}
	return func(a, b *domain.Order) bool {
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Seq < b.Seq
	}
}

// Push rests order in the book. Pre: no order with this OrderID is already
// resting here.
func (b *SideBook) Push(order *domain.Order) { b.heap.push(order) }

// Top returns the best resting order. The caller may decrement its Volume
// in place (to record a partial fill) but must not touch Price or Seq.
// Pre: !b.IsEmpty().
func (b *SideBook) Top() *domain.Order { return b.heap.top() }

// PopTop removes and returns the best resting order.
func (b *SideBook) PopTop() *domain.Order { return b.heap.pop() }

// Find looks up a resting order by id.
func (b *SideBook) Find(orderID int64) (*domain.Order, bool) { return b.heap.find(orderID) }

// Remove removes a resting order by id, reporting whether it was present.
func (b *SideBook) Remove(orderID int64) bool {
	_, ok := b.heap.remove(orderID)
	return ok
}

// Len returns the number of resting orders.
func (b *SideBook) Len() int { return b.heap.len() }

// IsEmpty reports whether the book has no resting orders.
func (b *SideBook) IsEmpty() bool { return b.heap.isEmpty() }

// Levels folds all resting orders into best-to-worst price levels without
// mutating the live book: it works against a clone, repeatedly popping the
// best order and accumulating runs of equal price. Because pop order is
// already best-to-worst, the fold is a single pass.
func (b *SideBook) Levels() []Level {
	return b.levels(b.heap.len())
}

// LevelsDepth is Levels truncated to at most n price levels.
func (b *SideBook) LevelsDepth(n int) []Level {
	if n < 0 {
		n = 0
	}
	return b.levels(n)
}

func (b *SideBook) levels(limit int) []Level {
	if b.heap.isEmpty() || limit == 0 {
		return nil
	}
	work := b.heap.clone()
	levels := make([]Level, 0, limit)
	for work.len() > 0 {
		o := work.pop()
		if n := len(levels); n > 0 && levels[n-1].Price == o.Price {
			levels[n-1].Volume += o.Volume
			continue
		}
		if len(levels) == limit {
			break
		}
		levels = append(levels, Level{Price: o.Price, Volume: o.Volume})
	}
	return levels
}
