// Package orderbook holds the per-symbol, per-side resting-order structure:
// an indexed binary heap keyed by a side-specific price-time comparator.
package orderbook

import (
	"container/heap"

	"limitbook/domain"
)

// indexedHeap is a binary heap of *domain.Order ordered by less, augmented
// with a hash index from OrderID to heap slot. It is built on top of
// container/heap the way the wider matching-engine pack's OrderHeap types
// wrap heap.Interface — but the pack's plain version has no index, so
// Remove there falls back to a linear scan plus a full heap.Init. Here
// find/remove of an arbitrary order are O(1)/O(log n) instead, via
// heap.Remove(h, index).
type indexedHeap struct {
	orders []*domain.Order
	index  map[int64]int
	less   func(a, b *domain.Order) bool
}

func newIndexedHeap(less func(a, b *domain.Order) bool) *indexedHeap {
	return &indexedHeap{
		index: make(map[int64]int),
		less:  less,
	}
}

// heap.Interface

func (h *indexedHeap) Len() int { return len(h.orders) }

func (h *indexedHeap) Less(i, j int) bool { return h.less(h.orders[i], h.orders[j]) }

func (h *indexedHeap) Swap(i, j int) {
	h.orders[i], h.orders[j] = h.orders[j], h.orders[i]
	h.index[h.orders[i].OrderID] = i
	h.index[h.orders[j].OrderID] = j
}

func (h *indexedHeap) Push(x any) {
	o := x.(*domain.Order)
	h.index[o.OrderID] = len(h.orders)
	h.orders = append(h.orders, o)
}

func (h *indexedHeap) Pop() any {
	n := len(h.orders)
	o := h.orders[n-1]
	h.orders[n-1] = nil
	h.orders = h.orders[:n-1]
	delete(h.index, o.OrderID)
	return o
}

// Public contract (spec.md §4.1).

// push inserts order. Pre: no entry with order.OrderID already exists.
func (h *indexedHeap) push(order *domain.Order) {
	heap.Push(h, order)
}

// top returns the root, for reading or for decrementing Volume in place
// (spec.md §4.1's top_mut: any other field mutation would violate the heap
// invariant since the comparator depends on Price and Seq, not Volume).
// Pre: non-empty.
func (h *indexedHeap) top() *domain.Order {
	return h.orders[0]
}

// pop removes and returns the root.
func (h *indexedHeap) pop() *domain.Order {
	return heap.Pop(h).(*domain.Order)
}

// find returns the order with the given id, if resting in this heap.
func (h *indexedHeap) find(orderID int64) (*domain.Order, bool) {
	i, ok := h.index[orderID]
	if !ok {
		return nil, false
	}
	return h.orders[i], true
}

// remove removes the order with the given id, wherever it sits in the heap.
func (h *indexedHeap) remove(orderID int64) (*domain.Order, bool) {
	i, ok := h.index[orderID]
	if !ok {
		return nil, false
	}
	return heap.Remove(h, i).(*domain.Order), true
}

func (h *indexedHeap) len() int { return len(h.orders) }

func (h *indexedHeap) isEmpty() bool { return len(h.orders) == 0 }

// clone returns a shallow copy suitable for a destructive read (the
// snapshot fold pops its way through a copy, leaving the live heap and its
// orders untouched — spec.md §4.3.4 requires snapshot to be read-only).
func (h *indexedHeap) clone() *indexedHeap {
	orders := make([]*domain.Order, len(h.orders))
	copy(orders, h.orders)
	index := make(map[int64]int, len(h.index))
	for k, v := range h.index {
		index[k] = v
	}
	return &indexedHeap{orders: orders, index: index, less: h.less}
}
