// Package pqueue provides a generic binary min-heap used as the Dijkstra
// frontier.
package pqueue

import "errors"

// ErrEmptyQueue is returned by ExtractMin when the heap holds no items.
var ErrEmptyQueue = errors.New("extract from empty queue")

// Heap is a binary min-heap ordered by a three-way comparator.
// It has no decrease-key: callers push a fresh item when a priority improves
// and ignore the stale copies when they surface.
type Heap[T any] struct {
	items []T
	cmp   func(a, b T) int
}

// New creates an empty heap. cmp returns a negative number when a sorts
// before b, zero when they are equal and a positive number otherwise.
func New[T any](cmp func(a, b T) int) *Heap[T] {
	return &Heap[T]{cmp: cmp}
}

// NewWithCapacity is New with a preallocated backing array.
func NewWithCapacity[T any](cmp func(a, b T) int, capacity int) *Heap[T] {
	return &Heap[T]{items: make([]T, 0, capacity), cmp: cmp}
}

func (h *Heap[T]) Len() int { return len(h.items) }

func (h *Heap[T]) IsEmpty() bool { return len(h.items) == 0 }

// Push adds item and restores the heap property.
func (h *Heap[T]) Push(item T) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

// ExtractMin removes and returns the smallest item.
func (h *Heap[T]) ExtractMin() (T, error) {
	var zero T
	n := len(h.items)
	if n == 0 {
		return zero, ErrEmptyQueue
	}
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = zero // drop the reference for the GC
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item, nil
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.cmp(h.items[i], h.items[parent]) >= 0 {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.cmp(h.items[left], h.items[smallest]) < 0 {
			smallest = left
		}
		if right < n && h.cmp(h.items[right], h.items[smallest]) < 0 {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
