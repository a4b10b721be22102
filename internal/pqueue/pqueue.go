// Package pqueue implements a generic binary min-heap ordered by a caller
// supplied comparator.
package pqueue

import "container/heap"

// item is the heap element; seq records the insertion order and breaks ties
// between elements the comparator reports as equal.
type item[T any] struct {
	value T
	seq   uint64
}

// items implements the heap.Interface.
type items[T any] struct {
	elements []item[T]
	less     func(a, b T) bool
}

// Len returns the number of items.
func (h *items[T]) Len() int { return len(h.elements) }

// Less is the items less comparator.
func (h *items[T]) Less(i, j int) bool {
	a, b := h.elements[i], h.elements[j]
	if h.less(a.value, b.value) {
		return true
	}
	if h.less(b.value, a.value) {
		return false
	}
	return a.seq < b.seq
}

// Swap exchanges the indexes of the items.
func (h *items[T]) Swap(i, j int) {
	h.elements[i], h.elements[j] = h.elements[j], h.elements[i]
}

// Push implements the heap.Interface.Push.
// Adds x as element Len().
func (h *items[T]) Push(x any) {
	h.elements = append(h.elements, x.(item[T]))
}

// Pop implements the heap.Interface.Pop.
// Removes and returns element Len() - 1.
func (h *items[T]) Pop() any {
	old := h.elements
	n := len(old)
	it := old[n-1]
	var zero item[T]
	old[n-1] = zero // release the reference
	h.elements = old[0 : n-1]
	return it
}

// Queue is a min-priority queue. The zero value is not usable, use New.
// Queue is not safe for concurrent use.
type Queue[T any] struct {
	heap *items[T]
	seq  uint64
}

// New returns an empty Queue ordered by less.
func New[T any](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{
		heap: &items[T]{less: less},
	}
}

// Push inserts the value into the queue.
func (q *Queue[T]) Push(value T) {
	q.seq++
	heap.Push(q.heap, item[T]{value: value, seq: q.seq})
}

// Peek returns the minimum value without removing it.
// The second return value is false if the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.heap.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.heap.elements[0].value, true
}

// Pop removes and returns the minimum value.
// The second return value is false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	if q.heap.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(q.heap).(item[T]).value, true
}

// Len returns the number of values in the queue.
func (q *Queue[T]) Len() int {
	return q.heap.Len()
}
