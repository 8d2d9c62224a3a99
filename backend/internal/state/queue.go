package state

// Queue is an unbounded FIFO. The zero value is not usable; use NewQueue.
type Queue[T any] struct {
	items []T
}

// NewQueue creates an empty queue
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends item at the tail
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Pop removes and returns the oldest item
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the queue contents, oldest first
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// RemoveFunc drops every item for which match returns true and reports how
// many were removed. Relative order of the remaining items is kept.
func (q *Queue[T]) RemoveFunc(match func(T) bool) int {
	kept := make([]T, 0, len(q.items))
	for _, item := range q.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	removed := len(q.items) - len(kept)
	q.items = kept
	return removed
}
