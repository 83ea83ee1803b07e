package seriesreader

import "container/heap"

// priorityQueue is the single generic heap backing every priority queue in
// this package (the unsequential file queue, chunkPool, the unsequential
// page pool, and the PriorityMergeReader's cursor heap). Per spec §9 ("a
// single generic heap with a Direction-parametric comparator suffices; do
// not duplicate ASC/DESC heaps"), direction-sensitivity and any secondary
// tie-break (e.g. VersionKey) live entirely in the `less` closure supplied
// at construction — the heap mechanics never vary. Grounded on the
// Mimir/Cortex `iteratorHeap` (container/heap-based merge heap) pattern in
// pkg/querier/batch/merge.go (see DESIGN.md).
type priorityQueue[T any] struct {
	items []T
	less  func(a, b T) bool
}

func newPriorityQueue[T any](less func(a, b T) bool) *priorityQueue[T] {
	return &priorityQueue[T]{less: less}
}

func (q *priorityQueue[T]) Len() int           { return len(q.items) }
func (q *priorityQueue[T]) Less(i, j int) bool  { return q.less(q.items[i], q.items[j]) }
func (q *priorityQueue[T]) Swap(i, j int)       { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *priorityQueue[T]) Push(x interface{})  { q.items = append(q.items, x.(T)) }
func (q *priorityQueue[T]) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	q.items = old[:n-1]
	return it
}

// push inserts v, maintaining the heap invariant.
func (q *priorityQueue[T]) push(v T) { heap.Push(q, v) }

// peek returns the front item without removing it.
func (q *priorityQueue[T]) peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// pop removes and returns the front item.
func (q *priorityQueue[T]) pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := heap.Pop(q)
	return v.(T), true
}

func (q *priorityQueue[T]) empty() bool { return len(q.items) == 0 }
