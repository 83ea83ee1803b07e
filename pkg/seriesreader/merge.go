package seriesreader

// mergeSource is one (BatchIterator, VersionKey, endFrontier) input to the
// PriorityMergeReader (§4.3).
type mergeSource struct {
	batch       *Batch
	version     VersionKey
	endFrontier int64
	hasCurrent  bool
}

func (s *mergeSource) advance() bool {
	s.hasCurrent = s.batch.Next()
	return s.hasCurrent
}

func (s *mergeSource) current() TimeValuePair { return s.batch.At() }

// PriorityMergeReader consumes any number of (BatchIterator, VersionKey,
// endFrontier) inputs and yields TimeValuePairs in direction-respecting
// timestamp order with version-based deduplication (§4.3). At equal
// timestamps the input with the largest VersionKey wins; every other
// input's entry at that timestamp is discarded (shadowing, invariant 5).
//
// Resolution of the current head is kept lazy and reversible:
// ensureResolved pulls every source tied at the minimal (Asc) / maximal
// (Desc) timestamp out of the heap into `pending`, but does not advance
// them until NextTimeValuePair is actually called. This is what lets
// AddReader stay correct even when the new input's first timestamp ties
// or precedes the already-peeked head (§4.3): it simply pushes any
// pending sources back onto the heap and invalidates the memoized
// resolution, so the next peek recomputes with the new input folded in.
type PriorityMergeReader struct {
	policy OrderPolicy
	queue  *priorityQueue[*mergeSource]

	pending    []*mergeSource
	resolved   *TimeValuePair
	pendingSet bool
}

// NewPriorityMergeReader constructs an empty merge reader for the given
// direction.
func NewPriorityMergeReader(policy OrderPolicy) *PriorityMergeReader {
	m := &PriorityMergeReader{policy: policy}
	m.queue = newPriorityQueue(func(a, b *mergeSource) bool {
		return policy.Less(a.current().Timestamp, b.current().Timestamp)
	})
	return m
}

// AddReader registers a new input. May be called at any time, including
// while a resolved pair is pending (§4.3's "may be called at any time"
// contract).
func (m *PriorityMergeReader) AddReader(batch *Batch, version VersionKey, endFrontier int64) {
	src := &mergeSource{batch: batch, version: version, endFrontier: endFrontier}
	if !src.advance() {
		return
	}
	m.invalidatePending()
	m.queue.push(src)
}

func (m *PriorityMergeReader) invalidatePending() {
	if !m.pendingSet {
		return
	}
	for _, p := range m.pending {
		m.queue.push(p)
	}
	m.pending = nil
	m.resolved = nil
	m.pendingSet = false
}

// ensureResolved pulls all sources tied at the current front timestamp out
// of the heap, determines the version-precedence winner among them, and
// memoizes the result without discarding the losers (they are only
// advanced past their shadowed entry once NextTimeValuePair is called).
func (m *PriorityMergeReader) ensureResolved() bool {
	if m.pendingSet {
		return true
	}
	top, ok := m.queue.pop()
	if !ok {
		return false
	}
	t := top.current().Timestamp
	winner := top.current().Value
	winnerVersion := top.version
	dup := []*mergeSource{top}

	for {
		next, ok := m.queue.peek()
		if !ok || next.current().Timestamp != t {
			break
		}
		next, _ = m.queue.pop()
		dup = append(dup, next)
		if winnerVersion.Less(next.version) {
			winner = next.current().Value
			winnerVersion = next.version
		}
	}

	m.pending = dup
	m.resolved = &TimeValuePair{Timestamp: t, Value: winner}
	m.pendingSet = true
	return true
}

// CurrentTimeValuePair peeks the next merged, shadowed pair without
// consuming it.
func (m *PriorityMergeReader) CurrentTimeValuePair() (TimeValuePair, bool) {
	if !m.ensureResolved() {
		return TimeValuePair{}, false
	}
	return *m.resolved, true
}

// HasNext reports whether the merger still has data.
func (m *PriorityMergeReader) HasNext() bool { return m.ensureResolved() }

// NextTimeValuePair consumes and returns the next merged, shadowed pair.
// Every input tied with the winner at this timestamp is advanced past its
// shadowed entry; inputs exhausted in the process are dropped.
func (m *PriorityMergeReader) NextTimeValuePair() (TimeValuePair, bool) {
	if !m.ensureResolved() {
		return TimeValuePair{}, false
	}
	result := *m.resolved
	for _, s := range m.pending {
		if s.advance() {
			m.queue.push(s)
		}
	}
	m.pending = nil
	m.resolved = nil
	m.pendingSet = false
	return result, true
}

// GetCurrentReadStopTime returns the minimum (Asc) / maximum (Desc)
// endFrontier across all still-live inputs: the furthest timestamp at
// which it is safe to emit without risking a later insertion invalidating
// an already-emitted value.
func (m *PriorityMergeReader) GetCurrentReadStopTime() (int64, bool) {
	have := false
	var best int64
	consider := func(f int64) {
		if !have {
			best, have = f, true
			return
		}
		if m.policy.Direction() == Asc {
			if f < best {
				best = f
			}
		} else if f > best {
			best = f
		}
	}
	for _, s := range m.queue.items {
		consider(s.endFrontier)
	}
	for _, s := range m.pending {
		consider(s.endFrontier)
	}
	if !have {
		return 0, false
	}
	return best, true
}

// Empty reports whether the merger holds no data at all (queue empty and
// no pending resolution outstanding).
func (m *PriorityMergeReader) Empty() bool {
	return m.queue.empty() && !m.pendingSet
}
