package seriesreader

// Batch is an ordered sequence of TimeValuePair with a declared type and
// direction (§3), exposing a sequential iterator via Next/At.
type Batch struct {
	DataType  string
	Direction Direction
	pairs     []TimeValuePair
	pos       int
}

// NewBatch constructs an empty batch for the given type and direction.
func NewBatch(dataType string, direction Direction) *Batch {
	return &Batch{DataType: dataType, Direction: direction, pos: -1}
}

// Len reports the number of pairs in the batch.
func (b *Batch) Len() int { return len(b.pairs) }

// Empty reports whether the batch carries no pairs.
func (b *Batch) Empty() bool { return len(b.pairs) == 0 }

// Next advances the batch's cursor, returning false once exhausted.
func (b *Batch) Next() bool {
	if b.pos+1 >= len(b.pairs) {
		return false
	}
	b.pos++
	return true
}

// At returns the pair at the current cursor position.
func (b *Batch) At() TimeValuePair { return b.pairs[b.pos] }

// append adds a pair at the tail of the underlying slice, irrespective of
// direction; used internally by BatchAssembler, which is responsible for
// ordering.
func (b *Batch) append(p TimeValuePair) { b.pairs = append(b.pairs, p) }

// BatchAssembler is a thin wrapper producing Batch values honoring
// Direction and value-filter push-down (§4.6). Its sole caller,
// buildOverlapBatch, drains PriorityMergeReader.NextTimeValuePair in
// direction order already (the merge heap's own comparator is
// Direction-aware), so Append's arrival order is already monotone in
// Direction -- Build need only finalize the cursor, never reorder.
type BatchAssembler struct {
	dataType  string
	direction Direction
	filter    ValueFilter
	batch     *Batch
}

// NewBatchAssembler constructs an assembler for the given type/direction,
// with an optional value filter. The filter is applied here, to pairs the
// merge has already resolved by VersionKey, rather than pushed into the
// decoders of overlapped pages, which are realized unfiltered.
func NewBatchAssembler(dataType string, direction Direction, filter ValueFilter) *BatchAssembler {
	return &BatchAssembler{
		dataType:  dataType,
		direction: direction,
		filter:    filter,
		batch:     NewBatch(dataType, direction),
	}
}

// Append adds a pair if it passes the pushed-down filter (when set).
// Returns true if the pair was kept.
func (a *BatchAssembler) Append(p TimeValuePair) bool {
	if a.filter != nil && !a.filter.Satisfies(p.Value) {
		return false
	}
	a.batch.append(p)
	return true
}

// Len reports how many pairs have been appended so far.
func (a *BatchAssembler) Len() int { return a.batch.Len() }

// Build finalizes the batch, resetting its cursor to the head. Appended
// pairs are already in Direction order; Build does not reorder them.
func (a *BatchAssembler) Build() *Batch {
	a.batch.pos = -1
	return a.batch
}

// FromPageDirect wraps a fully-decoded, non-overlapped page batch with
// filter push-down already applied by the decoder itself (§6: "valueFilter
// ... pushed down only to non-overlapped pages"). It exists so nextPage
// can return the decoder's own Batch without a redundant copy.
func FromPageDirect(b *Batch) *Batch {
	b.pos = -1
	return b
}
