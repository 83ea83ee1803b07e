package seriesreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch_NextAt(t *testing.T) {
	b := NewBatch("fake", Asc)
	b.append(tv(1, 1.0))
	b.append(tv(2, 2.0))

	assert.True(t, b.Next())
	assert.Equal(t, tv(1, 1.0), b.At())
	assert.True(t, b.Next())
	assert.Equal(t, tv(2, 2.0), b.At())
	assert.False(t, b.Next())
}

func TestBatchAssembler_AscPreservesOrder(t *testing.T) {
	a := NewBatchAssembler("fake", Asc, nil)
	assert.True(t, a.Append(tv(1, 1.0)))
	assert.True(t, a.Append(tv(2, 2.0)))

	b := a.Build()
	assert.Equal(t, []TimeValuePair{tv(1, 1.0), tv(2, 2.0)}, batchPairs(b))
}

func TestBatchAssembler_DescPreservesArrivalOrder(t *testing.T) {
	a := NewBatchAssembler("fake", Desc, nil)
	// A Desc merge reader's NextTimeValuePair already yields
	// largest-timestamp-first; Build must leave that arrival order alone.
	a.Append(tv(2, 2.0))
	a.Append(tv(1, 1.0))

	b := a.Build()
	assert.Equal(t, []TimeValuePair{tv(2, 2.0), tv(1, 1.0)}, batchPairs(b))
}

func TestBatchAssembler_FilterPushDown(t *testing.T) {
	a := NewBatchAssembler("fake", Asc, minValueFilter{min: 2.0})
	assert.False(t, a.Append(tv(1, 1.0)))
	assert.True(t, a.Append(tv(2, 2.0)))
	assert.Equal(t, 1, a.Len())
}

func TestFromPageDirect_ResetsCursor(t *testing.T) {
	b := NewBatch("fake", Asc)
	b.append(tv(1, 1.0))
	b.Next()
	b.At()

	reset := FromPageDirect(b)
	assert.True(t, reset.Next())
	assert.Equal(t, tv(1, 1.0), reset.At())
}
