package seriesreader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type statsRange struct{ start, end int64 }

func (r statsRange) StartTime() int64 { return r.start }
func (r statsRange) EndTime() int64   { return r.end }

func TestOrderPolicy_Asc(t *testing.T) {
	p := NewOrderPolicy(Asc)
	r := statsRange{start: 10, end: 20}

	assert.Equal(t, Asc, p.Direction())
	assert.Equal(t, int64(10), p.OrderTime(r))
	assert.Equal(t, int64(20), p.OverlapCheckTime(r))
	assert.True(t, p.RangesOverlap(statsRange{0, 10}, statsRange{10, 30}))
	assert.False(t, p.RangesOverlap(statsRange{0, 9}, statsRange{10, 30}))
	assert.True(t, p.TimeOverlapsRange(10, r))
	assert.False(t, p.TimeOverlapsRange(9, r))
	assert.Equal(t, int64(15), p.ClampFrontier(30, statsRange{0, 15}))
	assert.Equal(t, int64(15), p.ClampFrontier(15, statsRange{0, 30}))
	assert.Equal(t, int64(15), p.FrontierOfTwo(statsRange{0, 30}, statsRange{0, 15}))
	assert.True(t, p.Excess(21, 20))
	assert.False(t, p.Excess(20, 20))
	assert.True(t, p.PreferSeq(statsRange{start: 5}, statsRange{start: 10}))
	assert.True(t, p.Less(1, 2))
}

func TestOrderPolicy_Desc(t *testing.T) {
	p := NewOrderPolicy(Desc)
	r := statsRange{start: 10, end: 20}

	assert.Equal(t, Desc, p.Direction())
	assert.Equal(t, int64(20), p.OrderTime(r))
	assert.Equal(t, int64(10), p.OverlapCheckTime(r))
	assert.True(t, p.RangesOverlap(statsRange{10, 30}, statsRange{0, 10}))
	assert.False(t, p.RangesOverlap(statsRange{11, 30}, statsRange{0, 10}))
	assert.True(t, p.TimeOverlapsRange(20, r))
	assert.False(t, p.TimeOverlapsRange(21, r))
	assert.Equal(t, int64(15), p.ClampFrontier(0, statsRange{15, 30}))
	assert.Equal(t, int64(15), p.ClampFrontier(15, statsRange{0, 30}))
	assert.Equal(t, int64(15), p.FrontierOfTwo(statsRange{0, 30}, statsRange{15, 30}))
	assert.True(t, p.Excess(9, 10))
	assert.False(t, p.Excess(10, 10))
	assert.True(t, p.PreferSeq(statsRange{end: 10}, statsRange{end: 5}))
	assert.True(t, p.Less(2, 1))
}

func TestVersionKey_Less(t *testing.T) {
	a := VersionKey{FileVersion: 1, ChunkOffset: 100}
	b := VersionKey{FileVersion: 1, ChunkOffset: 200}
	c := VersionKey{FileVersion: 2, ChunkOffset: 0}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, b.Less(c))
}
