package seriesreader

// Direction is an immutable parameter fixing whether a SeriesReader emits
// timestamps in non-decreasing (Asc) or non-increasing (Desc) order. It is
// a sealed two-variant type: construct only via the Asc/Desc constants.
type Direction uint8

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// TimeStats is the minimal statistics surface OrderPolicy operates over:
// any tier item (file, chunk, or page) exposes at least a start/end
// timestamp range.
type TimeStats interface {
	StartTime() int64
	EndTime() int64
}

// OrderPolicy abstracts every direction-sensitive comparison so the
// OverlapPipeline is written once and reused for both directions, per
// spec §4.1 and the "Direction as a policy object" design note (§9): a
// single interface with Asc/Desc implementations, no boolean flags
// threaded through the pipeline.
type OrderPolicy interface {
	Direction() Direction

	// OrderTime returns the timestamp used to order unexplored peers in
	// a priority queue: StartTime under Asc, EndTime under Desc.
	OrderTime(s TimeStats) int64

	// OverlapCheckTime returns the trailing frontier of an item: the
	// furthest point it occupies in the direction of travel. EndTime
	// under Asc, StartTime under Desc.
	OverlapCheckTime(s TimeStats) int64

	// RangesOverlap reports whether left reaches into right, where right
	// is a peer ahead of left in the direction of travel: left.End >=
	// right.Start (Asc) / left.Start <= right.End (Desc). The other end
	// of the two ranges is not compared.
	RangesOverlap(left, right TimeStats) bool

	// TimeOverlapsRange reports whether a bare timestamp still falls
	// within (or past, towards, frontier) the given range: time >=
	// right.Start (Asc) / time <= right.End (Desc).
	TimeOverlapsRange(t int64, right TimeStats) bool

	// ClampFrontier shrinks (towards the current item) a running
	// frontier by a peer's range: min(current, stats.End) under Asc,
	// max(current, stats.Start) under Desc.
	ClampFrontier(current int64, stats TimeStats) int64

	// FrontierOfTwo is ClampFrontier generalized over two independent
	// ranges instead of a running scalar and one range.
	FrontierOfTwo(seq, unseq TimeStats) int64

	// Excess reports whether t has gone past frontier in the direction
	// of travel: t > frontier (Asc) / t < frontier (Desc).
	Excess(t, frontier int64) bool

	// PreferSeq tie-breaks which of two simultaneously-available
	// candidates becomes the tier's "first" item.
	PreferSeq(seq, unseq TimeStats) bool

	// Less orders two items by their OrderTime, used as the heap
	// comparator for priority queues keyed on this policy.
	Less(aTime, bTime int64) bool
}

type ascPolicy struct{}
type descPolicy struct{}

// NewOrderPolicy returns the OrderPolicy implementation for the given
// Direction.
func NewOrderPolicy(d Direction) OrderPolicy {
	if d == Desc {
		return descPolicy{}
	}
	return ascPolicy{}
}

func (ascPolicy) Direction() Direction { return Asc }

func (ascPolicy) OrderTime(s TimeStats) int64        { return s.StartTime() }
func (ascPolicy) OverlapCheckTime(s TimeStats) int64 { return s.EndTime() }

func (ascPolicy) RangesOverlap(left, right TimeStats) bool {
	return left.EndTime() >= right.StartTime()
}

func (ascPolicy) TimeOverlapsRange(t int64, right TimeStats) bool {
	return t >= right.StartTime()
}

func (ascPolicy) ClampFrontier(current int64, stats TimeStats) int64 {
	if stats.EndTime() < current {
		return stats.EndTime()
	}
	return current
}

func (ascPolicy) FrontierOfTwo(seq, unseq TimeStats) int64 {
	if seq == nil {
		return unseq.EndTime()
	}
	if unseq == nil {
		return seq.EndTime()
	}
	if seq.EndTime() < unseq.EndTime() {
		return seq.EndTime()
	}
	return unseq.EndTime()
}

func (ascPolicy) Excess(t, frontier int64) bool { return t > frontier }

func (ascPolicy) PreferSeq(seq, unseq TimeStats) bool {
	return seq.StartTime() < unseq.StartTime()
}

func (ascPolicy) Less(aTime, bTime int64) bool { return aTime < bTime }

func (descPolicy) Direction() Direction { return Desc }

func (descPolicy) OrderTime(s TimeStats) int64        { return s.EndTime() }
func (descPolicy) OverlapCheckTime(s TimeStats) int64 { return s.StartTime() }

func (descPolicy) RangesOverlap(left, right TimeStats) bool {
	return left.StartTime() <= right.EndTime()
}

func (descPolicy) TimeOverlapsRange(t int64, right TimeStats) bool {
	return t <= right.EndTime()
}

func (descPolicy) ClampFrontier(current int64, stats TimeStats) int64 {
	if stats.StartTime() > current {
		return stats.StartTime()
	}
	return current
}

func (descPolicy) FrontierOfTwo(seq, unseq TimeStats) int64 {
	if seq == nil {
		return unseq.StartTime()
	}
	if unseq == nil {
		return seq.StartTime()
	}
	if seq.StartTime() > unseq.StartTime() {
		return seq.StartTime()
	}
	return unseq.StartTime()
}

func (descPolicy) Excess(t, frontier int64) bool { return t < frontier }

func (descPolicy) PreferSeq(seq, unseq TimeStats) bool {
	return seq.EndTime() > unseq.EndTime()
}

func (descPolicy) Less(aTime, bTime int64) bool { return aTime > bTime }
