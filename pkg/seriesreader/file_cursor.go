package seriesreader

import (
	"context"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	util_log "github.com/wolfboys/iotdb/internal/util/log"
)

// LazyFileCursor holds the two file lists for one series (§4.4).
// Sequential files are kept in their inherent order and consumed from one
// end according to Direction; unsequential files are kept in a priority
// queue keyed by OrderPolicy.OrderTime, since ties and interleavings among
// them are common.
type LazyFileCursor struct {
	seriesIdentity string
	loader         MetadataLoader
	timeFilter     TimeFilter
	allSiblings    []string
	policy         OrderPolicy
	logger         kitlog.Logger

	seq   []*fileCandidate
	unseq *priorityQueue[*fileCandidate]
}

// NewLazyFileCursor resolves each file's range for seriesIdentity (a
// lightweight Range() lookup, not a full metadata load) and builds the
// seq list / unseq priority queue. Files whose range lookup reports the
// series absent are dropped immediately.
func NewLazyFileCursor(
	seriesIdentity string,
	loader MetadataLoader,
	timeFilter TimeFilter,
	allSiblings []string,
	policy OrderPolicy,
	seqFiles, unseqFiles []FileResource,
) *LazyFileCursor {
	c := &LazyFileCursor{
		seriesIdentity: seriesIdentity,
		loader:         loader,
		timeFilter:     timeFilter,
		allSiblings:    allSiblings,
		policy:         policy,
		logger:         util_log.WithContext("series", seriesIdentity),
	}
	c.unseq = newPriorityQueue(func(a, b *fileCandidate) bool {
		return policy.Less(policy.OrderTime(a), policy.OrderTime(b))
	})

	for _, f := range seqFiles {
		if cand := resolveCandidate(f, seriesIdentity, true); cand != nil {
			c.seq = append(c.seq, cand)
		}
	}
	for _, f := range unseqFiles {
		if cand := resolveCandidate(f, seriesIdentity, false); cand != nil {
			c.unseq.push(cand)
		}
	}
	return c
}

func resolveCandidate(f FileResource, seriesIdentity string, isSeq bool) *fileCandidate {
	start, end, modified, ok := f.Range(seriesIdentity)
	if !ok {
		return nil
	}
	return &fileCandidate{resource: f, start: start, end: end, modified: modified, isSeq: isSeq}
}

// PeekFrontSeq inspects the direction-correct end of the sequential file
// list without consuming it: front under Asc, back under Desc.
func (c *LazyFileCursor) PeekFrontSeq() (*fileCandidate, bool) {
	if len(c.seq) == 0 {
		return nil, false
	}
	if c.policy.Direction() == Asc {
		return c.seq[0], true
	}
	return c.seq[len(c.seq)-1], true
}

// PeekFrontUnseq inspects the unsequential priority queue's front without
// consuming it.
func (c *LazyFileCursor) PeekFrontUnseq() (*fileCandidate, bool) {
	return c.unseq.peek()
}

func (c *LazyFileCursor) popFrontSeq() (*fileCandidate, bool) {
	if len(c.seq) == 0 {
		return nil, false
	}
	if c.policy.Direction() == Asc {
		v := c.seq[0]
		c.seq = c.seq[1:]
		return v, true
	}
	n := len(c.seq) - 1
	v := c.seq[n]
	c.seq = c.seq[:n]
	return v, true
}

// LoadFront loads the front file's per-series metadata (consuming it from
// the corresponding list/queue). If the series turns out absent in that
// file (a race against the lightweight Range() check, or a loader that
// applies a narrower filter), the file is dropped and the next one is
// tried, per §4.4. Unsequential metadata is unconditionally tagged
// Modified=true (see the Open Question in DESIGN.md): this is the cheap
// correctness shield against deletions inside unseq data, not a bug.
func (c *LazyFileCursor) LoadFront(ctx context.Context, isSeq bool) (*SeriesMetadata, error) {
	for {
		var cand *fileCandidate
		var ok bool
		if isSeq {
			cand, ok = c.popFrontSeq()
		} else {
			cand, ok = c.unseq.pop()
		}
		if !ok {
			return nil, nil
		}

		meta, err := c.loader.LoadSeriesMetadata(ctx, cand.resource, c.seriesIdentity, c.timeFilter, c.allSiblings)
		if err != nil {
			level.Error(c.logger).Log("msg", "load series metadata failed", "isSeq", isSeq, "err", err)
			return nil, newLoadError("load series metadata", err)
		}
		if meta == nil {
			continue
		}
		meta.IsSeq = isSeq
		if !isSeq {
			meta.Modified = true
		} else {
			meta.Modified = meta.Modified || cand.modified
		}
		return meta, nil
	}
}

func (c *LazyFileCursor) seqEmpty() bool   { return len(c.seq) == 0 }
func (c *LazyFileCursor) unseqEmpty() bool { return c.unseq.empty() }
