package seriesreader

import "github.com/pkg/errors"

// prioritizedPageCursor wraps one PageDecoder with the VersionKey and
// isSeq tag it was loaded with (§4.2). Emit is single-use: once called,
// the cursor is spent and must be discarded.
type prioritizedPageCursor struct {
	decoder  PageDecoder
	version  VersionKey
	isSeq    bool
	modified bool
	stats    Stats

	emitted bool
}

func newPrioritizedPageCursor(decoder PageDecoder, version VersionKey, isSeq, modified bool) *prioritizedPageCursor {
	return &prioritizedPageCursor{
		decoder:  decoder,
		version:  version,
		isSeq:    isSeq,
		modified: modified,
		stats:    decoder.Statistics(),
	}
}

func (c *prioritizedPageCursor) StartTime() int64 { return c.stats.StartTime() }
func (c *prioritizedPageCursor) EndTime() int64   { return c.stats.EndTime() }

func (c *prioritizedPageCursor) statistics() Stats { return c.stats }

func (c *prioritizedPageCursor) isModified() bool { return c.modified }

// emit fully realizes the page as a Batch honoring an optional pushed-down
// value filter. Must be called at most once.
func (c *prioritizedPageCursor) emit(direction Direction, filter ValueFilter) (*Batch, error) {
	if c.emitted {
		return nil, errors.New("prioritizedPageCursor: emit called more than once")
	}
	c.emitted = true
	if filter != nil {
		c.decoder.SetFilter(filter)
	}
	b, err := c.decoder.AllSatisfiedData(direction)
	if err != nil {
		return nil, newLoadError("realize page", err)
	}
	return b, nil
}
