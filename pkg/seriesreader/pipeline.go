package seriesreader

import (
	"context"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	util_log "github.com/wolfboys/iotdb/internal/util/log"
)

// OverlapPipeline is the heart of the reader (§4.5): it cascades lazy
// unpacking across the file, chunk and page tiers, descending only as far
// as each hasNext* call demands, and constructs "overlap batches" by
// feeding overlapping page cursors through a PriorityMergeReader while
// everything that is not overlapped is left untouched for nextPage to
// realize directly.
//
// Grounded on the top-level loop shape of nextBatch() in the teacher's
// pkg/storage/batch.go: pop the next candidate, clip the working boundary
// to the next unexplored peer, fold in anything found to overlap, repeat.
// That shape is generalized here from one flat tier (chunks) to four
// nested tiers (file/chunk/page/point), per §4.5 and the "cyclic coupling
// between tiers" note in §9.
type OverlapPipeline struct {
	ctx         context.Context
	loader      MetadataLoader
	policy      OrderPolicy
	direction   Direction
	dataType    string
	timeFilter  TimeFilter
	valueFilter ValueFilter
	counters    *queryCounters
	logger      kitlog.Logger

	files *LazyFileCursor

	seqMeta   []*SeriesMetadata
	unseqMeta *priorityQueue[*SeriesMetadata]
	firstFile *SeriesMetadata

	chunkPool  *priorityQueue[*ChunkMetadata]
	firstChunk *ChunkMetadata

	seqPages   []*prioritizedPageCursor
	unseqPages *priorityQueue[*prioritizedPageCursor]
	firstPage  *prioritizedPageCursor

	merger      *PriorityMergeReader
	cachedBatch *Batch
}

// NewOverlapPipeline constructs the pipeline for one series (§6). fileFilter,
// if non-nil, is applied once here, before any per-series metadata is loaded.
func NewOverlapPipeline(
	ctx context.Context,
	loader MetadataLoader,
	seriesIdentity string,
	allSiblings []string,
	dataType string,
	direction Direction,
	seqFiles, unseqFiles []FileResource,
	timeFilter TimeFilter,
	valueFilter ValueFilter,
	fileFilter FileFilter,
	counters *queryCounters,
) *OverlapPipeline {
	if fileFilter != nil {
		seqFiles = filterFiles(seqFiles, fileFilter)
		unseqFiles = filterFiles(unseqFiles, fileFilter)
	}
	policy := NewOrderPolicy(direction)

	p := &OverlapPipeline{
		ctx:         ctx,
		loader:      loader,
		policy:      policy,
		direction:   direction,
		dataType:    dataType,
		timeFilter:  timeFilter,
		valueFilter: valueFilter,
		counters:    counters,
		logger:      util_log.WithContext("series", seriesIdentity, "direction", direction),
		files:       NewLazyFileCursor(seriesIdentity, loader, timeFilter, allSiblings, policy, seqFiles, unseqFiles),
	}
	p.unseqMeta = newPriorityQueue(func(a, b *SeriesMetadata) bool {
		return policy.Less(policy.OrderTime(a), policy.OrderTime(b))
	})
	p.chunkPool = newPriorityQueue(func(a, b *ChunkMetadata) bool {
		return policy.Less(policy.OrderTime(a), policy.OrderTime(b))
	})
	p.unseqPages = newPriorityQueue(func(a, b *prioritizedPageCursor) bool {
		return policy.Less(policy.OrderTime(a), policy.OrderTime(b))
	})
	p.merger = NewPriorityMergeReader(policy)
	return p
}

func filterFiles(files []FileResource, keep FileFilter) []FileResource {
	out := make([]FileResource, 0, len(files))
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (p *OverlapPipeline) checkCancelled() error {
	if err := p.ctx.Err(); err != nil {
		level.Debug(p.logger).Log("msg", "cancellation observed", "err", err)
		return newCancelled(err.Error())
	}
	return nil
}

func (p *OverlapPipeline) chunkTierEmpty() bool {
	return p.chunkPool.empty() && p.firstChunk == nil
}

func (p *OverlapPipeline) pageTierEmpty() bool {
	return len(p.seqPages) == 0 && p.unseqPages.empty() && p.firstPage == nil &&
		p.merger.Empty() && p.cachedBatch == nil
}

// IsEmpty reports whether the pipeline holds no outstanding work at any
// tier (invariant P3).
func (p *OverlapPipeline) IsEmpty() bool {
	return p.firstFile == nil && p.chunkTierEmpty() && p.pageTierEmpty() &&
		len(p.seqMeta) == 0 && p.unseqMeta.empty() &&
		p.files.seqEmpty() && p.files.unseqEmpty()
}

// --- file tier (§4.5.1) ---

func (p *OverlapPipeline) fillMetaCandidates() error {
	if len(p.seqMeta) == 0 {
		meta, err := p.files.LoadFront(p.ctx, true)
		if err != nil {
			return err
		}
		if meta != nil {
			p.seqMeta = pushBack(p.seqMeta, meta, p.direction)
		}
	}
	if p.unseqMeta.empty() {
		meta, err := p.files.LoadFront(p.ctx, false)
		if err != nil {
			return err
		}
		if meta != nil {
			p.unseqMeta.push(meta)
		}
	}
	return nil
}

// cascadeFilesToMeta unpacks every seq/unseq file whose range still
// overlaps frontier into the corresponding metadata buffer (§4.5.4,
// "files -> metadata").
func (p *OverlapPipeline) cascadeFilesToMeta(frontier int64) error {
	for {
		cand, ok := p.files.PeekFrontUnseq()
		if !ok || !p.policy.TimeOverlapsRange(frontier, cand) {
			break
		}
		meta, err := p.files.LoadFront(p.ctx, false)
		if err != nil {
			return err
		}
		if meta == nil {
			break
		}
		p.unseqMeta.push(meta)
	}
	for {
		cand, ok := p.files.PeekFrontSeq()
		if !ok || !p.policy.TimeOverlapsRange(frontier, cand) {
			break
		}
		meta, err := p.files.LoadFront(p.ctx, true)
		if err != nil {
			return err
		}
		if meta == nil {
			break
		}
		p.seqMeta = pushBack(p.seqMeta, meta, p.direction)
	}
	return nil
}

// HasNextFile implements hasNextFile (§4.5.1). Requires the chunk and page
// tiers to be empty.
func (p *OverlapPipeline) HasNextFile() (bool, error) {
	if err := p.checkCancelled(); err != nil {
		return false, err
	}
	if !p.chunkTierEmpty() || !p.pageTierEmpty() {
		return false, newProtocolMisuse("hasNextFile called with residual chunk/page data")
	}
	if p.firstFile != nil {
		return true, nil
	}

	if err := p.fillMetaCandidates(); err != nil {
		return false, err
	}

	seqCand, seqOK := peekFront(p.seqMeta, p.direction)
	unseqCand, unseqOK := p.unseqMeta.peek()
	if !seqOK && !unseqOK {
		return false, nil
	}

	var frontier int64
	switch {
	case seqOK && unseqOK:
		frontier = p.policy.FrontierOfTwo(seqCand, unseqCand)
	case seqOK:
		frontier = p.policy.OverlapCheckTime(seqCand)
	default:
		frontier = p.policy.OverlapCheckTime(unseqCand)
	}

	if err := p.cascadeFilesToMeta(frontier); err != nil {
		return false, err
	}

	seqCand, seqOK = peekFront(p.seqMeta, p.direction)
	unseqCand, unseqOK = p.unseqMeta.peek()

	switch {
	case seqOK && unseqOK:
		if p.policy.PreferSeq(seqCand, unseqCand) {
			p.firstFile, _ = popFront(&p.seqMeta, p.direction)
		} else {
			p.firstFile, _ = p.unseqMeta.pop()
		}
	case seqOK:
		p.firstFile, _ = popFront(&p.seqMeta, p.direction)
	case unseqOK:
		p.firstFile, _ = p.unseqMeta.pop()
	}
	return p.firstFile != nil, nil
}

func (p *OverlapPipeline) CurrentFileStatistics() (Stats, bool) {
	if p.firstFile == nil {
		return Stats{}, false
	}
	return p.firstFile.Stats, true
}

func (p *OverlapPipeline) CurrentFileModified() bool {
	return p.firstFile != nil && p.firstFile.Modified
}

// SkipCurrentFile discards the current file without exploding it into
// chunks.
func (p *OverlapPipeline) SkipCurrentFile() {
	p.firstFile = nil
}

// IsFileOverlapped reports whether the current file overlaps either
// buffer's front candidate, by analogy with isPageOverlapped (§4.5.3).
func (p *OverlapPipeline) IsFileOverlapped() (bool, error) {
	if p.firstFile == nil {
		return false, newProtocolMisuse("isFileOverlapped called with no current file")
	}
	if cand, ok := peekFront(p.seqMeta, p.direction); ok && p.policy.RangesOverlap(p.firstFile, cand) {
		return true, nil
	}
	if cand, ok := p.unseqMeta.peek(); ok && p.policy.RangesOverlap(p.firstFile, cand) {
		return true, nil
	}
	return false, nil
}

// --- chunk tier (§4.5.2) ---

func (p *OverlapPipeline) explodeSeriesIntoChunks(meta *SeriesMetadata) error {
	chunks, err := p.loader.LoadChunkList(p.ctx, meta)
	if err != nil {
		level.Error(p.logger).Log("msg", "load chunk list failed", "isSeq", meta.IsSeq, "err", err)
		return newLoadError("load chunk list", err)
	}
	for _, c := range chunks {
		c.IsSeq = meta.IsSeq
		c.Modified = c.Modified || meta.Modified
		p.chunkPool.push(c)
		p.counters.addChunk()
	}
	return nil
}

// cascadeMetaToChunks unpacks every metadata entry overlapping frontier
// into the chunkPool, including firstFile itself if it is still set and
// overlaps (§4.5.4, "metadata -> chunks").
func (p *OverlapPipeline) cascadeMetaToChunks(frontier int64) error {
	if p.firstFile != nil && p.policy.TimeOverlapsRange(frontier, p.firstFile) {
		ff := p.firstFile
		p.firstFile = nil
		if err := p.explodeSeriesIntoChunks(ff); err != nil {
			return err
		}
	}
	for {
		cand, ok := peekFront(p.seqMeta, p.direction)
		if !ok || !p.policy.TimeOverlapsRange(frontier, cand) {
			break
		}
		meta, _ := popFront(&p.seqMeta, p.direction)
		if err := p.explodeSeriesIntoChunks(meta); err != nil {
			return err
		}
	}
	for {
		cand, ok := p.unseqMeta.peek()
		if !ok || !p.policy.TimeOverlapsRange(frontier, cand) {
			break
		}
		meta, _ := p.unseqMeta.pop()
		if err := p.explodeSeriesIntoChunks(meta); err != nil {
			return err
		}
	}
	return nil
}

// HasNextChunk implements hasNextChunk (§4.5.2): either an initial descent
// from the file tier (firstFile still set), or a continuation after the
// page tier has fully drained (firstFile already cleared).
func (p *OverlapPipeline) HasNextChunk() (bool, error) {
	if err := p.checkCancelled(); err != nil {
		return false, err
	}
	if !p.pageTierEmpty() {
		return false, newProtocolMisuse("hasNextChunk called with residual page data")
	}
	if p.firstChunk != nil {
		return true, nil
	}

	var frontier int64
	if p.firstFile != nil {
		frontier = p.policy.OverlapCheckTime(p.firstFile)
	} else {
		fc, ok := p.chunkPool.pop()
		if !ok {
			return false, nil
		}
		p.firstChunk = fc
		frontier = p.policy.OverlapCheckTime(fc)
	}

	if err := p.cascadeFilesToMeta(frontier); err != nil {
		return false, err
	}
	if err := p.cascadeMetaToChunks(frontier); err != nil {
		return false, err
	}

	if p.firstChunk == nil {
		if fc, ok := p.chunkPool.pop(); ok {
			p.firstChunk = fc
		}
	}
	return p.firstChunk != nil, nil
}

func (p *OverlapPipeline) CurrentChunkStatistics() (Stats, bool) {
	if p.firstChunk == nil {
		return Stats{}, false
	}
	return p.firstChunk.Stats, true
}

func (p *OverlapPipeline) CurrentChunkModified() bool {
	return p.firstChunk != nil && p.firstChunk.Modified
}

func (p *OverlapPipeline) SkipCurrentChunk() {
	p.firstChunk = nil
}

func (p *OverlapPipeline) IsChunkOverlapped() (bool, error) {
	if p.firstChunk == nil {
		return false, newProtocolMisuse("isChunkOverlapped called with no current chunk")
	}
	if cand, ok := p.chunkPool.peek(); ok && p.policy.RangesOverlap(p.firstChunk, cand) {
		return true, nil
	}
	return false, nil
}

// --- page tier (§4.5.3) ---

func (p *OverlapPipeline) explodeChunkIntoPages(c *ChunkMetadata) error {
	decoders, err := p.loader.LoadPageList(p.ctx, c, p.timeFilter)
	if err != nil {
		level.Error(p.logger).Log("msg", "load page list failed", "isSeq", c.IsSeq, "err", err)
		return newLoadError("load page list", err)
	}
	cursors := make([]*prioritizedPageCursor, 0, len(decoders))
	for _, d := range decoders {
		cursors = append(cursors, newPrioritizedPageCursor(d, c.Version, c.IsSeq, c.Modified))
	}
	if c.IsSeq {
		p.seqPages = pushBackMany(p.seqPages, cursors, p.direction)
	} else {
		for _, pc := range cursors {
			p.unseqPages.push(pc)
		}
	}
	return nil
}

// cascadeChunksToPages unpacks every chunk overlapping frontier into page
// cursors, including firstChunk itself if still set (§4.5.4, "chunks ->
// pages").
func (p *OverlapPipeline) cascadeChunksToPages(frontier int64) error {
	if p.firstChunk != nil && p.policy.TimeOverlapsRange(frontier, p.firstChunk) {
		fc := p.firstChunk
		p.firstChunk = nil
		if err := p.explodeChunkIntoPages(fc); err != nil {
			return err
		}
	}
	for {
		cand, ok := p.chunkPool.peek()
		if !ok || !p.policy.TimeOverlapsRange(frontier, cand) {
			break
		}
		c, _ := p.chunkPool.pop()
		if err := p.explodeChunkIntoPages(c); err != nil {
			return err
		}
	}
	return nil
}

// cascade runs the full files -> metadata -> chunks -> pages descent at
// frontier, in that strict order (§4.5.4).
func (p *OverlapPipeline) cascade(frontier int64) error {
	level.Debug(p.logger).Log("msg", "cascade", "frontier", frontier)
	if err := p.cascadeFilesToMeta(frontier); err != nil {
		return err
	}
	if err := p.cascadeMetaToChunks(frontier); err != nil {
		return err
	}
	if err := p.cascadeChunksToPages(frontier); err != nil {
		return err
	}
	return nil
}

// constructFirstPage implements §4.5.3 step 4: if firstChunk is still set,
// cascade it into page cursors first; then always pick firstPage from the
// page pool (preferSeq tie-break) and cascade further at its own frontier.
func (p *OverlapPipeline) constructFirstPage() error {
	if p.firstPage != nil {
		return nil
	}
	if p.firstChunk != nil {
		frontier := p.policy.OverlapCheckTime(p.firstChunk)
		if err := p.cascadeChunksToPages(frontier); err != nil {
			return err
		}
	}

	seqCand, seqOK := peekFront(p.seqPages, p.direction)
	unseqCand, unseqOK := p.unseqPages.peek()
	if !seqOK && !unseqOK {
		return nil
	}

	var pick *prioritizedPageCursor
	switch {
	case seqOK && unseqOK:
		if p.policy.PreferSeq(seqCand, unseqCand) {
			pick, _ = popFront(&p.seqPages, p.direction)
		} else {
			pick, _ = p.unseqPages.pop()
		}
	case seqOK:
		pick, _ = popFront(&p.seqPages, p.direction)
	default:
		pick, _ = p.unseqPages.pop()
	}
	p.firstPage = pick

	return p.cascade(p.policy.OverlapCheckTime(pick))
}

// firstPageOverlapsAnyPeer implements §4.5.3 step 5's overlap check, which
// decides whether buildOverlapBatch must run before firstPage can be
// delivered directly. The merge-reader comparison is a literal strict `>`
// against firstPage's start time regardless of direction -- see the Open
// Question note in DESIGN.md; it is not run through Excess/policy because
// the spec states it asymmetrically.
func (p *OverlapPipeline) firstPageOverlapsAnyPeer() bool {
	if p.firstPage == nil {
		return false
	}
	if cand, ok := peekFront(p.seqPages, p.direction); ok && p.policy.RangesOverlap(p.firstPage, cand) {
		return true
	}
	if cand, ok := p.unseqPages.peek(); ok && p.policy.RangesOverlap(p.firstPage, cand) {
		return true
	}
	if p.merger.HasNext() {
		head, _ := p.merger.CurrentTimeValuePair()
		if head.Timestamp > p.firstPage.StartTime() {
			return true
		}
	}
	return false
}

// HasNextPage implements hasNextPage (§4.5.3).
func (p *OverlapPipeline) HasNextPage() (bool, error) {
	if err := p.checkCancelled(); err != nil {
		return false, err
	}

	if p.cachedBatch != nil {
		return true, nil
	}

	if !p.merger.Empty() {
		b, err := p.buildOverlapBatch()
		if err != nil {
			return false, err
		}
		if b != nil && !b.Empty() {
			p.cachedBatch = b
			return true, nil
		}
	}

	if p.firstPage != nil {
		if !p.firstPageOverlapsAnyPeer() {
			return true, nil
		}
		b, err := p.buildOverlapBatch()
		if err != nil {
			return false, err
		}
		if b != nil && !b.Empty() {
			p.cachedBatch = b
			return true, nil
		}
		if p.firstPage != nil {
			return true, nil
		}
	}

	for {
		if err := p.constructFirstPage(); err != nil {
			return false, err
		}
		if p.firstPage == nil {
			return false, nil
		}
		if !p.firstPageOverlapsAnyPeer() {
			return true, nil
		}
		b, err := p.buildOverlapBatch()
		if err != nil {
			return false, err
		}
		if b != nil && !b.Empty() {
			p.cachedBatch = b
			return true, nil
		}
		if p.firstPage != nil {
			return true, nil
		}
		// firstPage was absorbed into the merger and the pass produced
		// nothing yet; loop back and construct the next candidate.
	}
}

func (p *OverlapPipeline) pastDue(t int64, stats TimeStats) bool {
	return p.policy.Excess(t, p.policy.OverlapCheckTime(stats))
}

func (p *OverlapPipeline) pushPageIntoMerger(pc *prioritizedPageCursor) error {
	b, err := pc.emit(p.direction, nil)
	if err != nil {
		return err
	}
	p.counters.addPage()
	p.merger.AddReader(b, pc.version, p.policy.OverlapCheckTime(pc))
	return nil
}

// seedMerger implements §4.5.5 step 1: push every currently-overlapping
// unseq page into the merger, and push firstPage itself (if unseq and
// still overlapping) too.
func (p *OverlapPipeline) seedMerger() error {
	if p.firstPage == nil {
		return nil
	}
	frontier, ok := p.merger.GetCurrentReadStopTime()
	if !ok {
		frontier = p.policy.OverlapCheckTime(p.firstPage)
	}
	for {
		cand, ok := p.unseqPages.peek()
		if !ok || !p.policy.RangesOverlap(p.firstPage, cand) {
			break
		}
		pc, _ := p.unseqPages.pop()
		if err := p.pushPageIntoMerger(pc); err != nil {
			return err
		}
	}
	if !p.firstPage.isSeq && p.policy.TimeOverlapsRange(frontier, p.firstPage) {
		fp := p.firstPage
		p.firstPage = nil
		if err := p.pushPageIntoMerger(fp); err != nil {
			return err
		}
	}
	return nil
}

// absorbOverlappingUnseqAt folds in any unseq page that has started
// overlapping by the time the cascade reaches t (part of §4.5.4's
// "cascade at t" / §4.5.5 step 2c).
func (p *OverlapPipeline) absorbOverlappingUnseqAt(t int64) error {
	for {
		cand, ok := p.unseqPages.peek()
		if !ok || !p.policy.TimeOverlapsRange(t, cand) {
			break
		}
		pc, _ := p.unseqPages.pop()
		if err := p.pushPageIntoMerger(pc); err != nil {
			return err
		}
	}
	return nil
}

// buildOverlapBatch implements §4.5.5: seed the merger, then repeatedly
// cascade-unpack at the merge reader's current head timestamp, folding in
// firstPage and the seq pool's front page as soon as their turn comes (or
// bailing out, returning the batch built so far, if either has already
// gone stale relative to the head), until the merger's safe read-stop
// frontier is reached or it drains.
func (p *OverlapPipeline) buildOverlapBatch() (*Batch, error) {
	for {
		assembler := NewBatchAssembler(p.dataType, p.direction, p.valueFilter)
		if err := p.seedMerger(); err != nil {
			return nil, err
		}

		for p.merger.HasNext() {
			pageEnd, _ := p.merger.GetCurrentReadStopTime()
			if p.firstPage != nil {
				pageEnd = p.policy.ClampFrontier(pageEnd, p.firstPage)
			}
			if seqCand, ok := peekFront(p.seqPages, p.direction); ok {
				pageEnd = p.policy.ClampFrontier(pageEnd, seqCand)
			}

			head, _ := p.merger.CurrentTimeValuePair()
			t := head.Timestamp

			if p.policy.Excess(t, pageEnd) {
				// pageEnd can only fall below a live source's own current
				// timestamp when it was clamped by firstPage or the seq
				// pool's front page (a merge source's own endFrontier is
				// always >= the merger's minimal head by construction) --
				// so one of those is always set here. Breaking either way
				// is safe: the outer loop retries when nothing was
				// appended but the merger still has data.
				break
			}

			if err := p.cascade(t); err != nil {
				return nil, err
			}
			if err := p.absorbOverlappingUnseqAt(t); err != nil {
				return nil, err
			}

			if p.firstPage != nil {
				if p.pastDue(t, p.firstPage) {
					return assembler.Build(), nil
				}
				fp := p.firstPage
				p.firstPage = nil
				if err := p.pushPageIntoMerger(fp); err != nil {
					return nil, err
				}
			}

			// Only fold seqCand in once the window has actually reached its
			// start; several non-overlapping pages exploded from the same
			// chunk sit here together, and a later one merely "not behind
			// t" yet would otherwise be realized well before its turn.
			if seqCand, ok := peekFront(p.seqPages, p.direction); ok &&
				!p.policy.Excess(p.policy.OrderTime(seqCand), pageEnd) {
				if p.pastDue(t, seqCand) {
					return assembler.Build(), nil
				}
				pc, _ := popFront(&p.seqPages, p.direction)
				if err := p.pushPageIntoMerger(pc); err != nil {
					return nil, err
				}
			}

			pair, _ := p.merger.NextTimeValuePair()
			assembler.Append(pair)
		}

		if assembler.Len() > 0 {
			return assembler.Build(), nil
		}
		if p.merger.Empty() {
			return nil, nil
		}
		// Nothing was appended this pass but the merger still has data
		// (§4.5.5 step 3): loop again.
	}
}

// CurrentPageStatistics returns firstPage's statistics. It reports false
// when no firstPage is set, including while a cached overlap batch is
// pending.
func (p *OverlapPipeline) CurrentPageStatistics() (Stats, bool) {
	if p.firstPage != nil {
		return p.firstPage.statistics(), true
	}
	return Stats{}, false
}

func (p *OverlapPipeline) CurrentPageModified() bool {
	return p.firstPage != nil && p.firstPage.isModified()
}

func (p *OverlapPipeline) SkipCurrentPage() {
	p.firstPage = nil
	p.cachedBatch = nil
}

// IsPageOverlapped implements isPageOverlapped (§4.5.3): true if an
// overlapped batch is already cached, else true if the unseq pool's head
// overlaps firstPage. If the merge reader still holds data whose
// timestamp falls inside firstPage's own range, that is a protocol
// violation: hasNextPage should already have folded it in.
func (p *OverlapPipeline) IsPageOverlapped() (bool, error) {
	if p.cachedBatch != nil {
		return true, nil
	}
	if p.firstPage == nil {
		return false, newProtocolMisuse("isPageOverlapped called with no current page")
	}
	if p.merger.HasNext() {
		head, _ := p.merger.CurrentTimeValuePair()
		if p.policy.TimeOverlapsRange(head.Timestamp, p.firstPage) {
			return false, newProtocolMisuse("merge reader still holds data inside firstPage's range")
		}
	}
	if cand, ok := p.unseqPages.peek(); ok {
		return p.policy.RangesOverlap(p.firstPage, cand), nil
	}
	return false, nil
}

// NextPage implements nextPage (§4.5.3): returns the cached overlap batch
// if one was built, else realizes firstPage directly with the pushed-down
// value filter.
func (p *OverlapPipeline) NextPage() (*Batch, error) {
	if p.cachedBatch != nil {
		b := p.cachedBatch
		p.cachedBatch = nil
		p.counters.addPoints(b.Len())
		return b, nil
	}
	if p.firstPage == nil {
		return nil, newProtocolMisuse("nextPage called with no ready batch")
	}
	fp := p.firstPage
	p.firstPage = nil
	b, err := fp.emit(p.direction, p.valueFilter)
	if err != nil {
		return nil, err
	}
	p.counters.addPage()
	p.counters.addPoints(b.Len())
	return FromPageDirect(b), nil
}
