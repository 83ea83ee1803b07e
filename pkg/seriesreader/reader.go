package seriesreader

import (
	"context"

	"github.com/google/uuid"
)

// ReaderConfig collects the construction-time inputs a SeriesReader needs
// (§6): the series being read, its declared type, the seq/unseq file
// populations to merge, and the direction/time/value/file filters to push
// down. QueryID is optional; if empty, a random one is generated so
// telemetry counters (when tracing is enabled) always have a label.
type ReaderConfig struct {
	SeriesIdentity string
	AllSiblings    []string
	DataType       string
	Direction      Direction

	SeqFiles   []FileResource
	UnseqFiles []FileResource

	TimeFilter  TimeFilter
	ValueFilter ValueFilter
	FileFilter  FileFilter

	QueryID string
}

// SeriesReader is the public entry point (§1, §6): a hierarchical,
// overlap-aware, version-shadowing, direction-parametric reader over one
// series' sequential and unsequential file populations. It wires a
// LazyFileCursor through an OverlapPipeline and exposes the four-tier
// hasNext/current/skip/isOverlapped surface described in §4.
type SeriesReader struct {
	pipeline *OverlapPipeline
}

// NewSeriesReader constructs a SeriesReader. metrics may be nil; telemetry
// is a no-op unless both metrics is non-nil and EnableTracing(true) has
// been called (§6).
func NewSeriesReader(ctx context.Context, loader MetadataLoader, cfg ReaderConfig, metrics *QueryMetrics) *SeriesReader {
	queryID := cfg.QueryID
	if queryID == "" {
		queryID = uuid.NewString()
	}
	counters := newQueryCounters(metrics, queryID)

	return &SeriesReader{
		pipeline: NewOverlapPipeline(
			ctx,
			loader,
			cfg.SeriesIdentity,
			cfg.AllSiblings,
			cfg.DataType,
			cfg.Direction,
			cfg.SeqFiles,
			cfg.UnseqFiles,
			cfg.TimeFilter,
			cfg.ValueFilter,
			cfg.FileFilter,
			counters,
		),
	}
}

// IsEmpty reports whether the reader has no outstanding work at any tier.
func (r *SeriesReader) IsEmpty() bool { return r.pipeline.IsEmpty() }

// File tier.
func (r *SeriesReader) HasNextFile() (bool, error)            { return r.pipeline.HasNextFile() }
func (r *SeriesReader) CurrentFileStatistics() (Stats, bool)  { return r.pipeline.CurrentFileStatistics() }
func (r *SeriesReader) CurrentFileModified() bool             { return r.pipeline.CurrentFileModified() }
func (r *SeriesReader) SkipCurrentFile()                      { r.pipeline.SkipCurrentFile() }
func (r *SeriesReader) IsFileOverlapped() (bool, error)       { return r.pipeline.IsFileOverlapped() }

// Chunk tier.
func (r *SeriesReader) HasNextChunk() (bool, error)           { return r.pipeline.HasNextChunk() }
func (r *SeriesReader) CurrentChunkStatistics() (Stats, bool) { return r.pipeline.CurrentChunkStatistics() }
func (r *SeriesReader) CurrentChunkModified() bool            { return r.pipeline.CurrentChunkModified() }
func (r *SeriesReader) SkipCurrentChunk()                     { r.pipeline.SkipCurrentChunk() }
func (r *SeriesReader) IsChunkOverlapped() (bool, error)      { return r.pipeline.IsChunkOverlapped() }

// Page tier.
func (r *SeriesReader) HasNextPage() (bool, error)            { return r.pipeline.HasNextPage() }
func (r *SeriesReader) CurrentPageStatistics() (Stats, bool)  { return r.pipeline.CurrentPageStatistics() }
func (r *SeriesReader) CurrentPageModified() bool             { return r.pipeline.CurrentPageModified() }
func (r *SeriesReader) SkipCurrentPage()                      { r.pipeline.SkipCurrentPage() }
func (r *SeriesReader) IsPageOverlapped() (bool, error)       { return r.pipeline.IsPageOverlapped() }
func (r *SeriesReader) NextPage() (*Batch, error)             { return r.pipeline.NextPage() }
