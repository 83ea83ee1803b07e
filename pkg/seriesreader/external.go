package seriesreader

import "context"

// VersionKey is the lexicographic pair (fileVersion, chunkOffset) used to
// resolve same-timestamp conflicts across overlapping writes. Larger is
// newer. Per spec §9, fileVersion is unique by construction across files;
// chunkOffset only disambiguates chunks within one file.
type VersionKey struct {
	FileVersion int64
	ChunkOffset int64
}

// Less reports whether v is strictly older than other.
func (v VersionKey) Less(other VersionKey) bool {
	if v.FileVersion != other.FileVersion {
		return v.FileVersion < other.FileVersion
	}
	return v.ChunkOffset < other.ChunkOffset
}

// Stats is the per-tier statistics block shared by files, chunks and
// pages: min/max timestamp, point count, and per-type min/max value.
type Stats struct {
	Start, End int64
	Count      int64
	MinValue   interface{}
	MaxValue   interface{}
}

func (s Stats) StartTime() int64 { return s.Start }
func (s Stats) EndTime() int64   { return s.End }

// TimeValuePair is one decoded (timestamp, value) sample.
type TimeValuePair struct {
	Timestamp int64
	Value     interface{}
}

// ValueFilter is pushed down to non-overlapped pages; overlapping
// resolution discards based on VersionKey, not value (§6).
type ValueFilter interface {
	Satisfies(v interface{}) bool
}

// TimeFilter restricts the time ranges files/chunks/pages are loaded for;
// pushed down everywhere (§6).
type TimeFilter interface {
	// Overlaps reports whether [start,end] intersects the filter's range.
	Overlaps(start, end int64) bool
}

// FileResource is an opaque handle to a file containing data for many
// series, borrowed for the query lifetime from an external resource
// manager (§3, §5). The core never opens or closes it.
type FileResource interface {
	// Range returns the [start,end] time range and modified flag for
	// the given series within this file.
	Range(seriesIdentity string) (start, end int64, modified bool, ok bool)
	// FileVersion is the VersionKey.FileVersion for chunks loaded from
	// this file.
	FileVersion() int64
}

func (f *fileCandidate) StartTime() int64 { return f.start }
func (f *fileCandidate) EndTime() int64   { return f.end }

// fileCandidate is the pipeline's private view of a FileResource once its
// range for the target series has been resolved.
type fileCandidate struct {
	resource FileResource
	start    int64
	end      int64
	modified bool
	isSeq    bool
}

// SeriesMetadata is the per-series summary within one file (§3).
type SeriesMetadata struct {
	Stats      Stats
	IsSeq      bool
	Modified   bool
	chunksFile FileResource
}

func (m *SeriesMetadata) StartTime() int64 { return m.Stats.StartTime() }
func (m *SeriesMetadata) EndTime() int64   { return m.Stats.EndTime() }

// ChunkMetadata is the per-chunk summary: statistics, inherited isSeq, a
// VersionKey, and a handle to load pages (§3).
type ChunkMetadata struct {
	Stats    Stats
	IsSeq    bool
	Version  VersionKey
	Modified bool
	source   *SeriesMetadata
}

func (c *ChunkMetadata) StartTime() int64 { return c.Stats.StartTime() }
func (c *ChunkMetadata) EndTime() int64   { return c.Stats.EndTime() }

// PageDecoder is a lazy producer of a decoded batch for one page,
// parameterized by direction, with optional value-filter push-down (§6).
type PageDecoder interface {
	Statistics() Stats
	// AllSatisfiedData fully realizes the page in the given direction.
	// Must be called at most once per PageDecoder.
	AllSatisfiedData(direction Direction) (*Batch, error)
	SetFilter(filter ValueFilter)
}

// FileFilter is a file-level filter applied once at construction (§6),
// before any per-series metadata is loaded from either population.
type FileFilter func(FileResource) bool

// MetadataLoader is the set of inbound services the core requires from
// the surrounding query engine (§6). It is the only coupling point: the
// core never decodes a file format or evaluates a filter expression
// itself.
type MetadataLoader interface {
	LoadSeriesMetadata(
		ctx context.Context,
		file FileResource,
		seriesIdentity string,
		timeFilter TimeFilter,
		allSiblings []string,
	) (*SeriesMetadata, error)

	LoadChunkList(ctx context.Context, series *SeriesMetadata) ([]*ChunkMetadata, error)

	LoadPageList(ctx context.Context, chunk *ChunkMetadata, timeFilter TimeFilter) ([]PageDecoder, error)
}
