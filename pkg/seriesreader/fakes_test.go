package seriesreader

import "context"

// In-memory fakes for FileResource / PageDecoder / MetadataLoader, shared
// by every test file in this package. They model just enough of a real
// TsFile-backed implementation to exercise the pipeline's cascade and
// overlap logic deterministically.

type fakeFile struct {
	name     string
	version  int64
	start    int64
	end      int64
	modified bool
	absent   bool
}

func (f *fakeFile) Range(string) (int64, int64, bool, bool) {
	if f.absent {
		return 0, 0, false, false
	}
	return f.start, f.end, f.modified, true
}

func (f *fakeFile) FileVersion() int64 { return f.version }

type fakePageSpec struct {
	start, end int64
	points     []TimeValuePair // ascending order
}

type fakeChunkSpec struct {
	offset int64
	start  int64
	end    int64
	pages  []fakePageSpec
}

type pageKey struct {
	file   FileResource
	offset int64
}

type fakeLoader struct {
	chunksByFile map[FileResource][]fakeChunkSpec
	pagesByChunk map[pageKey][]fakePageSpec
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		chunksByFile: map[FileResource][]fakeChunkSpec{},
		pagesByChunk: map[pageKey][]fakePageSpec{},
	}
}

// addFile registers a file's chunk layout; chunks/pages are keyed by the
// FileResource's own identity, so each *fakeFile must be distinct.
func (l *fakeLoader) addFile(f FileResource, chunks []fakeChunkSpec) {
	l.chunksByFile[f] = chunks
	for _, c := range chunks {
		l.pagesByChunk[pageKey{file: f, offset: c.offset}] = c.pages
	}
}

func (l *fakeLoader) LoadSeriesMetadata(
	_ context.Context,
	file FileResource,
	seriesIdentity string,
	_ TimeFilter,
	_ []string,
) (*SeriesMetadata, error) {
	start, end, modified, ok := file.Range(seriesIdentity)
	if !ok {
		return nil, nil
	}
	return &SeriesMetadata{
		Stats:      Stats{Start: start, End: end},
		Modified:   modified,
		chunksFile: file,
	}, nil
}

func (l *fakeLoader) LoadChunkList(_ context.Context, series *SeriesMetadata) ([]*ChunkMetadata, error) {
	specs := l.chunksByFile[series.chunksFile]
	out := make([]*ChunkMetadata, 0, len(specs))
	for _, c := range specs {
		out = append(out, &ChunkMetadata{
			Stats: Stats{Start: c.start, End: c.end},
			Version: VersionKey{
				FileVersion: series.chunksFile.FileVersion(),
				ChunkOffset: c.offset,
			},
			source: series,
		})
	}
	return out, nil
}

func (l *fakeLoader) LoadPageList(_ context.Context, chunk *ChunkMetadata, _ TimeFilter) ([]PageDecoder, error) {
	specs := l.pagesByChunk[pageKey{file: chunk.source.chunksFile, offset: chunk.Version.ChunkOffset}]
	out := make([]PageDecoder, 0, len(specs))
	for _, s := range specs {
		out = append(out, &fakePageDecoder{stats: Stats{Start: s.start, End: s.end}, points: s.points})
	}
	return out, nil
}

type fakePageDecoder struct {
	stats  Stats
	points []TimeValuePair
	filter ValueFilter
}

func (d *fakePageDecoder) Statistics() Stats       { return d.stats }
func (d *fakePageDecoder) SetFilter(f ValueFilter) { d.filter = f }

func (d *fakePageDecoder) AllSatisfiedData(direction Direction) (*Batch, error) {
	b := NewBatch("fake", direction)
	pts := d.points
	if direction == Desc {
		rev := make([]TimeValuePair, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}
	for _, p := range pts {
		if d.filter != nil && !d.filter.Satisfies(p.Value) {
			continue
		}
		b.append(p)
	}
	return b, nil
}

type allTimeFilter struct{}

func (allTimeFilter) Overlaps(int64, int64) bool { return true }

type minValueFilter struct{ min float64 }

func (f minValueFilter) Satisfies(v interface{}) bool { return v.(float64) >= f.min }

func batchPairs(b *Batch) []TimeValuePair {
	var out []TimeValuePair
	for b.Next() {
		out = append(out, b.At())
	}
	return out
}
