package planner

import (
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfboys/iotdb/pkg/seriesreader"
)

func TestGapsIn(t *testing.T) {
	bounds := Window{Start: 0, End: 100}
	done := []Window{{Start: 20, End: 30}, {Start: 60, End: 70}}

	gaps := gapsIn(bounds, done)
	assert.Equal(t, []Window{
		{Start: 0, End: 19},
		{Start: 31, End: 59},
		{Start: 71, End: 100},
	}, gaps)
}

func TestGapsIn_FullyCovered(t *testing.T) {
	bounds := Window{Start: 0, End: 10}
	done := []Window{{Start: 0, End: 10}}
	assert.Empty(t, gapsIn(bounds, done))
}

func TestGapsIn_NoCoverage(t *testing.T) {
	bounds := Window{Start: 0, End: 10}
	assert.Equal(t, []Window{{Start: 0, End: 10}}, gapsIn(bounds, nil))
}

func TestSplitWindow(t *testing.T) {
	w := Window{Start: 0, End: 25}
	got := splitWindow(w, 10)
	assert.Equal(t, []Window{
		{Start: 0, End: 10},
		{Start: 11, End: 21},
		{Start: 22, End: 25},
	}, got)
}

func TestSplitWindow_NoSplitNeeded(t *testing.T) {
	w := Window{Start: 0, End: 5}
	assert.Equal(t, []Window{w}, splitWindow(w, 10))
}

type fakeLimits struct{ max int64 }

func (l fakeLimits) MaxTaskWindow(string) int64 { return l.max }

type emptyLoader struct{}

func (emptyLoader) LoadSeriesMetadata(context.Context, seriesreader.FileResource, string, seriesreader.TimeFilter, []string) (*seriesreader.SeriesMetadata, error) {
	return nil, nil
}
func (emptyLoader) LoadChunkList(context.Context, *seriesreader.SeriesMetadata) ([]*seriesreader.ChunkMetadata, error) {
	return nil, nil
}
func (emptyLoader) LoadPageList(context.Context, *seriesreader.ChunkMetadata, seriesreader.TimeFilter) ([]seriesreader.PageDecoder, error) {
	return nil, nil
}

func TestGapPlanner_Plan(t *testing.T) {
	p := NewGapPlanner(fakeLimits{max: 10}, emptyLoader{}, log.NewNopLogger())

	tasks, err := p.Plan(
		context.Background(),
		"s1", nil, "fake", seriesreader.Asc,
		nil, nil,
		Window{Start: 0, End: 25},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, Window{Start: 0, End: 10}, tasks[0].Gap)
	assert.Equal(t, Window{Start: 11, End: 21}, tasks[1].Gap)
	assert.Equal(t, Window{Start: 22, End: 25}, tasks[2].Gap)
	for _, task := range tasks {
		assert.NotNil(t, task.Reader)
		assert.Equal(t, "s1", task.Series)
	}
}

func TestGapPlanner_Plan_FullyCovered(t *testing.T) {
	p := NewGapPlanner(fakeLimits{max: 10}, emptyLoader{}, log.NewNopLogger())

	tasks, err := p.Plan(
		context.Background(),
		"s1", nil, "fake", seriesreader.Asc,
		nil, nil,
		Window{Start: 0, End: 10},
		[]Window{{Start: 0, End: 10}},
	)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
