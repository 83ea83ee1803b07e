// Package planner discovers the time windows of a series not already
// covered by prior work and drives one seriesreader.SeriesReader per
// resulting window. It exists to demonstrate the external-collaborator
// boundary described in spec §1/§6: nothing in pkg/seriesreader knows
// about "tasks", "coverage" or "gaps" -- those are planning concerns that
// live entirely on the caller's side of the MetadataLoader/FileResource
// interfaces.
package planner

import (
	"context"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/wolfboys/iotdb/pkg/seriesreader"
)

// Window is a closed time range [Start, End].
type Window struct {
	Start, End int64
}

// Len reports the number of time units spanned by w.
func (w Window) Len() int64 { return w.End - w.Start }

// Task is one unit of work: a SeriesReader ready to be driven over a
// single gap in already-covered coverage.
type Task struct {
	Series string
	Gap    Window
	Reader *seriesreader.SeriesReader
}

// GapStrategyLimits mirrors the teacher's ChunkSizeStrategyLimits: a
// per-series knob controlling how wide a single task's window may grow
// before it is split into several tasks.
type GapStrategyLimits interface {
	MaxTaskWindow(seriesIdentity string) int64
}

// GapPlanner discovers the windows of [bounds.Start, bounds.End] not
// already covered by `done`, splits any gap exceeding the series' task
// window limit, and returns one Task per resulting window. Grounded on
// the teacher's ChunkSizeStrategy.Plan: find gaps against existing
// coverage, then batch the remaining work against a target size (there,
// bytes of chunk data; here, a time-window width).
type GapPlanner struct {
	limits GapStrategyLimits
	loader seriesreader.MetadataLoader
	logger log.Logger
}

// NewGapPlanner constructs a GapPlanner.
func NewGapPlanner(limits GapStrategyLimits, loader seriesreader.MetadataLoader, logger log.Logger) *GapPlanner {
	return &GapPlanner{limits: limits, loader: loader, logger: logger}
}

// Plan finds the gaps in `done` coverage across bounds, splits any gap
// wider than the series' configured task window, and returns one
// SeriesReader-backed Task per resulting window.
func (p *GapPlanner) Plan(
	ctx context.Context,
	seriesIdentity string,
	allSiblings []string,
	dataType string,
	direction seriesreader.Direction,
	seqFiles, unseqFiles []seriesreader.FileResource,
	bounds Window,
	done []Window,
) ([]*Task, error) {
	logger := log.With(p.logger, "series", seriesIdentity)

	gaps := gapsIn(bounds, done)
	if len(gaps) == 0 {
		level.Debug(logger).Log("msg", "no gaps, series fully covered")
		return nil, nil
	}

	maxWindow := p.limits.MaxTaskWindow(seriesIdentity)
	var windows []Window
	for _, g := range gaps {
		windows = append(windows, splitWindow(g, maxWindow)...)
	}

	tasks := make([]*Task, 0, len(windows))
	for _, w := range windows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		reader := seriesreader.NewSeriesReader(ctx, p.loader, seriesreader.ReaderConfig{
			SeriesIdentity: seriesIdentity,
			AllSiblings:    allSiblings,
			DataType:       dataType,
			Direction:      direction,
			SeqFiles:       seqFiles,
			UnseqFiles:     unseqFiles,
			TimeFilter:     windowTimeFilter{w},
		}, nil)

		tasks = append(tasks, &Task{Series: seriesIdentity, Gap: w, Reader: reader})
	}

	level.Debug(logger).Log("msg", "planned tasks", "gaps", len(gaps), "tasks", len(tasks))
	return tasks, nil
}

// gapsIn returns the sub-windows of bounds not covered by any window in
// done. done need not be sorted or disjoint.
func gapsIn(bounds Window, done []Window) []Window {
	sorted := append([]Window(nil), done...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var gaps []Window
	cursor := bounds.Start
	for _, d := range sorted {
		if d.End < cursor || d.Start > bounds.End {
			continue
		}
		if d.Start > cursor {
			gaps = append(gaps, Window{Start: cursor, End: d.Start - 1})
		}
		if d.End+1 > cursor {
			cursor = d.End + 1
		}
	}
	if cursor <= bounds.End {
		gaps = append(gaps, Window{Start: cursor, End: bounds.End})
	}
	return gaps
}

// splitWindow breaks w into consecutive sub-windows no wider than max. A
// non-positive max disables splitting.
func splitWindow(w Window, max int64) []Window {
	if max <= 0 || w.Len() <= max {
		return []Window{w}
	}
	out := make([]Window, 0, w.Len()/max+1)
	for start := w.Start; start <= w.End; start += max + 1 {
		end := start + max
		if end > w.End {
			end = w.End
		}
		out = append(out, Window{Start: start, End: end})
	}
	return out
}

// windowTimeFilter adapts a Window to seriesreader.TimeFilter.
type windowTimeFilter struct{ w Window }

func (f windowTimeFilter) Overlaps(start, end int64) bool {
	return start <= f.w.End && end >= f.w.Start
}
