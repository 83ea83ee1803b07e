// Package log holds the package-level logger used across the series reader,
// modeled on the surrounding project's util/log convention.
package log

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Logger is the package-level logger used by every tier of the series
// reader. Callers embedding this module may overwrite it before
// constructing a SeriesReader.
var Logger = newDefaultLogger()

func newDefaultLogger() log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = level.NewFilter(l, level.AllowInfo())
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return l
}

// WithContext returns a logger with the given key/value pairs appended,
// e.g. log.WithContext("query", queryID).
func WithContext(keyvals ...interface{}) log.Logger {
	return log.With(Logger, keyvals...)
}
