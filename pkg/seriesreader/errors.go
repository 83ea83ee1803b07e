package seriesreader

import "github.com/pkg/errors"

// ErrorKind classifies the fatal errors a SeriesReader can return. Per
// spec §7 there is no internal recovery: every kind bubbles to the caller
// and the reader must not be used again afterwards.
type ErrorKind int

const (
	// KindProtocolMisuse marks a programmer error: a tier method was
	// called while its preconditions (residual buffers, unconsumed
	// overlapped data) were violated.
	KindProtocolMisuse ErrorKind = iota
	// KindCancelled marks cooperative cancellation observed at a tier
	// entry point.
	KindCancelled
	// KindLoad marks a failure propagated from an external collaborator
	// (metadata/chunk/page load).
	KindLoad
)

func (k ErrorKind) String() string {
	switch k {
	case KindProtocolMisuse:
		return "protocol_misuse"
	case KindCancelled:
		return "cancelled"
	case KindLoad:
		return "load"
	default:
		return "unknown"
	}
}

// ReaderError wraps an ErrorKind with the underlying cause, if any.
type ReaderError struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *ReaderError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap allows errors.Is/errors.As (and errors.Cause) to reach the
// underlying cause.
func (e *ReaderError) Unwrap() error { return e.err }

// Cause implements the github.com/pkg/errors Causer interface.
func (e *ReaderError) Cause() error { return e.err }

func newProtocolMisuse(msg string) error {
	return &ReaderError{Kind: KindProtocolMisuse, msg: msg}
}

func newCancelled(msg string) error {
	return &ReaderError{Kind: KindCancelled, msg: msg}
}

func newLoadError(msg string, cause error) error {
	return &ReaderError{Kind: KindLoad, msg: msg, err: errors.WithStack(cause)}
}

// KindOf reports the ErrorKind of err, or false if err was not produced by
// this package.
func KindOf(err error) (ErrorKind, bool) {
	var re *ReaderError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}

// IsCancelled reports whether err (or its cause chain) is a cooperative
// cancellation error.
func IsCancelled(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindCancelled
}
