package holdings

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Error kinds for the pipeline. Loaders, the normalizer, and the report
// writer attach one of these with errors.Join so the engine can classify
// any wrapped failure with errors.Is.
var (
	// ErrFetch marks network or HTTP failures while downloading a feed.
	ErrFetch = eris.New("fetch failed")
	// ErrParse marks a response body that cannot be decoded into a table.
	ErrParse = eris.New("parse failed")
	// ErrSchema marks a canonical column missing after alias resolution.
	ErrSchema = eris.New("schema mismatch")
	// ErrWrite marks a report output failure.
	ErrWrite = eris.New("write failed")
)

// fetchErr wraps err as a fetch failure with context.
func fetchErr(err error, format string, args ...any) error {
	return eris.Wrapf(errors.Join(ErrFetch, err), format, args...)
}

// parseErr wraps err as a parse failure with context.
func parseErr(err error, format string, args ...any) error {
	return eris.Wrapf(errors.Join(ErrParse, err), format, args...)
}

// ErrorKind returns the taxonomy label for a pipeline error, for logs and
// run summaries.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrWrite):
		return "write"
	default:
		return "other"
	}
}
