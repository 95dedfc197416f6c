package deltalog

import "errors"

// Sentinel errors returned by Load. Handlers translate these into the
// protocol error taxonomy (internal/errors); the reader itself stays
// transport-agnostic.
var (
	ErrNotFound     = errors.New("deltalog: requested version not found")
	ErrCorruptLog   = errors.New("deltalog: transaction log file could not be read")
	ErrIncompleteLog = errors.New("deltalog: log replay produced no protocol or metadata")

	errChangeDataFeedDisabled = errors.New("deltalog: change data feed is not enabled")
)

// ErrChangeDataFeedDisabled is returned by LoadChanges when the table's
// metadata does not have delta.enableChangeDataFeed set to "true".
func ErrChangeDataFeedDisabled() error { return errChangeDataFeedDisabled }

// IsChangeDataFeedDisabled reports whether err is that sentinel.
func IsChangeDataFeedDisabled(err error) bool { return errors.Is(err, errChangeDataFeedDisabled) }
