package repository

import "errors"

// Shared sentinels for the conditional-write contract. Every multi-record
// mutation asserts the expected prior status in its filter; a filter that
// matches nothing surfaces as ErrStaleState when the record still exists and
// ErrNotFound when it does not.
var (
	// ErrNotFound means the record does not exist at all.
	ErrNotFound = errors.New("repository: record not found")

	// ErrStaleState means the record exists but its status no longer matches
	// what the caller asserted. Callers must re-fetch before retrying.
	ErrStaleState = errors.New("repository: state no longer matches precondition")
)
